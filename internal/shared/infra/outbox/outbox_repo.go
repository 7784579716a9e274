package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

// OutboxRepo es la tabla outbox sobre sqlite o postgres. Las consultas se escriben con ?
// y sqlx las reescribe al dialecto del driver.
type OutboxRepo struct {
	db *sqlx.DB
}

func NewOutboxRepo(db *sqlx.DB) *OutboxRepo {
	return &OutboxRepo{db: db}
}

var (
	_ sharedDomain.OutboxRepository = (*OutboxRepo)(nil)
	_ Writer                        = (*OutboxRepo)(nil)
)

type outboxRow struct {
	MessageID     uuid.UUID `db:"message_id"`
	AggregateType string    `db:"aggregate_type"`
	AggregateID   string    `db:"aggregate_id"`
	EventType     string    `db:"event_type"`
	Payload       []byte    `db:"payload"`
	Attempts      int       `db:"attempts"`
	LastError     string    `db:"last_error"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r outboxRow) toDomain() sharedDomain.OutboxMessage {
	return sharedDomain.OutboxMessage{
		MessageID:     r.MessageID,
		AggregateType: r.AggregateType,
		AggregateID:   r.AggregateID,
		EventType:     r.EventType,
		Payload:       r.Payload,
		Attempts:      r.Attempts,
		LastError:     r.LastError,
		CreatedAt:     r.CreatedAt,
	}
}

// Store inserta el mensaje con la conexión recibida, normalmente la transacción de la petición.
func (r *OutboxRepo) Store(ctx context.Context, exec sqlx.ExtContext, msg sharedDomain.OutboxMessage) error {
	query := exec.Rebind(`INSERT INTO outbox
		(message_id, aggregate_type, aggregate_id, event_type, payload, attempts, last_error, created_at)
		VALUES (?, ?, ?, ?, ?, 0, '', ?)`)
	_, err := exec.ExecContext(ctx, query,
		msg.MessageID, msg.AggregateType, msg.AggregateID, msg.EventType, string(msg.Payload), msg.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert outbox %s: %w", msg.MessageID, err)
	}
	return nil
}

// FetchPendingOutbox devuelve las filas más antiguas primero: el orden de inserción es el de entrega.
func (r *OutboxRepo) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxMessage, error) {
	var rows []outboxRow
	query := r.db.Rebind(`SELECT message_id, aggregate_type, aggregate_id, event_type, payload, attempts, last_error, created_at
		FROM outbox
		ORDER BY seq
		LIMIT ?`)
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("fetch outbox: %w", err)
	}

	out := make([]sharedDomain.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// AckOutbox borra la fila tras una publicación confirmada.
func (r *OutboxRepo) AckOutbox(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM outbox WHERE message_id = ?`), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get RowsAffected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrOutboxNotFound, id)
	}
	return nil
}

func (r *OutboxRepo) NackOutbox(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind(`UPDATE outbox SET attempts = attempts + 1, last_error = ? WHERE message_id = ?`),
		truncate(reason, 1024), id,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *OutboxRepo) CountPending(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM outbox`); err != nil {
		return 0, err
	}
	return n, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
