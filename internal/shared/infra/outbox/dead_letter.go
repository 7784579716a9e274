package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

// DeadLetterRepo guarda en la misma base de datos los mensajes que agotaron sus intentos.
type DeadLetterRepo struct {
	db *sqlx.DB
}

func NewDeadLetterRepo(db *sqlx.DB) *DeadLetterRepo {
	return &DeadLetterRepo{db: db}
}

var _ sharedDomain.DeadLetterStore = (*DeadLetterRepo)(nil)

func (r *DeadLetterRepo) StoreDeadLetter(ctx context.Context, msg sharedDomain.OutboxMessage, reason string) error {
	// Puede repetirse si el borrado posterior de la fila de outbox falla.
	query := r.db.Rebind(`INSERT INTO outbox_dead_letters
		(message_id, aggregate_type, aggregate_id, event_type, payload, attempts, reason, created_at, dead_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (message_id) DO NOTHING`)
	_, err := r.db.ExecContext(ctx, query,
		msg.MessageID, msg.AggregateType, msg.AggregateID, msg.EventType, string(msg.Payload),
		msg.Attempts, truncate(reason, 1024), msg.CreatedAt.UTC(), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert dead letter %s: %w", msg.MessageID, err)
	}
	return nil
}

type deadLetterRow struct {
	outboxRow
	Reason string    `db:"reason"`
	DeadAt time.Time `db:"dead_at"`
}

// List devuelve los mensajes muertos más recientes primero.
func (r *DeadLetterRepo) List(ctx context.Context, limit int) ([]sharedDomain.OutboxMessage, error) {
	var rows []deadLetterRow
	query := r.db.Rebind(`SELECT message_id, aggregate_type, aggregate_id, event_type, payload, attempts, reason, created_at, dead_at
		FROM outbox_dead_letters
		ORDER BY dead_at DESC
		LIMIT ?`)
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list dead letters: %w", err)
	}

	out := make([]sharedDomain.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		msg := row.toDomain()
		msg.LastError = row.Reason
		out = append(out, msg)
	}
	return out, nil
}
