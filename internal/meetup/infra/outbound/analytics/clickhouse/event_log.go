package clickhouse

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/meetups/internal/shared/events"
	"github.com/davicafu/meetups/internal/shared/infra/platform/bus"
)

// LoggedEvent es una fila de meetup_events_log.
type LoggedEvent struct {
	MessageID  uuid.UUID
	EventType  string
	MeetupID   uuid.UUID
	ReviewID   uuid.UUID
	OccurredAt time.Time
	Payload    string
}

// DailyCount es el número de eventos de un tipo en un día.
type DailyCount struct {
	Day       time.Time
	EventType string
	Count     uint64
}

// EventLogRepo guarda en ClickHouse cada evento publicado por el outbox.
type EventLogRepo struct {
	db  *sql.DB
	log *zap.Logger
}

// NewEventLogRepo abre la conexión y comprueba que responde.
func NewEventLogRepo(addr, dbName string, log *zap.Logger) (*EventLogRepo, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}
	return NewEventLogRepoFromDB(conn, log), nil
}

func NewEventLogRepoFromDB(db *sql.DB, log *zap.Logger) *EventLogRepo {
	return &EventLogRepo{db: db, log: log}
}

var _ bus.MessageHandler = (*EventLogRepo)(nil)

// HandleMessage registra un sobre recibido del broker.
func (r *EventLogRepo) HandleMessage(ctx context.Context, _ string, payload []byte) error {
	env, err := events.Decode(payload)
	if err != nil {
		// un sobre ilegible no se va a poder leer nunca: se descarta
		r.log.Warn("⚠️ Evento ilegible descartado del log analítico", zap.Error(err))
		return nil
	}

	var ids struct {
		MeetupID uuid.UUID `json:"meetup_id"`
		ReviewID uuid.UUID `json:"review_id"`
	}
	_ = json.Unmarshal(env.Data, &ids)

	return r.LogBatch(ctx, []LoggedEvent{{
		MessageID:  env.MessageID,
		EventType:  env.Type,
		MeetupID:   ids.MeetupID,
		ReviewID:   ids.ReviewID,
		OccurredAt: env.Timestamp,
		Payload:    string(env.Data),
	}})
}

// LogBatch inserta un lote de eventos. ClickHouse funciona mejor con inserciones en lotes.
func (r *EventLogRepo) LogBatch(ctx context.Context, batch []LoggedEvent) error {
	if len(batch) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO meetup_events_log (message_id, event_type, meetup_id, review_id, occurred_at, payload, logged_at)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	loggedAt := time.Now().UTC()
	for _, evt := range batch {
		if _, err := stmt.ExecContext(ctx,
			evt.MessageID,
			evt.EventType,
			evt.MeetupID,
			evt.ReviewID,
			evt.OccurredAt,
			evt.Payload,
			loggedAt,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to exec statement for event %s: %w", evt.MessageID, err)
		}
	}
	return tx.Commit()
}

// DailyCounts agrupa los eventos por día y tipo.
func (r *EventLogRepo) DailyCounts(ctx context.Context, start, end time.Time) ([]DailyCount, error) {
	query := `
		SELECT toStartOfDay(occurred_at) AS day, event_type, count() AS total
		FROM meetup_events_log
		WHERE occurred_at BETWEEN ? AND ?
		GROUP BY day, event_type
		ORDER BY day, event_type
	`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailyCount
	for rows.Next() {
		var c DailyCount
		if err := rows.Scan(&c.Day, &c.EventType, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// InitSchema crea la tabla si no existe. ReplacingMergeTree descarta los duplicados por message_id.
func (r *EventLogRepo) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS meetup_events_log (
			message_id  UUID,
			event_type  LowCardinality(String),
			meetup_id   UUID,
			review_id   UUID,
			occurred_at DateTime64(3),
			payload     String,
			logged_at   DateTime64(3)
		) ENGINE = ReplacingMergeTree()
		PARTITION BY toYYYYMM(occurred_at)
		ORDER BY (event_type, occurred_at, message_id);
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}
