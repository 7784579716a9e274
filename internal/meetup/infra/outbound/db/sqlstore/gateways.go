package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/davicafu/meetups/internal/meetup/domain"
	"github.com/davicafu/meetups/internal/shared/platform/query"
)

// MeetupGateway es el lado de lectura; no pasa por la unidad de trabajo.
type MeetupGateway struct {
	exec sqlx.ExtContext
}

func NewMeetupGateway(exec sqlx.ExtContext) *MeetupGateway {
	return &MeetupGateway{exec: exec}
}

var _ domain.MeetupGateway = (*MeetupGateway)(nil)

func (g *MeetupGateway) ListMeetups(ctx context.Context, c query.Criteria, p query.Pagination) ([]domain.MeetupView, error) {
	where, args, err := query.Where(c)
	if err != nil {
		return nil, err
	}
	p = p.Normalize()
	stmt := fmt.Sprintf(`SELECT
		meetup_id, creator_id, title, description, address, city, country,
		start_date, finish_date, status, moderation_status, rating, posted_at
		FROM meetups %s ORDER BY start_date, meetup_id LIMIT ? OFFSET ?`, where)

	out := []domain.MeetupView{}
	if err := sqlx.SelectContext(ctx, g.exec, &out, g.exec.Rebind(stmt), append(args, p.Limit, p.Offset)...); err != nil {
		return nil, fmt.Errorf("list meetups: %w", err)
	}
	return out, nil
}

func (g *MeetupGateway) ListFinishedBefore(ctx context.Context, t time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := sqlx.SelectContext(ctx, g.exec, &ids,
		g.exec.Rebind(`SELECT meetup_id FROM meetups WHERE finish_date < ? ORDER BY finish_date`), t.UTC())
	if err != nil {
		return nil, fmt.Errorf("list finished meetups: %w", err)
	}
	return ids, nil
}

// ListStale compara por día: antes del día de inicio coming, después del día de fin completed.
func (g *MeetupGateway) ListStale(ctx context.Context, day time.Time) ([]uuid.UUID, error) {
	y, m, d := day.UTC().Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	startOfNext := startOfDay.AddDate(0, 0, 1)

	var ids []uuid.UUID
	err := sqlx.SelectContext(ctx, g.exec, &ids, g.exec.Rebind(`SELECT meetup_id FROM meetups WHERE
		(start_date >= ? AND status <> ?)
		OR (start_date < ? AND finish_date >= ? AND status <> ?)
		OR (finish_date < ? AND status <> ?)
		ORDER BY start_date`),
		startOfNext, string(domain.StatusComing),
		startOfNext, startOfDay, string(domain.StatusStarted),
		startOfDay, string(domain.StatusCompleted),
	)
	if err != nil {
		return nil, fmt.Errorf("list stale meetups: %w", err)
	}
	return ids, nil
}

type ReviewGateway struct {
	exec sqlx.ExtContext
}

func NewReviewGateway(exec sqlx.ExtContext) *ReviewGateway {
	return &ReviewGateway{exec: exec}
}

var _ domain.ReviewGateway = (*ReviewGateway)(nil)

func (g *ReviewGateway) ListReviews(ctx context.Context, c query.Criteria, p query.Pagination) ([]domain.ReviewView, error) {
	where, args, err := query.Where(c)
	if err != nil {
		return nil, err
	}
	p = p.Normalize()
	stmt := fmt.Sprintf(`SELECT review_id, meetup_id, reviewer_id, rating, comment, moderation_status, added_at
		FROM reviews %s ORDER BY added_at, review_id LIMIT ? OFFSET ?`, where)

	out := []domain.ReviewView{}
	if err := sqlx.SelectContext(ctx, g.exec, &out, g.exec.Rebind(stmt), append(args, p.Limit, p.Offset)...); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return out, nil
}
