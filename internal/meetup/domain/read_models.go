package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
	"github.com/davicafu/meetups/internal/shared/platform/query"
)

// ---------------- Lado de lectura ----------------

type MeetupView struct {
	ID          uuid.UUID                     `json:"id" db:"meetup_id"`
	CreatorID   uuid.UUID                     `json:"creator_id" db:"creator_id"`
	Title       string                        `json:"title" db:"title"`
	Description string                        `json:"description" db:"description"`
	Address     string                        `json:"address" db:"address"`
	City        string                        `json:"city" db:"city"`
	Country     string                        `json:"country" db:"country"`
	StartDate   time.Time                     `json:"start_date" db:"start_date"`
	FinishDate  time.Time                     `json:"finish_date" db:"finish_date"`
	Status      MeetupStatus                  `json:"status" db:"status"`
	Moderation  sharedDomain.ModerationStatus `json:"moderation_status" db:"moderation_status"`
	Rating      decimal.Decimal               `json:"rating" db:"rating"`
	PostedAt    time.Time                     `json:"posted_at" db:"posted_at"`
}

type ReviewView struct {
	ID         uuid.UUID                     `json:"id" db:"review_id"`
	MeetupID   uuid.UUID                     `json:"meetup_id" db:"meetup_id"`
	ReviewerID uuid.UUID                     `json:"reviewer_id" db:"reviewer_id"`
	Rating     int                           `json:"rating" db:"rating"`
	Comment    string                        `json:"comment" db:"comment"`
	Moderation sharedDomain.ModerationStatus `json:"moderation_status" db:"moderation_status"`
	AddedAt    time.Time                     `json:"added_at" db:"added_at"`
}

type MeetupGateway interface {
	ListMeetups(ctx context.Context, c query.Criteria, p query.Pagination) ([]MeetupView, error)
	// ListFinishedBefore devuelve los ids de meetups cuya fecha de fin es anterior a t.
	ListFinishedBefore(ctx context.Context, t time.Time) ([]uuid.UUID, error)
	// ListStale devuelve los ids de meetups cuyo estado no coincide con el del día dado.
	ListStale(ctx context.Context, day time.Time) ([]uuid.UUID, error)
}

type ReviewGateway interface {
	ListReviews(ctx context.Context, c query.Criteria, p query.Pagination) ([]ReviewView, error)
}

// ---------------- Criterios ----------------

// ModerationIn filtra por estado de moderación.
type ModerationIn []sharedDomain.ModerationStatus

func (m ModerationIn) ToConditions() []query.Criterion {
	values := make([]string, len(m))
	for i, s := range m {
		values[i] = string(s)
	}
	return []query.Criterion{{Field: "moderation_status", Op: query.OpIn, Value: values}}
}

type MeetupIDCriteria struct {
	ID uuid.UUID
}

func (c MeetupIDCriteria) ToConditions() []query.Criterion {
	return []query.Criterion{{Field: "meetup_id", Op: query.OpEq, Value: c.ID.String()}}
}
