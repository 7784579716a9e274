package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

const ReviewKind = "review"

// Review es la reseña de un usuario sobre un meetup. Sus cambios pasan siempre por el Meetup.
type Review struct {
	sharedDomain.AggregateRoot
	ID         uuid.UUID
	MeetupID   uuid.UUID
	ReviewerID uuid.UUID
	Rating     int
	Comment    string
	Moderation sharedDomain.ModerationStatus
	AddedAt    time.Time
}

func (r *Review) Identity() sharedDomain.Identity {
	return sharedDomain.Identity{Kind: ReviewKind, ID: r.ID}
}

var _ sharedDomain.Entity = (*Review)(nil)

func (r *Review) base(now time.Time) reviewEvent {
	return reviewEvent{EventBase: sharedDomain.NewEventBase(now), ReviewID: r.ID, MeetupID: r.MeetupID}
}

func (r *Review) IsApproved() bool {
	return r.Moderation == sharedDomain.ModerationApproved
}

// edit cambia nota y comentario. Sólo se edita una reseña aprobada, y cualquier cambio
// la devuelve a moderación pendiente.
func (r *Review) edit(uow sharedDomain.UnitOfWork, rating int, comment string, now time.Time) (bool, error) {
	if !r.IsApproved() {
		return false, ErrReviewModerationRequired
	}
	if err := ValidateRating(rating); err != nil {
		return false, err
	}

	changed := false
	if rating != r.Rating {
		r.Rating = rating
		r.Record(&ReviewRatingChanged{reviewEvent: r.base(now), Rating: rating})
		changed = true
	}
	if comment != r.Comment {
		r.Comment = comment
		r.Record(&ReviewCommentChanged{reviewEvent: r.base(now), Comment: comment})
		changed = true
	}
	if !changed {
		return false, nil
	}
	r.Moderation = sharedDomain.ModerationPending
	uow.RegisterDirty(r)
	return true, nil
}

func (r *Review) moderate(uow sharedDomain.UnitOfWork, status sharedDomain.ModerationStatus, now time.Time) bool {
	if r.Moderation == status {
		return false
	}
	r.Moderation = status
	r.Record(&ReviewModerated{reviewEvent: r.base(now), Moderation: status})
	uow.RegisterDirty(r)
	return true
}
