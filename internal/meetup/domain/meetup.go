package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

const MeetupKind = "meetup"

// Meetup es la raíz del agregado. Los métodos que mutan reciben la unidad de trabajo
// y registran en ella lo que tocan; el agregado no guarda ninguna referencia a ella.
type Meetup struct {
	sharedDomain.AggregateRoot
	ID          uuid.UUID
	CreatorID   uuid.UUID
	Title       string
	Description string
	Location    Location
	Time        TimeSlot
	Status      MeetupStatus
	Moderation  sharedDomain.ModerationStatus
	Rating      decimal.Decimal
	PostedAt    time.Time
	Reviews     Reviews
}

var _ sharedDomain.Entity = (*Meetup)(nil)

func (m *Meetup) Identity() sharedDomain.Identity {
	return sharedDomain.Identity{Kind: MeetupKind, ID: m.ID}
}

func (m *Meetup) base(now time.Time) meetupEvent {
	return meetupEvent{EventBase: sharedDomain.NewEventBase(now), MeetupID: m.ID}
}

// NewMeetup crea un meetup pendiente de moderación. El repositorio lo registra como nuevo.
func NewMeetup(id, creatorID uuid.UUID, title, description string, loc Location, slot TimeSlot, now time.Time) *Meetup {
	m := &Meetup{
		ID:          id,
		CreatorID:   creatorID,
		Title:       title,
		Description: description,
		Location:    loc,
		Time:        slot,
		Status:      slot.StatusAt(now),
		Moderation:  sharedDomain.ModerationPending,
		Rating:      decimal.Zero,
		PostedAt:    now.UTC(),
	}
	m.Record(&MeetupCreated{
		meetupEvent: m.base(now),
		CreatorID:   creatorID,
		Title:       title,
		Description: description,
		Location:    loc,
		Time:        slot,
	})
	return m
}

func (m *Meetup) IsApproved() bool {
	return m.Moderation == sharedDomain.ModerationApproved
}

func (m *Meetup) EditStatus(uow sharedDomain.UnitOfWork, status MeetupStatus, now time.Time) {
	if m.Status == status {
		return
	}
	m.Status = status
	m.Record(&MeetupStatusChanged{meetupEvent: m.base(now), Status: status})
	uow.RegisterDirty(m)
}

func (m *Meetup) Moderate(uow sharedDomain.UnitOfWork, status sharedDomain.ModerationStatus, now time.Time) error {
	if !status.Valid() {
		return ErrInvalidModeration
	}
	if m.Moderation == status {
		return nil
	}
	m.Moderation = status
	m.Record(&MeetupModerated{meetupEvent: m.base(now), Moderation: status})
	uow.RegisterDirty(m)
	return nil
}

// AddReview sólo se permite sobre meetups aprobados y una vez por usuario.
func (m *Meetup) AddReview(uow sharedDomain.UnitOfWork, reviewID, reviewerID uuid.UUID, rating int, comment string, now time.Time) (*Review, error) {
	if !m.IsApproved() {
		return nil, ErrMeetupModerationRequired
	}
	if _, ok := m.Reviews.ByReviewer(reviewerID); ok {
		return nil, ErrReviewAlreadyAdded
	}
	if err := ValidateRating(rating); err != nil {
		return nil, err
	}

	r := &Review{
		ID:         reviewID,
		MeetupID:   m.ID,
		ReviewerID: reviewerID,
		Rating:     rating,
		Comment:    comment,
		Moderation: sharedDomain.ModerationPending,
		AddedAt:    now.UTC(),
	}
	r.Record(&ReviewAdded{reviewEvent: r.base(now), ReviewerID: reviewerID, Rating: rating, Comment: comment})
	m.Reviews = append(m.Reviews, r)
	uow.RegisterNew(r)
	return r, nil
}

func (m *Meetup) ownReview(reviewID, editorID uuid.UUID) (*Review, error) {
	r, ok := m.Reviews.Find(reviewID)
	if !ok {
		return nil, ErrReviewNotFound
	}
	if r.ReviewerID != editorID {
		return nil, ErrReviewOnlyOwnerCanEdit
	}
	return r, nil
}

func (m *Meetup) EditReview(uow sharedDomain.UnitOfWork, reviewID, editorID uuid.UUID, rating int, comment string, now time.Time) error {
	r, err := m.ownReview(reviewID, editorID)
	if err != nil {
		return err
	}
	changed, err := r.edit(uow, rating, comment, now)
	if err != nil || !changed {
		return err
	}
	m.recalculateRating(uow, now)
	return nil
}

func (m *Meetup) DropReview(uow sharedDomain.UnitOfWork, reviewID, editorID uuid.UUID, now time.Time) error {
	r, err := m.ownReview(reviewID, editorID)
	if err != nil {
		return err
	}
	r.Record(&ReviewDeleted{reviewEvent: r.base(now)})
	uow.RegisterDeleted(r)
	m.Reviews = m.Reviews.without(r.ID)
	m.recalculateRating(uow, now)
	return nil
}

func (m *Meetup) ModerateReview(uow sharedDomain.UnitOfWork, reviewID uuid.UUID, status sharedDomain.ModerationStatus, now time.Time) error {
	if !status.Valid() {
		return ErrInvalidModeration
	}
	r, ok := m.Reviews.Find(reviewID)
	if !ok {
		return ErrReviewNotFound
	}
	if r.moderate(uow, status, now) {
		m.recalculateRating(uow, now)
	}
	return nil
}

// Remove marca el meetup para borrado junto con sus reseñas. El repositorio registra el meetup.
func (m *Meetup) Remove(uow sharedDomain.UnitOfWork, now time.Time) {
	for _, r := range m.Reviews {
		uow.RegisterDeleted(r)
	}
	m.Reviews = nil
	m.Record(&MeetupDeleted{meetupEvent: m.base(now)})
}

// recalculateRating deja la media de las reseñas aprobadas, con dos decimales.
// Si cambia se emite MeetupRatingChanged como evento propio.
func (m *Meetup) recalculateRating(uow sharedDomain.UnitOfWork, now time.Time) {
	sum, n := decimal.Zero, int64(0)
	for _, r := range m.Reviews {
		if r.IsApproved() {
			sum = sum.Add(decimal.NewFromInt(int64(r.Rating)))
			n++
		}
	}
	rating := decimal.Zero
	if n > 0 {
		rating = sum.DivRound(decimal.NewFromInt(n), 2)
	}
	if rating.Equal(m.Rating) {
		return
	}
	m.Rating = rating
	m.Record(&MeetupRatingChanged{meetupEvent: m.base(now), Rating: rating})
	uow.RegisterDirty(m)
}
