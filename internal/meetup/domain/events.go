package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

// Tipos de evento. También son la routing key en el broker.
const (
	MeetupCreatedEvent        = "MeetupCreated"
	MeetupStatusChangedEvent  = "MeetupStatusChanged"
	MeetupModeratedEvent      = "MeetupModerated"
	MeetupRatingChangedEvent  = "MeetupRatingChanged"
	MeetupDeletedEvent        = "MeetupDeleted"
	ReviewAddedEvent          = "ReviewAdded"
	ReviewRatingChangedEvent  = "ReviewRatingChanged"
	ReviewCommentChangedEvent = "ReviewCommentChanged"
	ReviewModeratedEvent      = "ReviewModerated"
	ReviewDeletedEvent        = "ReviewDeleted"
)

// EventTypes lista todos los tipos, p. ej. para enlazar colas.
func EventTypes() []string {
	return []string{
		MeetupCreatedEvent, MeetupStatusChangedEvent, MeetupModeratedEvent, MeetupRatingChangedEvent, MeetupDeletedEvent,
		ReviewAddedEvent, ReviewRatingChangedEvent, ReviewCommentChangedEvent, ReviewModeratedEvent, ReviewDeletedEvent,
	}
}

type meetupEvent struct {
	sharedDomain.EventBase
	MeetupID uuid.UUID `json:"meetup_id"`
}

func (e *meetupEvent) AggregateIdentity() sharedDomain.Identity {
	return sharedDomain.Identity{Kind: MeetupKind, ID: e.MeetupID}
}

type reviewEvent struct {
	sharedDomain.EventBase
	ReviewID uuid.UUID `json:"review_id"`
	MeetupID uuid.UUID `json:"meetup_id"`
}

func (e *reviewEvent) AggregateIdentity() sharedDomain.Identity {
	return sharedDomain.Identity{Kind: ReviewKind, ID: e.ReviewID}
}

type MeetupCreated struct {
	meetupEvent
	CreatorID   uuid.UUID `json:"creator_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    Location  `json:"location"`
	Time        TimeSlot  `json:"time"`
}

func (*MeetupCreated) EventType() string { return MeetupCreatedEvent }

type MeetupStatusChanged struct {
	meetupEvent
	Status MeetupStatus `json:"status"`
}

func (*MeetupStatusChanged) EventType() string { return MeetupStatusChangedEvent }

type MeetupModerated struct {
	meetupEvent
	Moderation sharedDomain.ModerationStatus `json:"moderation_status"`
}

func (*MeetupModerated) EventType() string { return MeetupModeratedEvent }

type MeetupRatingChanged struct {
	meetupEvent
	Rating decimal.Decimal `json:"rating"`
}

func (*MeetupRatingChanged) EventType() string { return MeetupRatingChangedEvent }

type MeetupDeleted struct {
	meetupEvent
}

func (*MeetupDeleted) EventType() string { return MeetupDeletedEvent }

type ReviewAdded struct {
	reviewEvent
	ReviewerID uuid.UUID `json:"reviewer_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
}

func (*ReviewAdded) EventType() string { return ReviewAddedEvent }

type ReviewRatingChanged struct {
	reviewEvent
	Rating int `json:"rating"`
}

func (*ReviewRatingChanged) EventType() string { return ReviewRatingChangedEvent }

type ReviewCommentChanged struct {
	reviewEvent
	Comment string `json:"comment"`
}

func (*ReviewCommentChanged) EventType() string { return ReviewCommentChangedEvent }

type ReviewModerated struct {
	reviewEvent
	Moderation sharedDomain.ModerationStatus `json:"moderation_status"`
}

func (*ReviewModerated) EventType() string { return ReviewModeratedEvent }

type ReviewDeleted struct {
	reviewEvent
}

func (*ReviewDeleted) EventType() string { return ReviewDeletedEvent }
