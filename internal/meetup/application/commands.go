package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/davicafu/meetups/internal/meetup/domain"
	"github.com/davicafu/meetups/internal/shared/application/mediator"
	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

// Nombres de petición. Son la clave del registro del mediador y de la política de roles.
const (
	AddMeetupRequest          = "AddMeetup"
	RemoveMeetupRequest       = "RemoveMeetup"
	EditMeetupStatusRequest   = "EditMeetupStatus"
	ModerateMeetupRequest     = "ModerateMeetup"
	AddReviewRequest          = "AddReview"
	EditReviewRequest         = "EditReview"
	DropReviewRequest         = "DropReview"
	ModerateReviewRequest     = "ModerateReview"
	SyncMeetupStatusesRequest = "SyncMeetupStatuses"
	CleanupMeetupsRequest     = "CleanupMeetups"
	GetMeetupsRequest         = "GetMeetups"
	GetReviewsRequest         = "GetReviews"
)

type command struct{}

func (command) Category() mediator.Category { return mediator.CategoryCommand }

type AddMeetup struct {
	command
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	Address     string    `json:"address" validate:"required"`
	City        string    `json:"city" validate:"required"`
	Country     string    `json:"country" validate:"required"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	FinishDate  time.Time `json:"finish_date" validate:"required,gtefield=StartDate"`
}

func (AddMeetup) RequestName() string { return AddMeetupRequest }

type RemoveMeetup struct {
	command
	MeetupID uuid.UUID `validate:"required"`
}

func (RemoveMeetup) RequestName() string { return RemoveMeetupRequest }

type EditMeetupStatus struct {
	command
	MeetupID uuid.UUID           `validate:"required"`
	Status   domain.MeetupStatus `validate:"required,oneof=coming started completed"`
}

func (EditMeetupStatus) RequestName() string { return EditMeetupStatusRequest }

type ModerateMeetup struct {
	command
	MeetupID uuid.UUID                     `validate:"required"`
	Status   sharedDomain.ModerationStatus `validate:"required,oneof=pending approved rejected"`
}

func (ModerateMeetup) RequestName() string { return ModerateMeetupRequest }

type AddReview struct {
	command
	MeetupID uuid.UUID `validate:"required"`
	Rating   int       `validate:"min=1,max=5"`
	Comment  string    `validate:"max=2000"`
}

func (AddReview) RequestName() string { return AddReviewRequest }

type EditReview struct {
	command
	MeetupID uuid.UUID `validate:"required"`
	ReviewID uuid.UUID `validate:"required"`
	Rating   int       `validate:"min=1,max=5"`
	Comment  string    `validate:"max=2000"`
}

func (EditReview) RequestName() string { return EditReviewRequest }

type DropReview struct {
	command
	MeetupID uuid.UUID `validate:"required"`
	ReviewID uuid.UUID `validate:"required"`
}

func (DropReview) RequestName() string { return DropReviewRequest }

type ModerateReview struct {
	command
	MeetupID uuid.UUID                     `validate:"required"`
	ReviewID uuid.UUID                     `validate:"required"`
	Status   sharedDomain.ModerationStatus `validate:"required,oneof=pending approved rejected"`
}

func (ModerateReview) RequestName() string { return ModerateReviewRequest }

// SyncMeetupStatuses la envía la tarea periódica de estados.
type SyncMeetupStatuses struct {
	command
}

func (SyncMeetupStatuses) RequestName() string { return SyncMeetupStatusesRequest }

// CleanupMeetups borra los meetups terminados hace más de Retention.
type CleanupMeetups struct {
	command
	Retention time.Duration `validate:"gte=0"`
}

func (CleanupMeetups) RequestName() string { return CleanupMeetupsRequest }
