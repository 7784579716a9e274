package application

import (
	"github.com/google/uuid"

	"github.com/davicafu/meetups/internal/shared/application/mediator"
	"github.com/davicafu/meetups/internal/shared/platform/query"
)

type queryRequest struct{}

func (queryRequest) Category() mediator.Category { return mediator.CategoryQuery }

type GetMeetups struct {
	queryRequest
	Pagination query.Pagination
}

func (GetMeetups) RequestName() string { return GetMeetupsRequest }

type GetReviews struct {
	queryRequest
	MeetupID   uuid.UUID `validate:"required"`
	Pagination query.Pagination
}

func (GetReviews) RequestName() string { return GetReviewsRequest }
