package application

import (
	"github.com/davicafu/meetups/internal/shared/application/behaviors"
	"github.com/davicafu/meetups/internal/shared/application/identity"
	"github.com/davicafu/meetups/internal/shared/application/mediator"
)

// Scope da acceso a los servicios construidos para la petición en curso.
type Scope interface {
	Meetups() *MeetupService
	Queries() *QueryService
}

// RegisterHandlers enlaza cada petición del contexto con su caso de uso.
func RegisterHandlers[S Scope](b *mediator.Builder[S]) *mediator.Builder[S] {
	return b.
		AddRequestHandler(AddMeetupRequest, func(s S) mediator.RequestHandler { return mediator.Handle(s.Meetups().AddMeetup) }).
		AddRequestHandler(RemoveMeetupRequest, func(s S) mediator.RequestHandler { return mediator.Handle(s.Meetups().RemoveMeetup) }).
		AddRequestHandler(EditMeetupStatusRequest, func(s S) mediator.RequestHandler { return mediator.Handle(s.Meetups().EditMeetupStatus) }).
		AddRequestHandler(ModerateMeetupRequest, func(s S) mediator.RequestHandler { return mediator.Handle(s.Meetups().ModerateMeetup) }).
		AddRequestHandler(AddReviewRequest, func(s S) mediator.RequestHandler { return mediator.Handle(s.Meetups().AddReview) }).
		AddRequestHandler(EditReviewRequest, func(s S) mediator.RequestHandler { return mediator.Handle(s.Meetups().EditReview) }).
		AddRequestHandler(DropReviewRequest, func(s S) mediator.RequestHandler { return mediator.Handle(s.Meetups().DropReview) }).
		AddRequestHandler(ModerateReviewRequest, func(s S) mediator.RequestHandler { return mediator.Handle(s.Meetups().ModerateReview) }).
		AddRequestHandler(SyncMeetupStatusesRequest, func(s S) mediator.RequestHandler { return mediator.Handle(s.Meetups().SyncMeetupStatuses) }).
		AddRequestHandler(CleanupMeetupsRequest, func(s S) mediator.RequestHandler { return mediator.Handle(s.Meetups().CleanupMeetups) }).
		AddRequestHandler(GetMeetupsRequest, func(s S) mediator.RequestHandler { return mediator.Handle(s.Queries().GetMeetups) }).
		AddRequestHandler(GetReviewsRequest, func(s S) mediator.RequestHandler { return mediator.Handle(s.Queries().GetReviews) })
}

// Policy son las peticiones reservadas a administradores.
func Policy() behaviors.Policy {
	return behaviors.Policy{
		AddMeetupRequest:          identity.RoleAdmin,
		RemoveMeetupRequest:       identity.RoleAdmin,
		EditMeetupStatusRequest:   identity.RoleAdmin,
		ModerateMeetupRequest:     identity.RoleAdmin,
		ModerateReviewRequest:     identity.RoleAdmin,
		SyncMeetupStatusesRequest: identity.RoleAdmin,
		CleanupMeetupsRequest:     identity.RoleAdmin,
	}
}
