package application

import (
	"context"

	"github.com/davicafu/meetups/internal/meetup/domain"
	"github.com/davicafu/meetups/internal/shared/application/identity"
	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
	"github.com/davicafu/meetups/internal/shared/platform/query"
)

// QueryService resuelve las consultas contra los gateways de lectura.
// Un usuario normal sólo ve contenido aprobado; un admin lo ve todo.
type QueryService struct {
	meetups  domain.MeetupGateway
	reviews  domain.ReviewGateway
	identity identity.Provider
}

func NewQueryService(meetups domain.MeetupGateway, reviews domain.ReviewGateway, provider identity.Provider) *QueryService {
	return &QueryService{meetups: meetups, reviews: reviews, identity: provider}
}

func (s *QueryService) visibility(ctx context.Context) (query.Criteria, error) {
	actor, err := s.identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return nil, nil
	}
	return domain.ModerationIn{sharedDomain.ModerationApproved}, nil
}

func (s *QueryService) GetMeetups(ctx context.Context, q GetMeetups) ([]domain.MeetupView, error) {
	visible, err := s.visibility(ctx)
	if err != nil {
		return nil, err
	}
	return s.meetups.ListMeetups(ctx, visible, q.Pagination.Normalize())
}

func (s *QueryService) GetReviews(ctx context.Context, q GetReviews) ([]domain.ReviewView, error) {
	visible, err := s.visibility(ctx)
	if err != nil {
		return nil, err
	}
	criteria := query.All{domain.MeetupIDCriteria{ID: q.MeetupID}, visible}
	return s.reviews.ListReviews(ctx, criteria, q.Pagination.Normalize())
}
