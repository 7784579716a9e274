package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/meetups/internal/meetup/domain"
	"github.com/davicafu/meetups/internal/shared/application/identity"
	"github.com/davicafu/meetups/internal/shared/application/ports"
	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

// MeetupService define los casos de uso de escritura. Se construye por scope: el
// repositorio y la unidad de trabajo son los de la petición en curso.
type MeetupService struct {
	repo     domain.MeetupRepository
	gateway  domain.MeetupGateway
	uow      sharedDomain.UnitOfWork
	ids      ports.IDGenerator
	clock    ports.Clock
	identity identity.Provider
	log      *zap.Logger
}

func NewMeetupService(
	repo domain.MeetupRepository,
	gateway domain.MeetupGateway,
	uow sharedDomain.UnitOfWork,
	ids ports.IDGenerator,
	clock ports.Clock,
	provider identity.Provider,
	log *zap.Logger,
) *MeetupService {
	return &MeetupService{repo: repo, gateway: gateway, uow: uow, ids: ids, clock: clock, identity: provider, log: log}
}

func (s *MeetupService) AddMeetup(ctx context.Context, cmd AddMeetup) (uuid.UUID, error) {
	actor, err := s.identity.Current(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	slot, err := domain.NewTimeSlot(cmd.StartDate, cmd.FinishDate)
	if err != nil {
		return uuid.Nil, err
	}

	m := domain.NewMeetup(
		s.ids.NewID(),
		actor.UserID,
		cmd.Title,
		cmd.Description,
		domain.Location{Address: cmd.Address, City: cmd.City, Country: cmd.Country},
		slot,
		s.clock.Now(),
	)
	s.repo.Add(m)
	return m.ID, nil
}

func (s *MeetupService) RemoveMeetup(ctx context.Context, cmd RemoveMeetup) (struct{}, error) {
	m, err := s.repo.Load(ctx, cmd.MeetupID)
	if err != nil {
		return struct{}{}, err
	}
	m.Remove(s.uow, s.clock.Now())
	s.repo.Delete(m)
	return struct{}{}, nil
}

func (s *MeetupService) EditMeetupStatus(ctx context.Context, cmd EditMeetupStatus) (struct{}, error) {
	m, err := s.repo.Load(ctx, cmd.MeetupID)
	if err != nil {
		return struct{}{}, err
	}
	m.EditStatus(s.uow, cmd.Status, s.clock.Now())
	return struct{}{}, nil
}

func (s *MeetupService) ModerateMeetup(ctx context.Context, cmd ModerateMeetup) (struct{}, error) {
	m, err := s.repo.Load(ctx, cmd.MeetupID)
	if err != nil {
		return struct{}{}, err
	}
	return struct{}{}, m.Moderate(s.uow, cmd.Status, s.clock.Now())
}

func (s *MeetupService) AddReview(ctx context.Context, cmd AddReview) (uuid.UUID, error) {
	actor, err := s.identity.Current(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	m, err := s.repo.Load(ctx, cmd.MeetupID)
	if err != nil {
		return uuid.Nil, err
	}
	r, err := m.AddReview(s.uow, s.ids.NewID(), actor.UserID, cmd.Rating, cmd.Comment, s.clock.Now())
	if err != nil {
		return uuid.Nil, err
	}
	return r.ID, nil
}

func (s *MeetupService) EditReview(ctx context.Context, cmd EditReview) (struct{}, error) {
	actor, err := s.identity.Current(ctx)
	if err != nil {
		return struct{}{}, err
	}
	m, err := s.repo.Load(ctx, cmd.MeetupID)
	if err != nil {
		return struct{}{}, err
	}
	return struct{}{}, m.EditReview(s.uow, cmd.ReviewID, actor.UserID, cmd.Rating, cmd.Comment, s.clock.Now())
}

func (s *MeetupService) DropReview(ctx context.Context, cmd DropReview) (struct{}, error) {
	actor, err := s.identity.Current(ctx)
	if err != nil {
		return struct{}{}, err
	}
	m, err := s.repo.Load(ctx, cmd.MeetupID)
	if err != nil {
		return struct{}{}, err
	}
	return struct{}{}, m.DropReview(s.uow, cmd.ReviewID, actor.UserID, s.clock.Now())
}

func (s *MeetupService) ModerateReview(ctx context.Context, cmd ModerateReview) (struct{}, error) {
	m, err := s.repo.Load(ctx, cmd.MeetupID)
	if err != nil {
		return struct{}{}, err
	}
	return struct{}{}, m.ModerateReview(s.uow, cmd.ReviewID, cmd.Status, s.clock.Now())
}

// SyncMeetupStatuses pone a cada meetup el estado que le toca hoy. Devuelve cuántos cambiaron.
func (s *MeetupService) SyncMeetupStatuses(ctx context.Context, _ SyncMeetupStatuses) (int, error) {
	now := s.clock.Now()
	ids, err := s.gateway.ListStale(ctx, now)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		m, err := s.repo.Load(ctx, id)
		if err != nil {
			return 0, err
		}
		m.EditStatus(s.uow, m.Time.StatusAt(now), now)
	}
	if len(ids) > 0 {
		s.log.Info("🔄 Estados de meetups sincronizados", zap.Int("count", len(ids)))
	}
	return len(ids), nil
}

// CleanupMeetups borra los meetups cuya fecha de fin más la retención ya pasó.
func (s *MeetupService) CleanupMeetups(ctx context.Context, cmd CleanupMeetups) (int, error) {
	now := s.clock.Now()
	ids, err := s.gateway.ListFinishedBefore(ctx, retentionCutoff(now, cmd.Retention))
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		m, err := s.repo.Load(ctx, id)
		if err != nil {
			return 0, err
		}
		m.Remove(s.uow, now)
		s.repo.Delete(m)
	}
	if len(ids) > 0 {
		s.log.Info("🧹 Meetups antiguos eliminados", zap.Int("count", len(ids)), zap.Duration("retention", cmd.Retention))
	}
	return len(ids), nil
}

// retentionCutoff es el instante antes del cual un meetup terminado se considera caducado.
func retentionCutoff(now time.Time, retention time.Duration) time.Time {
	return now.Add(-retention)
}
