package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/davicafu/meetups/internal/meetup/domain"
	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
	"github.com/davicafu/meetups/internal/shared/platform/query"
)

// RecordingUoW guarda lo registrado sin persistir nada.
type RecordingUoW struct {
	New, Dirty, Deleted []sharedDomain.Entity
}

func (u *RecordingUoW) RegisterNew(e sharedDomain.Entity)     { u.New = append(u.New, e) }
func (u *RecordingUoW) RegisterDirty(e sharedDomain.Entity)   { u.Dirty = append(u.Dirty, e) }
func (u *RecordingUoW) RegisterDeleted(e sharedDomain.Entity) { u.Deleted = append(u.Deleted, e) }

// InMemoryMeetupRepo es un repositorio de escritura sobre un mapa.
type InMemoryMeetupRepo struct {
	mu      sync.Mutex
	uow     sharedDomain.UnitOfWork
	Meetups map[uuid.UUID]*domain.Meetup
}

var _ domain.MeetupRepository = (*InMemoryMeetupRepo)(nil)

func NewInMemoryMeetupRepo(uow sharedDomain.UnitOfWork, seed ...*domain.Meetup) *InMemoryMeetupRepo {
	r := &InMemoryMeetupRepo{uow: uow, Meetups: make(map[uuid.UUID]*domain.Meetup)}
	for _, m := range seed {
		r.Meetups[m.ID] = m
	}
	return r
}

func (r *InMemoryMeetupRepo) Add(m *domain.Meetup) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Meetups[m.ID] = m
	r.uow.RegisterNew(m)
}

func (r *InMemoryMeetupRepo) Delete(m *domain.Meetup) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Meetups, m.ID)
	r.uow.RegisterDeleted(m)
}

func (r *InMemoryMeetupRepo) Load(ctx context.Context, id uuid.UUID) (*domain.Meetup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.Meetups[id]
	if !ok {
		return nil, domain.ErrMeetupNotFound
	}
	return m, nil
}

// MockMeetupGateway simula el lado de lectura de meetups.
type MockMeetupGateway struct {
	mock.Mock
}

func (m *MockMeetupGateway) ListMeetups(ctx context.Context, c query.Criteria, p query.Pagination) ([]domain.MeetupView, error) {
	args := m.Called(ctx, c, p)
	return args.Get(0).([]domain.MeetupView), args.Error(1)
}

func (m *MockMeetupGateway) ListFinishedBefore(ctx context.Context, t time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, t)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockMeetupGateway) ListStale(ctx context.Context, day time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, day)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockReviewGateway simula el lado de lectura de reseñas.
type MockReviewGateway struct {
	mock.Mock
}

func (m *MockReviewGateway) ListReviews(ctx context.Context, c query.Criteria, p query.Pagination) ([]domain.ReviewView, error) {
	args := m.Called(ctx, c, p)
	return args.Get(0).([]domain.ReviewView), args.Error(1)
}

// FixedClock siempre devuelve el mismo instante.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// SequentialIDs devuelve uuids predecibles: 00000000-0000-0000-0000-000000000001, ...
type SequentialIDs struct {
	mu   sync.Mutex
	next byte
}

func (g *SequentialIDs) NewID() uuid.UUID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	var id uuid.UUID
	id[15] = g.next
	return id
}
