package behaviors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/meetups/internal/shared/application/identity"
	"github.com/davicafu/meetups/internal/shared/application/mediator"
	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

type publishThing struct {
	Title string `validate:"required"`
}

func (publishThing) RequestName() string         { return "PublishThing" }
func (publishThing) Category() mediator.Category { return mediator.CategoryCommand }

type thingPublished struct {
	sharedDomain.EventBase
}

func (e *thingPublished) EventType() string { return "ThingPublished" }
func (e *thingPublished) AggregateIdentity() sharedDomain.Identity {
	return sharedDomain.Identity{Kind: "thing"}
}

type thing struct {
	sharedDomain.AggregateRoot
	id uuid.UUID
}

func (t *thing) Identity() sharedDomain.Identity {
	return sharedDomain.Identity{Kind: "thing", ID: t.id}
}

type fakeTracker struct{ entities []sharedDomain.Entity }

func (f *fakeTracker) Tracked() []sharedDomain.Entity { return f.entities }

type sequentialIDs struct{ issued []uuid.UUID }

func (s *sequentialIDs) NewID() uuid.UUID {
	id := uuid.New()
	s.issued = append(s.issued, id)
	return id
}

type mockCommitter struct{ mock.Mock }

func (m *mockCommitter) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockTx struct{ mock.Mock }

func (m *mockTx) Commit() error   { return m.Called().Error(0) }
func (m *mockTx) Rollback() error { return m.Called().Error(0) }

func okNext(ctx context.Context, req mediator.Request) (any, error) { return "ok", nil }

func asUser(role identity.Role) context.Context {
	return identity.WithActor(context.Background(), identity.Actor{UserID: uuid.New(), Role: role})
}

func TestAuthorization(t *testing.T) {
	policy := Policy{"PublishThing": identity.RoleAdmin}
	b := NewAuthorization(identity.ContextProvider{}, policy, zap.NewNop())

	t.Run("admin passes", func(t *testing.T) {
		res, err := b.Handle(asUser(identity.RoleAdmin), publishThing{}, okNext)
		require.NoError(t, err)
		assert.Equal(t, "ok", res)
	})

	t.Run("user is denied before next runs", func(t *testing.T) {
		called := false
		_, err := b.Handle(asUser(identity.RoleUser), publishThing{}, func(ctx context.Context, req mediator.Request) (any, error) {
			called = true
			return nil, nil
		})
		assert.ErrorIs(t, err, sharedDomain.ErrPermissionDenied)
		assert.False(t, called)
	})

	t.Run("anonymous is rejected", func(t *testing.T) {
		_, err := b.Handle(context.Background(), publishThing{}, okNext)
		assert.ErrorIs(t, err, sharedDomain.ErrUnauthenticated)
	})
}

func TestValidation(t *testing.T) {
	b := NewValidation(validator.New())

	_, err := b.Handle(context.Background(), publishThing{}, okNext)
	assert.ErrorIs(t, err, sharedDomain.ErrInvalidInput)

	res, err := b.Handle(context.Background(), publishThing{Title: "x"}, okNext)
	require.NoError(t, err)
	assert.Equal(t, "ok", res)
}

func TestEventIDAssignment_AssignsOnlyMissingIDsAfterHandler(t *testing.T) {
	// ARRANGE
	existing := uuid.New()
	withID := &thingPublished{EventBase: sharedDomain.EventBase{ID: existing, EventDate: time.Now()}}
	withoutID := &thingPublished{EventBase: sharedDomain.NewEventBase(time.Now())}
	agg := &thing{id: uuid.New()}
	agg.Record(withID)
	agg.Record(withoutID)
	ids := &sequentialIDs{}
	b := NewEventIDAssignment(&fakeTracker{entities: []sharedDomain.Entity{agg}}, ids)

	// ACT
	_, err := b.Handle(context.Background(), publishThing{}, okNext)

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, existing, withID.EventID())
	assert.NotEqual(t, uuid.Nil, withoutID.EventID())
	assert.Len(t, agg.PendingEvents(), 2, "assignment must not drain the buffer")
}

func TestEventIDAssignment_SkipsOnHandlerError(t *testing.T) {
	evt := &thingPublished{EventBase: sharedDomain.NewEventBase(time.Now())}
	agg := &thing{id: uuid.New()}
	agg.Record(evt)
	b := NewEventIDAssignment(&fakeTracker{entities: []sharedDomain.Entity{agg}}, &sequentialIDs{})
	boom := errors.New("boom")

	_, err := b.Handle(context.Background(), publishThing{}, func(ctx context.Context, req mediator.Request) (any, error) {
		return nil, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, uuid.Nil, evt.EventID())
}

type recordingNotifier struct {
	published []mediator.Notification
	err       error
}

func (r *recordingNotifier) Publish(ctx context.Context, n mediator.Notification) error {
	r.published = append(r.published, n)
	return r.err
}

func TestEventPublishing_DrainsBuffersInOrder(t *testing.T) {
	// ARRANGE
	a, b2 := &thing{id: uuid.New()}, &thing{id: uuid.New()}
	e1 := &thingPublished{EventBase: sharedDomain.NewEventBase(time.Now())}
	e2 := &thingPublished{EventBase: sharedDomain.NewEventBase(time.Now())}
	e3 := &thingPublished{EventBase: sharedDomain.NewEventBase(time.Now())}
	a.Record(e1)
	a.Record(e2)
	b2.Record(e3)
	notifier := &recordingNotifier{}
	b := NewEventPublishing(&fakeTracker{entities: []sharedDomain.Entity{a, b2}}, notifier)

	// ACT
	_, err := b.Handle(context.Background(), publishThing{}, okNext)

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, []mediator.Notification{e1, e2, e3}, notifier.published)
	assert.Empty(t, a.PendingEvents())
	assert.Empty(t, b2.PendingEvents())
}

func TestEventPublishing_PropagatesStagingFailure(t *testing.T) {
	a := &thing{id: uuid.New()}
	a.Record(&thingPublished{EventBase: sharedDomain.NewEventBase(time.Now())})
	boom := errors.New("insert failed")
	b := NewEventPublishing(&fakeTracker{entities: []sharedDomain.Entity{a}}, &recordingNotifier{err: boom})

	_, err := b.Handle(context.Background(), publishThing{}, okNext)

	assert.ErrorIs(t, err, boom)
}

func TestCommit_Success(t *testing.T) {
	uow, tx := new(mockCommitter), new(mockTx)
	uow.On("Commit", mock.Anything).Return(nil).Once()
	tx.On("Commit").Return(nil).Once()

	res, err := NewCommit(uow, tx, zap.NewNop()).Handle(context.Background(), publishThing{}, okNext)

	require.NoError(t, err)
	assert.Equal(t, "ok", res)
	uow.AssertExpectations(t)
	tx.AssertExpectations(t)
	tx.AssertNotCalled(t, "Rollback")
}

func TestCommit_HandlerErrorRollsBackWithoutFlushing(t *testing.T) {
	uow, tx := new(mockCommitter), new(mockTx)
	tx.On("Rollback").Return(nil).Once()
	notFound := sharedDomain.ErrNotFound

	_, err := NewCommit(uow, tx, zap.NewNop()).Handle(context.Background(), publishThing{}, func(ctx context.Context, req mediator.Request) (any, error) {
		return nil, notFound
	})

	assert.ErrorIs(t, err, sharedDomain.ErrNotFound)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	tx.AssertNotCalled(t, "Commit")
	tx.AssertExpectations(t)
}

func TestCommit_MapperFailureIsCommitFailure(t *testing.T) {
	uow, tx := new(mockCommitter), new(mockTx)
	mapperErr := errors.New("mapper exploded")
	uow.On("Commit", mock.Anything).Return(mapperErr).Once()
	tx.On("Rollback").Return(nil).Once()

	_, err := NewCommit(uow, tx, zap.NewNop()).Handle(context.Background(), publishThing{}, okNext)

	assert.ErrorIs(t, err, sharedDomain.ErrCommitFailure)
	assert.ErrorIs(t, err, mapperErr)
	tx.AssertNotCalled(t, "Commit")
	tx.AssertExpectations(t)
}
