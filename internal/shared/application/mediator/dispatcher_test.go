package mediator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createThing struct{ Name string }

func (createThing) RequestName() string { return "CreateThing" }
func (createThing) Category() Category  { return CategoryCommand }

type listThings struct{}

func (listThings) RequestName() string { return "ListThings" }
func (listThings) Category() Category  { return CategoryQuery }

type thingCreated struct{}

func (thingCreated) EventType() string { return "ThingCreated" }

// trace es el scope de prueba: registra el orden de invocación.
type trace struct {
	calls []string
}

func recording(name string) BehaviorFactory[*trace] {
	return func(s *trace) Behavior {
		return BehaviorFunc(func(ctx context.Context, req Request, next Next) (any, error) {
			s.calls = append(s.calls, name)
			return next(ctx, req)
		})
	}
}

func failing(name string, err error) BehaviorFactory[*trace] {
	return func(s *trace) Behavior {
		return BehaviorFunc(func(ctx context.Context, req Request, next Next) (any, error) {
			s.calls = append(s.calls, name)
			return nil, err
		})
	}
}

func thingHandler(s *trace) RequestHandler {
	return Handle(func(ctx context.Context, req createThing) (string, error) {
		s.calls = append(s.calls, "C")
		return "created " + req.Name, nil
	})
}

func TestDispatcher_Send_CategoryBehaviorsRunBeforeTypeBehaviors(t *testing.T) {
	// ARRANGE
	registry, err := NewBuilder[*trace]().
		AddRequestHandler("CreateThing", thingHandler).
		AddRequestBehaviors("CreateThing", recording("D")).
		AddCategoryBehaviors(CategoryCommand, recording("A"), recording("B")).
		Build()
	require.NoError(t, err)
	scope := &trace{}

	// ACT
	res, err := SendAs[string](context.Background(), NewDispatcher(registry, scope), createThing{Name: "x"})

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, "created x", res)
	assert.Equal(t, []string{"A", "B", "D", "C"}, scope.calls)
}

func TestDispatcher_Send_ShortCircuitStopsTheChain(t *testing.T) {
	denied := errors.New("denied")
	registry, err := NewBuilder[*trace]().
		AddRequestHandler("CreateThing", thingHandler).
		AddCategoryBehaviors(CategoryCommand, failing("A", denied), recording("B")).
		AddRequestBehaviors("CreateThing", recording("D")).
		Build()
	require.NoError(t, err)
	scope := &trace{}

	_, err = NewDispatcher(registry, scope).Send(context.Background(), createThing{})

	assert.ErrorIs(t, err, denied)
	assert.Equal(t, []string{"A"}, scope.calls)
}

func TestDispatcher_Send_OnlyMatchingCategoryBehaviorsRun(t *testing.T) {
	registry, err := NewBuilder[*trace]().
		AddRequestHandler("ListThings", func(s *trace) RequestHandler {
			return Handle(func(ctx context.Context, _ listThings) ([]string, error) {
				s.calls = append(s.calls, "Q")
				return []string{"a"}, nil
			})
		}).
		AddCategoryBehaviors(CategoryCommand, recording("A")).
		AddCategoryBehaviors(CategoryQuery, recording("R")).
		Build()
	require.NoError(t, err)
	scope := &trace{}

	res, err := SendAs[[]string](context.Background(), NewDispatcher(registry, scope), listThings{})

	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, res)
	assert.Equal(t, []string{"R", "Q"}, scope.calls)
}

func TestDispatcher_Send_HandlerNotRegistered(t *testing.T) {
	registry, err := NewBuilder[*trace]().
		AddCategoryBehaviors(CategoryCommand, recording("A")).
		Build()
	require.NoError(t, err)
	scope := &trace{}

	_, err = NewDispatcher(registry, scope).Send(context.Background(), createThing{})

	assert.ErrorIs(t, err, ErrHandlerNotRegistered)
	assert.Empty(t, scope.calls, "no behavior runs without a handler")
}

func TestBuilder_DuplicateHandlerFailsBuild(t *testing.T) {
	_, err := NewBuilder[*trace]().
		AddRequestHandler("CreateThing", thingHandler).
		AddRequestHandler("CreateThing", thingHandler).
		Build()

	assert.ErrorIs(t, err, ErrDuplicateHandler)
}

func TestBuilder_RegistryIsNotAffectedByLaterRegistrations(t *testing.T) {
	builder := NewBuilder[*trace]().
		AddRequestHandler("CreateThing", thingHandler).
		AddCategoryBehaviors(CategoryCommand, recording("A"))
	registry, err := builder.Build()
	require.NoError(t, err)

	builder.AddCategoryBehaviors(CategoryCommand, recording("late"))
	scope := &trace{}
	_, err = NewDispatcher(registry, scope).Send(context.Background(), createThing{})

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, scope.calls)
}

func notifying(name string, err error) NotificationHandlerFactory[*trace] {
	return func(s *trace) NotificationHandler {
		return NotificationHandlerFunc(func(ctx context.Context, n Notification) error {
			s.calls = append(s.calls, name)
			return err
		})
	}
}

func TestDispatcher_Publish_FailFastByDefault(t *testing.T) {
	boom := errors.New("boom")
	registry, err := NewBuilder[*trace]().
		AddCategoryEventHandler(notifying("all", nil)).
		AddEventHandler("ThingCreated", notifying("first", boom)).
		AddEventHandler("ThingCreated", notifying("second", nil)).
		Build()
	require.NoError(t, err)
	scope := &trace{}

	err = NewDispatcher(registry, scope).Publish(context.Background(), thingCreated{})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"all", "first"}, scope.calls)
}

func TestDispatcher_Publish_IsolatedHandlersDoNotStopOthers(t *testing.T) {
	boom := errors.New("boom")
	registry, err := NewBuilder[*trace]().
		AddEventHandler("ThingCreated", notifying("first", boom), Isolated()).
		AddEventHandler("ThingCreated", notifying("second", nil)).
		Build()
	require.NoError(t, err)
	scope := &trace{}

	err = NewDispatcher(registry, scope).Publish(context.Background(), thingCreated{})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second"}, scope.calls)
}

func TestDispatcher_Publish_WithoutHandlersIsANoop(t *testing.T) {
	registry, err := NewBuilder[*trace]().Build()
	require.NoError(t, err)

	err = NewDispatcher(registry, &trace{}).Publish(context.Background(), thingCreated{})

	assert.NoError(t, err)
}

func TestDispatcher_Publish_EventBehaviorsWrapHandlers(t *testing.T) {
	registry, err := NewBuilder[*trace]().
		AddCategoryBehaviors(CategoryEvent, func(s *trace) Behavior {
			return BehaviorFunc(func(ctx context.Context, req Request, next Next) (any, error) {
				n, ok := NotificationOf(req)
				require.True(t, ok)
				s.calls = append(s.calls, "around:"+n.EventType())
				return next(ctx, req)
			})
		}).
		AddEventHandler("ThingCreated", notifying("handler", nil)).
		Build()
	require.NoError(t, err)
	scope := &trace{}

	err = NewDispatcher(registry, scope).Publish(context.Background(), thingCreated{})

	require.NoError(t, err)
	assert.Equal(t, []string{"around:ThingCreated", "handler"}, scope.calls)
}
