package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/meetups/internal/shared/application/identity"
	"github.com/davicafu/meetups/internal/shared/application/mediator"
)

type senderFunc func(ctx context.Context, req mediator.Request) (any, error)

func (f senderFunc) Send(ctx context.Context, req mediator.Request) (any, error) { return f(ctx, req) }

func TestCleanupTask_RunOnceSendsAsSystem(t *testing.T) {
	// ARRANGE
	var (
		got   mediator.Request
		actor identity.Actor
	)
	sender := senderFunc(func(ctx context.Context, req mediator.Request) (any, error) {
		got = req
		actor, _ = identity.ActorFrom(ctx)
		return 0, nil
	})
	task := NewCleanupTask(sender, time.Minute, 48*time.Hour, zap.NewNop())

	// ACT
	err := task.RunOnce(context.Background())

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, CleanupMeetups{Retention: 48 * time.Hour}, got)
	assert.Equal(t, identity.System, actor)
}

func TestPeriodicTask_StartKeepsRunningAfterFailure(t *testing.T) {
	// ARRANGE
	calls := make(chan struct{}, 10)
	sender := senderFunc(func(ctx context.Context, req mediator.Request) (any, error) {
		calls <- struct{}{}
		return nil, errors.New("db down")
	})
	task := NewStatusSyncTask(sender, 5*time.Millisecond, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// ACT
	go func() { done <- task.Start(ctx) }()
	<-calls
	<-calls
	cancel()

	// ASSERT
	assert.NoError(t, <-done)
}
