package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_StopsOnFirstSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_ReturnsLastError(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := Retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestRetry_CancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Hour, func() error { return errors.New("down") })

	assert.ErrorIs(t, err, context.Canceled)
}

type decision struct {
	TaskID string `json:"task_id"`
}

func TestUnmarshalAndHandle(t *testing.T) {
	var got decision
	err := UnmarshalAndHandle([]byte(`{"task_id":"t-1"}`), func(d decision) error {
		got = d
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "t-1", got.TaskID)

	err = UnmarshalAndHandle([]byte(`{not json`), func(decision) error { return nil })
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
