package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{
		{"serve"}, {"worker"}, {"migrate"}, {"analytics"},
		{"outbox", "process"}, {"outbox", "dead-letters"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func useTempDatabase(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", filepath.Join(t.TempDir(), "meetups.db"))
	t.Setenv("OUTBOX_TRANSPORT", "memory")
	t.Setenv("DEAD_LETTER_STORE", "sql")
}

func TestMigrateAndProcessEmptyOutbox(t *testing.T) {
	// ARRANGE
	useTempDatabase(t)
	ctx := context.Background()

	// ACT
	migrate := newRootCmd()
	migrate.SetArgs([]string{"migrate"})
	require.NoError(t, migrate.ExecuteContext(ctx))

	var out bytes.Buffer
	process := newRootCmd()
	process.SetOut(&out)
	process.SetArgs([]string{"outbox", "process"})
	err := process.ExecuteContext(ctx)

	// ASSERT
	require.NoError(t, err)
	assert.JSONEq(t, `{"Fetched":0,"Published":0,"Failed":0,"DeadLettered":0}`, out.String())
}

func TestDeadLettersStartsEmpty(t *testing.T) {
	useTempDatabase(t)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"outbox", "dead-letters", "--limit", "5"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.JSONEq(t, `[]`, out.String())
}
