package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

// MockOutboxRepository simula la tabla outbox.
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]sharedDomain.OutboxMessage), args.Error(1)
}

func (m *MockOutboxRepository) AckOutbox(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) NackOutbox(ctx context.Context, id uuid.UUID, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *MockOutboxRepository) CountPending(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockPublisher simula un transporte.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, msg sharedDomain.OutboxMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockDeadLetterStore simula el almacén de mensajes muertos.
type MockDeadLetterStore struct {
	mock.Mock
}

func (m *MockDeadLetterStore) StoreDeadLetter(ctx context.Context, msg sharedDomain.OutboxMessage, reason string) error {
	args := m.Called(ctx, msg, reason)
	return args.Error(0)
}
