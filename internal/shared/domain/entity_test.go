package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type sampleEvent struct {
	EventBase
	Name string `json:"name"`
}

func (e *sampleEvent) EventType() string           { return "SampleHappened" }
func (e *sampleEvent) AggregateIdentity() Identity { return Identity{Kind: "sample"} }

func TestAggregateRoot_PullEventsDrainsInOrder(t *testing.T) {
	// ARRANGE
	var root AggregateRoot
	first := &sampleEvent{EventBase: NewEventBase(time.Now()), Name: "first"}
	second := &sampleEvent{EventBase: NewEventBase(time.Now()), Name: "second"}
	root.Record(first)
	root.Record(second)

	// ACT
	pending := root.PendingEvents()
	pulled := root.PullEvents()

	// ASSERT
	assert.Equal(t, []DomainEvent{first, second}, pending)
	assert.Equal(t, []DomainEvent{first, second}, pulled)
	assert.Empty(t, root.PendingEvents())
	assert.Empty(t, root.PullEvents())
}

func TestEventBase_AssignIDOnlyOnce(t *testing.T) {
	evt := &sampleEvent{EventBase: NewEventBase(time.Now())}
	assert.Equal(t, uuid.Nil, evt.EventID())

	first := uuid.New()
	assert.True(t, evt.AssignID(first))
	assert.False(t, evt.AssignID(uuid.New()))
	assert.Equal(t, first, evt.EventID())
}
