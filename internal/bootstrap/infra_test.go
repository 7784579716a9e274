package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davicafu/meetups/internal/config"
	"github.com/davicafu/meetups/internal/meetup/domain"
)

func TestAnalyticsQueueIsSeparateFromThePublisherQueue(t *testing.T) {
	cfg := &config.Config{
		RabbitMQExchange:       "meetups_exchange",
		RabbitMQQueue:          "meetups_queue",
		RabbitMQAnalyticsQueue: "meetups_analytics",
	}

	got := analyticsQueueConfig(cfg)

	assert.Equal(t, "meetups_exchange", got.Exchange)
	assert.Equal(t, "meetups_analytics", got.Queue)
	assert.NotEqual(t, cfg.RabbitMQQueue, got.Queue)
	assert.ElementsMatch(t, domain.EventTypes(), got.RoutingKeys)
}

func TestClosersRunInReverseOrder(t *testing.T) {
	var order []int
	var closers Closers
	closers.Add(func() { order = append(order, 1) })
	closers.Add(func() { order = append(order, 2) })

	closers.Close()

	assert.Equal(t, []int{2, 1}, order)
}
