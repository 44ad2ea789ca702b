// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/bundlecraft/internal/models"
)

// Publisher publishes interaction events to one topic behind a circuit
// breaker, so a dead broker fails fast instead of stalling the recorder.
type Publisher struct {
	publisher message.Publisher
	topic     string
	breaker   *gobreaker.CircuitBreaker[interface{}]
	logger    zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewPublisher wraps pub. The breaker opens after five consecutive
// failures and probes again after thirty seconds.
func NewPublisher(pub message.Publisher, topic string, logger zerolog.Logger) *Publisher {
	logger = logger.With().Str("component", "event_publisher").Logger()

	breaker := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        "event-publisher",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state transition")
		},
	})

	return &Publisher{
		publisher: pub,
		topic:     topic,
		breaker:   breaker,
		logger:    logger,
	}
}

// Topic returns the topic events are published to.
func (p *Publisher) Topic() string {
	return p.topic
}

// PublishEvent serializes and publishes ev. The event id doubles as the
// message UUID and the JetStream deduplication id.
func (p *Publisher) PublishEvent(ctx context.Context, ev *models.InteractionEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	data, err := Marshal(ev)
	if err != nil {
		return err
	}

	msg := message.NewMessage(ev.ID, data)
	msg.Metadata.Set("kind", string(ev.Kind))
	msg.Metadata.Set(natsgo.MsgIdHdr, ev.ID)
	msg.SetContext(ctx)

	_, err = p.breaker.Execute(func() (interface{}, error) {
		return nil, p.publisher.Publish(p.topic, msg)
	})
	if err != nil {
		return fmt.Errorf("publish %s event: %w", ev.Kind, err)
	}
	return nil
}

// State returns the breaker state ("closed", "half-open", "open").
func (p *Publisher) State() string {
	return p.breaker.State().String()
}

// Close marks the publisher closed. The underlying publisher belongs to
// its Transport and is closed there.
func (p *Publisher) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}
