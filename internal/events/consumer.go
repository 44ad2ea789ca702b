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
	"github.com/rs/zerolog"

	"github.com/tomtom215/bundlecraft/internal/metrics"
	"github.com/tomtom215/bundlecraft/internal/models"
)

// Applier folds an interaction into stored state.
type Applier interface {
	Apply(ctx context.Context, ev *models.InteractionEvent) error
}

// SignalConsumer subscribes to the interaction topic and applies every
// event to the signal store. It implements suture.Service.
//
// Undecodable messages are acked and counted so they are not redelivered
// forever. Apply failures are retried a few times, then acked and counted.
type SignalConsumer struct {
	subscriber message.Subscriber
	topic      string
	applier    Applier
	retries    int
	backoff    time.Duration
	logger     zerolog.Logger

	readyOnce sync.Once
	ready     chan struct{}
}

// NewSignalConsumer creates a consumer of topic.
func NewSignalConsumer(sub message.Subscriber, topic string, applier Applier, logger zerolog.Logger) *SignalConsumer {
	return &SignalConsumer{
		subscriber: sub,
		topic:      topic,
		applier:    applier,
		retries:    3,
		backoff:    50 * time.Millisecond,
		logger:     logger.With().Str("component", "signal_consumer").Logger(),
		ready:      make(chan struct{}),
	}
}

// Ready is closed once the first subscription is established.
func (c *SignalConsumer) Ready() <-chan struct{} {
	return c.ready
}

// Serve consumes until ctx is cancelled or the subscription ends.
func (c *SignalConsumer) Serve(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", c.topic, err)
	}
	c.readyOnce.Do(func() { close(c.ready) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("subscription to %s closed", c.topic)
			}
			c.handle(ctx, msg)
		}
	}
}

// String implements fmt.Stringer for suture logging.
func (c *SignalConsumer) String() string {
	return "signal-consumer"
}

func (c *SignalConsumer) handle(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	ev, err := Unmarshal(msg.Payload)
	if err != nil {
		metrics.RecordInteractionEvent("unknown", "invalid")
		c.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Discarding undecodable interaction")
		return
	}

	for attempt := 1; ; attempt++ {
		err = c.applier.Apply(ctx, ev)
		if err == nil {
			metrics.RecordInteractionEvent(string(ev.Kind), "applied")
			return
		}
		if attempt >= c.retries || ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
	}

	metrics.RecordInteractionEvent(string(ev.Kind), "failed")
	c.logger.Error().Err(err).Str("event_id", ev.ID).Str("kind", string(ev.Kind)).Msg("Failed to apply interaction")
}
