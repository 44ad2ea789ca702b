// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bundlecraft/internal/metrics"
	"github.com/tomtom215/bundlecraft/internal/models"
)

// EventPublisher publishes a single event.
type EventPublisher interface {
	PublishEvent(ctx context.Context, ev *models.InteractionEvent) error
}

// RecorderConfig configures a Recorder.
type RecorderConfig struct {
	QueueSize      int
	PublishTimeout time.Duration
	DrainTimeout   time.Duration
}

// Recorder buffers events in a bounded queue and publishes them from its
// own goroutine. Record never blocks: when the queue is full the event is
// dropped and counted. Recorder implements suture.Service.
type Recorder struct {
	queue     chan *models.InteractionEvent
	publisher EventPublisher
	cfg       RecorderConfig
	logger    zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewRecorder creates a recorder publishing through pub.
func NewRecorder(pub EventPublisher, cfg RecorderConfig, logger zerolog.Logger) *Recorder {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 2 * time.Second
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = 5 * time.Second
	}
	return &Recorder{
		queue:     make(chan *models.InteractionEvent, cfg.QueueSize),
		publisher: pub,
		cfg:       cfg,
		logger:    logger.With().Str("component", "recorder").Logger(),
	}
}

// Record enqueues ev without blocking. It returns ErrQueueFull when the
// event was dropped and ErrRecorderClosed after Close.
func (r *Recorder) Record(ev *models.InteractionEvent) error {
	if err := Validate(ev); err != nil {
		if ev != nil {
			metrics.RecordInteractionEvent(string(ev.Kind), "invalid")
		}
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrRecorderClosed
	}

	select {
	case r.queue <- ev:
		metrics.RecordInteractionEvent(string(ev.Kind), "queued")
		metrics.SetInteractionQueueDepth(len(r.queue))
		return nil
	default:
		metrics.RecordInteractionEvent(string(ev.Kind), "dropped")
		return ErrQueueFull
	}
}

// Depth returns the number of queued events.
func (r *Recorder) Depth() int {
	return len(r.queue)
}

// Capacity returns the queue size.
func (r *Recorder) Capacity() int {
	return cap(r.queue)
}

// Serve publishes queued events until ctx is cancelled, then drains what
// is left within DrainTimeout.
func (r *Recorder) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.drain(nil)
			return ctx.Err()
		case ev := <-r.queue:
			if ctx.Err() != nil {
				r.drain(ev)
				return ctx.Err()
			}
			r.publish(ctx, ev)
		}
	}
}

// String implements fmt.Stringer for suture logging.
func (r *Recorder) String() string {
	return "interaction-recorder"
}

// Close stops accepting events. Queued events are still published by a
// running Serve.
func (r *Recorder) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

func (r *Recorder) publish(ctx context.Context, ev *models.InteractionEvent) {
	metrics.SetInteractionQueueDepth(len(r.queue))

	pubCtx, cancel := context.WithTimeout(ctx, r.cfg.PublishTimeout)
	defer cancel()

	if err := r.publisher.PublishEvent(pubCtx, ev); err != nil {
		metrics.RecordInteractionEvent(string(ev.Kind), "failed")
		r.logger.Warn().Err(err).Str("kind", string(ev.Kind)).Str("event_id", ev.ID).Msg("Failed to publish interaction")
		return
	}
	metrics.RecordInteractionEvent(string(ev.Kind), "published")
}

// drain publishes first (if any) and everything still queued with a fresh
// deadline, since the serving context is already done.
func (r *Recorder) drain(first *models.InteractionEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.DrainTimeout)
	defer cancel()

	if first != nil {
		r.publish(ctx, first)
	}

	for {
		select {
		case ev := <-r.queue:
			r.publish(ctx, ev)
		default:
			return
		}
		if ctx.Err() != nil {
			r.logger.Warn().Int("remaining", len(r.queue)).Msg("Recorder drain timed out")
			return
		}
	}
}
