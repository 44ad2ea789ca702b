// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

// Package events carries visitor interactions from the API to the signal
// store through Watermill.
//
// Flow:
//
//	API handler / resolver
//	    -> Recorder (bounded queue, never blocks the caller)
//	    -> Publisher (circuit breaker) -> topic
//	    -> SignalConsumer -> signals.Store
//
// The topic lives on an in-process Go channel by default, or on NATS
// JetStream (external or embedded) for multi-instance deployments.
package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/bundlecraft/internal/models"
)

var (
	// ErrRecorderClosed is returned by Record after the recorder stopped.
	ErrRecorderClosed = errors.New("events: recorder closed")

	// ErrQueueFull is returned by Record when the event was dropped.
	ErrQueueFull = errors.New("events: queue full")

	// ErrPublisherClosed is returned by Publish after Close.
	ErrPublisherClosed = errors.New("events: publisher closed")
)

// NewInteraction creates an event with a fresh id and the current time.
func NewInteraction(kind models.InteractionKind, sessionID, productID string) *models.InteractionEvent {
	return &models.InteractionEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		SessionID:  sessionID,
		ProductID:  productID,
		OccurredAt: time.Now().UTC(),
	}
}

// Validate checks the fields every event must carry.
func Validate(ev *models.InteractionEvent) error {
	if ev == nil {
		return errors.New("event is nil")
	}
	if ev.ID == "" {
		return errors.New("event id is required")
	}
	if !ev.Kind.Valid() {
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	if ev.SessionID == "" {
		return errors.New("session id is required")
	}
	if ev.ProductID == "" {
		return errors.New("product id is required")
	}
	return nil
}
