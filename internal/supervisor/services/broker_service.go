// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/bundlecraft/internal/logging"
)

// BrokerServer is an in-process message broker.
// *events.EmbeddedServer implements it.
type BrokerServer interface {
	Running() bool
}

// BrokerService watches an embedded broker started before the tree.
//
// Shutdown stays with the owner: siblings in the tree still publish while
// they drain, so the broker is stopped only after the tree has returned.
// The broker cannot be restarted in place because clients hold its URL; if
// it stops on its own, Serve returns an error wrapping
// suture.ErrDoNotRestart.
type BrokerService struct {
	broker   BrokerServer
	interval time.Duration
	name     string
}

// NewBrokerService wraps broker. interval is how often liveness is checked;
// a non-positive value uses one second.
func NewBrokerService(broker BrokerServer, interval time.Duration) *BrokerService {
	if interval <= 0 {
		interval = time.Second
	}
	return &BrokerService{
		broker:   broker,
		interval: interval,
		name:     "nats-broker",
	}
}

// Serve implements suture.Service.
func (b *BrokerService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		if !b.broker.Running() {
			logging.Error().Str("service", b.name).Msg("Embedded broker is not running")
			return fmt.Errorf("%s stopped: %w", b.name, suture.ErrDoNotRestart)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (b *BrokerService) String() string {
	return b.name
}
