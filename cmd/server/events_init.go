// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bundlecraft/internal/config"
	"github.com/tomtom215/bundlecraft/internal/events"
	"github.com/tomtom215/bundlecraft/internal/supervisor"
	"github.com/tomtom215/bundlecraft/internal/supervisor/services"
)

// eventComponents is the interaction pipeline: recorder, publisher,
// transport and, when profiles are stored locally, the signal consumer.
type eventComponents struct {
	broker    *events.EmbeddedServer
	transport *events.Transport
	publisher *events.Publisher
	recorder  *events.Recorder
	consumer  *events.SignalConsumer
}

// initEvents builds the pipeline for cfg.Transport. It returns nil when
// events are disabled. applier may be nil, in which case events are
// published but not consumed in this process.
func initEvents(cfg config.EventsConfig, applier events.Applier, logger zerolog.Logger) (*eventComponents, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	c := &eventComponents{}
	var err error
	switch cfg.Transport {
	case "embedded":
		c.broker, err = events.StartEmbeddedServer(events.ServerConfig{
			Host:     cfg.EmbeddedHost,
			Port:     cfg.EmbeddedPort,
			StoreDir: cfg.EmbeddedStoreDir,
		})
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS: %w", err)
		}
		c.transport, err = events.NewNATSTransport(natsConfig(cfg, c.broker.ClientURL()), logger)
		if err != nil {
			c.broker.Shutdown()
			return nil, err
		}
	case "nats":
		c.transport, err = events.NewNATSTransport(natsConfig(cfg, cfg.NATSURL), logger)
		if err != nil {
			return nil, err
		}
	default:
		c.transport = events.NewChannelTransport(logger)
	}

	c.publisher = events.NewPublisher(c.transport.Publisher, cfg.Topic, logger)
	c.recorder = events.NewRecorder(c.publisher, events.RecorderConfig{
		QueueSize:      cfg.QueueSize,
		PublishTimeout: cfg.PublishTimeout,
	}, logger)
	if applier != nil {
		c.consumer = events.NewSignalConsumer(c.transport.Subscriber, cfg.Topic, applier, logger)
	}

	logger.Info().
		Str("transport", c.transport.Name).
		Str("topic", cfg.Topic).
		Bool("consumer", c.consumer != nil).
		Msg("Interaction events enabled")
	return c, nil
}

func natsConfig(cfg config.EventsConfig, url string) events.NATSConfig {
	nc := events.DefaultNATSConfig(url)
	if cfg.DurableName != "" {
		nc.DurableName = cfg.DurableName
	}
	if cfg.SubscribersCount > 0 {
		nc.SubscribersCount = cfg.SubscribersCount
	}
	return nc
}

// addToTree registers the long-running parts with the events layer.
func (c *eventComponents) addToTree(tree *supervisor.SupervisorTree) {
	if c == nil {
		return
	}
	if c.broker != nil {
		tree.AddEventsService(services.NewBrokerService(c.broker, 0))
	}
	tree.AddEventsService(c.recorder)
	if c.consumer != nil {
		tree.AddEventsService(c.consumer)
	}
}

// close releases the pipeline after the tree has stopped: recorder first,
// then the publisher and transport, the embedded broker last.
func (c *eventComponents) close(logger zerolog.Logger) {
	if c == nil {
		return
	}
	c.recorder.Close()
	c.publisher.Close()
	if err := c.transport.Close(); err != nil {
		logger.Warn().Err(err).Msg("Error closing event transport")
	}
	if c.broker != nil {
		c.broker.Shutdown()
	}
}
