// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

/*
Package main is the Bundlecraft server.

Bundlecraft serves product bundles and ranked recommendations to storefront
widgets. It reads products, orders and merchant bundles from the shop data
service and keeps visitor signals in a local badger store fed by an
interaction event pipeline.

Startup order:

 1. Configuration: koanf v2 (defaults, optional YAML, environment)
 2. Logging: zerolog, JSON or console
 3. Gateway: rate-limited, circuit-broken client with a cached catalog
 4. Signals: badger profile store, or the shop's profile endpoint
 5. Events: recorder and publisher over gochannel, NATS or embedded NATS
 6. Resolver: tiered bundle composition and flat ranking
 7. HTTP: chi router with CORS, rate limits and Prometheus metrics
 8. Supervisor tree: suture v4

Process supervision:

	RootSupervisor ("bundlecraft")
	├── DataSupervisor ("data-layer")
	│   └── signals-gc
	├── EventsSupervisor ("events-layer")
	│   ├── nats-broker (EVENTS_TRANSPORT=embedded)
	│   ├── interaction-recorder
	│   └── signal-consumer (SIGNALS_SOURCE=local)
	└── APISupervisor ("api-layer")
	    └── http-server

SIGINT and SIGTERM cancel the tree. The HTTP server drains, the recorder
publishes what is queued, then the transport, the embedded broker, the
signal store and the catalog cache are closed.

Example:

	export UPSTREAM_URL=http://shop-data:9090
	export UPSTREAM_API_KEY=secret
	export EVENTS_TRANSPORT=embedded
	./bundlecraft
*/
package main
