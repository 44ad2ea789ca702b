// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

/*
Package supervisor runs the long-lived services of Bundlecraft under a
suture v4 supervision tree.

	RootSupervisor ("bundlecraft")
	├── DataSupervisor ("data-layer")
	│   └── signals.GCService (local signal store only)
	├── EventsSupervisor ("events-layer")
	│   ├── services.BrokerService (embedded NATS only)
	│   ├── events.Recorder
	│   └── events.SignalConsumer (local signal store only)
	└── APISupervisor ("api-layer")
	    └── services.HTTPServerService

Crashed services restart with backoff inside their own layer. Supervisor
events are logged through sutureslog into the zerolog-backed slog logger:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))
	errCh := tree.ServeBackground(ctx)

On shutdown, cancel ctx and read errCh. UnstoppedServiceReport names the
services that did not stop within ShutdownTimeout.
*/
package supervisor
