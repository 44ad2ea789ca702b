// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

/*
Package services adapts Bundlecraft components with non-suture lifecycles
to suture.Service.

HTTPServerService translates the blocking ListenAndServe of *http.Server
into Serve(ctx), draining connections with Shutdown on cancel.

BrokerService watches an embedded NATS server started before the tree.
The process shuts the broker down once the tree has stopped.

Components that already implement Serve(ctx) error, such as the
interaction recorder, the signal consumer and the signal store GC, are
added to the tree directly.
*/
package services
