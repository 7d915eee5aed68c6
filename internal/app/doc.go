// Package app wires the observatory service together and manages its
// lifecycle.
//
// NewApplication builds every component from a *config.Config: logger,
// OpenTelemetry providers, the dataset loader and cache, the dashboard and
// health services, the WebSocket hub and the chi router. Nothing runs until
// Start, which starts the hub, optionally preloads the dataset and binds the
// listener. Run blocks until its context is cancelled and then shuts down in
// reverse order.
//
// # Routes
//
//	/api/...   JSON API, behind the full middleware chain
//	/ws        reload notifications, RequestID and RealIP only
//	/metrics   Prometheus scrape endpoint when the exporter is enabled
//
// A missing dataset file at startup is not fatal: the service answers 503
// until a reload succeeds. A malformed file is.
package app
