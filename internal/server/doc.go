// Package server provides the shared MCP server state and its HTTP and
// metrics surfaces.
//
// # Key Components
//
// ServerContext holds the credential manager and hands out per-provider mail
// clients with lazy initialization and caching. Clients are built on demand so
// the server can start before any provider is authorized; the first mail API
// call that needs a token drives the authorization through the manager.
//
// HTTPServer serves the MCP API over streamable HTTP on /mcp with health
// endpoints alongside. It performs no inbound authentication: credentials are
// held server-side and the transport is trusted, matching the stdio transport.
//
// HealthChecker backs the /healthz, /readyz, and /healthz/detailed endpoints.
// Readiness requires at least one provider with usable configuration, and the
// detailed endpoint reports each provider's stored credential state without
// exposing token values.
//
// MetricsServer exposes Prometheus metrics on a dedicated port, isolated from
// MCP traffic.
package server
