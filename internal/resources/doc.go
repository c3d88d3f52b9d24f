// Package resources provides MCP resources exposing server-side state to
// clients.
//
// The auth://providers resource reports the authorization state of every
// configured mail provider, including token expiry and the on-disk token
// location. It reads stored credentials only and never triggers an
// authorization flow.
package resources
