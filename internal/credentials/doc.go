// Package credentials owns the durable token material and its lifecycle.
//
// A Bundle is the persisted secret for one provider: access token, optional
// refresh token, expiry, and the granted scopes. FileStore reads and writes
// bundles with owner-only permissions and an atomic write discipline so a
// crash never leaves a half-written token file.
//
// Manager is the façade the rest of the system uses. GetValidToken returns a
// usable access token for a provider, escalating from the cached bundle to a
// silent refresh to a fresh interactive authorization as needed, while
// serializing all token work per provider.
package credentials
