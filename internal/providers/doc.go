// Package providers holds the static per-provider OAuth2 descriptions used by
// the credential manager.
//
// A Descriptor captures everything the authorization and refresh machinery
// needs to talk to one provider: endpoints, scopes, client credentials, and
// which grant style the provider uses (browser-mediated installed-app flow for
// Google, confidential-client flow for Azure).
//
// Descriptors are compiled in. The only external inputs are the Google
// client-credential JSON file (client id and secret) and the Azure client
// values from the environment; endpoints and scopes are never configurable.
package providers
