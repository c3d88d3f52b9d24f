// Package oauth acquires and renews provider credentials.
//
// It implements the two grant variants the providers use: the installed-app
// authorization-code flow with a loopback redirect and PKCE, and the
// confidential-client flow that trades a client secret for a token directly.
// Flow failures are reported through typed errors so callers can distinguish
// user denial, timeouts, and exchange problems, and refresh failures are
// classified as terminal or transient.
package oauth
