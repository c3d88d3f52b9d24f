package credentials

import (
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// DefaultExpirySkew is the safety margin subtracted from a bundle's expiry so
// a token is never handed out moments before it lapses mid-request.
const DefaultExpirySkew = 60 * time.Second

// Bundle is the persisted credential material for one provider.
//
// A bundle is either wholly absent (the provider was never authorized) or
// carries at least an access token. A bundle without a refresh token cannot be
// silently renewed once expired and forces re-authorization.
type Bundle struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type"`
	Expiry       time.Time `json:"expiry"`
	Scopes       []string  `json:"scopes,omitempty"`

	// ClientID records which client obtained this bundle. A mismatch against
	// the current descriptor means the client credentials were rotated and the
	// bundle is stale.
	ClientID string `json:"client_id,omitempty"`
}

// NewBundle converts an oauth2 token into a bundle.
//
// Granted scopes are taken from the token response's scope field when the
// provider returns one; otherwise the requested scopes are recorded. The
// refresh token may be empty for providers that do not issue one.
func NewBundle(token *oauth2.Token, requestedScopes []string, clientID string) *Bundle {
	scopes := requestedScopes
	if granted, ok := token.Extra("scope").(string); ok && granted != "" {
		scopes = strings.Fields(granted)
	}

	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	return &Bundle{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    tokenType,
		Expiry:       token.Expiry,
		Scopes:       scopes,
		ClientID:     clientID,
	}
}

// Token converts the bundle back into an oauth2 token for API clients.
func (b *Bundle) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  b.AccessToken,
		RefreshToken: b.RefreshToken,
		TokenType:    b.TokenType,
		Expiry:       b.Expiry,
	}
}

// Valid reports whether the access token is still usable with the given
// safety margin. A zero expiry means the provider declared no lifetime and
// the token is treated as valid until proven otherwise.
func (b *Bundle) Valid(skew time.Duration) bool {
	if b == nil || b.AccessToken == "" {
		return false
	}
	if b.Expiry.IsZero() {
		return true
	}
	return time.Now().Before(b.Expiry.Add(-skew))
}

// CanRefresh reports whether the bundle carries a refresh credential.
func (b *Bundle) CanRefresh() bool {
	return b != nil && b.RefreshToken != ""
}
