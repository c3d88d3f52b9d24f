package oauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/Astroa7m/MailNet/internal/credentials"
	"github.com/Astroa7m/MailNet/internal/logging"
	"github.com/Astroa7m/MailNet/internal/providers"
)

const (
	defaultRefreshAttempts = 3
	defaultRefreshBackoff  = 500 * time.Millisecond
)

// permanentRefreshMarkers identify provider responses that mean the stored
// grant itself is dead. Retrying such a refresh can never succeed.
var permanentRefreshMarkers = []string{
	"invalid_grant",
	"invalid_client",
	"unauthorized_client",
	"token has been expired or revoked",
	"revoked",
}

// Refresher renews credential bundles without user interaction.
//
// Installed-app grants are renewed with the stored refresh token. Confidential
// clients have no refresh token; renewal simply repeats the client-credentials
// grant.
type Refresher struct {
	logger      logging.Logger
	maxAttempts int
	baseBackoff time.Duration
}

// NewRefresher creates a refresher with default retry behavior.
func NewRefresher(logger logging.Logger) *Refresher {
	return NewRefresherWithBackoff(logger, defaultRefreshAttempts, defaultRefreshBackoff)
}

// NewRefresherWithBackoff creates a refresher with explicit retry bounds.
func NewRefresherWithBackoff(logger logging.Logger, maxAttempts int, baseBackoff time.Duration) *Refresher {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Refresher{
		logger:      logger,
		maxAttempts: maxAttempts,
		baseBackoff: baseBackoff,
	}
}

// Refresh obtains a fresh bundle for the provider. Transient failures are
// retried with exponential backoff before the last one is surfaced; a
// *credentials.RefreshDeniedError is returned immediately because the grant
// cannot recover without re-authorization.
func (r *Refresher) Refresh(ctx context.Context, desc *providers.Descriptor, bundle *credentials.Bundle) (*credentials.Bundle, error) {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := r.baseBackoff << (attempt - 2)
			r.logger.Debug("retrying token refresh",
				logging.Provider(desc.ID), "attempt", attempt, "delay", delay.String())
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		refreshed, err := r.refreshOnce(ctx, desc, bundle)
		if err == nil {
			if attempt > 1 {
				r.logger.Info("token refresh succeeded after retry",
					logging.Provider(desc.ID), "attempt", attempt)
			}
			return refreshed, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var transient *credentials.TransientNetworkError
		if !errors.As(err, &transient) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (r *Refresher) refreshOnce(ctx context.Context, desc *providers.Descriptor, bundle *credentials.Bundle) (*credentials.Bundle, error) {
	switch desc.Grant {
	case providers.GrantConfidentialClient:
		token, err := desc.ClientCredentialsConfig().Token(ctx)
		if err != nil {
			return nil, r.classify(desc, err)
		}
		return credentials.NewBundle(token, desc.Scopes, desc.ClientID), nil

	case providers.GrantInstalledApp:
		if !bundle.CanRefresh() {
			return nil, &credentials.RefreshDeniedError{
				Provider: desc.ID,
				Reason:   "no refresh token",
				Err:      fmt.Errorf("stored bundle carries no refresh token"),
			}
		}

		conf := desc.OAuthConfig("")
		seed := &oauth2.Token{
			RefreshToken: bundle.RefreshToken,
			// Force a refresh round trip even if the stored access token
			// has not hit its expiry yet.
			Expiry: time.Now().Add(-time.Minute),
		}
		token, err := conf.TokenSource(ctx, seed).Token()
		if err != nil {
			return nil, r.classify(desc, err)
		}
		if token.RefreshToken == "" {
			token.RefreshToken = bundle.RefreshToken
		}
		return credentials.NewBundle(token, desc.Scopes, desc.ClientID), nil

	default:
		return nil, fmt.Errorf("provider %s has unsupported grant style %q", desc.ID, desc.Grant)
	}
}

// classify splits refresh failures into terminal rejections and retryable
// network problems. Anything that never reached an OAuth error response is
// treated as transient.
func (r *Refresher) classify(desc *providers.Descriptor, err error) error {
	var retrieve *oauth2.RetrieveError
	if !errors.As(err, &retrieve) {
		return &credentials.TransientNetworkError{Err: err}
	}

	haystack := strings.ToLower(retrieve.ErrorCode + " " + retrieve.ErrorDescription + " " + string(retrieve.Body))
	for _, marker := range permanentRefreshMarkers {
		if strings.Contains(haystack, marker) {
			return &credentials.RefreshDeniedError{Provider: desc.ID, Reason: marker, Err: err}
		}
	}

	if retrieve.Response != nil && retrieve.Response.StatusCode >= 500 {
		return &credentials.TransientNetworkError{Err: err}
	}

	// Any other 4xx is an authoritative rejection and will not heal on retry.
	return &credentials.RefreshDeniedError{Provider: desc.ID, Reason: "rejected", Err: err}
}
