package credentials

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/Astroa7m/MailNet/internal/instrumentation"
	"github.com/Astroa7m/MailNet/internal/logging"
	"github.com/Astroa7m/MailNet/internal/providers"
)

// Authorizer runs a full authorization flow for one provider and persists the
// resulting bundle at tokenPath before returning it.
type Authorizer interface {
	Authorize(ctx context.Context, desc *providers.Descriptor, tokenPath string) (*Bundle, error)
}

// Refresher renews stored credentials without user interaction. Terminal
// rejections surface as *RefreshDeniedError, retriable failures as
// *TransientNetworkError.
type Refresher interface {
	Refresh(ctx context.Context, desc *providers.Descriptor, bundle *Bundle) (*Bundle, error)
}

// ManagerConfig holds the dependencies for a Manager.
type ManagerConfig struct {
	// Registry resolves provider identifiers to descriptors.
	Registry *providers.Registry

	// Store persists credential bundles.
	Store Store

	// Paths locates the per-provider token files.
	Paths Paths

	// Authorizer runs the interactive or confidential authorization flow.
	Authorizer Authorizer

	// Refresher renews stored credentials.
	Refresher Refresher

	// Logger is optional; the default slog logger is used when nil.
	Logger logging.Logger

	// Metrics and Audit are optional observability hooks.
	Metrics *instrumentation.Metrics
	Audit   *instrumentation.AuditLogger

	// ExpirySkew is the window before the recorded expiry in which a token is
	// already treated as expired. Zero means DefaultExpirySkew.
	ExpirySkew time.Duration
}

// Manager owns the credential lifecycle for all providers: loading stored
// bundles, deciding between reuse, refresh, and re-authorization, and
// persisting every transition before handing a token out.
//
// Access is serialized per provider. When several callers race on an expired
// token, one performs the refresh and the rest observe the stored result, so
// the token endpoint sees a single request.
type Manager struct {
	registry   *providers.Registry
	store      Store
	paths      Paths
	authorizer Authorizer
	refresher  Refresher
	logger     logging.Logger
	metrics    *instrumentation.Metrics
	audit      *instrumentation.AuditLogger
	skew       time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a Manager from the given configuration.
func NewManager(config ManagerConfig) (*Manager, error) {
	if config.Registry == nil {
		return nil, fmt.Errorf("provider registry is required")
	}
	if config.Store == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	if config.Authorizer == nil {
		return nil, fmt.Errorf("authorizer is required")
	}
	if config.Refresher == nil {
		return nil, fmt.Errorf("refresher is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	skew := config.ExpirySkew
	if skew <= 0 {
		skew = DefaultExpirySkew
	}

	return &Manager{
		registry:   config.Registry,
		store:      config.Store,
		paths:      config.Paths,
		authorizer: config.Authorizer,
		refresher:  config.Refresher,
		logger:     logger,
		metrics:    config.Metrics,
		audit:      config.Audit,
		skew:       skew,
		locks:      make(map[string]*sync.Mutex),
	}, nil
}

// GetValidToken returns an access token for the provider that is valid for at
// least the configured expiry skew.
//
// The escalation ladder is: stored token if still valid, otherwise a refresh,
// otherwise a fresh authorization flow. Refresh denials escalate to the flow
// without deleting any stored state; transient network failures surface to
// the caller instead, because re-running the interactive flow would not help.
func (m *Manager) GetValidToken(ctx context.Context, providerID string) (*oauth2.Token, error) {
	desc, err := m.registry.Resolve(providerID)
	if err != nil {
		return nil, err
	}
	tokenPath, err := m.paths.TokenFile(desc.ID)
	if err != nil {
		return nil, err
	}

	lock := m.providerLock(desc.ID)
	lock.Lock()
	defer lock.Unlock()

	bundle, err := m.store.Load(tokenPath)
	switch {
	case errors.Is(err, ErrNotFound):
		bundle, err = m.authorize(ctx, desc, tokenPath, instrumentation.CredentialEventAuthorized)
		if err != nil {
			return nil, err
		}
		return bundle.Token(), nil
	case err != nil:
		// Corrupt or unreadable stores surface as-is. Overwriting them is a
		// deliberate act (mailnet login), not a side effect of a token fetch.
		return nil, err
	}

	if bundle.ClientID != "" && bundle.ClientID != desc.ClientID {
		// The stored bundle was minted for a different client and its refresh
		// token is useless with the current configuration.
		m.logger.Info("stored credentials belong to a different client, re-authorizing",
			logging.Provider(desc.ID))
		bundle, err = m.authorize(ctx, desc, tokenPath, instrumentation.CredentialEventReauthorized)
		if err != nil {
			return nil, err
		}
		return bundle.Token(), nil
	}

	if bundle.Valid(m.skew) {
		return bundle.Token(), nil
	}

	if bundle.CanRefresh() || desc.Grant == providers.GrantConfidentialClient {
		refreshed, err := m.refresh(ctx, desc, bundle, tokenPath)
		if err == nil {
			return refreshed.Token(), nil
		}
		var denied *RefreshDeniedError
		if !errors.As(err, &denied) {
			return nil, err
		}
		m.logger.Warn("token refresh denied, re-authorization required",
			logging.Provider(desc.ID), "reason", denied.Reason)
	}

	bundle, err = m.authorize(ctx, desc, tokenPath, instrumentation.CredentialEventReauthorized)
	if err != nil {
		return nil, err
	}
	return bundle.Token(), nil
}

// TokenSource returns an oauth2.TokenSource backed by the manager, suitable
// for constructing provider API clients. Every Token call goes through
// GetValidToken, so expiring tokens heal without the client noticing.
func (m *Manager) TokenSource(ctx context.Context, providerID string) oauth2.TokenSource {
	return &managerTokenSource{ctx: ctx, manager: m, provider: providerID}
}

// Status reports the stored credential state for one provider without any
// network activity or interactive flow. The returned status never contains
// token values. It fails only for unknown provider identifiers;
// configuration and store problems are reported in the Error field.
func (m *Manager) Status(providerID string) (*ProviderStatus, error) {
	id, err := providers.CanonicalID(providerID)
	if err != nil {
		return nil, err
	}

	status := &ProviderStatus{Provider: id}

	desc, err := m.registry.Resolve(id)
	if err != nil {
		status.Error = err.Error()
		return status, nil
	}

	tokenPath, err := m.paths.TokenFile(id)
	if err != nil {
		status.Error = err.Error()
		return status, nil
	}

	bundle, err := m.store.Load(tokenPath)
	switch {
	case errors.Is(err, ErrNotFound):
		return status, nil
	case err != nil:
		status.Error = err.Error()
		return status, nil
	}

	status.Authorized = true
	status.Valid = bundle.Valid(m.skew)
	status.Expiry = bundle.Expiry
	status.HasRefreshToken = bundle.CanRefresh()
	status.Scopes = bundle.Scopes
	if bundle.ClientID != "" && bundle.ClientID != desc.ClientID {
		status.Valid = false
		status.Error = "stored credentials belong to a different client id"
	}
	return status, nil
}

// TokenFilePath returns where the provider's credentials are stored on disk.
// The file may not exist yet.
func (m *Manager) TokenFilePath(providerID string) (string, error) {
	id, err := providers.CanonicalID(providerID)
	if err != nil {
		return "", err
	}
	return m.paths.TokenFile(id)
}

// StatusAll reports the stored credential state for every supported provider
// in stable order.
func (m *Manager) StatusAll() []*ProviderStatus {
	ids := m.registry.IDs()
	statuses := make([]*ProviderStatus, 0, len(ids))
	for _, id := range ids {
		status, err := m.Status(id)
		if err != nil {
			status = &ProviderStatus{Provider: id, Error: err.Error()}
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// Authorize runs the authorization flow for the provider regardless of any
// stored state, overwriting what is there. This backs the login command; a
// corrupt or foreign token file is repaired by logging in again.
func (m *Manager) Authorize(ctx context.Context, providerID string) (*ProviderStatus, error) {
	desc, err := m.registry.Resolve(providerID)
	if err != nil {
		return nil, err
	}
	tokenPath, err := m.paths.TokenFile(desc.ID)
	if err != nil {
		return nil, err
	}

	lock := m.providerLock(desc.ID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := m.authorize(ctx, desc, tokenPath, instrumentation.CredentialEventAuthorized); err != nil {
		return nil, err
	}
	return m.Status(desc.ID)
}

func (m *Manager) authorize(ctx context.Context, desc *providers.Descriptor, tokenPath, event string) (*Bundle, error) {
	bundle, err := m.authorizer.Authorize(ctx, desc, tokenPath)
	if err != nil {
		m.recordAuth(ctx, desc.ID, authResult(err))
		return nil, err
	}

	m.recordAuth(ctx, desc.ID, instrumentation.OAuthResultSuccess)
	m.logCredentialEvent(instrumentation.CredentialEvent{Provider: desc.ID, Event: event})
	return bundle, nil
}

func (m *Manager) refresh(ctx context.Context, desc *providers.Descriptor, bundle *Bundle, tokenPath string) (*Bundle, error) {
	refreshed, err := m.refresher.Refresh(ctx, desc, bundle)
	if err != nil {
		var denied *RefreshDeniedError
		if errors.As(err, &denied) {
			m.recordTokenRefresh(ctx, desc.ID, instrumentation.OAuthResultDenied)
			m.logCredentialEvent(instrumentation.CredentialEvent{
				Provider: desc.ID,
				Event:    instrumentation.CredentialEventRefreshDenied,
				Detail:   denied.Reason,
			})
		} else {
			m.recordTokenRefresh(ctx, desc.ID, instrumentation.OAuthResultFailure)
		}
		return nil, err
	}

	if err := m.store.Save(tokenPath, refreshed); err != nil {
		return nil, err
	}

	m.recordTokenRefresh(ctx, desc.ID, instrumentation.OAuthResultSuccess)
	m.logCredentialEvent(instrumentation.CredentialEvent{
		Provider: desc.ID,
		Event:    instrumentation.CredentialEventRefreshed,
	})
	m.logger.Debug("access token refreshed", logging.Provider(desc.ID), "expiry", refreshed.Expiry)
	return refreshed, nil
}

func (m *Manager) providerLock(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[id] = lock
	}
	return lock
}

func (m *Manager) recordAuth(ctx context.Context, provider, result string) {
	if m.metrics != nil {
		m.metrics.RecordOAuthAuth(ctx, provider, result)
	}
}

func (m *Manager) recordTokenRefresh(ctx context.Context, provider, result string) {
	if m.metrics != nil {
		m.metrics.RecordOAuthTokenRefresh(ctx, provider, result)
	}
}

func (m *Manager) logCredentialEvent(ev instrumentation.CredentialEvent) {
	if m.audit != nil {
		m.audit.LogCredentialEvent(ev)
	}
}

// authResult classifies an authorization failure for metrics. Flow errors
// carrying an explicit user denial satisfy the UserDenied marker.
func authResult(err error) string {
	var denial interface{ UserDenied() bool }
	if errors.As(err, &denial) && denial.UserDenied() {
		return instrumentation.OAuthResultDenied
	}
	return instrumentation.OAuthResultFailure
}

// ProviderStatus is a point-in-time summary of one provider's stored
// credentials, safe to print and to serialize into tool results.
type ProviderStatus struct {
	Provider        string    `json:"provider"`
	Authorized      bool      `json:"authorized"`
	Valid           bool      `json:"valid"`
	Expiry          time.Time `json:"expiry,omitzero"`
	HasRefreshToken bool      `json:"has_refresh_token"`
	Scopes          []string  `json:"scopes,omitempty"`
	Error           string    `json:"error,omitempty"`
}

type managerTokenSource struct {
	ctx      context.Context
	manager  *Manager
	provider string
}

func (s *managerTokenSource) Token() (*oauth2.Token, error) {
	return s.manager.GetValidToken(s.ctx, s.provider)
}
