package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/Astroa7m/MailNet/internal/credentials"
	"github.com/Astroa7m/MailNet/internal/gmail"
	"github.com/Astroa7m/MailNet/internal/instrumentation"
	"github.com/Astroa7m/MailNet/internal/mail"
	"github.com/Astroa7m/MailNet/internal/outlook"
	"github.com/Astroa7m/MailNet/internal/providers"
)

// Config holds the dependencies of a ServerContext.
type Config struct {
	// Manager drives token lifecycle for every provider. Required.
	Manager *credentials.Manager

	// Metrics records tool invocation and mail API metrics. Optional.
	Metrics *instrumentation.Metrics

	// AuditLogger records tool invocations for audit purposes. Optional.
	AuditLogger *instrumentation.AuditLogger
}

// ServerContext holds the shared state of the MCP server: the credential
// manager, lazily created per-provider mail clients, and instrumentation.
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	manager     *credentials.Manager
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	mu       sync.RWMutex
	clients  map[string]mail.Provider // canonical provider id to client
	shutdown bool
}

// NewServerContext creates a new server context. Mail clients are not
// created here; they are built lazily on first use so that serving can start
// before any provider is authorized.
func NewServerContext(ctx context.Context, config Config) (*ServerContext, error) {
	if config.Manager == nil {
		return nil, fmt.Errorf("credential manager is required")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:         shutdownCtx,
		cancel:      cancel,
		manager:     config.Manager,
		metrics:     config.Metrics,
		auditLogger: config.AuditLogger,
		clients:     make(map[string]mail.Provider),
	}, nil
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Manager returns the credential manager.
func (sc *ServerContext) Manager() *credentials.Manager {
	return sc.manager
}

// Metrics returns the metrics recorder, or nil when metrics are disabled.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// AuditLogger returns the audit logger, or nil when audit logging is
// disabled.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.auditLogger
}

// MailClient returns the mail client for the given provider, creating and
// caching it on first use. The provider id accepts the outlook alias for
// azure. Creating a client does not touch the network; authorization is
// deferred until the first API call needs a token.
func (sc *ServerContext) MailClient(providerID string) (mail.Provider, error) {
	canonical, err := providers.CanonicalID(providerID)
	if err != nil {
		return nil, err
	}

	sc.mu.RLock()
	client, ok := sc.clients[canonical]
	sc.mu.RUnlock()
	if ok {
		return client, nil
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if client, ok := sc.clients[canonical]; ok {
		return client, nil
	}

	switch canonical {
	case providers.Google:
		gmailClient, err := gmail.NewClient(sc.ctx, sc.manager.TokenSource(sc.ctx, providers.Google))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gmail client: %w", err)
		}
		client = gmailClient
	case providers.Azure:
		client = outlook.NewClient(sc.manager.TokenSource(sc.ctx, providers.Azure))
	}

	sc.clients[canonical] = client
	return client, nil
}

// SetMailClient sets the cached client for a provider. Used by tests to
// inject fakes.
func (sc *ServerContext) SetMailClient(providerID string, client mail.Provider) {
	canonical, err := providers.CanonicalID(providerID)
	if err != nil {
		canonical = providerID
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.clients[canonical] = client
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context. It is safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
