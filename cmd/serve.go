package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Astroa7m/MailNet/internal/credentials"
	"github.com/Astroa7m/MailNet/internal/instrumentation"
	"github.com/Astroa7m/MailNet/internal/oauth"
	"github.com/Astroa7m/MailNet/internal/providers"
	"github.com/Astroa7m/MailNet/internal/resources"
	"github.com/Astroa7m/MailNet/internal/server"
	"github.com/Astroa7m/MailNet/internal/tools/email_tools"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	var (
		debugMode bool
		transport string
		httpAddr  string
		yolo      bool
		// Metrics server configuration
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide Gmail and Outlook
mail tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Safety Mode:
  By default, the server operates in read-only mode, providing only safe operations.
  Use --yolo to enable write operations (sending mail, deleting messages, etc.)

Credentials:
  Tokens live in the mailnet config directory and are refreshed automatically
  before they expire. Authorize a provider up front with "mailnet login", or
  let the server trigger the authorization flow on first use.

  Google:  place the OAuth client file at <config-dir>/mailnet/credentials.json
           or point GOOGLE_CREDENTIALS_FILE_PATH at it
  Outlook: set AZURE_APPLICATION_CLIENT_ID, AZURE_CLIENT_SECRET_VALUE and
           optionally AZURE_TENANT_ID`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Build metrics config
			metricsConfig := MetricsConfig{
				Enabled: metricsEnabled,
				Addr:    metricsAddr,
			}

			return runServe(transport, debugMode, httpAddr, yolo, metricsConfig)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", "127.0.0.1:8080", "HTTP server address (for streamable-http transport). The server performs no inbound authentication; bind beyond loopback only behind your own access control.")
	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations (email sending, message deletion, etc.). Default is read-only mode.")

	// Metrics server flags
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(transport string, debugMode bool, httpAddr string, yolo bool, metricsConfig MetricsConfig) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if debugMode {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	// Load metrics config from environment if not set via flags
	if !metricsConfig.Enabled {
		if os.Getenv("METRICS_ENABLED") == "true" {
			metricsConfig.Enabled = true
		}
	}
	if metricsConfig.Addr == "" || metricsConfig.Addr == ":9090" {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			metricsConfig.Addr = addr
		}
	}

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			if transport != "stdio" {
				log.Printf("Error during instrumentation shutdown: %v", err)
			}
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if transport != "stdio" && metricsConfig.Enabled && provider.Enabled() {
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsConfig.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		// Wait for metrics server to be ready or fail
		select {
		case <-metricsReady:
			log.Printf("Metrics server started on %s", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	// Instrumentation hooks for the credential manager and tool handlers
	var metrics *instrumentation.Metrics
	var auditLogger *instrumentation.AuditLogger
	if provider.Enabled() {
		metrics = provider.Metrics()
		auditLogger = instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging)
	}

	// Build the credential manager that backs every mail client
	manager, err := newCredentialManager(credentialManagerOptions{
		Metrics: metrics,
		Audit:   auditLogger,
	})
	if err != nil {
		return err
	}

	// Create server context
	serverContext, err := server.NewServerContext(shutdownCtx, server.Config{
		Manager:     manager,
		Metrics:     metrics,
		AuditLogger: auditLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		// Shutdown metrics server first
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			if transport != "stdio" {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("email_mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)

	// readOnly is the inverse of yolo
	readOnly := !yolo

	// Log the mode for visibility (only for non-stdio transports)
	if transport != "stdio" {
		if readOnly {
			log.Println("Starting server in READ-ONLY mode (use --yolo to enable write operations)")
		} else {
			log.Println("Starting server with WRITE operations enabled (--yolo flag is set)")
		}
	}

	// Register all tools and resources
	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}

	// Start the appropriate server based on transport type
	switch transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		fmt.Printf("Starting mailnet MCP server with %s transport...\n", transport)
		return runStreamableHTTPServer(mcpSrv, serverContext, httpAddr, shutdownCtx, metricsConfig)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools and resources
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, readOnly bool) error {
	// Define all tool registrations
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Email",
			register: func() error {
				return email_tools.RegisterEmailTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Auth Resources",
			register: func() error {
				return resources.RegisterAuthResources(mcpSrv, ctx)
			},
		},
	}

	// Register all tools
	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

func runStreamableHTTPServer(mcpSrv *mcpserver.MCPServer, serverContext *server.ServerContext, addr string, ctx context.Context, metricsConfig MetricsConfig) error {
	httpServer := server.NewHTTPServer(mcpSrv, serverContext)

	fmt.Printf("Streamable HTTP server starting on %s\n", addr)
	fmt.Printf("  HTTP endpoint: /mcp\n")
	fmt.Printf("  Health endpoints: /healthz, /readyz\n")
	if metricsConfig.Enabled {
		fmt.Printf("  Metrics endpoint: %s/metrics\n", metricsConfig.Addr)
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(addr); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		fmt.Println("Shutdown signal received, stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		fmt.Println("HTTP server stopped normally")
	}

	fmt.Println("HTTP server gracefully stopped")
	return nil
}

// credentialManagerOptions controls how the credential manager stack is
// assembled for a command.
type credentialManagerOptions struct {
	// ListenPort fixes the loopback callback port for authorization flows.
	// Zero selects an ephemeral port.
	ListenPort int

	// OpenBrowser overrides how the authorization URL is opened.
	OpenBrowser func(url string) error

	// FlowTimeout bounds the wait for the authorization callback.
	FlowTimeout time.Duration

	// Metrics and Audit are optional instrumentation hooks.
	Metrics *instrumentation.Metrics
	Audit   *instrumentation.AuditLogger
}

// newCredentialManager assembles the provider registry, token store and OAuth
// components into a credential manager. Configuration comes from the mailnet
// config directory and the environment.
func newCredentialManager(opts credentialManagerOptions) (*credentials.Manager, error) {
	paths, err := credentials.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config paths: %w", err)
	}

	registry := providers.NewRegistry(providers.Options{
		GoogleCredentialsFile: paths.GoogleCredentialsFile,
		AzureClientID:         os.Getenv(providers.EnvAzureClientID),
		AzureClientSecret:     os.Getenv(providers.EnvAzureClientSecret),
		AzureTenant:           os.Getenv(providers.EnvAzureTenant),
	})

	store := credentials.NewFileStore()

	flow, err := oauth.NewFlow(oauth.FlowConfig{
		Store:       store,
		Timeout:     opts.FlowTimeout,
		ListenPort:  opts.ListenPort,
		OpenBrowser: opts.OpenBrowser,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create authorization flow: %w", err)
	}

	manager, err := credentials.NewManager(credentials.ManagerConfig{
		Registry:   registry,
		Store:      store,
		Paths:      paths,
		Authorizer: flow,
		Refresher:  oauth.NewRefresher(nil),
		Metrics:    opts.Metrics,
		Audit:      opts.Audit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create credential manager: %w", err)
	}
	return manager, nil
}
