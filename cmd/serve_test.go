package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Astroa7m/MailNet/internal/credentials"
	"github.com/Astroa7m/MailNet/internal/providers"
	"github.com/Astroa7m/MailNet/internal/server"
)

const testCredentialsJSON = `{
  "installed": {
    "client_id": "test-client-id.apps.googleusercontent.com",
    "project_id": "mailnet-test",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "client_secret": "test-client-secret",
    "redirect_uris": ["http://localhost"]
  }
}`

func TestNewServeCmdDefaults(t *testing.T) {
	cmd := newServeCmd()

	tests := []struct {
		flag     string
		expected string
	}{
		{flag: "debug", expected: "false"},
		{flag: "transport", expected: "stdio"},
		{flag: "http-addr", expected: "127.0.0.1:8080"},
		{flag: "yolo", expected: "false"},
		{flag: "metrics-enabled", expected: "true"},
		{flag: "metrics-addr", expected: ":9090"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			f := cmd.Flags().Lookup(tt.flag)
			if f == nil {
				t.Fatalf("flag %q is not defined", tt.flag)
			}
			if f.DefValue != tt.expected {
				t.Errorf("flag %q default = %q, want %q", tt.flag, f.DefValue, tt.expected)
			}
		})
	}
}

// setupCredentialEnv points the credential configuration at a temp dir so
// commands can assemble a manager without touching the real config directory.
func setupCredentialEnv(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	credentialsFile := filepath.Join(dir, "credentials.json")
	if err := os.WriteFile(credentialsFile, []byte(testCredentialsJSON), 0600); err != nil {
		t.Fatalf("failed to write credentials file: %v", err)
	}

	t.Setenv(credentials.EnvGoogleCredentialsFile, credentialsFile)
	t.Setenv(credentials.EnvGoogleTokenFile, filepath.Join(dir, "google_token.json"))
	t.Setenv(credentials.EnvAzureTokenFile, filepath.Join(dir, "azure_token.json"))
	t.Setenv(providers.EnvAzureClientID, "azure-client")
	t.Setenv(providers.EnvAzureClientSecret, "azure-secret")
}

func TestNewCredentialManager(t *testing.T) {
	setupCredentialEnv(t)

	manager, err := newCredentialManager(credentialManagerOptions{})
	if err != nil {
		t.Fatalf("newCredentialManager() error = %v", err)
	}

	statuses := manager.StatusAll()
	if len(statuses) != 2 {
		t.Fatalf("StatusAll() returned %d providers, want 2", len(statuses))
	}
	for _, status := range statuses {
		if status.Error != "" {
			t.Errorf("provider %s reported error: %s", status.Provider, status.Error)
		}
		if status.Authorized {
			t.Errorf("provider %s unexpectedly authorized", status.Provider)
		}
	}
}

func TestRegisterAllTools(t *testing.T) {
	setupCredentialEnv(t)

	manager, err := newCredentialManager(credentialManagerOptions{})
	if err != nil {
		t.Fatalf("newCredentialManager() error = %v", err)
	}

	serverContext, err := server.NewServerContext(context.Background(), server.Config{Manager: manager})
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	defer func() { _ = serverContext.Shutdown() }()

	mcpSrv := mcpserver.NewMCPServer("email_mcp", "test",
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)

	if err := registerAllTools(mcpSrv, serverContext, false); err != nil {
		t.Fatalf("registerAllTools() error = %v", err)
	}

	tools := mcpSrv.ListTools()
	if len(tools) == 0 {
		t.Fatal("no tools registered")
	}

	for _, name := range []string{"read_emails", "send_email", "auth_status"} {
		found := false
		for _, st := range tools {
			if st.Tool.Name == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("tool %q not registered", name)
		}
	}
}
