package server

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Astroa7m/MailNet/internal/credentials"
	"github.com/Astroa7m/MailNet/internal/mail"
	"github.com/Astroa7m/MailNet/internal/providers"
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

type noFlowAuthorizer struct{}

func (noFlowAuthorizer) Authorize(context.Context, *providers.Descriptor, string) (*credentials.Bundle, error) {
	return nil, errors.New("unexpected authorize call")
}

type noFlowRefresher struct{}

func (noFlowRefresher) Refresh(context.Context, *providers.Descriptor, *credentials.Bundle) (*credentials.Bundle, error) {
	return nil, errors.New("unexpected refresh call")
}

// newTestManager builds a manager over temp-dir fixtures. The returned
// manager has both providers configured but neither authorized.
func newTestManager(t *testing.T) *credentials.Manager {
	t.Helper()

	dir := t.TempDir()
	credentialsFile := filepath.Join(dir, "credentials.json")
	if err := os.WriteFile(credentialsFile, []byte(testCredentialsJSON), 0600); err != nil {
		t.Fatalf("failed to write credentials file: %v", err)
	}

	manager, err := credentials.NewManager(credentials.ManagerConfig{
		Registry: providers.NewRegistry(providers.Options{
			GoogleCredentialsFile: credentialsFile,
			AzureClientID:         "azure-client",
			AzureClientSecret:     "azure-secret",
		}),
		Store: credentials.NewFileStore(),
		Paths: credentials.Paths{
			GoogleTokenFile: filepath.Join(dir, "google_token.json"),
			AzureTokenFile:  filepath.Join(dir, "azure_token.json"),
		},
		Authorizer: noFlowAuthorizer{},
		Refresher:  noFlowRefresher{},
	})
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return manager
}

func newTestServerContext(t *testing.T) *ServerContext {
	t.Helper()

	sc, err := NewServerContext(context.Background(), Config{Manager: newTestManager(t)})
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestNewServerContext_RequiresManager(t *testing.T) {
	_, err := NewServerContext(context.Background(), Config{})
	if err == nil {
		t.Fatal("NewServerContext() expected error for missing manager, got nil")
	}
}

func TestServerContext_Manager(t *testing.T) {
	manager := newTestManager(t)
	sc, err := NewServerContext(context.Background(), Config{Manager: manager})
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	defer func() { _ = sc.Shutdown() }()

	if sc.Manager() != manager {
		t.Error("Manager() should return the configured manager")
	}
}

func TestServerContext_MailClientUnknownProvider(t *testing.T) {
	sc := newTestServerContext(t)

	_, err := sc.MailClient("yahoo")
	if err == nil {
		t.Fatal("MailClient() expected error for unknown provider, got nil")
	}
	var unknown *providers.UnknownProviderError
	if !errors.As(err, &unknown) {
		t.Errorf("MailClient() error = %v, want *providers.UnknownProviderError", err)
	}
}

func TestServerContext_MailClientCached(t *testing.T) {
	sc := newTestServerContext(t)

	first, err := sc.MailClient(providers.Azure)
	if err != nil {
		t.Fatalf("MailClient(azure) error = %v", err)
	}
	second, err := sc.MailClient(providers.Azure)
	if err != nil {
		t.Fatalf("MailClient(azure) error = %v", err)
	}
	if first != second {
		t.Error("MailClient() should return the cached client on repeated calls")
	}
}

func TestServerContext_MailClientOutlookAlias(t *testing.T) {
	sc := newTestServerContext(t)

	azure, err := sc.MailClient(providers.Azure)
	if err != nil {
		t.Fatalf("MailClient(azure) error = %v", err)
	}
	outlook, err := sc.MailClient("outlook")
	if err != nil {
		t.Fatalf("MailClient(outlook) error = %v", err)
	}
	if azure != outlook {
		t.Error("MailClient(outlook) should resolve to the azure client")
	}
}

func TestServerContext_SetMailClient(t *testing.T) {
	sc := newTestServerContext(t)

	fake := &stubMailProvider{}
	sc.SetMailClient("outlook", fake)

	client, err := sc.MailClient(providers.Azure)
	if err != nil {
		t.Fatalf("MailClient(azure) error = %v", err)
	}
	if client != mail.Provider(fake) {
		t.Error("MailClient() should return the injected client for the aliased provider")
	}
}

func TestServerContext_Shutdown(t *testing.T) {
	sc := newTestServerContext(t)

	if sc.IsShutdown() {
		t.Error("IsShutdown() should be false before Shutdown()")
	}

	if err := sc.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !sc.IsShutdown() {
		t.Error("IsShutdown() should be true after Shutdown()")
	}

	select {
	case <-sc.Context().Done():
	default:
		t.Error("Context() should be canceled after Shutdown()")
	}

	// Second shutdown is a no-op
	if err := sc.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}

// stubMailProvider is a minimal mail.Provider for injection tests.
type stubMailProvider struct{}

func (s *stubMailProvider) SendEmail(to, subject, body string) (*mail.MessageRef, error) {
	return nil, errors.New("not implemented")
}

func (s *stubMailProvider) DraftEmail(to, subject, body string) (*mail.DraftRef, error) {
	return nil, errors.New("not implemented")
}

func (s *stubMailProvider) SendDraft(draftID string) (*mail.MessageRef, error) {
	return nil, errors.New("not implemented")
}

func (s *stubMailProvider) GetEmail(messageID string) (*mail.Message, error) {
	return nil, errors.New("not implemented")
}

func (s *stubMailProvider) SearchEmails(criteria mail.SearchCriteria) ([]*mail.Message, error) {
	return nil, errors.New("not implemented")
}

func (s *stubMailProvider) ReadEmails(maxResults int64, daysBack int) ([]*mail.Message, error) {
	return nil, errors.New("not implemented")
}

func (s *stubMailProvider) ReplyToEmail(messageID, body string) (*mail.MessageRef, error) {
	return nil, errors.New("not implemented")
}

func (s *stubMailProvider) DeleteEmail(messageID string) error {
	return errors.New("not implemented")
}

func (s *stubMailProvider) ArchiveEmail(messageID string) (*mail.MessageRef, error) {
	return nil, errors.New("not implemented")
}

func (s *stubMailProvider) ToggleLabel(messageID, labelName string, action mail.LabelAction) (*mail.MessageRef, error) {
	return nil, errors.New("not implemented")
}
