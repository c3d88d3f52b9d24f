package providers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const installedCredentialsJSON = `{
  "installed": {
    "client_id": "test-client-id.apps.googleusercontent.com",
    "project_id": "mailnet-test",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "client_secret": "test-client-secret",
    "redirect_uris": ["http://localhost"]
  }
}`

const webCredentialsJSON = `{
  "web": {
    "client_id": "web-client-id.apps.googleusercontent.com",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "client_secret": "web-client-secret"
  }
}`

func writeCredentialsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write credentials file: %v", err)
	}
	return path
}

func TestResolveUnknownProvider(t *testing.T) {
	r := NewRegistry(Options{})

	_, err := r.Resolve("yahoo")
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}

	var unknownErr *UnknownProviderError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownProviderError, got %T: %v", err, err)
	}
	if unknownErr.ID != "yahoo" {
		t.Errorf("error ID = %q, want %q", unknownErr.ID, "yahoo")
	}
}

func TestResolveGoogle(t *testing.T) {
	tests := []struct {
		name         string
		credentials  string
		wantClientID string
		wantErr      bool
	}{
		{
			name:         "installed app credentials",
			credentials:  installedCredentialsJSON,
			wantClientID: "test-client-id.apps.googleusercontent.com",
		},
		{
			name:         "web credentials",
			credentials:  webCredentialsJSON,
			wantClientID: "web-client-id.apps.googleusercontent.com",
		},
		{
			name:        "invalid json",
			credentials: "{not json",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCredentialsFile(t, tt.credentials)
			r := NewRegistry(Options{GoogleCredentialsFile: path})

			d, err := r.Resolve(Google)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(google) failed: %v", err)
			}

			if d.ID != Google {
				t.Errorf("ID = %q, want %q", d.ID, Google)
			}
			if d.ClientID != tt.wantClientID {
				t.Errorf("ClientID = %q, want %q", d.ClientID, tt.wantClientID)
			}
			if d.Grant != GrantInstalledApp {
				t.Errorf("Grant = %q, want %q", d.Grant, GrantInstalledApp)
			}
			if !d.UsesPKCE {
				t.Error("google descriptor should use PKCE")
			}
			if d.AuthURL != "https://accounts.google.com/o/oauth2/auth" {
				t.Errorf("AuthURL = %q", d.AuthURL)
			}
			if d.TokenURL != "https://oauth2.googleapis.com/token" {
				t.Errorf("TokenURL = %q", d.TokenURL)
			}
			if len(d.Scopes) != len(GoogleScopes) {
				t.Errorf("Scopes count = %d, want %d", len(d.Scopes), len(GoogleScopes))
			}
		})
	}
}

func TestResolveGoogleMissingFile(t *testing.T) {
	r := NewRegistry(Options{GoogleCredentialsFile: filepath.Join(t.TempDir(), "absent.json")})
	if _, err := r.Resolve(Google); err == nil {
		t.Error("expected error for missing credentials file")
	}

	r = NewRegistry(Options{})
	if _, err := r.Resolve(Google); err == nil {
		t.Error("expected error for unconfigured credentials path")
	}
}

func TestResolveAzure(t *testing.T) {
	tests := []struct {
		name        string
		opts        Options
		wantMissing []string
	}{
		{
			name: "fully configured",
			opts: Options{AzureClientID: "app-id", AzureClientSecret: "secret"},
		},
		{
			name:        "missing secret",
			opts:        Options{AzureClientID: "app-id"},
			wantMissing: []string{EnvAzureClientSecret},
		},
		{
			name:        "missing id",
			opts:        Options{AzureClientSecret: "secret"},
			wantMissing: []string{EnvAzureClientID},
		},
		{
			name:        "missing both",
			opts:        Options{},
			wantMissing: []string{EnvAzureClientID, EnvAzureClientSecret},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(tt.opts)

			d, err := r.Resolve(Azure)
			if len(tt.wantMissing) > 0 {
				var missingErr *MissingClientSecretError
				if !errors.As(err, &missingErr) {
					t.Fatalf("expected MissingClientSecretError, got %T: %v", err, err)
				}
				if len(missingErr.Missing) != len(tt.wantMissing) {
					t.Fatalf("Missing = %v, want %v", missingErr.Missing, tt.wantMissing)
				}
				for i, name := range tt.wantMissing {
					if missingErr.Missing[i] != name {
						t.Errorf("Missing[%d] = %q, want %q", i, missingErr.Missing[i], name)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(azure) failed: %v", err)
			}

			if d.Grant != GrantConfidentialClient {
				t.Errorf("Grant = %q, want %q", d.Grant, GrantConfidentialClient)
			}
			if d.UsesPKCE {
				t.Error("azure descriptor should not use PKCE")
			}
			if !strings.Contains(d.TokenURL, "login.microsoftonline.com/common/") {
				t.Errorf("TokenURL = %q, want common tenant endpoint", d.TokenURL)
			}
			if len(d.Scopes) != 1 || d.Scopes[0] != GraphDefaultScope {
				t.Errorf("Scopes = %v, want [%s]", d.Scopes, GraphDefaultScope)
			}
		})
	}
}

func TestResolveAzureTenant(t *testing.T) {
	r := NewRegistry(Options{
		AzureClientID:     "app-id",
		AzureClientSecret: "secret",
		AzureTenant:       "contoso.onmicrosoft.com",
	})

	d, err := r.Resolve(Azure)
	if err != nil {
		t.Fatalf("Resolve(azure) failed: %v", err)
	}
	if !strings.Contains(d.AuthURL, "/contoso.onmicrosoft.com/") {
		t.Errorf("AuthURL = %q, want tenant-specific endpoint", d.AuthURL)
	}
}

func TestResolveOutlookAlias(t *testing.T) {
	r := NewRegistry(Options{AzureClientID: "app-id", AzureClientSecret: "secret"})

	d, err := r.Resolve("outlook")
	if err != nil {
		t.Fatalf("Resolve(outlook) failed: %v", err)
	}
	if d.ID != Azure {
		t.Errorf("ID = %q, want %q", d.ID, Azure)
	}
}

func TestResolveCachesDescriptor(t *testing.T) {
	path := writeCredentialsFile(t, installedCredentialsJSON)
	r := NewRegistry(Options{GoogleCredentialsFile: path})

	first, err := r.Resolve(Google)
	if err != nil {
		t.Fatalf("first Resolve failed: %v", err)
	}

	// Remove the file; the cached descriptor must still resolve.
	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove credentials file: %v", err)
	}

	second, err := r.Resolve(Google)
	if err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}
	if first != second {
		t.Error("Resolve should return the cached descriptor")
	}
}

func TestDescriptorOAuthConfig(t *testing.T) {
	d := &Descriptor{
		ID:           Google,
		AuthURL:      "https://auth.example.com",
		TokenURL:     "https://token.example.com",
		Scopes:       []string{"scope-a", "scope-b"},
		ClientID:     "id",
		ClientSecret: "secret",
		Grant:        GrantInstalledApp,
	}

	conf := d.OAuthConfig("http://127.0.0.1:8123/callback")
	if conf.ClientID != "id" || conf.ClientSecret != "secret" {
		t.Error("client values not carried into oauth2.Config")
	}
	if conf.RedirectURL != "http://127.0.0.1:8123/callback" {
		t.Errorf("RedirectURL = %q", conf.RedirectURL)
	}
	if conf.Endpoint.AuthURL != d.AuthURL || conf.Endpoint.TokenURL != d.TokenURL {
		t.Error("endpoints not carried into oauth2.Config")
	}
}

func TestDescriptorClientCredentialsConfig(t *testing.T) {
	d := &Descriptor{
		ID:           Azure,
		TokenURL:     "https://token.example.com",
		Scopes:       []string{GraphDefaultScope},
		ClientID:     "id",
		ClientSecret: "secret",
		Grant:        GrantConfidentialClient,
	}

	conf := d.ClientCredentialsConfig()
	if conf.ClientID != "id" || conf.ClientSecret != "secret" {
		t.Error("client values not carried into clientcredentials.Config")
	}
	if conf.TokenURL != d.TokenURL {
		t.Errorf("TokenURL = %q, want %q", conf.TokenURL, d.TokenURL)
	}
}
