package credentials

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Astroa7m/MailNet/internal/providers"
)

// Environment variables that override the default credential file locations.
const (
	EnvGoogleCredentialsFile = "GOOGLE_CREDENTIALS_FILE_PATH"
	EnvGoogleTokenFile       = "GOOGLE_PREFERRED_TOKEN_FILE_PATH"
	EnvAzureTokenFile        = "AZURE_PREFERRED_TOKEN_FILE_PATH"
)

// Paths locates the credential files on disk.
//
// The client credential file (Google's credentials.json) is operator-provided
// and only ever read. Token files are owned by this process and written
// through the store.
type Paths struct {
	GoogleCredentialsFile string
	GoogleTokenFile       string
	AzureTokenFile        string
}

// DefaultPaths resolves file locations from the environment, falling back to
// the user config directory.
func DefaultPaths() (Paths, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("failed to determine config directory: %w", err)
	}
	base := filepath.Join(configDir, "mailnet")

	p := Paths{
		GoogleCredentialsFile: filepath.Join(base, "credentials.json"),
		GoogleTokenFile:       filepath.Join(base, "google_token.json"),
		AzureTokenFile:        filepath.Join(base, "azure_token.json"),
	}
	if v := os.Getenv(EnvGoogleCredentialsFile); v != "" {
		p.GoogleCredentialsFile = v
	}
	if v := os.Getenv(EnvGoogleTokenFile); v != "" {
		p.GoogleTokenFile = v
	}
	if v := os.Getenv(EnvAzureTokenFile); v != "" {
		p.AzureTokenFile = v
	}
	return p, nil
}

// TokenFile returns the token file path for a provider.
func (p Paths) TokenFile(providerID string) (string, error) {
	switch providerID {
	case providers.Google:
		return p.GoogleTokenFile, nil
	case providers.Azure:
		return p.AzureTokenFile, nil
	default:
		return "", &providers.UnknownProviderError{ID: providerID}
	}
}
