package providers

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// GrantStyle selects how a provider's initial authorization is performed.
type GrantStyle string

const (
	// GrantInstalledApp is the browser-mediated authorization-code flow with a
	// loopback redirect, used by public clients that cannot hold a secret.
	GrantInstalledApp GrantStyle = "installed-app"

	// GrantConfidentialClient is the direct client-credentials flow, used by
	// clients that authenticate with a protected secret. No browser involved.
	GrantConfidentialClient GrantStyle = "confidential-client"
)

// Provider identifiers. "outlook" is accepted as an alias for azure because
// the mail tool surface names the Microsoft provider by its mail product.
const (
	Google = "google"
	Azure  = "azure"

	aliasOutlook = "outlook"
)

// Descriptor is the immutable description of one supported provider.
type Descriptor struct {
	// ID is the canonical provider identifier ("google" or "azure").
	ID string

	// AuthURL and TokenURL are the provider's OAuth2 endpoints. AuthStyle
	// declares how the token endpoint wants client credentials presented,
	// which avoids the style probing oauth2 falls back to otherwise.
	AuthURL   string
	TokenURL  string
	AuthStyle oauth2.AuthStyle

	// Scopes is the fixed scope set requested during authorization.
	Scopes []string

	// ClientID and ClientSecret identify this application to the provider.
	// ClientSecret may be empty for installed-app clients.
	ClientID     string
	ClientSecret string

	// Grant selects the authorization variant.
	Grant GrantStyle

	// UsesPKCE indicates whether the installed-app flow should attach a
	// proof-key challenge. Ignored for confidential clients.
	UsesPKCE bool
}

// OAuthConfig builds the oauth2 configuration for the installed-app flow.
// The redirect URL is supplied by the flow once its loopback listener is bound.
func (d *Descriptor) OAuthConfig(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     d.ClientID,
		ClientSecret: d.ClientSecret,
		RedirectURL:  redirectURL,
		Scopes:       d.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   d.AuthURL,
			TokenURL:  d.TokenURL,
			AuthStyle: d.AuthStyle,
		},
	}
}

// ClientCredentialsConfig builds the client-credentials configuration for the
// confidential-client flow.
func (d *Descriptor) ClientCredentialsConfig() *clientcredentials.Config {
	return &clientcredentials.Config{
		ClientID:     d.ClientID,
		ClientSecret: d.ClientSecret,
		TokenURL:     d.TokenURL,
		Scopes:       d.Scopes,
		AuthStyle:    d.AuthStyle,
	}
}

// UnknownProviderError reports a provider identifier that is not compiled in.
type UnknownProviderError struct {
	ID string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider %q (supported: %s, %s)", e.ID, Google, Azure)
}

// MissingClientSecretError reports that a confidential-client provider cannot
// authenticate because required configuration values are absent.
type MissingClientSecretError struct {
	Provider string
	Missing  []string
}

func (e *MissingClientSecretError) Error() string {
	return fmt.Sprintf("provider %s is not configured: missing %s",
		e.Provider, strings.Join(e.Missing, ", "))
}

// Options carries the externally resolved configuration the registry needs.
// Values are already-resolved strings; the registry never reads the
// environment itself.
type Options struct {
	// GoogleCredentialsFile is the path to the user-supplied client-credential
	// JSON file downloaded from the Google Cloud console.
	GoogleCredentialsFile string

	// AzureClientID and AzureClientSecret are the confidential-client values.
	AzureClientID     string
	AzureClientSecret string

	// AzureTenant is the Azure AD tenant segment of the login endpoints.
	// Empty means the multi-tenant "common" endpoint.
	AzureTenant string
}

// CanonicalID normalizes a provider identifier, resolving aliases, without
// building the descriptor. It fails only for identifiers that are not
// compiled in.
func CanonicalID(id string) (string, error) {
	canonical := strings.ToLower(strings.TrimSpace(id))
	if canonical == aliasOutlook {
		canonical = Azure
	}
	switch canonical {
	case Google, Azure:
		return canonical, nil
	}
	return "", &UnknownProviderError{ID: id}
}

// Registry resolves provider identifiers to descriptors.
//
// The Google descriptor requires reading the client-credential file, so
// resolution is lazy and the result is cached; descriptors never change for
// the lifetime of the process.
type Registry struct {
	opts Options

	mu    sync.Mutex
	cache map[string]*Descriptor
}

// NewRegistry creates a registry over the given configuration.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		opts:  opts,
		cache: make(map[string]*Descriptor),
	}
}

// Resolve returns the descriptor for the given provider identifier.
// It fails with *UnknownProviderError for identifiers that are not compiled in
// and with *MissingClientSecretError when the azure configuration is
// incomplete.
func (r *Registry) Resolve(id string) (*Descriptor, error) {
	canonical, err := CanonicalID(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if d, ok := r.cache[canonical]; ok {
		return d, nil
	}

	var d *Descriptor
	switch canonical {
	case Google:
		d, err = loadGoogleDescriptor(r.opts.GoogleCredentialsFile)
	case Azure:
		d, err = newAzureDescriptor(r.opts.AzureClientID, r.opts.AzureClientSecret, r.opts.AzureTenant)
	}
	if err != nil {
		return nil, err
	}

	r.cache[canonical] = d
	return d, nil
}

// IDs returns the canonical provider identifiers in stable order.
func (r *Registry) IDs() []string {
	return []string{Google, Azure}
}
