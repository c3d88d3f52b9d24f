package oauth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/Astroa7m/MailNet/internal/credentials"
	"github.com/Astroa7m/MailNet/internal/logging"
	"github.com/Astroa7m/MailNet/internal/providers"
)

// DefaultFlowTimeout bounds how long an installed-app flow waits for the user
// to finish authorization in the browser.
const DefaultFlowTimeout = 5 * time.Minute

// FlowConfig configures an authorization flow.
type FlowConfig struct {
	// Store persists the obtained bundle before Authorize returns.
	Store credentials.Store

	// Logger receives flow progress events. Defaults to the process logger.
	Logger logging.Logger

	// Timeout bounds the wait for the browser callback.
	// Zero means DefaultFlowTimeout.
	Timeout time.Duration

	// ListenPort fixes the loopback callback port. Zero selects an
	// ephemeral port.
	ListenPort int

	// OpenBrowser launches the user's browser with the authorization URL.
	// Defaults to OpenBrowser. The URL is also logged so the user can open
	// it manually if launching fails.
	OpenBrowser func(url string) error
}

// Flow performs a provider's initial authorization and persists the resulting
// credential bundle. A flow value is reusable; each Authorize call runs an
// independent grant.
type Flow struct {
	store       credentials.Store
	logger      logging.Logger
	timeout     time.Duration
	listenPort  int
	openBrowser func(url string) error
}

// NewFlow creates a flow, applying defaults for unset config fields.
func NewFlow(config FlowConfig) (*Flow, error) {
	if config.Store == nil {
		return nil, fmt.Errorf("flow requires a credential store")
	}

	f := &Flow{
		store:       config.Store,
		logger:      config.Logger,
		timeout:     config.Timeout,
		listenPort:  config.ListenPort,
		openBrowser: config.OpenBrowser,
	}
	if f.logger == nil {
		f.logger = logging.DefaultLogger()
	}
	if f.timeout <= 0 {
		f.timeout = DefaultFlowTimeout
	}
	if f.openBrowser == nil {
		f.openBrowser = OpenBrowser
	}
	return f, nil
}

// Authorize runs the grant variant the descriptor calls for and persists the
// bundle to tokenPath before returning it. Cancelling the context tears the
// flow down without persisting anything.
func (f *Flow) Authorize(ctx context.Context, desc *providers.Descriptor, tokenPath string) (*credentials.Bundle, error) {
	switch desc.Grant {
	case providers.GrantInstalledApp:
		return f.authorizeInstalledApp(ctx, desc, tokenPath)
	case providers.GrantConfidentialClient:
		return f.authorizeClientCredentials(ctx, desc, tokenPath)
	default:
		return nil, fmt.Errorf("provider %s has unsupported grant style %q", desc.ID, desc.Grant)
	}
}

// authorizeInstalledApp runs the authorization-code flow with a loopback
// redirect. The callback listener is torn down on every exit path.
func (f *Flow) authorizeInstalledApp(ctx context.Context, desc *providers.Descriptor, tokenPath string) (*credentials.Bundle, error) {
	state, err := GenerateState()
	if err != nil {
		return nil, err
	}

	callback := NewCallbackServer(f.listenPort, state)
	if err := callback.Start(); err != nil {
		return nil, err
	}
	defer callback.Stop()

	conf := desc.OAuthConfig(callback.RedirectURL())

	authOpts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	}
	var verifier string
	if desc.UsesPKCE {
		verifier, err = GenerateCodeVerifier()
		if err != nil {
			return nil, err
		}
		authOpts = append(authOpts,
			oauth2.SetAuthURLParam("code_challenge", GenerateCodeChallenge(verifier)),
			oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		)
	}

	authURL := conf.AuthCodeURL(state, authOpts...)
	f.logger.Info("waiting for authorization in the browser",
		logging.Provider(desc.ID), "url", authURL)
	if err := f.openBrowser(authURL); err != nil {
		f.logger.Warn("failed to open browser, visit the URL manually",
			logging.Provider(desc.ID), logging.Err(err))
	}

	code, err := callback.WaitForCode(ctx, f.timeout)
	if err != nil {
		return nil, err
	}

	var exchangeOpts []oauth2.AuthCodeOption
	if desc.UsesPKCE {
		exchangeOpts = append(exchangeOpts, oauth2.SetAuthURLParam("code_verifier", verifier))
	}
	token, err := conf.Exchange(ctx, code, exchangeOpts...)
	if err != nil {
		return nil, &TokenExchangeError{Provider: desc.ID, Err: err}
	}

	bundle := credentials.NewBundle(token, desc.Scopes, desc.ClientID)
	if err := f.store.Save(tokenPath, bundle); err != nil {
		return nil, err
	}

	f.logger.Info("authorization complete",
		logging.Provider(desc.ID), "refresh_token_present", bundle.CanRefresh())
	return bundle, nil
}

// authorizeClientCredentials trades the client secret for a token directly.
// No browser or user interaction is involved.
func (f *Flow) authorizeClientCredentials(ctx context.Context, desc *providers.Descriptor, tokenPath string) (*credentials.Bundle, error) {
	var missing []string
	if desc.ClientID == "" {
		missing = append(missing, "client id")
	}
	if desc.ClientSecret == "" {
		missing = append(missing, "client secret")
	}
	if desc.TokenURL == "" {
		missing = append(missing, "token endpoint")
	}
	if len(missing) > 0 {
		return nil, &providers.MissingClientSecretError{Provider: desc.ID, Missing: missing}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	token, err := desc.ClientCredentialsConfig().Token(ctx)
	if err != nil {
		return nil, &TokenExchangeError{Provider: desc.ID, Err: err}
	}

	bundle := credentials.NewBundle(token, desc.Scopes, desc.ClientID)
	if err := f.store.Save(tokenPath, bundle); err != nil {
		return nil, err
	}

	f.logger.Info("client credentials grant complete", logging.Provider(desc.ID))
	return bundle, nil
}
