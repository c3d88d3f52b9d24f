package providers

import (
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
)

// GoogleScopes are the Gmail scopes requested during authorization.
//
// The scope set is fixed: full mailbox access plus the explicit send, label,
// and modify scopes the mail operations rely on.
var GoogleScopes = []string{
	gmail.MailGoogleComScope, // full Gmail access
	gmail.GmailSendScope,
	gmail.GmailLabelsScope,
	gmail.GmailModifyScope,
}

// loadGoogleDescriptor reads the client-credential JSON file downloaded from
// the Google Cloud console and builds the installed-app descriptor from it.
// Both the "installed" and "web" credential shapes are accepted.
func loadGoogleDescriptor(credentialsFile string) (*Descriptor, error) {
	if credentialsFile == "" {
		return nil, fmt.Errorf("google credentials file path is not configured")
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read google credentials file %s: %w", credentialsFile, err)
	}

	conf, err := google.ConfigFromJSON(data, GoogleScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse google credentials file %s: %w", credentialsFile, err)
	}

	return &Descriptor{
		ID:           Google,
		AuthURL:      conf.Endpoint.AuthURL,
		TokenURL:     conf.Endpoint.TokenURL,
		AuthStyle:    conf.Endpoint.AuthStyle,
		Scopes:       GoogleScopes,
		ClientID:     conf.ClientID,
		ClientSecret: conf.ClientSecret,
		Grant:        GrantInstalledApp,
		UsesPKCE:     true,
	}, nil
}
