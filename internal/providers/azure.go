package providers

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// Environment variable names for the Azure confidential client. The values
// are resolved by the command layer and handed in through Options; the names
// live here so error messages can point at the right variable.
const (
	EnvAzureClientID     = "AZURE_APPLICATION_CLIENT_ID"
	EnvAzureClientSecret = "AZURE_CLIENT_SECRET_VALUE"
	EnvAzureTenant       = "AZURE_TENANT_ID"
)

// DefaultAzureTenant is the multi-tenant login endpoint segment used when no
// tenant is configured.
const DefaultAzureTenant = "common"

// GraphDefaultScope requests the statically consented Microsoft Graph
// permissions of the application registration.
const GraphDefaultScope = "https://graph.microsoft.com/.default"

// newAzureDescriptor builds the confidential-client descriptor from the
// externally supplied client values. A confidential client cannot
// authenticate without its id and secret, so absence of either fails with
// *MissingClientSecretError naming the environment variables to set.
func newAzureDescriptor(clientID, clientSecret, tenant string) (*Descriptor, error) {
	var missing []string
	if clientID == "" {
		missing = append(missing, EnvAzureClientID)
	}
	if clientSecret == "" {
		missing = append(missing, EnvAzureClientSecret)
	}
	if len(missing) > 0 {
		return nil, &MissingClientSecretError{Provider: Azure, Missing: missing}
	}

	if tenant == "" {
		tenant = DefaultAzureTenant
	}
	endpoint := microsoft.AzureADEndpoint(tenant)

	return &Descriptor{
		ID:       Azure,
		AuthURL:  endpoint.AuthURL,
		TokenURL: endpoint.TokenURL,
		// Azure AD v2.0 accepts client_secret_post; declaring it skips the
		// auth style probe on first use.
		AuthStyle:    oauth2.AuthStyleInParams,
		Scopes:       []string{GraphDefaultScope},
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Grant:        GrantConfidentialClient,
	}, nil
}
