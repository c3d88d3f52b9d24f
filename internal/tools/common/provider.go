package common

import (
	"github.com/Astroa7m/MailNet/internal/providers"
)

// GetProviderFromArgs extracts the provider id from request arguments.
// The "provider" argument is optional on every tool and defaults to Google;
// aliases such as "outlook" resolve to their canonical provider id.
//
// An unknown identifier is returned as an error so the tool can report it
// to the caller instead of silently falling back to the default provider.
func GetProviderFromArgs(args map[string]interface{}) (string, error) {
	id := providers.Google
	if providerVal, ok := args["provider"].(string); ok && providerVal != "" {
		id = providerVal
	}
	return providers.CanonicalID(id)
}
