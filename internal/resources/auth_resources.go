package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Astroa7m/MailNet/internal/credentials"
	"github.com/Astroa7m/MailNet/internal/server"
)

// RegisterAuthResources registers resources describing the authorization
// state of the configured mail providers.
func RegisterAuthResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	providersResource := mcp.NewResource(
		"auth://providers",
		"Mail Provider Authorization",
		mcp.WithResourceDescription("Authorization state and token storage location for each mail provider"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(providersResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleProviderAuthorization(ctx, request, sc)
	})

	return nil
}

// providerAuthEntry is a provider status enriched with the on-disk token
// location. Token contents are never included.
type providerAuthEntry struct {
	*credentials.ProviderStatus
	TokenFile string `json:"token_file,omitempty"`
}

// handleProviderAuthorization returns the credential state of every supported
// provider without touching the network. Reading the resource never triggers
// an authorization flow.
func handleProviderAuthorization(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	manager := sc.Manager()

	statuses := manager.StatusAll()
	entries := make([]providerAuthEntry, 0, len(statuses))
	for _, status := range statuses {
		entry := providerAuthEntry{ProviderStatus: status}
		if path, err := manager.TokenFilePath(status.Provider); err == nil {
			entry.TokenFile = path
		}
		entries = append(entries, entry)
	}

	jsonData, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal provider authorization data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
