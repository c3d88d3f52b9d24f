package email_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Astroa7m/MailNet/internal/server"
	"github.com/Astroa7m/MailNet/internal/tools/common"
)

// RegisterStatusTools registers the credential status tool with the MCP
// server. Reporting stored credential state is safe and always available.
func RegisterStatusTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	authStatusTool := mcp.NewTool("auth_status",
		mcp.WithDescription("Report the authorization state of the mail providers: whether credentials are stored, valid, and refreshable. Never returns token values."),
		mcp.WithString("provider",
			mcp.Description("Report a single provider: 'google' or 'outlook'. Omit for all providers."),
		),
	)

	s.AddTool(authStatusTool, common.InstrumentedToolHandler(
		"auth_status", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAuthStatus(ctx, request, sc)
		}))

	return nil
}

func handleAuthStatus(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	// A named provider narrows the report; the default covers all of them.
	if providerVal, ok := args["provider"].(string); ok && providerVal != "" {
		provider, err := common.GetProviderFromArgs(args)
		if err != nil {
			return failedResult(err.Error()), nil
		}
		status, err := sc.Manager().Status(provider)
		if err != nil {
			return failedResult(err.Error()), nil
		}
		return succeededResult("Authorization status has been read successfully", status), nil
	}

	return succeededResult("Authorization status has been read successfully", sc.Manager().StatusAll()), nil
}
