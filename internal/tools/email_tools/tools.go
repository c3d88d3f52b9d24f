package email_tools

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Astroa7m/MailNet/internal/server"
)

// RegisterEmailTools registers all email tools with the MCP server.
// Write tools are skipped in read-only mode.
func RegisterEmailTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Register read tools (always available)
	if err := RegisterReadTools(s, sc); err != nil {
		return fmt.Errorf("failed to register read tools: %w", err)
	}

	// Register send tools (write operations require !readOnly)
	if err := RegisterSendTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register send tools: %w", err)
	}

	// Register mailbox management tools (write operations require !readOnly)
	if err := RegisterManageTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register manage tools: %w", err)
	}

	// Register credential status tool (always available)
	if err := RegisterStatusTools(s, sc); err != nil {
		return fmt.Errorf("failed to register status tools: %w", err)
	}

	return nil
}
