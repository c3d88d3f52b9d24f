package email_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Astroa7m/MailNet/internal/mail"
	"github.com/Astroa7m/MailNet/internal/server"
	"github.com/Astroa7m/MailNet/internal/tools/common"
)

// RegisterManageTools registers the mailbox management tools with the MCP
// server. All of them change mailbox state, so none are available in
// read-only mode.
func RegisterManageTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	// Delete email tool
	deleteEmailTool := mcp.NewTool("delete_email",
		mcp.WithDescription("Permanently delete the specified message"),
		mcp.WithString("provider",
			mcp.Description("Mail provider to use: 'google' (default) or 'outlook'"),
		),
		mcp.WithString("msg_id",
			mcp.Required(),
			mcp.Description("ID of the message to delete"),
		),
	)

	s.AddTool(deleteEmailTool, common.InstrumentedToolHandlerWithOperation(
		"delete_email", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteEmail(ctx, request, sc)
		}))

	// Archive email tool
	archiveEmailTool := mcp.NewTool("archive_email",
		mcp.WithDescription("Archive the specified message by removing it from the inbox"),
		mcp.WithString("provider",
			mcp.Description("Mail provider to use: 'google' (default) or 'outlook'"),
		),
		mcp.WithString("msg_id",
			mcp.Required(),
			mcp.Description("ID of the message to archive"),
		),
	)

	s.AddTool(archiveEmailTool, common.InstrumentedToolHandlerWithOperation(
		"archive_email", "archive", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleArchiveEmail(ctx, request, sc)
		}))

	// Toggle label tool
	toggleLabelTool := mcp.NewTool("toggle_label",
		mcp.WithDescription("Add or remove a label/category on the specified message"),
		mcp.WithString("provider",
			mcp.Description("Mail provider to use: 'google' (default) or 'outlook'"),
		),
		mcp.WithString("msg_id",
			mcp.Required(),
			mcp.Description("ID of the message to modify"),
		),
		mcp.WithString("label_name",
			mcp.Required(),
			mcp.Description("Name of the label or category"),
		),
		mcp.WithString("action",
			mcp.Description("Either 'add' or 'remove' (default: 'add')"),
		),
	)

	s.AddTool(toggleLabelTool, common.InstrumentedToolHandlerWithOperation(
		"toggle_label", "toggle_label", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleToggleLabel(ctx, request, sc)
		}))

	return nil
}

func handleDeleteEmail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	msgID, ok := args["msg_id"].(string)
	if !ok || msgID == "" {
		return failedResult("'msg_id' field is required"), nil
	}

	client, errResult := mailClientForArgs(sc, args)
	if errResult != nil {
		return errResult, nil
	}

	if err := client.DeleteEmail(msgID); err != nil {
		return failedResult(err.Error()), nil
	}

	// Deletion leaves nothing to describe; no result payload.
	return succeededResult("Email has been deleted successfully", nil), nil
}

func handleArchiveEmail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	msgID, ok := args["msg_id"].(string)
	if !ok || msgID == "" {
		return failedResult("'msg_id' field is required"), nil
	}

	client, errResult := mailClientForArgs(sc, args)
	if errResult != nil {
		return errResult, nil
	}

	ref, err := client.ArchiveEmail(msgID)
	if err != nil {
		return failedResult(err.Error()), nil
	}

	return succeededResult("Emails have been archived successfully", ref), nil
}

func handleToggleLabel(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	msgID, ok := args["msg_id"].(string)
	if !ok || msgID == "" {
		return failedResult("'msg_id' field is required"), nil
	}
	labelName, ok := args["label_name"].(string)
	if !ok || labelName == "" {
		return failedResult("'label_name' field is required"), nil
	}
	action := mail.LabelActionAdd
	if actionVal, ok := args["action"].(string); ok && actionVal != "" {
		action = mail.LabelAction(actionVal)
	}

	client, errResult := mailClientForArgs(sc, args)
	if errResult != nil {
		return errResult, nil
	}

	ref, err := client.ToggleLabel(msgID, labelName, action)
	if err != nil {
		return failedResult(err.Error()), nil
	}

	message := fmt.Sprintf("Added label '%s' to message %s", labelName, msgID)
	if action == mail.LabelActionRemove {
		message = fmt.Sprintf("Removed label '%s' from message %s", labelName, msgID)
	}
	return succeededResult(message, ref), nil
}
