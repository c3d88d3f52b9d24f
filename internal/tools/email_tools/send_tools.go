package email_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Astroa7m/MailNet/internal/server"
	"github.com/Astroa7m/MailNet/internal/tools/common"
)

// RegisterSendTools registers the outbound mail tools with the MCP server.
// All of them change mailbox state, so none are available in read-only mode.
func RegisterSendTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	// Send email tool
	sendEmailTool := mcp.NewTool("send_email",
		mcp.WithDescription("Send an email to the specified recipient. Returns metadata about the sent message."),
		mcp.WithString("provider",
			mcp.Description("Mail provider to use: 'google' (default) or 'outlook'"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Recipient email address"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Subject line of the email"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Content of the email body"),
		),
	)

	s.AddTool(sendEmailTool, common.InstrumentedToolHandlerWithOperation(
		"send_email", "send", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSendEmail(ctx, request, sc)
		}))

	// Draft email tool
	draftEmailTool := mcp.NewTool("draft_email",
		mcp.WithDescription("Create a draft email without sending it. Used to prepare messages for later review."),
		mcp.WithString("provider",
			mcp.Description("Mail provider to use: 'google' (default) or 'outlook'"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Intended recipient email address"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Subject line of the draft"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Content of the draft message"),
		),
	)

	s.AddTool(draftEmailTool, common.InstrumentedToolHandlerWithOperation(
		"draft_email", "draft", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDraftEmail(ctx, request, sc)
		}))

	// Send draft tool
	sendDraftTool := mcp.NewTool("send_draft",
		mcp.WithDescription("Send a previously created draft email"),
		mcp.WithString("provider",
			mcp.Description("Mail provider to use: 'google' (default) or 'outlook'"),
		),
		mcp.WithString("draft_id",
			mcp.Required(),
			mcp.Description("Unique identifier of the draft message"),
		),
	)

	s.AddTool(sendDraftTool, common.InstrumentedToolHandlerWithOperation(
		"send_draft", "send_draft", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSendDraft(ctx, request, sc)
		}))

	// Reply to email tool
	replyToEmailTool := mcp.NewTool("reply_to_email",
		mcp.WithDescription("Send a reply to the specified message, continuing the conversation thread"),
		mcp.WithString("provider",
			mcp.Description("Mail provider to use: 'google' (default) or 'outlook'"),
		),
		mcp.WithString("msg_id",
			mcp.Required(),
			mcp.Description("ID of the message to reply to"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Content of the reply message"),
		),
	)

	s.AddTool(replyToEmailTool, common.InstrumentedToolHandlerWithOperation(
		"reply_to_email", "reply", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReplyToEmail(ctx, request, sc)
		}))

	return nil
}

func handleSendEmail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	to, ok := args["to"].(string)
	if !ok || to == "" {
		return failedResult("'to' field is required"), nil
	}
	subject, ok := args["subject"].(string)
	if !ok || subject == "" {
		return failedResult("'subject' field is required"), nil
	}
	body, ok := args["body"].(string)
	if !ok || body == "" {
		return failedResult("'body' field is required"), nil
	}

	client, errResult := mailClientForArgs(sc, args)
	if errResult != nil {
		return errResult, nil
	}

	ref, err := client.SendEmail(to, subject, body)
	if err != nil {
		return failedResult(err.Error()), nil
	}

	return succeededResult("Email has been sent successfully", ref), nil
}

func handleDraftEmail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	to, ok := args["to"].(string)
	if !ok || to == "" {
		return failedResult("'to' field is required"), nil
	}
	subject, ok := args["subject"].(string)
	if !ok || subject == "" {
		return failedResult("'subject' field is required"), nil
	}
	body, ok := args["body"].(string)
	if !ok || body == "" {
		return failedResult("'body' field is required"), nil
	}

	client, errResult := mailClientForArgs(sc, args)
	if errResult != nil {
		return errResult, nil
	}

	draft, err := client.DraftEmail(to, subject, body)
	if err != nil {
		return failedResult(err.Error()), nil
	}

	return succeededResult("Email draft has been created successfully", draft), nil
}

func handleSendDraft(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	draftID, ok := args["draft_id"].(string)
	if !ok || draftID == "" {
		return failedResult("'draft_id' field is required"), nil
	}

	client, errResult := mailClientForArgs(sc, args)
	if errResult != nil {
		return errResult, nil
	}

	ref, err := client.SendDraft(draftID)
	if err != nil {
		return failedResult(err.Error()), nil
	}

	return succeededResult("Email draft has been sent successfully", ref), nil
}

func handleReplyToEmail(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	msgID, ok := args["msg_id"].(string)
	if !ok || msgID == "" {
		return failedResult("'msg_id' field is required"), nil
	}
	body, ok := args["body"].(string)
	if !ok || body == "" {
		return failedResult("'body' field is required"), nil
	}

	client, errResult := mailClientForArgs(sc, args)
	if errResult != nil {
		return errResult, nil
	}

	ref, err := client.ReplyToEmail(msgID, body)
	if err != nil {
		return failedResult(err.Error()), nil
	}

	return succeededResult("Replied to email successfully", ref), nil
}
