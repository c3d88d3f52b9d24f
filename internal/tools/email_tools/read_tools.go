package email_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Astroa7m/MailNet/internal/mail"
	"github.com/Astroa7m/MailNet/internal/server"
	"github.com/Astroa7m/MailNet/internal/tools/common"
)

// RegisterReadTools registers the mailbox read tools with the MCP server.
// These never change mailbox state and are available in read-only mode.
func RegisterReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Read emails tool
	readEmailsTool := mcp.NewTool("read_emails",
		mcp.WithDescription("Read recent emails received within the past days_back days. Returns messages sorted by recency."),
		mcp.WithString("provider",
			mcp.Description("Mail provider to use: 'google' (default) or 'outlook'"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of messages to return (default: 5)"),
		),
		mcp.WithNumber("days_back",
			mcp.Description("Number of days to look back from today (default: 5)"),
		),
	)

	s.AddTool(readEmailsTool, common.InstrumentedToolHandlerWithOperation(
		"read_emails", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReadEmails(ctx, request, sc)
		}))

	// Search emails tool
	searchEmailsTool := mcp.NewTool("search_emails",
		mcp.WithDescription("Search for emails matching the given filters. Returns a list unless msg_id is provided."),
		mcp.WithString("provider",
			mcp.Description("Mail provider to use: 'google' (default) or 'outlook'"),
		),
		mcp.WithString("sender",
			mcp.Description("Filter by sender email address"),
		),
		mcp.WithString("subject",
			mcp.Description("Filter by subject line"),
		),
		mcp.WithBoolean("has_attachment",
			mcp.Description("Whether to filter for messages with attachments"),
		),
		mcp.WithString("after",
			mcp.Description("Start date in 'YYYY/MM/DD' format"),
		),
		mcp.WithString("before",
			mcp.Description("End date in 'YYYY/MM/DD' format"),
		),
		mcp.WithBoolean("unread",
			mcp.Description("Whether to filter for unread messages"),
		),
		mcp.WithString("label",
			mcp.Description("Filter by label or category, e.g. 'SENT' for sent emails"),
		),
		mcp.WithString("msg_id",
			mcp.Description("Fetch a specific message by ID instead of searching"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of results to return (default: 10)"),
		),
	)

	s.AddTool(searchEmailsTool, common.InstrumentedToolHandlerWithOperation(
		"search_emails", "search", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchEmails(ctx, request, sc)
		}))

	return nil
}

func handleReadEmails(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	maxResults := int64(mail.DefaultReadResults)
	if maxResultsVal, ok := args["max_results"].(float64); ok && maxResultsVal > 0 {
		maxResults = int64(maxResultsVal)
	}
	daysBack := mail.DefaultReadDaysBack
	if daysBackVal, ok := args["days_back"].(float64); ok && daysBackVal > 0 {
		daysBack = int(daysBackVal)
	}

	client, errResult := mailClientForArgs(sc, args)
	if errResult != nil {
		return errResult, nil
	}

	messages, err := client.ReadEmails(maxResults, daysBack)
	if err != nil {
		return failedResult(err.Error()), nil
	}

	return succeededResult("Emails have been read successfully", messages), nil
}

func handleSearchEmails(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	client, errResult := mailClientForArgs(sc, args)
	if errResult != nil {
		return errResult, nil
	}

	// A message id short-circuits the search to a single lookup.
	if msgID, ok := args["msg_id"].(string); ok && msgID != "" {
		message, err := client.GetEmail(msgID)
		if err != nil {
			return failedResult(err.Error()), nil
		}
		return succeededResult("Email has been searched successfully", message), nil
	}

	criteria := mail.SearchCriteria{MaxResults: mail.DefaultSearchResults}
	if sender, ok := args["sender"].(string); ok {
		criteria.Sender = sender
	}
	if subject, ok := args["subject"].(string); ok {
		criteria.Subject = subject
	}
	if hasAttachment, ok := args["has_attachment"].(bool); ok {
		criteria.HasAttachment = hasAttachment
	}
	if after, ok := args["after"].(string); ok {
		criteria.After = after
	}
	if before, ok := args["before"].(string); ok {
		criteria.Before = before
	}
	if unread, ok := args["unread"].(bool); ok {
		criteria.Unread = unread
	}
	if label, ok := args["label"].(string); ok {
		criteria.Label = label
	}
	if maxResults, ok := args["max_results"].(float64); ok && maxResults > 0 {
		criteria.MaxResults = int64(maxResults)
	}

	messages, err := client.SearchEmails(criteria)
	if err != nil {
		return failedResult(err.Error()), nil
	}

	return succeededResult("Emails have been searched successfully", messages), nil
}
