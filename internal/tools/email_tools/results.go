package email_tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Astroa7m/MailNet/internal/mail"
	"github.com/Astroa7m/MailNet/internal/server"
	"github.com/Astroa7m/MailNet/internal/tools/common"
)

// Operation status values used in tool results.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// OperationResult is the envelope every email tool returns, serialized as
// JSON in the tool result text. Failed operations carry no result payload.
type OperationResult struct {
	Status  string      `json:"operation_status"`
	Message string      `json:"operation_message"`
	Result  interface{} `json:"result,omitempty"`
}

// succeededResult wraps a successful operation outcome in the result envelope.
// A nil payload is omitted from the JSON, matching operations that only
// confirm completion.
func succeededResult(message string, payload interface{}) *mcp.CallToolResult {
	return marshalResult(OperationResult{
		Status:  StatusSucceeded,
		Message: message,
		Result:  payload,
	}, false)
}

// failedResult wraps a failure in the result envelope and flags the tool
// result as an error. Failures stay inside the tool result so the calling
// model can read them; they never surface as protocol errors.
func failedResult(message string) *mcp.CallToolResult {
	return marshalResult(OperationResult{
		Status:  StatusFailed,
		Message: message,
	}, true)
}

func marshalResult(result OperationResult, isError bool) *mcp.CallToolResult {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		// Only reachable for unserializable payloads, which the mail types
		// are not. Fall back to a bare error so the caller still sees one.
		return mcp.NewToolResultError(fmt.Sprintf("failed to serialize result: %v", err))
	}
	if isError {
		return mcp.NewToolResultError(string(data))
	}
	return mcp.NewToolResultText(string(data))
}

// mailClientForArgs resolves the provider argument and returns the matching
// mail client. The second return value carries the ready-to-return tool
// result when resolution fails.
func mailClientForArgs(sc *server.ServerContext, args map[string]interface{}) (mail.Provider, *mcp.CallToolResult) {
	provider, err := common.GetProviderFromArgs(args)
	if err != nil {
		return nil, failedResult(err.Error())
	}
	client, err := sc.MailClient(provider)
	if err != nil {
		return nil, failedResult(fmt.Sprintf("Failed to create %s mail client: %v", provider, err))
	}
	return client, nil
}
