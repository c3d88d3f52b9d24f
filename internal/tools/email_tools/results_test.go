package email_tools

import (
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Astroa7m/MailNet/internal/mail"
)

func TestSucceededResult_Envelope(t *testing.T) {
	result := succeededResult("Email has been sent successfully", &mail.MessageRef{
		ID:       "msg-1",
		ThreadID: "thread-1",
	})
	require.False(t, result.IsError)

	op := decodeResult(t, result)
	assert.Equal(t, StatusSucceeded, op.Status)
	assert.Equal(t, "Email has been sent successfully", op.Message)

	payload, ok := op.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "msg-1", payload["id"])
	assert.Equal(t, "thread-1", payload["threadId"])
}

func TestSucceededResult_NilPayloadOmitted(t *testing.T) {
	result := succeededResult("Email has been deleted successfully", nil)
	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &raw))
	assert.NotContains(t, raw, "result")
	assert.Equal(t, "succeeded", raw["operation_status"])
}

func TestFailedResult_Envelope(t *testing.T) {
	result := failedResult("invalid_grant: token revoked")
	require.True(t, result.IsError)

	op := decodeResult(t, result)
	assert.Equal(t, StatusFailed, op.Status)
	assert.Equal(t, "invalid_grant: token revoked", op.Message)
	assert.Nil(t, op.Result)
}
