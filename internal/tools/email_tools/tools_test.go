package email_tools

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Astroa7m/MailNet/internal/credentials"
	"github.com/Astroa7m/MailNet/internal/mail"
	"github.com/Astroa7m/MailNet/internal/providers"
	"github.com/Astroa7m/MailNet/internal/server"
)

const testCredentialsJSON = `{
  "installed": {
    "client_id": "test-client-id.apps.googleusercontent.com",
    "project_id": "mailnet-test",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "client_secret": "test-client-secret",
    "redirect_uris": ["http://localhost"]
  }
}`

// fakeMailProvider implements mail.Provider with canned responses and call
// recording. Tools are tested through it via SetMailClient.
type fakeMailProvider struct {
	err      error
	sendRef  *mail.MessageRef
	draftRef *mail.DraftRef
	message  *mail.Message
	messages []*mail.Message

	lastTo, lastSubject, lastBody string
	lastDraftID, lastMsgID        string
	lastLabel                     string
	lastAction                    mail.LabelAction
	lastCriteria                  mail.SearchCriteria
	lastMaxResults                int64
	lastDaysBack                  int
	deleteCalls                   int
}

func (f *fakeMailProvider) SendEmail(to, subject, body string) (*mail.MessageRef, error) {
	f.lastTo, f.lastSubject, f.lastBody = to, subject, body
	if f.err != nil {
		return nil, f.err
	}
	return f.sendRef, nil
}

func (f *fakeMailProvider) DraftEmail(to, subject, body string) (*mail.DraftRef, error) {
	f.lastTo, f.lastSubject, f.lastBody = to, subject, body
	if f.err != nil {
		return nil, f.err
	}
	return f.draftRef, nil
}

func (f *fakeMailProvider) SendDraft(draftID string) (*mail.MessageRef, error) {
	f.lastDraftID = draftID
	if f.err != nil {
		return nil, f.err
	}
	return f.sendRef, nil
}

func (f *fakeMailProvider) GetEmail(messageID string) (*mail.Message, error) {
	f.lastMsgID = messageID
	if f.err != nil {
		return nil, f.err
	}
	return f.message, nil
}

func (f *fakeMailProvider) SearchEmails(criteria mail.SearchCriteria) ([]*mail.Message, error) {
	f.lastCriteria = criteria
	if f.err != nil {
		return nil, f.err
	}
	return f.messages, nil
}

func (f *fakeMailProvider) ReadEmails(maxResults int64, daysBack int) ([]*mail.Message, error) {
	f.lastMaxResults, f.lastDaysBack = maxResults, daysBack
	if f.err != nil {
		return nil, f.err
	}
	return f.messages, nil
}

func (f *fakeMailProvider) ReplyToEmail(messageID, body string) (*mail.MessageRef, error) {
	f.lastMsgID, f.lastBody = messageID, body
	if f.err != nil {
		return nil, f.err
	}
	return f.sendRef, nil
}

func (f *fakeMailProvider) DeleteEmail(messageID string) error {
	f.lastMsgID = messageID
	f.deleteCalls++
	return f.err
}

func (f *fakeMailProvider) ArchiveEmail(messageID string) (*mail.MessageRef, error) {
	f.lastMsgID = messageID
	if f.err != nil {
		return nil, f.err
	}
	return f.sendRef, nil
}

func (f *fakeMailProvider) ToggleLabel(messageID, labelName string, action mail.LabelAction) (*mail.MessageRef, error) {
	f.lastMsgID, f.lastLabel, f.lastAction = messageID, labelName, action
	if f.err != nil {
		return nil, f.err
	}
	return f.sendRef, nil
}

// noFlowAuthorizer and noFlowRefresher fail if the tools ever trigger a
// credential flow; tool tests inject fake mail clients instead.
type noFlowAuthorizer struct{}

func (noFlowAuthorizer) Authorize(context.Context, *providers.Descriptor, string) (*credentials.Bundle, error) {
	return nil, errors.New("unexpected authorize call")
}

type noFlowRefresher struct{}

func (noFlowRefresher) Refresh(context.Context, *providers.Descriptor, *credentials.Bundle) (*credentials.Bundle, error) {
	return nil, errors.New("unexpected refresh call")
}

func newToolTestContext(t *testing.T) *server.ServerContext {
	t.Helper()

	dir := t.TempDir()
	credentialsFile := filepath.Join(dir, "credentials.json")
	require.NoError(t, os.WriteFile(credentialsFile, []byte(testCredentialsJSON), 0600))

	manager, err := credentials.NewManager(credentials.ManagerConfig{
		Registry: providers.NewRegistry(providers.Options{
			GoogleCredentialsFile: credentialsFile,
			AzureClientID:         "azure-client",
			AzureClientSecret:     "azure-secret",
		}),
		Store: credentials.NewFileStore(),
		Paths: credentials.Paths{
			GoogleTokenFile: filepath.Join(dir, "google_token.json"),
			AzureTokenFile:  filepath.Join(dir, "azure_token.json"),
		},
		Authorizer: noFlowAuthorizer{},
		Refresher:  noFlowRefresher{},
	})
	require.NoError(t, err)

	sc, err := server.NewServerContext(context.Background(), server.Config{Manager: manager})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// decodeResult unmarshals the JSON envelope from a tool result.
func decodeResult(t *testing.T, result *mcp.CallToolResult) OperationResult {
	t.Helper()

	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])

	var op OperationResult
	require.NoError(t, json.Unmarshal([]byte(text.Text), &op))
	return op
}

func registeredToolNames(s *mcpserver.MCPServer) []string {
	serverTools := s.ListTools()
	names := make([]string, 0, len(serverTools))
	for _, st := range serverTools {
		names = append(names, st.Tool.Name)
	}
	sort.Strings(names)
	return names
}

func TestRegisterEmailTools_AllTools(t *testing.T) {
	sc := newToolTestContext(t)

	s := mcpserver.NewMCPServer("test", "0.0.1", mcpserver.WithToolCapabilities(true))
	require.NoError(t, RegisterEmailTools(s, sc, false))

	assert.Equal(t, []string{
		"archive_email",
		"auth_status",
		"delete_email",
		"draft_email",
		"read_emails",
		"reply_to_email",
		"search_emails",
		"send_draft",
		"send_email",
		"toggle_label",
	}, registeredToolNames(s))
}

func TestRegisterEmailTools_ReadOnlyExcludesWriteTools(t *testing.T) {
	sc := newToolTestContext(t)

	s := mcpserver.NewMCPServer("test", "0.0.1", mcpserver.WithToolCapabilities(true))
	require.NoError(t, RegisterEmailTools(s, sc, true))

	assert.Equal(t, []string{
		"auth_status",
		"read_emails",
		"search_emails",
	}, registeredToolNames(s))
}
