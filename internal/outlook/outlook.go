// Package outlook implements the Microsoft mail provider.
//
// Token acquisition against Azure works end to end through the credential
// manager (client-credentials grant), so `mailnet login --provider outlook`
// and the auth_status tool report real state. The Graph mail operations
// themselves are not implemented yet: every operation returns a
// NotSupportedError, which the tools surface as a failed result rather than
// a protocol error.
package outlook

import (
	"golang.org/x/oauth2"

	"github.com/Astroa7m/MailNet/internal/mail"
)

// NotSupportedError is returned by every mail operation until the Graph
// integration lands.
type NotSupportedError struct {
	// Operation names the mail operation that was attempted.
	Operation string
}

func (e *NotSupportedError) Error() string {
	return "Outlook support is not implemented yet"
}

// Client holds the authenticated token source for the Microsoft Graph API.
type Client struct {
	source oauth2.TokenSource
}

var _ mail.Provider = (*Client)(nil)

// NewClient creates an Outlook client on top of the given token source. The
// source is expected to come from the credential manager.
func NewClient(source oauth2.TokenSource) *Client {
	return &Client{source: source}
}

// SendEmail is not implemented yet.
func (c *Client) SendEmail(to, subject, body string) (*mail.MessageRef, error) {
	return nil, &NotSupportedError{Operation: "send"}
}

// DraftEmail is not implemented yet.
func (c *Client) DraftEmail(to, subject, body string) (*mail.DraftRef, error) {
	return nil, &NotSupportedError{Operation: "draft"}
}

// SendDraft is not implemented yet.
func (c *Client) SendDraft(draftID string) (*mail.MessageRef, error) {
	return nil, &NotSupportedError{Operation: "send_draft"}
}

// GetEmail is not implemented yet.
func (c *Client) GetEmail(messageID string) (*mail.Message, error) {
	return nil, &NotSupportedError{Operation: "search"}
}

// SearchEmails is not implemented yet.
func (c *Client) SearchEmails(criteria mail.SearchCriteria) ([]*mail.Message, error) {
	return nil, &NotSupportedError{Operation: "search"}
}

// ReadEmails is not implemented yet.
func (c *Client) ReadEmails(maxResults int64, daysBack int) ([]*mail.Message, error) {
	return nil, &NotSupportedError{Operation: "read"}
}

// ReplyToEmail is not implemented yet.
func (c *Client) ReplyToEmail(messageID, body string) (*mail.MessageRef, error) {
	return nil, &NotSupportedError{Operation: "reply"}
}

// DeleteEmail is not implemented yet.
func (c *Client) DeleteEmail(messageID string) error {
	return &NotSupportedError{Operation: "delete"}
}

// ArchiveEmail is not implemented yet.
func (c *Client) ArchiveEmail(messageID string) (*mail.MessageRef, error) {
	return nil, &NotSupportedError{Operation: "archive"}
}

// ToggleLabel is not implemented yet.
func (c *Client) ToggleLabel(messageID, labelName string, action mail.LabelAction) (*mail.MessageRef, error) {
	return nil, &NotSupportedError{Operation: "toggle_label"}
}
