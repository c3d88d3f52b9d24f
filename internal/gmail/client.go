package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"sort"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"golang.org/x/oauth2"

	"github.com/Astroa7m/MailNet/internal/mail"
)

// Client wraps the Gmail Users service for one authenticated mailbox.
type Client struct {
	svc *gmail.UsersService
}

var _ mail.Provider = (*Client)(nil)

// NewClient creates a Gmail client on top of the given token source. The
// source is expected to come from the credential manager, so every API call
// carries a token that is refreshed or re-authorized as needed.
func NewClient(ctx context.Context, source oauth2.TokenSource) (*Client, error) {
	if source == nil {
		return nil, fmt.Errorf("token source is required")
	}

	svc, err := gmail.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{svc: svc.Users}, nil
}

// SendEmail sends a plain-text message and returns the provider's reference
// to the accepted message.
func (c *Client) SendEmail(to, subject, body string) (*mail.MessageRef, error) {
	if to == "" {
		return nil, fmt.Errorf("recipient is required")
	}
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if body == "" {
		return nil, fmt.Errorf("body is required")
	}

	raw := buildRawMessage(messageHeaders{To: to, Subject: subject}, body)

	sent, err := c.svc.Messages.Send("me", &gmail.Message{Raw: raw}).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	return messageRef(sent), nil
}

// DraftEmail stores a plain-text message as a draft without sending it.
func (c *Client) DraftEmail(to, subject, body string) (*mail.DraftRef, error) {
	if to == "" {
		return nil, fmt.Errorf("recipient is required")
	}
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if body == "" {
		return nil, fmt.Errorf("body is required")
	}

	raw := buildRawMessage(messageHeaders{To: to, Subject: subject}, body)

	draft, err := c.svc.Drafts.Create("me", &gmail.Draft{
		Message: &gmail.Message{Raw: raw},
	}).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	ref := &mail.DraftRef{ID: draft.Id}
	if draft.Message != nil {
		ref.Message = messageRef(draft.Message)
	}
	return ref, nil
}

// SendDraft sends a previously created draft by id.
func (c *Client) SendDraft(draftID string) (*mail.MessageRef, error) {
	if draftID == "" {
		return nil, fmt.Errorf("draftID is required")
	}

	sent, err := c.svc.Drafts.Send("me", &gmail.Draft{Id: draftID}).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to send draft: %w", err)
	}

	return messageRef(sent), nil
}

// GetEmail fetches a single message by id in parsed form.
func (c *Client) GetEmail(messageID string) (*mail.Message, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}

	msg, err := c.getMessage(messageID)
	if err != nil {
		return nil, err
	}

	return ParseMessage(msg), nil
}

// SearchEmails lists messages matching the criteria and fetches each hit in
// full so the results carry subject, sender and body.
func (c *Client) SearchEmails(criteria mail.SearchCriteria) ([]*mail.Message, error) {
	maxResults := criteria.MaxResults
	if maxResults <= 0 {
		maxResults = mail.DefaultSearchResults
	}

	res, err := c.svc.Messages.List("me").Q(buildQuery(criteria)).MaxResults(maxResults).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search emails: %w", err)
	}

	messages := make([]*mail.Message, 0, len(res.Messages))
	for _, hit := range res.Messages {
		msg, err := c.getMessage(hit.Id)
		if err != nil {
			return nil, err
		}
		messages = append(messages, ParseMessage(msg))
	}

	return messages, nil
}

// ReadEmails lists recent messages from the last daysBack days. Non-positive
// arguments fall back to the package defaults.
func (c *Client) ReadEmails(maxResults int64, daysBack int) ([]*mail.Message, error) {
	if maxResults <= 0 {
		maxResults = mail.DefaultReadResults
	}
	if daysBack <= 0 {
		daysBack = mail.DefaultReadDaysBack
	}

	return c.SearchEmails(mail.SearchCriteria{
		After:      afterDate(daysBack),
		MaxResults: maxResults,
	})
}

// ReplyToEmail replies to the sender of an existing message. The reply keeps
// the original thread and carries In-Reply-To and References headers so other
// clients thread it correctly.
func (c *Client) ReplyToEmail(messageID, body string) (*mail.MessageRef, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	if body == "" {
		return nil, fmt.Errorf("body is required")
	}

	msg, err := c.getMessage(messageID)
	if err != nil {
		return nil, err
	}

	from := headerValue(msg.Payload, "From")
	if from == "" {
		return nil, fmt.Errorf("original message has no From header")
	}

	// Add "Re: " unless the subject already carries it.
	replySubject := headerValue(msg.Payload, "Subject")
	if !strings.HasPrefix(strings.ToLower(replySubject), "re:") {
		replySubject = "Re: " + replySubject
	}

	originalMessageID := headerValue(msg.Payload, "Message-ID")
	references := headerValue(msg.Payload, "References")
	if originalMessageID != "" {
		if references != "" {
			references += " "
		}
		references += originalMessageID
	}

	raw := buildRawMessage(messageHeaders{
		To:         from,
		Subject:    replySubject,
		InReplyTo:  originalMessageID,
		References: references,
	}, body)

	sent, err := c.svc.Messages.Send("me", &gmail.Message{
		Raw:      raw,
		ThreadId: msg.ThreadId,
	}).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to send reply: %w", err)
	}

	return messageRef(sent), nil
}

// DeleteEmail permanently deletes a message. It does not move the message to
// the trash first.
func (c *Client) DeleteEmail(messageID string) error {
	if messageID == "" {
		return fmt.Errorf("messageID is required")
	}

	if err := c.svc.Messages.Delete("me", messageID).Do(); err != nil {
		return fmt.Errorf("failed to delete email: %w", err)
	}
	return nil
}

// ArchiveEmail removes a message from the inbox by dropping the INBOX label.
func (c *Client) ArchiveEmail(messageID string) (*mail.MessageRef, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}

	modified, err := c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{"INBOX"},
	}).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to archive email: %w", err)
	}

	return messageRef(modified), nil
}

// ToggleLabel adds or removes a label on a message. The label is matched by
// name case-insensitively. Adding a label that is already present or removing
// one that is absent fails, so the caller sees an explicit refusal instead of
// a silent no-op.
func (c *Client) ToggleLabel(messageID, labelName string, action mail.LabelAction) (*mail.MessageRef, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	if labelName == "" {
		return nil, fmt.Errorf("label name is required")
	}
	if action != mail.LabelActionAdd && action != mail.LabelActionRemove {
		return nil, fmt.Errorf("Unknown action '%s'. Use 'add' or 'remove'.", action)
	}

	labels, err := c.svc.Labels.List("me").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}

	labelID, available := resolveLabel(labels.Labels, labelName)
	if labelID == "" {
		return nil, fmt.Errorf("Label '%s' not found. Available labels: %s", labelName, strings.Join(available, ","))
	}

	msg, err := c.getMessage(messageID)
	if err != nil {
		return nil, err
	}
	hasLabel := false
	for _, id := range msg.LabelIds {
		if id == labelID {
			hasLabel = true
			break
		}
	}

	var req *gmail.ModifyMessageRequest
	if action == mail.LabelActionAdd {
		if hasLabel {
			return nil, fmt.Errorf("Label '%s' already present on message %s", labelName, messageID)
		}
		req = &gmail.ModifyMessageRequest{AddLabelIds: []string{labelID}}
	} else {
		if !hasLabel {
			return nil, fmt.Errorf("Label '%s' not present on message %s", labelName, messageID)
		}
		req = &gmail.ModifyMessageRequest{RemoveLabelIds: []string{labelID}}
	}

	modified, err := c.svc.Messages.Modify("me", messageID, req).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to modify labels: %w", err)
	}

	return messageRef(modified), nil
}

// getMessage retrieves a full-format message.
func (c *Client) getMessage(messageID string) (*gmail.Message, error) {
	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return msg, nil
}

// messageRef converts an API message into the neutral reference form.
func messageRef(m *gmail.Message) *mail.MessageRef {
	return &mail.MessageRef{
		ID:       m.Id,
		ThreadID: m.ThreadId,
		LabelIDs: m.LabelIds,
	}
}

// resolveLabel maps a label name to its id using a case-insensitive match.
// The second return value lists the mailbox's lowercase label names, sorted,
// for use in the not-found error.
func resolveLabel(labels []*gmail.Label, name string) (string, []string) {
	byName := make(map[string]string, len(labels))
	for _, label := range labels {
		byName[strings.ToLower(label.Name)] = label.Id
	}

	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)

	return byName[strings.ToLower(name)], names
}

// messageHeaders holds the header fields of an outgoing message. InReplyTo
// and References are only set on replies.
type messageHeaders struct {
	To         string
	Subject    string
	InReplyTo  string
	References string
}

// buildRawMessage assembles an RFC 2822 plain-text message and encodes it in
// the base64url form the Gmail API expects in the Raw field.
func buildRawMessage(h messageHeaders, body string) string {
	var b strings.Builder

	b.WriteString("To: ")
	b.WriteString(h.To)
	b.WriteString("\r\n")

	// Encode the subject for non-ASCII characters
	b.WriteString("Subject: ")
	b.WriteString(encodeRFC2047(h.Subject))
	b.WriteString("\r\n")

	if h.InReplyTo != "" {
		b.WriteString("In-Reply-To: ")
		b.WriteString(h.InReplyTo)
		b.WriteString("\r\n")
	}
	if h.References != "" {
		b.WriteString("References: ")
		b.WriteString(h.References)
		b.WriteString("\r\n")
	}

	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}

// encodeRFC2047 encodes a string for use in email headers according to
// RFC 2047. This is necessary for non-ASCII characters (like umlauts) in
// subjects.
func encodeRFC2047(s string) string {
	needsEncoding := false
	for _, r := range s {
		if r > 127 {
			needsEncoding = true
			break
		}
	}
	if !needsEncoding {
		return s
	}

	return mime.BEncoding.Encode("UTF-8", s)
}
