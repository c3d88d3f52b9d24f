// Package mail defines the provider-neutral types and the operation surface
// shared by the Gmail and Outlook clients. The email tools are written
// against this package so that adding a provider does not touch the tool
// layer.
package mail

// Default limits applied when a caller does not specify their own.
const (
	// DefaultSearchResults caps search_emails result sets.
	DefaultSearchResults = 10
	// DefaultReadResults caps read_emails result sets.
	DefaultReadResults = 5
	// DefaultReadDaysBack is how far read_emails looks back.
	DefaultReadDaysBack = 5
)

// LabelAction selects what a label toggle does.
type LabelAction string

const (
	// LabelActionAdd applies the label to the message.
	LabelActionAdd LabelAction = "add"
	// LabelActionRemove takes the label off the message.
	LabelActionRemove LabelAction = "remove"
)

// Message is the flattened, provider-neutral form of a mailbox message as
// returned by the read and search operations.
type Message struct {
	ID          string   `json:"id"`
	ThreadID    string   `json:"threadId"`
	Subject     string   `json:"subject"`
	Sender      string   `json:"sender"`
	Body        string   `json:"body"`
	Attachments []string `json:"attachments"`
	LabelIDs    []string `json:"labelIds"`
	DateTime    string   `json:"dateTime,omitempty"`
}

// MessageRef is the minimal identifying slice of a message, as returned by
// operations that create or change mailbox state.
type MessageRef struct {
	ID       string   `json:"id"`
	ThreadID string   `json:"threadId,omitempty"`
	LabelIDs []string `json:"labelIds,omitempty"`
}

// DraftRef identifies a stored draft and the message it wraps.
type DraftRef struct {
	ID      string      `json:"id"`
	Message *MessageRef `json:"message,omitempty"`
}

// SearchCriteria describes a mailbox search. Zero-valued fields contribute
// nothing to the provider query. After and Before are dates in YYYY/MM/DD
// form.
type SearchCriteria struct {
	Sender        string
	Subject       string
	HasAttachment bool
	After         string
	Before        string
	Unread        bool
	Label         string
	MaxResults    int64
}

// Provider is the operation surface the email tools drive. Both the Gmail
// client and the Outlook client satisfy it.
type Provider interface {
	// SendEmail sends a plain-text message.
	SendEmail(to, subject, body string) (*MessageRef, error)

	// DraftEmail stores a plain-text message as a draft without sending it.
	DraftEmail(to, subject, body string) (*DraftRef, error)

	// SendDraft sends a previously created draft.
	SendDraft(draftID string) (*MessageRef, error)

	// GetEmail fetches a single message by id in parsed form.
	GetEmail(messageID string) (*Message, error)

	// SearchEmails lists messages matching the criteria, newest first.
	SearchEmails(criteria SearchCriteria) ([]*Message, error)

	// ReadEmails lists recent messages from the last daysBack days.
	ReadEmails(maxResults int64, daysBack int) ([]*Message, error)

	// ReplyToEmail replies to the sender of an existing message, keeping
	// the reply on the original thread.
	ReplyToEmail(messageID, body string) (*MessageRef, error)

	// DeleteEmail permanently deletes a message.
	DeleteEmail(messageID string) error

	// ArchiveEmail removes a message from the inbox without deleting it.
	ArchiveEmail(messageID string) (*MessageRef, error)

	// ToggleLabel adds or removes a label on a message. Adding a label that
	// is already present or removing one that is absent fails rather than
	// silently doing nothing.
	ToggleLabel(messageID, labelName string, action LabelAction) (*MessageRef, error)
}
