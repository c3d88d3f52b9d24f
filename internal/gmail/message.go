package gmail

import (
	"encoding/base64"
	"strings"
	"time"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/Astroa7m/MailNet/internal/mail"
)

// Placeholders used when a message is missing the corresponding header.
const (
	defaultSubject = "No Subject"
	defaultSender  = "Unknown Sender"
)

// ParseMessage flattens a full-format Gmail message into the neutral form
// the mail tools return. Messages without a Subject or From header get
// placeholder values so the result is always renderable.
func ParseMessage(msg *gmail.Message) *mail.Message {
	parsed := &mail.Message{
		ID:          msg.Id,
		ThreadID:    msg.ThreadId,
		Subject:     defaultSubject,
		Sender:      defaultSender,
		Attachments: []string{},
		LabelIDs:    msg.LabelIds,
	}
	if parsed.LabelIDs == nil {
		parsed.LabelIDs = []string{}
	}

	if msg.Payload != nil {
		if v := headerValue(msg.Payload, "Subject"); v != "" {
			parsed.Subject = v
		}
		if v := headerValue(msg.Payload, "From"); v != "" {
			parsed.Sender = v
		}
		parsed.Body = extractBody(msg.Payload)
		parsed.Attachments = extractAttachments(msg.Payload)
	}

	if msg.InternalDate > 0 {
		parsed.DateTime = time.UnixMilli(msg.InternalDate).Format(time.RFC3339)
	}

	return parsed
}

// headerValue returns the named header from the payload. Header names are
// matched case-insensitively since senders emit varying casing.
func headerValue(payload *gmail.MessagePart, name string) string {
	if payload == nil {
		return ""
	}
	for _, h := range payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// extractBody returns the text/plain body of the message. When no plain-text
// part exists anywhere in the part tree it falls back to the top-level
// payload body, whatever its type.
func extractBody(payload *gmail.MessagePart) string {
	var data string
	walkParts(payload, func(part *gmail.MessagePart) {
		if data == "" && part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			data = part.Body.Data
		}
	})

	if data == "" && payload.Body != nil {
		data = payload.Body.Data
	}

	return decodeBody(data)
}

// extractAttachments collects the filenames of all attachment parts. The
// result is never nil so it serializes as an empty list.
func extractAttachments(payload *gmail.MessagePart) []string {
	attachments := []string{}
	walkParts(payload, func(part *gmail.MessagePart) {
		if part.Filename != "" {
			attachments = append(attachments, part.Filename)
		}
	})
	return attachments
}

// walkParts visits part and all nested subparts depth-first.
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}

	fn(part)

	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}

// decodeBody decodes base64url-encoded body data (Gmail API uses RFC 4648
// base64url encoding). Standard base64 is tried second since some messages
// carry it. Undecodable data yields an empty body rather than an error.
func decodeBody(data string) string {
	if data == "" {
		return ""
	}

	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(data)
	}
	if err != nil {
		return ""
	}

	return string(decoded)
}
