package gmail

import (
	"strings"
	"time"

	"github.com/Astroa7m/MailNet/internal/mail"
)

// buildQuery renders search criteria as a Gmail search expression.
// Zero-valued fields contribute nothing, so an empty criteria produces an
// empty query that matches the whole mailbox.
func buildQuery(c mail.SearchCriteria) string {
	var parts []string

	if c.Sender != "" {
		parts = append(parts, "from:"+c.Sender)
	}
	if c.Subject != "" {
		parts = append(parts, "subject:"+c.Subject)
	}
	if c.HasAttachment {
		parts = append(parts, "has:attachment")
	}
	if c.After != "" {
		parts = append(parts, "after:"+c.After)
	}
	if c.Before != "" {
		parts = append(parts, "before:"+c.Before)
	}
	if c.Unread {
		parts = append(parts, "is:unread")
	}
	if c.Label != "" {
		parts = append(parts, "label:"+c.Label)
	}

	return strings.Join(parts, " ")
}

// afterDate returns the after: bound for a lookback of daysBack days, in the
// YYYY/MM/DD form Gmail queries use.
func afterDate(daysBack int) string {
	cutoff := time.Now().AddDate(0, 0, -daysBack)
	return cutoff.Format("2006/01/02")
}
