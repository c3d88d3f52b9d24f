// Package gmail implements the Google mail provider.
//
// The client covers the full set of mailbox operations exposed by the email
// tools:
//   - Sending mail (send, draft, send draft, reply)
//   - Reading mail (read recent, search, fetch by id)
//   - Mailbox management (delete, archive, label toggling)
//
// Search results and single-message fetches are returned in the flattened
// mail.Message form: subject and sender pulled from the headers, the
// text/plain body decoded, attachment filenames collected, and the internal
// date converted to RFC 3339. Messages without a subject or sender get
// placeholder values instead of empty strings.
//
// Authentication:
// The client is constructed over an oauth2.TokenSource, normally obtained
// from the credential manager. Token refresh and re-authorization happen
// behind the source; this package never touches token files itself.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := gmail.NewClient(ctx, manager.TokenSource(ctx, providers.Google))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Send an email
//	ref, err := client.SendEmail("recipient@example.com", "Hello", "This is a test email")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Search unread mail from a sender
//	messages, err := client.SearchEmails(mail.SearchCriteria{
//	    Sender: "recipient@example.com",
//	    Unread: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
package gmail
