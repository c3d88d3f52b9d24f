// Package email_tools provides MCP (Model Context Protocol) tools for working
// with a mailbox through the configured mail providers.
//
// This package exposes mail functionality through MCP tools that can be called
// by AI agents or other MCP clients:
//
// Outbound mail (write operations, disabled in read-only mode):
//   - send_email: Send an email to the specified recipient
//   - draft_email: Create a draft without sending it
//   - send_draft: Send a previously created draft
//   - reply_to_email: Reply to a message on its existing thread
//
// Reading mail (always available):
//   - read_emails: List recent messages from the last days_back days
//   - search_emails: Search by sender, subject, dates, labels, attachments,
//     or fetch a single message by id
//
// Mailbox management (write operations, disabled in read-only mode):
//   - delete_email: Permanently delete a message
//   - archive_email: Remove a message from the inbox
//   - toggle_label: Add or remove a label on a message
//
// Credentials (always available):
//   - auth_status: Report per-provider authorization state
//
// Every tool accepts an optional "provider" argument selecting the mail
// provider ("google" by default, "outlook" for the Microsoft provider).
// Results are JSON documents with a fixed envelope: operation_status
// ("succeeded" or "failed"), operation_message, and the operation's result
// payload. Failures are returned as tool errors carrying the same envelope,
// never as protocol errors, so the calling model can read and react to them.
//
// All tools obtain their mail client through the server context, which wires
// the credential manager in as the token source. Expired access tokens are
// refreshed transparently before the underlying API call; tools never see
// token handling.
package email_tools
