// Package cmd implements the command-line interface for mailnet.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing mail tools for AI assistants
//   - login: Authorize a mail provider and store its credentials
//   - status: Show stored credential state for each provider
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
