package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the mailnet application
var rootCmd = &cobra.Command{
	Use:   "mailnet",
	Short: "Mail access for AI assistants over MCP",
	Long: `mailnet exposes Gmail and Outlook mailboxes to AI assistants through the
Model Context Protocol (MCP).

OAuth credentials are managed server-side: tokens are stored on disk,
refreshed before they expire, and re-acquired through the provider's
authorization flow when a refresh is denied.

It can run as:
  - An MCP server over stdio or streamable HTTP (default)
  - A CLI for authorizing providers and inspecting credential state`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mailnet version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newVersionCmd())
}
