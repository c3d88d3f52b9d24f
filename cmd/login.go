package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Astroa7m/MailNet/internal/oauth"
	"github.com/Astroa7m/MailNet/internal/providers"
)

func newLoginCmd() *cobra.Command {
	var (
		providerID string
		port       int
		noBrowser  bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize a mail provider and store its credentials",
		Long: `Run the OAuth authorization flow for a mail provider and store the
resulting tokens in the mailnet config directory.

For Google this opens the browser consent page and waits for the loopback
callback. For Outlook the tokens are acquired directly from Azure AD with the
configured client credentials; no browser is involved.

Stored tokens are refreshed automatically by the server. Run login again when
a provider reports that its grant was revoked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(providerID, port, noBrowser, timeout)
		},
	}

	cmd.Flags().StringVar(&providerID, "provider", providers.Google, "Provider to authorize: google or outlook")
	cmd.Flags().IntVar(&port, "port", 0, "Fixed port for the OAuth callback listener (0 picks a free port)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Print the authorization URL instead of opening a browser")
	cmd.Flags().DurationVar(&timeout, "timeout", oauth.DefaultFlowTimeout, "How long to wait for the authorization callback")

	return cmd
}

func runLogin(providerID string, port int, noBrowser bool, timeout time.Duration) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := credentialManagerOptions{
		ListenPort:  port,
		FlowTimeout: timeout,
	}
	if noBrowser {
		opts.OpenBrowser = func(url string) error {
			fmt.Printf("Open this URL in your browser to authorize:\n\n  %s\n\n", url)
			return nil
		}
	}

	manager, err := newCredentialManager(opts)
	if err != nil {
		return err
	}

	status, err := manager.Authorize(ctx, providerID)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	tokenPath, err := manager.TokenFilePath(providerID)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Authorized %s\n", status.Provider)
	fmt.Printf("  Tokens stored at %s\n", tokenPath)
	if !status.Expiry.IsZero() {
		fmt.Printf("  Access token expires %s\n", status.Expiry.Local().Format(time.RFC3339))
	}
	switch {
	case status.HasRefreshToken:
		fmt.Println("  Refresh token stored; access is renewed automatically")
	case status.Provider == providers.Azure:
		fmt.Println("  Access is renewed with the configured client credentials")
	}
	return nil
}
