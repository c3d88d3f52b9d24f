package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Astroa7m/MailNet/internal/credentials"
)

func newStatusCmd() *cobra.Command {
	var providerID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show credential state for the mail providers",
		Long: `Report the stored credential state for each mail provider: whether it is
authorized, whether the access token is still valid, and where the tokens
are stored.

Only local state is inspected; no token refresh or network request happens.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(providerID)
		},
	}

	cmd.Flags().StringVar(&providerID, "provider", "", "Limit output to one provider: google or outlook")

	return cmd
}

func runStatus(providerID string) error {
	manager, err := newCredentialManager(credentialManagerOptions{})
	if err != nil {
		return err
	}

	var statuses []*credentials.ProviderStatus
	if providerID != "" {
		status, err := manager.Status(providerID)
		if err != nil {
			return err
		}
		statuses = []*credentials.ProviderStatus{status}
	} else {
		statuses = manager.StatusAll()
	}

	for i, status := range statuses {
		if i > 0 {
			fmt.Println()
		}
		printProviderStatus(manager, status)
	}
	return nil
}

func printProviderStatus(manager *credentials.Manager, status *credentials.ProviderStatus) {
	fmt.Println(status.Provider)
	if status.Error != "" {
		fmt.Printf("  Error:         %s\n", status.Error)
	}
	fmt.Printf("  Authorized:    %s\n", yesNo(status.Authorized))
	if status.Authorized {
		fmt.Printf("  Token valid:   %s\n", formatValidity(status))
		fmt.Printf("  Refresh token: %s\n", presentAbsent(status.HasRefreshToken))
		if len(status.Scopes) > 0 {
			fmt.Printf("  Scopes:        %s\n", strings.Join(status.Scopes, ", "))
		}
	}
	if path, err := manager.TokenFilePath(status.Provider); err == nil {
		fmt.Printf("  Token file:    %s\n", path)
	}
}

func formatValidity(status *credentials.ProviderStatus) string {
	switch {
	case status.Valid && !status.Expiry.IsZero():
		return fmt.Sprintf("yes (expires %s)", status.Expiry.Local().Format(time.RFC3339))
	case status.Valid:
		return "yes"
	case !status.Expiry.IsZero():
		return fmt.Sprintf("no (expired %s)", status.Expiry.Local().Format(time.RFC3339))
	default:
		return "no"
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func presentAbsent(v bool) string {
	if v {
		return "present"
	}
	return "absent"
}
