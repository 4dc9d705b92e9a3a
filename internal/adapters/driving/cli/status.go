package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check backend health",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if backendClient == nil {
		return errors.New("backend client not configured")
	}

	health, err := backendClient.Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}

	cmd.Printf("Status:  %s\n", health.Status)
	if health.Service != "" {
		cmd.Printf("Service: %s\n", health.Service)
	}
	if health.Version != "" {
		cmd.Printf("Version: %s\n", health.Version)
	}
	return nil
}
