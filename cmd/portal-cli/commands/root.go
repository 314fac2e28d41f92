package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath *string

var rootCmd = &cobra.Command{
	Use:   "portal-cli",
	Short: "portal-cli loads announcements and assignments from the course portal.",
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "portal.json5", "The config file to read.")
}

func ExecuteContext(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
