package commands

import (
	"coursesync-backend/internal/scrapers/portal"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status <raw status>...",
	Short: "Prints the completion status each raw status column text maps to.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		t := newTable()
		t.AppendHeader(table.Row{"Raw", "Status"})
		for _, raw := range args {
			t.AppendRow(table.Row{raw, portal.StatusFromString(raw).String()})
		}
		t.Render()
	},
}
