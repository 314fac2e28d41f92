package commands

import (
	"fmt"

	"coursesync-backend/internal/components/telemetry"
	"coursesync-backend/internal/scrapers/portal"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(announcementCmd)
}

var announcementCmd = &cobra.Command{
	Use:   "announcement <link>",
	Short: "Loads a single announcement and prints its message and attachments.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig()
		if err != nil {
			return err
		}
		engine, _, err := newEngine(cfg, telemetry.SlogAPI{})
		if err != nil {
			return err
		}

		a := portal.NewAnnouncement("", "", args[0], "")
		message := engine.LoadAnnouncement(cmd.Context(), a)
		fmt.Println(message)

		t := newTable()
		t.AppendHeader(table.Row{"Kind", "Name", "Link or text"})
		attachmentRows(t, "attachment", a.Attachments())
		t.Render()
		return nil
	},
}
