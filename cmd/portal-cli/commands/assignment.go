package commands

import (
	"fmt"

	"coursesync-backend/internal/components/telemetry"
	"coursesync-backend/internal/scrapers/portal"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(assignmentCmd)
}

var assignmentCmd = &cobra.Command{
	Use:   "assignment <link>",
	Short: "Loads a single assignment and prints every field extracted from it.",
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

		a := portal.NewAssignment("", args[0], "", "")
		engine.LoadAssignment(cmd.Context(), a)

		fields := newTable()
		fields.AppendHeader(table.Row{"Field", "Value"})
		fields.AppendRow(table.Row{"Message", valueOr(a.Message())})
		fields.AppendRow(table.Row{"Grade", valueOr(a.Grade())})
		fields.AppendRow(table.Row{"Feedback", valueOr(a.Feedback())})
		fields.AppendRow(table.Row{"Inline text", fmt.Sprint(a.UsesInlineText())})
		fields.Render()

		attachments := newTable()
		attachments.AppendHeader(table.Row{"Kind", "Name", "Link or text"})
		attachmentRows(attachments, "instructions", a.Attachments())
		attachmentRows(attachments, "submission", a.Submissions())
		attachments.Render()
		return nil
	},
}
