package commands

import (
	"coursesync-backend/internal/archive"
	"coursesync-backend/internal/components/chrono"
	"coursesync-backend/internal/components/telemetry"
	"coursesync-backend/internal/db"
	"coursesync-backend/internal/scrapers/portal"
	"coursesync-backend/pkg/migrations"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(archiveCmd)
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Lists what the archive holds for every class.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig()
		if err != nil {
			return err
		}
		database, err := migrations.OpenAndMigrateDB(cmd.Context(), db.Schema, cfg.Database)
		if err != nil {
			return err
		}
		defer database.Close()

		a := archive.NewArchive(
			db.New(database),
			db.NewMakeTx(database),
			chrono.NewStandardTime(),
			telemetry.SlogAPI{},
		)
		classes, err := a.Classes(cmd.Context())
		if err != nil {
			return err
		}

		t := newTable()
		t.AppendHeader(table.Row{"Class", "Kind", "Name", "Detail"})
		for _, class := range classes {
			for _, an := range class.Announcements {
				t.AppendRow(table.Row{class.Name, "announcement", an.Name, an.RawDate})
			}
			for _, as := range class.Assignments {
				t.AppendRow(table.Row{
					class.Name,
					"assignment",
					as.Name,
					portal.CompletionStatus(as.Status).String(),
				})
			}
		}
		t.Render()
		return nil
	},
}
