package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"coursesync-backend/internal/components/chrono"
	"coursesync-backend/internal/components/mainloop"
	"coursesync-backend/internal/components/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Scrapes on the configured schedule and prints announcements that have not been read.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()

		app, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer app.close()

		// results are printed and marked read from a single goroutine
		loop := mainloop.New(1)
		go func() {
			<-ctx.Done()
			loop.Close()
		}()

		run := func() {
			classes, err := app.scrape(ctx)
			if err != nil {
				slog.Error("scrape failed", "err", err)
			}
			unread := app.impl.Unread(ctx, classes)

			err = loop.Post(ctx, func() {
				if len(unread) == 0 {
					return
				}
				t := newTable()
				t.AppendHeader(table.Row{"Class", "Announcement", "Author", "Posted"})
				for _, a := range unread {
					t.AppendRow(table.Row{a.Class.Name, a.Name, a.Author, a.RawDate})
				}
				t.Render()

				err := app.impl.MarkRead(ctx, unread)
				if err != nil {
					slog.Error("mark read failed", "err", err)
				}
			})
			if err != nil {
				slog.Warn("dropped scrape results", "err", err)
			}
		}

		telemetry.InstrumentPerfStats(ctx, 30*time.Second, telemetry.SlogAPI{})

		// stopped before the session closes so no scrape is left using it
		cron := chrono.NewStandardCron(telemetry.SlogAPI{})
		defer cron.Stop()
		err = cron.CronNow(app.cfg.Schedule, run)
		if err != nil {
			return err
		}

		loop.Run(context.Background())
		return nil
	},
}
