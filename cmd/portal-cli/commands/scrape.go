package commands

import (
	"context"
	"log/slog"
	"time"

	"coursesync-backend/internal/archive"
	"coursesync-backend/internal/components/chrono"
	"coursesync-backend/internal/components/settings"
	"coursesync-backend/internal/components/telemetry"
	"coursesync-backend/internal/db"
	"coursesync-backend/internal/portalapi"
	"coursesync-backend/internal/scrapers/portal"
	"coursesync-backend/pkg/migrations"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

// session is everything a scrape needs, close must be called once done.
type session struct {
	cfg   Config
	impl  portalapi.Implementation
	close func()
}

func openSession(ctx context.Context) (session, error) {
	cfg, err := readConfig()
	if err != nil {
		return session{}, err
	}
	tel := telemetry.SlogAPI{}
	clock := chrono.NewStandardTime()

	engine, _, err := newEngine(cfg, tel)
	if err != nil {
		return session{}, err
	}

	database, err := migrations.OpenAndMigrateDB(ctx, db.Schema, cfg.Database)
	if err != nil {
		return session{}, err
	}
	store, err := settings.OpenBadgerStore(cfg.StateDir)
	if err != nil {
		database.Close()
		return session{}, err
	}

	readState := portal.NewReadState(store, clock, tel)
	_, err = readState.EnsureInstallDate(ctx)
	if err != nil {
		store.Close()
		database.Close()
		return session{}, err
	}

	impl := portalapi.NewImplementation(
		engine,
		archive.NewArchive(db.New(database), db.NewMakeTx(database), clock, tel),
		readState,
		portalapi.WithCustomTelemetryAPI(tel),
	)
	return session{
		cfg:  cfg,
		impl: impl,
		close: func() {
			store.Close()
			database.Close()
		},
	}, nil
}

func (a session) scrape(ctx context.Context) ([]*portal.Class, error) {
	manifest, err := portalapi.ReadManifest(a.cfg.Manifest)
	if err != nil {
		return nil, err
	}
	classes := manifest.Build()

	t1 := time.Now()
	err = a.impl.ScrapeAll(ctx, classes)
	slog.Info("scraping time", "seconds", time.Since(t1).Seconds(), "classes", len(classes))
	return classes, err
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Loads every class in the manifest and writes the results to the archive.",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer app.close()

		_, err = app.scrape(cmd.Context())
		return err
	},
}
