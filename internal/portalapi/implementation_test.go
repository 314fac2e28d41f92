package portalapi

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"coursesync-backend/internal/archive"
	"coursesync-backend/internal/components/chrono"
	"coursesync-backend/internal/components/settings"
	"coursesync-backend/internal/components/telemetry"
	"coursesync-backend/internal/components/testutil"
	"coursesync-backend/internal/db"
	"coursesync-backend/internal/scrapers/portal"

	"github.com/stretchr/testify/require"
)

type pageMap map[string]string

func (p pageMap) Fetch(_ context.Context, link string) (portal.Page, error) {
	return portal.NewPage(link, p[link])
}

const testManifest = `{
	classes: [
		{
			name: "Chemistry",
			link: "/site/chem",
			announcements: [
				{name: "Old news", author: "Dr. Kim", link: "/announcement/old", date: "Aug 1, 2024 8:00 am"},
				{name: "Lab safety", author: "Dr. Kim", link: "/announcement/new", date: "Sep 2, 2024 8:00 am"},
			],
			assignments: [
				{name: "Lab 1", link: "/assignment/1", due: "Sep 9, 2024 11:59 pm", status: "Not submitted"},
			],
		},
	],
}`

var testPages = pageMap{
	"/announcement/old": `<p>Welcome back.</p>`,
	"/announcement/new": `<p>Goggles are required.</p>`,
	"/assignment/1":     `<div class="textPanel">Write up the lab.</div>`,
}

func TestScrapeAll(t *testing.T) {
	ctx := context.Background()
	loc := chrono.Location()
	now := chrono.FixedTime{Time: time.Date(2024, time.August, 20, 0, 0, 0, 0, loc)}
	tel := &telemetry.MemoryAPI{}

	path := filepath.Join(t.TempDir(), "manifest.json5")
	require.NoError(t, os.WriteFile(path, []byte(testManifest), 0600))
	manifest, err := ReadManifest(path)
	require.NoError(t, err)
	classes := manifest.Build()
	require.Len(t, classes, 1)
	require.Equal(t, portal.NotSubmitted, classes[0].Assignments[0].Status)

	database := testutil.OpenDB(t, db.Schema)

	readState := portal.NewReadState(settings.NewMemoryStore(), now, tel)
	_, err = readState.EnsureInstallDate(ctx)
	require.NoError(t, err)

	impl := NewImplementation(
		portal.NewEngine(portal.EngineOptions{
			Accessor: testPages,
			Retry:    portal.RetryPolicy{MaxAttempts: 2},
		}, tel),
		archive.NewArchive(db.New(database), db.NewMakeTx(database), now, tel),
		readState,
		WithCustomTelemetryAPI(tel),
	)

	require.NoError(t, impl.ScrapeAll(ctx, classes))

	message, ok := classes[0].Announcements[1].Message()
	require.True(t, ok)
	require.Equal(t, "Goggles are required.", message)
	message, ok = classes[0].Assignments[0].Message()
	require.True(t, ok)
	require.Equal(t, "Write up the lab.", message)

	archived, err := impl.archive.Classes(ctx)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	require.Len(t, archived[0].Announcements, 2)
	require.Len(t, archived[0].Assignments, 1)

	unread := impl.Unread(ctx, classes)
	require.Len(t, unread, 1)
	require.Equal(t, "Lab safety", unread[0].Name)

	require.NoError(t, impl.MarkRead(ctx, unread))
	require.Empty(t, impl.Unread(ctx, classes))
}
