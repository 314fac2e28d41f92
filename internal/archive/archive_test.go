package archive

import (
	"context"
	"testing"
	"time"

	"coursesync-backend/internal/components/chrono"
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

var pages = pageMap{
	"/announcement/1": `<p>Quiz on Friday.</p><img src="https://cdn.example.edu/quiz.png">`,
	"/assignment/1": `<table class="itemSummary"><tr><th>Grade</th><td>9(max 10)</td></tr></table>
<div class="textPanel">Answer the questions.</div>
<a href="/access/content/attachment/1/questions.pdf">questions.pdf</a>
<h4>Original submission text</h4>
<div class="textPanel">42</div>`,
}

func newTestArchive(t *testing.T) Archive {
	t.Helper()
	database := testutil.OpenDB(t, db.Schema)

	return NewArchive(
		db.New(database),
		db.NewMakeTx(database),
		chrono.FixedTime{Time: time.Date(2024, time.September, 1, 12, 0, 0, 0, chrono.Location())},
		&telemetry.MemoryAPI{},
	)
}

func newClass(t *testing.T) *portal.Class {
	t.Helper()
	engine := portal.NewEngine(portal.EngineOptions{
		Accessor: pages,
		Retry:    portal.RetryPolicy{MaxAttempts: 2},
	}, &telemetry.MemoryAPI{})

	class := &portal.Class{Name: "Physics", Link: "/site/physics"}

	loaded := portal.NewAnnouncement("Quiz", "Mr. Lee", "/announcement/1", "Aug 30, 2024 9:00 am")
	engine.LoadAnnouncement(context.Background(), loaded)
	class.AddAnnouncement(loaded)
	class.AddAnnouncement(portal.NewAnnouncement("Welcome", "Mr. Lee", "/announcement/0", ""))

	assignment := portal.NewAssignment("Worksheet", "/assignment/1", "Sep 3, 2024 11:59 pm", "Returned")
	engine.LoadAssignment(context.Background(), assignment)
	class.AddAssignment(assignment)

	return class
}

func TestSaveClass(t *testing.T) {
	ctx := context.Background()
	archive := newTestArchive(t)
	class := newClass(t)

	require.NoError(t, archive.SaveClass(ctx, class))
	// saving twice updates rows in place
	require.NoError(t, archive.SaveClass(ctx, class))

	classes, err := archive.Classes(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 1)

	physics := classes[0]
	require.Equal(t, "Physics", physics.Name)
	require.Len(t, physics.Announcements, 2)

	quiz := physics.Announcements[0]
	require.Equal(t, "Quiz", quiz.Name)
	require.True(t, quiz.Message.Valid)
	require.Equal(t, "Quiz on Friday.", quiz.Message.String)
	require.Len(t, quiz.Attachments, 1)
	require.Equal(t, "Attached image", quiz.Attachments[0].Name)

	welcome := physics.Announcements[1]
	require.False(t, welcome.Message.Valid)
	require.False(t, welcome.PostedAt.Valid)

	require.Len(t, physics.Assignments, 1)
	worksheet := physics.Assignments[0]
	require.Equal(t, "9 (max 10)", worksheet.Grade.String)
	require.Equal(t, "Answer the questions.", worksheet.Message.String)
	require.Equal(t, int64(portal.Returned), worksheet.Status)
	require.True(t, worksheet.UsesInlineText)
	require.False(t, worksheet.Feedback.Valid)

	require.Len(t, worksheet.Attachments, 1)
	require.Equal(t, "/access/content/attachment/1/questions.pdf", worksheet.Attachments[0].Link.String)
	require.Len(t, worksheet.Submissions, 1)
	require.Equal(t, "Submitted Text", worksheet.Submissions[0].Name)
	require.Equal(t, "42", worksheet.Submissions[0].RawText.String)
}
