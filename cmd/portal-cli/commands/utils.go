package commands

import (
	"html"
	"os"

	"coursesync-backend/internal/scrapers/portal"
	"coursesync-backend/pkg/textutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/microcosm-cc/bluemonday"
)

var stripTags = bluemonday.StrictPolicy()

// preview renders the markup of an inline attachment as a single line of text.
func preview(markup string, limit int) string {
	text := []rune(textutil.Cleansed(html.UnescapeString(stripTags.Sanitize(markup))))
	if len(text) > limit {
		return string(text[:limit]) + "..."
	}
	return string(text)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func attachmentRows(t table.Writer, kind string, attachments []portal.Attachment) {
	for _, a := range attachments {
		switch a := a.(type) {
		case portal.FileAttachment:
			t.AppendRow(table.Row{kind, a.Name(), a.Link})
		case portal.InlineAttachment:
			t.AppendRow(table.Row{kind, a.Name(), preview(a.RawText, 60)})
		}
	}
}

func valueOr(value string, ok bool) string {
	if !ok {
		return "-"
	}
	return value
}
