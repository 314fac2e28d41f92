package portal

import (
	"strings"
	"time"

	"coursesync-backend/internal/components/chrono"
	"coursesync-backend/pkg/textutil"
)

var dateLayouts = []string{
	"Jan 2, 2006 3:04 pm",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006 15:04",
	"January 2, 2006 3:04 pm",
	"January 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate parses the portal's date rendering (ex. "Sep 5, 2017 11:55 pm") in
// the portal's time zone, it returns nil if the text matches no known layout.
func ParseDate(raw string) *time.Time {
	text := textutil.Cleansed(raw)
	text = strings.ReplaceAll(text, "a.m.", "am")
	text = strings.ReplaceAll(text, "p.m.", "pm")
	if text == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		parsed, err := time.ParseInLocation(layout, text, chrono.Location())
		if err == nil {
			return &parsed
		}
	}
	return nil
}
