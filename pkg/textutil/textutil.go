package textutil

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var innerWhitespace = regexp.MustCompile(`\s+`)

// WithNoTrailingWhitespace removes trailing whitespace and newlines, leading and
// inner whitespace is left alone.
func WithNoTrailingWhitespace(text string) string {
	return strings.TrimRightFunc(text, unicode.IsSpace)
}

// these leak in whenever an instructor pastes from word
var strayTags = []string{"<o:p>", "</o:p>"}

// StripStrayTags removes the literal `<o:p>` and `</o:p>` artifacts, it does
// not perform any other kind of tag stripping.
func StripStrayTags(text string) string {
	for _, tag := range strayTags {
		text = strings.ReplaceAll(text, tag, "")
	}
	return text
}

// Normalize trims trailing whitespace then strips stray tags, the order
// matters since the portal injects the tags after the whitespace.
func Normalize(text string) string {
	return StripStrayTags(WithNoTrailingWhitespace(text))
}

func removeNonPrintable(s string) string {
	out := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			out.WriteRune(c)
		}
	}
	return out.String()
}

// Cleansed collapses a caption or filename into a single trimmed line.
func Cleansed(text string) string {
	text = removeNonPrintable(text)
	text = innerWhitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

const (
	panelOpen  = `<div class="textPanel">`
	panelClose = `</div>`
)

// StripPanelWrapper removes the wrapping `<div class="textPanel">...</div>`
// from a serialized text panel by plain substring removal.
func StripPanelWrapper(markup string) string {
	markup = strings.TrimSpace(markup)
	markup = strings.Replace(markup, panelOpen, "", 1)
	idx := strings.LastIndex(markup, panelClose)
	if idx >= 0 {
		markup = markup[:idx] + markup[idx+len(panelClose):]
	}
	return markup
}

// SiteName derives a display name for a link, it is the host without a
// leading "www.", if the link has no host the fallback is returned cleansed.
func SiteName(link, fallback string) string {
	parsed, err := url.Parse(strings.TrimSpace(link))
	if err != nil || parsed.Hostname() == "" {
		return Cleansed(fallback)
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}
