package portal

import (
	"context"
	"strings"

	"coursesync-backend/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	attachmentPath      = "/attachment/"
	defaultFileName     = "Attached file"
	defaultImageName    = "Attached image"
	submittedTextName   = "Submitted Text"
	announcementFailure = "Couldn't load message."
	assignmentFailure   = "Could not load message for assignment."
)

// ExtractFileAttachments returns every `a` and `link` element under sel whose
// target points at a portal attachment, in document order.
func ExtractFileAttachments(ctx context.Context, sel *goquery.Selection) []Attachment {
	attachments := []Attachment{}
	for _, anchor := range htmlutil.GetAnchors(ctx, sel.Find("a, link")) {
		if !strings.Contains(anchor.Href, attachmentPath) {
			continue
		}
		name := anchor.Name
		if name == "" {
			name = defaultFileName
		}
		attachments = append(attachments, FileAttachment{
			Link:     anchor.Href,
			FileName: name,
		})
	}
	return attachments
}

// ExtractImageAttachments returns every absolute `img` under sel, in document order.
func ExtractImageAttachments(sel *goquery.Selection) []Attachment {
	attachments := []Attachment{}
	for _, node := range sel.Find("img").Nodes {
		src := htmlutil.Attr(node, "src")
		if !strings.Contains(src, "http") {
			continue
		}
		attachments = append(attachments, FileAttachment{
			Link:     src,
			FileName: defaultImageName,
		})
	}
	return attachments
}
