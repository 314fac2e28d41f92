package portal

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"coursesync-backend/pkg/htmlutil"
	"coursesync-backend/pkg/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type announcementContent struct {
	message     string
	attachments []Attachment
}

func announcementMessage(doc *goquery.Document) string {
	var body strings.Builder
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		for _, node := range p.Nodes {
			body.WriteString(htmlutil.GetBlockText(node))
		}
		for _, node := range p.Find("div").Nodes {
			body.WriteString(htmlutil.GetBlockText(node))
		}
	})
	return body.String()
}

// extractAnnouncement returns ErrNotYetRendered if the page has no paragraphs,
// the portal sometimes serves an interstitial page before the real one.
func extractAnnouncement(ctx context.Context, page Page) (announcementContent, error) {
	if page.Doc.Find("p").Length() == 0 {
		return announcementContent{}, ErrNotYetRendered
	}

	message := announcementMessage(page.Doc)
	attachments := ExtractImageAttachments(page.Doc.Selection)
	message = textutil.Normalize(message)
	attachments = append(attachments, ExtractFileAttachments(ctx, page.Doc.Selection)...)

	return announcementContent{
		message:     message,
		attachments: attachments,
	}, nil
}

type announcementLoad struct {
	message string
	// stale is set if the link changed while the page was being fetched
	stale bool
}

// LoadAnnouncement populates the message and attachments of an announcement and
// returns the message. Once a load succeeds the result is memoized and no more
// fetches happen, concurrent calls share a single load. If the link changes
// while a load is in flight, the load starts over against the new link.
//
// It never fails, if the page cannot be loaded the fallback text
// "Couldn't load message." is returned and nothing is memoized.
func (e *Engine) LoadAnnouncement(ctx context.Context, a *Announcement) string {
	for {
		a.mutex.Lock()
		if a.message != nil {
			message := *a.message
			a.mutex.Unlock()
			return message
		}
		link := a.link
		generation := a.generation
		a.mutex.Unlock()

		key := strconv.FormatUint(generation, 10)
		result, _, _ := a.flight.Do(key, func() (any, error) {
			return e.loadAnnouncement(ctx, a, link, generation), nil
		})
		loaded := result.(announcementLoad)
		if !loaded.stale {
			return loaded.message
		}
	}
}

func (e *Engine) loadAnnouncement(ctx context.Context, a *Announcement, link string, generation uint64) announcementLoad {
	ctx, span := tracer.Start(ctx, "engine:LoadAnnouncement")
	defer span.End()
	span.SetAttributes(attribute.String("url", link))

	var content announcementContent
	err := e.retry.run(ctx, func(attempt int) error {
		page, err := e.fetch(ctx, "announcement", link, attempt)
		if err != nil {
			return err
		}
		content, err = extractAnnouncement(ctx, page)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load announcement")
		if errors.Is(err, ErrNotYetRendered) {
			e.tel.ReportWarning(report_announcement_load, err, link)
		} else {
			e.tel.ReportBroken(report_announcement_load, err, link)
		}
		return announcementLoad{message: announcementFailure}
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()
	if a.generation != generation {
		e.tel.ReportDebug("discarded stale announcement load", link)
		return announcementLoad{stale: true}
	}
	// a second flight can start between the memo check and Do returning
	if a.message != nil {
		return announcementLoad{message: *a.message}
	}
	a.message = &content.message
	a.attachments = content.attachments

	return announcementLoad{message: content.message}
}

// LoadAnnouncementAsync runs LoadAnnouncement in the background and delivers the
// message to `done` on the engine's loop. Cancelling ctx does not stop the
// delivery, `done` receives the fallback instead. It is only dropped if the
// loop has been closed.
func (e *Engine) LoadAnnouncementAsync(ctx context.Context, a *Announcement, done func(message string)) {
	go func() {
		message := e.LoadAnnouncement(ctx, a)
		e.deliver(ctx, func() {
			done(message)
		})
	}()
}
