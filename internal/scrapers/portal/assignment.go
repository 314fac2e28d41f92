package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coursesync-backend/pkg/htmlutil"
	"coursesync-backend/pkg/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	textPanelMarker   = `<div class="textPanel">`
	textPanelSelector = `div[class="textPanel"]`
	instructionsTitle = " Assignment Instructions"
	ungradedMarker    = "Ungrades"
)

var errSuperseded = errors.New("portal: load superseded by a newer one")

func parseRegion(name, markup string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrMalformedMarkup, name, err)
	}
	return doc, nil
}

// extractGrade reads the grade row of the summary table, the second return
// value is false if there is no grade or the assignment is ungraded.
func extractGrade(doc *goquery.Document) (string, bool) {
	grade := ""
	found := false
	doc.Find(".itemSummary tr").Each(func(_ int, row *goquery.Selection) {
		if !strings.Contains(row.Find("th").Text(), "Grade") {
			return
		}
		cell := row.Find("td").First()
		if cell.Length() == 0 {
			return
		}

		value := textutil.Cleansed(htmlutil.GetText(cell.Nodes[0]))
		// the portal drops the space between the score and "(max" when it
		// converts the cell's tags to text
		if strings.Contains(value, "(max") {
			value = textutil.Cleansed(strings.Replace(value, "(max", " (max", 1))
		}
		if value == "" || strings.Contains(value, ungradedMarker) {
			return
		}
		grade = value
		found = true
	})
	return grade, found
}

func instructionsMessage(doc *goquery.Document) string {
	var message strings.Builder
	for _, node := range doc.Find(textPanelSelector).Nodes {
		text := htmlutil.GetBlockText(node)
		text = strings.TrimPrefix(text, instructionsTitle)
		message.WriteString(text)
	}
	return textutil.Normalize(message.String())
}

// extractInlineText finds the text the student typed into the submission form,
// it returns the attachment and the serialized panel it came from.
func extractInlineText(submission *goquery.Document) (*InlineAttachment, string, error) {
	panel := submission.Find(textPanelSelector).First()
	if panel.Length() == 0 {
		return nil, "", nil
	}
	outer, err := goquery.OuterHtml(panel)
	if err != nil {
		return nil, "", fmt.Errorf("%w: serialize submitted text: %w", ErrMalformedMarkup, err)
	}

	body := textutil.StripPanelWrapper(outer)
	bodyDoc, err := parseRegion("submitted text", body)
	if err != nil {
		return nil, "", err
	}

	title := submittedTextName
	links := bodyDoc.Find("a")
	if links.Length() == 1 {
		linkText := textutil.Cleansed(links.Text())
		if linkText != "" && textutil.Cleansed(bodyDoc.Text()) == linkText {
			title = textutil.SiteName(links.AttrOr("href", ""), linkText)
		}
	}

	return &InlineAttachment{
		FileName: title,
		RawText:  body,
	}, outer, nil
}

// extractFeedback joins every text panel of the submission region except the
// one holding the submitted text.
func extractFeedback(submission *goquery.Document, submittedPanel string) (string, error) {
	var feedback strings.Builder
	for _, node := range submission.Find(textPanelSelector).Nodes {
		if submittedPanel != "" {
			outer, err := goquery.OuterHtml(goquery.NewDocumentFromNode(node).Selection)
			if err != nil {
				return "", fmt.Errorf("%w: serialize feedback: %w", ErrMalformedMarkup, err)
			}
			if outer == submittedPanel {
				continue
			}
		}
		feedback.WriteString(htmlutil.GetBlockText(node))
	}
	return feedback.String(), nil
}

func (e *Engine) populateAssignment(ctx context.Context, a *Assignment, generation uint64, page Page) error {
	regions := SplitRegions(page.Raw)

	instructions, err := e.parse("instructions", regions.Instructions)
	if err != nil {
		return err
	}
	message := instructionsMessage(instructions)
	attachments := ExtractFileAttachments(ctx, instructions.Selection)
	if !a.update(generation, func(f *assignmentFields) {
		f.message = &message
		f.attachments = attachments
	}) {
		return errSuperseded
	}

	if regions.Submission == nil {
		return nil
	}
	submission, err := e.parse("submission", *regions.Submission)
	if err != nil {
		return err
	}

	submissions := ExtractFileAttachments(ctx, submission.Selection)
	if !a.update(generation, func(f *assignmentFields) {
		f.submissions = submissions
	}) {
		return errSuperseded
	}

	submittedPanel := ""
	if regions.Marker == MarkerOriginalSubmission {
		inline, panel, err := extractInlineText(submission)
		if err != nil {
			e.tel.ReportBroken(report_assignment_inline_text, err, page.Url)
			return err
		}
		if inline != nil {
			submittedPanel = panel
			a.update(generation, func(f *assignmentFields) {
				f.submissions = append(f.submissions, *inline)
				f.usesInlineText = true
			})
		}
	}

	feedback, err := extractFeedback(submission, submittedPanel)
	if err != nil {
		return err
	}
	if strings.TrimSpace(feedback) != "" {
		feedback = textutil.Normalize(feedback)
		a.update(generation, func(f *assignmentFields) {
			f.feedback = &feedback
		})
	}
	return nil
}

// LoadAssignment clears every lazily loaded field of the assignment and
// re-derives them from a fresh fetch. Unlike LoadAnnouncement nothing is
// memoized, each call fetches again. A newer call (or SetLink) supersedes an
// older one still in flight, the older one's results are dropped.
//
// Failures never surface as errors: a failed fetch leaves the fields empty, a
// page that never renders ends with the fallback message and malformed markup
// keeps whatever was extracted before the failure.
func (e *Engine) LoadAssignment(ctx context.Context, a *Assignment) {
	ctx, span := tracer.Start(ctx, "engine:LoadAssignment")
	defer span.End()

	link, generation := a.begin()
	span.SetAttributes(attribute.String("url", link))

	err := e.retry.run(ctx, func(attempt int) error {
		if !a.update(generation, func(f *assignmentFields) {
			*f = assignmentFields{}
		}) {
			return errSuperseded
		}

		page, err := e.fetch(ctx, "assignment", link, attempt)
		if err != nil {
			return err
		}

		grade, graded := extractGrade(page.Doc)
		if graded {
			e.tel.ReportDebug(report_assignment_grade, link, grade)
			a.update(generation, func(f *assignmentFields) {
				f.grade = &grade
			})
		}

		if !strings.Contains(page.Raw, textPanelMarker) {
			if e.retry.FallbackAfter > 0 && attempt > e.retry.FallbackAfter {
				fallback := assignmentFailure
				a.update(generation, func(f *assignmentFields) {
					f.message = &fallback
				})
			}
			return ErrNotYetRendered
		}

		return e.populateAssignment(ctx, a, generation, page)
	})

	switch {
	case err == nil:
	case errors.Is(err, errSuperseded):
		e.tel.ReportDebug("discarded superseded assignment load", link)
	case errors.Is(err, ErrNotYetRendered):
		span.RecordError(err)
		span.SetStatus(codes.Error, "page never rendered")
		e.tel.ReportWarning(report_assignment_load, err, link)
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load assignment")
		e.tel.ReportBroken(report_assignment_load, err, link)
	}
}

// LoadAssignmentAsync runs LoadAssignment in the background and calls `done`
// on the engine's loop once it finishes, even if ctx was cancelled. It is only
// dropped if the loop has been closed.
func (e *Engine) LoadAssignmentAsync(ctx context.Context, a *Assignment, done func()) {
	go func() {
		e.LoadAssignment(ctx, a)
		e.deliver(ctx, done)
	}()
}
