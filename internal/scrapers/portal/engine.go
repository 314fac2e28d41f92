package portal

import (
	"context"
	"fmt"

	"coursesync-backend/internal/components/assert"
	"coursesync-backend/internal/components/mainloop"
	"coursesync-backend/internal/components/telemetry"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("scrapers/portal")
var meter = otel.Meter("scrapers/portal")

const (
	report_engine_fetch             = "engine.fetch"
	report_engine_deliver           = "engine.deliver"
	report_announcement_load        = "announcement.load"
	report_assignment_load          = "assignment.load"
	report_assignment_grade         = "assignment.grade"
	report_assignment_inline_text   = "assignment.inline-text"
	report_read_state_has_been_read = "read_state.has-been-read"
	report_read_state_mark_read     = "read_state.mark-read"
)

type EngineOptions struct {
	Accessor DocumentAccessor
	Retry    RetryPolicy
	// Loop is where async completions are delivered, if nil they are
	// called on the goroutine that did the load.
	Loop *mainloop.Loop
}

// Engine turns portal pages into populated announcements and assignments.
type Engine struct {
	accessor DocumentAccessor
	retry    RetryPolicy
	loop     *mainloop.Loop
	tel      telemetry.API
	fetches  metric.Int64Counter
	// parse turns a region of a page into a document
	parse func(name, markup string) (*goquery.Document, error)
}

func NewEngine(opts EngineOptions, tel telemetry.API) *Engine {
	assert.NotNil(opts.Accessor)
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("portal", tel)

	fetches, err := meter.Int64Counter(
		"portal.fetches",
		metric.WithDescription("pages fetched by the extraction engine, retries included"),
	)
	if err != nil {
		tel.ReportWarning("engine.init", fmt.Errorf("create fetch counter: %w", err))
	}

	return &Engine{
		accessor: opts.Accessor,
		retry:    opts.Retry,
		loop:     opts.Loop,
		tel:      tel,
		fetches:  fetches,
		parse:    parseRegion,
	}
}

func (e *Engine) fetch(ctx context.Context, kind, link string, attempt int) (Page, error) {
	if e.fetches != nil {
		e.fetches.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	}
	e.tel.ReportDebug(report_engine_fetch, kind, link, attempt)

	page, err := e.accessor.Fetch(ctx, link)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %s: %w", ErrFetchFailure, link, err)
	}
	return page, nil
}

// deliver runs fn on the engine's loop. The load's cancellation does not apply,
// only a closed loop drops fn.
func (e *Engine) deliver(ctx context.Context, fn func()) {
	if e.loop == nil {
		fn()
		return
	}
	err := e.loop.Post(context.WithoutCancel(ctx), fn)
	if err != nil {
		e.tel.ReportWarning(report_engine_deliver, err)
	}
}
