package portalapi

import (
	"context"
	"sync"

	"coursesync-backend/internal/archive"
	"coursesync-backend/internal/components/assert"
	"coursesync-backend/internal/components/telemetry"
	"coursesync-backend/internal/scrapers/portal"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("portalapi")

const (
	report_impl_save_class = "impl.save-class"
	report_impl_mark_read  = "impl.mark-read"
)

// Implementation drives the extraction engine over whole classes, archives the
// results and keeps track of which announcements are new.
type Implementation struct {
	engine    *portal.Engine
	archive   archive.Archive
	readState portal.ReadState
	tel       telemetry.API
}

func NewImplementation(
	engine *portal.Engine,
	archive archive.Archive,
	readState portal.ReadState,
	opts ...ImplementationOption,
) Implementation {
	assert.NotNil(engine)

	var cfg implementationCfg
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.tel == nil {
		cfg.tel = telemetry.SlogAPI{}
	}

	return Implementation{
		engine:    engine,
		archive:   archive,
		readState: readState,
		tel:       telemetry.NewScopedAPI("portalapi_impl", cfg.tel),
	}
}

type ImplementationOption func(cfg *implementationCfg)

type implementationCfg struct {
	tel telemetry.API
}

func WithCustomTelemetryAPI(tel telemetry.API) ImplementationOption {
	return func(cfg *implementationCfg) {
		cfg.tel = tel
	}
}

// LoadClass loads every announcement and assignment of a class concurrently.
func (impl Implementation) LoadClass(ctx context.Context, class *portal.Class) {
	ctx, span := tracer.Start(ctx, "LoadClass")
	defer span.End()
	span.SetAttributes(
		attribute.String("class", class.Name),
		attribute.Int("announcements", len(class.Announcements)),
		attribute.Int("assignments", len(class.Assignments)),
	)

	wg := sync.WaitGroup{}
	for _, a := range class.Announcements {
		wg.Add(1)
		go func(a *portal.Announcement) {
			defer wg.Done()
			impl.engine.LoadAnnouncement(ctx, a)
		}(a)
	}
	for _, a := range class.Assignments {
		wg.Add(1)
		go func(a *portal.Assignment) {
			defer wg.Done()
			impl.engine.LoadAssignment(ctx, a)
		}(a)
	}
	wg.Wait()
}

// ScrapeAll loads and archives every class, a class that fails to save does
// not stop the others from being saved. The first error is returned.
func (impl Implementation) ScrapeAll(ctx context.Context, classes []*portal.Class) error {
	ctx, span := tracer.Start(ctx, "ScrapeAll")
	defer span.End()

	wg := sync.WaitGroup{}
	for _, class := range classes {
		wg.Add(1)
		go func(class *portal.Class) {
			defer wg.Done()
			impl.LoadClass(ctx, class)
		}(class)
	}
	wg.Wait()

	var firstErr error
	for _, class := range classes {
		err := impl.archive.SaveClass(ctx, class)
		if err != nil {
			impl.tel.ReportBroken(report_impl_save_class, err, class.Name)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Unread returns the announcements that have not been read yet, in class order.
func (impl Implementation) Unread(ctx context.Context, classes []*portal.Class) []*portal.Announcement {
	var unread []*portal.Announcement
	for _, class := range classes {
		for _, a := range class.Announcements {
			if !impl.readState.HasBeenRead(ctx, a) {
				unread = append(unread, a)
			}
		}
	}
	return unread
}

func (impl Implementation) MarkRead(ctx context.Context, announcements []*portal.Announcement) error {
	for _, a := range announcements {
		err := impl.readState.MarkRead(ctx, a)
		if err != nil {
			impl.tel.ReportBroken(report_impl_mark_read, err, a.Name)
			return err
		}
	}
	return nil
}
