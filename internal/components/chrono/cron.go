package chrono

import (
	"fmt"
	"sync"

	"coursesync-backend/internal/components/telemetry"

	"github.com/robfig/cron/v3"
)

// CronAPI is the interface that anything depending on things to happen on a cron job should use.
type CronAPI interface {
	Cron(spec string, callback func()) error
}

// StandardCron is the standard implementation of CronAPI using `github.com/robfig/cron/v3`
type StandardCron struct {
	cron *cron.Cron
	// immediate tracks jobs started by CronNow outside of the scheduler
	immediate *sync.WaitGroup
}

// NewStandardCron creates and starts a scheduler, jobs run in the portal's time zone
// and never overlap with a still running invocation of themselves.
func NewStandardCron(tel telemetry.API) StandardCron {
	logger := cronLogger{tel: tel}
	cronner := cron.New(
		cron.WithLogger(logger),
		cron.WithLocation(location),
		cron.WithChain(cron.SkipIfStillRunning(logger)),
	)
	cronner.Start()

	return StandardCron{
		cron:      cronner,
		immediate: &sync.WaitGroup{},
	}
}

func (s StandardCron) Cron(spec string, callback func()) error {
	_, err := s.cron.AddFunc(spec, callback)
	return err
}

// CronNow is Cron but the callback also runs right away in the background. The
// immediate run counts as an invocation, a scheduled one is skipped while it
// is still going.
func (s StandardCron) CronNow(spec string, callback func()) error {
	id, err := s.cron.AddFunc(spec, callback)
	if err != nil {
		return err
	}
	job := s.cron.Entry(id).WrappedJob

	s.immediate.Add(1)
	go func() {
		defer s.immediate.Done()
		job.Run()
	}()
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish, including
// the ones started by CronNow.
func (s StandardCron) Stop() {
	<-s.cron.Stop().Done()
	s.immediate.Wait()
}

type cronLogger struct {
	tel telemetry.API
}

func (l cronLogger) formatParams(keysAndValues []any) []any {
	params := []any{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		params = append(params, fmt.Sprintf("%v: %v", keysAndValues[i], keysAndValues[i+1]))
	}
	return params
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.tel.ReportDebug(
		fmt.Sprintf("cron: %s", msg),
		l.formatParams(keysAndValues)...,
	)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.tel.ReportBroken(
		"cron",
		append([]any{fmt.Errorf("%s: %w", msg, err)}, l.formatParams(keysAndValues)...)...,
	)
}
