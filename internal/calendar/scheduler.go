package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Reload outcomes reported to ReloadRecorder.
const (
	ReloadSuccess = "ok"
	ReloadFailure = "error"
)

// Reloader is the part of Provider the scheduler drives.
type Reloader interface {
	Reload(ctx context.Context) error
}

// ReloadRecorder counts reload outcomes.
type ReloadRecorder interface {
	IncCalendarReload(result string)
}

// Logger is the logging capability the scheduler needs.
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler reloads the calendar on a cron schedule (standard five-field expression).
type Scheduler struct {
	cron     *cron.Cron
	reloader Reloader
	recorder ReloadRecorder
	logger   Logger
	timeout  time.Duration
}

// NewScheduler validates schedule and registers the reload job. The job does not run
// until Start.
func NewScheduler(schedule string, reloader Reloader, recorder ReloadRecorder, logger Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		reloader: reloader,
		recorder: recorder,
		logger:   logger,
		timeout:  30 * time.Second,
	}

	if _, err := s.cron.AddFunc(schedule, s.runReload); err != nil {
		return nil, fmt.Errorf("calendar: invalid reload schedule %q: %w", schedule, err)
	}

	return s, nil
}

// ReloadNow performs one explicit reload and records its outcome.
func (s *Scheduler) ReloadNow(ctx context.Context) error {
	if err := s.reloader.Reload(ctx); err != nil {
		s.recorder.IncCalendarReload(ReloadFailure)
		s.logger.Error("Calendar: reload failed, keeping previous snapshot: %v", err)
		return err
	}
	s.recorder.IncCalendarReload(ReloadSuccess)
	s.logger.Info("Calendar: holidays reloaded")
	return nil
}

func (s *Scheduler) runReload() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_ = s.ReloadNow(ctx)
}

// Start begins running scheduled reloads in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running reload to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
