// Package scheduler runs the monthly budget auto-renew job.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"familyledger/logger"

	"github.com/robfig/cron/v3"
)

// Renewer copies auto-renew budgets into (year, month).
type Renewer interface {
	AutoRenewAll(ctx context.Context, year, month int) (int, error)
}

// Scheduler wraps a cron runner with the auto-renew job.
type Scheduler struct {
	cron    *cron.Cron
	renewer Renewer
	loc     *time.Location
	log     *logger.Logger
	timeout time.Duration
}

// New registers the auto-renew job at spec (standard five-field cron syntax
// or a descriptor such as "@monthly"), evaluated in loc.
func New(spec string, renewer Renewer, loc *time.Location, log *logger.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logger.Discard()
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		renewer: renewer,
		loc:     loc,
		log:     log.WithComponent(logger.ComponentScheduler),
		timeout: 5 * time.Minute,
	}
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("schedule auto-renew %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_, _ = s.RunOnce(ctx, time.Now())
}

// RunOnce renews budgets into the month containing now.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) (int, error) {
	now = now.In(s.loc)
	year, month := now.Year(), int(now.Month())

	n, err := s.renewer.AutoRenewAll(ctx, year, month)
	if err != nil {
		s.log.ErrorContext(ctx, "auto-renew failed",
			logger.FieldYear, year, logger.FieldMonth, month,
			"created", n, logger.FieldError, err)
		return n, err
	}
	s.log.InfoContext(ctx, "auto-renew finished",
		logger.FieldYear, year, logger.FieldMonth, month, "created", n)
	return n, nil
}

// Start runs the cron in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the cron and waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
