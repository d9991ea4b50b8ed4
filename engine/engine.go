// Package engine keeps budget caches consistent with the expense ledger and
// computes the family summaries served by the API.
//
// Every operation takes the family explicitly; nothing is read from ambient
// request state.
package engine

import (
	"context"
	"time"

	"familyledger/logger"
	"familyledger/models"

	"gorm.io/gorm"
)

// Notifier receives budgets that climbed into warning or exceeded.
type Notifier interface {
	NotifyBudgetAlert(ctx context.Context, alert models.BudgetAlert) error
}

// Options configures an Engine. Zero values fall back to the defaults below.
type Options struct {
	Location              *time.Location
	DefaultAlertThreshold int
	TrendMonths           int
	HistoryLimit          int
	Concurrency           int
	DefaultCurrency       string
	Logger                *logger.Logger
	Notifier              Notifier
	Now                   func() time.Time
}

const (
	defaultTrendMonths   = 6
	defaultHistoryLimit  = 10
	defaultConcurrency   = 4
	defaultCurrency      = "CNY"
	maxReconcileAttempts = 3
	maxTrendMonths       = 120
)

// Engine is safe for concurrent use.
type Engine struct {
	db           *gorm.DB
	loc          *time.Location
	log          *logger.Logger
	notifier     Notifier
	threshold    int
	trendMonths  int
	historyLimit int
	concurrency  int
	currency     string
	now          func() time.Time
	reconcilers  []Reconciler
}

// New builds an Engine over db.
func New(db *gorm.DB, opts Options) *Engine {
	e := &Engine{
		db:           db,
		loc:          opts.Location,
		log:          opts.Logger,
		notifier:     opts.Notifier,
		threshold:    opts.DefaultAlertThreshold,
		trendMonths:  opts.TrendMonths,
		historyLimit: opts.HistoryLimit,
		concurrency:  opts.Concurrency,
		currency:     opts.DefaultCurrency,
		now:          opts.Now,
	}
	if e.loc == nil {
		e.loc = time.Local
	}
	if e.log == nil {
		e.log = logger.Discard()
	}
	e.log = e.log.WithComponent(logger.ComponentEngine)
	if e.threshold <= 0 || e.threshold > 100 {
		e.threshold = models.DefaultAlertThreshold
	}
	if e.trendMonths <= 0 {
		e.trendMonths = defaultTrendMonths
	}
	if e.historyLimit <= 0 {
		e.historyLimit = defaultHistoryLimit
	}
	if e.concurrency <= 0 {
		e.concurrency = defaultConcurrency
	}
	if e.currency == "" {
		e.currency = defaultCurrency
	}
	if e.now == nil {
		e.now = time.Now
	}
	e.reconcilers = []Reconciler{
		budgetReconciler{e},
		categoryReconciler{e},
	}
	return e
}

// Location is the time zone months are cut in.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Now returns the engine clock in its location.
func (e *Engine) Now() time.Time {
	return e.now().In(e.loc)
}

func (e *Engine) conn(ctx context.Context) *gorm.DB {
	return e.db.WithContext(ctx)
}

func (e *Engine) logFor(ctx context.Context) *logger.Logger {
	return logger.FromContext(ctx, e.log)
}
