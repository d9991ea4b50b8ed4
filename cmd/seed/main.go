// Command seed fills the configured database with demo families, budgets and
// transactions.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"familyledger/config"
	"familyledger/database"
	"familyledger/engine"
	"familyledger/logger"

	"github.com/brianvoe/gofakeit/v6"
)

func main() {
	var (
		configFile string
		opts       Options
		seed       int64
	)
	flag.StringVar(&configFile, "c", "", "external config file (optional)")
	flag.IntVar(&opts.Families, "families", 2, "families to create")
	flag.IntVar(&opts.Months, "months", 6, "months of history, ending with the current one")
	flag.IntVar(&opts.ExpensesPerMonth, "expenses", 25, "expenses per family and month")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "faker seed")
	flag.Parse()

	cfg := config.MustLoadConfig(configFile)
	if err := database.Init(cfg); err != nil {
		log.Fatalf("init database: %v", err)
	}

	appLog := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	eng := engine.New(database.DB, engine.Options{
		Location:              cfg.Location(),
		DefaultAlertThreshold: cfg.Budget.DefaultAlertThreshold,
		DefaultCurrency:       cfg.Budget.DefaultCurrency,
		Logger:                appLog,
	})

	s := &Seeder{DB: database.DB, Engine: eng, Faker: gofakeit.New(seed)}
	res, err := s.Run(context.Background(), opts)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	appLog.Info("seeded demo data",
		"families", res.Families,
		"budgets", res.Budgets,
		"expenses", res.Expenses,
		"incomes", res.Incomes,
		"seed", seed)
}
