package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"familyledger/config"
	"familyledger/database"
	"familyledger/engine"
	"familyledger/logger"
	"familyledger/middleware"
	"familyledger/router"
	"familyledger/scheduler"
	"familyledger/service"

	"github.com/shopspring/decimal"
)

// @title Family Ledger API
// @version 1.0
// @description Family budgets, expenses and incomes with budget-versus-actual tracking.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
)

const shutdownTimeout = 10 * time.Second

func init() {
	flag.StringVar(&configFile, "config", "", "external config file (optional)")
	flag.StringVar(&configFile, "c", "", "external config file (shorthand)")
	flag.StringVar(&port, "port", "", "listen port, e.g. 8080 or :8080")
	flag.StringVar(&port, "p", "", "listen port (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&showVersion, "v", false, "print version (shorthand)")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("familyledger v1.0.0")
		return
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
	}

	config.PrintConfig()

	appLog := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger.SetDefault(appLog)

	decimal.MarshalJSONWithoutQuotes = true

	if err := database.Init(cfg); err != nil {
		log.Fatalf("init database: %v", err)
	}

	middleware.InitJWT(cfg)

	notifier, closeNotifier := buildNotifier(cfg, appLog)

	eng := engine.New(database.DB, engine.Options{
		Location:              cfg.Location(),
		DefaultAlertThreshold: cfg.Budget.DefaultAlertThreshold,
		TrendMonths:           cfg.Budget.TrendMonths,
		HistoryLimit:          cfg.Budget.HistoryLimit,
		Concurrency:           cfg.Budget.Concurrency,
		DefaultCurrency:       cfg.Budget.DefaultCurrency,
		Logger:                appLog,
		Notifier:              notifier,
	})

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(cfg.Scheduler.AutoRenewSpec, eng, cfg.Location(), appLog)
		if err != nil {
			log.Fatalf("init scheduler: %v", err)
		}
		sched.Start()
	}

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router.SetupRouter(cfg, eng, appLog),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		appLog.Info("server started",
			"addr", cfg.Server.Port,
			"swagger", "http://localhost"+cfg.Server.Port+"/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	appLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server shutdown", "error", err)
	}
	closeNotifier(shutdownCtx)
}

// buildNotifier combines the enabled alert channels behind a queue so
// delivery never runs inside a request. A broker that cannot be reached
// disables AMQP alerts instead of failing startup.
func buildNotifier(cfg *config.Config, appLog *logger.Logger) (engine.Notifier, func(context.Context)) {
	var channels service.MultiNotifier
	var pub *service.Publisher

	if cfg.Email.Enabled {
		channels = append(channels, service.NewEmailService(&cfg.Email, service.FamilyRecipients{DB: database.DB}))
	}
	if cfg.AMQP.Enabled {
		p, err := service.NewPublisher(cfg.AMQP, appLog)
		if err != nil {
			appLog.Warn("amqp alerts disabled", "error", err)
		} else {
			pub = p
			channels = append(channels, pub)
		}
	}

	if len(channels) == 0 {
		return nil, func(context.Context) {}
	}

	queue := service.NewQueuedNotifier(channels, service.DefaultAlertQueueSize, service.DefaultAlertTimeout, appLog)
	return queue, func(ctx context.Context) {
		if err := queue.Close(ctx); err != nil {
			appLog.Warn("pending budget alerts dropped", "error", err)
		}
		if pub != nil {
			if err := pub.Close(); err != nil {
				appLog.Warn("close amqp publisher", "error", err)
			}
		}
	}
}
