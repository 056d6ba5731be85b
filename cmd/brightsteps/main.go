package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brightsteps/brightsteps/cmd/brightsteps/cli"
	"github.com/brightsteps/brightsteps/internal/app"
	"github.com/brightsteps/brightsteps/internal/articles"
	"github.com/brightsteps/brightsteps/internal/charts"
	"github.com/brightsteps/brightsteps/internal/contact"
	"github.com/brightsteps/brightsteps/internal/dashboard"
	dashboardhttp "github.com/brightsteps/brightsteps/internal/dashboard/http"
	"github.com/brightsteps/brightsteps/internal/observability"
	"github.com/brightsteps/brightsteps/internal/platform/cache"
	"github.com/brightsteps/brightsteps/internal/roster"
	"github.com/brightsteps/brightsteps/internal/shared"
	"github.com/brightsteps/brightsteps/internal/theme"
	"github.com/brightsteps/brightsteps/internal/view"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "roster" {
		opts, err := cli.ParseRosterFlags(os.Args[2:], os.Stderr)
		if err != nil {
			os.Exit(2)
		}
		os.Exit(cli.RosterCommand(opts))
	}

	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	if redisClient.Embedded() {
		logger.Info("using embedded redis")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient.Client, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	themes := &theme.CookieStore{Secure: cfg.IsProduction()}

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	library, err := articles.Load()
	if err != nil {
		logger.Error("load articles", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	rosterStore := roster.NewStore(redisClient.Client, cfg.RosterTTL)
	dashboardService := dashboard.NewService(rosterStore, metrics.RosterGenerated)
	dashboardHandler := dashboardhttp.NewHandler(
		logger,
		dashboardService,
		library,
		templates,
		csrfManager,
		themes,
		cfg.ContactRecipient,
		func(kind charts.Kind) { metrics.ChartRendered(string(kind)) },
	)
	contactHandler := contact.NewHandler(logger, templates, csrfManager, themes, cfg.ContactRecipient, metrics.ContactSubmitted)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		DashboardHandler: dashboardHandler,
		ContactHandler:   contactHandler,
		Metrics:          metrics,
		RequestLogging:   !cfg.IsProduction(),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
