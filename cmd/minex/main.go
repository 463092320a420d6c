package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minexboard/minex/internal/app"
	"github.com/minexboard/minex/internal/audit"
	audithttp "github.com/minexboard/minex/internal/audit/http"
	"github.com/minexboard/minex/internal/auth"
	"github.com/minexboard/minex/internal/invoices"
	"github.com/minexboard/minex/internal/jobcards"
	"github.com/minexboard/minex/internal/observability"
	"github.com/minexboard/minex/internal/platform/cache"
	"github.com/minexboard/minex/internal/platform/db"
)

func main() {
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, login throttling disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	verifier := auth.NewVerifier(cfg.JWTSecret)
	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, verifier, cfg.TokenTTL)
	limiter := auth.NewAttemptLimiter(redisClient, logger, cfg.LoginMaxAttempts, cfg.LoginAttemptWindow)
	authHandler := auth.NewHandler(logger, authService, limiter, cfg.AuthCookieName, cfg.IsProduction(), cfg.TokenTTL)

	auditRepo := audit.NewRepository(pool)
	recorder := audit.NewRecorder(auditRepo, logger, cfg.SystemUserID)
	recorder.SetObserver(metrics.CountAuditWrite)
	interceptor := audit.NewInterceptor(logger, authService, recorder, cfg.AuthCookieName, "/auth/login")
	auditService := audit.NewService(auditRepo)
	auditHandler := audithttp.NewHandler(logger, auditService)

	jobCardRepo := jobcards.NewRepository(pool)
	jobCardService := jobcards.NewService(jobCardRepo)
	jobCardHandler := jobcards.NewHandler(logger, jobCardService)
	largeScaleHandler := jobcards.NewLargeScaleHandler(logger, jobCardService)

	invoiceRepo := invoices.NewRepository(pool)
	invoiceService := invoices.NewService(invoiceRepo)
	invoiceHandler := invoices.NewHandler(logger, invoiceService)

	router := app.NewRouter(app.RouterParams{
		Logger:                logger,
		Config:                cfg,
		Interceptor:           interceptor,
		AuthHandler:           authHandler,
		AuditHandler:          auditHandler,
		JobCardHandler:        jobCardHandler,
		LargeScaleCardHandler: largeScaleHandler,
		InvoiceHandler:        invoiceHandler,
		Metrics:               metrics,
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
