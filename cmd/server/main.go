package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditlog "aido/backend/internal/audit"
	auditrepo "aido/backend/internal/audit/repository"
	"aido/backend/internal/code"
	"aido/backend/internal/config"
	"aido/backend/internal/db"
	identityservice "aido/backend/internal/identity/service"
	"aido/backend/internal/server"
	"aido/backend/internal/server/middleware"
	"aido/backend/internal/sms"
	otelx "aido/backend/internal/telemetry/otel"
	"aido/backend/internal/user/directory"
	userrepo "aido/backend/internal/user/repository"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config", "err", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is not set; refusing to start")
		os.Exit(1)
	}

	ctx := context.Background()

	providers, err := otelx.NewProviders(ctx, cfg.OTLPEndpoint, "aido-backend", cfg.OTLPInsecure)
	if err != nil {
		logger.Error("telemetry", "err", err)
		os.Exit(1)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	database, err := db.Open(cfg.DatabaseURL, db.Pool{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetimeDuration(),
	})
	if err != nil {
		logger.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer database.Close()
	logger.Info("db connected")

	codeStore := code.NewMemoryStore()
	issuer := code.NewIssuer(codeStore, cfg.CodeTTLDuration())

	smsClient := sms.NewClient(cfg.SMSAPIKey, cfg.SMSBaseURL, cfg.SMSSignName, cfg.SMSTemplateCode)
	gateway := sms.NewGateway(smsClient, logger)

	dir := directory.New(userrepo.NewPostgresRepository(database))
	auditor := auditlog.NewLogger(auditrepo.NewPostgresRepository(database), middleware.ClientIP, logger)

	authSvc := identityservice.NewAuthService(issuer, gateway, dir, auditor, cfg.TrustedLogin, logger)
	if cfg.TrustedLogin {
		logger.Warn("trusted login enabled: phone-only logins skip code validation")
	}

	deps := server.Deps{
		Auth:         authSvc,
		HealthPinger: database,
		Logger:       logger,
	}
	if cfg.CodeReturnToClient {
		deps.DevCodeStore = codeStore
		logger.Warn("dev code endpoint enabled: codes readable via GET /dev/code")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.NewRouter(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	logger.Info("http server stopped")
}
