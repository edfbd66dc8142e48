package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/techstore/api/internal/di"
	"github.com/techstore/api/internal/handlers"
	"github.com/techstore/api/internal/notifications"
	"github.com/techstore/api/internal/platform/config"
	"github.com/techstore/api/internal/platform/observability"
	platformpg "github.com/techstore/api/internal/platform/postgres"
	postgresRepo "github.com/techstore/api/internal/repositories/postgres"
	"github.com/techstore/api/internal/services"
)

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	provider := platformpg.NewProvider(platformpg.Config{
		URL:             cfg.Database.URL,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Close(closeCtx); err != nil {
			logger.Warn("postgres close error", zap.Error(err))
		}
	}()

	registry, err := postgresRepo.NewRegistry(ctx, provider)
	if err != nil {
		logger.Fatal("failed to initialise repositories", zap.Error(err))
	}

	eventLogger := observability.EventLogger()

	var notifier services.NotificationService
	var mailer services.MailerVerifier
	if cfg.SMTP.Enabled() {
		sender, err := notifications.NewSMTPSender(notifications.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			FromAddr: cfg.SMTP.FromAddress,
			FromName: cfg.SMTP.FromName,
		})
		if err != nil {
			logger.Fatal("failed to initialise smtp sender", zap.Error(err))
		}
		dispatcher, err := notifications.NewDispatcher(notifications.DispatcherDeps{
			Sender:        sender,
			BusinessEmail: cfg.SMTP.BusinessEmail,
			Clock:         time.Now,
			Logger:        eventLogger,
		})
		if err != nil {
			logger.Fatal("failed to initialise notification dispatcher", zap.Error(err))
		}
		notifier = dispatcher
		mailer = dispatcher
	} else {
		logger.Warn("smtp not configured; order notifications disabled")
	}

	container, err := di.NewContainer(di.ContainerDeps{
		Config:       cfg,
		Repositories: registry,
		Notifier:     notifier,
		Mailer:       mailer,
		Logger:       eventLogger,
		Clock:        time.Now,
	})
	if err != nil {
		logger.Fatal("failed to build services", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := container.Close(closeCtx); err != nil {
			logger.Warn("container close error", zap.Error(err))
		}
	}()

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(),
	}

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthSystemService(container.Services.System),
	)
	catalogHandlers := handlers.NewCatalogHandlers(container.Services.Catalog)
	orderHandlers := handlers.NewOrderHandlers(container.Services.Orders)
	notificationHandlers := handlers.NewNotificationHandlers(container.Services.Notifier)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithProductRoutes(catalogHandlers.Routes),
		handlers.WithOrderRoutes(orderHandlers.Routes),
		handlers.WithNotificationRoutes(notificationHandlers.Routes),
	)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.HTTP.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("techstore api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
