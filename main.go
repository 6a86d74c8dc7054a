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

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/folio/internal/analytics"
	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/logging"
	"github.com/Zachkp/folio/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gin.SetMode(cfg.GinMode)

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	portfolio, err := content.Load(cfg.ContentPath)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	store, err := analytics.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	hasher, err := analytics.RandomHasher()
	if err != nil {
		return err
	}

	clock := clockwork.NewRealClock()
	tracker := analytics.NewTracker(store, hasher, clock, logger)
	gateway := contact.NewLoggingGateway(contact.NewSimulatedGateway(clock, cfg.SubmitDelay), logger)
	sessions := contact.NewRegistry(clock, cfg.SessionTTL, func() *contact.Controller {
		return contact.NewController(
			contact.WithClock(clock),
			contact.WithGateway(gateway),
			contact.WithResetDelay(cfg.ResetDelay),
			contact.WithLogger(logger),
		)
	}, logger)

	srv, err := web.New(web.Options{
		Content:  portfolio,
		Sessions: sessions,
		Store:    store,
		Tracker:  tracker,
		Admin: web.AdminCredentials{
			Username: cfg.AdminUsername,
			Password: cfg.AdminPassword,
		},
		Clock:         clock,
		Logger:        logger,
		StaticDir:     cfg.StaticDir,
		SecureCookies: cfg.GinMode == gin.ReleaseMode,
		Retention:     cfg.VisitorRetention,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return tracker.Run(ctx) })
	g.Go(func() error { return tracker.RunRetention(ctx, cfg.VisitorRetention) })
	g.Go(func() error { return sessions.Run(ctx) })
	g.Go(func() error {
		logger.Info().Str("addr", httpServer.Addr).Msg("portfolio listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info().Msg("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

