package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/simon-says-backend/internal/config"
	"github.com/DoyleJ11/simon-says-backend/internal/httpapi"
	"github.com/DoyleJ11/simon-says-backend/internal/hub"
	"github.com/DoyleJ11/simon-says-backend/internal/logging"
	"github.com/DoyleJ11/simon-says-backend/internal/session"
	"github.com/DoyleJ11/simon-says-backend/internal/tones"
	"github.com/DoyleJ11/simon-says-backend/internal/ws"
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
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bank, err := tones.NewBank(cfg.Timing.PadFlash)
	if err != nil {
		return err
	}

	h := hub.NewHub(ctx, session.Options{Timing: cfg.Timing, Logger: log})

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(httpapi.Deps{
		Hub:   h,
		Tones: bank,
		WS: ws.Options{
			ReadTimeout:  cfg.WSReadTimeout,
			WriteTimeout: cfg.WSWriteTimeout,
			PadInterval:  cfg.Timing.PadInterval,
			Logger:       log,
		},
		Logger: log,
	})
	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs error
		errs = multierr.Append(errs, srv.Shutdown(shutdownCtx))
		select {
		case h.Inbox() <- hub.ShutdownHub{}:
		case <-h.Done():
		case <-shutdownCtx.Done():
			errs = multierr.Append(errs, shutdownCtx.Err())
		}
		return errs
	})

	return g.Wait()
}
