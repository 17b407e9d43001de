package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/yummy-colors-backend/internal/collector"
	"github.com/DoyleJ11/yummy-colors-backend/internal/config"
	"github.com/DoyleJ11/yummy-colors-backend/internal/httpapi"
	"github.com/DoyleJ11/yummy-colors-backend/internal/hub"
	"github.com/DoyleJ11/yummy-colors-backend/internal/logging"
	"github.com/DoyleJ11/yummy-colors-backend/internal/palette"
	"github.com/DoyleJ11/yummy-colors-backend/internal/session"
	"github.com/DoyleJ11/yummy-colors-backend/internal/store"
	"github.com/DoyleJ11/yummy-colors-backend/internal/syncclient"
	"github.com/DoyleJ11/yummy-colors-backend/internal/types"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) (err error) {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.Dev)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, syncLogger(log)) }()

	repo, err := collector.Open(cfg.DatabaseDriver, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("open collector: %w", err)
	}
	defer func() { err = multierr.Append(err, repo.Close()) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Without a remote collector, finished games go straight to our own.
	var tx syncclient.Transmitter = localTransmitter{repo: repo}
	if cfg.CollectorURL != "" {
		tx = syncclient.NewHTTPTransmitter(cfg.CollectorURL, cfg.SyncTimeout)
	}

	h := hub.NewHub(ctx, sessionFactory(cfg, tx, log), log)

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(httpapi.Deps{
		Hub:            h,
		Repo:           repo,
		Log:            log,
		AdminKeyHash:   cfg.AdminKeyHash,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening",
			zap.String("addr", cfg.Addr),
			zap.String("collector", cfg.DatabaseDriver),
			zap.String("store", cfg.StoreBackend),
			zap.String("finale", string(cfg.Rules.FinaleMode)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		h.Inbox() <- hub.ShutdownHub{}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// sessionFactory gives every share code its own state directory, sync
// client and generator.
func sessionFactory(cfg config.Config, tx syncclient.Transmitter, log *zap.Logger) hub.Factory {
	return func(ctx context.Context, code string) (*session.Session, error) {
		kv, err := store.Open(cfg.StoreBackend, filepath.Join(cfg.StateDir, code))
		if err != nil {
			return nil, fmt.Errorf("open store for %s: %w", code, err)
		}
		clog := log.With(zap.String("code", code))
		persist := store.New(kv, clog)

		syncer := syncclient.New(syncclient.Options{
			Transmitter: tx,
			Cache:       persist,
			Locator:     syncclient.TimezoneLocator{},
			Logger:      clog,
		})
		gen := palette.NewGenerator(cfg.DrawPolicy, rand.New(rand.NewSource(time.Now().UnixNano())))

		return session.NewSession(ctx, session.Deps{
			Rules:       cfg.Rules,
			Generator:   gen,
			Store:       persist,
			Sync:        syncer,
			Logger:      clog,
			SyncTimeout: cfg.SyncTimeout,
			IdleTimeout: cfg.IdleTimeout,
		}), nil
	}
}

type localTransmitter struct {
	repo collector.Repository
}

func (t localTransmitter) Transmit(ctx context.Context, gs types.GameSession) error {
	return t.repo.Save(ctx, gs)
}

// syncLogger flushes the logger. Sync on a terminal fails harmlessly.
func syncLogger(log *zap.Logger) error {
	err := log.Sync()
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) {
		return nil
	}
	return err
}
