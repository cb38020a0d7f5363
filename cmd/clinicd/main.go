package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/GFattehallah/cmhe-manager/internal/backup"
	"github.com/GFattehallah/cmhe-manager/internal/config"
	v1 "github.com/GFattehallah/cmhe-manager/internal/handler/v1"
	"github.com/GFattehallah/cmhe-manager/internal/importer"
	"github.com/GFattehallah/cmhe-manager/internal/localcache"
	"github.com/GFattehallah/cmhe-manager/internal/remote"
	"github.com/GFattehallah/cmhe-manager/internal/seed"
	"github.com/GFattehallah/cmhe-manager/internal/service"
	"github.com/GFattehallah/cmhe-manager/internal/store"
	"github.com/GFattehallah/cmhe-manager/internal/suggest"
	"github.com/GFattehallah/cmhe-manager/pkg/auth"
	"github.com/GFattehallah/cmhe-manager/pkg/logger"
	"github.com/GFattehallah/cmhe-manager/pkg/metrics"
	"github.com/GFattehallah/cmhe-manager/pkg/tracer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	m := metrics.NewCollector(cfg.App.Name)

	if cfg.Tracing.Enabled {
		tp, err := tracer.Init(cfg.Tracing)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	cache, err := localcache.Connect(cfg.Cache.Path)
	if err != nil {
		return fmt.Errorf("opening local cache at %s: %w", cfg.Cache.Path, err)
	}
	defer cache.Close()

	// The remote backend is optional. Anything wrong with the credentials
	// degrades to local-only operation, never to a startup failure.
	var rc store.Remote
	diag := cfg.Remote.Probe()
	if diag.Configured() {
		client, err := remote.New(cfg.Remote.SanitizedURL(), cfg.Remote.SanitizedKey(), cfg.Remote.Timeout)
		if err != nil {
			log.Warn("remote backend unusable, running local-only", zap.Error(err))
		} else {
			rc = client
			log.Info("remote backend configured", zap.String("url", cfg.Remote.SanitizedURL()))
		}
	} else {
		log.Warn("remote backend not configured, running local-only",
			zap.String("reason", diag.Reason),
			zap.Bool("wrong_provider", diag.WrongProvider),
		)
	}

	st := store.New(rc, cache, seed.Default(), log, m)
	jwtManager := auth.NewJWTManager(cfg.JWT)

	h := v1.NewHandler(v1.Deps{
		Auth:       service.NewAuthService(st.Users, jwtManager, log),
		Patients:   service.NewPatientService(st.Patients, log),
		Billing:    service.NewBillingService(st.Invoices, st.Expenses, log),
		Clinical:   service.NewClinicalService(st.Appointments, st.Consultations, log),
		Importer:   importer.New(st, log, m),
		Backup:     backup.NewService(st, log, m),
		Suggest:    suggest.New(cfg.Suggest.URL, cfg.Suggest.Key, cfg.Suggest.Timeout, log),
		JWTManager: jwtManager,
		RemoteDiag: diag,
		Log:        log,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      v1.NewRouter(cfg, h, m),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
