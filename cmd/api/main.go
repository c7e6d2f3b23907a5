package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-adoption/internal/adapters/auth/odin"
	"pet-adoption/internal/adapters/notify/logmail"
	"pet-adoption/internal/adapters/notify/mailer"
	"pet-adoption/internal/adapters/notify/outbox"
	pg "pet-adoption/internal/adapters/storage/postgres"
	"pet-adoption/internal/platform/config"
	"pet-adoption/internal/platform/httpclient"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/auth"
	"pet-adoption/internal/ports/notify"
	"pet-adoption/internal/router"

	"github.com/spf13/cobra"
)

// @title Pet Adoption API
// @version 1.0
// @description Solicitudes de adopción: envío, aprobación con rechazo en cascada y listados.
// @BasePath /
func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "pet-adoption",
		Short:        "API de solicitudes de adopción de mascotas",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), migrateCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el esquema de Postgres (DB_DSN)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DBDSN == "" {
				return errors.New("migrate: DB_DSN is required")
			}
			db, err := pg.Open(cfg.DBDSN)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := pg.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			cfg.Logger().Info("schema applied", nil)
			return nil
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	log := cfg.Logger()

	var db *sql.DB
	if cfg.DBDSN != "" {
		var err error
		db, err = pg.Open(cfg.DBDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		if cfg.DBMigrate {
			if err := pg.Migrate(ctx, db); err != nil {
				return err
			}
		}
		log.Info("storage: postgres", nil)
	} else {
		log.Warn("storage: in-memory (DB_DSN vacío)", nil)
	}

	verifier, err := newVerifier(cfg)
	if err != nil {
		return err
	}

	gw, err := newGateway(cfg, log)
	if err != nil {
		return err
	}
	dispatcher := outbox.New(gw, outbox.Options{
		Workers:     cfg.Notify.Workers,
		QueueSize:   cfg.Notify.QueueSize,
		RatePerSec:  cfg.Notify.RatePerSec,
		MaxAttempts: cfg.Notify.MaxAttempts,
		BaseBackoff: cfg.Notify.BaseBackoff,
		SendTimeout: cfg.Mailer.Timeout,
		Logger:      log,
	})

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(router.Options{
			AuthVerifier:   verifier,
			DB:             db,
			Outbox:         dispatcher,
			Logger:         log,
			RequestTimeout: cfg.RequestTimeout,
		}),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	log.Info("starting server", map[string]any{"addr": srv.Addr})
	return run(ctx, srv, dispatcher, log, cfg.ShutdownTimeout)
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

type drainer interface {
	Close(ctx context.Context) error
}

// run sirve hasta que ctx se cancele o el listener falle. En los dos casos
// apaga HTTP primero (no entran más mensajes) y después drena el outbox.
func run(ctx context.Context, srv httpServer, outbox drainer, log logger.Logger, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if err != nil {
			serveErr = fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", map[string]any{"err": err})
	}
	if err := outbox.Close(shutdownCtx); err != nil {
		log.Error("outbox shutdown", map[string]any{"err": err})
	}
	return serveErr
}

// Sin ODIN_BASE_URL se queda en modo dev (X-Debug-User-ID).
func newVerifier(cfg config.Config) (auth.AuthVerifier, error) {
	if cfg.Odin.BaseURL == "" {
		return nil, nil
	}
	client, err := odin.NewClient(odin.Config{
		BaseURL: cfg.Odin.BaseURL,
		APIKey:  cfg.Odin.APIKey,
		Timeout: cfg.Odin.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return odin.NewVerifier(client), nil
}

func newGateway(cfg config.Config, log logger.Logger) (notify.Gateway, error) {
	if cfg.Mailer.BaseURL == "" {
		return logmail.New(log), nil
	}
	return mailer.New(mailer.Config{
		BaseURL: cfg.Mailer.BaseURL,
		APIKey:  cfg.Mailer.APIKey,
		From:    cfg.Mailer.From,
		HTTP:    httpclient.Options{Timeout: cfg.Mailer.Timeout},
	})
}
