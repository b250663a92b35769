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

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"issue_tracker/internal/app"
	"issue_tracker/internal/config"
	"issue_tracker/internal/db"
	apihttp "issue_tracker/internal/http"
	"issue_tracker/internal/logger"
	"issue_tracker/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run() error {
	var (
		envFile string
		migrate bool
		addr    string
	)
	flagSet := pflag.NewFlagSet("server", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "path to .env file (missing file is ignored)")
	flagSet.BoolVar(&migrate, "migrate", false, "apply embedded schema before start")
	flagSet.StringVar(&addr, "addr", "", "listen address, overrides HTTP_PORT")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logg.Error().Err(err).Msg("failed to close database")
		}
	}()

	if migrate || cfg.DB.AutoMigrate {
		if err := db.Migrate(ctx, conn, cfg.DB.Driver); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logg.Info().Str("driver", cfg.DB.Driver).Msg("schema applied")
	}

	repos := app.NewRepositories(conn)
	svcs := service.NewServices(repos, logg)

	handler := apihttp.NewRouter(cfg, logg, svcs)
	application := app.NewApp(handler, svcs)

	if addr == "" {
		addr = ":" + cfg.HTTP.Port
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      application.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logg.Info().Str("addr", addr).Str("env", cfg.AppEnv).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// ---- graceful shutdown ----
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	logg.Info().Msg("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logg.Error().Err(err).Msg("server close failed")
		}
	}

	logg.Info().Msg("server stopped")
	return nil
}
