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

	"github.com/urfave/cli/v2"

	"github.com/lehmann314159/wordbank/internal/api"
	"github.com/lehmann314159/wordbank/internal/database"
	"github.com/lehmann314159/wordbank/internal/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Serve the dictionary HTTP API",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Usage:   "listen on `ADDR` instead of the configured address",
			EnvVars: []string{"WORDBANK_ADDR"},
		},
	},
	Action: runServe,
}

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Create or upgrade the dictionary database schema",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c, true)
		if err != nil {
			return err
		}

		db, err := database.OpenAndMigrate(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		fmt.Fprintf(c.App.Writer, "%s is up to date\n", cfg.Database.Path)
		return nil
	},
}

func runServe(c *cli.Context) error {
	svc, cfg, closeDB, err := openService(c, false)
	if err != nil {
		return err
	}
	defer closeDB()

	addr := cfg.Server.Addr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}

	handler := api.NewHandler(svc)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(handler, cfg.Server.CORSOrigin),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "db", cfg.Database.Path)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
