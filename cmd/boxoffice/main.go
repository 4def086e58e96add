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

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/cx-tal-miterani/cinema-booking-system/internal/accounts"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/catalog"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/config"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/console"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/handlers"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/logging"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/repository"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/router"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/service"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/ticketid"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "boxoffice: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(nil, args)
	if err != nil {
		return err
	}

	logCloser, err := logging.Setup(cfg.Log, cfg.Data.Dir)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	loaded, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}

	cat := catalog.New(loaded.Movies)
	acc := accounts.NewStore(loaded.Users, repository.NewAccountsWriter(store, cat))
	ids := ticketid.FromUsers(loaded.Users)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	svc := service.NewBoxOffice(cat, acc, ids, hub)

	if cfg.Ops.Addr != "" {
		srv := &http.Server{
			Addr:         cfg.Ops.Addr,
			Handler:      router.SetupRouter(handlers.NewHandler(svc), hub),
			ReadTimeout:  cfg.Ops.ReadTimeout,
			WriteTimeout: cfg.Ops.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		}

		go func() {
			logrus.WithField("addr", cfg.Ops.Addr).Info("Ops API starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("Ops API failed: %v", err)
			}
		}()

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logrus.Errorf("Ops API forced to shutdown: %v", err)
			}
			logrus.Info("Ops API stopped")
		}()
	}

	ui := console.New(svc, os.Stdin, os.Stdout, cfg.Console.LoginAttempts, console.WithTerminal(int(os.Stdin.Fd())))

	// The console blocks on stdin, so it runs apart from signal handling.
	// Every mutation is already durable, so an interrupt can exit directly.
	done := make(chan error, 1)
	go func() {
		done <- ui.Run(ctx)
	}()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	case <-ctx.Done():
		fmt.Fprintln(os.Stdout)
		logrus.Info("Interrupted, shutting down")
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pg, err := repository.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		logrus.Info("Using PostgreSQL storage")
		return pg, pg.Close, nil
	default:
		fs := repository.NewFileStore(cfg.Data.Dir, cfg.Data.MoviesFile, cfg.Data.UsersFile)
		logrus.WithFields(logrus.Fields{
			"movies": fs.MoviesPath(),
			"users":  fs.UsersPath(),
		}).Info("Using file storage")
		return fs, func() {}, nil
	}
}
