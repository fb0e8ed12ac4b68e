package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/tempo/internal/api"
	"github.com/alexanderramin/tempo/internal/cli"
	"github.com/alexanderramin/tempo/internal/config"
	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/service"
	"github.com/alexanderramin/tempo/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Config file: TEMPO_CONFIG, else ./tempo.yaml or ~/.tempo/tempo.yaml
	cfg, err := config.Load(os.Getenv("TEMPO_CONFIG"))
	if err != nil {
		return err
	}

	logger, logCloser := cfg.Log.NewLogger(os.Stderr)
	defer logCloser.Close()
	gin.SetMode(cfg.HTTP.Mode)

	// Open snapshot database
	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	repo := repository.NewSQLiteSnapshotRepo(database, db.NewSQLiteUnitOfWork(database))
	feed := api.NewFeed(logger)
	defer feed.Close()

	services := service.NewServices(store.New(), repo,
		service.WithObserver(service.NewSlogUseCaseObserver(logger)),
		service.WithChangeSink(feed),
	)

	app := &cli.App{
		Services: services,
		Feed:     feed,
		Logger:   logger,
		Config:   cfg,
	}

	// Styled output only when stdout is a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
