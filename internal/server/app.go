// Package server wires the marketplace backend together: database and
// migrations, image storage, services and the HTTP server.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/baibai/internal/logging"
	"github.com/dmitrijs2005/baibai/internal/server/auth"
	"github.com/dmitrijs2005/baibai/internal/server/config"
	"github.com/dmitrijs2005/baibai/internal/server/images"
	"github.com/dmitrijs2005/baibai/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/baibai/internal/server/rest"
	"github.com/dmitrijs2005/baibai/internal/server/services"
)

var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *rest.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	db, err := openDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	app, err := build(ctx, cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func build(ctx context.Context, cfg *config.Config, logger logging.Logger, db *sql.DB) (*App, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := images.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("image store error: %w", err)
	}

	hasher := auth.NewBcryptHasher(cfg.PasswordHashCost)
	tokens := auth.NewTokenService(cfg)

	as := services.NewAuthService(db, rm, hasher, tokens)
	us := services.NewUserService(db, rm, hasher)
	ps := services.NewProductService(db, rm, store, cfg.MaxImageSize, logger)

	srv, err := rest.NewServer(cfg, as, us, ps, logger)
	if err != nil {
		return nil, err
	}

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives,
// then closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.HTTPAddr, "images", app.config.ImageStorage)
	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close error", "error", cerr)
	}
	app.logger.Info(ctx, "App stopped")

	return err
}
