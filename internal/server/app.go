// Package server wires configuration, storage, services and the HTTP API
// together and runs them until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/linkshare/internal/logging"
	"github.com/dmitrijs2005/linkshare/internal/server/auth"
	"github.com/dmitrijs2005/linkshare/internal/server/config"
	"github.com/dmitrijs2005/linkshare/internal/server/migrations"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/linkshare/internal/server/rest"
	"github.com/dmitrijs2005/linkshare/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	tokens         *auth.TokenService
	userService    *services.UserService
	articleService *services.ArticleService
}

// NewApp validates c, opens and migrates the database and seeds the admin
// account when an admin password is configured. Logs go to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.New(c.Environment, w)
	migrations.SetLogger(logger)

	db, err := sql.Open(c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if c.DatabaseDriver == config.DriverSQLite {
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY
		// and keeps in-memory databases alive.
		db.SetMaxOpenConns(1)
	}

	app, err := newApp(ctx, c, logger, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB) (*App, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if c.DatabaseDriver == config.DriverSQLite {
		if err := enableForeignKeys(ctx, db); err != nil {
			return nil, err
		}
	}

	rm, err := repomanager.New(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	tokens, err := auth.NewTokenService([]byte(c.SecretKey), c.TokenValidityDuration, nil)
	if err != nil {
		return nil, err
	}

	us, err := services.NewUserService(db, rm, auth.NewBcryptHasher(auth.PasswordCost), tokens)
	if err != nil {
		return nil, err
	}
	as := services.NewArticleService(db, rm)

	if c.AdminPassword != "" {
		created, err := us.EnsureAdmin(ctx, c.AdminPassword)
		if err != nil {
			return nil, err
		}
		if created {
			logger.Info(ctx, "Admin user created", "username", "admin")
		}
	}

	if c.SecretKey == config.DefaultSecretKey {
		logger.Warn(ctx, "Using the development token secret; set JWT_SECRET before deploying")
	}

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		tokens:         tokens,
		userService:    us,
		articleService: as,
	}, nil
}

// enableForeignKeys turns on SQLite foreign key enforcement whatever the DSN
// says. The pragma is per connection; NewApp limits the pool to one.
func enableForeignKeys(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("db pragma error: %w", err)
	}
	var on int
	if err := db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&on); err != nil {
		return fmt.Errorf("db pragma error: %w", err)
	}
	if on != 1 {
		return fmt.Errorf("db pragma error: foreign keys could not be enabled")
	}
	return nil
}

func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := rest.NewHTTPServer(app.config, app.logger, app.userService, app.articleService, app.tokens)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := app.initSignalHandler(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment, "driver", app.config.DatabaseDriver)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "closing database", "error", err.Error())
	}
	app.logger.Info(context.Background(), "App stopped")

	return runErr
}
