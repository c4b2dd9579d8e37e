// Package server assembles and runs the LangRhythms API server: storage,
// email validation, content source and the HTTP front end, with graceful
// shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ZinoChan/LangRhythms/internal/logging"
	"github.com/ZinoChan/LangRhythms/internal/server/auth"
	"github.com/ZinoChan/LangRhythms/internal/server/config"
	"github.com/ZinoChan/LangRhythms/internal/server/content"
	"github.com/ZinoChan/LangRhythms/internal/server/emailvalidation"
	"github.com/ZinoChan/LangRhythms/internal/server/httpx"
	"github.com/ZinoChan/LangRhythms/internal/server/repositories/repomanager"
	"github.com/ZinoChan/LangRhythms/internal/server/services"
)

const dbPingTimeout = 5 * time.Second

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	server      *httpx.Server
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	if err := app.initStorage(ctx); err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	validator, err := app.newValidator()
	if err != nil {
		app.closeDB()
		return nil, fmt.Errorf("email validation init error: %w", err)
	}

	store, err := app.newContentStore(ctx)
	if err != nil {
		app.closeDB()
		return nil, fmt.Errorf("content init error: %w", err)
	}

	tokens := auth.NewTokenManager([]byte(c.SecretKey), c.AccessTokenValidityDuration, c.RefreshWindow)
	us := services.NewUserService(app.repomanager, validator, auth.NewBcryptHasher(), tokens, logger.With("module", "user_service"))

	router := httpx.NewRouter(httpx.RouterServices{
		Users:          us,
		Content:        store,
		Tokens:         tokens,
		Cookies:        httpx.CookieConfig{Secure: c.CookieSecure, MaxAge: c.AccessTokenValidityDuration},
		AllowedOrigins: c.AllowedOrigins,
		Logger:         logger,
	})
	app.server = httpx.NewServer(c.EndpointAddrHTTP, router, logger)

	return app, nil
}

func (app *App) initStorage(ctx context.Context) error {
	if app.config.DatabaseDSN == "" {
		app.logger.Warn(ctx, "no database configured, using in-memory store")
		app.repomanager = repomanager.NewMemoryRepositoryManager()
		return nil
	}

	db, err := sqlOpen("pgx", app.config.DatabaseDSN)
	if err != nil {
		return err
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return err
	}

	m, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		_ = db.Close()
		return err
	}

	app.db = db
	app.repomanager = m
	return nil
}

func (app *App) newValidator() (emailvalidation.Validator, error) {
	if app.config.EmailValidationDisabled {
		app.logger.Warn(context.Background(), "email validation disabled, every address is accepted")
		return emailvalidation.Static{Verdict: emailvalidation.Valid}, nil
	}
	return emailvalidation.NewClient(emailvalidation.Config{
		BaseURL: app.config.EmailValidationURL,
		APIKey:  app.config.EmailValidationAPIKey,
		Timeout: app.config.EmailValidationTimeout,
	})
}

func (app *App) newContentStore(ctx context.Context) (content.Store, error) {
	if app.config.ContentSource != config.ContentSourceS3 {
		return content.NewEmbeddedStore(), nil
	}
	return content.NewS3Store(ctx, content.S3Config{
		AccessKey:    app.config.S3RootUser,
		SecretKey:    app.config.S3RootPassword,
		Region:       app.config.S3Region,
		BaseEndpoint: app.config.S3BaseEndpoint,
		Bucket:       app.config.S3Bucket,
		Prefix:       app.config.S3Prefix,
	})
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run applies migrations and serves HTTP until ctx is canceled or a signal
// arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.closeDB()

	app.logger.Info(ctx, "Starting app...")

	if err := app.repomanager.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
			cancelFunc()
		}
	}()

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return runErr
}

func (app *App) closeDB() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "closing database", "error", err)
	}
	app.db = nil
}
