// Package server wires the audiovote application together: storage, sessions,
// services, the vote event stream and the HTTP API. It handles graceful
// shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/audiovote/internal/logging"
	"github.com/dmitrijs2005/audiovote/internal/server/config"
	"github.com/dmitrijs2005/audiovote/internal/server/events"
	"github.com/dmitrijs2005/audiovote/internal/server/httpapi"
	"github.com/dmitrijs2005/audiovote/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/audiovote/internal/server/seed"
	"github.com/dmitrijs2005/audiovote/internal/server/services"
	"github.com/dmitrijs2005/audiovote/internal/server/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// logOutput is where the application logger writes.
var logOutput io.Writer = os.Stdout

// App is the explicit application context built once at startup.
type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	redis     *redis.Client
	publisher events.Publisher
	sessions  *sessions.Manager
	server    *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(logOutput, c.LogLevel)
	app := &App{config: c, logger: logger}

	db, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db

	if err := app.init(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (app *App) init(ctx context.Context) error {
	c := app.config

	rm, err := repomanager.NewRepositoryManager(c.DatabaseDriver)
	if err != nil {
		return err
	}
	if err := rm.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	var store sessions.Store
	switch c.SessionStore {
	case config.SessionStoreRedis:
		client, err := sessions.NewRedisClient(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB)
		if err != nil {
			return err
		}
		app.redis = client
		store = sessions.NewRedisStore(client)
	default:
		store = sessions.NewSQLStore(app.db, rm)
	}
	app.sessions = sessions.NewManager(store, []byte(c.SecretKey), c.SessionTTL, app.logger)

	if len(c.KafkaBrokers) > 0 {
		app.publisher = events.NewKafkaPublisher(c.KafkaBrokers, c.KafkaTopic)
		app.logger.Info(ctx, "Publishing vote events", "brokers", c.KafkaBrokers, "topic", c.KafkaTopic)
	} else {
		app.publisher = events.NopPublisher{}
	}

	covers, err := services.NewCoverResolver(ctx, c, app.logger)
	if err != nil {
		return fmt.Errorf("object storage: %w", err)
	}

	us := services.NewUserService(app.db, rm)
	cs := services.NewCatalogService(app.db, rm, covers)
	vs := services.NewVoteService(app.db, rm, app.publisher, app.logger)

	if c.SeedDemoData {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		if err := seed.NewSeeder(app.db, rm, us, vs, rnd, app.logger).Run(ctx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	if c.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	app.server = httpapi.NewServer(c.HTTPAddr, app.logger, us, cs, vs, app.sessions, app.db, httpapi.Options{
		SecureCookie:    c.SecureCookie,
		ShutdownTimeout: c.ShutdownTimeout,
	})
	return nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
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

// Run serves HTTP and purges expired sessions until ctx is cancelled or a
// termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	if app.config.SessionCleanupInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.sessions.RunCleanup(ctx, app.config.SessionCleanupInterval)
		}()
	}

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
	}
	cancelFunc()
	wg.Wait()

	app.logger.Info(ctx, "App stopped")
	return err
}

// Close releases the database, Redis and event stream connections.
func (app *App) Close() error {
	var errs []error
	if app.publisher != nil {
		errs = append(errs, app.publisher.Close())
	}
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	if app.db != nil {
		errs = append(errs, app.db.Close())
	}
	return errors.Join(errs...)
}
