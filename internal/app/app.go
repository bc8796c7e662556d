package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/JithuMorrison/Lingzee/internal/data/db"
	"github.com/JithuMorrison/Lingzee/internal/http"
	"github.com/JithuMorrison/Lingzee/internal/observability"
	"github.com/JithuMorrison/Lingzee/internal/platform/envutil"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
	"github.com/JithuMorrison/Lingzee/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
	SSEHub   *realtime.SSEHub

	database     *db.DatabaseService
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
	closeOnce    sync.Once
}

func New() (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	LoadDotEnv(log)
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	otelShutdown := observability.InitOTel(context.Background(), log, cfg.Otel)

	database, err := db.NewDatabaseService(log, db.Config{Driver: cfg.DBDriver, DSN: cfg.DSN})
	if err != nil {
		_ = otelShutdown(context.Background())
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.AutoMigrateAll(); err != nil {
		_ = database.Close()
		_ = otelShutdown(context.Background())
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := database.DB()

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = database.Close()
		_ = otelShutdown(context.Background())
		log.Sync()
		return nil, err
	}

	ssehub := realtime.NewSSEHub(log)
	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, reposet, clients, ssehub)
	if err != nil {
		clients.Close()
		_ = database.Close()
		_ = otelShutdown(context.Background())
		log.Sync()
		return nil, err
	}

	if err := serviceset.Auth.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Warn("Failed to seed admin account", "username", cfg.AdminUsername, "error", err)
	}

	handlerset := wireHandlers(log, theDB, serviceset, ssehub)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, clients, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		SSEHub:       ssehub,
		database:     database,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background work: the Redis forwarder that hands bus messages
// to the local hub.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Clients.SSEBus == nil {
		return nil
	}
	if err := a.Clients.SSEBus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
		return fmt.Errorf("start SSE bus forwarder: %w", err)
	}
	a.Log.Info("SSE bus forwarder started")
	return nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests for
// up to ShutdownTimeout.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("HTTP server listening", "addr", addr)
		errCh <- a.Server.Run(addr)
	}()

	select {
	case <-ctx.Done():
		a.Log.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		defer cancel()
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			a.Log.Warn("HTTP server shutdown incomplete", "error", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// Close releases clients, the database and the tracer. Safe to call more than
// once.
func (a *App) Close() {
	if a == nil {
		return
	}
	a.closeOnce.Do(a.close)
}

func (a *App) close() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			a.Log.Warn("Failed to close database", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("Failed to flush traces", "error", err)
		}
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
