package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/orderdesk-backend/internal/data/db"
	"github.com/yungbote/orderdesk-backend/internal/events"
	apphttp "github.com/yungbote/orderdesk-backend/internal/http"
	"github.com/yungbote/orderdesk-backend/internal/observability"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

const metricsScrapeInterval = 15 * time.Second

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Metrics  *observability.Metrics
	Repos    Repos
	Services Services
	Clients  Clients
	Server   *apphttp.Server
	Relay    *events.Relay

	dbService    *db.Service
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	if err := ApplyConfigFile(nil); err != nil {
		return nil, fmt.Errorf("load config file: %w", err)
	}
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.Init(log, cfg.MetricsEnabled, metricsScrapeInterval)

	dbService, err := db.NewService(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := dbService.DB()
	if err := db.AutoMigrateAll(theDB); err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, metrics, reposet)
	handlerset := wireHandlers(theDB, log, serviceset)
	server := wireServer(log, cfg, metrics, handlerset)
	relay := events.NewRelay(theDB, log, reposet.Outbox, clients.Publisher, metrics, cfg.Relay)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Metrics:      metrics,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		Server:       server,
		Relay:        relay,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP and relays the outbox until ctx is cancelled or either fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	a.Metrics.StartPostgresCollector(gctx, a.Log, a.DB)
	a.Metrics.StartOutboxCollector(gctx, a.Log, a.DB)
	a.Metrics.StartRedisCollector(gctx, a.Log, a.Clients.Redis)

	addr := ":" + a.Cfg.Port
	g.Go(func() error {
		a.Log.Info("Server listening", "addr", addr)
		return a.Server.Run(gctx, addr)
	})
	g.Go(func() error {
		return a.Relay.Run(gctx)
	})
	return g.Wait()
}

// RunWith runs the outbox relay next to fn, for front ends other than HTTP.
// The relay stops when fn returns.
func (a *App) RunWith(ctx context.Context, fn func(ctx context.Context) error) error {
	if a == nil || a.Relay == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	a.Metrics.StartOutboxCollector(gctx, a.Log, a.DB)
	g.Go(func() error {
		return a.Relay.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		return fn(gctx)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Clients.Publisher != nil {
		if err := a.Clients.Publisher.Close(); err != nil && a.Log != nil {
			a.Log.Warn("Publisher close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("Tracer shutdown failed", "error", err)
		}
		cancel()
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil && a.Log != nil {
			a.Log.Warn("Database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
