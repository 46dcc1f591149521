// Package main provides the companion server binary: the HTTP and
// websocket API over the dice roller, character sheets, and live
// sessions.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/pedrohwah/shadowsofavernus/internal/api"
	"github.com/pedrohwah/shadowsofavernus/internal/config"
	"github.com/pedrohwah/shadowsofavernus/internal/game/dice"
	"github.com/pedrohwah/shadowsofavernus/internal/game/ruleset"
	"github.com/pedrohwah/shadowsofavernus/internal/game/session"
	"github.com/pedrohwah/shadowsofavernus/internal/observability"
	"github.com/pedrohwah/shadowsofavernus/internal/server"
	"github.com/pedrohwah/shadowsofavernus/internal/storage/postgres"
	"github.com/pedrohwah/shadowsofavernus/internal/storage/sqlite"
)

// sessionStore is the API's session store plus the List that startup
// rehydration needs.
type sessionStore interface {
	api.SessionStore
	List(ctx context.Context) ([]*session.Session, error)
}

// storageSet bundles the driver-specific repositories behind the
// interfaces the rest of the server consumes.
type storageSet struct {
	characters api.CharacterStore
	sessions   sessionStore
	rolls      api.RollStore
	health     api.HealthChecker
	close      func()
}

// openStorage connects the configured driver.
func openStorage(ctx context.Context, cfg config.StorageConfig) (*storageSet, error) {
	switch cfg.Driver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		return &storageSet{
			characters: postgres.NewCharacterRepository(pool.DB()),
			sessions:   postgres.NewSessionRepository(pool.DB()),
			rolls:      postgres.NewRollRepository(pool.DB()),
			health:     pool,
			close:      pool.Close,
		}, nil
	case "sqlite":
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return &storageSet{
			characters: sqlite.NewCharacterRepository(store.DB()),
			sessions:   sqlite.NewSessionRepository(store.DB()),
			rolls:      sqlite.NewRollRepository(store.DB()),
			health:     store,
			close:      func() { _ = store.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

// rehydrateSessions adopts every persisted session into the live manager
// and seeds each roll log with its durable history.
func rehydrateSessions(
	ctx context.Context,
	mgr *session.Manager,
	sessions sessionStore,
	rolls api.RollStore,
	historyLimit int,
	logger *zap.Logger,
) error {
	stored, err := sessions.List(ctx)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}
	for _, s := range stored {
		mgr.Adopt(s)
		recs, err := rolls.ListRecent(ctx, s.ID, historyLimit)
		if err != nil {
			return fmt.Errorf("loading roll history for %s: %w", s.ID, err)
		}
		if err := mgr.SeedRolls(s.ID, recs); err != nil {
			return fmt.Errorf("seeding roll history for %s: %w", s.ID, err)
		}
	}
	logger.Info("sessions rehydrated", zap.Int("count", len(stored)))
	return nil
}

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting companion server",
		zap.String("http_addr", cfg.HTTP.Addr()),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	// Load ruleset content
	contentStart := time.Now()
	registry, err := ruleset.Load(cfg.Content.ClassesDir, cfg.Content.ArmorDir)
	if err != nil {
		logger.Fatal("loading ruleset content", zap.Error(err))
	}
	logger.Info("ruleset loaded",
		zap.Int("classes", len(registry.Classes())),
		zap.Int("armor", len(registry.ArmorList())),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	// Open storage
	dbStart := time.Now()
	store, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("opening storage", zap.Error(err))
	}
	logger.Info("storage ready",
		zap.String("driver", cfg.Storage.Driver),
		zap.Duration("elapsed", time.Since(dbStart)),
	)

	// Rebuild the live session state from storage
	manager := session.NewManager(cfg.Session.HistoryLimit)
	feed := session.NewFeed(cfg.Session.FeedBuffer)
	if err := rehydrateSessions(ctx, manager, store.sessions, store.rolls, cfg.Session.HistoryLimit, logger); err != nil {
		logger.Fatal("rehydrating sessions", zap.Error(err))
	}

	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)

	handler := api.NewHandler(
		cfg.HTTP,
		roller,
		registry,
		manager,
		feed,
		store.characters,
		store.sessions,
		store.rolls,
		store.health,
		cfg.Session.HistoryLimit,
		logger,
	)
	httpSrv := api.NewServer(cfg.HTTP, handler.Router(), logger)

	// Wire lifecycle. Storage goes first so shutdown drains HTTP before
	// the repositories disappear underneath it.
	lifecycle := server.NewLifecycle(logger, cfg.HTTP.ShutdownTimeout)

	lifecycle.Add("storage", &server.FuncService{
		StartFn: func() error {
			for {
				time.Sleep(30 * time.Second)
				if err := store.health.Health(ctx, 5*time.Second); err != nil {
					logger.Warn("storage health check failed", zap.Error(err))
				}
			}
		},
		StopFn: store.close,
	})

	lifecycle.Add("http", &server.FuncService{
		StartFn: httpSrv.ListenAndServe,
		StopFn:  httpSrv.Stop,
	})

	logger.Info("companion server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("http_addr", cfg.HTTP.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
