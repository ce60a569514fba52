package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/cache"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/catalog"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/config"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/database"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/logging"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/planner"
	"github.com/vijay-prabhu/tripfinder-mcp/internal/recommend"
)

// app holds everything a command needs to talk to the planner
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *database.DB
	cache   cache.Cache
	planner *planner.Planner
}

// openApp loads configuration, opens the store, connects the cache and
// loads the catalog, seeding it when the store is empty and auto_seed is on.
func openApp(ctx context.Context) (*app, error) {
	cfg, fromFile, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if !fromFile {
		logger.Debug("no config file, using defaults", zap.String("path", configPath))
	}

	a := &app{cfg: cfg, logger: logger, cache: cache.Nop{}}

	if cfg.Database.Path != database.MemoryPath {
		if err := cfg.EnsureDirectories(); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.db, err = database.Open(cfg.Database.Path)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	tiers, err := cfg.Budget.Table()
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Cache.Enabled {
		c, err := cache.NewRedis(ctx, cache.Options{
			Address:  cfg.Cache.Address,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			TTL:      cfg.Cache.TTL(),
		})
		if err != nil {
			logger.Warn("cache unavailable, continuing without it",
				zap.String("address", cfg.Cache.Address), zap.Error(err))
		} else {
			a.cache = c
		}
	}

	a.planner = planner.New(planner.Options{
		Store: a.db,
		Engine: recommend.NewEngine(recommend.Options{
			Tiers:        tiers,
			DefaultLimit: cfg.Recommend.DefaultLimit,
			MaxLimit:     cfg.Recommend.MaxLimit,
		}),
		Cache:  a.cache,
		Logger: logger,
		History: planner.HistoryOptions{
			Enabled: cfg.History.Enabled,
			Keep:    cfg.History.Keep,
		},
	})

	var seed planner.SeedFunc
	if cfg.Catalog.AutoSeed {
		seed = seedSource(cfg.Catalog.SeedPath)
	}
	if err := a.planner.Start(ctx, seed); err != nil {
		a.Close()
		if seed == nil {
			return nil, fmt.Errorf("failed to load catalog (run 'tripfinder seed'): %w", err)
		}
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	return a, nil
}

// Close releases the cache and database and flushes the logger
func (a *app) Close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close cache", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// seedSource reads the seed file at path, or the bundled catalog when path
// is empty.
func seedSource(path string) planner.SeedFunc {
	return func() (*catalog.Seed, string, error) {
		if path == "" {
			s, err := catalog.DefaultSeed()
			return s, "embedded", err
		}
		s, err := catalog.LoadSeedFile(path)
		return s, path, err
	}
}
