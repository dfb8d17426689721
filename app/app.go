// Package app wires configuration, storage and the catalog services into one
// process. Both the HTTP server and the CLI commands start from here.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"giftshop.GO/api"
	"giftshop.GO/catalog"
	"giftshop.GO/config"
	"giftshop.GO/core/metrics"
	"giftshop.GO/cron"
	catalogRepo "giftshop.GO/model/repository/catalog"
	"giftshop.GO/service/archive"
	catalogService "giftshop.GO/service/catalog"
	"giftshop.GO/service/search"
)

// SessionIdle is how long a browse session may sit untouched before the
// sweep job drops it.
const SessionIdle = 30 * time.Minute

type App struct {
	Config   *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Repo     *catalogRepo.CatalogRepository
	Catalog  *catalogService.Service
	Sessions *catalogService.Sessions
	Search   *search.SearchService
	Archive  *archive.Store
	Metrics  *metrics.Metrics
}

// New connects to the database and the optional backends. Redis, the
// archive and Elasticsearch are skipped with a warning when unreachable.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{Config: cfg, Log: log, Metrics: metrics.New(true)}

	db, err := config.NewDB(cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db: ping: %w", err)
	}
	log.Info("database connection successful", zap.String("driver", cfg.DBDriver))
	a.DB = db

	repo, err := catalogRepo.NewCatalogRepository(db)
	if err != nil {
		return nil, err
	}
	a.Repo = repo

	table, err := catalogService.LoadKeywordTable(cfg.KeywordsFile)
	if err != nil {
		return nil, err
	}
	engine := catalog.NewEngine(
		catalog.WithKeywordTable(table),
		catalog.WithRecommendationLimit(cfg.RecommendationLimit),
	)

	opts := []catalogService.Option{
		catalogService.WithVendorCache(a.vendorCache(ctx)),
		catalogService.WithMetrics(a.Metrics),
		catalogService.WithLogger(log.Named("catalog")),
	}
	if cfg.Archive.Endpoint != "" {
		store, err := archive.NewStore(cfg.Archive)
		if err != nil {
			log.Warn("snapshot archive disabled", zap.Error(err))
		} else {
			if err := store.EnsureBucket(ctx); err != nil {
				log.Warn("snapshot archive bucket", zap.String("bucket", store.Bucket()), zap.Error(err))
			}
			a.Archive = store
			opts = append(opts, catalogService.WithArchive(store))
		}
	}
	a.Catalog = catalogService.NewService(repo, engine, opts...)

	a.Search = search.NewSearchService(cfg.ElasticsearchHost, cfg.IndexPrefix, log.Named("search"))
	a.Sessions = catalogService.NewSessions(engine, catalog.NewShuffler(time.Now().UnixNano()), cfg.LoadMoreDelay(),
		catalogService.WithSessionMetrics(a.Metrics),
		catalogService.WithSessionLogger(log.Named("sessions")),
	)
	return a, nil
}

func (a *App) vendorCache(ctx context.Context) catalogService.VendorCache {
	config.InitRedis(a.Config)
	if config.RedisClient == nil {
		return catalogService.NewMemoryVendorCache(a.Config.VendorCacheTTL)
	}
	if err := config.RedisClient.Ping(ctx).Err(); err != nil {
		a.Log.Warn("redis configured but not reachable, using in-memory vendor cache", zap.Error(err))
		config.RedisClient = nil
		return catalogService.NewMemoryVendorCache(a.Config.VendorCacheTTL)
	}
	a.Log.Info("redis connection successful, vendor names cached in redis")
	return catalogService.NewRedisVendorCache(config.RedisClient, a.Config.AppName, a.Config.VendorCacheTTL, a.Log.Named("vendors"))
}

// Migrate creates or updates the catalog tables through gorm.
func (a *App) Migrate() error {
	return a.Repo.AutoMigrate()
}

// Start loads the first snapshot.
func (a *App) Start(ctx context.Context) error {
	return a.Catalog.Start(ctx)
}

// Reindex pushes the loaded snapshot to Elasticsearch.
func (a *App) Reindex(ctx context.Context) (int, error) {
	if !a.Search.Enabled() {
		return 0, search.ErrNotConfigured
	}
	return a.Search.IndexProducts(ctx, a.Catalog.Engine().Snapshot().Products)
}

// Deps is what the HTTP modules are built from.
func (a *App) Deps() *api.Deps {
	return &api.Deps{
		Config:   a.Config,
		DB:       a.DB,
		Catalog:  a.Catalog,
		Sessions: a.Sessions,
		Search:   a.Search,
		Metrics:  a.Metrics,
		Logger:   a.Log,
	}
}

// CronJobs are the jobs this process schedules in addition to the ones
// registered by extensions.
func (a *App) CronJobs() map[string]cron.Job {
	return map[string]cron.Job{
		"catalogrefresh": {
			Schedule: a.Config.RefreshSchedule,
			Run: func(...string) {
				ctx := context.Background()
				if _, err := a.Catalog.Refresh(ctx); err != nil {
					return
				}
				if a.Search.Enabled() {
					n, err := a.Reindex(ctx)
					if err != nil {
						a.Log.Warn("search reindex failed", zap.Error(err))
						return
					}
					a.Log.Info("search reindexed", zap.Int("documents", n))
				}
			},
		},
		"sessionsweep": {
			Schedule: "@every 5m",
			Run: func(...string) {
				if n := a.Sessions.Sweep(SessionIdle); n > 0 {
					a.Log.Info("idle sessions closed", zap.Int("count", n))
				}
			},
		},
	}
}

// Close releases the database and Redis connections.
func (a *App) Close() error {
	if config.RedisClient != nil {
		_ = config.RedisClient.Close()
	}
	if a.DB == nil {
		return nil
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
