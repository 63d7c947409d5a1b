package cmd

import (
	"cardcommand/core/cache"
	"cardcommand/core/config"
	"cardcommand/core/database"
	"cardcommand/core/history"
	"cardcommand/core/reconcile"
	"cardcommand/core/storage"
	"cardcommand/core/upstream"
	"cardcommand/feature/releases"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// application holds the wired dependencies shared by the commands.
type application struct {
	cfg        *config.Config
	logger     *zap.Logger
	client     *upstream.Client
	reconciler *reconcile.Reconciler
	cache      *cache.Cache
	db         *gorm.DB
	service    *releases.Service
}

// newApplication wires the release service. The history database and the archive
// store are optional: a failure to reach either is logged and the feature disabled.
func newApplication(cfg *config.Config, l *zap.Logger) (*application, error) {
	client := upstream.NewClient(cfg.Upstream)
	reconciler := reconcile.New(cfg.Catalog, client, client, l.Named("reconcile"))

	resultCache, err := cache.Open(cfg.Cache, l.Named("cache"))
	if err != nil {
		return nil, err
	}

	app := &application{
		cfg:        cfg,
		logger:     l,
		client:     client,
		reconciler: reconciler,
		cache:      resultCache,
	}

	var opts []releases.Option

	if cfg.Database.Enabled {
		if db, err := database.Connect(cfg.Database); err != nil {
			l.Warn("Release history disabled: database unavailable", zap.Error(err))
		} else {
			app.db = db
			opts = append(opts, releases.WithHistory(history.NewStore(db)))
			l.Info("Release history enabled")
		}
	}

	if cfg.Storage.Enabled {
		if store, err := storage.NewClient(cfg.Storage); err != nil {
			l.Warn("Release archive disabled: storage client failed", zap.Error(err))
		} else {
			opts = append(opts, releases.WithArchiver(releases.NewArchiver(store, cfg.Storage.Bucket)))
			l.Info("Release archive enabled", zap.String("bucket", cfg.Storage.Bucket))
		}
	}

	app.service = releases.NewService(reconciler, client, resultCache, l.Named("releases"), opts...)

	l.Info("Release reconciler configured",
		zap.Bool("catalog_enabled", reconciler.Config().Enabled),
		zap.String("domain", reconciler.Config().Domain),
		zap.Int("max_sets", reconciler.Config().MaxSets),
		zap.Int("max_cards_per_set", reconciler.Config().MaxCardsPerSet),
		zap.Int("set_fetch_concurrency", reconciler.Config().Concurrency),
	)

	return app, nil
}

// Close releases cache and database connections.
func (a *application) Close() {
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("Failed to close cache", zap.Error(err))
	}
	if a.db == nil {
		return
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
