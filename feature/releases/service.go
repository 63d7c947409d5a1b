package releases

import (
	"context"
	"errors"
	"time"

	"cardcommand/core/cache"
	"cardcommand/core/history"
	"cardcommand/core/reconcile"
	"cardcommand/core/upstream"
	"cardcommand/core/utils"

	"go.uber.org/zap"
)

const productsNamespace = "releases:"

// ErrArchiveDisabled is returned by archive operations when no object store is configured.
var ErrArchiveDisabled = errors.New("release archive is not configured")

// Fetcher answers release product queries.
type Fetcher interface {
	Fetch(ctx context.Context, query reconcile.Query) (*reconcile.Result, error)
}

// Backend is the part of the CardCommand backend the service proxies to.
type Backend interface {
	ListReleaseChanges(ctx context.Context, limit int, since string) ([]upstream.ReleaseChange, error)
	TriggerReleaseSync(ctx context.Context) (*upstream.SyncResult, error)
}

// HistoryStore records reconciled products and lists detected changes.
type HistoryStore interface {
	Record(ctx context.Context, products []reconcile.ReleaseProduct, detectedAt time.Time) ([]history.ReleaseChange, error)
	Changes(ctx context.Context, limit int, since time.Time) ([]history.ReleaseChange, error)
}

// Service handles release product operations.
type Service struct {
	fetcher  Fetcher
	backend  Backend
	cache    *cache.Cache
	history  HistoryStore
	archiver *Archiver
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithHistory records every freshly reconciled result in store.
func WithHistory(store HistoryStore) Option {
	return func(s *Service) {
		s.history = store
	}
}

// WithArchiver enables the archive operations.
func WithArchiver(a *Archiver) Option {
	return func(s *Service) {
		s.archiver = a
	}
}

// NewService creates a new releases service. A nil cache disables caching.
func NewService(fetcher Fetcher, backend Backend, c *cache.Cache, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		fetcher: fetcher,
		backend: backend,
		cache:   c,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Products returns the reconciled release products for the query.
// Results are served from the cache while fresh; only fresh loads are recorded in history.
func (s *Service) Products(ctx context.Context, query reconcile.Query) (*reconcile.Result, error) {
	res, _, err := cache.GetOrLoad(ctx, s.cache, productsNamespace+query.Key(), func(ctx context.Context) (*reconcile.Result, error) {
		res, err := s.fetcher.Fetch(ctx, query)
		if err != nil {
			return nil, err
		}
		s.record(ctx, res)
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	if res.Products == nil {
		empty := *res
		empty.Products = []reconcile.ReleaseProduct{}
		return &empty, nil
	}
	return res, nil
}

func (s *Service) record(ctx context.Context, res *reconcile.Result) {
	if s.history == nil {
		return
	}
	changes, err := s.history.Record(ctx, res.Products, s.now())
	if err != nil {
		s.logger.Warn("Failed to record release history", zap.Error(err))
		return
	}
	if len(changes) > 0 {
		s.logger.Info("Detected release changes", zap.Int("changes", len(changes)), zap.String("source", res.Source))
	}
}

// Changes returns the most recent release changes, newest first.
// They come from the local history when configured and from the backend otherwise.
// An unparseable since is ignored.
func (s *Service) Changes(ctx context.Context, limit int, since string) ([]upstream.ReleaseChange, error) {
	if limit <= 0 {
		limit = history.DefaultChangesLimit
	}
	if limit > history.MaxChangesLimit {
		limit = history.MaxChangesLimit
	}

	sinceTime, ok := utils.ParseTime(since)
	if !ok {
		since = ""
	}

	if s.history == nil {
		changes, err := s.backend.ListReleaseChanges(ctx, limit, since)
		if err != nil {
			return nil, err
		}
		if changes == nil {
			changes = []upstream.ReleaseChange{}
		}
		return changes, nil
	}

	rows, err := s.history.Changes(ctx, limit, sinceTime)
	if err != nil {
		return nil, err
	}

	changes := make([]upstream.ReleaseChange, 0, len(rows))
	for _, row := range rows {
		changes = append(changes, upstream.ReleaseChange{
			ID:          row.ID,
			Field:       row.Field,
			OldValue:    row.OldValue,
			NewValue:    row.NewValue,
			DetectedAt:  row.DetectedAt.UTC().Format(time.RFC3339),
			SourceURL:   row.SourceURL,
			ProductName: row.ProductName,
			ProductID:   row.ProductID,
			SetName:     row.SetName,
			Category:    row.Category,
		})
	}
	return changes, nil
}

// Sync asks the backend to refresh its release data and drops cached results.
func (s *Service) Sync(ctx context.Context) (*upstream.SyncResult, error) {
	res, err := s.backend.TriggerReleaseSync(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Purge(ctx, productsNamespace); err != nil {
		s.logger.Warn("Failed to purge release cache", zap.Error(err))
	}
	return res, nil
}

// ArchiveReceipt describes a stored archive.
type ArchiveReceipt struct {
	Key    string `json:"key"`
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// Archive reconciles the query and stores the result in the object store.
func (s *Service) Archive(ctx context.Context, query reconcile.Query) (*ArchiveReceipt, error) {
	if s.archiver == nil {
		return nil, ErrArchiveDisabled
	}

	res, err := s.Products(ctx, query)
	if err != nil {
		return nil, err
	}

	key, err := s.archiver.Archive(ctx, res)
	if err != nil {
		return nil, err
	}

	return &ArchiveReceipt{Key: key, Source: res.Source, Count: len(res.Products)}, nil
}

// LatestArchive returns the most recently archived result.
func (s *Service) LatestArchive(ctx context.Context) (*ArchivedResult, string, error) {
	if s.archiver == nil {
		return nil, "", ErrArchiveDisabled
	}
	return s.archiver.Latest(ctx)
}
