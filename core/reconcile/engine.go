package reconcile

import (
	"context"
	"fmt"
	"time"

	"cardcommand/core/utils"

	"go.uber.org/zap"
)

// Reconciler answers release product queries from the TCG catalog when it can,
// and from the legacy release products endpoint otherwise.
type Reconciler struct {
	cfg     Config
	catalog CatalogSource
	legacy  LegacySource
	logger  *zap.Logger
	now     func() time.Time
}

// New creates a Reconciler. Out-of-range tuning values are replaced by their floors.
// catalog may be nil, in which case only the legacy source is used.
func New(cfg Config, catalog CatalogSource, legacy LegacySource, logger *zap.Logger) *Reconciler {
	if cfg.Domain == "" {
		cfg.Domain = defaultDomain
	}
	if cfg.MaxSets < 1 {
		cfg.MaxSets = 1
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.SetsPerPage < 1 {
		cfg.SetsPerPage = defaultSetsPerPage
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Reconciler{
		cfg:     cfg,
		catalog: catalog,
		legacy:  legacy,
		logger:  logger,
		now:     time.Now,
	}
}

// Config returns the effective configuration.
func (r *Reconciler) Config() Config {
	return r.cfg
}

// Fetch returns the release products for the query.
//
// A catalog failure or an empty catalog result is never returned to the caller:
// the legacy source is queried instead. Legacy failures are returned.
func (r *Reconciler) Fetch(ctx context.Context, query Query) (*Result, error) {
	if !r.cfg.Enabled || r.catalog == nil {
		return r.fetchLegacy(ctx, query)
	}

	if !r.SupportsCategories(query.Categories) {
		r.logger.Debug("Categories not served by catalog, using legacy source",
			zap.Strings("categories", query.Categories))
		return r.fetchLegacy(ctx, query)
	}

	result, err := r.fetchCatalog(ctx, query)
	if err != nil {
		r.logger.Warn("Catalog fetch failed, falling back to legacy release products", zap.Error(err))
		return r.fetchLegacy(ctx, query)
	}

	// An empty catalog usually means it has not been hydrated yet.
	if len(result.Products) == 0 {
		r.logger.Info("Catalog returned no products, falling back to legacy release products")
		return r.fetchLegacy(ctx, query)
	}

	return result, nil
}

// SupportsCategories reports whether the catalog can answer a category filter:
// either no filter, or exactly the catalog's own domain.
func (r *Reconciler) SupportsCategories(categories []string) bool {
	switch len(categories) {
	case 0:
		return true
	case 1:
		return categories[0] == r.cfg.Domain
	default:
		return false
	}
}

func (r *Reconciler) fetchLegacy(ctx context.Context, query Query) (*Result, error) {
	products, err := r.legacy.ListReleaseProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch legacy release products: %w", err)
	}
	if products == nil {
		products = []ReleaseProduct{}
	}

	return &Result{
		Products: products,
		Source:   SourceLegacy,
	}, nil
}

func (r *Reconciler) fetchCatalog(ctx context.Context, query Query) (*Result, error) {
	sets, setsAsOf, err := r.fetchSets(ctx, query.FromDate, query.ToDate)
	if err != nil {
		return nil, err
	}

	if len(sets) > r.cfg.MaxSets {
		sets = sets[:r.cfg.MaxSets]
	}

	perPage := utils.ClampInt(r.cfg.MaxCardsPerSet, minCardsPerPage, maxCardsPerPage)
	pages := make([]*CardPage, len(sets))

	err = forEachIndexed(ctx, len(sets), r.cfg.Concurrency, func(ctx context.Context, i int) error {
		page, err := r.catalog.ListSetCards(ctx, r.cfg.Domain, sets[i].ID, 1, perPage)
		if err != nil {
			return fmt.Errorf("failed to list cards for set %s: %w", sets[i].ID, err)
		}
		pages[i] = page
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := r.now()
	asOfValues := []string{setsAsOf}
	products := make([]ReleaseProduct, 0)
	for i, set := range sets {
		page := pages[i]
		if page == nil {
			continue
		}
		for _, card := range page.Cards {
			products = append(products, MapCard(r.cfg.Domain, set, card, now))
		}
		if page.Meta != nil && page.Meta.AsOf != nil {
			asOfValues = append(asOfValues, *page.Meta.AsOf)
		}
	}

	r.logger.Debug("Catalog pipeline completed",
		zap.Int("sets", len(sets)),
		zap.Int("products", len(products)))

	return &Result{
		Products: products,
		AsOf:     MergeAsOf(asOfValues...),
		Source:   SourceCatalog,
	}, nil
}

// fetchSets walks every sets page in order. The total page count is only known
// after the first response, so pages are requested one at a time.
func (r *Reconciler) fetchSets(ctx context.Context, fromDate, toDate string) ([]Set, string, error) {
	var (
		sets       []Set
		asOf       string
		page       = 1
		totalPages = 1
	)

	for page <= totalPages {
		resp, err := r.catalog.ListSets(ctx, r.cfg.Domain, page, r.cfg.SetsPerPage)
		if err != nil {
			return nil, "", fmt.Errorf("failed to list sets page %d: %w", page, err)
		}

		totalPages = 1
		if resp.Meta != nil {
			totalPages = resp.Meta.TotalPages
			if resp.Meta.AsOf != nil && *resp.Meta.AsOf != "" {
				asOf = *resp.Meta.AsOf
			}
		}

		sets = append(sets, resp.Sets...)
		page++
	}

	filtered := make([]Set, 0, len(sets))
	for _, set := range sets {
		if WithinDateWindow(set.ReleaseDate, fromDate, toDate) {
			filtered = append(filtered, set)
		}
	}

	return filtered, asOf, nil
}
