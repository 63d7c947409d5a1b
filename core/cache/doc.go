// Package cache provides the short-lived query result cache for release lookups.
//
// Results are stored as JSON in a Backend (in-process memory or Redis) for a fixed
// TTL. A singleflight group collapses concurrent misses for the same key into a
// single upstream load, so a burst of dashboard refreshes costs one reconciliation.
//
// # Usage
//
//	c, err := cache.Open(cfg.Cache, logger)
//	res, fresh, err := cache.GetOrLoad(ctx, c, "releases:"+q.Key(), func(ctx context.Context) (*reconcile.Result, error) {
//	    return reconciler.Fetch(ctx, q)
//	})
package cache
