// Package releases exposes reconciled release products over HTTP.
//
// The Service sits between the handlers and the reconciler. It serves repeated
// queries from the result cache, records fresh results in the optional release
// history, proxies backend syncs and, when an object store is configured,
// archives results as JSON.
//
// # Endpoints
//
//   - GET  /releases/products: reconciled products with source and as-of metadata
//   - GET  /releases/changes: recent field changes, newest first
//   - POST /releases/sync: backend sync followed by a cache purge
//   - POST /releases/archive: archive the current result for a query
//   - GET  /releases/archive/latest: the most recent archive
//
// # Usage
//
//	svc := releases.NewService(reconciler, client, resultCache, logger,
//	    releases.WithHistory(history.NewStore(db)),
//	    releases.WithArchiver(releases.NewArchiver(store, cfg.Storage.Bucket)),
//	)
//	mgr.Register(releases.NewFeature(svc, cfg.Server.RequestTimeout()))
package releases
