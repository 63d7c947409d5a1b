// Package reconcile merges the two upstream sources of release products into
// one list for the dashboard.
//
// # Sources
//
//   - Legacy source: the original /releases/products endpoint. The server does all
//     filtering and returns ReleaseProduct records directly.
//   - Catalog source: the TCG data layer, exposing sets and per-set cards with price
//     quotes for a single collectible domain.
//
// # Dispatch
//
// When the catalog is disabled, or the query asks for any category other than the
// catalog's own domain, only the legacy source is consulted. Otherwise the catalog
// pipeline runs:
//
//  1. List every sets page sequentially and drop sets outside the date window.
//  2. Keep at most MaxSets sets.
//  3. Fetch the first cards page of each set with a bounded pull-based worker pool.
//  4. Flatten set x card into ReleaseProduct records with MapCard, preserving set order.
//  5. Report the latest as-of timestamp seen across all pages.
//
// If the pipeline fails or yields no products the legacy source answers instead, so
// the dashboard never shows an empty release list while another source may have data.
//
// # Usage Example
//
//	r := reconcile.New(cfg.Catalog, client, client, logger)
//	result, err := r.Fetch(ctx, reconcile.Query{FromDate: "2024-01-01"})
package reconcile
