// Package history keeps a change feed of reconciled release products.
//
// Every freshly reconciled result can be passed to Store.Record, which compares each
// product against its last stored snapshot and writes one ReleaseChange row per
// differing tracked field (name, status, release date, estimated resale, MSRP and
// confidence). Snapshots are then upserted so the next run diffs against this one.
//
// # Schema
//
// Store.Migrate creates the tables with gorm's AutoMigrate. CheckSchema compares the
// live MySQL columns against the gorm tags of the models, which is what
// `cardcommand releases migrate --check` reports.
//
// # Usage
//
//	store := history.NewStore(db)
//	changes, err := store.Record(ctx, result.Products, time.Now())
//	recent, err := store.Changes(ctx, 10, time.Time{})
package history
