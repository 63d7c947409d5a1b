// Package storage provides the object store used for release archives.
//
// It wraps the MinIO Go client behind a small Client interface so archive code can be
// tested with the mock in core/storage/mocks. Both AWS S3 and self-hosted MinIO are
// supported.
//
// # Operations
//
//   - BucketExists and MakeBucket: ensure the archive bucket is present.
//   - PutObject: uploads an archive.
//   - GetObject: streams an archive back.
//   - ListObjects: lists archives under a prefix.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
