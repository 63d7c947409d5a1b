package releases

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cardcommand/core/reconcile"
	"cardcommand/core/storage"

	"github.com/minio/minio-go/v7"
)

const archivePrefix = "releases/"

// ErrNoArchive is returned by Latest when nothing has been archived yet.
var ErrNoArchive = errors.New("no release archive found")

// ArchivedResult is the stored form of a reconciliation result.
type ArchivedResult struct {
	ArchivedAt time.Time                  `json:"archivedAt"`
	Source     string                     `json:"source"`
	AsOf       *time.Time                 `json:"asOf,omitempty"`
	Count      int                        `json:"count"`
	Products   []reconcile.ReleaseProduct `json:"products"`
}

// Archiver writes reconciliation results to the object store.
type Archiver struct {
	client storage.Client
	bucket string
	now    func() time.Time
}

// NewArchiver creates an archiver writing to bucket.
func NewArchiver(client storage.Client, bucket string) *Archiver {
	return &Archiver{
		client: client,
		bucket: bucket,
		now:    time.Now,
	}
}

// ArchiveKey returns the object key for a result archived at t.
// Keys sort lexically in archive order.
func ArchiveKey(t time.Time, source string) string {
	t = t.UTC()
	return fmt.Sprintf("%s%04d/%02d/%02d/%019d-%s.json", archivePrefix, t.Year(), t.Month(), t.Day(), t.UnixNano(), source)
}

// Archive stores result and returns its object key. The bucket is created when missing.
func (a *Archiver) Archive(ctx context.Context, result *reconcile.Result) (string, error) {
	if err := a.ensureBucket(ctx); err != nil {
		return "", err
	}

	now := a.now()
	doc := ArchivedResult{
		ArchivedAt: now.UTC(),
		Source:     result.Source,
		AsOf:       result.AsOf,
		Count:      len(result.Products),
		Products:   result.Products,
	}
	if doc.Products == nil {
		doc.Products = []reconcile.ReleaseProduct{}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode archive: %w", err)
	}

	key := ArchiveKey(now, result.Source)
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload archive %s: %w", key, err)
	}

	return key, nil
}

// Latest returns the most recently archived result and its key.
func (a *Archiver) Latest(ctx context.Context) (*ArchivedResult, string, error) {
	var latest string
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: archivePrefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, "", fmt.Errorf("failed to list archives: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, ".json") && obj.Key > latest {
			latest = obj.Key
		}
	}
	if latest == "" {
		return nil, "", ErrNoArchive
	}

	reader, err := a.client.GetObject(ctx, a.bucket, latest, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to read archive %s: %w", latest, err)
	}
	defer reader.Close()

	var doc ArchivedResult
	if err := json.NewDecoder(reader).Decode(&doc); err != nil {
		return nil, "", fmt.Errorf("failed to decode archive %s: %w", latest, err)
	}

	return &doc, latest, nil
}

func (a *Archiver) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	return nil
}
