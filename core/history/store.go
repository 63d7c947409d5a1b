package history

import (
	"context"
	"fmt"
	"time"

	"cardcommand/core/reconcile"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// DefaultChangesLimit applies when Changes is called without a positive limit.
	DefaultChangesLimit = 10
	// MaxChangesLimit caps the number of changes returned by one Changes call.
	MaxChangesLimit = 100

	insertBatchSize = 200
)

// Store persists release snapshots and the changes detected between them.
type Store struct {
	db    *gorm.DB
	newID func() string
}

// NewStore creates a store on an open connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:    db,
		newID: func() string { return uuid.New().String() },
	}
}

// Migrate creates or updates the history tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate release history: %w", err)
	}
	return nil
}

// Record diffs products against their stored snapshots, stores a change row per
// differing tracked field and upserts the snapshots. Products seen for the
// first time produce no change rows.
func (s *Store) Record(ctx context.Context, products []reconcile.ReleaseProduct, detectedAt time.Time) ([]ReleaseChange, error) {
	if len(products) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(products))
	seen := make(map[string]int, len(products))
	snapshots := make([]ReleaseSnapshot, 0, len(products))
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		snap := SnapshotOf(p)
		snap.UpdatedAt = detectedAt
		if i, ok := seen[p.ID]; ok {
			snapshots[i] = snap
			continue
		}
		seen[p.ID] = len(snapshots)
		ids = append(ids, p.ID)
		snapshots = append(snapshots, snap)
	}
	if len(snapshots) == 0 {
		return nil, nil
	}

	var existing []ReleaseSnapshot
	if err := s.db.WithContext(ctx).Where("product_id IN ?", ids).Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to load release snapshots: %w", err)
	}

	previous := make(map[string]ReleaseSnapshot, len(existing))
	for _, snap := range existing {
		previous[snap.ProductID] = snap
	}

	var changes []ReleaseChange
	for _, next := range snapshots {
		prev, ok := previous[next.ProductID]
		if !ok {
			continue
		}
		for _, fc := range CompareFields(prev, next) {
			changes = append(changes, ReleaseChange{
				ID:          s.newID(),
				ProductID:   next.ProductID,
				ProductName: next.Name,
				SetName:     next.SetName,
				Category:    next.Category,
				Field:       fc.Field,
				OldValue:    fc.OldValue,
				NewValue:    fc.NewValue,
				DetectedAt:  detectedAt,
				SourceURL:   next.SourceURL,
			})
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(changes) > 0 {
			if err := tx.CreateInBatches(changes, insertBatchSize).Error; err != nil {
				return err
			}
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(snapshots, insertBatchSize).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record release history: %w", err)
	}

	return changes, nil
}

// Changes returns recorded changes newest first.
// limit defaults to DefaultChangesLimit and is capped at MaxChangesLimit;
// a zero since returns changes of any age.
func (s *Store) Changes(ctx context.Context, limit int, since time.Time) ([]ReleaseChange, error) {
	if limit <= 0 {
		limit = DefaultChangesLimit
	}
	if limit > MaxChangesLimit {
		limit = MaxChangesLimit
	}

	q := s.db.WithContext(ctx).Order("detected_at DESC").Limit(limit)
	if !since.IsZero() {
		q = q.Where("detected_at >= ?", since)
	}

	changes := []ReleaseChange{}
	if err := q.Find(&changes).Error; err != nil {
		return nil, fmt.Errorf("failed to list release changes: %w", err)
	}
	return changes, nil
}
