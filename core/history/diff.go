package history

import (
	"cardcommand/core/reconcile"
	"cardcommand/core/utils"
)

// FieldChange is a single differing tracked field.
type FieldChange struct {
	Field    string
	OldValue *string
	NewValue *string
}

// SnapshotOf captures the tracked state of a product.
func SnapshotOf(p reconcile.ReleaseProduct) ReleaseSnapshot {
	return ReleaseSnapshot{
		ProductID:       p.ID,
		Name:            p.Name,
		SetName:         p.SetName,
		Category:        p.Category,
		Status:          p.Status,
		ReleaseDate:     p.ReleaseDate,
		EstimatedResale: p.EstimatedResale,
		MSRP:            p.MSRP,
		Confidence:      p.Confidence,
		SourceURL:       p.SourceURL,
	}
}

// CompareFields returns the tracked fields that differ between two snapshots.
// Values are rendered as strings; an absent value is nil.
func CompareFields(prev, next ReleaseSnapshot) []FieldChange {
	var changes []FieldChange

	compare := func(field string, old, cur any) {
		o, n := render(old), render(cur)
		if !sameValue(o, n) {
			changes = append(changes, FieldChange{Field: field, OldValue: o, NewValue: n})
		}
	}

	compare("name", prev.Name, next.Name)
	compare("status", prev.Status, next.Status)
	compare("releaseDate", prev.ReleaseDate, next.ReleaseDate)
	compare("estimatedResale", prev.EstimatedResale, next.EstimatedResale)
	compare("msrp", prev.MSRP, next.MSRP)
	compare("confidence", prev.Confidence, next.Confidence)

	return changes
}

func render(v any) *string {
	switch val := v.(type) {
	case *string:
		if val == nil {
			return nil
		}
	case *float64:
		if val == nil {
			return nil
		}
	}
	s := utils.ToString(v)
	return &s
}

func sameValue(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
