package reconcile

import (
	"sort"
	"strings"
	"time"
)

// Confidence values assigned by the backend to release information.
const (
	ConfidenceConfirmed   = "confirmed"
	ConfidenceUnconfirmed = "unconfirmed"
	ConfidenceRumor       = "rumor"
)

// Lifecycle status values for a release product.
const (
	StatusAnnounced = "announced"
	StatusOfficial  = "official"
	StatusReleased  = "released"
)

// Source tags identifying which upstream produced a Result.
const (
	SourceCatalog = "catalog"
	SourceLegacy  = "legacy"
)

// ReleaseProduct is the unified release record served to the dashboard.
// Optional fields are nil when the upstream has no value for them.
type ReleaseProduct struct {
	// ID is unique within one reconciliation result.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// ProductType is the product kind tag (e.g. "booster_box", "single_card").
	ProductType string `json:"productType"`

	// Category is the collectible domain (e.g. "pokemon", "mtg").
	Category string `json:"category"`

	MSRP            *float64 `json:"msrp,omitempty"`
	EstimatedResale *float64 `json:"estimatedResale,omitempty"`
	ReleaseDate     *string  `json:"releaseDate,omitempty"`
	PreorderDate    *string  `json:"preorderDate,omitempty"`
	ImageURL        *string  `json:"imageUrl,omitempty"`
	BuyURL          *string  `json:"buyUrl,omitempty"`
	SourceURL       *string  `json:"sourceUrl,omitempty"`
	ContentsSummary *string  `json:"contentsSummary,omitempty"`

	// SetName is the owning set or product line.
	SetName string `json:"setName"`

	SetHypeScore    *float64 `json:"setHypeScore,omitempty"`
	Confidence      *string  `json:"confidence,omitempty"`
	ConfidenceScore *float64 `json:"confidenceScore,omitempty"`
	SourceTier      *string  `json:"sourceTier,omitempty"`
	SourceType      *string  `json:"sourceType,omitempty"`
	Status          *string  `json:"status,omitempty"`
}

// Query describes a release product lookup.
// The zero value means all categories with no date bound.
type Query struct {
	// FromDate is the inclusive lower bound on release date.
	FromDate string `json:"fromDate,omitempty"`

	// ToDate is the inclusive upper bound on release date.
	ToDate string `json:"toDate,omitempty"`

	// Categories filters by category. Empty means all.
	Categories []string `json:"categories,omitempty"`

	// The remaining refinements are only understood by the legacy source.
	Confidence     string `json:"confidence,omitempty"`
	ConfidenceBand string `json:"confidenceBand,omitempty"`
	Status         string `json:"status,omitempty"`
	SourceType     string `json:"sourceType,omitempty"`
}

// Key returns a canonical representation of the query for caching.
// Category order does not affect the key.
func (q Query) Key() string {
	cats := append([]string(nil), q.Categories...)
	sort.Strings(cats)

	parts := []string{
		"from=" + q.FromDate,
		"to=" + q.ToDate,
		"categories=" + strings.Join(cats, ","),
		"confidence=" + q.Confidence,
		"band=" + q.ConfidenceBand,
		"status=" + q.Status,
		"sourceType=" + q.SourceType,
	}
	return strings.Join(parts, "|")
}

// Result is the output of a reconciliation.
type Result struct {
	// Products is the reconciled product list in display order.
	Products []ReleaseProduct `json:"products"`

	// AsOf is the freshest upstream data timestamp, if any was reported.
	AsOf *time.Time `json:"asOf,omitempty"`

	// Source names the upstream that produced Products.
	Source string `json:"source"`
}

// PageMeta is the pagination block returned by the TCG data layer.
type PageMeta struct {
	AsOf       *string `json:"asOf,omitempty"`
	Page       int     `json:"page"`
	PerPage    int     `json:"perPage"`
	TotalCount int     `json:"totalCount"`
	TotalPages int     `json:"totalPages"`
}

// Set is a TCG data layer set.
type Set struct {
	ID            string            `json:"id"`
	Provider      string            `json:"provider"`
	ProviderSetID string            `json:"providerSetId"`
	Name          string            `json:"name"`
	ReleaseDate   *string           `json:"releaseDate"`
	Series        *string           `json:"series"`
	Total         *int              `json:"total"`
	Images        map[string]string `json:"images"`
	UpdatedAt     string            `json:"updatedAt"`
}

// PriceQuote is a single per-source price observation for a card.
type PriceQuote struct {
	Source    string   `json:"source"`
	Currency  string   `json:"currency"`
	Market    *float64 `json:"market"`
	Low       *float64 `json:"low"`
	Mid       *float64 `json:"mid"`
	High      *float64 `json:"high"`
	DirectLow *float64 `json:"directLow"`
	UpdatedAt string   `json:"updatedAt"`
}

// Card is a TCG data layer card belonging to a Set.
type Card struct {
	ID             string            `json:"id"`
	Provider       string            `json:"provider"`
	ProviderCardID string            `json:"providerCardId"`
	Name           string            `json:"name"`
	Number         *string           `json:"number"`
	Rarity         *string           `json:"rarity"`
	Images         map[string]string `json:"images"`
	TCGPlayerID    *string           `json:"tcgplayerId"`
	Prices         []PriceQuote      `json:"prices"`
	UpdatedAt      string            `json:"updatedAt"`
}

// SetPage is one page of sets.
type SetPage struct {
	Sets []Set
	Meta *PageMeta
}

// CardPage is one page of cards for a set.
type CardPage struct {
	Cards []Card
	Meta  *PageMeta
}
