package reconcile

import "context"

// CatalogSource is the TCG data layer: sets and their cards for one domain.
type CatalogSource interface {
	// ListSets returns one page of sets ordered by release date, newest first.
	ListSets(ctx context.Context, domain string, page, perPage int) (*SetPage, error)

	// ListSetCards returns one page of cards for the given set, in upstream order.
	ListSetCards(ctx context.Context, domain, setID string, page, perPage int) (*CardPage, error)
}

// LegacySource is the original release products endpoint.
// The server applies every Query filter itself.
type LegacySource interface {
	ListReleaseProducts(ctx context.Context, query Query) ([]ReleaseProduct, error)
}
