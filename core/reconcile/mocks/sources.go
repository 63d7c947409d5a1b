package mocks

import (
	"context"

	"cardcommand/core/reconcile"

	"github.com/stretchr/testify/mock"
)

// CatalogSource is a mock implementation of reconcile.CatalogSource
type CatalogSource struct {
	mock.Mock
}

func (m *CatalogSource) ListSets(ctx context.Context, domain string, page, perPage int) (*reconcile.SetPage, error) {
	args := m.Called(ctx, domain, page, perPage)
	if p, ok := args.Get(0).(*reconcile.SetPage); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogSource) ListSetCards(ctx context.Context, domain, setID string, page, perPage int) (*reconcile.CardPage, error) {
	args := m.Called(ctx, domain, setID, page, perPage)
	if p, ok := args.Get(0).(*reconcile.CardPage); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// LegacySource is a mock implementation of reconcile.LegacySource
type LegacySource struct {
	mock.Mock
}

func (m *LegacySource) ListReleaseProducts(ctx context.Context, query reconcile.Query) ([]reconcile.ReleaseProduct, error) {
	args := m.Called(ctx, query)
	if p, ok := args.Get(0).([]reconcile.ReleaseProduct); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
