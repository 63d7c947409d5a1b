package mocks

import (
	"context"
	"time"

	"cardcommand/core/history"
	"cardcommand/core/reconcile"
	"cardcommand/core/upstream"

	"github.com/stretchr/testify/mock"
)

// Fetcher is a mock implementation of releases.Fetcher
type Fetcher struct {
	mock.Mock
}

func (m *Fetcher) Fetch(ctx context.Context, query reconcile.Query) (*reconcile.Result, error) {
	args := m.Called(ctx, query)
	if res, ok := args.Get(0).(*reconcile.Result); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

// Backend is a mock implementation of releases.Backend
type Backend struct {
	mock.Mock
}

func (m *Backend) ListReleaseChanges(ctx context.Context, limit int, since string) ([]upstream.ReleaseChange, error) {
	args := m.Called(ctx, limit, since)
	if changes, ok := args.Get(0).([]upstream.ReleaseChange); ok {
		return changes, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) TriggerReleaseSync(ctx context.Context) (*upstream.SyncResult, error) {
	args := m.Called(ctx)
	if res, ok := args.Get(0).(*upstream.SyncResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

// HistoryStore is a mock implementation of releases.HistoryStore
type HistoryStore struct {
	mock.Mock
}

func (m *HistoryStore) Record(ctx context.Context, products []reconcile.ReleaseProduct, detectedAt time.Time) ([]history.ReleaseChange, error) {
	args := m.Called(ctx, products, detectedAt)
	if changes, ok := args.Get(0).([]history.ReleaseChange); ok {
		return changes, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *HistoryStore) Changes(ctx context.Context, limit int, since time.Time) ([]history.ReleaseChange, error) {
	args := m.Called(ctx, limit, since)
	if changes, ok := args.Get(0).([]history.ReleaseChange); ok {
		return changes, args.Error(1)
	}
	return nil, args.Error(1)
}
