package releases

import (
	"time"

	"cardcommand/core/reconcile"
	"cardcommand/core/upstream"
)

// ProductsMeta describes where a products response came from.
type ProductsMeta struct {
	AsOf   *time.Time `json:"asOf,omitempty"`
	Source string     `json:"source"`
	Count  int        `json:"count"`
}

// ProductsResponse is the body of GET /releases/products.
type ProductsResponse struct {
	Success bool                       `json:"success"`
	Data    []reconcile.ReleaseProduct `json:"data"`
	Meta    ProductsMeta               `json:"meta"`
}

// ChangesResponse is the body of GET /releases/changes.
type ChangesResponse struct {
	Success bool                     `json:"success"`
	Data    []upstream.ReleaseChange `json:"data"`
}

// SyncResponse is the body of POST /releases/sync.
type SyncResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Data    map[string]int `json:"data"`
}

// ArchiveResponse is the body of POST /releases/archive.
type ArchiveResponse struct {
	Success bool           `json:"success"`
	Data    ArchiveReceipt `json:"data"`
}

// LatestArchiveResponse is the body of GET /releases/archive/latest.
type LatestArchiveResponse struct {
	Success bool           `json:"success"`
	Key     string         `json:"key"`
	Data    ArchivedResult `json:"data"`
}

// ErrorBody carries a machine readable code and a message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is returned by every failing endpoint.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}
