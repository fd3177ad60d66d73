package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// SheetClient fetches the published catalog table
type SheetClient interface {
	FetchRows(ctx context.Context) ([]RawRow, error)
}

// CatalogProvider returns the current normalized catalog. On failure it returns
// an empty catalog together with an error wrapping ErrCatalogUnavailable.
type CatalogProvider interface {
	Catalog(ctx context.Context) (Catalog, error)
}
