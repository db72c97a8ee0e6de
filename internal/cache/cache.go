package cache

import (
	"context"
	"errors"

	"prank-kart/internal/model"
)

// CatalogCache stores catalogue lists by key.
type CatalogCache interface {
	Get(ctx context.Context, key string) ([]model.CatalogItem, error)
	Set(ctx context.Context, key string, items []model.CatalogItem) error
	Delete(ctx context.Context, keys ...string) error
}

var ErrCacheMiss = errors.New("cache miss")
