package service

import (
	"context"
	"errors"
	"fmt"

	"prank-kart/internal/cache"
	"prank-kart/internal/model"
	"prank-kart/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// catalogService implements CatalogService with a read-through cache.
type catalogService struct {
	repo   repository.CatalogRepository
	cache  cache.CatalogCache
	group  singleflight.Group
	logger zerolog.Logger
}

// NewCatalogService creates a new catalogue service.
func NewCatalogService(repo repository.CatalogRepository, catalogCache cache.CatalogCache, logger zerolog.Logger) CatalogService {
	return &catalogService{
		repo:   repo,
		cache:  catalogCache,
		logger: logger.With().Str("service", "catalog").Logger(),
	}
}

func listKey(collection, category string) string {
	if category == "" {
		return collection
	}
	return collection + ":" + category
}

// List returns a collection in fetch order. Concurrent misses for the same key
// share one database read.
func (s *catalogService) List(ctx context.Context, collection, category string) ([]model.CatalogItem, error) {
	key := listKey(collection, category)

	v, err, shared := s.group.Do(key, func() (any, error) {
		items, err := s.cache.Get(ctx, key)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}

		items, err = s.repo.ListItems(ctx, collection, category)
		if err != nil {
			return nil, err
		}

		if err := s.cache.Set(ctx, key, items); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
		return items, nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("collection", collection).Str("category", category).Msg("failed to list catalogue")
		return nil, fmt.Errorf("%w: %w", model.ErrCatalogFetch, err)
	}

	items := v.([]model.CatalogItem)
	s.logger.Debug().
		Str("key", key).
		Int("count", len(items)).
		Bool("shared", shared).
		Msg("retrieved catalogue")

	// callers sort in place, so hand out a copy of the shared slice
	return append([]model.CatalogItem(nil), items...), nil
}

// Get retrieves a single item by ID.
func (s *catalogService) Get(ctx context.Context, collection, id string) (*model.CatalogItem, error) {
	if id == "" {
		return nil, model.ErrNotFound
	}

	item, err := s.repo.GetItem(ctx, collection, id)
	if err != nil {
		s.logger.Error().Err(err).Str("collection", collection).Str("id", id).Msg("failed to get catalogue item")
		return nil, fmt.Errorf("%w: %w", model.ErrCatalogFetch, err)
	}

	if item == nil {
		s.logger.Debug().Str("collection", collection).Str("id", id).Msg("catalogue item not found")
		return nil, model.ErrNotFound
	}

	return item, nil
}

func (s *catalogService) Categories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list categories")
		return nil, fmt.Errorf("%w: %w", model.ErrCatalogFetch, err)
	}
	return categories, nil
}

// Invalidate drops the unfiltered list of each collection. Category lists
// expire with the cache TTL.
func (s *catalogService) Invalidate(ctx context.Context, collections ...string) {
	if len(collections) == 0 {
		return
	}
	if err := s.cache.Delete(ctx, collections...); err != nil {
		s.logger.Warn().Err(err).Strs("collections", collections).Msg("cache invalidation failed")
	}
}
