package seed

import (
	"context"
	"fmt"

	"prank-kart/internal/model"
	"prank-kart/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Invalidator drops cached catalogue lists after a seed.
type Invalidator interface {
	Invalidate(ctx context.Context, collections ...string)
}

// Summary counts what a seed run wrote.
type Summary struct {
	Categories int
	Items      map[string]int
}

// Seeder loads catalogue documents and upserts them.
type Seeder struct {
	loader      Loader
	repo        repository.CatalogRepository
	invalidator Invalidator
	logger      zerolog.Logger
}

// NewSeeder creates a seeder. invalidator may be nil when nothing caches the
// catalogue.
func NewSeeder(loader Loader, repo repository.CatalogRepository, invalidator Invalidator, logger zerolog.Logger) *Seeder {
	return &Seeder{
		loader:      loader,
		repo:        repo,
		invalidator: invalidator,
		logger:      logger.With().Str("component", "catalog-seeder").Logger(),
	}
}

// Run loads every document concurrently and, only if all of them load, writes
// them. Documents of the same kind are concatenated in path order, which
// becomes the fetch order of the collection.
func (s *Seeder) Run(ctx context.Context, paths []string) (*Summary, error) {
	s.logger.Info().Int("file_count", len(paths)).Msg("seeding catalog")

	docs := make([]*Document, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			doc, err := s.loader.Load(gctx, path)
			if err != nil {
				return fmt.Errorf("failed to load catalog document %s: %w", path, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("catalog seed aborted")
		return nil, err
	}

	var categories []model.Category
	items := make(map[string][]model.CatalogItem)
	var order []string
	for _, doc := range docs {
		if doc.Kind == KindCategories {
			categories = append(categories, doc.Categories()...)
			continue
		}
		if _, ok := items[doc.Kind]; !ok {
			order = append(order, doc.Kind)
		}
		items[doc.Kind] = append(items[doc.Kind], doc.CatalogItems()...)
	}

	summary := &Summary{Items: make(map[string]int, len(items))}

	if err := s.repo.UpsertCategories(ctx, categories); err != nil {
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}
	summary.Categories = len(categories)

	for _, kind := range order {
		if err := s.repo.UpsertItems(ctx, kind, items[kind]); err != nil {
			return nil, fmt.Errorf("failed to seed %s: %w", kind, err)
		}
		summary.Items[kind] = len(items[kind])
	}

	if s.invalidator != nil && len(order) > 0 {
		s.invalidator.Invalidate(ctx, order...)
	}

	s.logger.Info().
		Int("categories", summary.Categories).
		Interface("items", summary.Items).
		Msg("catalog seeded")

	return summary, nil
}
