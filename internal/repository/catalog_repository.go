package repository

import (
	"context"
	"errors"
	"fmt"

	"prank-kart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// catalogTables maps collection names to their tables. Queries interpolate the
// table name, so only these values are ever accepted.
var catalogTables = map[string]string{
	model.CollectionPranks: "pranks",
	model.CollectionBoxes:  "boxes",
	model.CollectionWraps:  "wraps",
}

// ErrUnknownCollection is returned for a collection outside the catalogue.
var ErrUnknownCollection = errors.New("unknown catalog collection")

// catalogRepository implements CatalogRepository using PostgreSQL.
type catalogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCatalogRepository creates a new PostgreSQL-backed catalogue repository.
func NewCatalogRepository(pool *pgxpool.Pool, logger zerolog.Logger) CatalogRepository {
	return &catalogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "catalog").Logger(),
	}
}

func tableFor(collection string) (string, error) {
	table, ok := catalogTables[collection]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	return table, nil
}

// ListItems returns every item of a collection in fetch order.
func (r *catalogRepository) ListItems(ctx context.Context, collection, category string) ([]model.CatalogItem, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, title, price, image_url, description, category, created_at
		FROM %s
		WHERE ($1 = '' OR category = $1)
		ORDER BY position, created_at, id
	`, table)

	rows, err := r.pool.Query(ctx, query, category)
	if err != nil {
		r.logger.Error().Err(err).Str("collection", collection).Msg("failed to query catalog items")
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer rows.Close()

	items := []model.CatalogItem{}
	for rows.Next() {
		var item model.CatalogItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Price, &item.ImageURL, &item.Description, &item.Category, &item.CreatedAt); err != nil {
			r.logger.Error().Err(err).Str("collection", collection).Msg("failed to scan catalog row")
			return nil, fmt.Errorf("failed to scan %s item: %w", collection, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Str("collection", collection).Msg("error iterating catalog rows")
		return nil, fmt.Errorf("error iterating %s: %w", collection, err)
	}

	return items, nil
}

// GetItem returns a single item, or nil when it does not exist.
func (r *catalogRepository) GetItem(ctx context.Context, collection, id string) (*model.CatalogItem, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, title, price, image_url, description, category, created_at
		FROM %s
		WHERE id = $1
	`, table)

	var item model.CatalogItem
	err = r.pool.QueryRow(ctx, query, id).Scan(&item.ID, &item.Title, &item.Price, &item.ImageURL, &item.Description, &item.Category, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("collection", collection).Str("id", id).Msg("catalog item not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("collection", collection).Str("id", id).Msg("failed to query catalog item")
		return nil, fmt.Errorf("failed to query %s item: %w", collection, err)
	}

	return &item, nil
}

// ListCategories returns the prank categories in display order.
func (r *catalogRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, image_url FROM categories ORDER BY position, name`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// UpsertItems inserts or replaces items of a collection. Slice order becomes
// the fetch order.
func (r *catalogRepository) UpsertItems(ctx context.Context, collection string, items []model.CatalogItem) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, price, image_url, description, category, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			price = EXCLUDED.price,
			image_url = EXCLUDED.image_url,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			position = EXCLUDED.position
	`, table)

	batch := &pgx.Batch{}
	for i, item := range items {
		batch.Queue(query, item.ID, item.Title, item.Price, item.ImageURL, item.Description, item.Category, i)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range items {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().Err(err).Str("collection", collection).Str("id", items[i].ID).Msg("failed to upsert catalog item")
			return fmt.Errorf("failed to upsert %s item %s: %w", collection, items[i].ID, err)
		}
	}

	r.logger.Debug().Str("collection", collection).Int("count", len(items)).Msg("catalog items upserted")
	return nil
}

// UpsertCategories inserts or replaces categories.
func (r *catalogRepository) UpsertCategories(ctx context.Context, categories []model.Category) error {
	if len(categories) == 0 {
		return nil
	}

	query := `
		INSERT INTO categories (id, name, image_url, position)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			image_url = EXCLUDED.image_url,
			position = EXCLUDED.position
	`

	batch := &pgx.Batch{}
	for i, c := range categories {
		batch.Queue(query, c.ID, c.Name, c.ImageURL, i)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range categories {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert category %s: %w", categories[i].ID, err)
		}
	}

	return nil
}
