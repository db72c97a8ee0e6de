package repository

import (
	"context"

	"prank-kart/internal/model"

	"github.com/jackc/pgx/v5"
)

// CatalogRepository defines read access to the prank, box and wrap collections,
// plus the bulk writes used when seeding them.
type CatalogRepository interface {
	// ListItems returns every item of a collection in fetch order. A non-empty
	// category filters the result.
	ListItems(ctx context.Context, collection, category string) ([]model.CatalogItem, error)

	// GetItem returns a single item, or nil when it does not exist.
	GetItem(ctx context.Context, collection, id string) (*model.CatalogItem, error)

	// ListCategories returns the prank categories in display order.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// UpsertItems inserts or replaces items of a collection.
	UpsertItems(ctx context.Context, collection string, items []model.CatalogItem) error

	// UpsertCategories inserts or replaces categories.
	UpsertCategories(ctx context.Context, categories []model.Category) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts the order's items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order owned by userID along with its items.
	// It returns nil when no such order exists.
	GetByID(ctx context.Context, orderID, userID string) (*model.Order, error)

	// GetByCartGeneration finds the order placed from a given cart generation.
	GetByCartGeneration(ctx context.Context, userID, generation string) (*model.Order, error)

	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.OrderSummary, error)
}

// AddressRepository defines access to the saved addresses on a user profile.
type AddressRepository interface {
	// ListByUser returns the user's addresses, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Address, error)

	// GetByID returns one address of the user, or nil when it does not exist.
	GetByID(ctx context.Context, userID, id string) (*model.Address, error)

	// Create appends an address to the user's saved set.
	Create(ctx context.Context, address *model.Address) error

	// SetDefault flags id as the only default address of the user.
	SetDefault(ctx context.Context, userID, id string) error
}
