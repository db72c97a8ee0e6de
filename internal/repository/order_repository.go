package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"prank-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ErrDuplicateOrder is returned when an order with the same ID or the same cart
// generation already exists.
var ErrDuplicateOrder = errors.New("order already exists")

const uniqueViolation = "23505"

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	location, err := json.Marshal(order.DeliveryLocation)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery location: %w", err)
	}
	progress, err := json.Marshal(order.Progress)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	query := `
		INSERT INTO orders (
			order_id, transaction_id, user_id, order_number,
			product_cost, delivery_fees, total_cost, delivery_location,
			payment_method, payment_status, status, progress,
			cart_generation, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = tx.Exec(ctx, query,
		order.OrderID,
		order.TransactionID,
		order.UserID,
		order.OrderNumber,
		order.ProductCost,
		order.DeliveryFees,
		order.TotalCost,
		location,
		order.PaymentMethod,
		string(order.PaymentStatus),
		string(order.Status),
		progress,
		order.CartGeneration,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Warn().
				Str("order_id", order.OrderID).
				Str("constraint", pgErr.ConstraintName).
				Msg("order already exists")
			return ErrDuplicateOrder
		}
		r.logger.Error().
			Err(err).
			Str("order_id", order.OrderID).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.OrderID).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts the order's items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (
			id, order_id, position,
			prank_id, prank_title, prank_image, prank_price,
			box_id, box_title, box_image, box_price,
			wrap_id, wrap_title, wrap_image, wrap_price,
			message
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		id := item.ID
		if id == "" {
			id = uuid.NewString()
		}
		batch.Queue(query,
			id, item.OrderID, item.Position,
			item.PrankID, item.PrankTitle, item.PrankImage, item.PrankPrice,
			item.BoxID, item.BoxTitle, item.BoxImage, item.BoxPrice,
			item.WrapID, item.WrapTitle, item.WrapImage, item.WrapPrice,
			item.Message,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID).
				Str("prank_id", items[i].PrankID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

const orderColumns = `
	order_id, transaction_id, user_id, order_number,
	product_cost, delivery_fees, total_cost, delivery_location,
	payment_method, payment_status, status, progress,
	cart_generation, created_at, updated_at
`

// GetByID retrieves an order owned by userID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, orderID, userID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1 AND user_id = $2`
	return r.getOne(ctx, query, orderID, userID)
}

// GetByCartGeneration finds the order placed from a given cart generation.
func (r *orderRepository) GetByCartGeneration(ctx context.Context, userID, generation string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 AND cart_generation = $2`
	return r.getOne(ctx, query, userID, generation)
}

func (r *orderRepository) getOne(ctx context.Context, query string, args ...any) (*model.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.getItems(ctx, order.OrderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) getItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	query := `
		SELECT id, order_id, position,
			prank_id, prank_title, prank_image, prank_price,
			box_id, box_title, box_image, box_price,
			wrap_id, wrap_title, wrap_image, wrap_price,
			message
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID).
			Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := []model.OrderItem{}
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.Position,
			&item.PrankID, &item.PrankTitle, &item.PrankImage, &item.PrankPrice,
			&item.BoxID, &item.BoxTitle, &item.BoxImage, &item.BoxPrice,
			&item.WrapID, &item.WrapTitle, &item.WrapImage, &item.WrapPrice,
			&item.Message,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// ListByUser returns the user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]model.OrderSummary, error) {
	query := `
		SELECT o.order_id, o.order_number, o.total_cost, o.status, o.created_at,
			(SELECT COUNT(*) FROM order_items i WHERE i.order_id = o.order_id)
		FROM orders o
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.OrderSummary{}
	for rows.Next() {
		var s model.OrderSummary
		var status string
		if err := rows.Scan(&s.OrderID, &s.OrderNumber, &s.TotalCost, &status, &s.CreatedAt, &s.ItemCount); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		s.Status = model.OrderStatus(status)
		orders = append(orders, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		order         model.Order
		location      []byte
		progress      []byte
		paymentStatus string
		status        string
	)

	err := row.Scan(
		&order.OrderID,
		&order.TransactionID,
		&order.UserID,
		&order.OrderNumber,
		&order.ProductCost,
		&order.DeliveryFees,
		&order.TotalCost,
		&location,
		&order.PaymentMethod,
		&paymentStatus,
		&status,
		&progress,
		&order.CartGeneration,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(location, &order.DeliveryLocation); err != nil {
		return nil, fmt.Errorf("unmarshal delivery location: %w", err)
	}
	if err := json.Unmarshal(progress, &order.Progress); err != nil {
		return nil, fmt.Errorf("unmarshal progress: %w", err)
	}
	order.PaymentStatus = model.PaymentStatus(paymentStatus)
	order.Status = model.OrderStatus(status)

	return &order, nil
}
