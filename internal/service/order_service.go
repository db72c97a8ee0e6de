package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prank-kart/internal/cart"
	"prank-kart/internal/model"
	"prank-kart/internal/payment"
	"prank-kart/internal/repository"

	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	addressRepo repository.AddressRepository
	carts       cart.Store
	payments    payment.Processor
	deliveryFee int
	newID       IDGenerator
	now         func() time.Time
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	addressRepo repository.AddressRepository,
	carts cart.Store,
	payments payment.Processor,
	deliveryFee int,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		addressRepo: addressRepo,
		carts:       carts,
		payments:    payments,
		deliveryFee: deliveryFee,
		newID:       RandomID,
		now:         time.Now,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// Checkout places an order for the device cart and clears it.
//
// The cart generation is stored on the order. When a previous checkout of the
// same generation committed but could not clear the cart, the existing order is
// returned and the clear is retried.
func (s *orderService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.Order, error) {
	if req == nil {
		return nil, model.NewValidationError("checkout request is required")
	}
	if !req.TermsAccepted {
		return nil, model.ErrTermsNotAccepted
	}

	deviceCart := s.carts.For(req.DeviceID)
	snapshot, err := deviceCart.Snapshot(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("device_id", req.DeviceID).Msg("failed to read cart")
		return nil, err
	}
	if len(snapshot.Items) == 0 {
		return nil, model.ErrEmptyCart
	}

	if existing, err := s.orderRepo.GetByCartGeneration(ctx, req.UserID, snapshot.Generation); err != nil {
		s.logger.Error().Err(err).Msg("failed to look up order by cart generation")
		return nil, fmt.Errorf("%w: %w", model.ErrOrderCreation, err)
	} else if existing != nil {
		if sameItems(existing.Items, snapshot.Items) {
			s.logger.Warn().
				Str("order_id", existing.OrderID).
				Msg("cart was already ordered, retrying clear")
			s.clearCart(ctx, deviceCart, existing.OrderID)
			return existing, nil
		}
		// the stale cart was edited after the order, so it is a new order
		if snapshot.Generation, err = deviceCart.RenewGeneration(ctx); err != nil {
			return nil, err
		}
	}

	address, err := s.resolveAddress(ctx, req.UserID, req.AddressID)
	if err != nil {
		return nil, err
	}

	productCost := snapshot.Total()
	totalCost := productCost + s.deliveryFee

	charge, err := s.payments.Charge(ctx, req.PaymentMethod, totalCost)
	if err != nil {
		s.logger.Warn().Err(err).Str("payment_method", req.PaymentMethod).Msg("payment failed")
		return nil, err
	}

	order, err := s.newOrder(req, snapshot, address, productCost, totalCost, charge.Status)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicateOrder) {
			// a concurrent checkout of the same cart may have won the race
			if winner, lookupErr := s.orderRepo.GetByCartGeneration(ctx, req.UserID, snapshot.Generation); lookupErr == nil && winner != nil {
				s.clearCart(ctx, deviceCart, winner.OrderID)
				return winner, nil
			}
		}
		return nil, fmt.Errorf("%w: %w", model.ErrOrderCreation, err)
	}

	s.clearCart(ctx, deviceCart, order.OrderID)

	s.logger.Info().
		Str("order_id", order.OrderID).
		Str("user_id", order.UserID).
		Int("item_count", len(order.Items)).
		Int("total_cost", order.TotalCost).
		Msg("order created successfully")

	return order, nil
}

func (s *orderService) resolveAddress(ctx context.Context, userID, addressID string) (model.Address, error) {
	if addressID == "" {
		return model.Address{}, model.NewValidationError("delivery address is required")
	}

	address, err := s.addressRepo.GetByID(ctx, userID, addressID)
	if err != nil {
		s.logger.Error().Err(err).Str("address_id", addressID).Msg("failed to load address")
		return model.Address{}, fmt.Errorf("%w: %w", model.ErrOrderCreation, err)
	}
	if address == nil {
		return model.Address{}, model.NewValidationError("delivery address not found")
	}
	if err := address.Validate(); err != nil {
		return model.Address{}, err
	}
	return *address, nil
}

func (s *orderService) newOrder(
	req *model.CheckoutRequest,
	snapshot model.Cart,
	address model.Address,
	productCost, totalCost int,
	paymentStatus model.PaymentStatus,
) (*model.Order, error) {
	orderID, err := s.newID(orderIDPrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrOrderCreation, err)
	}
	transactionID, err := s.newID(transactionIDPrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrOrderCreation, err)
	}

	items := make([]model.OrderItem, len(snapshot.Items))
	for i, line := range snapshot.Items {
		items[i] = model.SnapshotItem(line)
		items[i].OrderID = orderID
		items[i].Position = i
	}

	now := s.now().UTC()
	return &model.Order{
		OrderID:          orderID,
		TransactionID:    transactionID,
		UserID:           req.UserID,
		OrderNumber:      "#" + orderID,
		Items:            items,
		ProductCost:      productCost,
		DeliveryFees:     s.deliveryFee,
		TotalCost:        totalCost,
		DeliveryLocation: address,
		PaymentMethod:    req.PaymentMethod,
		PaymentStatus:    paymentStatus,
		Status:           model.StatusOrderPlaced,
		Progress:         model.NewProgress(now),
		CartGeneration:   snapshot.Generation,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// persist writes the order and its items in one transaction.
func (s *orderService) persist(ctx context.Context, order *model.Order) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return err
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.OrderID).Msg("failed to create order")
		return err
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, order.Items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.OrderID).
			Int("item_count", len(order.Items)).
			Msg("failed to create order items")
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.OrderID).Msg("failed to commit transaction")
		return err
	}

	return nil
}

// clearCart empties the cart after an order is committed. A failure leaves a
// stale cart that the next checkout recognises by its generation.
func (s *orderService) clearCart(ctx context.Context, c cart.Cart, orderID string) {
	if err := c.Clear(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID).Msg("order placed but cart could not be cleared")
	}
}

func sameItems(ordered []model.OrderItem, lines []model.CartLineItem) bool {
	if len(ordered) != len(lines) {
		return false
	}
	for i := range ordered {
		if !ordered[i].LineItem().Equal(lines[i]) {
			return false
		}
	}
	return true
}

// GetOrder retrieves an order of the user with its items.
func (s *orderService) GetOrder(ctx context.Context, orderID, userID string) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", orderID).Msg("order not found")
		return nil, model.ErrNotFound
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID string) ([]model.OrderSummary, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Progress returns the tracker view of an order.
func (s *orderService) Progress(ctx context.Context, orderID, userID string) (*model.OrderProgress, error) {
	order, err := s.GetOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	return model.TrackProgress(order), nil
}
