package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"prank-kart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// kvStore implements Store on top of a KV.
type kvStore struct {
	kv     KV
	prefix string
	now    func() time.Time
	logger zerolog.Logger
}

// NewStore creates a cart store that keeps each device cart under prefix+deviceID.
func NewStore(kv KV, prefix string, logger zerolog.Logger) Store {
	return &kvStore{
		kv:     kv,
		prefix: prefix,
		now:    time.Now,
		logger: logger.With().Str("component", "cart-store").Logger(),
	}
}

// For opens the cart of a device.
func (s *kvStore) For(deviceID string) Cart {
	return &deviceCart{
		store:  s,
		key:    s.prefix + deviceID,
		logger: s.logger.With().Str("device_id", deviceID).Logger(),
	}
}

type deviceCart struct {
	store  *kvStore
	key    string
	logger zerolog.Logger
}

func emptyCart() model.Cart {
	return model.Cart{Items: []model.CartLineItem{}, Generation: uuid.NewString()}
}

// read loads the record. Missing and corrupt records yield an empty cart; only
// a failing KV is reported.
func (c *deviceCart) read(ctx context.Context) (model.Cart, error) {
	raw, err := c.store.kv.Get(ctx, c.key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return emptyCart(), nil
		}
		return model.Cart{}, fmt.Errorf("%w: read: %w", model.ErrCartStorage, err)
	}

	var cart model.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		c.logger.Warn().Err(err).Msg("corrupt cart record, treating as empty")
		return emptyCart(), nil
	}

	if cart.Items == nil {
		cart.Items = []model.CartLineItem{}
	}
	if cart.Generation == "" {
		cart.Generation = uuid.NewString()
	}

	return cart, nil
}

func (c *deviceCart) write(ctx context.Context, cart model.Cart) error {
	cart.LastUpdated = c.store.now().UTC()

	blob, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", model.ErrCartStorage, err)
	}

	if err := c.store.kv.Set(ctx, c.key, string(blob)); err != nil {
		c.logger.Error().Err(err).Msg("failed to persist cart")
		return fmt.Errorf("%w: write: %w", model.ErrCartStorage, err)
	}

	return nil
}

func (c *deviceCart) Items(ctx context.Context) []model.CartLineItem {
	cart, err := c.read(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to read cart")
		return []model.CartLineItem{}
	}
	return cart.Items
}

func (c *deviceCart) Total(ctx context.Context) int {
	return model.Cart{Items: c.Items(ctx)}.Total()
}

func (c *deviceCart) Snapshot(ctx context.Context) (model.Cart, error) {
	return c.read(ctx)
}

func (c *deviceCart) Upsert(ctx context.Context, item model.CartLineItem) error {
	cart, err := c.read(ctx)
	if err != nil {
		return err
	}

	if i := cart.IndexOf(item.PrankID); i >= 0 {
		cart.Items[i] = item
	} else {
		cart.Items = append(cart.Items, item)
	}

	if err := c.write(ctx, cart); err != nil {
		return err
	}

	c.logger.Debug().Str("prank_id", item.PrankID).Int("items", len(cart.Items)).Msg("cart item saved")
	return nil
}

func (c *deviceCart) Replace(ctx context.Context, originalPrankID string, item model.CartLineItem) error {
	cart, err := c.read(ctx)
	if err != nil {
		return err
	}

	if originalPrankID != item.PrankID {
		if i := cart.IndexOf(originalPrankID); i >= 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		}
	}
	if i := cart.IndexOf(item.PrankID); i >= 0 {
		cart.Items[i] = item
	} else {
		cart.Items = append(cart.Items, item)
	}

	if err := c.write(ctx, cart); err != nil {
		return err
	}

	c.logger.Debug().
		Str("original_prank_id", originalPrankID).
		Str("prank_id", item.PrankID).
		Msg("cart item replaced")
	return nil
}

func (c *deviceCart) Remove(ctx context.Context, prankID string) error {
	cart, err := c.read(ctx)
	if err != nil {
		return err
	}

	i := cart.IndexOf(prankID)
	if i < 0 {
		return nil
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)

	if err := c.write(ctx, cart); err != nil {
		return err
	}

	c.logger.Debug().Str("prank_id", prankID).Int("items", len(cart.Items)).Msg("cart item removed")
	return nil
}

func (c *deviceCart) Clear(ctx context.Context) error {
	if err := c.store.kv.Delete(ctx, c.key); err != nil {
		c.logger.Error().Err(err).Msg("failed to clear cart")
		return fmt.Errorf("%w: delete: %w", model.ErrCartStorage, err)
	}
	c.logger.Debug().Msg("cart cleared")
	return nil
}

func (c *deviceCart) RenewGeneration(ctx context.Context) (string, error) {
	cart, err := c.read(ctx)
	if err != nil {
		return "", err
	}
	cart.Generation = uuid.NewString()
	if err := c.write(ctx, cart); err != nil {
		return "", err
	}
	return cart.Generation, nil
}
