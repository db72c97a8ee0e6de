// Package cart implements the device cart: one persisted record per device
// holding an ordered list of line items keyed by prank.
package cart

import (
	"context"
	"errors"

	"prank-kart/internal/model"
)

// ErrKeyNotFound is returned by a KV when the key holds no value.
var ErrKeyNotFound = errors.New("key not found")

// KV is the local persistence collaborator: string keys mapped to string blobs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store opens the cart of a device.
type Store interface {
	For(deviceID string) Cart
}

// Cart is the cart record of one device. Every mutation rewrites the whole
// record before returning. Mutation errors wrap model.ErrCartStorage and mean
// the mutation did not happen.
type Cart interface {
	// Items returns the line items in cart order. Missing or corrupt records
	// read as an empty cart; read failures are logged, never returned.
	Items(ctx context.Context) []model.CartLineItem

	// Total sums the line item totals of Items.
	Total(ctx context.Context) int

	// Snapshot reads the full record. Unlike Items it reports storage failures,
	// so callers about to act on the contents never act on a phantom empty cart.
	Snapshot(ctx context.Context) (model.Cart, error)

	// Upsert replaces the item with the same PrankID in place, or appends it.
	Upsert(ctx context.Context, item model.CartLineItem) error

	// Replace removes the item keyed by originalPrankID and then upserts item,
	// persisted as a single write so the cart never holds both or neither.
	Replace(ctx context.Context, originalPrankID string, item model.CartLineItem) error

	// Remove deletes the item keyed by prankID. Absent keys are not an error.
	Remove(ctx context.Context, prankID string) error

	// Clear deletes the whole record.
	Clear(ctx context.Context) error

	// RenewGeneration gives the cart a fresh generation, keeping its items.
	RenewGeneration(ctx context.Context) (string, error)
}
