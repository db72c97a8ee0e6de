// Package catalog holds the presentation rules applied to catalogue lists.
// None of them affect what ends up in a cart.
package catalog

import (
	"fmt"
	"slices"

	"prank-kart/internal/model"
)

// SortMode is a list ordering offered by the selection screens.
type SortMode string

const (
	SortAll         SortMode = "all"
	SortLatest      SortMode = "latest"
	SortCheapest    SortMode = "cheapest"
	SortMostPopular SortMode = "popular"
)

// ParseSortMode accepts the mode names case-sensitively; empty means SortAll.
func ParseSortMode(s string) (SortMode, error) {
	switch mode := SortMode(s); mode {
	case "":
		return SortAll, nil
	case SortAll, SortLatest, SortCheapest, SortMostPopular:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown sort mode %q", s)
	}
}

// Sort returns a reordered copy of items. Items are expected in fetch order.
func Sort(items []model.CatalogItem, mode SortMode) []model.CatalogItem {
	out := slices.Clone(items)
	switch mode {
	case SortLatest:
		slices.Reverse(out)
	case SortCheapest:
		slices.SortStableFunc(out, func(a, b model.CatalogItem) int {
			return a.PriceOrZero() - b.PriceOrZero()
		})
	}
	return out
}

// DefaultSelection picks the item a selection screen starts on: the item
// matching selectedID when there is one, otherwise the cheapest item.
func DefaultSelection(items []model.CatalogItem, selectedID string) (model.CatalogItem, bool) {
	if len(items) == 0 {
		return model.CatalogItem{}, false
	}

	if selectedID != "" {
		for _, item := range items {
			if item.ID == selectedID {
				return item, true
			}
		}
	}

	return Sort(items, SortCheapest)[0], true
}

// Cards projects items to list cards.
func Cards(items []model.CatalogItem) []model.CatalogCard {
	cards := make([]model.CatalogCard, len(items))
	for i, item := range items {
		cards[i] = item.Card()
	}
	return cards
}
