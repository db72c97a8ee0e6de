package model

import "time"

// Catalog collections.
const (
	CollectionPranks = "pranks"
	CollectionBoxes  = "boxes"
	CollectionWraps  = "wraps"
)

// CatalogItem is a prank, box or wrap as stored in the catalogue.
// A nil Price means the item is free.
type CatalogItem struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Price       *int      `json:"price" db:"price"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
	Description string    `json:"description,omitempty" db:"description"`
	Category    string    `json:"category,omitempty" db:"category"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// PriceOrZero returns the item price, treating free items as zero.
func (c CatalogItem) PriceOrZero() int {
	if c.Price == nil {
		return 0
	}
	return *c.Price
}

// Card returns the list-screen projection of the item.
func (c CatalogItem) Card() CatalogCard {
	return CatalogCard{
		ID:       c.ID,
		Title:    c.Title,
		Price:    c.Price,
		ImageURL: c.ImageURL,
	}
}

// CatalogCard is the denormalised projection used by list screens.
type CatalogCard struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Price    *int   `json:"price"`
	ImageURL string `json:"imageUrl"`
}

// Category groups pranks on the home screen.
type Category struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	ImageURL string `json:"imageUrl" db:"image_url"`
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
