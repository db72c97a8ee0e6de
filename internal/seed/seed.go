// Package seed loads catalogue documents and writes them to the catalogue store.
//
// A document is a gzipped YAML file holding one collection:
//
//	kind: boxes
//	items:
//	  - id: box-tin
//	    title: Tin Box
//	    price: 50
//	    imageUrl: https://cdn.example.com/tin.png
//
// Items without a price are free. Category documents use the same layout with
// kind "categories" and id, name and imageUrl fields.
package seed

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"

	"prank-kart/internal/model"

	"gopkg.in/yaml.v3"
)

// KindCategories is the document kind holding prank categories.
const KindCategories = "categories"

// ErrInvalidDocument is returned for documents that decode but break a rule.
var ErrInvalidDocument = errors.New("invalid catalog document")

// Loader reads one catalogue document.
type Loader interface {
	// Load reads and decodes the gzipped document at path.
	Load(ctx context.Context, path string) (*Document, error)
}

// Document is one decoded catalogue file.
type Document struct {
	Kind  string    `yaml:"kind"`
	Items []ItemDoc `yaml:"items"`
}

// ItemDoc is a catalogue entry as written in a document. Name and ImageURL
// serve categories; the remaining fields serve pranks, boxes and wraps.
type ItemDoc struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Name        string `yaml:"name"`
	Price       *int   `yaml:"price"`
	ImageURL    string `yaml:"imageUrl"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
}

// CatalogItems converts the entries of an item document.
func (d *Document) CatalogItems() []model.CatalogItem {
	items := make([]model.CatalogItem, len(d.Items))
	for i, doc := range d.Items {
		items[i] = model.CatalogItem{
			ID:          doc.ID,
			Title:       doc.Title,
			Price:       doc.Price,
			ImageURL:    doc.ImageURL,
			Description: doc.Description,
			Category:    doc.Category,
		}
	}
	return items
}

// Categories converts the entries of a category document.
func (d *Document) Categories() []model.Category {
	categories := make([]model.Category, len(d.Items))
	for i, doc := range d.Items {
		categories[i] = model.Category{ID: doc.ID, Name: doc.Name, ImageURL: doc.ImageURL}
	}
	return categories
}

func isKnownKind(kind string) bool {
	switch kind {
	case model.CollectionPranks, model.CollectionBoxes, model.CollectionWraps, KindCategories:
		return true
	}
	return false
}

// decode reads a gzipped YAML document from r.
func decode(r io.Reader) (*Document, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	dec := yaml.NewDecoder(gzipReader)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog document: %w", err)
	}

	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) validate() error {
	if !isKnownKind(d.Kind) {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidDocument, d.Kind)
	}

	seen := make(map[string]bool, len(d.Items))
	for i, item := range d.Items {
		if item.ID == "" {
			return fmt.Errorf("%w: %s entry %d has no id", ErrInvalidDocument, d.Kind, i)
		}
		if seen[item.ID] {
			return fmt.Errorf("%w: duplicate %s id %q", ErrInvalidDocument, d.Kind, item.ID)
		}
		seen[item.ID] = true

		if d.Kind == KindCategories {
			if item.Name == "" {
				return fmt.Errorf("%w: category %q has no name", ErrInvalidDocument, item.ID)
			}
			continue
		}
		if item.Title == "" {
			return fmt.Errorf("%w: %s %q has no title", ErrInvalidDocument, d.Kind, item.ID)
		}
		if item.Price != nil && *item.Price < 0 {
			return fmt.Errorf("%w: %s %q has a negative price", ErrInvalidDocument, d.Kind, item.ID)
		}
	}
	return nil
}
