package seed

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"prank-kart/internal/config"
	"prank-kart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boxesYAML = `
kind: boxes
items:
  - id: box-crate
    title: Wooden Crate
    price: 200
    imageUrl: https://cdn.example.com/crate.png
  - id: box-bag
    title: Paper Bag
`

const categoriesYAML = `
kind: categories
items:
  - id: classic
    name: Classic
  - id: office
    name: Office
    imageUrl: https://cdn.example.com/office.png
`

func gzipBytes(t *testing.T, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

// createTestDocument writes a gzipped catalog document and returns its path.
func createTestDocument(t *testing.T, filename, content string) string {
	t.Helper()
	filePath := filepath.Join(t.TempDir(), filename)
	require.NoError(t, os.WriteFile(filePath, gzipBytes(t, content), 0o600))
	return filePath
}

func TestFileLoader_Load_Success(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	path := createTestDocument(t, "boxes.yaml.gz", boxesYAML)

	doc, err := loader.Load(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, model.CollectionBoxes, doc.Kind)

	items := doc.CatalogItems()
	require.Len(t, items, 2)
	assert.Equal(t, "box-crate", items[0].ID)
	assert.Equal(t, 200, *items[0].Price)
	assert.Nil(t, items[1].Price, "missing price means free")
}

func TestFileLoader_Load_Categories(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	path := createTestDocument(t, "categories.yaml.gz", categoriesYAML)

	doc, err := loader.Load(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, []model.Category{
		{ID: "classic", Name: "Classic"},
		{ID: "office", Name: "Office", ImageURL: "https://cdn.example.com/office.png"},
	}, doc.Categories())
}

func TestFileLoader_Load_FileNotFound(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	_, err := loader.Load(context.Background(), "/nonexistent/pranks.yaml.gz")

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileLoader_Load_NotGzipped(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	path := filepath.Join(t.TempDir(), "plain.yaml")
	require.NoError(t, os.WriteFile(path, []byte(boxesYAML), 0o600))

	_, err := loader.Load(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}

func TestFileLoader_Load_Cancelled(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	path := createTestDocument(t, "boxes.yaml.gz", boxesYAML)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Load(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Unknown kind", "kind: gadgets\nitems:\n  - id: g1\n    title: G\n"},
		{"Missing id", "kind: pranks\nitems:\n  - title: Whoopee\n"},
		{"Duplicate id", "kind: wraps\nitems:\n  - id: w1\n    title: A\n  - id: w1\n    title: B\n"},
		{"Missing title", "kind: pranks\nitems:\n  - id: p1\n"},
		{"Negative price", "kind: pranks\nitems:\n  - id: p1\n    title: Whoopee\n    price: -5\n"},
		{"Category without name", "kind: categories\nitems:\n  - id: c1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(bytes.NewReader(gzipBytes(t, tt.content)))
			assert.True(t, errors.Is(err, ErrInvalidDocument), "got %v", err)
		})
	}
}

func TestDecode_UnknownField(t *testing.T) {
	_, err := decode(bytes.NewReader(gzipBytes(t, "kind: pranks\nitems:\n  - id: p1\n    title: A\n    colour: red\n")))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestNewLoader_S3Disabled(t *testing.T) {
	path := createTestDocument(t, "boxes.yaml.gz", boxesYAML)

	loader := NewLoader(context.Background(), config.S3Config{Enabled: false, Prefix: "catalog/"}, zerolog.Nop())
	fb, ok := loader.(*fallbackLoader)
	require.True(t, ok)
	assert.Nil(t, fb.s3Loader)

	doc, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, model.CollectionBoxes, doc.Kind)
}
