package seed

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"prank-kart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalogRepository is a mock implementation of CatalogRepository.
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListItems(ctx context.Context, collection, category string) ([]model.CatalogItem, error) {
	args := m.Called(ctx, collection, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CatalogItem), args.Error(1)
}

func (m *MockCatalogRepository) GetItem(ctx context.Context, collection, id string) (*model.CatalogItem, error) {
	args := m.Called(ctx, collection, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CatalogItem), args.Error(1)
}

func (m *MockCatalogRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCatalogRepository) UpsertItems(ctx context.Context, collection string, items []model.CatalogItem) error {
	return m.Called(ctx, collection, items).Error(0)
}

func (m *MockCatalogRepository) UpsertCategories(ctx context.Context, categories []model.Category) error {
	return m.Called(ctx, categories).Error(0)
}

// recordingInvalidator remembers invalidated collections.
type recordingInvalidator struct {
	mu          sync.Mutex
	collections []string
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, collections ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collections = append(r.collections, collections...)
}

func itemIDs(items []model.CatalogItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestSeeder_Run(t *testing.T) {
	paths := []string{
		createTestDocument(t, "categories.yaml.gz", categoriesYAML),
		createTestDocument(t, "pranks.yaml.gz", "kind: pranks\nitems:\n  - id: p1\n    title: Whoopee\n    price: 300\n    category: classic\n"),
		createTestDocument(t, "boxes.yaml.gz", boxesYAML),
		createTestDocument(t, "boxes-extra.yaml.gz", "kind: boxes\nitems:\n  - id: box-tin\n    title: Tin\n    price: 50\n"),
	}

	repo := new(MockCatalogRepository)
	repo.On("UpsertCategories", mock.Anything, mock.MatchedBy(func(c []model.Category) bool {
		return len(c) == 2 && c[0].ID == "classic"
	})).Return(nil)
	repo.On("UpsertItems", mock.Anything, model.CollectionPranks, mock.MatchedBy(func(items []model.CatalogItem) bool {
		return assert.ObjectsAreEqual([]string{"p1"}, itemIDs(items))
	})).Return(nil)
	repo.On("UpsertItems", mock.Anything, model.CollectionBoxes, mock.MatchedBy(func(items []model.CatalogItem) bool {
		// documents of one kind keep path order
		return assert.ObjectsAreEqual([]string{"box-crate", "box-bag", "box-tin"}, itemIDs(items))
	})).Return(nil)

	inv := &recordingInvalidator{}
	seeder := NewSeeder(NewFileLoader(zerolog.Nop()), repo, inv, zerolog.Nop())

	summary, err := seeder.Run(context.Background(), paths)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Categories)
	assert.Equal(t, map[string]int{model.CollectionPranks: 1, model.CollectionBoxes: 3}, summary.Items)
	assert.ElementsMatch(t, []string{model.CollectionPranks, model.CollectionBoxes}, inv.collections)
	repo.AssertExpectations(t)
}

func TestSeeder_Run_LoadFailureWritesNothing(t *testing.T) {
	paths := []string{
		createTestDocument(t, "boxes.yaml.gz", boxesYAML),
		filepath.Join(t.TempDir(), "missing.yaml.gz"),
	}

	repo := new(MockCatalogRepository)
	inv := &recordingInvalidator{}
	seeder := NewSeeder(NewFileLoader(zerolog.Nop()), repo, inv, zerolog.Nop())

	_, err := seeder.Run(context.Background(), paths)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml.gz")
	repo.AssertNotCalled(t, "UpsertItems", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpsertCategories", mock.Anything, mock.Anything)
	assert.Empty(t, inv.collections)
}

func TestSeeder_Run_UpsertFailure(t *testing.T) {
	loader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) (*Document, error) {
			return &Document{Kind: model.CollectionWraps, Items: []ItemDoc{{ID: "w1", Title: "Foil"}}}, nil
		},
	}

	repo := new(MockCatalogRepository)
	repo.On("UpsertCategories", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpsertItems", mock.Anything, model.CollectionWraps, mock.Anything).Return(errors.New("connection reset"))

	inv := &recordingInvalidator{}
	seeder := NewSeeder(loader, repo, inv, zerolog.Nop())

	_, err := seeder.Run(context.Background(), []string{"wraps.yaml.gz"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "wraps")
	assert.Empty(t, inv.collections)
}

func TestSeeder_Run_NilInvalidator(t *testing.T) {
	loader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) (*Document, error) {
			return &Document{Kind: model.CollectionWraps, Items: []ItemDoc{{ID: "w1", Title: "Foil"}}}, nil
		},
	}

	repo := new(MockCatalogRepository)
	repo.On("UpsertCategories", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpsertItems", mock.Anything, model.CollectionWraps, mock.Anything).Return(nil)

	summary, err := NewSeeder(loader, repo, nil, zerolog.Nop()).Run(context.Background(), []string{"wraps.yaml.gz"})

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Items[model.CollectionWraps])
}

func TestSeeder_Run_LoadsConcurrently(t *testing.T) {
	// every load blocks until all have started
	const n = 3
	var started sync.WaitGroup
	started.Add(n)
	loader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) (*Document, error) {
			started.Done()
			started.Wait()
			return &Document{Kind: model.CollectionPranks}, nil
		},
	}

	repo := new(MockCatalogRepository)
	repo.On("UpsertCategories", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpsertItems", mock.Anything, model.CollectionPranks, mock.Anything).Return(nil)

	_, err := NewSeeder(loader, repo, nil, zerolog.Nop()).Run(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
}
