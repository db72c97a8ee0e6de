package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"prank-kart/internal/cache"
	"prank-kart/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture(t *testing.T) (CatalogService, *MockCatalogRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := new(MockCatalogRepository)
	return NewCatalogService(repo, cache.NewRedisCache(client, time.Minute), zerolog.Nop()), repo, mr
}

var testPranks = []model.CatalogItem{
	{ID: "P1", Title: "Fart Spray", Price: model.IntPtr(300), ImageURL: "p1.png", Category: "gross"},
	{ID: "P2", Title: "Fake Spider", Price: model.IntPtr(150), ImageURL: "p2.png", Category: "scary"},
}

func TestCatalogService_List_ReadThrough(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCatalogFixture(t)

	repo.On("ListItems", ctx, model.CollectionPranks, "").Return(testPranks, nil).Once()

	first, err := svc.List(ctx, model.CollectionPranks, "")
	require.NoError(t, err)
	assert.Equal(t, testPranks, first)

	second, err := svc.List(ctx, model.CollectionPranks, "")
	require.NoError(t, err)
	assert.Equal(t, testPranks, second)

	repo.AssertNumberOfCalls(t, "ListItems", 1)
}

func TestCatalogService_List_CategoryIsCachedSeparately(t *testing.T) {
	ctx := context.Background()
	svc, repo, mr := newCatalogFixture(t)

	repo.On("ListItems", ctx, model.CollectionPranks, "gross").Return(testPranks[:1], nil).Once()

	items, err := svc.List(ctx, model.CollectionPranks, "gross")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.True(t, mr.Exists("catalog:pranks:gross"))
	assert.False(t, mr.Exists("catalog:pranks"))
}

func TestCatalogService_List_RepositoryError(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCatalogFixture(t)

	repo.On("ListItems", ctx, model.CollectionBoxes, "").Return(nil, errors.New("connection refused"))

	items, err := svc.List(ctx, model.CollectionBoxes, "")
	assert.ErrorIs(t, err, model.ErrCatalogFetch)
	assert.Nil(t, items)
}

func TestCatalogService_List_CacheOutageFallsBackToRepository(t *testing.T) {
	ctx := context.Background()
	svc, repo, mr := newCatalogFixture(t)
	mr.Close()

	repo.On("ListItems", ctx, model.CollectionWraps, "").Return(testPranks, nil)

	items, err := svc.List(ctx, model.CollectionWraps, "")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCatalogService_List_ReturnsACopy(t *testing.T) {
	ctx := context.Background()
	svc, repo, mr := newCatalogFixture(t)
	mr.Close()

	shared := []model.CatalogItem{{ID: "A"}, {ID: "B"}}
	repo.On("ListItems", ctx, model.CollectionBoxes, "").Return(shared, nil)

	items, err := svc.List(ctx, model.CollectionBoxes, "")
	require.NoError(t, err)
	items[0].ID = "changed"

	assert.Equal(t, "A", shared[0].ID)
}

func TestCatalogService_Invalidate(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCatalogFixture(t)

	repo.On("ListItems", ctx, model.CollectionPranks, "").Return(testPranks, nil)

	_, err := svc.List(ctx, model.CollectionPranks, "")
	require.NoError(t, err)
	svc.Invalidate(ctx, model.CollectionPranks)
	_, err = svc.List(ctx, model.CollectionPranks, "")
	require.NoError(t, err)

	repo.AssertNumberOfCalls(t, "ListItems", 2)
}

func TestCatalogService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		id        string
		mockItem  *model.CatalogItem
		mockError error
		wantErr   error
	}{
		{name: "found", id: "P1", mockItem: &testPranks[0]},
		{name: "not found", id: "P9", wantErr: model.ErrNotFound},
		{name: "empty id", id: "", wantErr: model.ErrNotFound},
		{name: "repository error", id: "P1", mockError: errors.New("timeout"), wantErr: model.ErrCatalogFetch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newCatalogFixture(t)
			if tt.id != "" {
				if tt.mockItem != nil {
					repo.On("GetItem", ctx, model.CollectionPranks, tt.id).Return(tt.mockItem, nil)
				} else {
					repo.On("GetItem", ctx, model.CollectionPranks, tt.id).Return(nil, tt.mockError)
				}
			}

			item, err := svc.Get(ctx, model.CollectionPranks, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, item)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Fart Spray", item.Title)
		})
	}
}

func TestCatalogService_Categories(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCatalogFixture(t)

	categories := []model.Category{{ID: "gross", Name: "Gross"}}
	repo.On("ListCategories", ctx).Return(categories, nil).Once()
	got, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, categories, got)

	repo.On("ListCategories", ctx).Return(nil, errors.New("down"))
	_, err = svc.Categories(ctx)
	assert.ErrorIs(t, err, model.ErrCatalogFetch)
}
