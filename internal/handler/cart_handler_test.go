package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"prank-kart/internal/cart"
	"prank-kart/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCartHandler(t *testing.T) (*CartHandler, cart.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := cart.NewStore(cart.NewRedisKV(client), "cart:", zerolog.Nop())
	return NewCartHandler(store, zerolog.Nop()), store, mr
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) CartResponse {
	t.Helper()
	var resp CartResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func lineItem(prankID string, prank int, box, wrap *int) model.CartLineItem {
	return model.CartLineItem{
		PrankID:    prankID,
		PrankTitle: "Prank " + prankID,
		PrankPrice: prank,
		BoxID:      "B1",
		BoxPrice:   box,
		WrapID:     "W1",
		WrapPrice:  wrap,
	}
}

func TestCartHandler_GetEmpty(t *testing.T) {
	handler, _, _ := setupCartHandler(t)

	w := httptest.NewRecorder()
	handler.Get(w, withRoute(httptest.NewRequest(http.MethodGet, "/api/cart", nil)))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeCart(t, w)
	assert.NotNil(t, resp.Items)
	assert.Empty(t, resp.Items)
	assert.Zero(t, resp.Total)
	assert.Nil(t, resp.LastUpdated)
}

func TestCartHandler_PutItemUpsertsAndTotals(t *testing.T) {
	handler, store, _ := setupCartHandler(t)

	put := func(item model.CartLineItem) CartResponse {
		body, err := json.Marshal(item)
		require.NoError(t, err)
		w := httptest.NewRecorder()
		handler.PutItem(w, withRoute(httptest.NewRequest(http.MethodPut, "/api/cart/items", bytes.NewReader(body))))
		require.Equal(t, http.StatusOK, w.Code)
		return decodeCart(t, w)
	}

	put(lineItem("A", 500, nil, model.IntPtr(100)))
	put(lineItem("B", 200, model.IntPtr(50), nil))
	resp := put(lineItem("A", 400, nil, nil))

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "A", resp.Items[0].PrankID)
	assert.Equal(t, 400, resp.Items[0].PrankPrice)
	assert.Equal(t, 650, resp.Total)
	assert.NotNil(t, resp.LastUpdated)

	// the record is scoped to the calling device
	assert.Empty(t, store.For("other-device").Items(context.Background()))
}

func TestCartHandler_PutItemRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Invalid JSON", "{not json"},
		{"Missing prank", `{"prankTitle":"x","prankPrice":100}`},
		{"Blank prank", `{"prankId":"  "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, store, _ := setupCartHandler(t)

			w := httptest.NewRecorder()
			handler.PutItem(w, withRoute(httptest.NewRequest(http.MethodPut, "/api/cart/items", bytes.NewBufferString(tt.body))))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, store.For(testDevice).Items(context.Background()))
		})
	}
}

func TestCartHandler_RemoveItem(t *testing.T) {
	handler, store, _ := setupCartHandler(t)
	ctx := context.Background()
	c := store.For(testDevice)
	require.NoError(t, c.Upsert(ctx, lineItem("A", 500, nil, nil)))
	require.NoError(t, c.Upsert(ctx, lineItem("B", 200, nil, nil)))

	w := httptest.NewRecorder()
	handler.RemoveItem(w, withRoute(httptest.NewRequest(http.MethodDelete, "/api/cart/items/A", nil), "prankId", "A"))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeCart(t, w)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "B", resp.Items[0].PrankID)

	// absent keys are a no-op
	w = httptest.NewRecorder()
	handler.RemoveItem(w, withRoute(httptest.NewRequest(http.MethodDelete, "/api/cart/items/Z", nil), "prankId", "Z"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartHandler_Clear(t *testing.T) {
	handler, store, _ := setupCartHandler(t)
	ctx := context.Background()
	require.NoError(t, store.For(testDevice).Upsert(ctx, lineItem("A", 500, nil, nil)))

	w := httptest.NewRecorder()
	handler.Clear(w, withRoute(httptest.NewRequest(http.MethodDelete, "/api/cart", nil)))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, store.For(testDevice).Items(ctx))
}

func TestCartHandler_StorageDown(t *testing.T) {
	handler, _, mr := setupCartHandler(t)
	mr.Close()

	body, err := json.Marshal(lineItem("A", 500, nil, nil))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.PutItem(w, withRoute(httptest.NewRequest(http.MethodPut, "/api/cart/items", bytes.NewReader(body))))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// reads degrade to an empty cart
	w = httptest.NewRecorder()
	handler.Get(w, withRoute(httptest.NewRequest(http.MethodGet, "/api/cart", nil)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeCart(t, w).Items)
}
