package handler

import (
	"net/http"
	"strings"
	"time"

	"prank-kart/internal/cart"
	"prank-kart/internal/middleware"
	"prank-kart/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CartHandler exposes the device cart.
type CartHandler struct {
	carts  cart.Store
	logger zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts cart.Store, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		logger: logger.With().Str("handler", "cart").Logger(),
	}
}

// CartResponse is the cart screen: items in cart order and their total.
type CartResponse struct {
	Items       []model.CartLineItem `json:"items"`
	Total       int                  `json:"total"`
	LastUpdated *time.Time           `json:"lastUpdated,omitempty"`
}

// Get handles GET /api/cart. A cart that cannot be read shows as empty.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK)
}

// PutItem handles PUT /api/cart/items.
func (h *CartHandler) PutItem(w http.ResponseWriter, r *http.Request) {
	var item model.CartLineItem
	if !decodeJSON(w, r, &item, h.logger) {
		return
	}
	if strings.TrimSpace(item.PrankID) == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "prankId is required", h.logger)
		return
	}

	if err := h.deviceCart(r).Upsert(r.Context(), item); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.respond(w, r, http.StatusOK)
}

// RemoveItem handles DELETE /api/cart/items/{prankId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	prankID := chi.URLParam(r, "prankId")
	if prankID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "prank ID is required", h.logger)
		return
	}

	if err := h.deviceCart(r).Remove(r.Context(), prankID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.respond(w, r, http.StatusOK)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.deviceCart(r).Clear(r.Context()); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) deviceCart(r *http.Request) cart.Cart {
	return h.carts.For(middleware.DeviceID(r.Context()))
}

func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, status int) {
	resp := CartResponse{Items: []model.CartLineItem{}}

	snap, err := h.deviceCart(r).Snapshot(r.Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("cart unreadable, showing empty cart")
		writeJSON(w, status, resp)
		return
	}

	if len(snap.Items) > 0 {
		resp.Items = snap.Items
	}
	resp.Total = snap.Total()
	if !snap.LastUpdated.IsZero() {
		resp.LastUpdated = &snap.LastUpdated
	}

	writeJSON(w, status, resp)
}
