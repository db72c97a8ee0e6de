package handler

import (
	"net/http"

	"prank-kart/internal/middleware"
	"prank-kart/internal/model"
	"prank-kart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// AddressHandler manages the user's saved delivery addresses.
type AddressHandler struct {
	service service.AddressService
	logger  zerolog.Logger
}

// NewAddressHandler creates a new address handler.
func NewAddressHandler(service service.AddressService, logger zerolog.Logger) *AddressHandler {
	return &AddressHandler{
		service: service,
		logger:  logger.With().Str("handler", "address").Logger(),
	}
}

// List handles GET /api/addresses.
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.service.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if addresses == nil {
		addresses = []model.Address{}
	}

	writeJSON(w, http.StatusOK, addresses)
}

// Create handles POST /api/addresses.
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	var address model.Address
	if !decodeJSON(w, r, &address, h.logger) {
		return
	}

	saved, err := h.service.Add(r.Context(), middleware.UserID(r.Context()), &address)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, saved)
}

// SetDefault handles PUT /api/addresses/{id}/default.
func (h *AddressHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "address ID is required", h.logger)
		return
	}

	if err := h.service.SetDefault(r.Context(), middleware.UserID(r.Context()), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
