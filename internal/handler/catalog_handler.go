package handler

import (
	"net/http"

	"prank-kart/internal/catalog"
	"prank-kart/internal/model"
	"prank-kart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CatalogHandler serves the prank, box, wrap and category lists.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalogue handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// ListResponse is a sorted list of cards. SelectedID is the default choice on
// selection screens.
type ListResponse struct {
	Items      []model.CatalogCard `json:"items"`
	SelectedID string              `json:"selectedId,omitempty"`
}

// ListPranks handles GET /api/pranks?category=&sort=.
func (h *CatalogHandler) ListPranks(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.CollectionPranks, r.URL.Query().Get("category"), false)
}

// ListBoxes handles GET /api/boxes?sort=&selected=.
func (h *CatalogHandler) ListBoxes(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.CollectionBoxes, "", true)
}

// ListWraps handles GET /api/wraps?sort=&selected=.
func (h *CatalogHandler) ListWraps(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.CollectionWraps, "", true)
}

func (h *CatalogHandler) list(w http.ResponseWriter, r *http.Request, collection, category string, selection bool) {
	mode, err := catalog.ParseSortMode(r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid sort parameter", h.logger)
		return
	}

	items, err := h.service.List(r.Context(), collection, category)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	resp := ListResponse{Items: catalog.Cards(catalog.Sort(items, mode))}
	if selection {
		// the default ignores the display sort
		if def, ok := catalog.DefaultSelection(items, r.URL.Query().Get("selected")); ok {
			resp.SelectedID = def.ID
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetPrank handles GET /api/pranks/{id}.
func (h *CatalogHandler) GetPrank(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "prank ID is required", h.logger)
		return
	}

	prank, err := h.service.Get(r.Context(), model.CollectionPranks, id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, prank)
}

// ListCategories handles GET /api/categories.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}
