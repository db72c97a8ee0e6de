package handler

import (
	"context"
	"net/http"

	"prank-kart/internal/middleware"
	"prank-kart/internal/model"
	"prank-kart/internal/service"
	"prank-kart/internal/wizard"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// WizardHandler drives order composition sessions.
type WizardHandler struct {
	service service.WizardService
	logger  zerolog.Logger
}

// NewWizardHandler creates a new wizard handler.
func NewWizardHandler(service service.WizardService, logger zerolog.Logger) *WizardHandler {
	return &WizardHandler{
		service: service,
		logger:  logger.With().Str("handler", "wizard").Logger(),
	}
}

// StartRequest opens a session. PrankID starts a new composition; EditPrankID
// reopens the cart item with that key at Stage.
type StartRequest struct {
	PrankID     string `json:"prankId"`
	EditPrankID string `json:"editPrankId"`
	Stage       string `json:"stage"`
}

// SelectRequest picks a catalogue item on a selection step.
type SelectRequest struct {
	ID string `json:"id"`
}

// MessageRequest submits the greeting message.
type MessageRequest struct {
	Message string `json:"message"`
}

// TermsRequest submits the terms checkbox.
type TermsRequest struct {
	Accepted bool `json:"accepted"`
}

// Start handles POST /api/wizard. A request carrying query parameters resumes
// a session from a deep link; otherwise the body says what to open.
func (h *WizardHandler) Start(w http.ResponseWriter, r *http.Request) {
	deviceID := middleware.DeviceID(r.Context())

	if r.URL.RawQuery != "" {
		view, err := h.service.Resume(r.Context(), deviceID, r.URL.Query())
		h.respond(w, http.StatusCreated, view, err)
		return
	}

	var req StartRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	switch {
	case req.EditPrankID != "":
		stage, err := wizard.ParseStage(req.Stage)
		if err != nil {
			writeServiceError(w, err, h.logger)
			return
		}
		view, err := h.service.Edit(r.Context(), deviceID, req.EditPrankID, stage)
		h.respond(w, http.StatusCreated, view, err)
	case req.PrankID != "":
		view, err := h.service.Start(r.Context(), deviceID, req.PrankID)
		h.respond(w, http.StatusCreated, view, err)
	default:
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "prankId or editPrankId is required", h.logger)
	}
}

// Get handles GET /api/wizard/{id}.
func (h *WizardHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), middleware.DeviceID(r.Context()), chi.URLParam(r, "id"))
	h.respond(w, http.StatusOK, view, err)
}

// ChoosePrank handles POST /api/wizard/{id}/prank.
func (h *WizardHandler) ChoosePrank(w http.ResponseWriter, r *http.Request) {
	h.choose(w, r, h.service.ChoosePrank)
}

// ChooseBox handles POST /api/wizard/{id}/box.
func (h *WizardHandler) ChooseBox(w http.ResponseWriter, r *http.Request) {
	h.choose(w, r, h.service.ChooseBox)
}

// ChooseWrap handles POST /api/wizard/{id}/wrap.
func (h *WizardHandler) ChooseWrap(w http.ResponseWriter, r *http.Request) {
	h.choose(w, r, h.service.ChooseWrap)
}

type chooseFunc func(ctx context.Context, deviceID, sessionID, itemID string) (*service.WizardView, error)

func (h *WizardHandler) choose(w http.ResponseWriter, r *http.Request, fn chooseFunc) {
	var req SelectRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "id is required", h.logger)
		return
	}

	view, err := fn(r.Context(), middleware.DeviceID(r.Context()), chi.URLParam(r, "id"), req.ID)
	h.respond(w, http.StatusOK, view, err)
}

// WriteMessage handles POST /api/wizard/{id}/message.
func (h *WizardHandler) WriteMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	view, err := h.service.WriteMessage(r.Context(), middleware.DeviceID(r.Context()), chi.URLParam(r, "id"), req.Message)
	h.respond(w, http.StatusOK, view, err)
}

// ConfirmTerms handles POST /api/wizard/{id}/terms.
func (h *WizardHandler) ConfirmTerms(w http.ResponseWriter, r *http.Request) {
	var req TermsRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	view, err := h.service.ConfirmTerms(r.Context(), middleware.DeviceID(r.Context()), chi.URLParam(r, "id"), req.Accepted)
	h.respond(w, http.StatusOK, view, err)
}

func (h *WizardHandler) respond(w http.ResponseWriter, status int, view *service.WizardView, err error) {
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, status, view)
}
