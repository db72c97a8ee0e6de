package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"prank-kart/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// statusByCode maps domain error codes to HTTP statuses.
var statusByCode = map[string]int{
	model.ErrCodeValidation:        http.StatusBadRequest,
	model.ErrCodeEmptyCart:         http.StatusBadRequest,
	model.ErrCodeTermsNotAccepted:  http.StatusBadRequest,
	model.ErrCodeNotFound:          http.StatusNotFound,
	model.ErrCodeInvalidTransition: http.StatusConflict,
	model.ErrCodePaymentFailed:     http.StatusPaymentRequired,
	model.ErrCodeCatalogFetch:      http.StatusServiceUnavailable,
	model.ErrCodeCartStorage:       http.StatusServiceUnavailable,
	model.ErrCodeOrderCreation:     http.StatusInternalServerError,
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Str("code", code).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError turns a service error into a response. Domain errors carry
// their code and user-facing message; anything else is an internal error.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var de *model.DomainError
	if errors.As(err, &de) {
		status, ok := statusByCode[de.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		if status >= http.StatusInternalServerError {
			logger.Error().Err(err).Msg("request failed")
		}
		writeError(w, status, de.Code, de.Message, logger)
		return
	}

	logger.Error().Err(err).Msg("unexpected error")
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

// decodeJSON reads a JSON body into v and writes a 400 response on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, logger zerolog.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}
	return true
}
