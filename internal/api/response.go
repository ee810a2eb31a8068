package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mindhaven/mindhaven/internal/models"
)

// writeJSON writes an API response envelope with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, response models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("api.writeJSON: failed to encode response", "error", err)
	}
}

// writeError maps a domain error to an HTTP status and error envelope.
func writeError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrSessionNotFound), errors.Is(err, models.ErrExerciseNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, models.ErrSessionCompleted), errors.Is(err, models.ErrSessionActive):
		statusCode = http.StatusConflict
	case errors.Is(err, models.ErrEmptyUserText), errors.Is(err, models.ErrUserTextTooLong):
		statusCode = http.StatusBadRequest
	case errors.Is(err, models.ErrGenerationFailed):
		statusCode = http.StatusBadGateway
	}
	writeJSON(w, statusCode, models.Error(err.Error()))
}

// decodeJSONBody decodes a request body, writing a 400 envelope on failure.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, models.Error("invalid JSON body"))
		return false
	}
	return true
}
