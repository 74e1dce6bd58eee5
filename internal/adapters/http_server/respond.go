package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"campusnest/internal/app"
	"campusnest/internal/domain"
)

// Every response uses the same envelope: {success, message, data} on the
// happy path, {success, message, errors} on failure.

type envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    any          `json:"data,omitempty"`
	Errors  []fieldError `json:"errors,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeOK(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeFail(w http.ResponseWriter, status int, message string, errs []fieldError) {
	writeJSON(w, status, envelope{Success: false, Message: message, Errors: errs})
}

// writeError maps domain errors onto statuses. Anything unrecognized is an
// internal error: logged in full, reported generically.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeFail(w, http.StatusBadRequest, "Validation failed", []fieldError{{Field: ve.Field, Message: ve.Message}})
		return
	}
	var ce *domain.ConflictError
	if errors.As(err, &ce) {
		writeFail(w, http.StatusConflict, ce.Message, nil)
		return
	}
	var pe *domain.PermissionError
	if errors.As(err, &pe) {
		writeFail(w, http.StatusForbidden, pe.Message, nil)
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		writeFail(w, http.StatusNotFound, "Resource not found", nil)
		return
	}
	if errors.Is(err, app.ErrInvalidCredentials) {
		writeFail(w, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}
	log.Error().Err(err).Msg("request failed")
	writeFail(w, http.StatusInternalServerError, "Something went wrong", nil)
}
