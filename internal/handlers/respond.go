// Package handlers contains HTTP request handlers for the Fix-My-Ward API.
// Handlers parse requests, call services, and return JSON responses.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fixmyward/ward-server/internal/services"
	"go.uber.org/zap"
)

// statusFromError maps domain errors to HTTP status codes.
func statusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrPasswordMismatch),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrImageTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrBadCredentials),
		errors.Is(err, services.ErrRoleMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrReportNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrUsernameTaken):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondServiceError writes err with its mapped status. Internal errors
// are logged and replaced by fallback.
func respondServiceError(w http.ResponseWriter, logger *zap.SugaredLogger, err error, fallback string) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		logger.Errorw(fallback, "error", err)
		respondError(w, status, fallback)
		return
	}
	respondError(w, status, err.Error())
}

// Helper: respond with JSON
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Helper: respond with error
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
