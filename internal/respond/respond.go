// Package respond writes JSON bodies and maps domain errors to status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/corpsite/internal/auth"
	"github.com/templui/corpsite/internal/formdata"
	"github.com/templui/corpsite/internal/repository"
	"github.com/templui/corpsite/internal/service"
	"github.com/templui/corpsite/internal/upload"
	"github.com/templui/corpsite/internal/validation"
)

type errorBody struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func OK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

func Created(w http.ResponseWriter, v any) {
	JSON(w, http.StatusCreated, v)
}

func Deleted(w http.ResponseWriter) {
	JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Message writes {"error": message} with the given status.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Error: message})
}

// Error maps err onto its status code and writes it. Unclassified errors
// are logged and reported without detail.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)

	message := err.Error()
	switch {
	case errors.Is(err, upload.ErrWriteFailed):
		message = upload.ErrWriteFailed.Error()
	case status == http.StatusInternalServerError:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = "internal server error"
	}

	Message(w, status, message)
}

// Status returns the HTTP status for err.
func Status(err error) int {
	switch {
	case errors.Is(err, auth.ErrMissing),
		errors.Is(err, auth.ErrMalformed),
		errors.Is(err, auth.ErrExpired),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, formdata.ErrBadBoundary),
		errors.Is(err, formdata.ErrTruncatedPart),
		errors.Is(err, formdata.ErrInvalidJSON),
		errors.Is(err, validation.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, formdata.ErrUnsupportedContentType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, formdata.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
