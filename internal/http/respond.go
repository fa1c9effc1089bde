package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"carteira/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusForError maps domain sentinels to 422 and everything else,
// backend failures included, to 502.
func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyAsset),
		errors.Is(err, core.ErrEmptyMonth),
		errors.Is(err, core.ErrReservedAsset):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrEmptyOwner),
		errors.Is(err, core.ErrInvalidKind):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
