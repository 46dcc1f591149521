package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/pedrohwah/shadowsofavernus/internal/game/dice"
	"github.com/pedrohwah/shadowsofavernus/internal/game/session"
	"github.com/pedrohwah/shadowsofavernus/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes v as a JSON body with the given status.
func (h *Handler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encoding response", zap.Error(err))
	}
}

// respondError maps err onto an HTTP status and writes an error body.
// Unrecognized errors become an opaque 500 so internals stay out of
// responses.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
		h.respondJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	h.respondJSON(w, status, errorResponse{Error: err.Error()})
}

// respondBadRequest writes a 400 with the given message.
func (h *Handler) respondBadRequest(w http.ResponseWriter, msg string) {
	h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// statusFor maps domain sentinel errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dice.ErrInvalidExpression):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrBadPassphrase):
		return http.StatusForbidden
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrPlayerNotFound),
		errors.Is(err, storage.ErrSessionNotFound),
		errors.Is(err, storage.ErrCharacterNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrPlayerExists),
		errors.Is(err, storage.ErrSessionExists),
		errors.Is(err, storage.ErrCharacterNameTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON parses a request body into v, rejecting unknown garbage
// without panicking on malformed input.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
