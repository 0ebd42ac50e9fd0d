package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hd-notes-api/internal/application/auth"
	"github.com/hd-notes-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RequestCodeEnvelope wraps OTP issuance responses.
type RequestCodeEnvelope struct {
	RequestID string `json:"request_id"`
	Message   string `json:"message,omitempty"`
}

// AuthEnvelope wraps successful verification responses.
type AuthEnvelope struct {
	Bearer string       `json:"Bearer,omitempty"`
	User   *domain.User `json:"user,omitempty"`
}

// SessionEnvelope wraps token-introspection responses.
type SessionEnvelope struct {
	User *domain.User `json:"user"`
}

// NoteEnvelope wraps single-note responses.
type NoteEnvelope struct {
	Note    *domain.Note `json:"note,omitempty"`
	Message string       `json:"message,omitempty"`
}

// NotesEnvelope wraps note list responses.
type NotesEnvelope struct {
	Notes []domain.Note `json:"notes"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain error kinds to HTTP responses. Verification failures
// collapse into one fixed message regardless of which check rejected the code.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCode):
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCode.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrDelivery):
		writeError(w, http.StatusBadGateway, "failed to send verification email")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
