package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hd-notes-api/internal/application/auth"
	"github.com/hd-notes-api/internal/domain"
)

// AuthHandler handles the OTP signup/signin flow endpoints.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, domain.PurposeSignup)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, domain.PurposeSignin)
}

func (h *AuthHandler) action(w http.ResponseWriter, r *http.Request, purpose domain.Purpose) {
	switch chi.URLParam(r, "action") {
	case "request-code":
		var req auth.RequestCodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		requestID, err := h.svc.RequestCode(r.Context(), purpose, req)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, RequestCodeEnvelope{
			RequestID: requestID,
			Message:   "OTP sent successfully to your email",
		})
	case "verify-code":
		var req auth.VerifyCodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		result, err := h.svc.VerifyCode(r.Context(), purpose, req)
		if err != nil {
			httpError(w, err)
			return
		}
		status := http.StatusOK
		if purpose == domain.PurposeSignup {
			status = http.StatusCreated
		}
		writeJSON(w, status, AuthEnvelope{Bearer: result.Bearer, User: result.User})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

// Session introspects the bearer token and returns the identity it proves.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		writeError(w, http.StatusUnauthorized, "missing or invalid authorization header")
		return
	}
	u, err := h.svc.CheckToken(r.Context(), strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionEnvelope{User: u})
}
