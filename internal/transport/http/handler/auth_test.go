package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hd-notes-api/internal/application/auth"
	"github.com/hd-notes-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) RequestCode(ctx context.Context, purpose domain.Purpose, req auth.RequestCodeRequest) (string, error) {
	args := m.Called(ctx, purpose, req)
	return args.String(0), args.Error(1)
}

func (m *mockAuthSvc) VerifyCode(ctx context.Context, purpose domain.Purpose, req auth.VerifyCodeRequest) (*auth.AuthResult, error) {
	args := m.Called(ctx, purpose, req)
	if r, _ := args.Get(0).(*auth.AuthResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) CheckToken(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func authRouter(svc auth.Service) http.Handler {
	h := NewAuthHandler(svc)
	r := chi.NewRouter()
	r.Post("/v1/signup/{action}", h.Signup)
	r.Post("/v1/signin/{action}", h.Signin)
	r.Get("/v1/session", h.Session)
	return r
}

func postJSON(t *testing.T, router http.Handler, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// --- request-code ---

func TestSignupRequestCode_ReturnsRequestID(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("RequestCode", mock.Anything, domain.PurposeSignup, auth.RequestCodeRequest{
		Email: "a@x.com", Name: "Alice",
	}).Return("req-123", nil)

	rr := postJSON(t, authRouter(svc), "/v1/signup/request-code", map[string]string{
		"email": "a@x.com", "name": "Alice",
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp RequestCodeEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "req-123", resp.RequestID)
	svc.AssertExpectations(t)
}

func TestSigninRequestCode_DeliveryFailure_Returns502(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("RequestCode", mock.Anything, domain.PurposeSignin, mock.Anything).
		Return("", domain.ErrDelivery)

	rr := postJSON(t, authRouter(svc), "/v1/signin/request-code", map[string]string{"email": "a@x.com"})

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestRequestCode_InvalidBody_Returns400(t *testing.T) {
	svc := &mockAuthSvc{}
	req := httptest.NewRequest(http.MethodPost, "/v1/signin/request-code", bytes.NewReader([]byte("{")))
	rr := httptest.NewRecorder()
	authRouter(svc).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUnknownAction_Returns400(t *testing.T) {
	svc := &mockAuthSvc{}
	rr := postJSON(t, authRouter(svc), "/v1/signin/resend", map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- verify-code ---

func TestSignupVerifyCode_Returns201WithBearer(t *testing.T) {
	svc := &mockAuthSvc{}
	user := &domain.User{UserID: "u1", Email: "a@x.com", Name: "Alice"}
	svc.On("VerifyCode", mock.Anything, domain.PurposeSignup, auth.VerifyCodeRequest{
		RequestID: "req-123", Code: "654321",
	}).Return(&auth.AuthResult{Bearer: "tok", User: user}, nil)

	rr := postJSON(t, authRouter(svc), "/v1/signup/verify-code", map[string]string{
		"request_id": "req-123", "code": "654321",
	})

	assert.Equal(t, http.StatusCreated, rr.Code)
	var resp AuthEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "tok", resp.Bearer)
	require.NotNil(t, resp.User)
	assert.Equal(t, "u1", resp.User.UserID)
}

func TestSigninVerifyCode_Returns200(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyCode", mock.Anything, domain.PurposeSignin, mock.Anything).
		Return(&auth.AuthResult{Bearer: "tok", User: &domain.User{UserID: "u1"}}, nil)

	rr := postJSON(t, authRouter(svc), "/v1/signin/verify-code", map[string]string{
		"request_id": "req-123", "code": "654321",
	})
	assert.Equal(t, http.StatusOK, rr.Code)
}

// Whatever the underlying cause, a rejected code produces one fixed message.
func TestVerifyCode_FailureKindsCollapseToOneMessage(t *testing.T) {
	for name, cause := range map[string]error{
		"unknown":  auth.ErrUnknownOrExpired,
		"expired":  auth.ErrExpired,
		"purpose":  auth.ErrWrongPurpose,
		"mismatch": auth.ErrCodeMismatch,
	} {
		t.Run(name, func(t *testing.T) {
			svc := &mockAuthSvc{}
			svc.On("VerifyCode", mock.Anything, mock.Anything, mock.Anything).Return(nil, cause)

			rr := postJSON(t, authRouter(svc), "/v1/signin/verify-code", map[string]string{
				"request_id": "req-123", "code": "654321",
			})

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			var resp MessageEnvelope
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, "invalid or expired code", resp.Error)
		})
	}
}

func TestSignupVerifyCode_DuplicateEmail_Returns409(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyCode", mock.Anything, domain.PurposeSignup, mock.Anything).
		Return(nil, domain.ErrConflict)

	rr := postJSON(t, authRouter(svc), "/v1/signup/verify-code", map[string]string{
		"request_id": "req-123", "code": "654321",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestSigninVerifyCode_NoAccount_Returns404(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyCode", mock.Anything, domain.PurposeSignin, mock.Anything).
		Return(nil, domain.ErrNotFound)

	rr := postJSON(t, authRouter(svc), "/v1/signin/verify-code", map[string]string{
		"request_id": "req-123", "code": "654321",
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// --- session ---

func TestSession_ValidToken_ReturnsIdentity(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("CheckToken", mock.Anything, "tok").Return(&domain.User{UserID: "u1", Email: "a@x.com"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	authRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp SessionEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, "u1", resp.User.UserID)
}

func TestSession_MissingHeader_Returns401(t *testing.T) {
	svc := &mockAuthSvc{}
	req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
	rr := httptest.NewRecorder()
	authRouter(svc).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
