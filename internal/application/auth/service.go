package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hd-notes-api/internal/domain"
	jwtinfra "github.com/hd-notes-api/internal/infrastructure/jwt"
	"github.com/hd-notes-api/internal/otp"
	"github.com/hd-notes-api/internal/pkg/id"
	"github.com/hd-notes-api/internal/pkg/validate"
)

// ErrInvalidCode is the caller-facing kind for every failed verification.
// The specific cause is wrapped underneath so tests and logs can tell them
// apart, while handlers surface only this one message — which check failed
// is not revealed to whoever submitted the code.
var ErrInvalidCode = errors.New("invalid or expired code")

var (
	ErrUnknownOrExpired = fmt.Errorf("%w: unknown request id", ErrInvalidCode)
	ErrExpired          = fmt.Errorf("%w: code expired", ErrInvalidCode)
	ErrWrongPurpose     = fmt.Errorf("%w: purpose mismatch", ErrInvalidCode)
	ErrCodeMismatch     = fmt.Errorf("%w: code mismatch", ErrInvalidCode)
)

type RequestCodeRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"` // expected format: YYYY-MM-DD
}

type VerifyCodeRequest struct {
	RequestID string `json:"request_id" validate:"required"`
	Code      string `json:"code" validate:"required"`
}

// AuthResult is what a completed verification hands back to the caller.
type AuthResult struct {
	Bearer string
	User   *domain.User
}

type Service interface {
	// RequestCode issues a fresh OTP for the claimed email, stores the
	// pending verification and emails the code. Returns the request id the
	// caller must echo back to VerifyCode.
	RequestCode(ctx context.Context, purpose domain.Purpose, req RequestCodeRequest) (string, error)
	// VerifyCode consumes the pending verification and, on success,
	// resolves the identity (creating it for signup) and mints a bearer
	// token. Any failed attempt consumes the record: callers must request
	// a fresh code after a failure.
	VerifyCode(ctx context.Context, purpose domain.Purpose, req VerifyCodeRequest) (*AuthResult, error)
	// CheckToken resolves a bearer token back to its user profile.
	CheckToken(ctx context.Context, token string) (*domain.User, error)
}

type userStore interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type tokenIssuer interface {
	Sign(userID, email string) (string, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

type service struct {
	store  *otp.Store
	users  userStore
	mailer mailer
	tokens tokenIssuer
}

type ServiceDeps struct {
	Store    *otp.Store
	UserRepo userStore
	Mailer   mailer
	Tokens   tokenIssuer
}

func NewService(deps ServiceDeps) Service {
	return &service{
		store:  deps.Store,
		users:  deps.UserRepo,
		mailer: deps.Mailer,
		tokens: deps.Tokens,
	}
}

func (s *service) RequestCode(ctx context.Context, purpose domain.Purpose, req RequestCodeRequest) (string, error) {
	// The stored email must be byte-identical to what the user directory is
	// later queried with, so normalization happens once, here. It runs before
	// validation so a padded but otherwise valid address is accepted.
	email := strings.ToLower(strings.TrimSpace(req.Email))
	req.Email = email

	if err := validate.Struct(&req); err != nil {
		return "", fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	if purpose == domain.PurposeSignup && req.Name == "" {
		return "", fmt.Errorf("name is required for signup: %w", domain.ErrBadRequest)
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return "", err
	}
	rec := &domain.PendingVerification{
		Code:    code,
		Email:   email,
		Purpose: purpose,
	}
	name := "User"
	if purpose == domain.PurposeSignup {
		rec.Profile = &domain.ProfileDraft{Name: req.Name, DateOfBirth: req.DateOfBirth}
		name = req.Name
	}
	requestID := s.store.Put(rec)

	if err := s.mailer.SendEmail(email, otpSubject, otpBody(name, code)); err != nil {
		// An undelivered code can never be used; drop the record now
		// instead of letting it sit in the store until the TTL.
		s.store.Delete(requestID)
		return "", fmt.Errorf("send verification email: %w", domain.ErrDelivery)
	}
	return requestID, nil
}

func (s *service) VerifyCode(ctx context.Context, purpose domain.Purpose, req VerifyCodeRequest) (*AuthResult, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}

	// Take removes the record no matter how the checks below turn out.
	// A mismatched purpose or a wrong code therefore burns the OTP: one
	// attempt per issued code, retries need a fresh RequestCode.
	rec, ok := s.store.Take(req.RequestID)
	if !ok {
		return nil, ErrUnknownOrExpired
	}
	if time.Now().After(rec.ExpiresAt) {
		return nil, ErrExpired
	}
	if rec.Purpose != purpose {
		return nil, ErrWrongPurpose
	}
	if rec.Code != req.Code {
		return nil, ErrCodeMismatch
	}

	var u *domain.User
	switch purpose {
	case domain.PurposeSignup:
		profile := rec.Profile
		if profile == nil {
			profile = &domain.ProfileDraft{}
		}
		now := time.Now().UTC()
		u = &domain.User{
			UserID:      id.New(),
			Email:       rec.Email,
			Name:        profile.Name,
			DateOfBirth: profile.DateOfBirth,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, err
		}
	case domain.PurposeSignin:
		var err error
		u, err = s.users.GetByEmail(ctx, rec.Email)
		if err != nil {
			return nil, fmt.Errorf("no account for this email: %w", domain.ErrNotFound)
		}
	default:
		return nil, fmt.Errorf("unknown purpose %q: %w", purpose, domain.ErrBadRequest)
	}

	bearer, err := s.tokens.Sign(u.UserID, u.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Bearer: bearer, User: u}, nil
}

func (s *service) CheckToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired token: %w", domain.ErrUnauthorized)
	}
	return s.users.Get(ctx, claims.UserID)
}

const otpSubject = "Your OTP for HD Account"

func otpBody(name, code string) string {
	return fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"Your One-Time Password (OTP) for HD account verification is: %s\r\n\r\n"+
			"This OTP is valid for 10 minutes. Please do not share this code with anyone.\r\n"+
			"If you didn't request this OTP, please ignore this email.\r\n",
		name, code)
}
