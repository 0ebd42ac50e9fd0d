package domain

import "time"

// Purpose tags whether a pending verification belongs to account creation
// or existing-account login. A code issued for one purpose is not valid
// for the other.
type Purpose string

const (
	PurposeSignup Purpose = "signup"
	PurposeSignin Purpose = "signin"
)

// ProfileDraft carries the signup-only profile fields from code issuance
// to account creation. Absent for signin verifications.
type ProfileDraft struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD
}

// PendingVerification correlates an issued OTP with the identity claim it
// is meant to prove. Records live only in the process-local store, keyed by
// RequestID, and are removed on consumption or once past ExpiresAt.
type PendingVerification struct {
	RequestID string
	Code      string
	Email     string
	Purpose   Purpose
	Profile   *ProfileDraft
	CreatedAt time.Time
	ExpiresAt time.Time
}
