package models

import (
	"strings"
	"time"

	dErrors "kyc-service/pkg/domain-errors"
	"kyc-service/pkg/email"
)

// KYCEntry is one persisted identity-verification record. The id is assigned
// by the store and never changes; user_email is the natural key and is unique
// across entries.
type KYCEntry struct {
	ID           int64     `json:"id"`
	UserEmail    string    `json:"user_email"`
	IdentityHash string    `json:"identity_hash"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewKYCEntry is the creation input. IDs and timestamps are assigned by the
// store at insertion.
type NewKYCEntry struct {
	UserEmail    string `json:"user_email"`
	IdentityHash string `json:"identity_hash"`
	Status       string `json:"status"`
}

// Validate checks the creation invariants: a well-formed email address and
// non-empty identity hash and status. Violations carry CodeInvariantViolation;
// the service edge converts them to validation errors for the API response.
func (e NewKYCEntry) Validate() error {
	if strings.TrimSpace(e.UserEmail) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "user_email is required")
	}
	if !email.Valid(e.UserEmail) {
		return dErrors.New(dErrors.CodeInvariantViolation, "user_email is not a valid email address")
	}
	if strings.TrimSpace(e.IdentityHash) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "identity_hash is required")
	}
	if strings.TrimSpace(e.Status) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "status is required")
	}
	return nil
}

// Normalized returns a copy with the email canonicalized and fields trimmed,
// ready for storage.
func (e NewKYCEntry) Normalized() NewKYCEntry {
	return NewKYCEntry{
		UserEmail:    email.Normalize(e.UserEmail),
		IdentityHash: strings.TrimSpace(e.IdentityHash),
		Status:       strings.TrimSpace(e.Status),
	}
}
