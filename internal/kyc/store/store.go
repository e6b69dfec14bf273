// Package store defines the persistence contract for KYC entries. Concrete
// implementations live in the postgres, memory and cached subpackages; all of
// them speak the same sentinel-error contract so the service layer never cares
// which one it was wired with.
package store

import (
	"context"

	"kyc-service/internal/kyc/models"
)

// Store is the persistence boundary for KYC entries.
//
// Error contract: lookups and updates that match no row return
// sentinel.ErrNotFound; inserts that collide with an existing user_email
// return sentinel.ErrConflict; deadline hits return sentinel.ErrTimeout.
// Emails passed in must already be normalized (see pkg/email).
type Store interface {
	// Insert persists a new entry and returns it with id and timestamps
	// assigned.
	Insert(ctx context.Context, entry models.NewKYCEntry) (*models.KYCEntry, error)
	// FindByEmail returns the entry for the given email.
	FindByEmail(ctx context.Context, userEmail string) (*models.KYCEntry, error)
	// UpdateStatus sets the status of the entry matching the email and
	// returns the refreshed row.
	UpdateStatus(ctx context.Context, userEmail, status string) (*models.KYCEntry, error)
	// DeleteByEmail removes all entries matching the email and reports how
	// many rows were affected. Zero affected rows is not an error here; the
	// service decides what that means.
	DeleteByEmail(ctx context.Context, userEmail string) (int64, error)
}
