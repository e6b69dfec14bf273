// Package postgres persists KYC entries in PostgreSQL on a shared *sql.DB
// pool. Uniqueness of user_email is enforced by the kyc_entries_user_email_key
// index, not by a client-side pre-check, so concurrent inserts for the same
// address cannot both succeed.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"kyc-service/internal/kyc/models"
	"kyc-service/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL error code for unique-constraint failures.
const uniqueViolation = "23505"

// Store is a PostgreSQL-backed KYC entry store.
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithQueryTimeout bounds each statement independently of the request
// deadline. Zero disables the per-query bound.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Store) { s.queryTimeout = d }
}

// New constructs a PostgreSQL-backed store on the given pool.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, queryTimeout: 5 * time.Second}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

const entryColumns = `id, user_email, identity_hash, status, created_at, updated_at`

func scanEntry(row *sql.Row) (*models.KYCEntry, error) {
	var e models.KYCEntry
	err := row.Scan(&e.ID, &e.UserEmail, &e.IdentityHash, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return &e, nil
}

// translate maps driver-level failures onto the sentinel contract.
func translate(op string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, sentinel.ErrNotFound)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, sentinel.ErrTimeout)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Insert persists a new entry. created_at and updated_at are assigned by the
// database so the returned row is authoritative.
func (s *Store) Insert(ctx context.Context, entry models.NewKYCEntry) (*models.KYCEntry, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	query := `
		INSERT INTO kyc_entries (user_email, identity_hash, status, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING ` + entryColumns
	created, err := scanEntry(s.db.QueryRowContext(ctx, query, entry.UserEmail, entry.IdentityHash, entry.Status))
	if err != nil {
		return nil, translate("insert kyc entry", err)
	}
	return created, nil
}

// FindByEmail returns the entry for the given normalized email.
func (s *Store) FindByEmail(ctx context.Context, userEmail string) (*models.KYCEntry, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	query := `SELECT ` + entryColumns + ` FROM kyc_entries WHERE user_email = $1`
	found, err := scanEntry(s.db.QueryRowContext(ctx, query, userEmail))
	if err != nil {
		return nil, translate("find kyc entry", err)
	}
	return found, nil
}

// UpdateStatus sets the status for the matching entry and refreshes
// updated_at in the same statement.
func (s *Store) UpdateStatus(ctx context.Context, userEmail, status string) (*models.KYCEntry, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	query := `
		UPDATE kyc_entries
		SET status = $2, updated_at = now()
		WHERE user_email = $1
		RETURNING ` + entryColumns
	updated, err := scanEntry(s.db.QueryRowContext(ctx, query, userEmail, status))
	if err != nil {
		return nil, translate("update kyc status", err)
	}
	return updated, nil
}

// DeleteByEmail removes matching entries and reports the affected-row count.
func (s *Store) DeleteByEmail(ctx context.Context, userEmail string) (int64, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM kyc_entries WHERE user_email = $1`, userEmail)
	if err != nil {
		return 0, translate("delete kyc entry", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, translate("delete kyc entry", err)
	}
	return affected, nil
}
