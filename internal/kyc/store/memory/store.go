// Package memory provides an in-memory KYC entry store for tests and local
// runs. It honors the same sentinel-error contract as the PostgreSQL store,
// including uniqueness of user_email.
package memory

import (
	"context"
	"sync"
	"time"

	"kyc-service/internal/kyc/models"
	"kyc-service/pkg/platform/sentinel"
)

// Store keeps entries in a mutex-guarded map keyed by normalized email.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*models.KYCEntry
	nextID  int64
	clock   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock injects a deterministic clock for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs an empty in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]*models.KYCEntry),
		nextID:  1,
		clock:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) Insert(_ context.Context, entry models.NewKYCEntry) (*models.KYCEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[entry.UserEmail]; exists {
		return nil, sentinel.ErrConflict
	}

	now := s.clock().UTC()
	created := &models.KYCEntry{
		ID:           s.nextID,
		UserEmail:    entry.UserEmail,
		IdentityHash: entry.IdentityHash,
		Status:       entry.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.nextID++
	s.entries[entry.UserEmail] = created

	copied := *created
	return &copied, nil
}

func (s *Store) FindByEmail(_ context.Context, userEmail string) (*models.KYCEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found, ok := s.entries[userEmail]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *found
	return &copied, nil
}

func (s *Store) UpdateStatus(_ context.Context, userEmail, status string) (*models.KYCEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found, ok := s.entries[userEmail]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	found.Status = status
	found.UpdatedAt = s.clock().UTC()

	copied := *found
	return &copied, nil
}

func (s *Store) DeleteByEmail(_ context.Context, userEmail string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[userEmail]; !ok {
		return 0, nil
	}
	delete(s.entries, userEmail)
	return 1, nil
}
