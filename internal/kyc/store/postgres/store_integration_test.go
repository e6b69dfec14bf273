//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"kyc-service/internal/kyc/models"
	"kyc-service/internal/kyc/store/postgres"
	"kyc-service/pkg/platform/sentinel"
	"kyc-service/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "kyc_entries"))
}

func newTestEntry(userEmail string) models.NewKYCEntry {
	return models.NewKYCEntry{
		UserEmail:    userEmail,
		IdentityHash: "h1",
		Status:       "pending",
	}
}

func (s *PostgresStoreSuite) TestInsertReturnsAuthoritativeRow() {
	ctx := context.Background()

	created, err := s.store.Insert(ctx, newTestEntry("a@b.com"))
	s.Require().NoError(err)

	s.NotZero(created.ID)
	s.Equal("a@b.com", created.UserEmail)
	s.Equal("h1", created.IdentityHash)
	s.Equal("pending", created.Status)
	s.False(created.CreatedAt.IsZero())
	s.Equal(created.CreatedAt, created.UpdatedAt)
}

func (s *PostgresStoreSuite) TestReadAfterWrite() {
	ctx := context.Background()

	created, err := s.store.Insert(ctx, newTestEntry("a@b.com"))
	s.Require().NoError(err)

	found, err := s.store.FindByEmail(ctx, "a@b.com")
	s.Require().NoError(err)
	s.Equal(created.ID, found.ID)
	s.Equal(created.IdentityHash, found.IdentityHash)
}

func (s *PostgresStoreSuite) TestFindMissingReturnsNotFound() {
	_, err := s.store.FindByEmail(context.Background(), "missing@example.com")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdateStatusRefreshesUpdatedAt() {
	ctx := context.Background()

	created, err := s.store.Insert(ctx, newTestEntry("a@b.com"))
	s.Require().NoError(err)

	updated, err := s.store.UpdateStatus(ctx, "a@b.com", "verified")
	s.Require().NoError(err)

	s.Equal(created.ID, updated.ID)
	s.Equal("verified", updated.Status)
	s.Equal(created.CreatedAt, updated.CreatedAt)
	s.False(updated.UpdatedAt.Before(created.UpdatedAt))

	_, err = s.store.UpdateStatus(ctx, "missing@example.com", "verified")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDeleteReportsAffectedRows() {
	ctx := context.Background()

	_, err := s.store.Insert(ctx, newTestEntry("a@b.com"))
	s.Require().NoError(err)

	affected, err := s.store.DeleteByEmail(ctx, "a@b.com")
	s.Require().NoError(err)
	s.Equal(int64(1), affected)

	affected, err = s.store.DeleteByEmail(ctx, "a@b.com")
	s.Require().NoError(err)
	s.Zero(affected)

	_, err = s.store.FindByEmail(ctx, "a@b.com")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentInsertUniqueViolation verifies that concurrent creates for
// the same email result in exactly one success, with every loser seeing
// ErrConflict from the unique index rather than a duplicate row.
func (s *PostgresStoreSuite) TestConcurrentInsertUniqueViolation() {
	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := s.store.Insert(ctx, newTestEntry("race@example.com"))
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrConflict) {
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one insert should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should get conflict")

	found, err := s.store.FindByEmail(ctx, "race@example.com")
	s.Require().NoError(err)
	s.Equal("race@example.com", found.UserEmail)
}
