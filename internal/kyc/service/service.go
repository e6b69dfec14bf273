// Package service implements the KYC record operations: create, look up by
// email, update status, delete. All input validation happens here, before any
// store call; the store's sentinel errors are translated into domain errors
// so transport code only ever sees tagged, caller-safe failures.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"kyc-service/internal/kyc/metrics"
	"kyc-service/internal/kyc/models"
	"kyc-service/internal/kyc/store"
	dErrors "kyc-service/pkg/domain-errors"
	"kyc-service/pkg/email"
	"kyc-service/pkg/platform/sentinel"
)

// Service orchestrates KYC entry management over a pluggable store.
type Service struct {
	entries store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the module metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs a Service.
func New(entries store.Store, opts ...Option) *Service {
	s := &Service{
		entries: entries,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and persists a new entry. A duplicate user_email fails
// with CodeConflict; the uniqueness decision belongs to the store so there is
// no check-then-insert window here.
func (s *Service) Create(ctx context.Context, entry models.NewKYCEntry) (*models.KYCEntry, error) {
	start := time.Now()

	if err := entry.Validate(); err != nil {
		s.logger.WarnContext(ctx, "rejected kyc entry",
			"user_email", entry.UserEmail,
			"reason", err.Error(),
		)
		// Convert invariant violations to validation errors for the API response.
		return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}

	created, err := s.entries.Insert(ctx, entry.Normalized())
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.logger.WarnContext(ctx, "kyc entry already registered", "user_email", entry.UserEmail)
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		s.logger.ErrorContext(ctx, "failed to create kyc entry",
			"user_email", entry.UserEmail,
			"error", err.Error(),
		)
		return nil, s.translateStoreError(err, "failed to create kyc entry")
	}

	s.logger.InfoContext(ctx, "kyc entry created",
		"user_email", created.UserEmail,
		"entry_id", created.ID,
	)
	s.observeCreate(start)
	return created, nil
}

// GetByEmail returns the entry for the given email. Absence is a normal
// outcome and surfaces as CodeNotFound, not as a logged failure.
func (s *Service) GetByEmail(ctx context.Context, userEmail string) (*models.KYCEntry, error) {
	start := time.Now()

	if err := validateEmail(userEmail); err != nil {
		return nil, err
	}

	found, err := s.entries.FindByEmail(ctx, email.Normalize(userEmail))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "KYC não encontrado")
		}
		s.logger.ErrorContext(ctx, "failed to look up kyc entry",
			"user_email", userEmail,
			"error", err.Error(),
		)
		return nil, s.translateStoreError(err, "failed to look up kyc entry")
	}

	s.observeGet(start)
	return found, nil
}

// UpdateStatus sets the status of the matching entry. Any non-empty status
// string is accepted and any transition is allowed.
func (s *Service) UpdateStatus(ctx context.Context, userEmail, status string) (*models.KYCEntry, error) {
	start := time.Now()

	if err := validateEmail(userEmail); err != nil {
		return nil, err
	}
	if strings.TrimSpace(status) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "status is required")
	}

	updated, err := s.entries.UpdateStatus(ctx, email.Normalize(userEmail), strings.TrimSpace(status))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "kyc entry not found")
		}
		s.logger.ErrorContext(ctx, "failed to update kyc status",
			"user_email", userEmail,
			"error", err.Error(),
		)
		return nil, s.translateStoreError(err, "failed to update kyc status")
	}

	s.logger.InfoContext(ctx, "kyc status updated",
		"user_email", updated.UserEmail,
		"status", updated.Status,
	)
	s.observeUpdate(start)
	return updated, nil
}

// DeleteByEmail removes the matching entry. Zero affected rows means there
// was nothing to delete and fails with CodeNotFound.
func (s *Service) DeleteByEmail(ctx context.Context, userEmail string) error {
	start := time.Now()

	if err := validateEmail(userEmail); err != nil {
		return err
	}

	affected, err := s.entries.DeleteByEmail(ctx, email.Normalize(userEmail))
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete kyc entry",
			"user_email", userEmail,
			"error", err.Error(),
		)
		return s.translateStoreError(err, "failed to delete kyc entry")
	}
	if affected == 0 {
		return dErrors.New(dErrors.CodeNotFound, "kyc entry not found")
	}

	s.logger.InfoContext(ctx, "kyc entry deleted", "user_email", userEmail)
	s.incrementDeleted()
	s.observeDelete(start)
	return nil
}

func validateEmail(userEmail string) error {
	if strings.TrimSpace(userEmail) == "" {
		return dErrors.New(dErrors.CodeValidation, "user_email is required")
	}
	if !email.Valid(userEmail) {
		return dErrors.New(dErrors.CodeValidation, "user_email is not a valid email address")
	}
	return nil
}

// translateStoreError maps remaining sentinel errors to domain errors with a
// sanitized message; raw store error text stays out of API responses.
func (s *Service) translateStoreError(err error, message string) error {
	switch {
	case errors.Is(err, sentinel.ErrTimeout):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "storage deadline exceeded")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "storage unavailable")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, message)
	}
}

func (s *Service) observeCreate(start time.Time) {
	if s.metrics != nil {
		s.metrics.IncrementEntriesCreated()
		s.metrics.ObserveCreate(start)
	}
}

func (s *Service) observeGet(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveGet(start)
	}
}

func (s *Service) observeUpdate(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveUpdate(start)
	}
}

func (s *Service) incrementDeleted() {
	if s.metrics != nil {
		s.metrics.IncrementEntriesDeleted()
	}
}

func (s *Service) observeDelete(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveDelete(start)
	}
}
