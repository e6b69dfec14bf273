// Package handler is the thin HTTP layer over the KYC record service. It
// delegates to the Service interface without embedding business rules so
// transport concerns remain isolated; the shallow emptiness checks here only
// mirror the service's own validation.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"kyc-service/internal/kyc/models"
	"kyc-service/internal/platform/middleware"
	dErrors "kyc-service/pkg/domain-errors"
)

// Service defines the record operations the HTTP layer depends on.
type Service interface {
	Create(ctx context.Context, entry models.NewKYCEntry) (*models.KYCEntry, error)
	GetByEmail(ctx context.Context, userEmail string) (*models.KYCEntry, error)
	UpdateStatus(ctx context.Context, userEmail, status string) (*models.KYCEntry, error)
	DeleteByEmail(ctx context.Context, userEmail string) error
}

// Handler handles the /kyc endpoints.
type Handler struct {
	logger  *slog.Logger
	entries Service
}

// New creates a KYC Handler.
func New(entries Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, entries: entries}
}

// Register mounts the KYC routes with their middleware chain on r.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(kycRouter chi.Router) {
		kycRouter.Use(middleware.Recovery(h.logger))
		kycRouter.Use(middleware.RequestID)
		kycRouter.Use(middleware.Logger(h.logger))
		kycRouter.Use(middleware.Timeout(30 * time.Second))
		kycRouter.Post("/kyc", h.handleCreate)
		kycRouter.Get("/kyc/{email}", h.handleGet)
		kycRouter.Put("/kyc/{email}/{status}", h.handleUpdateStatus)
		kycRouter.Delete("/kyc/{email}", h.handleDelete)
	})
}

// handleCreate creates a new KYC entry from a JSON body.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var entry models.NewKYCEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		h.logger.WarnContext(ctx, "invalid create kyc request",
			"request_id", requestID,
			"error", err.Error(),
		)
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	// Mirror of the service's emptiness validation, not its source of truth.
	if strings.TrimSpace(entry.UserEmail) == "" || strings.TrimSpace(entry.IdentityHash) == "" {
		h.logger.WarnContext(ctx, "create kyc request with empty fields", "request_id", requestID)
		writeError(w, dErrors.New(dErrors.CodeValidation, "user_email and identity_hash are required"))
		return
	}

	created, err := h.entries.Create(ctx, entry)
	if err != nil {
		h.respondError(ctx, w, err, "failed to create kyc entry")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleGet looks up a KYC entry by its email path parameter.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userEmail := chi.URLParam(r, "email")

	if strings.TrimSpace(userEmail) == "" {
		writeError(w, dErrors.New(dErrors.CodeValidation, "email must not be empty"))
		return
	}

	found, err := h.entries.GetByEmail(ctx, userEmail)
	if err != nil {
		h.respondError(ctx, w, err, "failed to look up kyc entry")
		return
	}

	writeJSON(w, http.StatusOK, found)
}

// handleUpdateStatus sets the status of an existing entry.
func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userEmail := chi.URLParam(r, "email")
	status := chi.URLParam(r, "status")

	if strings.TrimSpace(userEmail) == "" || strings.TrimSpace(status) == "" {
		writeError(w, dErrors.New(dErrors.CodeValidation, "email and status must not be empty"))
		return
	}

	updated, err := h.entries.UpdateStatus(ctx, userEmail, status)
	if err != nil {
		h.respondError(ctx, w, err, "failed to update kyc status")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleDelete removes an entry and confirms with a message object.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userEmail := chi.URLParam(r, "email")

	if strings.TrimSpace(userEmail) == "" {
		writeError(w, dErrors.New(dErrors.CodeValidation, "email must not be empty"))
		return
	}

	if err := h.entries.DeleteByEmail(ctx, userEmail); err != nil {
		h.respondError(ctx, w, err, "failed to delete kyc entry")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "kyc entry deleted"})
}

// respondError logs server-side failures and renders the tagged error. Client
// errors (validation, not-found, conflict) pass through without error-level
// noise.
func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, err error, logMessage string) {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeValidation, dErrors.CodeBadRequest, dErrors.CodeNotFound, dErrors.CodeConflict:
		writeError(w, err)
	default:
		h.logger.ErrorContext(ctx, logMessage,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		writeError(w, err)
	}
}
