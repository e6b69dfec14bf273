package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"kyc-service/internal/kyc/handler/mocks"
	"kyc-service/internal/kyc/models"
	dErrors "kyc-service/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/kyc-mocks.go -package=mocks Service
type KYCHandlerSuite struct {
	suite.Suite
}

func TestKYCHandlerSuite(t *testing.T) {
	suite.Run(t, new(KYCHandlerSuite))
}

func newTestRouter(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(mockService, logger).Register(r)
	return r, mockService
}

func sampleEntry() *models.KYCEntry {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &models.KYCEntry{
		ID:           7,
		UserEmail:    "a@b.com",
		IdentityHash: "h1",
		Status:       "pending",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (s *KYCHandlerSuite) TestHandleCreate() {
	s.Run("created entry renders 201 with assigned id", func() {
		r, mockService := newTestRouter(s.T())
		input := models.NewKYCEntry{UserEmail: "a@b.com", IdentityHash: "h1", Status: "pending"}
		mockService.EXPECT().Create(gomock.Any(), input).Return(sampleEntry(), nil)

		payload, err := json.Marshal(input)
		require.NoError(s.T(), err)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/kyc", bytes.NewReader(payload)))

		assert.Equal(s.T(), http.StatusCreated, w.Code)
		body := decodeBody(s.T(), w)
		assert.Equal(s.T(), float64(7), body["id"])
		assert.Equal(s.T(), "a@b.com", body["user_email"])
		assert.Equal(s.T(), "pending", body["status"])
	})

	s.Run("malformed JSON renders 400", func() {
		r, _ := newTestRouter(s.T())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/kyc", bytes.NewReader([]byte("{not json"))))

		assert.Equal(s.T(), http.StatusBadRequest, w.Code)
		assert.Equal(s.T(), "invalid request body", decodeBody(s.T(), w)["error"])
	})

	s.Run("empty fields are rejected before the service is called", func() {
		r, _ := newTestRouter(s.T())
		payload, err := json.Marshal(models.NewKYCEntry{Status: "pending"})
		require.NoError(s.T(), err)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/kyc", bytes.NewReader(payload)))

		assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	})

	s.Run("duplicate email renders 409", func() {
		r, mockService := newTestRouter(s.T())
		mockService.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "email already registered"))

		payload, err := json.Marshal(models.NewKYCEntry{UserEmail: "a@b.com", IdentityHash: "h1", Status: "pending"})
		require.NoError(s.T(), err)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/kyc", bytes.NewReader(payload)))

		assert.Equal(s.T(), http.StatusConflict, w.Code)
		assert.Equal(s.T(), "email already registered", decodeBody(s.T(), w)["error"])
	})

	s.Run("store failure renders sanitized 500", func() {
		r, mockService := newTestRouter(s.T())
		cause := dErrors.Wrap(assert.AnError, dErrors.CodeInternal, "failed to create kyc entry")
		mockService.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, cause)

		payload, err := json.Marshal(models.NewKYCEntry{UserEmail: "a@b.com", IdentityHash: "h1", Status: "pending"})
		require.NoError(s.T(), err)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/kyc", bytes.NewReader(payload)))

		assert.Equal(s.T(), http.StatusInternalServerError, w.Code)
		// The raw cause must never appear in the response body.
		assert.NotContains(s.T(), w.Body.String(), assert.AnError.Error())
		assert.Equal(s.T(), "failed to create kyc entry", decodeBody(s.T(), w)["error"])
	})
}

func (s *KYCHandlerSuite) TestHandleGet() {
	s.Run("existing entry renders 200", func() {
		r, mockService := newTestRouter(s.T())
		mockService.EXPECT().GetByEmail(gomock.Any(), "a@b.com").Return(sampleEntry(), nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/kyc/a@b.com", nil))

		assert.Equal(s.T(), http.StatusOK, w.Code)
		assert.Equal(s.T(), float64(7), decodeBody(s.T(), w)["id"])
	})

	s.Run("absent entry renders 404", func() {
		r, mockService := newTestRouter(s.T())
		mockService.EXPECT().GetByEmail(gomock.Any(), "missing@example.com").
			Return(nil, dErrors.New(dErrors.CodeNotFound, "KYC não encontrado"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/kyc/missing@example.com", nil))

		assert.Equal(s.T(), http.StatusNotFound, w.Code)
		assert.Equal(s.T(), "KYC não encontrado", decodeBody(s.T(), w)["error"])
	})

	s.Run("invalid email renders 400", func() {
		r, mockService := newTestRouter(s.T())
		mockService.EXPECT().GetByEmail(gomock.Any(), "not-an-email").
			Return(nil, dErrors.New(dErrors.CodeValidation, "user_email is not a valid email address"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/kyc/not-an-email", nil))

		assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	})
}

func (s *KYCHandlerSuite) TestHandleUpdateStatus() {
	s.Run("updated entry renders 200", func() {
		r, mockService := newTestRouter(s.T())
		updated := sampleEntry()
		updated.Status = "verified"
		mockService.EXPECT().UpdateStatus(gomock.Any(), "a@b.com", "verified").Return(updated, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/kyc/a@b.com/verified", nil))

		assert.Equal(s.T(), http.StatusOK, w.Code)
		body := decodeBody(s.T(), w)
		assert.Equal(s.T(), "verified", body["status"])
		assert.Equal(s.T(), float64(7), body["id"])
	})

	s.Run("absent entry renders 404", func() {
		r, mockService := newTestRouter(s.T())
		mockService.EXPECT().UpdateStatus(gomock.Any(), "missing@example.com", "verified").
			Return(nil, dErrors.New(dErrors.CodeNotFound, "kyc entry not found"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/kyc/missing@example.com/verified", nil))

		assert.Equal(s.T(), http.StatusNotFound, w.Code)
	})
}

func (s *KYCHandlerSuite) TestHandleDelete() {
	s.Run("deletion renders confirmation message", func() {
		r, mockService := newTestRouter(s.T())
		mockService.EXPECT().DeleteByEmail(gomock.Any(), "a@b.com").Return(nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/kyc/a@b.com", nil))

		assert.Equal(s.T(), http.StatusOK, w.Code)
		assert.Equal(s.T(), "kyc entry deleted", decodeBody(s.T(), w)["message"])
	})

	s.Run("nothing to delete renders 404", func() {
		r, mockService := newTestRouter(s.T())
		mockService.EXPECT().DeleteByEmail(gomock.Any(), "missing@example.com").
			Return(dErrors.New(dErrors.CodeNotFound, "kyc entry not found"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/kyc/missing@example.com", nil))

		assert.Equal(s.T(), http.StatusNotFound, w.Code)
	})
}

func (s *KYCHandlerSuite) TestRequestIDHeaderIsEchoed() {
	r, mockService := newTestRouter(s.T())
	mockService.EXPECT().GetByEmail(gomock.Any(), "a@b.com").Return(sampleEntry(), nil)

	req := httptest.NewRequest(http.MethodGet, "/kyc/a@b.com", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(s.T(), "req-123", w.Header().Get("X-Request-Id"))
}
