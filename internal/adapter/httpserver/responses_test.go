package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain/mocks"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/usecase"
)

// errorStatus exercises the sentinel-to-status mapping through a real handler.
func TestErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid argument", domain.ErrInvalidArgument, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"conflict", domain.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"generation down", domain.ErrGenerationUnavailable, http.StatusServiceUnavailable, "GENERATION_UNAVAILABLE"},
		{"unknown", assertableErr{}, http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := &mocks.AssessmentRepository{}
			repo.On("Get", mock.Anything, "a1", mock.Anything).
				Return(domain.Assessment{}, tc.err)
			gen := &mocks.Generator{}
			svc := usecase.NewAssessmentService(repo, usecase.NewExtractionService(gen, 6000))
			h := httpserver.NewAssessmentHandler(svc, usecase.CandidateService{})

			req := httptest.NewRequest(http.MethodGet, "/v1/assessments/a1", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "a1")
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rec := httptest.NewRecorder()
			h.Get(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantCode, body.Error.Code)
		})
	}
}

type assertableErr struct{}

func (assertableErr) Error() string { return "something unexpected" }

func TestInternalErrorsAreMasked(t *testing.T) {
	t.Parallel()

	repo := &mocks.AssessmentRepository{}
	repo.On("Get", mock.Anything, "a1", mock.Anything).
		Return(domain.Assessment{}, assertableErr{})
	svc := usecase.NewAssessmentService(repo, usecase.NewExtractionService(&mocks.Generator{}, 6000))
	h := httpserver.NewAssessmentHandler(svc, usecase.CandidateService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/assessments/a1", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "a1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.NotContains(t, rec.Body.String(), "something unexpected",
		"internal error details must not leak to clients")
}
