package app_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/app"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/config"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain/mocks"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/usecase"
)

func testRouter() http.Handler {
	cfg := config.Config{
		AppEnv:           "test",
		JWTSecret:        "test-secret",
		JWTExpiry:        time.Hour,
		CORSAllowOrigins: "*",
		RateLimitPerMin:  1000,
		HTTPWriteTimeout: 30 * time.Second,
	}
	extraction := usecase.NewExtractionService(&mocks.Generator{}, 6000)
	assessments := usecase.NewAssessmentService(&mocks.AssessmentRepository{}, extraction)
	candidates := usecase.NewCandidateService(
		&mocks.AssessmentRepository{}, &mocks.CandidateRepository{}, &mocks.ResponseRepository{},
		&mocks.ScoringQueue{}, usecase.NewRescoreLimiter(10*time.Second))

	return app.NewRouter(cfg, app.Handlers{
		Auth:        httpserver.NewAuthHandler(&mocks.UserRepository{}, cfg),
		Assessments: httpserver.NewAssessmentHandler(assessments, candidates),
		Candidates:  httpserver.NewCandidateHandler(assessments, candidates),
		Internal:    httpserver.NewInternalHandler(extraction, "secret"),
	}, nil)
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouter_HealthAndReadiness(t *testing.T) {
	t.Parallel()

	r := testRouter()
	assert.Equal(t, http.StatusOK, get(r, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(r, "/readyz").Code)
	assert.Equal(t, http.StatusOK, get(r, "/metrics").Code)
}

func TestRouter_RecruiterRoutesRequireAuth(t *testing.T) {
	t.Parallel()

	r := testRouter()
	for _, path := range []string{"/v1/assessments", "/v1/dashboard", "/v1/auth/me"} {
		assert.Equal(t, http.StatusUnauthorized, get(r, path).Code, path)
	}
}

func TestRouter_InternalRoutesRequireKey(t *testing.T) {
	t.Parallel()

	r := testRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/internal/v1/exams", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_SecurityHeadersApplied(t *testing.T) {
	t.Parallel()

	rec := get(testRouter(), "/healthz")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
