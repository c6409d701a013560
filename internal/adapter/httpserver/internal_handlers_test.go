package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain/mocks"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/usecase"
)

func internalHandler(gen *mocks.Generator, key string) *httpserver.InternalHandler {
	return httpserver.NewInternalHandler(usecase.NewExtractionService(gen, 6000), key)
}

func TestRequireInternalKey(t *testing.T) {
	t.Parallel()

	h := internalHandler(&mocks.Generator{}, "secret")
	guarded := h.RequireInternalKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/internal/v1/exams", nil)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code, "missing key")

	req = httptest.NewRequest(http.MethodPost, "/internal/v1/exams", nil)
	req.Header.Set("X-Internal-Key", "wrong")
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code, "wrong key")

	req = httptest.NewRequest(http.MethodPost, "/internal/v1/exams", nil)
	req.Header.Set("X-Internal-Key", "secret")
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "correct key")
}

func TestRequireInternalKey_EmptyConfiguredKeyClosesAPI(t *testing.T) {
	t.Parallel()

	h := internalHandler(&mocks.Generator{}, "")
	guarded := h.RequireInternalKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/internal/v1/exams", nil)
	req.Header.Set("X-Internal-Key", "")
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGenerateExam_ReturnsProfileAndQuestions(t *testing.T) {
	t.Parallel()

	gen := &mocks.Generator{}
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return bytes.Contains([]byte(p), []byte("Parse this job description"))
	}), mock.Anything).Return(`{"role_title":"QA Engineer","seniority_level":"mid"}`, nil)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return bytes.Contains([]byte(p), []byte("interview questions"))
	}), mock.Anything).Return(`[{"type":"SHORT_ANSWER","question_text":"Q?","max_score":10}]`, nil)

	h := internalHandler(gen, "secret")
	body, _ := json.Marshal(map[string]any{"job_description": "We need a QA engineer...", "question_count": 5})
	req := httptest.NewRequest(http.MethodPost, "/internal/v1/exams", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.GenerateExam(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Profile   map[string]any   `json:"job_profile"`
		Questions []map[string]any `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "QA Engineer", resp.Profile["role_title"])
	require.Len(t, resp.Questions, 1)
	assert.Equal(t, "SHORT_ANSWER", resp.Questions[0]["type"])
}

func TestGradeOpenEnded_ScoresWithoutPersisting(t *testing.T) {
	t.Parallel()

	gen := &mocks.Generator{}
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"score": 9, "reasoning": "thorough", "strengths": ["depth"], "gaps": []}`, nil)

	h := internalHandler(gen, "secret")
	body, _ := json.Marshal(map[string]any{
		"question_text": "Explain indexing.",
		"answer_text":   "B-tree indexes speed up lookups...",
		"max_score":     10,
	})
	req := httptest.NewRequest(http.MethodPost, "/internal/v1/grades", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.GradeOpenEnded(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Score     float64 `json:"score"`
		Reasoning string  `json:"reasoning"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 9.0, resp.Score)
	assert.Equal(t, "thorough", resp.Reasoning)
}
