package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/config"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain/mocks"
)

func testCfg() config.Config {
	return config.Config{
		AppEnv:    "test",
		JWTSecret: "test-secret",
		JWTExpiry: time.Hour,
	}
}

func postJSON(t *testing.T, h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(b))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestRegister_CreatesUserAndReturnsToken(t *testing.T) {
	t.Parallel()

	users := &mocks.UserRepository{}
	users.On("Create", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "jo@example.com" && u.PasswordHash != "" && u.PasswordHash != "hunter2secret"
	})).Return("u1", nil)

	h := httpserver.NewAuthHandler(users, testCfg())
	rec := postJSON(t, h.Register, map[string]string{
		"email":     "Jo@Example.com",
		"password":  "hunter2secret",
		"full_name": "Jo Doe",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestRegister_WeakPasswordRejected(t *testing.T) {
	t.Parallel()

	h := httpserver.NewAuthHandler(&mocks.UserRepository{}, testCfg())
	rec := postJSON(t, h.Register, map[string]string{
		"email":     "jo@example.com",
		"password":  "short",
		"full_name": "Jo",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	t.Parallel()

	users := &mocks.UserRepository{}
	users.On("Create", mock.Anything, mock.Anything).Return("", domain.ErrConflict)

	h := httpserver.NewAuthHandler(users, testCfg())
	rec := postJSON(t, h.Register, map[string]string{
		"email":     "jo@example.com",
		"password":  "hunter2secret",
		"full_name": "Jo",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin_ValidCredentials(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2secret"), bcrypt.MinCost)
	require.NoError(t, err)
	users := &mocks.UserRepository{}
	users.On("FindByEmail", mock.Anything, "jo@example.com").
		Return(domain.User{ID: "u1", Email: "jo@example.com", PasswordHash: string(hash)}, nil)

	h := httpserver.NewAuthHandler(users, testCfg())
	rec := postJSON(t, h.Login, map[string]string{
		"email":    "jo@example.com",
		"password": "hunter2secret",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	t.Parallel()

	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	users := &mocks.UserRepository{}
	users.On("FindByEmail", mock.Anything, "known@example.com").
		Return(domain.User{ID: "u1", PasswordHash: string(hash)}, nil)
	users.On("FindByEmail", mock.Anything, "unknown@example.com").
		Return(domain.User{}, domain.ErrNotFound)

	h := httpserver.NewAuthHandler(users, testCfg())

	wrongPass := postJSON(t, h.Login, map[string]string{"email": "known@example.com", "password": "wrongwrong"})
	unknown := postJSON(t, h.Login, map[string]string{"email": "unknown@example.com", "password": "whatever"})

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.JSONEq(t, wrongPass.Body.String(), unknown.Body.String())
}

func TestRequireRecruiter_RoundTrip(t *testing.T) {
	t.Parallel()

	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2secret"), bcrypt.MinCost)
	users := &mocks.UserRepository{}
	users.On("FindByEmail", mock.Anything, "jo@example.com").
		Return(domain.User{ID: "u1", PasswordHash: string(hash)}, nil)

	h := httpserver.NewAuthHandler(users, testCfg())
	rec := postJSON(t, h.Login, map[string]string{"email": "jo@example.com", "password": "hunter2secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	var gotUserID string
	protected := h.RequireRecruiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = httpserver.UserIDFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	out := httptest.NewRecorder()
	protected.ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)
	assert.Equal(t, "u1", gotUserID)
}

func TestRequireRecruiter_RejectsBadTokens(t *testing.T) {
	t.Parallel()

	h := httpserver.NewAuthHandler(&mocks.UserRepository{}, testCfg())
	protected := h.RequireRecruiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	for _, header := range []string{"", "Bearer garbage", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		out := httptest.NewRecorder()
		protected.ServeHTTP(out, req)
		assert.Equal(t, http.StatusUnauthorized, out.Code, "header %q", header)
	}
}
