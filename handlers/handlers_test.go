package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearedforcloud/auth"
	"clearedforcloud/middleware"
	"clearedforcloud/service"
	"clearedforcloud/storage"
	"clearedforcloud/storage/file"
	"clearedforcloud/storage/in_memory"
	"clearedforcloud/storage/models"
)

const testSecret = "handler-test-secret"

type fakeExchanger struct {
	email string
	err   error
}

func (f fakeExchanger) ExchangeEmail(ctx context.Context, code string) (string, error) {
	return f.email, f.err
}

type failingStorage struct{}

func (failingStorage) ListPosts(ctx context.Context) ([]models.Post, error) {
	return nil, errors.New("down")
}

func (failingStorage) AddPost(ctx context.Context, draft models.PostDraft) (models.Post, error) {
	return models.Post{}, errors.New("disk full")
}

func (failingStorage) Close(ctx context.Context) error { return nil }

func newPasswordHandler(t *testing.T, s storage.Storage) *HTTPHandler {
	t.Helper()
	check, err := auth.NewPasswordCheck("admin123")
	require.NoError(t, err)
	return &HTTPHandler{
		Posts:    service.NewPostService(s, in_memory.SeedPosts),
		Issuer:   auth.NewTokenIssuer(testSecret, 24*time.Hour),
		Password: check,
	}
}

func newFileStorage(t *testing.T) storage.Storage {
	t.Helper()
	s := file.CreateFileStorage(filepath.Join(t.TempDir(), "data", "blog-posts.json"))
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestHealthCheck(t *testing.T) {
	h := newPasswordHandler(t, in_memory.CreateInMemoryStorage())
	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/maintenance/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLogin(t *testing.T) {
	h := newPasswordHandler(t, in_memory.CreateInMemoryStorage())

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"fallback password", `{"password":"admin123"}`, http.StatusOK, ""},
		{"wrong password", `{"password":"wrong"}`, http.StatusUnauthorized, "Invalid password"},
		{"empty password", `{"password":""}`, http.StatusUnauthorized, "Invalid password"},
		{"bad json", `{"password":`, http.StatusBadRequest, INVALID_REQUEST},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.HandleLogin(rec, httptest.NewRequest(http.MethodPost, "/posts/login", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp map[string]string
			decodeBody(t, rec, &resp)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp["error"])
				assert.NotContains(t, resp, "token")
				return
			}
			claims, err := auth.NewTokenVerifier(testSecret).Verify(resp["token"])
			require.NoError(t, err)
			assert.True(t, claims.IsAdmin)
		})
	}
}

func TestGetPostsFallsBackToSeeds(t *testing.T) {
	h := newPasswordHandler(t, failingStorage{})
	rec := httptest.NewRecorder()
	h.HandleGetPosts(rec, httptest.NewRequest(http.MethodGet, "/posts", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp PostsResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, in_memory.SeedPosts(), resp.Posts)
}

func TestGetPostsSearch(t *testing.T) {
	h := newPasswordHandler(t, in_memory.CreateInMemoryStorage())

	rec := httptest.NewRecorder()
	h.HandleGetPosts(rec, httptest.NewRequest(http.MethodGet, "/posts?q=bootcamp", nil))
	var resp PostsResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, "2", resp.Posts[0].Id)

	rec = httptest.NewRecorder()
	h.HandleGetPosts(rec, httptest.NewRequest(http.MethodGet, "/posts?q=nothing-matches", nil))
	assert.JSONEq(t, `{"posts":[]}`, rec.Body.String())
}

func TestCreatePost(t *testing.T) {
	h := newPasswordHandler(t, newFileStorage(t))

	rec := httptest.NewRecorder()
	h.HandleCreatePost(rec, httptest.NewRequest(http.MethodPost, "/posts",
		strings.NewReader(`{"title":"T","category":"General","body":"B","date":"1999-01-01","id":"42"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CreatePostResponse
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "B", resp.Post.Body)
	assert.Equal(t, time.Now().UTC().Format(models.DateLayout), resp.Post.Date)
	assert.NotEqual(t, "42", resp.Post.Id)

	rec = httptest.NewRecorder()
	h.HandleGetPosts(rec, httptest.NewRequest(http.MethodGet, "/posts", nil))
	var list PostsResponse
	decodeBody(t, rec, &list)
	require.Len(t, list.Posts, 1)
	assert.Equal(t, resp.Post, list.Posts[0])
}

func TestCreatePostErrors(t *testing.T) {
	tests := []struct {
		name       string
		storage    storage.Storage
		body       string
		wantStatus int
		wantError  string
	}{
		{"missing body", in_memory.CreateInMemoryStorage(), `{"title":"T","category":"General"}`, http.StatusBadRequest, "Missing required fields"},
		{"bad json", in_memory.CreateInMemoryStorage(), `[`, http.StatusBadRequest, INVALID_REQUEST},
		{"store failure", failingStorage{}, `{"title":"T","category":"General","body":"B"}`, http.StatusInternalServerError, INTERNAL_ERROR_MESSAGE},
		{"read-only store", in_memory.CreateInMemoryStorage(), `{"title":"T","category":"General","body":"B"}`, http.StatusInternalServerError, INTERNAL_ERROR_MESSAGE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newPasswordHandler(t, tt.storage)
			rec := httptest.NewRecorder()
			h.HandleCreatePost(rec, httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp map[string]string
			decodeBody(t, rec, &resp)
			assert.Equal(t, tt.wantError, resp["error"])
		})
	}
}

func newEmailHandler(t *testing.T, exchanger EmailExchanger) *HTTPHandler {
	t.Helper()
	check, err := auth.NewEmailCheck("owner@example.com")
	require.NoError(t, err)
	return &HTTPHandler{
		Posts:     service.NewPostService(in_memory.CreateInMemoryStorage(), in_memory.SeedPosts),
		Issuer:    auth.NewTokenIssuer(testSecret, 7*24*time.Hour),
		Email:     check,
		Exchanger: exchanger,
	}
}

func TestAuthCallbackSetsCookie(t *testing.T) {
	h := newEmailHandler(t, fakeExchanger{email: "owner@example.com"})
	rec := httptest.NewRecorder()
	h.HandleAuthCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, middleware.AuthCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 7*24*60*60, cookie.MaxAge)

	claims, err := auth.NewTokenVerifier(testSecret).Verify(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", claims.Email)
}

func TestAuthCallbackErrors(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		exchanger  fakeExchanger
		wantStatus int
		wantError  string
	}{
		{"no code", "/auth/callback", fakeExchanger{}, http.StatusBadRequest, "No code"},
		{"no id_token", "/auth/callback?code=x", fakeExchanger{err: auth.ErrNoIDToken}, http.StatusBadRequest, "No id_token"},
		{"rejected id_token", "/auth/callback?code=x", fakeExchanger{err: auth.ErrUnauthorized}, http.StatusUnauthorized, UNAUTHORIZED_MESSAGE},
		{"other email", "/auth/callback?code=x", fakeExchanger{email: "stranger@example.com"}, http.StatusUnauthorized, UNAUTHORIZED_MESSAGE},
		{"endpoint down", "/auth/callback?code=x", fakeExchanger{err: errors.New("dial tcp: refused")}, http.StatusInternalServerError, INTERNAL_ERROR_MESSAGE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newEmailHandler(t, tt.exchanger)
			rec := httptest.NewRecorder()
			h.HandleAuthCallback(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Empty(t, rec.Result().Cookies())
			var resp map[string]string
			decodeBody(t, rec, &resp)
			assert.Equal(t, tt.wantError, resp["error"])
		})
	}
}
