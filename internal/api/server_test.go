// ABOUTME: HTTP tests for the health API covering status codes and payloads.
// ABOUTME: Drives the echo server in-process with httptest.
package api

import (
	"bytes"
	"context"
	"fmt"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/healthai/internal/health"
	"github.com/harperreed/healthai/internal/models"
	"github.com/harperreed/healthai/internal/session"
	"github.com/harperreed/healthai/internal/storage"
	"github.com/harperreed/healthai/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type zeroRand struct{}

func (zeroRand) Intn(int) int { return 0 }

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	kv := storage.NewMemoryKV()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := health.New(kv, health.Options{Rand: zeroRand{}, Now: func() time.Time { return now }})
	auth := session.NewAuthenticator(store.NewUserStore(kv))

	srv, err := NewServer(svc, auth, nil, zap.NewNop(), cfg)
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, srv *Server, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, Config{})
	rec, body := do(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestPrometheusEndpoint(t *testing.T) {
	srv := newTestServer(t, Config{})
	do(t, srv, http.MethodGet, "/healthz", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthai_http_requests_total")
}

func TestRegisterFlow(t *testing.T) {
	srv := newTestServer(t, Config{})

	rec, body := do(t, srv, http.MethodPost, "/api/auth/register", map[string]any{
		"email": "alice@example.com", "password": "secret1", "name": "Alice",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Account created successfully", body["message"])
	user := body["user"].(map[string]any)
	token := body["token"].(string)
	assert.Equal(t, "token-"+user["id"].(string), token)

	rec, body = do(t, srv, http.MethodGet, "/api/auth/me", nil, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@example.com", body["user"].(map[string]any)["email"])

	rec, _ = do(t, srv, http.MethodPost, "/api/auth/logout", nil, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = do(t, srv, http.MethodGet, "/api/auth/me", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, body["success"])

	rec, body = do(t, srv, http.MethodPost, "/api/auth/register", map[string]any{
		"email": "ALICE@example.com", "password": "secret1", "name": "Again",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User already exists with this email", body["message"])
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t, Config{})

	tests := []struct {
		name    string
		body    map[string]any
		message string
	}{
		{"Missing", map[string]any{"email": "a@b.co"}, "Email, password, and name are required"},
		{"BadEmail", map[string]any{"email": "nope", "password": "secret1", "name": "N"}, "Please enter a valid email address"},
		{"ShortPassword", map[string]any{"email": "a@b.co", "password": "123", "name": "N"}, "Password must be at least 6 characters long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, srv, http.MethodPost, "/api/auth/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t, Config{})

	rec, body := do(t, srv, http.MethodPost, "/api/auth/login", map[string]any{"isDemo": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Demo login successful", body["message"])
	assert.Equal(t, "token-demo-user-123", body["token"])

	rec, body = do(t, srv, http.MethodPost, "/api/auth/login", map[string]any{"email": "x@y.z"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email and password are required", body["message"])

	rec, body = do(t, srv, http.MethodPost, "/api/auth/login", map[string]any{"email": "ghost@y.z", "password": "pw"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not found", body["message"])
}

func TestMetricsEndpoints(t *testing.T) {
	srv := newTestServer(t, Config{})

	rec, body := do(t, srv, http.MethodGet, "/api/health/metrics", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User ID is required", body["message"])

	rec, body = do(t, srv, http.MethodGet, "/api/health/metrics?userId=demo-user-123&analyze=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(4), body["count"])
	analysis := body["analysis"].(map[string]any)
	assert.Equal(t, float64(90), analysis["healthScore"])
	assert.Equal(t, "You have 3 health metrics recorded in the last 24 hours.", analysis["summary"])

	rec, body = do(t, srv, http.MethodPost, "/api/health/metrics", map[string]any{
		"userId": "u1", "type": "steps", "unit": "steps", "source": "manual",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required", body["message"])

	rec, body = do(t, srv, http.MethodPost, "/api/health/metrics", map[string]any{
		"userId": "u1", "type": "steps", "value": 12000, "unit": "steps", "source": "manual",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Health metric added successfully", body["message"])
	metric := body["metric"].(map[string]any)
	assert.Equal(t, float64(12000), metric["value"])
	assert.NotEmpty(t, metric["id"])

	rec, body = do(t, srv, http.MethodGet, "/api/health/metrics?userId=u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])
	assert.NotContains(t, body, "analysis")
}

func TestInsightsEndpoints(t *testing.T) {
	srv := newTestServer(t, Config{})

	rec, body := do(t, srv, http.MethodPost, "/api/health/insights", map[string]any{"query": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User ID is required", body["message"])

	rec, body = do(t, srv, http.MethodPost, "/api/health/insights", map[string]any{"userId": "u1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "New insight generated successfully", body["message"])
	in := body["insight"].(map[string]any)
	assert.Equal(t, "Exercise & Sleep Quality", in["title"])
	assert.Equal(t, true, in["gpt4allGenerated"])

	rec, body = do(t, srv, http.MethodGet, "/api/health/insights?userId=u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])
}

func TestChatEndpoint(t *testing.T) {
	srv := newTestServer(t, Config{})

	rec, body := do(t, srv, http.MethodPost, "/api/health/chat", map[string]any{"userId": "u1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User ID and message are required", body["message"])

	rec, body = do(t, srv, http.MethodPost, "/api/health/chat", map[string]any{
		"userId": models.DemoUserID, "message": "How is my pulse?",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body["response"], "Your recent resting heart rate of 72 BPM is excellent")
	assert.NotEmpty(t, body["timestamp"])
}

func TestSourcesEndpoints(t *testing.T) {
	srv := newTestServer(t, Config{})

	rec, body := do(t, srv, http.MethodGet, "/api/health/sources?userId=demo-user-123", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), body["count"])

	_, login := do(t, srv, http.MethodPost, "/api/auth/login", map[string]any{"isDemo": true})
	token := login["token"].(string)

	rec, body = do(t, srv, http.MethodPost, "/api/health/sources/google-fit/connect", nil, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	sources := body["sources"].([]any)
	gf := sources[2].(map[string]any)
	assert.Equal(t, true, gf["connected"])
	assert.Equal(t, "Just now", gf["lastSync"])

	rec, _ = do(t, srv, http.MethodPost, "/api/health/sources/fitbit/connect", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, srv, http.MethodPost, "/api/health/sources/fitbit/connect", nil, "Authorization", "Bearer bogus")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, Config{RateLimit: 0.001, RateBurst: 1})

	rec, _ := do(t, srv, http.MethodPost, "/api/health/chat", map[string]any{"userId": "u1", "message": "hi"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := do(t, srv, http.MethodPost, "/api/health/chat", map[string]any{"userId": "u1", "message": "hi"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, false, body["success"])

	rec, _ = do(t, srv, http.MethodGet, "/api/health/insights?userId=u1", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "read endpoints are not limited")
}

func TestNotFoundRoute(t *testing.T) {
	srv := newTestServer(t, Config{})
	rec, body := do(t, srv, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestCancelledRequestIsInternalError(t *testing.T) {
	for _, err := range []error{
		context.Canceled,
		fmt.Errorf("chat: %w", context.DeadlineExceeded),
	} {
		assert.Equal(t, http.StatusInternalServerError, statusFor(err))
		assert.Equal(t, "Internal server error", messageFor(err))
	}
}
