package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yusufkecer/fittrack-backend/internal/config"
	"github.com/yusufkecer/fittrack-backend/internal/repository"
	"github.com/yusufkecer/fittrack-backend/internal/repository/memory"
	"github.com/yusufkecer/fittrack-backend/internal/service"
)

type captureMailer struct {
	sent chan [2]string
}

func (m *captureMailer) SendPasswordReset(_ context.Context, to, code string) error {
	m.sent <- [2]string{to, code}
	return nil
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	stores  repository.Stores
	mailer  *captureMailer
	cfg     *config.Config
}

// fakeTerra answers the vendor endpoints the device routes call.
func fakeTerra(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/generateWidgetSession":
			w.Write([]byte(`{"url":"https://widget.test/session","session_id":"sess-1"}`))
		case "/userInfo":
			w.Write([]byte(`{"user":{"provider":"GARMIN","active":true}}`))
		case "/activity":
			w.Write([]byte(`{"data":[
				{"metadata":{"name":"Lunch Ride","type":"cycling","start_time":"2025-03-01T12:00:00Z","source_name":"Garmin"},
				 "active_durations_data":{"activity_seconds":2400},
				 "calories_data":{"total_burned_calories":420}}
			]}`))
		case "/daily":
			w.Write([]byte(`{"data":[{"distance_data":{"steps":10500,"distance_meters":7800}}]}`))
		case "/sleep":
			w.Write([]byte(`{"data":[{"sleep_durations_data":{"total_sleep_time_seconds":25200}}]}`))
		case "/auth/deauthenticateUser":
			w.Write([]byte(`{"status":"success"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"unknown endpoint"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()
	cfg := &config.Config{
		AppEnv:         "test",
		DemoMode:       true,
		JWTSecret:      "test_secret",
		JWTExpire:      time.Hour,
		AllowedOrigins: "*",
	}
	for _, fn := range mutate {
		fn(cfg)
	}

	log, _ := test.NewNullLogger()
	stores := memory.New()
	terra := fakeTerra(t)
	mailer := &captureMailer{sent: make(chan [2]string, 4)}

	h := NewRouter(Deps{
		Config:    cfg,
		Stores:    stores,
		Wearables: service.NewWearableService(service.NewTerraClient(terra.URL, "dev", "key", "http://app"), stores.Users, stores.Workouts, log),
		Mailer:    mailer,
		Log:       log,
	})
	return &testServer{t: t, handler: h, stores: stores, mailer: mailer, cfg: cfg}
}

func (s *testServer) request(method, path string, body any, token string, headers ...[2]string) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(s.t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, h := range headers {
		req.Header.Set(h[0], h[1])
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec, decoded
}

// register creates an account and returns its token and id.
func (s *testServer) register(name, email string) (string, string) {
	s.t.Helper()
	rec, body := s.request(http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": "secret123",
	}, "")
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return body["token"].(string), body["data"].(map[string]any)["id"].(string)
}

func dataOf(body map[string]any) map[string]any {
	d, _ := body["data"].(map[string]any)
	return d
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec, body := s.request(http.MethodGet, "/api/health", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "DEMO", body["mode"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	rec, body := s.request(http.MethodGet, "/api/nothing-here", nil, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Route not found", body["message"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.request(http.MethodGet, "/api/health", nil, "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fittrack_http_requests_total")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/auth/me", "/api/workouts", "/api/meals", "/api/progress", "/api/reminders", "/api/devices"} {
		rec, body := s.request(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, "Not authorized", body["message"], path)
	}
}

func TestCORSPreflightSkipsAuth(t *testing.T) {
	s := newTestServer(t)
	rec, _ := s.request(http.MethodOptions, "/api/workouts", nil, "", [2]string{"Origin", "http://localhost:5173"})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAPIKeyGuardsAPI(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.APIKey = "client-key" })

	rec, body := s.request(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@b.co", "password": "x"}, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "missing API key", body["message"])

	rec, _ = s.request(http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.request(http.MethodPost, "/api/devices/webhook", `{"type":"healthcheck"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidationMessages(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("Jane", "jane@example.com")

	tests := []struct {
		name    string
		path    string
		body    any
		message string
	}{
		{"required", "/api/workouts", map[string]any{"duration": 30}, "Please provide title"},
		{"oneof", "/api/meals", map[string]any{"name": "x", "type": "brunch"}, "type must be one of: breakfast, lunch, dinner, snack"},
		{"clock", "/api/reminders", map[string]any{"title": "x", "time": "25:00"}, "time must be in HH:MM format"},
		{"weekday", "/api/reminders", map[string]any{"title": "x", "time": "09:00", "days": []string{"someday"}}, "days[0] must be a day of the week"},
		{"malformed", "/api/workouts", "{not json", "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := s.request(http.MethodPost, tt.path, tt.body, token)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, body["message"])
		})
	}
}
