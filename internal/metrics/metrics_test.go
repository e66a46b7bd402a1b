package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMiddlewareLabelsByRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Middleware)
	r.HandleFunc("/api/workouts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/workouts/abc-123", nil))

	body := scrape(t)
	assert.Contains(t, body, `fittrack_http_requests_total{method="GET",route="/api/workouts/{id}",status="404"} 1`)
	assert.NotContains(t, body, "abc-123")
}

func TestWearableCounters(t *testing.T) {
	RecordWearableWorkout("duplicate")
	RecordWebhook("auth", "ok")

	body := scrape(t)
	assert.Contains(t, body, `fittrack_wearable_workouts_total{outcome="duplicate"}`)
	assert.Contains(t, body, `fittrack_wearable_webhook_events_total{outcome="ok",type="auth"} 1`)
}
