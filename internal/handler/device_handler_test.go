package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yusufkecer/fittrack-backend/internal/config"
)

func authEvent(referenceID string) string {
	return `{"type":"auth","user":{"user_id":"terra-42","reference_id":"` + referenceID + `"}}`
}

func TestDevicesNotConnected(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("Jane", "jane@example.com")

	rec, body := s.request(http.MethodGet, "/api/devices", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["connected"])
	assert.Equal(t, []any{}, body["devices"])
	assert.NotEmpty(t, body["message"])

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/devices/sync"},
		{http.MethodGet, "/api/devices/daily"},
		{http.MethodGet, "/api/devices/sleep"},
		{http.MethodDelete, "/api/devices/disconnect"},
	} {
		rec, body := s.request(tc.method, tc.path, nil, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.path)
		assert.Equal(t, "No device connected. Please connect a device first.", body["message"], tc.path)
	}
}

func TestConnectDevice(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("Jane", "jane@example.com")

	rec, body := s.request(http.MethodGet, "/api/devices/connect", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://widget.test/session", body["widgetUrl"])
	assert.Equal(t, "sess-1", body["sessionId"])
}

func TestDeviceLifecycle(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.register("Jane", "jane@example.com")

	rec, body := s.request(http.MethodPost, "/api/devices/webhook", authEvent(userID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": true}, body)

	rec, body = s.request(http.MethodGet, "/api/devices", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["connected"])
	assert.Equal(t, "GARMIN", body["devices"].(map[string]any)["user"].(map[string]any)["provider"])

	t.Run("sync is idempotent", func(t *testing.T) {
		rec, body := s.request(http.MethodPost, "/api/devices/sync", map[string]string{"startDate": "2025-03-01", "endDate": "2025-03-02"}, token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, 1.0, body["synced"])
		assert.Equal(t, 1.0, body["total"])
		assert.Equal(t, "Synced 1 new workouts from your device", body["message"])

		w := body["workouts"].([]any)[0].(map[string]any)
		assert.Equal(t, "Lunch Ride", w["title"])
		assert.Equal(t, "cardio", w["type"])
		assert.Equal(t, 40.0, w["duration"])
		assert.Equal(t, 420.0, w["totalCaloriesBurned"])
		assert.Equal(t, "wearable", w["source"])
		assert.Equal(t, "Garmin", w["sourceDevice"])

		rec, body = s.request(http.MethodPost, "/api/devices/sync", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0.0, body["synced"])
		assert.Equal(t, []any{}, body["workouts"])

		_, list := s.request(http.MethodGet, "/api/workouts", nil, token)
		assert.Equal(t, 1.0, list["total"])
	})

	t.Run("sync rejects bad dates", func(t *testing.T) {
		rec, body := s.request(http.MethodPost, "/api/devices/sync", map[string]string{"startDate": "03/01/2025"}, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "startDate is invalid", body["message"])
	})

	t.Run("daily", func(t *testing.T) {
		rec, body := s.request(http.MethodGet, "/api/devices/daily?date=2025-03-01", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2025-03-01", body["date"])
		summary := dataOf(body)
		assert.Equal(t, 10500.0, summary["steps"])
		assert.Equal(t, 7800.0, summary["distance"])
		assert.Nil(t, summary["avgHeartRate"])
	})

	t.Run("sleep", func(t *testing.T) {
		rec, body := s.request(http.MethodGet, "/api/devices/sleep", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)
		sleep := body["sleepData"].([]any)
		require.Len(t, sleep, 1)
		assert.Equal(t, 7.0, sleep[0].(map[string]any)["totalSleep"])
	})

	rec, body = s.request(http.MethodDelete, "/api/devices/disconnect", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Device disconnected successfully", body["message"])

	_, body = s.request(http.MethodGet, "/api/devices", nil, token)
	assert.Equal(t, false, body["connected"])
}

func TestWebhookActivityAndDeauth(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.register("Jane", "jane@example.com")
	s.request(http.MethodPost, "/api/devices/webhook", authEvent(userID), "")

	activity := `{"type":"activity","user":{"user_id":"terra-42","reference_id":"` + userID + `"},"data":[
		{"metadata":{"name":"Evening Run","type":"running","start_time":"2025-03-05T18:00:00Z"},"active_durations_data":{"activity_seconds":1800}}
	]}`
	for range 2 {
		rec, _ := s.request(http.MethodPost, "/api/devices/webhook", activity, "")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	_, list := s.request(http.MethodGet, "/api/workouts", nil, token)
	assert.Equal(t, 1.0, list["total"])

	s.request(http.MethodPost, "/api/devices/webhook", `{"type":"deauth","user":{"user_id":"terra-42","reference_id":"`+userID+`"}}`, "")
	_, body := s.request(http.MethodGet, "/api/devices", nil, token)
	assert.Equal(t, false, body["connected"])
}

func TestWebhookAlwaysAcknowledges(t *testing.T) {
	s := newTestServer(t)
	for _, payload := range []string{
		"not json",
		`{"type":"activity","user":{"user_id":"x","reference_id":"no-such-user"},"data":{}}`,
		`{"type":"body"}`,
	} {
		rec, body := s.request(http.MethodPost, "/api/devices/webhook", payload, "")
		assert.Equal(t, http.StatusOK, rec.Code, payload)
		assert.Equal(t, true, body["success"], payload)
	}
}

func TestWebhookSignature(t *testing.T) {
	const secret = "whsec"
	s := newTestServer(t, func(c *config.Config) { c.TerraSigningSecret = secret })
	token, userID := s.register("Jane", "jane@example.com")
	payload := authEvent(userID)

	rec, _ := s.request(http.MethodPost, "/api/devices/webhook", payload, "", [2]string{signatureHeader, "t=1,v1=deadbeef"})
	require.Equal(t, http.StatusOK, rec.Code)
	_, body := s.request(http.MethodGet, "/api/devices", nil, token)
	assert.Equal(t, false, body["connected"], "forged delivery is ignored")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("1700000000." + payload))
	signature := "t=1700000000,v1=" + hex.EncodeToString(mac.Sum(nil))

	rec, _ = s.request(http.MethodPost, "/api/devices/webhook", payload, "", [2]string{signatureHeader, signature})
	require.Equal(t, http.StatusOK, rec.Code)
	_, body = s.request(http.MethodGet, "/api/devices", nil, token)
	assert.Equal(t, true, body["connected"])
}

func TestWebhookAcceptsBodiesAboveAPILimit(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.register("Jane", "jane@example.com")
	padding := strings.Repeat(" ", 2*maxBodyBytes)

	rec, _ := s.request(http.MethodPost, "/api/devices/webhook", padding+authEvent(userID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, body := s.request(http.MethodGet, "/api/devices", nil, token)
	assert.Equal(t, true, body["connected"])

	rec, body = s.request(http.MethodPost, "/api/workouts", padding+`{"title":"Run","duration":20}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", body["message"])
}
