package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	s := newTestServer(t)
	rec, body := s.request(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "  Jane Doe ", "email": " Jane@Example.com\t", "password": "secret123",
	}, "")

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	user := dataOf(body)
	assert.Equal(t, "Jane Doe", user["name"])
	assert.Equal(t, "jane@example.com", user["email"])
	assert.NotContains(t, user, "passwordHash")
	assert.Equal(t, map[string]any{
		"height": 0.0, "weight": 0.0, "age": 0.0, "gender": "other",
		"activityLevel": "moderate", "goalWeight": 0.0, "fitnessGoal": "maintain",
	}, user["profile"])
	assert.Equal(t, map[string]any{"notifications": true, "darkMode": true, "units": "metric"}, user["settings"])
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	s.register("Jane", "jane@example.com")

	rec, body := s.request(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Other", "email": "JANE@example.com", "password": "secret123",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", body["message"])
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name    string
		body    map[string]string
		message string
	}{
		{"missing name", map[string]string{"email": "a@b.co", "password": "secret123"}, "Please provide name"},
		{"bad email", map[string]string{"name": "A", "email": "nope", "password": "secret123"}, "Please provide a valid email"},
		{"short password", map[string]string{"name": "A", "email": "a@b.co", "password": "123"}, "password must be at least 6 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := s.request(http.MethodPost, "/api/auth/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	_, id := s.register("Jane", "jane@example.com")

	t.Run("valid credentials", func(t *testing.T) {
		rec, body := s.request(http.MethodPost, "/api/auth/login", map[string]string{
			"email": " JANE@example.com", "password": "secret123",
		}, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, body["token"])
		assert.Equal(t, id, dataOf(body)["id"])
	})

	t.Run("wrong password", func(t *testing.T) {
		rec, body := s.request(http.MethodPost, "/api/auth/login", map[string]string{
			"email": "jane@example.com", "password": "wrong-pass",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", body["message"])
	})

	t.Run("unknown email", func(t *testing.T) {
		rec, body := s.request(http.MethodPost, "/api/auth/login", map[string]string{
			"email": "ghost@example.com", "password": "secret123",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", body["message"])
	})

	t.Run("missing fields", func(t *testing.T) {
		rec, body := s.request(http.MethodPost, "/api/auth/login", map[string]string{"email": "jane@example.com"}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Please provide an email and password", body["message"])
	})
}

func TestLoginIsRateLimited(t *testing.T) {
	s := newTestServer(t)
	creds := map[string]string{"email": "ghost@example.com", "password": "secret123"}
	for range 5 {
		rec, _ := s.request(http.MethodPost, "/api/auth/login", creds, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec, body := s.request(http.MethodPost, "/api/auth/login", creds, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests, please try again later", body["message"])
}

func TestMe(t *testing.T) {
	s := newTestServer(t)
	token, id := s.register("Jane", "jane@example.com")

	rec, body := s.request(http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, dataOf(body)["id"])
	assert.Equal(t, "jane@example.com", dataOf(body)["email"])
}

func TestUpdateProfileMergesFields(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("Jane", "jane@example.com")

	rec, body := s.request(http.MethodPut, "/api/auth/profile", map[string]any{
		"name":     "Jane Q",
		"profile":  map[string]any{"height": 170, "age": 31},
		"settings": map[string]any{"units": "imperial"},
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	user := dataOf(body)
	assert.Equal(t, "Jane Q", user["name"])
	profile := user["profile"].(map[string]any)
	assert.Equal(t, 170.0, profile["height"])
	assert.Equal(t, 31.0, profile["age"])
	assert.Equal(t, "moderate", profile["activityLevel"])
	settings := user["settings"].(map[string]any)
	assert.Equal(t, "imperial", settings["units"])
	assert.Equal(t, true, settings["darkMode"])

	_, body = s.request(http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, 170.0, dataOf(body)["profile"].(map[string]any)["height"])

	rec, body = s.request(http.MethodPut, "/api/auth/profile", map[string]any{
		"profile": map[string]any{"gender": "robot"},
	}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "gender must be one of: male, female, other", body["message"])
}

func TestUpdatePassword(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register("Jane", "jane@example.com")

	rec, body := s.request(http.MethodPut, "/api/auth/password", map[string]string{
		"currentPassword": "not-it", "newPassword": "brandnew1",
	}, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Current password is incorrect", body["message"])

	rec, body = s.request(http.MethodPut, "/api/auth/password", map[string]string{
		"currentPassword": "secret123", "newPassword": "brandnew1",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["token"])

	rec, _ = s.request(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "jane@example.com", "password": "brandnew1",
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	s := newTestServer(t)
	s.register("Jane", "jane@example.com")

	rec, body := s.request(http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "Jane@example.com"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, forgotMessage, body["message"])

	var sent [2]string
	select {
	case sent = <-s.mailer.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("reset email was not sent")
	}
	assert.Equal(t, "jane@example.com", sent[0])
	require.Len(t, sent[1], 6)
	code := sent[1]

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	rec, body = s.request(http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email": "jane@example.com", "token": wrong, "password": "resetpass",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired reset code", body["message"])

	rec, body = s.request(http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email": "jane@example.com", "token": code, "password": "resetpass",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Password reset successful", body["message"])

	rec, _ = s.request(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "jane@example.com", "password": "resetpass",
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.request(http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email": "jane@example.com", "token": code, "password": "another1",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "a code works only once")
}

func TestPasswordResetWithPaddedEmail(t *testing.T) {
	s := newTestServer(t)
	s.register("Jane", "jane@example.com")

	rec, _ := s.request(http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "  JANE@example.com "}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var sent [2]string
	select {
	case sent = <-s.mailer.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("reset email was not sent for a padded address")
	}
	assert.Equal(t, "jane@example.com", sent[0])

	rec, body := s.request(http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email": " Jane@Example.com ", "token": sent[1], "password": "resetpass",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Password reset successful", body["message"])

	rec, _ = s.request(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "\tjane@EXAMPLE.com ", "password": "resetpass",
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestForgotPasswordHidesUnknownEmail(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.request(http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "ghost@example.com"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, forgotMessage, body["message"])

	select {
	case <-s.mailer.sent:
		t.Fatal("no email expected for an unknown address")
	case <-time.After(100 * time.Millisecond):
	}
}
