package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPasswordReset(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewEmailService("re_test", "FitTrack <noreply@fittrack.app>")
	s.endpoint = srv.URL

	require.NoError(t, s.SendPasswordReset(context.Background(), "jane@example.com", "123456"))
	assert.Equal(t, "FitTrack <noreply@fittrack.app>", got["from"])
	assert.Equal(t, []any{"jane@example.com"}, got["to"])
	assert.Contains(t, got["html"], "123456")
}

func TestSendPasswordResetAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from"}`))
	}))
	defer srv.Close()

	s := NewEmailService("re_test", "x")
	s.endpoint = srv.URL

	err := s.SendPasswordReset(context.Background(), "jane@example.com", "123456")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestSendPasswordResetUnconfigured(t *testing.T) {
	err := NewEmailService("", "x").SendPasswordReset(context.Background(), "jane@example.com", "1")
	assert.Error(t, err)
}
