package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthServiceClient_ResolveUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/validate", r.URL.Path)
		assert.Equal(t, "Bearer svc-token", r.Header.Get("Authorization"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["access_token"] != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(ValidateResponse{UserID: "u-1", DeviceID: body["device_id"]})
	}))
	defer srv.Close()

	c := NewAuthServiceClient(srv.URL+"/", "svc-token")

	userID, err := c.ResolveUser(context.Background(), "good", "dev-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)

	_, err = c.ResolveUser(context.Background(), "bad", "dev-1")
	assert.Error(t, err)
}
