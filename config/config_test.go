package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"DATABASE_URL":              "postgres://localhost/finquest",
		"PROGRESSION_SERVICE_TOKEN": "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "5200", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, time.Minute, cfg.ProfileSyncInterval)
	assert.Equal(t, 5*time.Minute, cfg.LeaderboardRefresh)
	assert.Equal(t, 10, cfg.LeaderboardSize)
	assert.False(t, cfg.R2.Enabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"DATABASE_URL":                 "postgres://localhost/finquest",
		"PROGRESSION_SERVICE_TOKEN":    "secret",
		"ALLOWED_ORIGINS":              " https://app.finquest.com.br , http://localhost:5173,",
		"LEADERBOARD_REFRESH_INTERVAL": "30s",
		"LEADERBOARD_SIZE":             "25",
		"PROFILE_SYNC_URL":             "http://profiles:8500",
		"R2_BUCKET_NAME":               "leaderboards",
		"CLOUDFLARE_ACCOUNT_ID":        "acc",
		"R2_ACCESS_KEY_ID":             "id",
		"R2_ACCESS_KEY_SECRET":         "key",
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"https://app.finquest.com.br", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.LeaderboardRefresh)
	assert.Equal(t, 25, cfg.LeaderboardSize)
	assert.True(t, cfg.R2.Enabled())
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"missing database": {"PROGRESSION_SERVICE_TOKEN": "secret"},
		"missing token":    {"DATABASE_URL": "postgres://x"},
		"bad duration": {
			"DATABASE_URL": "postgres://x", "PROGRESSION_SERVICE_TOKEN": "s",
			"LEADERBOARD_REFRESH_INTERVAL": "soon",
		},
		"board too large": {
			"DATABASE_URL": "postgres://x", "PROGRESSION_SERVICE_TOKEN": "s",
			"LEADERBOARD_SIZE": "500",
		},
		"bucket without credentials": {
			"DATABASE_URL": "postgres://x", "PROGRESSION_SERVICE_TOKEN": "s",
			"R2_BUCKET_NAME": "leaderboards",
		},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(env(vars))
			assert.Error(t, err)
		})
	}
}
