package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// Config holds everything main needs to wire the service.
type Config struct {
	Port           string   `validate:"required,numeric"`
	DatabaseURL    string   `validate:"required"`
	ServiceToken   string   `validate:"required"`
	AllowedOrigins []string `validate:"min=1,dive,required"`

	// AuthServiceURL enables the SSE event stream, which validates tokens itself.
	AuthServiceURL string `validate:"omitempty,url"`

	ProfileSyncURL      string        `validate:"omitempty,url"`
	ProfileSyncInterval time.Duration `validate:"min=1s"`

	LeaderboardRefresh time.Duration `validate:"min=1s"`
	LeaderboardSize    int           `validate:"min=1,max=100"`

	R2 R2Config
}

// R2Config points at the Cloudflare R2 bucket used for leaderboard archives.
// An empty Bucket disables archiving.
type R2Config struct {
	AccountID       string `validate:"required_with=Bucket"`
	AccessKeyID     string `validate:"required_with=Bucket"`
	AccessKeySecret string `validate:"required_with=Bucket"`
	Bucket          string
	CDNBaseURL      string `validate:"omitempty,url"`
}

// Enabled reports whether an archive bucket is configured.
func (r R2Config) Enabled() bool { return r.Bucket != "" }

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from an env lookup function.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(name, fallback string) string {
		if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg := Config{
		Port:           get("PORT", "5200"),
		DatabaseURL:    get("DATABASE_URL", ""),
		ServiceToken:   get("PROGRESSION_SERVICE_TOKEN", ""),
		AllowedOrigins: splitOrigins(get("ALLOWED_ORIGINS", "http://localhost:3000")),
		AuthServiceURL: get("AUTH_SERVICE_URL", ""),
		ProfileSyncURL: get("PROFILE_SYNC_URL", ""),
		R2: R2Config{
			AccountID:       get("CLOUDFLARE_ACCOUNT_ID", ""),
			AccessKeyID:     get("R2_ACCESS_KEY_ID", ""),
			AccessKeySecret: get("R2_ACCESS_KEY_SECRET", ""),
			Bucket:          get("R2_BUCKET_NAME", ""),
			CDNBaseURL:      get("CDN_BASE_URL", ""),
		},
	}

	var err error
	if cfg.ProfileSyncInterval, err = time.ParseDuration(get("PROFILE_SYNC_INTERVAL", "1m")); err != nil {
		return Config{}, fmt.Errorf("PROFILE_SYNC_INTERVAL: %w", err)
	}
	if cfg.LeaderboardRefresh, err = time.ParseDuration(get("LEADERBOARD_REFRESH_INTERVAL", "5m")); err != nil {
		return Config{}, fmt.Errorf("LEADERBOARD_REFRESH_INTERVAL: %w", err)
	}
	if cfg.LeaderboardSize, err = strconv.Atoi(get("LEADERBOARD_SIZE", "10")); err != nil {
		return Config{}, fmt.Errorf("LEADERBOARD_SIZE: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
