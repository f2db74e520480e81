// workers/profile_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finquest-progression/models"
	"finquest-progression/utils"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const profilesEndpoint = "/api/v1/public/profiles"

// RemoteProfile is one entry of the profile service change feed.
type RemoteProfile struct {
	ExternalID string    `json:"external_id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	FirstName  *string   `json:"first_name,omitempty"`
	LastName   *string   `json:"last_name,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProfileChangesResponse is the top-level structure of the change feed.
type ProfileChangesResponse struct {
	Users []RemoteProfile `json:"users"`
}

// ProfileSyncWorker mirrors identity columns from the profile service so a
// profile row exists before the first rewarded action arrives.
type ProfileSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string
	serviceToken string
	httpClient   *http.Client
	titler       cases.Caser

	// since is the newest remote updated_at applied so far.
	since time.Time
}

func NewProfileSyncWorker(db *gorm.DB, baseURL, serviceToken string, interval time.Duration) *ProfileSyncWorker {
	return &ProfileSyncWorker{
		db:           db,
		interval:     interval,
		baseURL:      baseURL,
		serviceToken: serviceToken,
		httpClient:   utils.HTTPClient,
		titler:       cases.Title(language.BrazilianPortuguese),
	}
}

func (w *ProfileSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Profile Sync Worker (profile-service → user_profiles)…")
	go w.run(ctx)
}

func (w *ProfileSyncWorker) run(ctx context.Context) {
	// backfill from the beginning of time
	if _, err := w.SyncOnce(ctx); err != nil {
		log.Printf("⚠️ [PROFILE_SYNC] Initial sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.SyncOnce(ctx); err != nil {
				log.Printf("❌ [PROFILE_SYNC] Sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Profile Sync Worker stopped")
			return
		}
	}
}

// SyncOnce pulls changes since the last applied update and upserts them.
// It returns how many profiles were written.
func (w *ProfileSyncWorker) SyncOnce(ctx context.Context) (int, error) {
	base, err := url.Parse(w.baseURL)
	if err != nil {
		return 0, fmt.Errorf("invalid profile service URL '%s': %w", w.baseURL, err)
	}
	endpointURL := base.JoinPath(profilesEndpoint)
	q := endpointURL.Query()
	q.Set("since", w.since.UTC().Format(time.RFC3339))
	endpointURL.RawQuery = q.Encode()
	finalURL := endpointURL.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP request to profile service failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return 0, fmt.Errorf("profile service non-200 response: %d: %s", resp.StatusCode, string(body))
	}

	var response ProfileChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return 0, fmt.Errorf("failed to decode profile service response: %w", err)
	}
	if len(response.Users) == 0 {
		return 0, nil
	}

	var upserted, failed int
	for _, remote := range response.Users {
		if strings.TrimSpace(remote.ExternalID) == "" {
			continue
		}
		local := models.UserProfile{
			ExternalUserID: remote.ExternalID,
			Email:          strings.ToLower(strings.TrimSpace(remote.Email)),
			FullName:       w.displayName(remote),
		}

		// Gamification columns are owned here and never overwritten.
		err := w.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "full_name"}),
		}).Create(&local).Error
		if err != nil {
			failed++
			log.Printf("[PROFILE_SYNC] ⚠️ Failed to upsert profile external_id=%q: %v", remote.ExternalID, err)
			continue
		}
		upserted++
		if remote.UpdatedAt.After(w.since) {
			w.since = remote.UpdatedAt
		}
	}

	log.Printf("[PROFILE_SYNC] ✅ Synced %d profile(s) (%d upserted, %d errors), cursor=%s",
		len(response.Users), upserted, failed, w.since.UTC().Format(time.RFC3339))
	return upserted, nil
}

func (w *ProfileSyncWorker) displayName(p RemoteProfile) string {
	name := strings.TrimSpace(p.FullName)
	if name == "" {
		var parts []string
		if p.FirstName != nil {
			parts = append(parts, strings.TrimSpace(*p.FirstName))
		}
		if p.LastName != nil {
			parts = append(parts, strings.TrimSpace(*p.LastName))
		}
		name = strings.TrimSpace(strings.Join(parts, " "))
	}
	return w.titler.String(strings.Join(strings.Fields(name), " "))
}
