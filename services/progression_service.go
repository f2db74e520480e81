package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"finquest-progression/models"
	"finquest-progression/progression"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// maxWriteAttempts bounds the optimistic-concurrency retry loop.
const maxWriteAttempts = 3

// recentEventsLimit is how many ledger rows the profile endpoint returns.
const recentEventsLimit = 10

// ActionResult is what a rewarded action hands back to the handler.
type ActionResult struct {
	progression.Outcome
	Attempts int
}

// ProfileSummary is the read model behind the profile endpoint.
type ProfileSummary struct {
	View         progression.View
	Attributes   progression.Attributes
	RecentEvents []models.ProgressionEvent
}

type ProgressionService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db, Now: time.Now}
}

// loadProfile fetches the profile for externalUserID or ErrProfileNotFound.
func loadProfile(db *gorm.DB, externalUserID string) (*models.UserProfile, error) {
	var prof models.UserProfile
	err := db.Where("external_user_id = ?", externalUserID).First(&prof).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, externalUserID)
	}
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", externalUserID, err)
	}
	return &prof, nil
}

// versionedUpdate is one read-modify-write attempt. mutate computes the new
// column values from the loaded profile; the write only lands if nobody
// bumped the version in between. It reports false on a version conflict.
func versionedUpdate(
	ctx context.Context,
	db *gorm.DB,
	externalUserID string,
	mutate func(prof *models.UserProfile) (map[string]any, *models.ProgressionEvent, error),
) (bool, error) {
	conflict := false
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prof, err := loadProfile(tx, externalUserID)
		if err != nil {
			return err
		}

		cols, event, err := mutate(prof)
		if err != nil {
			return err
		}
		cols["version"] = gorm.Expr("version + 1")

		res := tx.Model(&models.UserProfile{}).
			Where("id = ? AND version = ?", prof.ID, prof.Version).
			Updates(cols)
		if res.Error != nil {
			return fmt.Errorf("save progression for %s: %w", externalUserID, res.Error)
		}
		if res.RowsAffected == 0 {
			conflict = true
			return nil
		}

		if event != nil {
			if err := tx.Create(event).Error; err != nil {
				return fmt.Errorf("write progression ledger: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return !conflict, nil
}

// RecordAction applies one rewarded action to the user's progression and
// persists it.
func (s *ProgressionService) RecordAction(ctx context.Context, externalUserID string, ev progression.Event) (*ActionResult, error) {
	return s.record(ctx, externalUserID, ev, models.EventSourceAction, "")
}

// GrantPoints awards an explicit amount through the custom action.
func (s *ProgressionService) GrantPoints(ctx context.Context, externalUserID string, points int64, reason string) (*ActionResult, error) {
	ev := progression.Event{Action: progression.ActionCustom, Points: &points}
	return s.record(ctx, externalUserID, ev, models.EventSourceAdmin, reason)
}

func (s *ProgressionService) record(ctx context.Context, externalUserID string, ev progression.Event, source models.EventSource, reason string) (*ActionResult, error) {
	var out progression.Outcome
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		now := s.Now()
		ok, err := versionedUpdate(ctx, s.DB, externalUserID, func(prof *models.UserProfile) (map[string]any, *models.ProgressionEvent, error) {
			var err error
			out, err = progression.Apply(prof.Gamification.Data(), prof.Attributes.Data(), ev, now)
			if err != nil {
				return nil, nil, err
			}
			cols := map[string]any{
				"gamification": datatypes.NewJSONType(out.State),
				"attributes":   datatypes.NewJSONType(out.Attributes),
			}
			return cols, &models.ProgressionEvent{
				ExternalUserID: externalUserID,
				Source:         source,
				ActionType:     string(ev.Action),
				Reason:         reason,
				Points:         out.Points,
				TotalPoints:    out.State.TotalPoints,
				Level:          out.State.Level,
				LevelUp:        out.LevelUp,
				Streak:         out.State.Streak,
				Unlocked:       datatypes.NewJSONType(out.Unlocked),
			}, nil
		})
		if err != nil {
			return nil, err
		}
		if ok {
			log.Printf("🎮 [PROGRESSION] %s → action=%s points=%d total=%d lvl=%d streak=%d (attempt %d)",
				externalUserID, ev.Action, out.Points, out.State.TotalPoints, out.State.Level, out.State.Streak, attempt)
			for _, tag := range out.Unlocked {
				log.Printf("🎖️ [PROGRESSION] Achievement unlocked: %s → %s", tag, externalUserID)
			}
			return &ActionResult{Outcome: out, Attempts: attempt}, nil
		}
		log.Printf("⚠️ [PROGRESSION] version conflict for %s (attempt %d/%d)", externalUserID, attempt, maxWriteAttempts)
	}
	return nil, fmt.Errorf("%w: %s", ErrConcurrentUpdate, externalUserID)
}

// GetProfile returns the progression view and the latest ledger rows. The
// two reads are independent and run concurrently.
func (s *ProgressionService) GetProfile(ctx context.Context, externalUserID string) (*ProfileSummary, error) {
	var (
		prof   *models.UserProfile
		events []models.ProgressionEvent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prof, err = loadProfile(s.DB.WithContext(gctx), externalUserID)
		return err
	})
	g.Go(func() error {
		return s.DB.WithContext(gctx).
			Where("external_user_id = ?", externalUserID).
			Order("created_at DESC").
			Limit(recentEventsLimit).
			Find(&events).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ProfileSummary{
		View:         progression.ProfileView(prof.State()),
		Attributes:   prof.Attributes.Data(),
		RecentEvents: events,
	}, nil
}
