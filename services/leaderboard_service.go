package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"finquest-progression/models"
	"finquest-progression/progression"
	"finquest-progression/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// snapshotDepth is how many entries a stored snapshot keeps.
	snapshotDepth     = 100
	snapshotRetention = 24 * time.Hour
	profileBatchSize  = 500
)

// LeaderboardResult is one served board.
type LeaderboardResult struct {
	Kind     progression.BoardKind
	Entries  []progression.BoardEntry
	UserRank int // 0 when the user is outside the returned entries
	BuiltAt  time.Time
	Cached   bool
}

type LeaderboardService struct {
	DB      *gorm.DB
	Archive utils.Archive // nil disables archiving
	MaxAge  time.Duration
	Now     func() time.Time
}

func NewLeaderboardService(db *gorm.DB, archive utils.Archive, maxAge time.Duration) *LeaderboardService {
	return &LeaderboardService{DB: db, Archive: archive, MaxAge: maxAge, Now: time.Now}
}

// Build ranks every user with an initialised progression.
func (s *LeaderboardService) Build(ctx context.Context, kind progression.BoardKind) ([]progression.BoardEntry, error) {
	var entries []progression.BoardEntry
	var batch []models.UserProfile
	err := s.DB.WithContext(ctx).
		Select("id", "external_user_id", "email", "full_name", "gamification").
		FindInBatches(&batch, profileBatchSize, func(tx *gorm.DB, _ int) error {
			for i := range batch {
				st := batch[i].Gamification.Data()
				if !st.Initialised() {
					continue
				}
				entries = append(entries, progression.EntryFor(batch[i].ExternalUserID, batch[i].DisplayName(), st))
			}
			return nil
		}).Error
	if err != nil {
		return nil, fmt.Errorf("load profiles for leaderboard: %w", err)
	}
	return progression.RankBoard(entries, kind, snapshotDepth), nil
}

// Refresh rebuilds and stores a snapshot for every board kind, archiving
// each one when an archive is configured, and prunes old snapshots.
func (s *LeaderboardService) Refresh(ctx context.Context) error {
	builtAt := s.Now().UTC()
	for _, kind := range progression.BoardKinds {
		entries, err := s.Build(ctx, kind)
		if err != nil {
			return err
		}
		snap := models.LeaderboardSnapshot{
			Kind:    kind,
			Entries: datatypes.NewJSONType(entries),
			BuiltAt: builtAt,
		}
		if s.Archive != nil {
			url, err := s.Archive.PutJSON(ctx, utils.SnapshotKey(string(kind), builtAt), entries)
			if err != nil {
				// The snapshot is still useful without its archive copy.
				log.Printf("⚠️ [LEADERBOARD] archive %s failed: %v", kind, err)
			} else {
				snap.ArchiveURL = url
			}
		}
		if err := s.DB.WithContext(ctx).Create(&snap).Error; err != nil {
			return fmt.Errorf("store %s snapshot: %w", kind, err)
		}
	}

	res := s.DB.WithContext(ctx).
		Where("built_at < ?", builtAt.Add(-snapshotRetention)).
		Delete(&models.LeaderboardSnapshot{})
	if res.Error != nil {
		return fmt.Errorf("prune snapshots: %w", res.Error)
	}
	log.Printf("🏆 [LEADERBOARD] refreshed %d boards, pruned %d old snapshots", len(progression.BoardKinds), res.RowsAffected)
	return nil
}

// Leaderboard serves the top limit entries of kind, from the latest snapshot
// while it is younger than MaxAge and from a live build otherwise.
func (s *LeaderboardService) Leaderboard(ctx context.Context, kind progression.BoardKind, limit int, externalUserID string) (*LeaderboardResult, error) {
	if limit < 1 || limit > snapshotDepth {
		limit = 10
	}
	now := s.Now().UTC()
	res := &LeaderboardResult{Kind: kind}

	var snap models.LeaderboardSnapshot
	err := s.DB.WithContext(ctx).
		Where("kind = ?", kind).
		Order("built_at DESC").
		First(&snap).Error
	switch {
	case err == nil && now.Sub(snap.BuiltAt) <= s.MaxAge:
		res.Entries, res.BuiltAt, res.Cached = snap.Entries.Data(), snap.BuiltAt, true
	case err == nil || errors.Is(err, gorm.ErrRecordNotFound):
		entries, err := s.Build(ctx, kind)
		if err != nil {
			return nil, err
		}
		res.Entries, res.BuiltAt = entries, now
	default:
		return nil, fmt.Errorf("load %s snapshot: %w", kind, err)
	}

	if len(res.Entries) > limit {
		res.Entries = res.Entries[:limit]
	}
	if res.Entries == nil {
		res.Entries = []progression.BoardEntry{}
	}
	res.UserRank = progression.Position(res.Entries, externalUserID)
	return res, nil
}
