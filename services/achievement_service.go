package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"finquest-progression/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AchievementReport summarises a user's achievements against the catalog.
type AchievementReport struct {
	TotalAchievements    int                      `json:"totalAchievements"`
	UnlockedAchievements int                      `json:"unlockedAchievements"`
	LockedAchievements   int                      `json:"lockedAchievements"`
	CompletionRate       float64                  `json:"completionRate"`
	UnlockedByRarity     map[string]int           `json:"unlockedByRarity"`
	RecentUnlocked       []UnlockedAchievement    `json:"recentUnlocked"`
	NextToUnlock         []models.AchievementType `json:"nextToUnlock"`
}

// UnlockedAchievement pairs a catalog entry with when it was earned.
type UnlockedAchievement struct {
	models.AchievementType
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}

const (
	recentUnlockedLimit = 5
	nextToUnlockLimit   = 3
)

type AchievementService struct {
	DB *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{DB: db}
}

// SeedCatalog upserts the default achievement catalog (idempotent).
func (s *AchievementService) SeedCatalog(ctx context.Context) error {
	catalog := append([]models.AchievementType(nil), models.DefaultAchievements...)
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&catalog).Error
}

// Report builds the achievement report for one user.
func (s *AchievementService) Report(ctx context.Context, externalUserID string) (*AchievementReport, error) {
	db := s.DB.WithContext(ctx)
	prof, err := loadProfile(db, externalUserID)
	if err != nil {
		return nil, err
	}

	var catalog []models.AchievementType
	if err := db.Order("sort_order ASC").Find(&catalog).Error; err != nil {
		return nil, fmt.Errorf("load achievement catalog: %w", err)
	}

	var events []models.ProgressionEvent
	if err := db.Where("external_user_id = ?", externalUserID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("load progression ledger: %w", err)
	}
	unlockedAt := map[string]time.Time{}
	for _, e := range events {
		for _, tag := range e.Unlocked.Data() {
			if _, seen := unlockedAt[tag]; !seen {
				unlockedAt[tag] = e.CreatedAt
			}
		}
	}

	return buildAchievementReport(catalog, prof.State().Achievements, unlockedAt), nil
}

func buildAchievementReport(catalog []models.AchievementType, owned []string, unlockedAt map[string]time.Time) *AchievementReport {
	has := make(map[string]bool, len(owned))
	for _, tag := range owned {
		has[tag] = true
	}

	r := &AchievementReport{
		TotalAchievements: len(catalog),
		UnlockedByRarity: map[string]int{
			models.RarityCommon:    0,
			models.RarityRare:      0,
			models.RarityEpic:      0,
			models.RarityLegendary: 0,
		},
		RecentUnlocked: []UnlockedAchievement{},
		NextToUnlock:   []models.AchievementType{},
	}
	for _, a := range catalog {
		if !has[a.Code] {
			if len(r.NextToUnlock) < nextToUnlockLimit {
				r.NextToUnlock = append(r.NextToUnlock, a)
			}
			continue
		}
		r.UnlockedAchievements++
		r.UnlockedByRarity[a.Rarity]++
		u := UnlockedAchievement{AchievementType: a}
		if at, ok := unlockedAt[a.Code]; ok {
			at := at
			u.UnlockedAt = &at
		}
		r.RecentUnlocked = append(r.RecentUnlocked, u)
	}
	r.LockedAchievements = r.TotalAchievements - r.UnlockedAchievements
	if r.TotalAchievements > 0 {
		rate := float64(r.UnlockedAchievements) / float64(r.TotalAchievements) * 100
		r.CompletionRate = math.Round(rate*10) / 10
	}

	// Newest first; unlocks without a ledger row sort last.
	sort.SliceStable(r.RecentUnlocked, func(i, j int) bool {
		a, b := r.RecentUnlocked[i].UnlockedAt, r.RecentUnlocked[j].UnlockedAt
		if a == nil || b == nil {
			return a != nil
		}
		return a.After(*b)
	})
	if len(r.RecentUnlocked) > recentUnlockedLimit {
		r.RecentUnlocked = r.RecentUnlocked[:recentUnlockedLimit]
	}
	return r
}
