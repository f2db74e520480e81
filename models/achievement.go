package models

import (
	"time"

	"finquest-progression/progression"
)

// Rarity buckets used by the achievements report.
const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// AchievementType: static catalog entry describing an achievement tag.
type AchievementType struct {
	Code        string    `gorm:"primaryKey;type:varchar(64)" json:"code"` // e.g. "streak_7", "scholar"
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Icon        string    `gorm:"size:16" json:"icon"`
	Rarity      string    `gorm:"type:varchar(16);default:'common'" json:"rarity"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"-"`
}

// DefaultAchievements is seeded on startup. Codes match the tags the
// progression engine unlocks.
var DefaultAchievements = []AchievementType{
	{
		Code:        progression.AchievementStudent,
		Title:       "Estudante",
		Description: "Complete 5 academy modules",
		Icon:        "📚",
		Rarity:      RarityCommon,
		SortOrder:   1,
	},
	{
		Code:        progression.AchievementStreak7,
		Title:       "7 Dias em Fila",
		Description: "Act on 7 consecutive days",
		Icon:        "🔥",
		Rarity:      RarityRare,
		SortOrder:   2,
	},
	{
		Code:        progression.AchievementScholar,
		Title:       "Estudioso Financeiro",
		Description: "Complete 10 academy modules",
		Icon:        "🎓",
		Rarity:      RarityEpic,
		SortOrder:   3,
	},
	{
		Code:        progression.AchievementStreak30,
		Title:       "Campeão (30 dias)",
		Description: "Act on 30 consecutive days",
		Icon:        "👑",
		Rarity:      RarityLegendary,
		SortOrder:   4,
	},
}
