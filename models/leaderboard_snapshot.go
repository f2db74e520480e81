package models

import (
	"time"

	"finquest-progression/progression"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LeaderboardSnapshot is a ranked board built by the refresh job.
type LeaderboardSnapshot struct {
	ID         string                                       `gorm:"primaryKey;type:uuid" json:"id"`
	Kind       progression.BoardKind                        `gorm:"type:varchar(16);not null;index:idx_leaderboard_kind_built,priority:1" json:"kind"`
	Entries    datatypes.JSONType[[]progression.BoardEntry] `json:"entries"`
	ArchiveURL string                                       `gorm:"type:text" json:"archive_url,omitempty"`
	BuiltAt    time.Time                                    `gorm:"not null;index:idx_leaderboard_kind_built,priority:2" json:"built_at"`
}

func (s *LeaderboardSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
