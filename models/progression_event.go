package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EventSource says which flow granted the points.
type EventSource string

const (
	EventSourceAction  EventSource = "action"
	EventSourceAcademy EventSource = "academy"
	EventSourceAdmin   EventSource = "admin"
)

// ProgressionEvent is an append-only ledger row written alongside every
// successful progression update.
type ProgressionEvent struct {
	ID             string      `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string      `gorm:"not null;index:idx_progression_events_user_time,priority:1" json:"external_user_id"`
	Source         EventSource `gorm:"type:varchar(16);not null" json:"source"`
	ActionType     string      `gorm:"type:varchar(64);index" json:"action_type"`
	Reason         string      `json:"reason,omitempty"`

	Points      int64 `json:"points"`
	TotalPoints int64 `json:"total_points"`
	Level       int   `json:"level"`
	LevelUp     bool  `json:"level_up"`
	Streak      int   `json:"streak"`

	// Achievements unlocked by this event.
	Unlocked datatypes.JSONType[[]string] `json:"unlocked"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_progression_events_user_time,priority:2" json:"created_at"`
}

func (e *ProgressionEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
