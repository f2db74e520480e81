package models

import (
	"time"

	"finquest-progression/progression"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserProfile is the local copy of a FinQuest user. Identity columns are
// owned by the profile service and mirrored by the sync worker; the
// gamification columns are owned by this service.
type UserProfile struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // links to profile service
	Email          string `gorm:"index" json:"email"`
	FullName       string `json:"full_name"`

	// Denormalized progression blob, read and written wholesale.
	Gamification    datatypes.JSONType[progression.State]      `gorm:"not null;default:'{}'" json:"gamification"`
	Attributes      datatypes.JSONType[progression.Attributes] `gorm:"not null;default:'{}'" json:"attributes"`
	AcademyProgress datatypes.JSONType[progression.Modules]    `gorm:"not null;default:'{}'" json:"academy_progress"`

	// Version guards the read-modify-write of the blobs above.
	Version int64 `gorm:"not null;default:0" json:"-"`

	Timestamps
}

// BeforeCreate assigns a UUID when the caller did not.
func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// State returns the stored progression, defaulted when never initialised.
func (p *UserProfile) State() progression.State {
	return p.Gamification.Data().OrDefault()
}

// DisplayName is what leaderboards show.
func (p *UserProfile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
