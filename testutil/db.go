// Package testutil holds fixtures shared by the service, handler and worker tests.
package testutil

import (
	"testing"
	"time"

	"finquest-progression/models"
	"finquest-progression/progression"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with every model migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect database for testing")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.UserProfile{},
		&models.ProgressionEvent{},
		&models.LeaderboardSnapshot{},
		&models.AchievementType{},
	))
	return db
}

// SeedProfile inserts a profile with the given progression state.
func SeedProfile(t *testing.T, db *gorm.DB, externalUserID, name string, st progression.State) *models.UserProfile {
	t.Helper()
	prof := &models.UserProfile{
		ExternalUserID: externalUserID,
		Email:          externalUserID + "@finquest.test",
		FullName:       name,
		Gamification:   datatypes.NewJSONType(st),
	}
	require.NoError(t, db.Create(prof).Error)
	return prof
}

// Clock returns a fixed clock for services that take a Now func.
func Clock(ts string) func() time.Time {
	at, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return at }
}
