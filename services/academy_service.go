package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"finquest-progression/models"
	"finquest-progression/progression"
	"finquest-progression/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizSubmission is one answered academy quiz.
type QuizSubmission struct {
	ContentID      string
	Answers        []string
	CorrectAnswers []string
}

// QuizOutcome is returned to the quiz handler.
type QuizOutcome struct {
	ContentID   string
	Score       float64
	Passed      bool
	XPEarned    int64
	NewLevel    int
	LevelUp     bool
	Achievement string
}

type AcademyService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewAcademyService(db *gorm.DB) *AcademyService {
	return &AcademyService{DB: db, Now: time.Now}
}

// CompleteQuiz grades a quiz, marks the module complete and grants the quiz XP.
func (s *AcademyService) CompleteQuiz(ctx context.Context, externalUserID string, sub QuizSubmission) (*QuizOutcome, error) {
	contentID := utils.ContentKey(sub.ContentID)
	if contentID == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContentID, sub.ContentID)
	}
	quiz, err := progression.ScoreQuiz(sub.Answers, sub.CorrectAnswers)
	if err != nil {
		return nil, err
	}

	var out progression.AcademyOutcome
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		now := s.Now()
		ok, err := versionedUpdate(ctx, s.DB, externalUserID, func(prof *models.UserProfile) (map[string]any, *models.ProgressionEvent, error) {
			out = progression.CompleteModule(prof.Gamification.Data(), prof.AcademyProgress.Data(), contentID, quiz, now)
			var unlocked []string
			if out.Achievement != "" {
				unlocked = []string{out.Achievement}
			}
			cols := map[string]any{
				"gamification":     datatypes.NewJSONType(out.State),
				"academy_progress": datatypes.NewJSONType(out.Modules),
			}
			return cols, &models.ProgressionEvent{
				ExternalUserID: externalUserID,
				Source:         models.EventSourceAcademy,
				ActionType:     string(progression.ActionAcademyCompleted),
				Reason:         contentID,
				Points:         quiz.XP,
				TotalPoints:    out.State.TotalPoints,
				Level:          out.State.Level,
				LevelUp:        out.LevelUp,
				Streak:         out.State.Streak,
				Unlocked:       datatypes.NewJSONType(unlocked),
			}, nil
		})
		if err != nil {
			return nil, err
		}
		if ok {
			log.Printf("📚 [ACADEMY] %s completed %s score=%.1f passed=%t xp=%d",
				externalUserID, contentID, quiz.Score, quiz.Passed, quiz.XP)
			return &QuizOutcome{
				ContentID:   contentID,
				Score:       quiz.Score,
				Passed:      quiz.Passed,
				XPEarned:    quiz.XP,
				NewLevel:    out.State.Level,
				LevelUp:     out.LevelUp,
				Achievement: out.Achievement,
			}, nil
		}
		log.Printf("⚠️ [ACADEMY] version conflict for %s (attempt %d/%d)", externalUserID, attempt, maxWriteAttempts)
	}
	return nil, fmt.Errorf("%w: %s", ErrConcurrentUpdate, externalUserID)
}

// GetProgress summarises the user's completed modules.
func (s *AcademyService) GetProgress(ctx context.Context, externalUserID string) (progression.AcademyProgress, error) {
	prof, err := loadProfile(s.DB.WithContext(ctx), externalUserID)
	if err != nil {
		return progression.AcademyProgress{}, err
	}
	return progression.AcademySummary(prof.AcademyProgress.Data()), nil
}
