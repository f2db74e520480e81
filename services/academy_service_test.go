package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"finquest-progression/models"
	"finquest-progression/progression"
	"finquest-progression/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiz(contentID string, answers ...string) QuizSubmission {
	return QuizSubmission{
		ContentID:      contentID,
		Answers:        answers,
		CorrectAnswers: []string{"a", "b", "c", "d"},
	}
}

func TestCompleteQuiz_GradesAndGrantsXP(t *testing.T) {
	db := testutil.NewDB(t)
	st := progression.NewState()
	st.Streak = 3
	last := "2025-01-08"
	st.LastActionDate = &last
	testutil.SeedProfile(t, db, "u-1", "Ana", st)

	svc := NewAcademyService(db)
	svc.Now = testutil.Clock("2025-01-10T09:00:00Z")

	out, err := svc.CompleteQuiz(context.Background(), "u-1", quiz("Orçamento Básico", "a", "b", "c", "x"))
	require.NoError(t, err)
	assert.Equal(t, "orcamento-basico", out.ContentID)
	assert.InDelta(t, 75.0, out.Score, 0.001)
	assert.True(t, out.Passed)
	assert.Equal(t, int64(31), out.XPEarned)
	assert.Empty(t, out.Achievement)

	prof := reloadState(t, db, "u-1")
	got := prof.Gamification.Data()
	assert.Equal(t, int64(31), got.TotalPoints)
	assert.Equal(t, 3, got.Streak, "quizzes never move the streak")
	assert.Equal(t, "2025-01-08", *got.LastActionDate)

	mods := prof.AcademyProgress.Data()
	require.Contains(t, mods, "orcamento-basico")
	assert.Equal(t, "2025-01-10T09:00:00Z", mods["orcamento-basico"].CompletedAt)

	var ev models.ProgressionEvent
	require.NoError(t, db.First(&ev).Error)
	assert.Equal(t, models.EventSourceAcademy, ev.Source)
	assert.Equal(t, "orcamento-basico", ev.Reason)
}

func TestCompleteQuiz_FailedQuizStillGrantsBaseXP(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedProfile(t, db, "u-1", "Ana", progression.State{})
	svc := NewAcademyService(db)

	out, err := svc.CompleteQuiz(context.Background(), "u-1", quiz("juros-compostos", "x"))
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Equal(t, int64(30), out.XPEarned)
	assert.Equal(t, 1, out.NewLevel)
}

func TestCompleteQuiz_UnlocksStudentAndScholar(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedProfile(t, db, "u-1", "Ana", progression.NewState())
	svc := NewAcademyService(db)
	ctx := context.Background()

	unlocked := map[int]string{}
	for i := 1; i <= 11; i++ {
		out, err := svc.CompleteQuiz(ctx, "u-1", quiz(fmt.Sprintf("module %d", i), "a", "b", "c", "d"))
		require.NoError(t, err)
		if out.Achievement != "" {
			unlocked[i] = out.Achievement
		}
	}
	assert.Equal(t, map[int]string{5: progression.AchievementStudent, 10: progression.AchievementScholar}, unlocked)

	got := reloadState(t, db, "u-1").Gamification.Data()
	assert.ElementsMatch(t, []string{"student", "scholar"}, got.Achievements)
}

func TestCompleteQuiz_RepeatedModuleCountsOnce(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedProfile(t, db, "u-1", "Ana", progression.NewState())
	svc := NewAcademyService(db)
	ctx := context.Background()

	_, err := svc.CompleteQuiz(ctx, "u-1", quiz("Reserva de Emergência", "a"))
	require.NoError(t, err)
	_, err = svc.CompleteQuiz(ctx, "u-1", quiz("reserva de emergencia", "a", "b", "c", "d"))
	require.NoError(t, err)

	p, err := svc.GetProgress(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalCompleted)
	assert.Equal(t, 1, p.TotalPassed)
	assert.Equal(t, 100, p.PassRate)
	assert.Equal(t, []string{progression.AchievementStudent}, p.Next)
}

func TestCompleteQuiz_Rejections(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedProfile(t, db, "u-1", "Ana", progression.NewState())
	svc := NewAcademyService(db)
	ctx := context.Background()

	_, err := svc.CompleteQuiz(ctx, "u-1", quiz("!!!", "a"))
	assert.True(t, errors.Is(err, ErrInvalidContentID))

	_, err = svc.CompleteQuiz(ctx, "u-1", QuizSubmission{ContentID: "budget", Answers: []string{"a"}})
	assert.True(t, errors.Is(err, progression.ErrEmptyQuiz))

	_, err = svc.CompleteQuiz(ctx, "ghost", quiz("budget", "a"))
	assert.True(t, errors.Is(err, ErrProfileNotFound))

	assert.Equal(t, int64(0), reloadState(t, db, "u-1").Version)
}
