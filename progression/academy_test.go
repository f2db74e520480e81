package progression

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "a"
	}
	return out
}

func answered(correct int, total int) []string {
	out := key(total)
	for i := correct; i < total; i++ {
		out[i] = "b"
	}
	return out
}

func TestScoreQuiz(t *testing.T) {
	tests := []struct {
		hits   int
		wantXP int64
		pass   bool
	}{
		{10, 40, true},
		{8, 33, true},
		{7, 30, true},
		{6, 30, false},
		{0, 30, false},
	}
	for _, tt := range tests {
		res, err := ScoreQuiz(answered(tt.hits, 10), key(10))
		require.NoError(t, err)
		assert.Equal(t, float64(tt.hits*10), res.Score)
		assert.Equal(t, tt.pass, res.Passed)
		assert.Equal(t, tt.wantXP, res.XP, "hits=%d", tt.hits)
	}
}

func TestScoreQuiz_ShortAnswers(t *testing.T) {
	res, err := ScoreQuiz([]string{"a"}, key(4))
	require.NoError(t, err)
	assert.Equal(t, 25.0, res.Score)
	assert.False(t, res.Passed)
}

func TestScoreQuiz_EmptyKey(t *testing.T) {
	_, err := ScoreQuiz([]string{"a"}, nil)
	require.ErrorIs(t, err, ErrEmptyQuiz)
}

func modulesN(n int) Modules {
	m := Modules{}
	for i := 0; i < n; i++ {
		m[fmt.Sprintf("module-%d", i)] = ModuleRecord{Completed: true, Passed: i%2 == 0}
	}
	return m
}

func TestCompleteModule_FifthUnlocksStudent(t *testing.T) {
	quiz := QuizResult{Score: 100, Passed: true, XP: 40}
	out := CompleteModule(State{}, modulesN(4), "budget-basics", quiz, testNow)

	assert.Len(t, out.Modules, 5)
	assert.Equal(t, AchievementStudent, out.Achievement)
	assert.Contains(t, out.State.Achievements, AchievementStudent)
	assert.Equal(t, int64(40), out.State.TotalPoints)
	assert.Equal(t, int64(40), out.State.XP)
	assert.Equal(t, 0, out.State.Streak)
	assert.Nil(t, out.State.LastActionDate)
}

func TestCompleteModule_TenthUnlocksScholar(t *testing.T) {
	s := NewState()
	s.Achievements = []string{AchievementStudent}
	out := CompleteModule(s, modulesN(9), "investing", QuizResult{XP: 30}, testNow)
	assert.Equal(t, AchievementScholar, out.Achievement)
	assert.Equal(t, []string{AchievementStudent, AchievementScholar}, out.State.Achievements)
}

func TestCompleteModule_RepeatDoesNotDuplicate(t *testing.T) {
	s := NewState()
	s.Achievements = []string{AchievementStudent}
	mods := modulesN(5)
	out := CompleteModule(s, mods, "module-0", QuizResult{XP: 30}, testNow)
	assert.Len(t, out.Modules, 5)
	assert.Empty(t, out.Achievement)
	assert.Equal(t, []string{AchievementStudent}, out.State.Achievements)
	assert.Len(t, mods, 5, "input modules must not be modified")
}

func TestCompleteModule_SkippedThresholdStaysLocked(t *testing.T) {
	out := CompleteModule(NewState(), modulesN(5), "extra", QuizResult{XP: 30}, testNow)
	assert.Len(t, out.Modules, 6)
	assert.Empty(t, out.Achievement)
	assert.NotContains(t, out.State.Achievements, AchievementStudent)
}

func TestCompleteModule_LevelsUp(t *testing.T) {
	s := NewState()
	s.XP = 980
	out := CompleteModule(s, nil, "m", QuizResult{XP: 40}, testNow)
	assert.True(t, out.LevelUp)
	assert.Equal(t, 2, out.State.Level)
	assert.Equal(t, int64(20), out.State.XP)
}

func TestAcademySummary(t *testing.T) {
	p := AcademySummary(nil)
	assert.Equal(t, 0, p.PassRate)
	assert.Equal(t, []string{AchievementStudent}, p.Next)
	assert.Empty(t, p.Unlocked)

	p = AcademySummary(modulesN(6))
	assert.Equal(t, 6, p.TotalCompleted)
	assert.Equal(t, 3, p.TotalPassed)
	assert.Equal(t, 50, p.PassRate)
	assert.Equal(t, []string{AchievementStudent}, p.Unlocked)
	assert.Equal(t, []string{AchievementScholar}, p.Next)

	p = AcademySummary(modulesN(10))
	assert.Equal(t, []string{AchievementStudent, AchievementScholar}, p.Unlocked)
	assert.Empty(t, p.Next)
}
