package progression

import (
	"math"
	"time"
)

const (
	quizPassMark = 70.0
	quizBaseXP   = 30
)

// QuizResult is a scored quiz submission.
type QuizResult struct {
	Score  float64
	Passed bool
	XP     int64
}

// ScoreQuiz grades answers against the key position by position. Missing
// answers count as wrong; extra answers are ignored.
func ScoreQuiz(answers, correct []string) (QuizResult, error) {
	if len(correct) == 0 {
		return QuizResult{}, ErrEmptyQuiz
	}
	hits := 0
	for i, want := range correct {
		if i < len(answers) && answers[i] == want {
			hits++
		}
	}
	score := float64(hits) / float64(len(correct)) * 100
	res := QuizResult{Score: score, Passed: score >= quizPassMark, XP: quizBaseXP}
	if res.Passed {
		res.XP += int64(math.Floor((score - quizPassMark) / 3))
	}
	return res, nil
}

// ModuleRecord is the stored completion of one academy module.
type ModuleRecord struct {
	Completed   bool    `json:"completed"`
	CompletedAt string  `json:"completedAt"`
	QuizScore   float64 `json:"quizScore"`
	Passed      bool    `json:"passed"`
}

// Modules maps normalised content ids to their completion record.
type Modules map[string]ModuleRecord

// AcademyOutcome is the result of CompleteModule.
type AcademyOutcome struct {
	State   State
	Modules Modules
	Quiz    QuizResult
	LevelUp bool
	// Achievement is student or scholar when this completion unlocked it.
	Achievement string
}

// CompleteModule records a quiz completion. Quiz XP goes through the level
// resolver without streak bonus and without touching the streak.
// Re-completing a module overwrites its record and does not change the count.
func CompleteModule(state State, modules Modules, contentID string, quiz QuizResult, now time.Time) AcademyOutcome {
	next := state.OrDefault().Clone()

	recs := make(Modules, len(modules)+1)
	for k, v := range modules {
		recs[k] = v
	}
	recs[contentID] = ModuleRecord{
		Completed:   true,
		CompletedAt: now.UTC().Format(time.RFC3339),
		QuizScore:   quiz.Score,
		Passed:      quiz.Passed,
	}

	next.TotalPoints += quiz.XP
	lvl := ResolveLevel(next.XP, next.Level, next.XPToNextLevel, quiz.XP)
	next.XP, next.Level, next.XPToNextLevel = lvl.XP, lvl.Level, lvl.XPToNextLevel

	out := AcademyOutcome{Modules: recs, Quiz: quiz, LevelUp: lvl.LeveledUp}
	if tag := academyMilestone(len(recs)); tag != "" {
		var added bool
		next.Achievements, added = Unlock(next.Achievements, tag)
		if added {
			out.Achievement = tag
		}
	}
	out.State = next
	return out
}

// AcademyProgress summarises a user's academy modules.
type AcademyProgress struct {
	TotalCompleted int      `json:"totalCompleted"`
	TotalPassed    int      `json:"totalPassed"`
	PassRate       int      `json:"passRate"`
	Unlocked       []string `json:"unlocked"`
	Next           []string `json:"next"`
}

// AcademySummary counts completions and reports academy achievements.
func AcademySummary(modules Modules) AcademyProgress {
	p := AcademyProgress{TotalCompleted: len(modules), Unlocked: []string{}, Next: []string{}}
	for _, m := range modules {
		if m.Passed {
			p.TotalPassed++
		}
	}
	if p.TotalCompleted > 0 {
		p.PassRate = int(math.Round(float64(p.TotalPassed) / float64(p.TotalCompleted) * 100))
	}
	switch {
	case p.TotalCompleted >= scholarModules:
		p.Unlocked = append(p.Unlocked, AchievementStudent, AchievementScholar)
	case p.TotalCompleted >= studentModules:
		p.Unlocked = append(p.Unlocked, AchievementStudent)
		p.Next = append(p.Next, AchievementScholar)
	default:
		p.Next = append(p.Next, AchievementStudent)
	}
	return p
}
