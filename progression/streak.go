package progression

import (
	"fmt"
	"time"
)

const (
	AchievementStreak7  = "streak_7"
	AchievementStreak30 = "streak_30"
)

// StreakChange describes which branch the tracker took.
type StreakChange int

const (
	StreakSameDay StreakChange = iota
	StreakIncremented
	StreakReset
)

// StreakResult is the output of AdvanceStreak.
type StreakResult struct {
	Streak         int
	LastActionDate string
	Change         StreakChange
	// Milestone is streak_7 or streak_30 when the increment landed exactly on one.
	Milestone string
}

// AdvanceStreak applies one qualifying action on day today (YYYY-MM-DD).
func AdvanceStreak(streak int, lastActionDate *string, today string) (StreakResult, error) {
	res := StreakResult{Streak: streak, LastActionDate: today}

	if lastActionDate == nil || *lastActionDate == "" {
		res.Streak = 1
		res.Change = StreakReset
		return res, nil
	}
	if *lastActionDate == today {
		res.Change = StreakSameDay
		return res, nil
	}

	diff, err := daysBetween(*lastActionDate, today)
	if err != nil {
		return StreakResult{}, err
	}
	if diff != 1 {
		res.Streak = 1
		res.Change = StreakReset
		return res, nil
	}

	res.Streak = streak + 1
	res.Change = StreakIncremented
	switch res.Streak {
	case 7:
		res.Milestone = AchievementStreak7
	case 30:
		res.Milestone = AchievementStreak30
	}
	return res, nil
}

func daysBetween(from, to string) (int, error) {
	a, err := time.Parse(DateLayout, from)
	if err != nil {
		return 0, fmt.Errorf("%w: lastActionDate %q: %v", ErrMalformedState, from, err)
	}
	b, err := time.Parse(DateLayout, to)
	if err != nil {
		return 0, fmt.Errorf("%w: today %q: %v", ErrMalformedState, to, err)
	}
	return int(b.Sub(a).Hours() / 24), nil
}
