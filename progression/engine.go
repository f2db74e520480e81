package progression

import "time"

// Event is one rewarded action as submitted by a handler.
type Event struct {
	Action ActionType
	// Points overrides the reward of variable actions when positive.
	Points *int64
	// Achievement is echoed back to the caller untouched.
	Achievement *string
}

// Outcome is the result of applying one Event.
type Outcome struct {
	State        State
	Attributes   Attributes
	Points       int64
	Multiplier   float64
	LevelUp      bool
	StreakChange StreakChange
	// Unlocked holds achievements newly added by this event.
	Unlocked    []string
	Achievement *string
}

// Apply reduces (state, event) into the next state. The inputs are not
// modified; persisting the outcome is the caller's job.
func Apply(state State, attrs Attributes, ev Event, now time.Time) (Outcome, error) {
	next := state.OrDefault().Clone()

	streak, err := AdvanceStreak(next.Streak, next.LastActionDate, CalendarDay(now))
	if err != nil {
		return Outcome{}, err
	}
	next.Streak = streak.Streak
	next.LastActionDate = &streak.LastActionDate

	var unlocked []string
	if streak.Milestone != "" {
		var added bool
		next.Achievements, added = Unlock(next.Achievements, streak.Milestone)
		if added {
			unlocked = append(unlocked, streak.Milestone)
		}
	}

	points := ActionPoints(BaseReward(ev.Action, ev.Points), next.Streak)
	next.TotalPoints += points

	lvl := ResolveLevel(next.XP, next.Level, next.XPToNextLevel, points)
	next.XP, next.Level, next.XPToNextLevel = lvl.XP, lvl.Level, lvl.XPToNextLevel

	return Outcome{
		State:        next,
		Attributes:   EvolveAttributes(attrs, ev.Action, next.Streak),
		Points:       points,
		Multiplier:   Multiplier(next.Streak),
		LevelUp:      lvl.LeveledUp,
		StreakChange: streak.Change,
		Unlocked:     unlocked,
		Achievement:  ev.Achievement,
	}, nil
}
