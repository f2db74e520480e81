package progression

import (
	"errors"
	"time"
)

// DateLayout is the ISO calendar-day format used for lastActionDate.
const DateLayout = "2006-01-02"

const (
	startingLevel         = 1
	startingXPToNextLevel = 1000
)

var (
	// ErrMalformedState is returned when a stored state cannot be interpreted.
	ErrMalformedState = errors.New("malformed progression state")
	// ErrEmptyQuiz is returned when a quiz has no answer key.
	ErrEmptyQuiz = errors.New("quiz has no correct answers")
)

// State is the gamification blob embedded in a user's profile.
type State struct {
	TotalPoints    int64    `json:"totalPoints"`
	Level          int      `json:"level"`
	XP             int64    `json:"xp"`
	XPToNextLevel  int64    `json:"xpToNextLevel"`
	Achievements   []string `json:"achievements"`
	Streak         int      `json:"streak"`
	LastActionDate *string  `json:"lastActionDate"`
}

// Attributes are the secondary skill counters.
type Attributes struct {
	FinancialIntelligence int64 `json:"financial_intelligence"`
	Discipline            int64 `json:"discipline"`
	Power                 int64 `json:"power"`
}

// NewState returns the defaults used the first time a user is rewarded.
func NewState() State {
	return State{
		Level:         startingLevel,
		XPToNextLevel: startingXPToNextLevel,
		Achievements:  []string{},
	}
}

// OrDefault returns s, or the defaults when s was never initialised.
// A stored level of zero can only come from an absent sub-record.
func (s State) OrDefault() State {
	if s.Level < startingLevel || s.XPToNextLevel <= 0 {
		return NewState()
	}
	return s
}

// Initialised reports whether the state carries real progression data.
func (s State) Initialised() bool {
	return s.Level >= startingLevel && s.XPToNextLevel > 0
}

// Clone returns a deep copy so reducers never share slices with their input.
func (s State) Clone() State {
	out := s
	out.Achievements = append([]string(nil), s.Achievements...)
	if out.Achievements == nil {
		out.Achievements = []string{}
	}
	if s.LastActionDate != nil {
		d := *s.LastActionDate
		out.LastActionDate = &d
	}
	return out
}

// HasAchievement reports whether tag is already unlocked.
func (s State) HasAchievement(tag string) bool {
	for _, a := range s.Achievements {
		if a == tag {
			return true
		}
	}
	return false
}

// View is the read model returned by the profile endpoint.
type View struct {
	State
	ProgressPercentage int   `json:"progressPercentage"`
	NextLevelPoints    int64 `json:"nextLevelPoints"`
}

// ProfileView decorates a state with progress toward the next level.
func ProfileView(s State) View {
	s = s.OrDefault()
	return View{
		State:              s,
		ProgressPercentage: int(s.XP * 100 / s.XPToNextLevel),
		NextLevelPoints:    s.XPToNextLevel - s.XP,
	}
}

// CalendarDay truncates t to its UTC calendar date string.
func CalendarDay(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
