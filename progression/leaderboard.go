package progression

import "sort"

// BoardKind selects the leaderboard ordering.
type BoardKind string

const (
	BoardPoints       BoardKind = "points"
	BoardLevel        BoardKind = "level"
	BoardAchievements BoardKind = "achievements"
)

// BoardKinds lists every supported ordering.
var BoardKinds = []BoardKind{BoardPoints, BoardLevel, BoardAchievements}

// ParseBoardKind falls back to points for anything unrecognised.
func ParseBoardKind(raw string) BoardKind {
	switch BoardKind(raw) {
	case BoardLevel:
		return BoardLevel
	case BoardAchievements:
		return BoardAchievements
	}
	return BoardPoints
}

// BoardEntry is one user on a leaderboard.
type BoardEntry struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Points       int64  `json:"points"`
	Level        int    `json:"level"`
	Achievements int    `json:"achievements"`
	Streak       int    `json:"streak"`
}

// EntryFor builds a board entry from a stored state.
func EntryFor(userID, name string, s State) BoardEntry {
	return BoardEntry{
		UserID:       userID,
		Name:         name,
		Points:       s.TotalPoints,
		Level:        s.Level,
		Achievements: len(s.Achievements),
		Streak:       s.Streak,
	}
}

// RankBoard sorts entries for kind and keeps the first limit. Ties keep the
// input order.
func RankBoard(entries []BoardEntry, kind BoardKind, limit int) []BoardEntry {
	out := append([]BoardEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch kind {
		case BoardLevel:
			if a.Level != b.Level {
				return a.Level > b.Level
			}
			return a.Points > b.Points
		case BoardAchievements:
			return a.Achievements > b.Achievements
		default:
			return a.Points > b.Points
		}
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Position returns the 1-based rank of userID in board, or 0 when absent.
func Position(board []BoardEntry, userID string) int {
	for i, e := range board {
		if e.UserID == userID {
			return i + 1
		}
	}
	return 0
}
