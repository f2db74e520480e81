package progression

import "math"

// levelGrowth is applied to xpToNextLevel on every level-up.
const levelGrowth = 1.15

// LevelResult is the output of ResolveLevel.
type LevelResult struct {
	XP            int64
	Level         int
	XPToNextLevel int64
	LeveledUp     bool
}

// ResolveLevel folds delta into xp and carries over as many levels as it
// covers. The result always satisfies 0 <= XP < XPToNextLevel.
func ResolveLevel(xp int64, level int, xpToNextLevel int64, delta int64) LevelResult {
	res := LevelResult{XP: xp + delta, Level: level, XPToNextLevel: xpToNextLevel}
	if res.XPToNextLevel <= 0 {
		res.XPToNextLevel = startingXPToNextLevel
	}
	for res.XP >= res.XPToNextLevel {
		res.XP -= res.XPToNextLevel
		res.Level++
		res.XPToNextLevel = nextThreshold(res.XPToNextLevel)
		res.LeveledUp = true
	}
	return res
}

func nextThreshold(current int64) int64 {
	next := int64(math.Floor(float64(current) * levelGrowth))
	if next <= current {
		next = current + 1
	}
	return next
}
