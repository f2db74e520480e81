package progression

const (
	AchievementStudent = "student"
	AchievementScholar = "scholar"

	studentModules = 5
	scholarModules = 10
)

// Unlock appends tag unless it is already present. It reports whether the
// tag was newly added.
func Unlock(achievements []string, tag string) ([]string, bool) {
	if tag == "" {
		return achievements, false
	}
	for _, a := range achievements {
		if a == tag {
			return achievements, false
		}
	}
	return append(achievements, tag), true
}

// academyMilestone returns the achievement for an exact completed-module count.
// Counts that skip past a threshold do not unlock it retroactively.
func academyMilestone(completed int) string {
	switch completed {
	case studentModules:
		return AchievementStudent
	case scholarModules:
		return AchievementScholar
	}
	return ""
}
