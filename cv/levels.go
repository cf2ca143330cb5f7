package cv

var levelLabels = [...]string{"Beginner", "Intermediate", "Good", "Fluent", "Native"}

// MaxLevel is the top of the language scale.
const MaxLevel = len(levelLabels)

// LevelLabel returns the label for a language level. Out of range levels use DefaultLevel.
func LevelLabel(level int) string {
	return levelLabels[NormalizeLevel(level)-1]
}

// LevelPercent converts a level to the width used by percentage indicators.
func LevelPercent(level int) int {
	return NormalizeLevel(level) * 100 / MaxLevel
}
