package engine

import "time"

const (
	BaseDropInterval = 1000 * time.Millisecond
	MinDropInterval  = 100 * time.Millisecond
	dropIntervalStep = 100 * time.Millisecond

	lineScore  = 100
	levelScore = 1000
)

// DropInterval is the gravity period for a level, starting at one second on
// level 1 and shrinking by 100ms per level down to 100ms.
func DropInterval(level int) time.Duration {
	return max(MinDropInterval, BaseDropInterval-time.Duration(level-1)*dropIntervalStep)
}

// LineScore is the score awarded for clearing lines at once on level.
func LineScore(lines, level int) int {
	return lines * lineScore * level
}

// LevelThreshold is the score at which level advances to level+1.
func LevelThreshold(level int) int {
	return level * levelScore
}
