// Package leveling derives combat stats from template stats and progression.
package leveling

import "math"

// DefaultGrowthRate is the per-level stat growth.
const DefaultGrowthRate = 0.05

// EnemyStat scales an enemy base stat to level.
func EnemyStat(base, level int) int {
	return grow(base, level, DefaultGrowthRate)
}

// AllyStat scales an ally base stat to level. Ascension does not affect
// stats yet; it is accepted so callers do not change when it does.
func AllyStat(base, level, ascension int) int {
	_ = ascension
	return grow(base, level, DefaultGrowthRate)
}

func grow(base, level int, rate float64) int {
	if level <= 1 {
		return base
	}
	return int(math.Floor(float64(base) * math.Pow(1+rate, float64(level-1))))
}
