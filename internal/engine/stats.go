package engine

import "github.com/heroines-gacha/fights/internal/fight"

// --- Stat helpers -------------------------------------------------------

// EffectiveStat returns floor(base * (1 + totalBuffPercent/100)) where the
// total sums every buff on stat. The result may be zero or negative when
// debuffs outweigh buffs.
func EffectiveStat(c *fight.Character, stat fight.Stat) int {
	total := 0
	for _, b := range c.Buffs {
		if b.Stat == stat {
			total += b.Value
		}
	}
	return floorDiv(c.BaseStat(stat)*(100+total), 100)
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// clampHP lowers hp to the effective max hp. It never raises hp.
func clampHP(c *fight.Character) {
	if maxHP := EffectiveStat(c, fight.StatMaxHP); c.HP > maxHP {
		c.HP = maxHP
	}
	if c.HP < 0 {
		c.HP = 0
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
