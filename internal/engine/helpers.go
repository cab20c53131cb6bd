package engine

import "github.com/heroines-gacha/fights/internal/fight"

// firstLiving returns the first living combatant of side in roster order,
// skipping the one whose fightId equals exclude.
func (tc *turnContext) firstLiving(side fight.Side, exclude string) *fight.Character {
	for i := range tc.s.Characters {
		c := &tc.s.Characters[i]
		if c.Side != side || !c.Alive() {
			continue
		}
		if exclude != "" && c.FightID == exclude {
			continue
		}
		return c
	}
	return nil
}

// livingOn returns every living combatant of side in roster order.
func (tc *turnContext) livingOn(side fight.Side) []*fight.Character {
	out := make([]*fight.Character, 0, len(tc.s.Characters))
	for i := range tc.s.Characters {
		if c := &tc.s.Characters[i]; c.Side == side && c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

func fightIDs(cs []*fight.Character) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.FightID
	}
	return ids
}
