package engine

import "github.com/heroines-gacha/fights/internal/fight"

// applyBuff attaches a fresh copy of spec to target and returns it.
func (tc *turnContext) applyBuff(target *fight.Character, spec fight.BuffSpec, sourceID string) fight.Buff {
	b := fight.Buff{
		ID:       tc.newID(),
		Name:     spec.Name,
		Stat:     spec.Stat,
		Value:    spec.Value,
		Duration: maxInt(spec.Duration, 1),
		SourceID: sourceID,
	}
	target.Buffs = append(target.Buffs, b)
	return b
}

// tickBuffs advances every buff by one turn, drops the expired ones with a
// buffExpired event each and re-clamps hp to the possibly lower max hp.
func (tc *turnContext) tickBuffs() {
	for i := range tc.s.Characters {
		c := &tc.s.Characters[i]
		kept := make([]fight.Buff, 0, len(c.Buffs))
		var expired []fight.Buff
		for _, b := range c.Buffs {
			b.Duration--
			if b.Duration <= 0 {
				expired = append(expired, b)
				continue
			}
			kept = append(kept, b)
		}
		c.Buffs = kept
		for _, b := range expired {
			spec := b.Spec()
			tc.add(fight.Event{
				Action:   fight.EventBuffExpired,
				Actor:    b.SourceID,
				BuffName: b.Name,
				Buff:     &spec,
				Targets:  []string{c.FightID},
			})
		}
		clampHP(c)
	}
}
