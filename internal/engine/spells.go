package engine

import "github.com/heroines-gacha/fights/internal/fight"

// castSpell dispatches to the effect of name. Each effect picks its own
// targets, mutates them and returns nil when nobody can be targeted.
func (tc *turnContext) castSpell(name fight.SpellName, actor *fight.Character) *fight.Event {
	switch name {
	case fight.SpellPickPunch:
		return tc.pickPunch(actor)
	case fight.SpellPoweredHeal:
		return tc.poweredHeal(actor)
	case fight.SpellBattleCry:
		return tc.battleCry(actor)
	}
	return nil
}

// pickPunch hits the first living opponent with the caster's magic attack.
// Magic defense is added to the target's hp before the damage is taken off.
func (tc *turnContext) pickPunch(actor *fight.Character) *fight.Event {
	target := tc.firstLiving(actor.Side.Opposing(), "")
	if target == nil {
		return nil
	}
	dmg := maxInt(0, EffectiveStat(actor, fight.StatMAtk))
	target.HP = maxInt(0, EffectiveStat(target, fight.StatHP)+EffectiveStat(target, fight.StatMDef)-dmg)
	clampHP(target)
	return &fight.Event{
		Action:   fight.EventAttack,
		Actor:    actor.FightID,
		CastName: string(fight.SpellPickPunch),
		Amount:   dmg,
		Targets:  []string{target.FightID},
	}
}

// poweredHeal heals the first living member of the caster's side, which may
// be the caster itself.
func (tc *turnContext) poweredHeal(actor *fight.Character) *fight.Event {
	target := tc.firstLiving(actor.Side, "")
	if target == nil {
		return nil
	}
	heal := maxInt(0, EffectiveStat(actor, fight.StatMAtk))
	target.HP = minInt(EffectiveStat(target, fight.StatHP)+heal, EffectiveStat(target, fight.StatMaxHP))
	clampHP(target)
	return &fight.Event{
		Action:   fight.EventHeal,
		Actor:    actor.FightID,
		CastName: string(fight.SpellPoweredHeal),
		Amount:   heal,
		Targets:  []string{target.FightID},
	}
}

// battleCry buffs the attack of every living member of the caster's side.
func (tc *turnContext) battleCry(actor *fight.Character) *fight.Event {
	living := tc.livingOn(actor.Side)
	if len(living) == 0 {
		return nil
	}
	for _, c := range living {
		tc.applyBuff(c, fight.BattleCryBuff, actor.FightID)
	}
	spec := fight.BattleCryBuff
	return &fight.Event{
		Action:   fight.EventBuff,
		Actor:    actor.FightID,
		CastName: string(fight.SpellBattleCry),
		Buff:     &spec,
		Targets:  fightIDs(living),
	}
}
