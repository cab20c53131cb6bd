package engine

import "github.com/heroines-gacha/fights/internal/fight"

// actOnce performs the actor's action for this turn and returns the event it
// produced. It returns nil when the actor charged mana or had no legal
// target; neither is an error.
func (tc *turnContext) actOnce(actor *fight.Character) *fight.Event {
	if sp := actor.ActiveSpell; sp != nil {
		if sp.Ready() {
			ev := tc.castSpell(sp.Name, actor)
			if ev != nil {
				sp.CurrentMana -= sp.RequiredMana
			}
			return ev
		}
		// Charging uses up the turn.
		sp.CurrentMana += sp.ManaIncrease
		return nil
	}
	return tc.basicAction(actor)
}

// basicAction is the free action every class falls back to.
func (tc *turnContext) basicAction(actor *fight.Character) *fight.Event {
	if actor.Class == fight.ClassHealer {
		return tc.basicHeal(actor)
	}
	return tc.basicAttack(actor)
}

func (tc *turnContext) basicHeal(actor *fight.Character) *fight.Event {
	target := tc.firstLiving(actor.Side, actor.FightID)
	if target == nil {
		return nil
	}
	heal := maxInt(0, EffectiveStat(actor, fight.StatAtk))
	target.HP = minInt(EffectiveStat(target, fight.StatHP)+heal, EffectiveStat(target, fight.StatMaxHP))
	clampHP(target)
	return &fight.Event{
		Action:   fight.EventHeal,
		Actor:    actor.FightID,
		CastName: fight.CastBasicHeal,
		Amount:   heal,
		Targets:  []string{target.FightID},
	}
}

func (tc *turnContext) basicAttack(actor *fight.Character) *fight.Event {
	target := tc.firstLiving(actor.Side.Opposing(), "")
	if target == nil {
		return nil
	}
	dmg := maxInt(0, EffectiveStat(actor, fight.StatAtk)-EffectiveStat(target, fight.StatDef))
	target.HP = maxInt(0, target.HP-dmg)
	return &fight.Event{
		Action:   fight.EventAttack,
		Actor:    actor.FightID,
		CastName: fight.CastBasicAttack,
		Amount:   dmg,
		Targets:  []string{target.FightID},
	}
}
