// Package engine resolves turns of a fight. It is a pure function of the
// fight state apart from the initiative dice: no I/O, no logging, no
// goroutines. Callers must not resolve the same state concurrently.
package engine

import (
	"sort"

	"github.com/heroines-gacha/fights/internal/fight"
)

// rollInitiative rolls for every living combatant and orders them by roll,
// highest first. Equal rolls keep roster order.
func (tc *turnContext) rollInitiative() []fight.OrderEntry {
	order := make([]fight.OrderEntry, 0, len(tc.s.Characters))
	for i := range tc.s.Characters {
		if c := &tc.s.Characters[i]; c.Alive() {
			order = append(order, fight.OrderEntry{ID: c.FightID, Roll: tc.roll()})
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].Roll > order[j].Roll })
	return order
}

// checkTerminal moves the fight to win or lose when a side is wiped out and
// records the matching event. Losing everybody counts as a defeat.
func (tc *turnContext) checkTerminal() {
	allies := tc.s.SideDefeated(fight.SideAlly)
	enemies := tc.s.SideDefeated(fight.SideEnemy)
	switch {
	case allies && enemies:
		tc.s.Status = fight.StatusLose
		tc.add(fight.Event{Action: fight.EventDefeat})
	case enemies:
		tc.s.Status = fight.StatusWin
		tc.add(fight.Event{Action: fight.EventVictory})
	case allies:
		tc.s.Status = fight.StatusLose
		tc.add(fight.Event{Action: fight.EventDefeat})
	}
}

// ResolveTurn advances s by one turn in place and returns it. A fight that is
// already won or lost is returned untouched.
//
// Every living combatant acts once in initiative order. The fight ends the
// moment one side is wiped out; otherwise buffs tick down and the turn
// counter moves on. New events are appended to s.Events in the order they
// happened.
func ResolveTurn(s *fight.State, opts ...Option) *fight.State {
	if s == nil || s.Status != fight.StatusActive {
		return s
	}
	tc := newTurnContext(s, opts)

	s.Order = tc.rollInitiative()
	if len(s.Order) == 0 {
		tc.checkTerminal()
	}
	for _, entry := range s.Order {
		if s.Status != fight.StatusActive {
			break
		}
		actor := s.Character(entry.ID)
		if actor == nil || !actor.Alive() {
			continue
		}
		if ev := tc.actOnce(actor); ev != nil {
			tc.add(*ev)
		}
		tc.checkTerminal()
	}

	if s.Status == fight.StatusActive {
		tc.tickBuffs()
		s.Turn++
	}
	s.Events = append(s.Events, tc.events...)
	return s
}
