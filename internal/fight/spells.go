package fight

// SpellName identifies an active spell. The set is closed: every value below
// has a matching case in the engine's spell dispatch.
type SpellName string

const (
	SpellPickPunch   SpellName = "Pick Punch"
	SpellPoweredHeal SpellName = "Powered Heal"
	SpellBattleCry   SpellName = "Battle Cry"
)

// ImplementedSpells lists every spell the engine can cast, in a stable order.
func ImplementedSpells() []SpellName {
	return []SpellName{SpellPickPunch, SpellPoweredHeal, SpellBattleCry}
}

// Implemented reports whether the engine knows how to cast s.
func (s SpellName) Implemented() bool {
	for _, n := range ImplementedSpells() {
		if n == s {
			return true
		}
	}
	return false
}

// BattleCryBuff is the buff Battle Cry grants to every living member of the
// caster's side.
var BattleCryBuff = BuffSpec{Name: string(SpellBattleCry), Stat: StatAtk, Value: 5, Duration: 3}
