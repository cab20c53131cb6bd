package fight

// Side tells which team a combatant fights for.
type Side string

const (
	SideAlly  Side = "ally"
	SideEnemy Side = "enemy"
)

// Opposing returns the other side.
func (s Side) Opposing() Side {
	if s == SideAlly {
		return SideEnemy
	}
	return SideAlly
}

// Class drives the basic action a combatant performs when it has no spell
// ready: healers heal an ally, everyone else attacks.
type Class string

const (
	ClassDPS    Class = "DPS"
	ClassTank   Class = "TANK"
	ClassHealer Class = "HEALER"
	ClassBuff   Class = "BUFF"
)

// Valid reports whether c is one of the known classes.
func (c Class) Valid() bool {
	switch c {
	case ClassDPS, ClassTank, ClassHealer, ClassBuff:
		return true
	}
	return false
}

// Stat names a buffable character stat. The values double as JSON keys of
// the stat fields on Character.
type Stat string

const (
	StatAtk   Stat = "atk"
	StatMAtk  Stat = "mAtk"
	StatDef   Stat = "def"
	StatMDef  Stat = "mDef"
	StatHP    Stat = "hp"
	StatMaxHP Stat = "maxHp"
)

// Status is the lifecycle of a fight. Win and lose are terminal.
type Status string

const (
	StatusActive Status = "active"
	StatusWin    Status = "win"
	StatusLose   Status = "lose"
)

// Terminal reports whether no further turn can be resolved.
func (s Status) Terminal() bool { return s == StatusWin || s == StatusLose }

// Buff is a timed percentage modifier on one stat.
type Buff struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stat  Stat   `json:"stat"`
	Value int    `json:"value"` // percent, additive with other buffs on the same stat
	// Duration counts the remaining whole turns.
	Duration int `json:"duration"`
	// SourceID is the fightId of the combatant that applied the buff.
	SourceID string `json:"sourceId"`
}

// BuffSpec is a buff definition without its identity, as carried by events.
type BuffSpec struct {
	Name     string `json:"name"`
	Stat     Stat   `json:"stat"`
	Value    int    `json:"value"`
	Duration int    `json:"duration"`
}

// Spec strips identity and source from b.
func (b Buff) Spec() BuffSpec {
	return BuffSpec{Name: b.Name, Stat: b.Stat, Value: b.Value, Duration: b.Duration}
}

// ActiveSpell is the mana-gated special ability of a combatant.
type ActiveSpell struct {
	Name         SpellName `json:"name"`
	CurrentMana  int       `json:"currentMana"`
	RequiredMana int       `json:"requiredMana"`
	ManaIncrease int       `json:"manaIncrease"`
	MaxMana      int       `json:"maxMana"`
}

// Ready reports whether the spell can be cast this turn.
func (s *ActiveSpell) Ready() bool { return s.CurrentMana >= s.RequiredMana }

// Character is one combatant for the lifetime of a single fight. Stats are
// already leveled when the fight starts; only HP, mana and buffs change
// afterwards.
type Character struct {
	FightID  string `json:"fightId"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Side     Side   `json:"side"`
	Class    Class  `json:"class"`
	Position int    `json:"position"`
	// ImageURL is opaque to the engine.
	ImageURL string `json:"imageUrl,omitempty"`

	HP    int `json:"hp"`
	MaxHP int `json:"maxHp"`
	Atk   int `json:"atk"`
	MAtk  int `json:"mAtk"`
	Def   int `json:"def"`
	MDef  int `json:"mDef"`

	ActiveSpell *ActiveSpell `json:"activeSpell,omitempty"`
	Buffs       []Buff       `json:"buffs"`
}

// Alive reports whether the combatant can still act and be targeted.
func (c *Character) Alive() bool { return c.HP > 0 }

// BaseStat returns the unbuffed value of stat.
func (c *Character) BaseStat(stat Stat) int {
	switch stat {
	case StatAtk:
		return c.Atk
	case StatMAtk:
		return c.MAtk
	case StatDef:
		return c.Def
	case StatMDef:
		return c.MDef
	case StatHP:
		return c.HP
	case StatMaxHP:
		return c.MaxHP
	}
	return 0
}

// OrderEntry is one initiative roll of the latest resolved turn.
type OrderEntry struct {
	ID   string `json:"id"`
	Roll int    `json:"roll"`
}

// State is the whole persisted state of one fight. It is loaded, advanced by
// exactly one resolved turn and stored back as a unit.
type State struct {
	Turn       int          `json:"turn"`
	Order      []OrderEntry `json:"order"`
	Characters []Character  `json:"characters"`
	Events     []Event      `json:"events"`
	// LatestEventsIndex is how far the client has played back the event log.
	LatestEventsIndex int    `json:"latestEventsIndex"`
	Status            Status `json:"status"`
	// MagicalCritsEnabled is reserved; no resolver reads it yet.
	MagicalCritsEnabled bool   `json:"magicalCritsEnabled"`
	BgURL               string `json:"bgUrl"`
}

// Character returns the combatant with the given fightId, or nil.
func (s *State) Character(fightID string) *Character {
	for i := range s.Characters {
		if s.Characters[i].FightID == fightID {
			return &s.Characters[i]
		}
	}
	return nil
}

// SideDefeated reports whether every combatant of side is dead. A side with
// no members counts as defeated.
func (s *State) SideDefeated(side Side) bool {
	for i := range s.Characters {
		if s.Characters[i].Side == side && s.Characters[i].Alive() {
			return false
		}
	}
	return true
}
