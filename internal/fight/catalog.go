package fight

// The catalog types below are game-design data loaded from the catalog file
// (see internal/config). They are static for the lifetime of the process.

// BaseStats are the level-1 stats of an ally or enemy template.
type BaseStats struct {
	HP   int `json:"hp"`
	Atk  int `json:"atk"`
	MAtk int `json:"m_atk"`
	Def  int `json:"def"`
	MDef int `json:"m_def"`
}

// SpellTemplate configures the mana economy of an implemented spell.
type SpellTemplate struct {
	Name         SpellName `json:"name"`
	Description  string    `json:"description"`
	RequiredMana int       `json:"required_mana"`
	ManaIncrease int       `json:"mana_increase"`
	MaxMana      int       `json:"max_mana"`
}

// Template is an ally or enemy definition.
type Template struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Class Class     `json:"class"`
	Stats BaseStats `json:"stats"`
	// Spell is the optional active spell name; it must match a SpellTemplate.
	Spell SpellName `json:"spell,omitempty"`
}

// MapDef groups stages of a campaign. Maps of a campaign are unlocked in
// ascending Level order by beating their boss stage.
type MapDef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Campaign string `json:"campaign"`
	Level    int    `json:"level"`
}

// StageEnemy places an enemy template in a stage.
type StageEnemy struct {
	EnemyID  string `json:"enemy_id"`
	Position int    `json:"position"`
	Level    int    `json:"level"`
}

// StageDef is one fight of a map. Stages of a map are unlocked in ascending
// MapLevel order.
type StageDef struct {
	ID       string       `json:"id"`
	MapID    string       `json:"map_id"`
	MapLevel int          `json:"map_level"`
	Boss     bool         `json:"boss"`
	Enemies  []StageEnemy `json:"enemies"`
}

// Catalog is the complete set of design data.
type Catalog struct {
	Allies  map[string]Template
	Enemies map[string]Template
	Spells  map[SpellName]SpellTemplate
	Maps    map[string]MapDef
	Stages  map[string]StageDef
}

// MapCount returns how many maps belong to campaign.
func (c *Catalog) MapCount(campaign string) int {
	n := 0
	for _, m := range c.Maps {
		if m.Campaign == campaign {
			n++
		}
	}
	return n
}

// SpellFor builds the initial spell state of a template, or nil when the
// template has no spell.
func (c *Catalog) SpellFor(t Template) *ActiveSpell {
	if t.Spell == "" {
		return nil
	}
	st, ok := c.Spells[t.Spell]
	if !ok {
		return nil
	}
	return &ActiveSpell{
		Name:         st.Name,
		CurrentMana:  0,
		RequiredMana: st.RequiredMana,
		ManaIncrease: st.ManaIncrease,
		MaxMana:      st.MaxMana,
	}
}
