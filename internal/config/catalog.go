package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/heroines-gacha/fights/internal/fight"
)

type statsEntry struct {
	HP   int `json:"hp" yaml:"hp"`
	Atk  int `json:"atk" yaml:"atk"`
	MAtk int `json:"m_atk" yaml:"m_atk"`
	Def  int `json:"def" yaml:"def"`
	MDef int `json:"m_def" yaml:"m_def"`
}

type characterEntry struct {
	ID    string     `json:"id" yaml:"id"`
	Name  string     `json:"name" yaml:"name"`
	Class string     `json:"class" yaml:"class"`
	Stats statsEntry `json:"stats" yaml:"stats"`
	Spell string     `json:"spell" yaml:"spell"`
}

type spellEntry struct {
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	RequiredMana int    `json:"required_mana" yaml:"required_mana"`
	ManaIncrease int    `json:"mana_increase" yaml:"mana_increase"`
	MaxMana      int    `json:"max_mana" yaml:"max_mana"`
}

type mapEntry struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Campaign string `json:"campaign" yaml:"campaign"`
	Level    int    `json:"level" yaml:"level"`
}

type stageEnemyEntry struct {
	EnemyID  string `json:"enemy_id" yaml:"enemy_id"`
	Position int    `json:"position" yaml:"position"`
	Level    int    `json:"level" yaml:"level"`
}

type stageEntry struct {
	ID       string            `json:"id" yaml:"id"`
	MapID    string            `json:"map_id" yaml:"map_id"`
	MapLevel int               `json:"map_level" yaml:"map_level"`
	Boss     bool              `json:"boss" yaml:"boss"`
	Enemies  []stageEnemyEntry `json:"enemies" yaml:"enemies"`
}

type rawCatalog struct {
	Spells  []spellEntry     `json:"spells" yaml:"spells"`
	Allies  []characterEntry `json:"allies" yaml:"allies"`
	Enemies []characterEntry `json:"enemies" yaml:"enemies"`
	Maps    []mapEntry       `json:"maps" yaml:"maps"`
	Stages  []stageEntry     `json:"stages" yaml:"stages"`
}

// LoadCatalog reads the design data at path. Files ending in .yaml or .yml
// are parsed as YAML, everything else as JSON.
func LoadCatalog(path string) (*fight.Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	var rc rawCatalog
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &rc)
	default:
		err = json.Unmarshal(b, &rc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	cat, err := buildCatalog(rc)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return cat, nil
}

func buildCatalog(rc rawCatalog) (*fight.Catalog, error) {
	if len(rc.Allies) == 0 {
		return nil, fmt.Errorf("allies is empty")
	}
	cat := &fight.Catalog{
		Allies:  make(map[string]fight.Template, len(rc.Allies)),
		Enemies: make(map[string]fight.Template, len(rc.Enemies)),
		Spells:  make(map[fight.SpellName]fight.SpellTemplate, len(rc.Spells)),
		Maps:    make(map[string]fight.MapDef, len(rc.Maps)),
		Stages:  make(map[string]fight.StageDef, len(rc.Stages)),
	}

	for _, s := range rc.Spells {
		name := fight.SpellName(strings.TrimSpace(s.Name))
		if !name.Implemented() {
			return nil, fmt.Errorf("spell '%s' is not implemented", s.Name)
		}
		if _, dup := cat.Spells[name]; dup {
			return nil, fmt.Errorf("duplicate spell '%s'", s.Name)
		}
		if s.RequiredMana < 0 || s.ManaIncrease < 0 || s.MaxMana < 0 {
			return nil, fmt.Errorf("spell '%s' has negative mana values", s.Name)
		}
		if s.MaxMana > 0 && s.RequiredMana > s.MaxMana {
			return nil, fmt.Errorf("spell '%s' requires %d mana but caps at %d", s.Name, s.RequiredMana, s.MaxMana)
		}
		cat.Spells[name] = fight.SpellTemplate{
			Name:         name,
			Description:  strings.TrimSpace(s.Description),
			RequiredMana: s.RequiredMana,
			ManaIncrease: s.ManaIncrease,
			MaxMana:      s.MaxMana,
		}
	}

	if err := addTemplates(cat, cat.Allies, rc.Allies, "ally"); err != nil {
		return nil, err
	}
	if err := addTemplates(cat, cat.Enemies, rc.Enemies, "enemy"); err != nil {
		return nil, err
	}

	for _, m := range rc.Maps {
		if m.ID == "" {
			return nil, fmt.Errorf("map entry missing 'id'")
		}
		if _, dup := cat.Maps[m.ID]; dup {
			return nil, fmt.Errorf("duplicate map id '%s'", m.ID)
		}
		if m.Level < 1 {
			return nil, fmt.Errorf("map '%s' level must be >= 1", m.ID)
		}
		cat.Maps[m.ID] = fight.MapDef{ID: m.ID, Name: m.Name, Campaign: m.Campaign, Level: m.Level}
	}

	for _, s := range rc.Stages {
		if s.ID == "" {
			return nil, fmt.Errorf("stage entry missing 'id'")
		}
		if _, dup := cat.Stages[s.ID]; dup {
			return nil, fmt.Errorf("duplicate stage id '%s'", s.ID)
		}
		if _, ok := cat.Maps[s.MapID]; !ok {
			return nil, fmt.Errorf("stage '%s' references unknown map '%s'", s.ID, s.MapID)
		}
		if s.MapLevel < 1 {
			return nil, fmt.Errorf("stage '%s' map_level must be >= 1", s.ID)
		}
		if len(s.Enemies) == 0 {
			return nil, fmt.Errorf("stage '%s' has no enemies", s.ID)
		}
		st := fight.StageDef{ID: s.ID, MapID: s.MapID, MapLevel: s.MapLevel, Boss: s.Boss}
		for _, e := range s.Enemies {
			if _, ok := cat.Enemies[e.EnemyID]; !ok {
				return nil, fmt.Errorf("stage '%s' references unknown enemy '%s'", s.ID, e.EnemyID)
			}
			lvl := e.Level
			if lvl < 1 {
				lvl = 1
			}
			st.Enemies = append(st.Enemies, fight.StageEnemy{EnemyID: e.EnemyID, Position: e.Position, Level: lvl})
		}
		cat.Stages[s.ID] = st
	}
	return cat, nil
}

func addTemplates(cat *fight.Catalog, dst map[string]fight.Template, entries []characterEntry, kind string) error {
	for _, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("%s entry missing 'id'", kind)
		}
		if _, dup := dst[e.ID]; dup {
			return fmt.Errorf("duplicate %s id '%s'", kind, e.ID)
		}
		class := fight.Class(strings.ToUpper(strings.TrimSpace(e.Class)))
		if !class.Valid() {
			return fmt.Errorf("%s '%s' has unknown class '%s'", kind, e.ID, e.Class)
		}
		spell := fight.SpellName(strings.TrimSpace(e.Spell))
		if spell != "" {
			if _, ok := cat.Spells[spell]; !ok {
				return fmt.Errorf("%s '%s' references unknown spell '%s'", kind, e.ID, e.Spell)
			}
		}
		dst[e.ID] = fight.Template{
			ID:    e.ID,
			Name:  e.Name,
			Class: class,
			Stats: fight.BaseStats{
				HP:   e.Stats.HP,
				Atk:  e.Stats.Atk,
				MAtk: e.Stats.MAtk,
				Def:  e.Stats.Def,
				MDef: e.Stats.MDef,
			},
			Spell: spell,
		}
	}
	return nil
}
