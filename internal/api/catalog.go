package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/heroines-gacha/fights/internal/fight"
)

type spellView struct {
	Name         fight.SpellName `json:"name"`
	Description  string          `json:"description"`
	RequiredMana int             `json:"required_mana"`
	ManaIncrease int             `json:"mana_increase"`
	MaxMana      int             `json:"max_mana"`
}

type stageView struct {
	ID       string             `json:"id"`
	MapID    string             `json:"map_id"`
	MapName  string             `json:"map_name"`
	Campaign string             `json:"campaign"`
	MapLevel int                `json:"map_level"`
	Level    int                `json:"level"`
	Boss     bool               `json:"boss"`
	Enemies  []fight.StageEnemy `json:"enemies"`
}

// ListSpells returns the configured spells in a stable order.
func (h *FightHandler) ListSpells(c *gin.Context) {
	cat := h.svc.Catalog()
	out := make([]spellView, 0, len(cat.Spells))
	for _, name := range fight.ImplementedSpells() {
		sp, ok := cat.Spells[name]
		if !ok {
			continue
		}
		out = append(out, spellView{
			Name:         sp.Name,
			Description:  sp.Description,
			RequiredMana: sp.RequiredMana,
			ManaIncrease: sp.ManaIncrease,
			MaxMana:      sp.MaxMana,
		})
	}
	c.JSON(http.StatusOK, out)
}

// ListStages returns every stage ordered by campaign, map level and stage
// level.
func (h *FightHandler) ListStages(c *gin.Context) {
	cat := h.svc.Catalog()
	out := make([]stageView, 0, len(cat.Stages))
	for _, st := range cat.Stages {
		mp := cat.Maps[st.MapID]
		out = append(out, stageView{
			ID:       st.ID,
			MapID:    st.MapID,
			MapName:  mp.Name,
			Campaign: mp.Campaign,
			MapLevel: mp.Level,
			Level:    st.MapLevel,
			Boss:     st.Boss,
			Enemies:  st.Enemies,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Campaign != b.Campaign {
			return a.Campaign < b.Campaign
		}
		if a.MapLevel != b.MapLevel {
			return a.MapLevel < b.MapLevel
		}
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		return a.ID < b.ID
	})
	c.JSON(http.StatusOK, out)
}
