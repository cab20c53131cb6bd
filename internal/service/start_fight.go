package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/heroines-gacha/fights/internal/constants"
	"github.com/heroines-gacha/fights/internal/fight"
	"github.com/heroines-gacha/fights/internal/keys"
	"github.com/heroines-gacha/fights/internal/leveling"
	"github.com/heroines-gacha/fights/internal/logging"
)

// PartyMember is one ally the player brings into a fight.
type PartyMember struct {
	AllyID    string `json:"ally_id"`
	Position  int    `json:"position"`
	Level     int    `json:"level"`
	Ascension int    `json:"ascension"`
}

type StartFightRequest struct {
	UserID  string
	StageID string
	Party   []PartyMember
}

// StartFight creates the fight record for a stage and stores its initial
// state. The stage must be the next one the player may play: its map is the
// current map of the campaign and its map level follows the highest stage
// won on that map.
func (s *Service) StartFight(ctx context.Context, req StartFightRequest) (*fight.Record, *fight.State, error) {
	stage, ok := s.catalog.Stages[req.StageID]
	if !ok {
		return nil, nil, ErrStageNotFound
	}
	mp, ok := s.catalog.Maps[stage.MapID]
	if !ok {
		return nil, nil, ErrStageNotFound
	}
	if err := s.checkProgression(ctx, req.UserID, mp, stage); err != nil {
		return nil, nil, err
	}
	if len(req.Party) == 0 {
		return nil, nil, ErrNoAllies
	}
	if err := s.validateParty(req.Party); err != nil {
		return nil, nil, err
	}

	rec := &fight.Record{
		ID:         s.newID(),
		UserID:     req.UserID,
		StageID:    stage.ID,
		MapID:      mp.ID,
		Campaign:   mp.Campaign,
		MapLevel:   mp.Level,
		StageLevel: stage.MapLevel,
		Boss:       stage.Boss,
		Result:     fight.StatusActive,
	}
	for _, p := range req.Party {
		rec.Allies = append(rec.Allies, fight.RecordAlly{
			ID:        s.newID(),
			FightID:   rec.ID,
			AllyID:    p.AllyID,
			Position:  p.Position,
			Level:     atLeastOne(p.Level),
			Ascension: p.Ascension,
		})
	}
	for _, e := range stage.Enemies {
		rec.Enemies = append(rec.Enemies, fight.RecordEnemy{
			ID:       s.newID(),
			FightID:  rec.ID,
			EnemyID:  e.EnemyID,
			Position: e.Position,
			Level:    atLeastOne(e.Level),
		})
	}
	if err := s.repo.CreateFight(ctx, rec); err != nil {
		return nil, nil, fmt.Errorf("create fight: %w", err)
	}

	st := s.initialState(rec)
	if err := s.states.StoreState(ctx, keys.StateKey(rec.ID), st, s.ttl); err != nil {
		return nil, nil, fmt.Errorf("store initial state: %w", err)
	}
	logging.Info("fight started", logging.Fields{
		constants.LogFieldFightID: rec.ID,
		constants.LogFieldUserID:  req.UserID,
		constants.LogFieldStageID: stage.ID,
	})
	return rec, st, nil
}

func (s *Service) checkProgression(ctx context.Context, userID string, mp fight.MapDef, stage fight.StageDef) error {
	bossMap, err := s.repo.HighestBossMapWon(ctx, userID, mp.Campaign)
	if err != nil {
		return fmt.Errorf("highest map won: %w", err)
	}
	current := 1
	if bossMap > 0 {
		current = minInt(s.catalog.MapCount(mp.Campaign), bossMap+1)
	}
	if mp.Level != current {
		return ErrStageLocked
	}
	highest, err := s.repo.HighestStageWon(ctx, userID, mp.ID)
	if err != nil {
		return fmt.Errorf("highest stage won: %w", err)
	}
	if stage.MapLevel != highest+1 {
		return ErrStageLocked
	}
	return nil
}

func (s *Service) validateParty(party []PartyMember) error {
	seenAlly := make(map[string]struct{}, len(party))
	seenPos := make(map[int]struct{}, len(party))
	for _, p := range party {
		if _, ok := s.catalog.Allies[p.AllyID]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownAlly, p.AllyID)
		}
		if p.Position < 1 {
			return fmt.Errorf("%w: ally %s has no position", ErrInvalidParty, p.AllyID)
		}
		if _, dup := seenAlly[p.AllyID]; dup {
			return fmt.Errorf("%w: ally %s appears twice", ErrInvalidParty, p.AllyID)
		}
		if _, dup := seenPos[p.Position]; dup {
			return fmt.Errorf("%w: position %d taken twice", ErrInvalidParty, p.Position)
		}
		seenAlly[p.AllyID] = struct{}{}
		seenPos[p.Position] = struct{}{}
	}
	return nil
}

// initialState builds turn 1 of a fight: enemies first, then allies, each
// group ordered by position.
func (s *Service) initialState(rec *fight.Record) *fight.State {
	enemies := make([]fight.Character, 0, len(rec.Enemies))
	for _, e := range rec.Enemies {
		t := s.catalog.Enemies[e.EnemyID]
		hp := leveling.EnemyStat(t.Stats.HP, e.Level)
		enemies = append(enemies, fight.Character{
			FightID:     e.ID,
			ID:          t.ID,
			Name:        t.Name,
			Side:        fight.SideEnemy,
			Class:       t.Class,
			Position:    e.Position,
			ImageURL:    s.mediaPath(constants.MediaEnemiesDir, t.ID+".png"),
			HP:          hp,
			MaxHP:       hp,
			Atk:         leveling.EnemyStat(t.Stats.Atk, e.Level),
			MAtk:        leveling.EnemyStat(t.Stats.MAtk, e.Level),
			Def:         leveling.EnemyStat(t.Stats.Def, e.Level),
			MDef:        leveling.EnemyStat(t.Stats.MDef, e.Level),
			ActiveSpell: s.catalog.SpellFor(t),
			Buffs:       []fight.Buff{},
		})
	}
	allies := make([]fight.Character, 0, len(rec.Allies))
	for _, a := range rec.Allies {
		t := s.catalog.Allies[a.AllyID]
		hp := leveling.AllyStat(t.Stats.HP, a.Level, a.Ascension)
		allies = append(allies, fight.Character{
			FightID:     a.ID,
			ID:          t.ID,
			Name:        t.Name,
			Side:        fight.SideAlly,
			Class:       t.Class,
			Position:    a.Position,
			ImageURL:    s.mediaPath(constants.MediaAlliesDir, t.ID+".portrait.png"),
			HP:          hp,
			MaxHP:       hp,
			Atk:         leveling.AllyStat(t.Stats.Atk, a.Level, a.Ascension),
			MAtk:        leveling.AllyStat(t.Stats.MAtk, a.Level, a.Ascension),
			Def:         leveling.AllyStat(t.Stats.Def, a.Level, a.Ascension),
			MDef:        leveling.AllyStat(t.Stats.MDef, a.Level, a.Ascension),
			ActiveSpell: s.catalog.SpellFor(t),
			Buffs:       []fight.Buff{},
		})
	}
	sort.SliceStable(enemies, func(i, j int) bool { return enemies[i].Position < enemies[j].Position })
	sort.SliceStable(allies, func(i, j int) bool { return allies[i].Position < allies[j].Position })

	return &fight.State{
		Turn:       1,
		Order:      []fight.OrderEntry{},
		Characters: append(enemies, allies...),
		Events:     []fight.Event{},
		Status:     fight.StatusActive,
		BgURL:      s.mediaPath(constants.MediaBattleBgsDir, rec.MapID+".png"),
	}
}

func (s *Service) mediaPath(dir, file string) string {
	return strings.TrimRight(s.mediaURL, "/") + "/" + dir + "/" + file
}

func atLeastOne(l int) int {
	if l < 1 {
		return 1
	}
	return l
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
