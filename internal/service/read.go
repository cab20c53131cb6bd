package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/heroines-gacha/fights/internal/constants"
	"github.com/heroines-gacha/fights/internal/fight"
	"github.com/heroines-gacha/fights/internal/keys"
	"github.com/heroines-gacha/fights/internal/logging"
	"github.com/heroines-gacha/fights/internal/storage"
)

// ownedFight loads the record of fightID and checks that userID owns it.
// Fights of other users are reported as missing.
func (s *Service) ownedFight(ctx context.Context, userID, fightID string) (*fight.Record, error) {
	rec, err := s.repo.GetFight(ctx, fightID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrFightNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get fight: %w", err)
	}
	if rec == nil || rec.UserID != userID {
		return nil, ErrFightNotFound
	}
	return rec, nil
}

// loadState returns the stored state of fightID. missing is returned when
// the blob does not exist or has expired.
func (s *Service) loadState(ctx context.Context, fightID string, missing error) (*fight.State, error) {
	st, err := s.states.LoadState(ctx, keys.StateKey(fightID))
	if errors.Is(err, storage.ErrStateNotFound) {
		return nil, missing
	}
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return st, nil
}

// GetState returns the current state of a fight owned by userID.
func (s *Service) GetState(ctx context.Context, userID, fightID string) (*fight.State, error) {
	if _, err := s.ownedFight(ctx, userID, fightID); err != nil {
		return nil, err
	}
	st, err := s.loadState(ctx, fightID, ErrStateUnavailable)
	if errors.Is(err, ErrStateUnavailable) {
		logging.Warn("fight state unavailable", err, logging.Fields{
			constants.LogFieldFightID: fightID,
			constants.LogFieldUserID:  userID,
		})
	}
	return st, err
}

// ListFights returns the latest fights of userID, newest first.
func (s *Service) ListFights(ctx context.Context, userID string) ([]fight.Record, error) {
	recs, err := s.repo.ListFightsByUser(ctx, userID, ListLimit)
	if err != nil {
		return nil, fmt.Errorf("list fights: %w", err)
	}
	return recs, nil
}
