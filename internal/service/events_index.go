package service

import (
	"context"
	"fmt"

	"github.com/heroines-gacha/fights/internal/fight"
	"github.com/heroines-gacha/fights/internal/keys"
)

// UpdateLatestEventsIndex moves the playback cursor of a fight. The cursor
// only moves forward and never past the end of the event log; other values
// are rejected with ErrInvalidIndex, not clamped.
func (s *Service) UpdateLatestEventsIndex(ctx context.Context, userID, fightID string, index int) (*fight.State, error) {
	if _, err := s.ownedFight(ctx, userID, fightID); err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(fightID)
	defer unlock()

	st, err := s.loadState(ctx, fightID, ErrFightNotFound)
	if err != nil {
		return nil, err
	}
	if index < st.LatestEventsIndex || index > len(st.Events) {
		return nil, ErrInvalidIndex
	}
	st.LatestEventsIndex = index
	if err := s.states.StoreState(ctx, keys.StateKey(fightID), st, s.ttl); err != nil {
		return nil, fmt.Errorf("store state: %w", err)
	}
	return st, nil
}
