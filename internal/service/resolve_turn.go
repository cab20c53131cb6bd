package service

import (
	"context"
	"fmt"

	"github.com/heroines-gacha/fights/internal/constants"
	"github.com/heroines-gacha/fights/internal/dedupe"
	"github.com/heroines-gacha/fights/internal/engine"
	"github.com/heroines-gacha/fights/internal/fight"
	"github.com/heroines-gacha/fights/internal/keys"
	"github.com/heroines-gacha/fights/internal/logging"
)

// ResolveTurn advances a fight owned by userID by one turn and returns the
// stored result. A fight that is already over is returned unchanged.
// Concurrent calls for the same fight share one resolution.
func (s *Service) ResolveTurn(ctx context.Context, userID, fightID string) (*fight.State, error) {
	rec, err := s.ownedFight(ctx, userID, fightID)
	if err != nil {
		return nil, err
	}
	// The shared call outlives the caller that started it.
	shared := context.WithoutCancel(ctx)
	v, err, _ := dedupe.ResolveGroup.Do(keys.StateKey(fightID), func() (interface{}, error) {
		st, newEvents, err := s.resolveLocked(shared, fightID, rec.Result)
		if err != nil {
			return nil, err
		}
		// Subscribers are written to outside the fight lock.
		if s.publisher != nil && len(newEvents) > 0 {
			s.publisher.Publish(fightID, st, newEvents)
		}
		return st, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*fight.State), nil
}

// resolveLocked runs one turn under the fight lock and returns the stored
// state with the events the turn appended. recorded is the result currently
// held by the fight record.
func (s *Service) resolveLocked(ctx context.Context, fightID string, recorded fight.Status) (*fight.State, []fight.Event, error) {
	unlock := s.locks.Lock(fightID)
	defer unlock()

	st, err := s.loadState(ctx, fightID, ErrFightNotFound)
	if err != nil {
		return nil, nil, err
	}
	if st.Status.Terminal() {
		// A previous resolution stored the outcome but failed to mirror it.
		if recorded != st.Status {
			if err := s.mirrorResult(ctx, fightID, st); err != nil {
				return nil, nil, err
			}
		}
		return st, nil, nil
	}

	before := len(st.Events)
	engine.ResolveTurn(st, s.engine...)
	newEvents := append([]fight.Event(nil), st.Events[before:]...)

	// The state goes first: the record never claims an outcome the stored
	// state does not have.
	if err := s.states.StoreState(ctx, keys.StateKey(fightID), st, s.ttl); err != nil {
		logging.Error("failed to store fight state", err, logging.Fields{constants.LogFieldFightID: fightID})
		return nil, nil, fmt.Errorf("store state: %w", err)
	}
	if st.Status.Terminal() {
		if err := s.mirrorResult(ctx, fightID, st); err != nil {
			return nil, nil, err
		}
	}
	return st, newEvents, nil
}

func (s *Service) mirrorResult(ctx context.Context, fightID string, st *fight.State) error {
	if err := s.repo.SetFightResult(ctx, fightID, st.Status); err != nil {
		logging.Error("failed to record fight result", err, logging.Fields{constants.LogFieldFightID: fightID})
		return fmt.Errorf("set fight result: %w", err)
	}
	logging.Info("fight finished", logging.Fields{
		constants.LogFieldFightID: fightID,
		constants.LogFieldStatus:  string(st.Status),
		constants.LogFieldTurn:    st.Turn,
	})
	return nil
}
