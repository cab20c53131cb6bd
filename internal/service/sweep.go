package service

import (
	"context"
	"time"

	"github.com/heroines-gacha/fights/internal/constants"
	"github.com/heroines-gacha/fights/internal/keys"
	"github.com/heroines-gacha/fights/internal/logging"
)

// SweepExpiredStates drops state blobs whose TTL ran out before now and
// returns the ids of the fights they belonged to. Their records stay; reading
// such a fight reports ErrStateUnavailable.
func (s *Service) SweepExpiredStates(ctx context.Context, now time.Time) ([]string, error) {
	removed, err := s.states.DeleteExpired(ctx, now)
	if err != nil {
		logging.Error("failed to sweep expired fight states", err, nil)
		return nil, err
	}
	ids := make([]string, 0, len(removed))
	for _, key := range removed {
		id, ok := keys.FightIDFromStateKey(key)
		if !ok {
			logging.Warn("swept a state with an unexpected key", nil, logging.Fields{constants.LogFieldKey: key})
			continue
		}
		ids = append(ids, id)
	}
	if len(removed) > 0 {
		logging.Info("swept expired fight states", logging.Fields{
			constants.LogFieldCount:    len(removed),
			constants.LogFieldFightIDs: ids,
		})
	}
	return ids, nil
}
