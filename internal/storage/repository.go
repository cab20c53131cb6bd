package storage

import (
	"context"
	"errors"

	"github.com/heroines-gacha/fights/internal/fight"
)

// ErrNotFound is returned when a fight record does not exist.
var ErrNotFound = errors.New("record not found")

// Repository stores long-lived fight records.
type Repository interface {
	CreateFight(ctx context.Context, r *fight.Record) error
	// GetFight loads a record with its allies and enemies.
	GetFight(ctx context.Context, id string) (*fight.Record, error)
	// SetFightResult mirrors the terminal status of a fight.
	SetFightResult(ctx context.Context, id string, result fight.Status) error
	// ListFightsByUser returns the latest fights of a user with their allies
	// and enemies, newest first.
	ListFightsByUser(ctx context.Context, userID string, limit int) ([]fight.Record, error)
	// HighestBossMapWon returns the highest map level of campaign whose boss
	// stage the user has beaten, or 0.
	HighestBossMapWon(ctx context.Context, userID, campaign string) (int, error)
	// HighestStageWon returns the highest stage level the user has won on
	// mapID, or 0.
	HighestStageWon(ctx context.Context, userID, mapID string) (int, error)
}
