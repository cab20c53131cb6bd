package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/heroines-gacha/fights/internal/fight"
)

// ErrStateNotFound is returned when no live state blob exists for a key.
var ErrStateNotFound = errors.New("fight state not found")

// StateStore keeps the whole fight state as one blob per key. Blobs are
// loaded whole and overwritten whole.
type StateStore interface {
	LoadState(ctx context.Context, key string) (*fight.State, error)
	// StoreState overwrites the blob at key. A ttl <= 0 keeps it forever.
	StoreState(ctx context.Context, key string, s *fight.State, ttl time.Duration) error
	// DeleteExpired removes blobs whose ttl ran out before now and returns
	// their keys.
	DeleteExpired(ctx context.Context, now time.Time) ([]string, error)
}

// EncodeState serialises s into its storage representation.
func EncodeState(s *fight.State) ([]byte, error) {
	return json.Marshal(s)
}

// DecodeState parses a blob produced by EncodeState.
func DecodeState(b []byte) (*fight.State, error) {
	var s fight.State
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode fight state: %w", err)
	}
	return &s, nil
}

type stateRow struct {
	Key       string     `gorm:"column:state_key;primaryKey;size:128"`
	Data      []byte     `gorm:"type:blob"`
	ExpiresAt *time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (stateRow) TableName() string { return "fight_states" }

type sqliteStateStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSQLiteStateStore returns a StateStore backed by the fight_states table.
func NewSQLiteStateStore(db *gorm.DB) StateStore {
	return &sqliteStateStore{db: db, now: time.Now}
}

func (s *sqliteStateStore) LoadState(ctx context.Context, key string) (*fight.State, error) {
	var row stateRow
	err := s.db.WithContext(ctx).First(&row, "state_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, err
	}
	if row.ExpiresAt != nil && !row.ExpiresAt.After(s.now()) {
		return nil, ErrStateNotFound
	}
	return DecodeState(row.Data)
}

func (s *sqliteStateStore) StoreState(ctx context.Context, key string, st *fight.State, ttl time.Duration) error {
	data, err := EncodeState(st)
	if err != nil {
		return fmt.Errorf("encode fight state: %w", err)
	}
	row := stateRow{Key: key, Data: data}
	if ttl > 0 {
		exp := s.now().Add(ttl)
		row.ExpiresAt = &exp
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "state_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at", "updated_at"}),
	}).Create(&row).Error
}

func (s *sqliteStateStore) DeleteExpired(ctx context.Context, now time.Time) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired := func() *gorm.DB {
			return tx.Model(&stateRow{}).Where("expires_at IS NOT NULL AND expires_at <= ?", now)
		}
		if err := expired().Pluck("state_key", &keys).Error; err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		return expired().Delete(&stateRow{}).Error
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
