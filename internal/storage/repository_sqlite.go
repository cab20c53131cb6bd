package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/heroines-gacha/fights/internal/fight"
)

type sqliteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository returns a Repository backed by db.
func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateFight(ctx context.Context, rec *fight.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *sqliteRepository) GetFight(ctx context.Context, id string) (*fight.Record, error) {
	var rec fight.Record
	err := r.db.WithContext(ctx).
		Preload("Allies", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Enemies", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *sqliteRepository) SetFightResult(ctx context.Context, id string, result fight.Status) error {
	res := r.db.WithContext(ctx).Model(&fight.Record{}).Where("id = ?", id).Update("result", result)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteRepository) ListFightsByUser(ctx context.Context, userID string, limit int) ([]fight.Record, error) {
	if limit <= 0 {
		limit = 5
	}
	var recs []fight.Record
	if err := r.db.WithContext(ctx).
		Preload("Allies", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Enemies", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *sqliteRepository) HighestBossMapWon(ctx context.Context, userID, campaign string) (int, error) {
	var level int
	err := r.db.WithContext(ctx).Model(&fight.Record{}).
		Select("COALESCE(MAX(map_level), 0)").
		Where("user_id = ? AND campaign = ? AND boss = ? AND result = ?", userID, campaign, true, fight.StatusWin).
		Scan(&level).Error
	return level, err
}

func (r *sqliteRepository) HighestStageWon(ctx context.Context, userID, mapID string) (int, error) {
	var level int
	err := r.db.WithContext(ctx).Model(&fight.Record{}).
		Select("COALESCE(MAX(stage_level), 0)").
		Where("user_id = ? AND map_id = ? AND result = ?", userID, mapID, fight.StatusWin).
		Scan(&level).Error
	return level, err
}
