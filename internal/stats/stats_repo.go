package stats

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatsRepository stores career aggregates.
type StatsRepository interface {
	GetCareer(userID uint) (*PlayerOverallCricketStat, error)
	UpsertCareer(stat *PlayerOverallCricketStat) error
}

type GormStatsRepository struct {
	db *gorm.DB
}

func NewGormStatsRepository(db *gorm.DB) *GormStatsRepository {
	return &GormStatsRepository{db: db}
}

// GetCareer returns nil, nil when no aggregate has been written for userID.
func (r *GormStatsRepository) GetCareer(userID uint) (*PlayerOverallCricketStat, error) {
	var stat PlayerOverallCricketStat
	if err := r.db.Where("user_id = ?", userID).First(&stat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stat, nil
}

// UpsertCareer replaces the stored aggregate of stat.UserID.
func (r *GormStatsRepository) UpsertCareer(stat *PlayerOverallCricketStat) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(stat).Error
}
