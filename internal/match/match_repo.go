package match

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchRepository defines methods to interact with match-related data
type MatchRepository interface {
	// Match methods
	CreateMatch(match *Match) error
	GetMatchByID(id uint) (*Match, error)
	GetMatches(status MatchStatus, teamID uint, page, pageSize int) ([]Match, int64, error)
	GetMatchesByIDs(ids []uint) ([]Match, error)
	UpdateMatch(match *Match) error

	// Ball log
	SaveDelivery(ball *BallDelivery) error
	DeleteDelivery(matchID uint, inningsNumber, sequence int) error
	GetDeliveries(matchID uint) ([]BallDelivery, error)
	GetDeliveriesByMatches(matchIDs []uint) ([]BallDelivery, error)
	GetPlayerMatchIDs(playerID string) ([]uint, error)

	// Snapshots
	GetSnapshot(matchID uint) (*MatchSnapshot, error)
	SaveSnapshot(snap *MatchSnapshot) error

	// Transaction support
	WithTransaction(txFunc func(MatchRepository) error) error
}

// GormMatchRepository implements MatchRepository using GORM
type GormMatchRepository struct {
	db *gorm.DB
}

func NewGormMatchRepository(db *gorm.DB) *GormMatchRepository {
	return &GormMatchRepository{db: db}
}

// WithTransaction implements transaction support
func (r *GormMatchRepository) WithTransaction(txFunc func(MatchRepository) error) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	txRepo := &GormMatchRepository{db: tx}
	if err := txFunc(txRepo); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// CreateMatch inserts the match together with its squads.
func (r *GormMatchRepository) CreateMatch(match *Match) error {
	return r.db.Omit("TeamA", "TeamB").Create(match).Error
}

// GetMatchByID loads a match with teams and squads. It returns nil, nil when
// the match does not exist.
func (r *GormMatchRepository) GetMatchByID(id uint) (*Match, error) {
	var match Match
	err := r.db.
		Preload("TeamA").
		Preload("TeamB").
		Preload("MatchTeams.Players").
		First(&match, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &match, nil
}

// GetMatches lists matches, newest first. Zero filters match everything.
func (r *GormMatchRepository) GetMatches(status MatchStatus, teamID uint, page, pageSize int) ([]Match, int64, error) {
	var matches []Match
	var total int64

	query := r.db.Model(&Match{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if teamID != 0 {
		query = query.Where("team_a_id = ? OR team_b_id = ?", teamID, teamID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("TeamA").
		Preload("TeamB").
		Order("created_at desc").
		Offset(offset).
		Limit(pageSize).
		Find(&matches).Error
	if err != nil {
		return nil, 0, err
	}
	return matches, total, nil
}

// GetMatchesByIDs loads bare match rows without teams or squads.
func (r *GormMatchRepository) GetMatchesByIDs(ids []uint) ([]Match, error) {
	var matches []Match
	if len(ids) == 0 {
		return matches, nil
	}
	err := r.db.Where("id IN ?", ids).Order("id asc").Find(&matches).Error
	return matches, err
}

// UpdateMatch saves the match row only; squads are immutable once created.
func (r *GormMatchRepository) UpdateMatch(match *Match) error {
	return r.db.Omit(clause.Associations).Save(match).Error
}

// SaveDelivery stores a ball. A row already stored under the same sequence is
// kept, which makes retries harmless.
func (r *GormMatchRepository) SaveDelivery(ball *BallDelivery) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(ball).Error
}

// DeleteDelivery removes an undone ball.
func (r *GormMatchRepository) DeleteDelivery(matchID uint, inningsNumber, sequence int) error {
	return r.db.
		Where("match_id = ? AND innings_number = ? AND sequence = ?", matchID, inningsNumber, sequence).
		Delete(&BallDelivery{}).Error
}

// GetDeliveries returns the ball log of a match in bowling order.
func (r *GormMatchRepository) GetDeliveries(matchID uint) ([]BallDelivery, error) {
	var balls []BallDelivery
	err := r.db.
		Where("match_id = ?", matchID).
		Order("innings_number asc, sequence asc").
		Find(&balls).Error
	return balls, err
}

func (r *GormMatchRepository) GetDeliveriesByMatches(matchIDs []uint) ([]BallDelivery, error) {
	var balls []BallDelivery
	if len(matchIDs) == 0 {
		return balls, nil
	}
	err := r.db.
		Where("match_id IN ?", matchIDs).
		Order("match_id asc, innings_number asc, sequence asc").
		Find(&balls).Error
	return balls, err
}

// GetPlayerMatchIDs lists the matches in which playerID batted, bowled,
// fielded or was dismissed.
func (r *GormMatchRepository) GetPlayerMatchIDs(playerID string) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&BallDelivery{}).
		Distinct("match_id").
		Where("striker_id = ? OR non_striker_id = ? OR bowler_id = ? OR fielder_id = ? OR player_out_id = ?",
			playerID, playerID, playerID, playerID, playerID).
		Order("match_id asc").
		Pluck("match_id", &ids).Error
	return ids, err
}

// GetSnapshot returns nil, nil when the match has never been scored.
func (r *GormMatchRepository) GetSnapshot(matchID uint) (*MatchSnapshot, error) {
	var snap MatchSnapshot
	if err := r.db.Where("match_id = ?", matchID).First(&snap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snap, nil
}

// SaveSnapshot writes snap and bumps its version past the stored one. Callers
// serialize writes per match.
func (r *GormMatchRepository) SaveSnapshot(snap *MatchSnapshot) error {
	var current MatchSnapshot
	err := r.db.Select("id", "version").Where("match_id = ?", snap.MatchID).First(&current).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		snap.ID = 0
		snap.Version = 1
		return r.db.Create(snap).Error
	case err != nil:
		return err
	}

	snap.ID = current.ID
	snap.Version = current.Version + 1
	return r.db.Model(&MatchSnapshot{}).
		Where("id = ?", current.ID).
		Updates(map[string]interface{}{
			"version":    snap.Version,
			"engine":     snap.Engine,
			"state":      snap.State,
			"updated_at": time.Now(),
		}).Error
}
