package team

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TeamRepository defines the interface for team data operations
type TeamRepository interface {
	CreateTeam(team *Team) error
	GetTeamByID(id uint) (*Team, error)
	GetTeamByName(name string) (*Team, error)
	GetAllTeams(page, limit int, nameFilter string) ([]Team, int64, error)

	AddTeamMember(member *TeamMember) error
	GetTeamMember(teamID, userID uint) (*TeamMember, error)
	GetTeamMembers(teamID uint, page, limit int) ([]TeamMember, int64, error)
	IsUserTeamMember(teamID, userID uint) (bool, error)
	IsUserTeamCreator(teamID, userID uint) (bool, error)

	WithTransaction(txFunc func(TeamRepository) error) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new instance of TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) CreateTeam(team *Team) error {
	return r.db.Create(team).Error
}

// GetTeamByID returns nil, nil when the team does not exist.
func (r *teamRepository) GetTeamByID(id uint) (*Team, error) {
	var team Team
	if err := r.db.First(&team, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) GetTeamByName(name string) (*Team, error) {
	var team Team
	if err := r.db.Where("LOWER(name) = ?", strings.ToLower(name)).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) GetAllTeams(page, limit int, nameFilter string) ([]Team, int64, error) {
	var teams []Team
	var total int64

	query := r.db.Model(&Team{})
	if nameFilter != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(nameFilter)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&teams).Error; err != nil {
		return nil, 0, err
	}
	return teams, total, nil
}

// AddTeamMember inserts a member or refreshes an existing membership.
func (r *teamRepository) AddTeamMember(member *TeamMember) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "role", "is_active", "is_captain", "jersey_number", "updated_at"}),
	}).Create(member).Error
}

func (r *teamRepository) GetTeamMember(teamID, userID uint) (*TeamMember, error) {
	var member TeamMember
	if err := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *teamRepository) GetTeamMembers(teamID uint, page, limit int) ([]TeamMember, int64, error) {
	var members []TeamMember
	var total int64
	query := r.db.Model(&TeamMember{}).Where("team_id = ? AND is_active = ?", teamID, true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at asc").Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *teamRepository) IsUserTeamMember(teamID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&TeamMember{}).
		Where("team_id = ? AND user_id = ? AND is_active = ?", teamID, userID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *teamRepository) IsUserTeamCreator(teamID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&Team{}).Where("id = ? AND created_by_id = ?", teamID, userID).Count(&count).Error
	return count > 0, err
}

func (r *teamRepository) WithTransaction(txFunc func(TeamRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&teamRepository{db: tx})
	})
}
