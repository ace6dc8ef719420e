package team

import (
	"time"

	"gorm.io/gorm"
)

const (
	RolePlayer       = "player"
	RoleCaptain      = "captain"
	RoleWicketKeeper = "wicket_keeper"
)

// Team is a side that can be named in a match.
type Team struct {
	gorm.Model
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	ShortName   string `json:"short_name" gorm:"size:8"`
	CreatedByID uint   `json:"created_by_id" gorm:"index"`
}

// TeamMember is a user's place in a team's squad.
type TeamMember struct {
	gorm.Model
	TeamID       uint      `json:"team_id" gorm:"uniqueIndex:idx_team_user;not null"`
	UserID       uint      `json:"user_id" gorm:"uniqueIndex:idx_team_user;not null"`
	DisplayName  string    `json:"display_name"`
	Role         string    `json:"role" gorm:"default:'player'"`
	JerseyNumber int       `json:"jersey_number"`
	IsCaptain    bool      `json:"is_captain" gorm:"default:false"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	JoinedAt     time.Time `json:"joined_at"`
}

type CreateTeamRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	ShortName string `json:"short_name" binding:"max=8"`
}

type AddMemberRequest struct {
	UserID       uint   `json:"user_id" binding:"required"`
	DisplayName  string `json:"display_name" binding:"max=100"`
	Role         string `json:"role" binding:"omitempty,oneof=player captain wicket_keeper"`
	JerseyNumber int    `json:"jersey_number" binding:"gte=0,lte=999"`
}
