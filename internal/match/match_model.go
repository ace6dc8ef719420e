package match

import (
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/crease/internal/models"
	"github.com/DhavalSuthar-24/crease/internal/scoring"
	"github.com/DhavalSuthar-24/crease/internal/team"
)

type MatchStatus string

const (
	StatusMatchPending   MatchStatus = "pending"
	StatusMatchLive      MatchStatus = "live"
	StatusMatchCompleted MatchStatus = "completed"
	StatusMatchAbandoned MatchStatus = "abandoned"
)

// Finished reports whether no further scoring is accepted.
func (s MatchStatus) Finished() bool {
	return s == StatusMatchCompleted || s == StatusMatchAbandoned
}

// Match is a limited-overs game between two teams.
type Match struct {
	gorm.Model
	CreatedByUserID uint       `json:"created_by_user_id" gorm:"index"`
	TeamAID         uint       `json:"team_a_id" gorm:"index;not null"`
	TeamA           team.Team  `json:"team_a" gorm:"foreignKey:TeamAID"`
	TeamBID         uint       `json:"team_b_id" gorm:"index;not null"`
	TeamB           team.Team  `json:"team_b" gorm:"foreignKey:TeamBID"`
	LocationText    string     `json:"location_text,omitempty"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`

	// Format
	FormatName   string `json:"format_name,omitempty"`
	MaxOvers     int    `json:"max_overs" gorm:"not null;default:20"`
	MaxWickets   int    `json:"max_wickets" gorm:"not null;default:10"`
	BallsPerOver int    `json:"balls_per_over" gorm:"not null;default:6"`

	Status      MatchStatus `json:"status" gorm:"index;default:'pending'"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`

	// Match Result
	ResultType    string `json:"result_type,omitempty"`
	WinningTeamID *uint  `json:"winning_team_id,omitempty" gorm:"index"`
	ResultSummary string `json:"result_summary,omitempty" gorm:"type:text"` // e.g., "Team A won by 5 wickets"

	MatchTeams []MatchTeam `json:"match_teams,omitempty" gorm:"foreignKey:MatchID"`
}

// Format returns the engine limits of the match.
func (m *Match) Format() scoring.Format {
	return scoring.Format{MaxOvers: m.MaxOvers, MaxWickets: m.MaxWickets, BallsPerOver: m.BallsPerOver}.WithDefaults()
}

// HasTeam reports whether teamID plays in the match.
func (m *Match) HasTeam(teamID uint) bool {
	return teamID != 0 && (teamID == m.TeamAID || teamID == m.TeamBID)
}

// Squad returns the lineup entry of teamID, nil if it has none.
func (m *Match) Squad(teamID uint) *MatchTeam {
	for i := range m.MatchTeams {
		if m.MatchTeams[i].TeamID == teamID {
			return &m.MatchTeams[i]
		}
	}
	return nil
}

// MatchTeam is one side's squad for a match.
type MatchTeam struct {
	gorm.Model
	MatchID    uint          `json:"match_id" gorm:"uniqueIndex:idx_match_team;not null"`
	TeamID     uint          `json:"team_id" gorm:"uniqueIndex:idx_match_team;not null"`
	TeamName   string        `json:"team_name"`
	IsHomeTeam bool          `json:"is_home_team" gorm:"default:false"`
	Players    []MatchPlayer `json:"players,omitempty" gorm:"foreignKey:MatchTeamID"`
}

// TeamRef is the engine's view of the side.
func (mt *MatchTeam) TeamRef() scoring.TeamRef {
	return scoring.TeamRef{ID: mt.TeamID, Name: mt.TeamName}
}

// Player looks up a squad member by user id.
func (mt *MatchTeam) Player(userID uint) *MatchPlayer {
	for i := range mt.Players {
		if mt.Players[i].UserID == userID {
			return &mt.Players[i]
		}
	}
	return nil
}

// MatchPlayer is a squad member. The engine identifies the player by the
// decimal form of UserID.
type MatchPlayer struct {
	gorm.Model
	MatchTeamID  uint   `json:"match_team_id" gorm:"uniqueIndex:idx_match_team_player;not null"`
	UserID       uint   `json:"user_id" gorm:"uniqueIndex:idx_match_team_player;not null"`
	DisplayName  string `json:"display_name"`
	Role         string `json:"role,omitempty"` // e.g., "captain", "wicket_keeper"
	BattingOrder *int   `json:"batting_order,omitempty"`
}

// EnginePlayer converts the squad member for the engine.
func (mp *MatchPlayer) EnginePlayer() scoring.Player {
	return scoring.Player{ID: PlayerID(mp.UserID), Name: mp.DisplayName}
}

// PlayerID renders a user id as an engine player id.
func PlayerID(userID uint) scoring.PlayerID {
	return scoring.PlayerID(strconv.FormatUint(uint64(userID), 10))
}

// UserID parses an engine player id back to a user id.
func UserID(id scoring.PlayerID) (uint, bool) {
	n, err := strconv.ParseUint(string(id), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// BallDelivery records every ball bowled. Rows are written in the same
// transaction as the match snapshot and removed again on undo.
type BallDelivery struct {
	ID            uint      `json:"id" gorm:"primarykey"`
	CreatedAt     time.Time `json:"created_at"`
	MatchID       uint      `json:"match_id" gorm:"uniqueIndex:idx_ball_sequence;not null"`
	InningsNumber int       `json:"innings_number" gorm:"uniqueIndex:idx_ball_sequence;not null"`
	Sequence      int       `json:"sequence" gorm:"uniqueIndex:idx_ball_sequence;not null"`
	BattingTeamID uint      `json:"batting_team_id" gorm:"index"`
	BowlingTeamID uint      `json:"bowling_team_id" gorm:"index"`

	OverNumber int `json:"over_number"`  // 0-indexed
	BallInOver int `json:"ball_in_over"` // legal balls in the over after this delivery
	BallNumber int `json:"ball_number"`  // legal balls in the innings after this delivery

	StrikerID    string `json:"striker_id" gorm:"index;not null"`
	NonStrikerID string `json:"non_striker_id" gorm:"not null"`
	BowlerID     string `json:"bowler_id" gorm:"index;not null"`

	RunsOffBat      int    `json:"runs_off_bat"`
	ExtraType       string `json:"extra_type,omitempty"`
	ExtraRuns       int    `json:"extra_runs"`
	TotalRuns       int    `json:"total_runs"`
	IsLegalDelivery bool   `json:"is_legal_delivery"`

	// Wicket Details
	IsWicket       bool   `json:"is_wicket"`
	DismissalKind  string `json:"dismissal_kind,omitempty"`
	PlayerOutID    string `json:"player_out_id,omitempty" gorm:"index"`
	FielderID      string `json:"fielder_id,omitempty" gorm:"index"`
	BowlerCredited bool   `json:"bowler_credited"`
	RetiredHurt    bool   `json:"retired_hurt,omitempty"`

	Glyph string `json:"glyph"`
}

// NewBallDelivery flattens an engine ball record for storage.
func NewBallDelivery(matchID uint, st scoring.DerivedState, b scoring.BallRecord) BallDelivery {
	row := BallDelivery{
		MatchID:         matchID,
		Sequence:        b.Sequence,
		OverNumber:      b.OverNumber,
		BallInOver:      b.BallInOver,
		BallNumber:      b.BallNumber,
		StrikerID:       string(b.Striker.ID),
		NonStrikerID:    string(b.NonStriker.ID),
		BowlerID:        string(b.Bowler.ID),
		RunsOffBat:      b.RunsOffBat,
		ExtraType:       string(b.ExtraType),
		ExtraRuns:       b.ExtraRuns,
		TotalRuns:       b.TotalRuns,
		IsLegalDelivery: b.IsLegalDelivery,
		IsWicket:        b.Wicket,
		Glyph:           b.Glyph,
	}
	row.InningsNumber = st.InningsNumber
	if st.BattingTeam != nil {
		row.BattingTeamID = st.BattingTeam.ID
	}
	if st.BowlingTeam != nil {
		row.BowlingTeamID = st.BowlingTeam.ID
	}
	if b.DismissedBatsman != nil {
		row.PlayerOutID = string(b.DismissedBatsman.ID)
	}
	if b.Dismissal != nil && b.Dismissal.Dismissal != nil {
		d := b.Dismissal.Dismissal
		row.DismissalKind = string(d.Kind())
		row.BowlerCredited = scoring.CreditsBowler(d)
		switch v := d.(type) {
		case scoring.Caught:
			row.FielderID = string(v.Fielder)
		case scoring.RunOut:
			row.FielderID = string(v.Fielder)
		case scoring.Stumped:
			row.FielderID = string(v.Keeper)
		case scoring.Retired:
			row.RetiredHurt = v.Hurt
		}
	}
	return row
}

// MatchSnapshot holds the exported engine of a match plus its last projection.
// Version increases on every stored mutation.
type MatchSnapshot struct {
	ID        uint                               `json:"id" gorm:"primarykey"`
	MatchID   uint                               `json:"match_id" gorm:"uniqueIndex;not null"`
	Version   uint64                             `json:"version" gorm:"not null;default:0"`
	Engine    models.JSON[scoring.ExportedMatch] `json:"engine"`
	State     models.JSON[scoring.DerivedState]  `json:"state"`
	UpdatedAt time.Time                          `json:"updated_at"`
}

// --- DTOs for requests ---

// CreateMatchRequest defines the request payload for creating a match.
// Format presets (t20, odi, t10) are overridden by explicit limits.
type CreateMatchRequest struct {
	TeamAID      uint       `json:"team_a_id" binding:"required"`
	TeamBID      uint       `json:"team_b_id" binding:"required,nefield=TeamAID"`
	Format       string     `json:"format,omitempty" binding:"omitempty,oneof=t20 odi t10 T20 ODI T10"`
	MaxOvers     int        `json:"max_overs,omitempty" binding:"omitempty,min=1,max=50"`
	MaxWickets   int        `json:"max_wickets,omitempty" binding:"omitempty,min=1,max=10"`
	BallsPerOver int        `json:"balls_per_over,omitempty" binding:"omitempty,min=1,max=10"`
	TeamAPlayers []uint     `json:"team_a_players,omitempty"`
	TeamBPlayers []uint     `json:"team_b_players,omitempty"`
	LocationText string     `json:"location_text,omitempty" binding:"max=200"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
}

// StartInningsRequest opens an innings. Player ids are user ids.
type StartInningsRequest struct {
	BattingTeamID uint `json:"batting_team_id" binding:"required"`
	BowlingTeamID uint `json:"bowling_team_id" binding:"required,nefield=BattingTeamID"`
	StrikerID     uint `json:"striker_id" binding:"required"`
	NonStrikerID  uint `json:"non_striker_id" binding:"required,nefield=StrikerID"`
	BowlerID      uint `json:"bowler_id" binding:"required"`
}

// RecordBallRequest is the scorer's input for one delivery.
type RecordBallRequest struct {
	RunsOffBat    int                   `json:"runs_off_bat" binding:"min=0,max=6"`
	ExtraType     scoring.ExtraType     `json:"extra_type,omitempty" binding:"omitempty,oneof=wide noball bye legbye"`
	ExtraRuns     int                   `json:"extra_runs" binding:"min=0"`
	IsWicket      bool                  `json:"is_wicket"`
	DismissalKind scoring.DismissalKind `json:"dismissal_kind,omitempty" binding:"omitempty,oneof=bowled caught run_out stumped lbw hit_wicket retired"`
	FielderID     uint                  `json:"fielder_id,omitempty"`
	PlayerOutID   uint                  `json:"player_out_id,omitempty"`
	RetiredHurt   bool                  `json:"retired_hurt,omitempty"`
}

// SetBatsmanRequest places a new batsman. OnStrike defaults to true.
type SetBatsmanRequest struct {
	PlayerID uint  `json:"player_id" binding:"required"`
	OnStrike *bool `json:"on_strike,omitempty"`
}

// SetBowlerRequest assigns the bowler of the next over.
type SetBowlerRequest struct {
	PlayerID uint `json:"player_id" binding:"required"`
}
