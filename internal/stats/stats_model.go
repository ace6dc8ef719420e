package stats

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PlayerOverallCricketStat holds the career aggregates of one player. Rows
// are recomputed from the stored ball log, never incremented in place.
type PlayerOverallCricketStat struct {
	gorm.Model
	UserID        uint      `json:"user_id" gorm:"uniqueIndex:idx_player_overall;not null"`
	MatchesPlayed int       `json:"matches_played" gorm:"default:0"`
	RefreshedAt   time.Time `json:"refreshed_at"`

	// Batting Career Stats
	BattingMatchesPlayed      int             `json:"batting_matches_played" gorm:"default:0"`
	BattingInnings            int             `json:"batting_innings" gorm:"default:0"`
	BattingRunsScored         int             `json:"batting_runs_scored" gorm:"default:0"`
	BattingBallsFaced         int             `json:"batting_balls_faced" gorm:"default:0"`
	BattingHighestScore       int             `json:"batting_highest_score" gorm:"default:0"`
	BattingHighestScoreNotOut bool            `json:"batting_highest_score_not_out" gorm:"default:false"`
	BattingNotOuts            int             `json:"batting_not_outs" gorm:"default:0"`
	BattingFours              int             `json:"batting_fours" gorm:"default:0"`
	BattingSixes              int             `json:"batting_sixes" gorm:"default:0"`
	BattingHundreds           int             `json:"batting_hundreds" gorm:"default:0"`
	BattingFifties            int             `json:"batting_fifties" gorm:"default:0"`
	BattingDucks              int             `json:"batting_ducks" gorm:"default:0"`
	BattingAverage            decimal.Decimal `json:"batting_average" gorm:"type:numeric(10,2)"`
	BattingStrikeRate         decimal.Decimal `json:"batting_strike_rate" gorm:"type:numeric(10,2)"`

	// Bowling Career Stats
	BowlingMatchesPlayed      int             `json:"bowling_matches_played" gorm:"default:0"`
	BowlingInnings            int             `json:"bowling_innings" gorm:"default:0"`
	BowlingBallsBowled        int             `json:"bowling_balls_bowled" gorm:"default:0"` // legal balls
	BowlingRunsConceded       int             `json:"bowling_runs_conceded" gorm:"default:0"`
	BowlingWicketsTaken       int             `json:"bowling_wickets_taken" gorm:"default:0"`
	BowlingMaidens            int             `json:"bowling_maidens" gorm:"default:0"`
	BestBowlingInningsWickets int             `json:"best_bowling_innings_wickets"` // 5 in 5/25
	BestBowlingInningsRuns    int             `json:"best_bowling_innings_runs"`    // 25 in 5/25
	FiveWicketHauls           int             `json:"five_wicket_hauls" gorm:"default:0"`
	BowlingNoBalls            int             `json:"bowling_no_balls" gorm:"default:0"`
	BowlingWides              int             `json:"bowling_wides" gorm:"default:0"`
	BowlingAverage            decimal.Decimal `json:"bowling_average" gorm:"type:numeric(10,2)"`
	BowlingEconomyRate        decimal.Decimal `json:"bowling_economy_rate" gorm:"type:numeric(10,2)"`
	BowlingStrikeRate         decimal.Decimal `json:"bowling_strike_rate" gorm:"type:numeric(10,2)"` // balls per wicket

	// Fielding Career Stats
	Catches   int `json:"catches" gorm:"default:0"`
	Stumpings int `json:"stumpings" gorm:"default:0"`
	RunOuts   int `json:"run_outs" gorm:"default:0"`
}

// BestBowling renders the best innings figures as wickets/runs.
func (s *PlayerOverallCricketStat) BestBowling() string {
	if s.BowlingInnings == 0 {
		return "-"
	}
	return strconv.Itoa(s.BestBowlingInningsWickets) + "/" + strconv.Itoa(s.BestBowlingInningsRuns)
}
