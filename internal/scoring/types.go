package scoring

import "strconv"

// PlayerID identifies a player for the lifetime of a match. It is resolved once
// at the boundary and is never derived from a display name inside the engine.
type PlayerID string

// Player is a reference to a player taking part in the match.
type Player struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name,omitempty"`
}

// TeamRef is an opaque reference to a side.
type TeamRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name,omitempty"`
}

// DisplayName returns the team name, falling back to its id.
func (t TeamRef) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return "Team " + strconv.FormatUint(uint64(t.ID), 10)
}

// Lineup holds the players who open an innings.
type Lineup struct {
	Striker    Player `json:"striker"`
	NonStriker Player `json:"nonStriker"`
	Bowler     Player `json:"bowler"`
}

// ExtraType for runs not scored off the bat
type ExtraType string

const (
	ExtraNone   ExtraType = ""
	ExtraWide   ExtraType = "wide"
	ExtraNoBall ExtraType = "noball"
	ExtraBye    ExtraType = "bye"
	ExtraLegBye ExtraType = "legbye"
)

// IsLegal reports whether a delivery with this extra counts towards the over.
func (e ExtraType) IsLegal() bool {
	return e != ExtraWide && e != ExtraNoBall
}

func (e ExtraType) valid() bool {
	switch e {
	case ExtraNone, ExtraWide, ExtraNoBall, ExtraBye, ExtraLegBye:
		return true
	}
	return false
}

// EndReason explains why an innings finished.
type EndReason string

const (
	EndNone           EndReason = ""
	EndAllOut         EndReason = "all_out"
	EndOversComplete  EndReason = "overs_complete"
	EndTargetAchieved EndReason = "target_achieved"
)

// Extras breakdown for an innings.
type Extras struct {
	Wides   int `json:"wides"`
	NoBalls int `json:"noBalls"`
	Byes    int `json:"byes"`
	LegByes int `json:"legByes"`
	Total   int `json:"total"`
}

func (e *Extras) add(extra ExtraType, runs int) {
	switch extra {
	case ExtraWide:
		e.Wides += runs
	case ExtraNoBall:
		e.NoBalls += runs
	case ExtraBye:
		e.Byes += runs
	case ExtraLegBye:
		e.LegByes += runs
	default:
		return
	}
	e.Total += runs
}

// BatsmanStats is a batsman's running tally for one innings.
type BatsmanStats struct {
	Player     Player        `json:"player"`
	Runs       int           `json:"runs"`
	Balls      int           `json:"balls"`
	Fours      int           `json:"fours"`
	Sixes      int           `json:"sixes"`
	StrikeRate float64       `json:"strikeRate"`
	IsOut      bool          `json:"isOut"`
	HowOut     DismissalKind `json:"howOut,omitempty"`
}

// BowlerStats is a bowler's running tally for one innings. CurrentOverRuns is a
// scratch accumulator reset every time the bowler completes an over.
type BowlerStats struct {
	Player          Player  `json:"player"`
	Overs           float64 `json:"overs"`
	Balls           int     `json:"balls"`
	Runs            int     `json:"runs"`
	Wickets         int     `json:"wickets"`
	Maidens         int     `json:"maidens"`
	Wides           int     `json:"wides"`
	NoBalls         int     `json:"noBalls"`
	Dots            int     `json:"dots"`
	Economy         float64 `json:"economy"`
	CurrentOverRuns int     `json:"currentOverRuns"`
}

// FallOfWicket records the team score when a wicket fell.
type FallOfWicket struct {
	Wicket   int     `json:"wicket"`
	Player   Player  `json:"player"`
	Score    int     `json:"score"`
	Overs    float64 `json:"overs"`
	Sequence int     `json:"sequence"`
}

// Reversal is the pre-delivery state needed to undo a ball exactly.
type Reversal struct {
	Striker          *Player `json:"striker,omitempty"`
	NonStriker       *Player `json:"nonStriker,omitempty"`
	CurrentBowler    *Player `json:"currentBowler,omitempty"`
	PreviousBowler   *Player `json:"previousBowler,omitempty"`
	CurrentOverBalls int     `json:"currentOverBalls"`
	IsOverComplete   bool    `json:"isOverComplete"`
	BowlerOverRuns   int     `json:"bowlerOverRuns"`
	MaidenCounted    bool    `json:"maidenCounted"`
}

// BallRecord is the immutable record of one delivery.
type BallRecord struct {
	Sequence         int              `json:"sequence"`
	BallNumber       int              `json:"ballNumber"`
	OverNumber       int              `json:"overNumber"`
	BallInOver       int              `json:"ballInOver"`
	Striker          Player           `json:"striker"`
	NonStriker       Player           `json:"nonStriker"`
	Bowler           Player           `json:"bowler"`
	RunsOffBat       int              `json:"runsOffBat"`
	ExtraType        ExtraType        `json:"extraType,omitempty"`
	ExtraRuns        int              `json:"extraRuns"`
	TotalRuns        int              `json:"totalRuns"`
	IsLegalDelivery  bool             `json:"isLegalDelivery"`
	Wicket           bool             `json:"wicket"`
	Dismissal        *DismissalDetail `json:"dismissal,omitempty"`
	DismissedBatsman *Player          `json:"dismissedBatsman,omitempty"`
	Glyph            string           `json:"glyph"`
	Reversal         Reversal         `json:"reversal"`
}

// Innings is one batting side's innings.
type Innings struct {
	Number           int                        `json:"number"`
	BattingTeam      TeamRef                    `json:"battingTeam"`
	BowlingTeam      TeamRef                    `json:"bowlingTeam"`
	Runs             int                        `json:"runs"`
	Wickets          int                        `json:"wickets"`
	Balls            int                        `json:"balls"`
	Overs            float64                    `json:"overs"`
	RunRate          float64                    `json:"runRate"`
	Extras           Extras                     `json:"extras"`
	Target           *int                       `json:"target,omitempty"`
	RequiredRunRate  *float64                   `json:"requiredRunRate,omitempty"`
	Striker          *Player                    `json:"striker"`
	NonStriker       *Player                    `json:"nonStriker"`
	CurrentBowler    *Player                    `json:"currentBowler"`
	PreviousBowler   *Player                    `json:"previousBowler"`
	Batsmen          map[PlayerID]*BatsmanStats `json:"batsmen"`
	Bowlers          map[PlayerID]*BowlerStats  `json:"bowlers"`
	BattingOrder     []PlayerID                 `json:"battingOrder"`
	BowlingOrder     []PlayerID                 `json:"bowlingOrder"`
	BallLog          []BallRecord               `json:"ballLog"`
	RecentBalls      []string                   `json:"recentBalls"`
	FallOfWickets    []FallOfWicket             `json:"fallOfWickets"`
	CurrentOverBalls int                        `json:"currentOverBalls"`
	IsOverComplete   bool                       `json:"isOverComplete"`
	IsComplete       bool                       `json:"isComplete"`
	EndReason        EndReason                  `json:"endReason,omitempty"`
}

// ResultType of a finished match.
type ResultType string

const (
	ResultWin        ResultType = "win"
	ResultTie        ResultType = "tie"
	ResultIncomplete ResultType = "incomplete"
)

// MarginType qualifies MatchResult.Margin.
type MarginType string

const (
	MarginRuns    MarginType = "runs"
	MarginWickets MarginType = "wickets"
)

// MatchResult describes how the match ended.
type MatchResult struct {
	Type       ResultType `json:"type"`
	Winner     *TeamRef   `json:"winner,omitempty"`
	Loser      *TeamRef   `json:"loser,omitempty"`
	Margin     int        `json:"margin,omitempty"`
	MarginType MarginType `json:"marginType,omitempty"`
	Message    string     `json:"message"`
}

// Delivery is the scorer's input for one ball.
type Delivery struct {
	RunsOffBat int
	ExtraType  ExtraType
	ExtraRuns  int
	Wicket     bool
	Dismissal  Dismissal
}

// BallResult is returned by RecordBall.
type BallResult struct {
	Ball    BallRecord       `json:"ball"`
	State   DerivedState     `json:"state"`
	Actions []RequiredAction `json:"actions"`
}

func copyPlayer(p *Player) *Player {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

func samePlayer(a, b *Player) bool {
	return a != nil && b != nil && a.ID == b.ID
}
