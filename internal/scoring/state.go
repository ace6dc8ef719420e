package scoring

import "strconv"

// ActionType is a prompt for the scorer.
type ActionType string

const (
	ActionStartInnings       ActionType = "START_INNINGS"
	ActionStartSecondInnings ActionType = "START_SECOND_INNINGS"
	ActionMatchComplete      ActionType = "MATCH_COMPLETE"
	ActionNewBatsman         ActionType = "NEW_BATSMAN"
	ActionNewBowler          ActionType = "NEW_BOWLER"
)

// RequiredAction tells the caller what input the engine needs next.
//
// OnStrike is set for NEW_BATSMAN and names the empty slot. PreviousBowler is
// set for NEW_BOWLER so the caller can exclude that player.
type RequiredAction struct {
	Type           ActionType `json:"type"`
	OnStrike       *bool      `json:"onStrike,omitempty"`
	PreviousBowler *Player    `json:"previousBowler,omitempty"`
}

// DerivedState is the display projection of the match pushed to subscribers.
type DerivedState struct {
	InningsNumber     int                       `json:"inningsNumber"`
	BattingTeam       *TeamRef                  `json:"battingTeam,omitempty"`
	BowlingTeam       *TeamRef                  `json:"bowlingTeam,omitempty"`
	Runs              int                       `json:"runs"`
	Wickets           int                       `json:"wickets"`
	Balls             int                       `json:"balls"`
	Overs             float64                   `json:"overs"`
	Score             string                    `json:"score"`
	RunRate           float64                   `json:"runRate"`
	Extras            Extras                    `json:"extras"`
	Target            *int                      `json:"target,omitempty"`
	RequiredRunRate   *float64                  `json:"requiredRunRate,omitempty"`
	RunsNeeded        *int                      `json:"runsNeeded,omitempty"`
	BallsRemaining    int                       `json:"ballsRemaining"`
	MaxOvers          int                       `json:"maxOvers"`
	Striker           *Player                   `json:"striker"`
	NonStriker        *Player                   `json:"nonStriker"`
	CurrentBowler     *Player                   `json:"currentBowler"`
	PreviousBowler    *Player                   `json:"previousBowler"`
	Batsmen           map[PlayerID]BatsmanStats `json:"batsmen"`
	Bowlers           map[PlayerID]BowlerStats  `json:"bowlers"`
	RecentBalls       []string                  `json:"recentBalls"`
	CurrentOverBalls  int                       `json:"currentOverBalls"`
	IsOverComplete    bool                      `json:"isOverComplete"`
	IsInningsComplete bool                      `json:"isInningsComplete"`
	EndReason         EndReason                 `json:"endReason,omitempty"`
	IsMatchComplete   bool                      `json:"isMatchComplete"`
	Result            *MatchResult              `json:"result,omitempty"`
	RequiredActions   []RequiredAction          `json:"requiredActions"`
}

// CurrentState projects the active innings. It never mutates the engine.
func (m *MatchEngine) CurrentState() DerivedState {
	st := DerivedState{
		MaxOvers:        m.format.MaxOvers,
		IsMatchComplete: m.isMatchComplete,
		Result:          m.Result(),
		Batsmen:         map[PlayerID]BatsmanStats{},
		Bowlers:         map[PlayerID]BowlerStats{},
		RecentBalls:     []string{},
	}

	inn := m.currentInnings()
	if m.isMatchComplete {
		st.RequiredActions = []RequiredAction{{Type: ActionMatchComplete}}
	} else {
		st.RequiredActions = RequiredActions(inn, m.currentIndex)
	}
	if inn == nil {
		st.BallsRemaining = m.format.TotalBalls()
		return st
	}

	batting, bowling := inn.BattingTeam, inn.BowlingTeam
	st.InningsNumber = inn.Number
	st.BattingTeam = &batting
	st.BowlingTeam = &bowling
	st.Runs = inn.Runs
	st.Wickets = inn.Wickets
	st.Balls = inn.Balls
	st.Overs = oversFromBalls(inn.Balls, m.format.BallsPerOver)
	st.Score = strconv.Itoa(inn.Runs) + "/" + strconv.Itoa(inn.Wickets)
	st.RunRate = perOver(inn.Runs, inn.Balls, m.format.BallsPerOver)
	st.Extras = inn.Extras
	st.BallsRemaining = m.format.TotalBalls() - inn.Balls
	if st.BallsRemaining < 0 {
		st.BallsRemaining = 0
	}
	if inn.Target != nil {
		target := *inn.Target
		need := target - inn.Runs
		if need < 0 {
			need = 0
		}
		st.Target = &target
		st.RunsNeeded = &need
	}
	if inn.RequiredRunRate != nil {
		rrr := *inn.RequiredRunRate
		st.RequiredRunRate = &rrr
	}
	st.Striker = copyPlayer(inn.Striker)
	st.NonStriker = copyPlayer(inn.NonStriker)
	st.CurrentBowler = copyPlayer(inn.CurrentBowler)
	st.PreviousBowler = copyPlayer(inn.PreviousBowler)
	for id, b := range inn.Batsmen {
		st.Batsmen[id] = *b
	}
	for id, b := range inn.Bowlers {
		st.Bowlers[id] = *b
	}
	st.RecentBalls = append(st.RecentBalls, inn.RecentBalls...)
	st.CurrentOverBalls = inn.CurrentOverBalls
	st.IsOverComplete = inn.IsOverComplete
	st.IsInningsComplete = inn.IsComplete
	st.EndReason = inn.EndReason
	return st
}

// RequiredActions lists the prompts for inn in priority order. index is the
// innings position in the match, 0 for the first innings. A nil innings asks
// for the match to start.
func RequiredActions(inn *Innings, index int) []RequiredAction {
	if inn == nil {
		return []RequiredAction{{Type: ActionStartInnings}}
	}
	if inn.IsComplete {
		if index == 0 {
			return []RequiredAction{{Type: ActionStartSecondInnings}}
		}
		return []RequiredAction{{Type: ActionMatchComplete}}
	}

	actions := []RequiredAction{}
	if inn.Striker == nil {
		on := true
		actions = append(actions, RequiredAction{Type: ActionNewBatsman, OnStrike: &on})
	}
	if inn.NonStriker == nil {
		off := false
		actions = append(actions, RequiredAction{Type: ActionNewBatsman, OnStrike: &off})
	}
	if inn.IsOverComplete || inn.CurrentBowler == nil {
		actions = append(actions, RequiredAction{
			Type:           ActionNewBowler,
			PreviousBowler: copyPlayer(inn.PreviousBowler),
		})
	}
	return actions
}
