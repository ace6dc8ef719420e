package scoring

import "fmt"

// recentBallsWindow is how many glyphs RecentBalls keeps.
const recentBallsWindow = 12

// MatchEngine owns the state of one match across two innings.
//
// It is not safe for concurrent use. Callers serialize access per match,
// see the session package.
type MatchEngine struct {
	format          Format
	innings         []*Innings
	currentIndex    int
	isMatchComplete bool
	result          *MatchResult
}

// New creates an engine for a match played under format. Unset limits take
// their DefaultFormat value.
func New(format Format) *MatchEngine {
	return &MatchEngine{format: format.WithDefaults()}
}

// Format returns the limits the match is played under.
func (m *MatchEngine) Format() Format {
	return m.format
}

// InningsCount returns how many innings have been started.
func (m *MatchEngine) InningsCount() int {
	return len(m.innings)
}

// IsMatchComplete reports whether CompleteMatch has run.
func (m *MatchEngine) IsMatchComplete() bool {
	return m.isMatchComplete
}

// Result returns the match result, nil until the match is complete.
func (m *MatchEngine) Result() *MatchResult {
	if m.result == nil {
		return nil
	}
	r := *m.result
	return &r
}

func (m *MatchEngine) currentInnings() *Innings {
	if len(m.innings) == 0 || m.currentIndex >= len(m.innings) {
		return nil
	}
	return m.innings[m.currentIndex]
}

// StartInnings appends a new innings. On the second innings the target is set
// to the first innings total plus one. The engine does not limit the number
// of innings; the match lifecycle owner does.
func (m *MatchEngine) StartInnings(batting, bowling TeamRef, lineup Lineup) (DerivedState, error) {
	if lineup.Striker.ID == "" || lineup.NonStriker.ID == "" || lineup.Bowler.ID == "" {
		return DerivedState{}, fmt.Errorf("%w: striker, non-striker and bowler are required", ErrInvalidLineup)
	}
	if lineup.Striker.ID == lineup.NonStriker.ID {
		return DerivedState{}, fmt.Errorf("%w: striker and non-striker must differ", ErrInvalidLineup)
	}

	striker, nonStriker, bowler := lineup.Striker, lineup.NonStriker, lineup.Bowler
	inn := &Innings{
		Number:        len(m.innings) + 1,
		BattingTeam:   batting,
		BowlingTeam:   bowling,
		Striker:       &striker,
		NonStriker:    &nonStriker,
		CurrentBowler: &bowler,
		Batsmen:       make(map[PlayerID]*BatsmanStats),
		Bowlers:       make(map[PlayerID]*BowlerStats),
		BallLog:       []BallRecord{},
		RecentBalls:   []string{},
		FallOfWickets: []FallOfWicket{},
	}
	inn.ensureBatsman(striker)
	inn.ensureBatsman(nonStriker)
	inn.ensureBowler(bowler)

	if len(m.innings) > 0 {
		target := m.innings[0].Runs + 1
		inn.Target = &target
		m.updateRequiredRate(inn)
	}

	m.innings = append(m.innings, inn)
	m.currentIndex = len(m.innings) - 1
	return m.CurrentState(), nil
}

// SetNewBatsman puts player at the striker's end when onStrike is set,
// otherwise at the non-striker's end. It does not check that a wicket is
// pending.
func (m *MatchEngine) SetNewBatsman(player Player, onStrike bool) (DerivedState, error) {
	inn := m.currentInnings()
	if inn == nil {
		return DerivedState{}, ErrNoActiveInnings
	}
	if inn.IsComplete {
		return DerivedState{}, ErrInningsComplete
	}
	if player.ID == "" {
		return DerivedState{}, ErrInvalidPlayer
	}
	other := inn.NonStriker
	if !onStrike {
		other = inn.Striker
	}
	if other != nil && other.ID == player.ID {
		return DerivedState{}, ErrDuplicateBatsman
	}
	if b, ok := inn.Batsmen[player.ID]; ok && b.IsOut {
		return DerivedState{}, ErrBatsmanDismissed
	}

	p := player
	if onStrike {
		inn.Striker = &p
	} else {
		inn.NonStriker = &p
	}
	inn.ensureBatsman(player)
	return m.CurrentState(), nil
}

// SetNewBowler assigns the bowler for the next delivery. The bowler of the
// previous over is rejected.
func (m *MatchEngine) SetNewBowler(player Player) (DerivedState, error) {
	inn := m.currentInnings()
	if inn == nil {
		return DerivedState{}, ErrNoActiveInnings
	}
	if inn.IsComplete {
		return DerivedState{}, ErrInningsComplete
	}
	if player.ID == "" {
		return DerivedState{}, ErrInvalidPlayer
	}
	if inn.PreviousBowler != nil && inn.PreviousBowler.ID == player.ID {
		return DerivedState{}, ErrConsecutiveOvers
	}

	p := player
	inn.CurrentBowler = &p
	inn.IsOverComplete = false
	inn.ensureBowler(player)
	return m.CurrentState(), nil
}

// CompleteMatch settles the result. It is idempotent. With fewer than two
// innings the match is recorded as incomplete.
func (m *MatchEngine) CompleteMatch() *MatchResult {
	if m.isMatchComplete {
		return m.Result()
	}

	var res MatchResult
	if len(m.innings) < 2 {
		res = MatchResult{Type: ResultIncomplete, Message: "Match incomplete"}
	} else {
		first, second := m.innings[0], m.innings[1]
		switch {
		case second.Runs >= first.Runs+1:
			margin := m.format.MaxWickets - second.Wickets
			res = winResult(second.BattingTeam, first.BattingTeam, margin, MarginWickets)
		case first.Runs > second.Runs:
			res = winResult(first.BattingTeam, second.BattingTeam, first.Runs-second.Runs, MarginRuns)
		default:
			res = MatchResult{Type: ResultTie, Message: "Match tied"}
		}
	}

	m.isMatchComplete = true
	m.result = &res
	return m.Result()
}

func winResult(winner, loser TeamRef, margin int, kind MarginType) MatchResult {
	unit := string(kind)
	if margin == 1 {
		unit = unit[:len(unit)-1]
	}
	return MatchResult{
		Type:       ResultWin,
		Winner:     &winner,
		Loser:      &loser,
		Margin:     margin,
		MarginType: kind,
		Message:    fmt.Sprintf("%s won by %d %s", winner.DisplayName(), margin, unit),
	}
}

func (m *MatchEngine) updateRequiredRate(inn *Innings) {
	if inn.Target == nil {
		return
	}
	remaining := m.format.TotalBalls() - inn.Balls
	if remaining <= 0 {
		inn.RequiredRunRate = nil
		return
	}
	rrr := round2(float64(*inn.Target-inn.Runs) / (float64(remaining) / float64(m.format.BallsPerOver)))
	inn.RequiredRunRate = &rrr
}

func (m *MatchEngine) refreshDerived(inn *Innings) {
	bpo := m.format.BallsPerOver
	inn.Overs = oversFromBalls(inn.Balls, bpo)
	inn.RunRate = perOver(inn.Runs, inn.Balls, bpo)
	m.updateRequiredRate(inn)

	start := len(inn.BallLog) - recentBallsWindow
	if start < 0 {
		start = 0
	}
	recent := make([]string, 0, len(inn.BallLog)-start)
	for _, b := range inn.BallLog[start:] {
		recent = append(recent, b.Glyph)
	}
	inn.RecentBalls = recent
}

func (inn *Innings) ensureBatsman(p Player) *BatsmanStats {
	if b, ok := inn.Batsmen[p.ID]; ok {
		return b
	}
	b := &BatsmanStats{Player: p}
	inn.Batsmen[p.ID] = b
	inn.BattingOrder = append(inn.BattingOrder, p.ID)
	return b
}

func (inn *Innings) ensureBowler(p Player) *BowlerStats {
	if b, ok := inn.Bowlers[p.ID]; ok {
		return b
	}
	b := &BowlerStats{Player: p}
	inn.Bowlers[p.ID] = b
	inn.BowlingOrder = append(inn.BowlingOrder, p.ID)
	return b
}
