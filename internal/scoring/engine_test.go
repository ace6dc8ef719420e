package scoring

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	lions  = TeamRef{ID: 1, Name: "Lions"}
	tigers = TeamRef{ID: 2, Name: "Tigers"}

	alice = Player{ID: "p-alice", Name: "Alice"}
	bob   = Player{ID: "p-bob", Name: "Bob"}
	eve   = Player{ID: "p-eve", Name: "Eve"}
	carol = Player{ID: "p-carol", Name: "Carol"}
	dave  = Player{ID: "p-dave", Name: "Dave"}
	frank = Player{ID: "p-frank", Name: "Frank"}
)

func newMatch(t *testing.T, format Format) *MatchEngine {
	t.Helper()
	m := New(format)
	_, err := m.StartInnings(lions, tigers, Lineup{Striker: alice, NonStriker: bob, Bowler: carol})
	require.NoError(t, err)
	return m
}

func startSecond(t *testing.T, m *MatchEngine) {
	t.Helper()
	_, err := m.StartInnings(tigers, lions, Lineup{Striker: dave, NonStriker: frank, Bowler: alice})
	require.NoError(t, err)
}

func record(t *testing.T, m *MatchEngine, d Delivery) *BallResult {
	t.Helper()
	res, err := m.RecordBall(d)
	require.NoError(t, err)
	return res
}

func runs(n int) Delivery { return Delivery{RunsOffBat: n} }

func actionTypes(actions []RequiredAction) []ActionType {
	out := make([]ActionType, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.Type)
	}
	return out
}

func TestStartInnings_RejectsBadLineup(t *testing.T) {
	m := New(DefaultFormat())

	_, err := m.StartInnings(lions, tigers, Lineup{Striker: alice, NonStriker: alice, Bowler: carol})
	assert.ErrorIs(t, err, ErrInvalidLineup)

	_, err = m.StartInnings(lions, tigers, Lineup{Striker: alice, NonStriker: bob})
	assert.ErrorIs(t, err, ErrInvalidLineup)
	assert.Equal(t, 0, m.InningsCount())
}

func TestCurrentState_NoInnings(t *testing.T) {
	m := New(Format{})
	st := m.CurrentState()

	assert.Equal(t, 0, st.InningsNumber)
	assert.Equal(t, 120, st.BallsRemaining)
	assert.Equal(t, []ActionType{ActionStartInnings}, actionTypes(st.RequiredActions))
}

func TestRecordBall_NoActiveInnings(t *testing.T) {
	m := New(DefaultFormat())
	_, err := m.RecordBall(runs(1))
	assert.ErrorIs(t, err, ErrNoActiveInnings)
}

func TestRecordBall_SixDotBallsMakeMaiden(t *testing.T) {
	m := newMatch(t, DefaultFormat())

	var res *BallResult
	for i := 0; i < 6; i++ {
		res = record(t, m, runs(0))
	}

	st := res.State
	assert.Equal(t, 1.0, st.Overs)
	assert.Equal(t, 6, st.Balls)
	assert.True(t, st.IsOverComplete)
	assert.Nil(t, st.CurrentBowler)
	require.NotNil(t, st.PreviousBowler)
	assert.Equal(t, carol.ID, st.PreviousBowler.ID)
	assert.Equal(t, 1, st.Bowlers[carol.ID].Maidens)
	assert.Equal(t, 6, st.Bowlers[carol.ID].Dots)
	assert.Equal(t, 0, st.Bowlers[carol.ID].CurrentOverRuns)

	// end of over swaps ends
	assert.Equal(t, bob.ID, st.Striker.ID)
	assert.Equal(t, alice.ID, st.NonStriker.ID)

	require.Len(t, res.Actions, 1)
	assert.Equal(t, ActionNewBowler, res.Actions[0].Type)
	assert.Equal(t, carol.ID, res.Actions[0].PreviousBowler.ID)
	assert.Equal(t, 0, res.Ball.OverNumber)
	assert.Equal(t, 6, res.Ball.BallInOver)
}

func TestRecordBall_MaidenNotCountedWhenRunsConceded(t *testing.T) {
	m := newMatch(t, DefaultFormat())
	record(t, m, runs(2))
	for i := 0; i < 5; i++ {
		record(t, m, runs(0))
	}
	st := m.CurrentState()
	assert.Equal(t, 0, st.Bowlers[carol.ID].Maidens)
	assert.Equal(t, 0, st.Bowlers[carol.ID].CurrentOverRuns)
	assert.Equal(t, 12.0, st.Bowlers[carol.ID].Economy)
}

func TestRecordBall_Wide(t *testing.T) {
	m := newMatch(t, DefaultFormat())

	res := record(t, m, Delivery{ExtraType: ExtraWide})
	st := res.State
	assert.Equal(t, 1, st.Runs)
	assert.Equal(t, 0, st.Balls)
	assert.Equal(t, 1, st.Extras.Wides)
	assert.Equal(t, 1, st.Extras.Total)
	assert.Equal(t, 0, st.Batsmen[alice.ID].Balls)
	assert.Equal(t, 0, st.Batsmen[alice.ID].Runs)
	assert.Equal(t, 1, st.Bowlers[carol.ID].Runs)
	assert.Equal(t, 1, st.Bowlers[carol.ID].Wides)
	assert.Equal(t, "Wd", res.Ball.Glyph)
	assert.False(t, res.Ball.IsLegalDelivery)
	assert.Equal(t, alice.ID, st.Striker.ID)
}

func TestRecordBall_WideWithRunsRun(t *testing.T) {
	m := newMatch(t, DefaultFormat())

	res := record(t, m, Delivery{ExtraType: ExtraWide, ExtraRuns: 2})
	assert.Equal(t, "Wd+2", res.Ball.Glyph)
	assert.Equal(t, 3, res.Ball.TotalRuns)
	assert.Equal(t, 3, res.Ball.ExtraRuns)
	assert.Equal(t, alice.ID, res.State.Striker.ID)

	res = record(t, m, Delivery{ExtraType: ExtraWide, ExtraRuns: 1})
	assert.Equal(t, "Wd+1", res.Ball.Glyph)
	assert.Equal(t, bob.ID, res.State.Striker.ID)
}

func TestRecordBall_NoBallCreditsBatsman(t *testing.T) {
	m := newMatch(t, DefaultFormat())

	res := record(t, m, Delivery{RunsOffBat: 4, ExtraType: ExtraNoBall})
	st := res.State
	assert.Equal(t, 5, st.Runs)
	assert.Equal(t, 0, st.Balls)
	assert.Equal(t, 1, st.Extras.NoBalls)
	a := st.Batsmen[alice.ID]
	assert.Equal(t, 4, a.Runs)
	assert.Equal(t, 1, a.Balls)
	assert.Equal(t, 1, a.Fours)
	assert.Equal(t, 400.0, a.StrikeRate)
	assert.Equal(t, 5, st.Bowlers[carol.ID].Runs)
	assert.Equal(t, 1, st.Bowlers[carol.ID].NoBalls)
	assert.Equal(t, "Nb+4", res.Ball.Glyph)
}

func TestRecordBall_ByesNotChargedToBowler(t *testing.T) {
	m := newMatch(t, DefaultFormat())

	res := record(t, m, Delivery{ExtraType: ExtraBye, ExtraRuns: 1})
	st := res.State
	assert.Equal(t, 1, st.Runs)
	assert.Equal(t, 1, st.Balls)
	assert.Equal(t, 1, st.Extras.Byes)
	assert.Equal(t, 0, st.Bowlers[carol.ID].Runs)
	assert.Equal(t, 0, st.Batsmen[alice.ID].Runs)
	assert.Equal(t, 1, st.Batsmen[alice.ID].Balls)
	assert.Equal(t, "B1", res.Ball.Glyph)
	assert.Equal(t, bob.ID, st.Striker.ID)

	res = record(t, m, Delivery{RunsOffBat: 4, ExtraType: ExtraLegBye})
	assert.Equal(t, "Lb4", res.Ball.Glyph)
	assert.Equal(t, 4, res.State.Extras.LegByes)
	assert.Equal(t, 0, res.State.Batsmen[bob.ID].Fours)
}

func TestRecordBall_StrikeRotation(t *testing.T) {
	m := newMatch(t, DefaultFormat())

	st := record(t, m, runs(1)).State
	assert.Equal(t, bob.ID, st.Striker.ID)

	st = record(t, m, runs(2)).State
	assert.Equal(t, bob.ID, st.Striker.ID)

	st = record(t, m, runs(3)).State
	assert.Equal(t, alice.ID, st.Striker.ID)
}

func TestRecordBall_WicketClearsStriker(t *testing.T) {
	m := newMatch(t, DefaultFormat())

	res := record(t, m, Delivery{Wicket: true, Dismissal: Caught{Fielder: dave.ID}})
	st := res.State
	assert.Equal(t, 1, st.Wickets)
	assert.Nil(t, st.Striker)
	assert.Equal(t, bob.ID, st.NonStriker.ID)
	assert.True(t, st.Batsmen[alice.ID].IsOut)
	assert.Equal(t, KindCaught, st.Batsmen[alice.ID].HowOut)
	assert.Equal(t, 1, st.Bowlers[carol.ID].Wickets)
	assert.Equal(t, "W", res.Ball.Glyph)
	require.NotNil(t, res.Ball.DismissedBatsman)
	assert.Equal(t, alice.ID, res.Ball.DismissedBatsman.ID)

	require.Len(t, res.Actions, 1)
	assert.Equal(t, ActionNewBatsman, res.Actions[0].Type)
	assert.True(t, *res.Actions[0].OnStrike)

	_, err := m.RecordBall(runs(1))
	assert.ErrorIs(t, err, ErrBatsmanRequired)

	_, err = m.SetNewBatsman(alice, true)
	assert.ErrorIs(t, err, ErrBatsmanDismissed)
	_, err = m.SetNewBatsman(bob, true)
	assert.ErrorIs(t, err, ErrDuplicateBatsman)

	st, err = m.SetNewBatsman(eve, true)
	require.NoError(t, err)
	assert.Equal(t, eve.ID, st.Striker.ID)
	assert.Empty(t, st.RequiredActions)
	assert.Contains(t, m.Export().Innings[0].BattingOrder, eve.ID)
}

func TestRecordBall_RunOutNonStriker(t *testing.T) {
	m := newMatch(t, DefaultFormat())

	res := record(t, m, Delivery{RunsOffBat: 1, Wicket: true, Dismissal: RunOut{Fielder: dave.ID, Batsman: bob.ID}})
	st := res.State
	assert.Equal(t, alice.ID, st.Striker.ID)
	assert.Nil(t, st.NonStriker)
	assert.True(t, st.Batsmen[bob.ID].IsOut)
	assert.False(t, st.Batsmen[alice.ID].IsOut)
	assert.Equal(t, 1, st.Batsmen[alice.ID].Runs)

	require.Len(t, res.Actions, 1)
	assert.False(t, *res.Actions[0].OnStrike)

	inn := m.Export().Innings[0]
	require.Len(t, inn.FallOfWickets, 1)
	assert.Equal(t, bob.ID, inn.FallOfWickets[0].Player.ID)
	assert.Equal(t, 1, inn.FallOfWickets[0].Score)
	assert.Equal(t, 0.1, inn.FallOfWickets[0].Overs)
}

func TestRecordBall_RejectsInvalidDelivery(t *testing.T) {
	m := newMatch(t, DefaultFormat())

	for _, d := range []Delivery{
		{RunsOffBat: 7},
		{RunsOffBat: -1},
		{ExtraType: "penalty"},
		{ExtraType: ExtraWide, RunsOffBat: 2},
		{ExtraType: ExtraBye, ExtraRuns: -1},
	} {
		_, err := m.RecordBall(d)
		assert.ErrorIs(t, err, ErrInvalidDelivery)
	}
	assert.Equal(t, 0, m.CurrentState().Runs)
}

func TestSetNewBowler(t *testing.T) {
	m := newMatch(t, DefaultFormat())
	for i := 0; i < 6; i++ {
		record(t, m, runs(0))
	}

	_, err := m.RecordBall(runs(1))
	assert.ErrorIs(t, err, ErrBowlerRequired)

	_, err = m.SetNewBowler(carol)
	assert.ErrorIs(t, err, ErrConsecutiveOvers)
	assert.Nil(t, m.CurrentState().CurrentBowler)

	_, err = m.SetNewBowler(Player{})
	assert.ErrorIs(t, err, ErrInvalidPlayer)

	st, err := m.SetNewBowler(dave)
	require.NoError(t, err)
	assert.Equal(t, dave.ID, st.CurrentBowler.ID)
	assert.False(t, st.IsOverComplete)
	assert.Empty(t, st.RequiredActions)
	assert.Equal(t, []PlayerID{carol.ID, dave.ID}, m.Export().Innings[0].BowlingOrder)
}

func TestSecondInnings_TargetAndResult(t *testing.T) {
	m := newMatch(t, Format{MaxOvers: 1, MaxWickets: 2, BallsPerOver: 6})
	for i := 0; i < 6; i++ {
		record(t, m, runs(1))
	}
	st := m.CurrentState()
	assert.True(t, st.IsInningsComplete)
	assert.Equal(t, EndOversComplete, st.EndReason)
	assert.Equal(t, []ActionType{ActionStartSecondInnings}, actionTypes(st.RequiredActions))

	_, err := m.RecordBall(runs(1))
	assert.ErrorIs(t, err, ErrInningsComplete)

	startSecond(t, m)
	st = m.CurrentState()
	require.NotNil(t, st.Target)
	assert.Equal(t, 7, *st.Target)
	require.NotNil(t, st.RequiredRunRate)
	assert.Equal(t, 7.0, *st.RequiredRunRate)
	assert.Equal(t, 7, *st.RunsNeeded)
	assert.Equal(t, 2, st.InningsNumber)

	st = record(t, m, runs(6)).State
	assert.Equal(t, 1.2, *st.RequiredRunRate)
	assert.Equal(t, 5, st.BallsRemaining)

	res := record(t, m, runs(1))
	st = res.State
	assert.True(t, st.IsInningsComplete)
	assert.Equal(t, EndTargetAchieved, st.EndReason)
	assert.True(t, st.IsMatchComplete)
	require.NotNil(t, st.Result)
	assert.Equal(t, ResultWin, st.Result.Type)
	assert.Equal(t, tigers.ID, st.Result.Winner.ID)
	assert.Equal(t, 2, st.Result.Margin)
	assert.Equal(t, MarginWickets, st.Result.MarginType)
	assert.Equal(t, "Tigers won by 2 wickets", st.Result.Message)
	assert.Equal(t, []ActionType{ActionMatchComplete}, actionTypes(res.Actions))
	assert.Equal(t, 0, *st.RunsNeeded)
}

func TestRecordBall_TargetBeatsOversComplete(t *testing.T) {
	m := newMatch(t, Format{MaxOvers: 1, MaxWickets: 10, BallsPerOver: 6})
	for i := 0; i < 6; i++ {
		record(t, m, runs(0))
	}
	startSecond(t, m)
	for i := 0; i < 5; i++ {
		record(t, m, runs(0))
	}
	st := record(t, m, runs(1)).State
	assert.Equal(t, 6, st.Balls)
	assert.Equal(t, EndTargetAchieved, st.EndReason)
	assert.Nil(t, st.RequiredRunRate)
	assert.Equal(t, "Tigers won by 10 wickets", st.Result.Message)
}

func TestRecordBall_AllOutBeatsOversComplete(t *testing.T) {
	m := newMatch(t, Format{MaxOvers: 1, MaxWickets: 1, BallsPerOver: 6})
	for i := 0; i < 5; i++ {
		record(t, m, runs(0))
	}
	st := record(t, m, Delivery{Wicket: true, Dismissal: Bowled{}}).State
	assert.True(t, st.IsInningsComplete)
	assert.Equal(t, EndAllOut, st.EndReason)
}

func TestCompleteMatch_RunsMarginAndTie(t *testing.T) {
	tests := []struct {
		name    string
		chase   []int
		typ     ResultType
		message string
	}{
		{name: "defended", chase: []int{1, 1, 1}, typ: ResultWin, message: "Lions won by 3 runs"},
		{name: "by one run", chase: []int{1, 1, 1, 1, 1}, typ: ResultWin, message: "Lions won by 1 run"},
		{name: "tied", chase: []int{1, 1, 1, 1, 1, 1}, typ: ResultTie, message: "Match tied"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMatch(t, Format{MaxOvers: 1, MaxWickets: 10, BallsPerOver: 6})
			for i := 0; i < 6; i++ {
				record(t, m, runs(1))
			}
			startSecond(t, m)
			for i := 0; i < 6; i++ {
				n := 0
				if i < len(tt.chase) {
					n = tt.chase[i]
				}
				record(t, m, runs(n))
			}
			require.True(t, m.IsMatchComplete())
			res := m.Result()
			assert.Equal(t, tt.typ, res.Type)
			assert.Equal(t, tt.message, res.Message)
		})
	}
}

func TestCompleteMatch_Incomplete(t *testing.T) {
	m := newMatch(t, DefaultFormat())
	record(t, m, runs(4))

	res := m.CompleteMatch()
	assert.Equal(t, ResultIncomplete, res.Type)
	assert.Nil(t, res.Winner)

	again := m.CompleteMatch()
	assert.Equal(t, res, again)
	assert.Equal(t, []ActionType{ActionMatchComplete}, actionTypes(m.CurrentState().RequiredActions))
}

func TestUndoLastBall_Empty(t *testing.T) {
	m := newMatch(t, DefaultFormat())
	_, err := m.UndoLastBall()
	assert.ErrorIs(t, err, ErrEmptyBallLog)

	_, err = New(DefaultFormat()).UndoLastBall()
	assert.ErrorIs(t, err, ErrNoActiveInnings)
}

func TestLastBall(t *testing.T) {
	_, ok := New(DefaultFormat()).LastBall()
	assert.False(t, ok)

	m := newMatch(t, DefaultFormat())
	_, ok = m.LastBall()
	assert.False(t, ok)

	record(t, m, runs(1))
	record(t, m, runs(4))
	last, ok := m.LastBall()
	require.True(t, ok)
	assert.Equal(t, 2, last.Sequence)
	assert.Equal(t, 4, last.RunsOffBat)

	_, err := m.UndoLastBall()
	require.NoError(t, err)
	last, ok = m.LastBall()
	require.True(t, ok)
	assert.Equal(t, 1, last.Sequence)
}

func TestUndoLastBall_RoundTrip(t *testing.T) {
	deliveries := []Delivery{
		runs(0),
		runs(1),
		runs(4),
		runs(6),
		{ExtraType: ExtraWide},
		{ExtraType: ExtraWide, ExtraRuns: 3},
		{ExtraType: ExtraNoBall, RunsOffBat: 1},
		{ExtraType: ExtraBye, ExtraRuns: 2},
		{ExtraType: ExtraLegBye, RunsOffBat: 1},
		{Wicket: true, Dismissal: Bowled{}},
		{Wicket: true, Dismissal: RunOut{Batsman: bob.ID}},
	}
	for _, d := range deliveries {
		m := newMatch(t, DefaultFormat())
		record(t, m, runs(2))
		before := m.CurrentState()

		record(t, m, d)
		after, err := m.UndoLastBall()
		require.NoError(t, err)
		assert.Equal(t, before, after, "delivery %+v", d)
	}
}

func TestUndoLastBall_OverBoundaryAndMaiden(t *testing.T) {
	m := newMatch(t, DefaultFormat())
	for i := 0; i < 5; i++ {
		record(t, m, runs(0))
	}
	before := m.CurrentState()

	st := record(t, m, runs(0)).State
	assert.Equal(t, 1, st.Bowlers[carol.ID].Maidens)

	after, err := m.UndoLastBall()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 5, after.CurrentOverBalls)
	assert.Equal(t, carol.ID, after.CurrentBowler.ID)
	assert.Equal(t, 0, after.Bowlers[carol.ID].Maidens)
}

func TestUndoLastBall_ReopensMatch(t *testing.T) {
	m := newMatch(t, Format{MaxOvers: 1, MaxWickets: 10, BallsPerOver: 6})
	record(t, m, runs(4))
	for i := 0; i < 5; i++ {
		record(t, m, runs(0))
	}
	startSecond(t, m)
	before := m.CurrentState()

	st := record(t, m, runs(6)).State
	require.True(t, st.IsMatchComplete)

	after, err := m.UndoLastBall()
	require.NoError(t, err)
	assert.False(t, after.IsMatchComplete)
	assert.Nil(t, after.Result)
	assert.Equal(t, before, after)
}

func TestUndoLastBall_SettledMatchStaysSettled(t *testing.T) {
	m := newMatch(t, Format{MaxOvers: 1, MaxWickets: 10, BallsPerOver: 6})
	for i := 0; i < 6; i++ {
		record(t, m, runs(1))
	}
	startSecond(t, m)
	record(t, m, runs(4))
	res := m.CompleteMatch()
	require.Equal(t, "Lions won by 2 runs", res.Message)
	before := m.CurrentState()

	_, err := m.UndoLastBall()
	assert.ErrorIs(t, err, ErrMatchSettled)
	assert.Equal(t, before, m.CurrentState())
	last, ok := m.LastBall()
	require.True(t, ok)
	assert.Equal(t, 4, last.TotalRuns)

	// settled after the first innings ended
	m = newMatch(t, Format{MaxOvers: 1, MaxWickets: 10, BallsPerOver: 6})
	for i := 0; i < 6; i++ {
		record(t, m, runs(0))
	}
	m.CompleteMatch()
	_, err = m.UndoLastBall()
	assert.ErrorIs(t, err, ErrMatchSettled)
	assert.True(t, m.IsMatchComplete())
}

func randomDelivery(rng *rand.Rand) Delivery {
	switch n := rng.Intn(20); {
	case n < 2:
		return Delivery{ExtraType: ExtraWide, ExtraRuns: rng.Intn(3)}
	case n < 4:
		return Delivery{ExtraType: ExtraNoBall, RunsOffBat: rng.Intn(7), ExtraRuns: rng.Intn(2)}
	case n < 5:
		return Delivery{ExtraType: ExtraBye, ExtraRuns: 1 + rng.Intn(4)}
	case n < 6:
		return Delivery{ExtraType: ExtraLegBye, RunsOffBat: rng.Intn(3)}
	case n < 8:
		return Delivery{Wicket: true, Dismissal: Bowled{}}
	}
	return runs(rng.Intn(7))
}

// fillCrease answers the pending batsman and bowler actions.
func fillCrease(t *testing.T, m *MatchEngine, next *int) {
	t.Helper()
	st := m.CurrentState()
	for _, a := range st.RequiredActions {
		switch a.Type {
		case ActionNewBatsman:
			*next++
			p := Player{ID: PlayerID(fmt.Sprintf("bat-%d", *next))}
			_, err := m.SetNewBatsman(p, a.OnStrike == nil || *a.OnStrike)
			require.NoError(t, err)
		case ActionNewBowler:
			bowler := carol
			if st.PreviousBowler != nil && st.PreviousBowler.ID == carol.ID {
				bowler = eve
			}
			_, err := m.SetNewBowler(bowler)
			require.NoError(t, err)
		}
	}
}

func checkTotals(t *testing.T, m *MatchEngine) {
	t.Helper()
	exp := m.Export()
	inn := exp.Innings[exp.CurrentInningsIndex]
	var total, legal, wickets int
	for _, b := range inn.BallLog {
		total += b.TotalRuns
		if b.IsLegalDelivery {
			legal++
		}
		if b.Wicket {
			wickets++
		}
	}
	st := m.CurrentState()
	require.Equal(t, total, st.Runs)
	require.Equal(t, legal, st.Balls)
	require.Equal(t, wickets, st.Wickets)
	x := st.Extras
	require.Equal(t, x.Wides+x.NoBalls+x.Byes+x.LegByes, x.Total)

	var batted int
	for _, b := range st.Batsmen {
		batted += b.Runs
	}
	require.Equal(t, st.Runs, batted+x.Total)
}

func TestRecordBall_RandomSequencesKeepTotals(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))
			m := newMatch(t, Format{MaxOvers: 5, MaxWickets: 10, BallsPerOver: 6})
			next := 0
			for step := 0; step < 300 && !m.CurrentState().IsInningsComplete; step++ {
				fillCrease(t, m, &next)
				if _, ok := m.LastBall(); ok && rng.Intn(5) == 0 {
					_, err := m.UndoLastBall()
					require.NoError(t, err)
				} else {
					record(t, m, randomDelivery(rng))
				}
				checkTotals(t, m)
			}
		})
	}
}

func TestExportImport(t *testing.T) {
	m := newMatch(t, Format{MaxOvers: 5, MaxWickets: 3, BallsPerOver: 6})
	record(t, m, runs(4))
	record(t, m, Delivery{ExtraType: ExtraNoBall, RunsOffBat: 1})
	record(t, m, Delivery{Wicket: true, Dismissal: Stumped{Keeper: dave.ID}})
	_, err := m.SetNewBatsman(eve, true)
	require.NoError(t, err)

	data, err := json.Marshal(m.Export())
	require.NoError(t, err)

	var exported ExportedMatch
	require.NoError(t, json.Unmarshal(data, &exported))

	restored, err := Import(exported)
	require.NoError(t, err)
	assert.Equal(t, m.CurrentState(), restored.CurrentState())
	assert.Equal(t, Format{MaxOvers: 5, MaxWickets: 3, BallsPerOver: 6}, restored.Format())

	ball := exported.Innings[0].BallLog[2]
	require.NotNil(t, ball.Dismissal)
	assert.Equal(t, Stumped{Keeper: dave.ID}, ball.Dismissal.Dismissal)

	// the restored engine keeps scoring where the original left off
	a := record(t, m, runs(2))
	b := record(t, restored, runs(2))
	assert.Equal(t, a.State, b.State)
	assert.Equal(t, a.Ball, b.Ball)
}

func TestExport_IsDeepCopy(t *testing.T) {
	m := newMatch(t, DefaultFormat())
	record(t, m, runs(1))

	exp := m.Export()
	exp.Innings[0].Runs = 99
	exp.Innings[0].Batsmen[alice.ID].Runs = 99

	st := m.CurrentState()
	assert.Equal(t, 1, st.Runs)
	assert.Equal(t, 1, st.Batsmen[alice.ID].Runs)
}

func TestImport_InvalidIndex(t *testing.T) {
	_, err := Import(ExportedMatch{CurrentInningsIndex: 1})
	assert.ErrorIs(t, err, ErrInvalidImport)

	m := newMatch(t, DefaultFormat())
	exp := m.Export()
	exp.CurrentInningsIndex = 3
	_, err = Import(exp)
	assert.ErrorIs(t, err, ErrInvalidImport)
}

func TestOversAndRates(t *testing.T) {
	assert.Equal(t, 2.3, oversFromBalls(15, 6))
	assert.Equal(t, 0.0, oversFromBalls(0, 6))
	assert.Equal(t, 1.0, oversFromBalls(8, 8))
	assert.Equal(t, 0.0, perOver(10, 0, 6))
	assert.Equal(t, 7.33, perOver(11, 9, 6))
	assert.Equal(t, 33.33, strikeRate(1, 3))
}

func TestGlyph(t *testing.T) {
	tests := []struct {
		ball BallRecord
		want string
	}{
		{BallRecord{RunsOffBat: 0}, "0"},
		{BallRecord{RunsOffBat: 6}, "6"},
		{BallRecord{Wicket: true, ExtraType: ExtraNoBall}, "W"},
		{BallRecord{ExtraType: ExtraWide, ExtraRuns: 1, TotalRuns: 1}, "Wd"},
		{BallRecord{ExtraType: ExtraWide, ExtraRuns: 5, TotalRuns: 5}, "Wd+4"},
		{BallRecord{ExtraType: ExtraNoBall, ExtraRuns: 1, TotalRuns: 1}, "Nb"},
		{BallRecord{ExtraType: ExtraNoBall, RunsOffBat: 2, ExtraRuns: 1, TotalRuns: 3}, "Nb+2"},
		{BallRecord{ExtraType: ExtraBye, ExtraRuns: 4, TotalRuns: 4}, "B4"},
		{BallRecord{ExtraType: ExtraLegBye, ExtraRuns: 2, TotalRuns: 2}, "Lb2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Glyph(tt.ball))
	}
}

func TestRecentBallsWindow(t *testing.T) {
	m := newMatch(t, Format{MaxOvers: 5, BallsPerOver: 6})
	bowlers := []Player{carol, dave}
	for i := 0; i < 14; i++ {
		if m.CurrentState().CurrentBowler == nil {
			_, err := m.SetNewBowler(bowlers[(i/6)%2])
			require.NoError(t, err)
		}
		record(t, m, runs(i%2*2))
	}
	st := m.CurrentState()
	require.Len(t, st.RecentBalls, recentBallsWindow)
	assert.Equal(t, "0", st.RecentBalls[0])
	assert.Equal(t, "2", st.RecentBalls[11])
}
