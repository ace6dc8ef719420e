package scoring

// UndoLastBall removes the most recent delivery of the active innings and
// reverses everything it changed, including the batsman and bowler tallies.
// Undoing the ball that finished the match reopens it. A match settled by
// CompleteMatch before its second innings ended stays settled.
func (m *MatchEngine) UndoLastBall() (DerivedState, error) {
	inn := m.currentInnings()
	if inn == nil {
		return DerivedState{}, ErrNoActiveInnings
	}
	if len(inn.BallLog) == 0 {
		return DerivedState{}, ErrEmptyBallLog
	}
	finishedByLastBall := inn.IsComplete && m.currentIndex == 1
	if m.isMatchComplete && !finishedByLastBall {
		return DerivedState{}, ErrMatchSettled
	}

	last := len(inn.BallLog) - 1
	ball := inn.BallLog[last]
	inn.BallLog = inn.BallLog[:last]

	inn.Runs -= ball.TotalRuns
	inn.Extras.add(ball.ExtraType, -ball.ExtraRuns)
	if ball.IsLegalDelivery {
		inn.Balls--
	}

	rv := ball.Reversal
	inn.Striker = copyPlayer(rv.Striker)
	inn.NonStriker = copyPlayer(rv.NonStriker)
	inn.CurrentBowler = copyPlayer(rv.CurrentBowler)
	inn.PreviousBowler = copyPlayer(rv.PreviousBowler)
	inn.CurrentOverBalls = rv.CurrentOverBalls
	inn.IsOverComplete = rv.IsOverComplete

	if b, ok := inn.Batsmen[ball.Striker.ID]; ok {
		if facesBall(ball) {
			b.Balls--
		}
		runs := batRuns(ball)
		b.Runs -= runs
		if runs == 4 {
			b.Fours--
		}
		if runs == 6 {
			b.Sixes--
		}
		b.StrikeRate = strikeRate(b.Runs, b.Balls)
	}

	if b, ok := inn.Bowlers[ball.Bowler.ID]; ok {
		conceded := bowlerRuns(ball)
		b.Runs -= conceded
		switch ball.ExtraType {
		case ExtraWide:
			b.Wides--
		case ExtraNoBall:
			b.NoBalls--
		}
		if ball.Wicket {
			b.Wickets--
		}
		if ball.IsLegalDelivery {
			b.Balls--
			if conceded == 0 {
				b.Dots--
			}
		}
		if rv.MaidenCounted {
			b.Maidens--
		}
		b.CurrentOverRuns = rv.BowlerOverRuns
		b.Overs = oversFromBalls(b.Balls, m.format.BallsPerOver)
		b.Economy = perOver(b.Runs, b.Balls, m.format.BallsPerOver)
	}

	if ball.Wicket {
		inn.Wickets--
		if ball.DismissedBatsman != nil {
			if b, ok := inn.Batsmen[ball.DismissedBatsman.ID]; ok {
				b.IsOut = false
				b.HowOut = ""
			}
		}
		if n := len(inn.FallOfWickets); n > 0 && inn.FallOfWickets[n-1].Sequence == ball.Sequence {
			inn.FallOfWickets = inn.FallOfWickets[:n-1]
		}
	}

	if m.isMatchComplete {
		m.isMatchComplete = false
		m.result = nil
	}
	inn.IsComplete = false
	inn.EndReason = EndNone

	m.refreshDerived(inn)
	return m.CurrentState(), nil
}

// LastBall returns the most recent delivery of the active innings, the one
// UndoLastBall would remove.
func (m *MatchEngine) LastBall() (BallRecord, bool) {
	inn := m.currentInnings()
	if inn == nil || len(inn.BallLog) == 0 {
		return BallRecord{}, false
	}
	return inn.BallLog[len(inn.BallLog)-1].clone(), true
}
