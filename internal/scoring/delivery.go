package scoring

import (
	"fmt"
	"strconv"
)

func (d Delivery) validate() error {
	if !d.ExtraType.valid() {
		return fmt.Errorf("%w: unknown extra type %q", ErrInvalidDelivery, d.ExtraType)
	}
	if d.RunsOffBat < 0 || d.RunsOffBat > 6 {
		return fmt.Errorf("%w: runs off bat must be between 0 and 6, got %d", ErrInvalidDelivery, d.RunsOffBat)
	}
	if d.ExtraRuns < 0 {
		return fmt.Errorf("%w: extra runs cannot be negative", ErrInvalidDelivery)
	}
	if d.ExtraType == ExtraWide && d.RunsOffBat > 0 {
		return fmt.Errorf("%w: no runs can be scored off the bat on a wide", ErrInvalidDelivery)
	}
	return nil
}

// runs returns the total runs and the runs booked as extras for the delivery.
func (d Delivery) runs() (total, extras int) {
	switch d.ExtraType {
	case ExtraWide:
		extras = 1 + d.ExtraRuns
		return extras, extras
	case ExtraNoBall:
		extras = 1 + d.ExtraRuns
		return d.RunsOffBat + extras, extras
	case ExtraBye, ExtraLegBye:
		extras = d.ExtraRuns
		if d.RunsOffBat > 0 {
			extras = d.RunsOffBat
		}
		return extras, extras
	}
	return d.RunsOffBat, 0
}

// runsRun is the number of runs the batsmen ran, which decides strike.
func (d Delivery) runsRun() int {
	switch d.ExtraType {
	case ExtraWide:
		return d.ExtraRuns
	case ExtraNoBall:
		return d.RunsOffBat + d.ExtraRuns
	case ExtraBye, ExtraLegBye:
		if d.RunsOffBat > 0 {
			return d.RunsOffBat
		}
		return d.ExtraRuns
	}
	return d.RunsOffBat
}

// batRuns is what the striker is credited with. No-ball bat runs count.
func batRuns(b BallRecord) int {
	switch b.ExtraType {
	case ExtraBye, ExtraLegBye, ExtraWide:
		return 0
	}
	return b.RunsOffBat
}

// facesBall reports whether the delivery counts as a ball faced. No-balls do,
// wides do not.
func facesBall(b BallRecord) bool {
	return b.IsLegalDelivery || b.ExtraType == ExtraNoBall
}

// bowlerRuns is what the bowler concedes. Byes and leg-byes are not charged.
func bowlerRuns(b BallRecord) int {
	if b.ExtraType == ExtraBye || b.ExtraType == ExtraLegBye {
		return 0
	}
	return b.TotalRuns
}

// RecordBall applies one delivery to the active innings.
func (m *MatchEngine) RecordBall(d Delivery) (*BallResult, error) {
	inn := m.currentInnings()
	if inn == nil {
		return nil, ErrNoActiveInnings
	}
	if inn.IsComplete {
		return nil, ErrInningsComplete
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	if inn.CurrentBowler == nil {
		return nil, ErrBowlerRequired
	}
	if inn.Striker == nil || inn.NonStriker == nil {
		return nil, ErrBatsmanRequired
	}

	bpo := m.format.BallsPerOver
	total, extras := d.runs()
	legal := d.ExtraType.IsLegal()

	ball := BallRecord{
		Sequence:        len(inn.BallLog) + 1,
		BallNumber:      inn.Balls,
		OverNumber:      inn.Balls / bpo,
		BallInOver:      inn.CurrentOverBalls,
		Striker:         *inn.Striker,
		NonStriker:      *inn.NonStriker,
		Bowler:          *inn.CurrentBowler,
		RunsOffBat:      d.RunsOffBat,
		ExtraType:       d.ExtraType,
		ExtraRuns:       extras,
		TotalRuns:       total,
		IsLegalDelivery: legal,
		Wicket:          d.Wicket,
		Reversal: Reversal{
			Striker:          copyPlayer(inn.Striker),
			NonStriker:       copyPlayer(inn.NonStriker),
			CurrentBowler:    copyPlayer(inn.CurrentBowler),
			PreviousBowler:   copyPlayer(inn.PreviousBowler),
			CurrentOverBalls: inn.CurrentOverBalls,
			IsOverComplete:   inn.IsOverComplete,
		},
	}
	if legal {
		ball.BallNumber++
		ball.BallInOver++
	}
	if d.Wicket && d.Dismissal != nil {
		ball.Dismissal = &DismissalDetail{Dismissal: d.Dismissal}
	}

	inn.Runs += total
	inn.Extras.add(d.ExtraType, extras)
	if legal {
		inn.Balls++
		inn.CurrentOverBalls++
	}

	m.creditBatsman(inn, ball)
	m.chargeBowler(inn, &ball)

	if d.Wicket {
		inn.Wickets++
		out := ball.Striker
		if ro, ok := d.Dismissal.(RunOut); ok && ro.Batsman == ball.NonStriker.ID {
			out = ball.NonStriker
		}
		ball.DismissedBatsman = &out
		if b, ok := inn.Batsmen[out.ID]; ok {
			b.IsOut = true
			if d.Dismissal != nil {
				b.HowOut = d.Dismissal.Kind()
			}
		}
		if samePlayer(inn.Striker, &out) {
			inn.Striker = nil
		} else {
			inn.NonStriker = nil
		}
		inn.FallOfWickets = append(inn.FallOfWickets, FallOfWicket{
			Wicket:   inn.Wickets,
			Player:   out,
			Score:    inn.Runs,
			Overs:    oversFromBalls(inn.Balls, bpo),
			Sequence: ball.Sequence,
		})
	}

	// A wicket ball never rotates: the caller places the new batsman.
	if !d.Wicket && d.runsRun()%2 == 1 {
		inn.Striker, inn.NonStriker = inn.NonStriker, inn.Striker
	}

	if legal && inn.CurrentOverBalls >= bpo {
		inn.IsOverComplete = true
		inn.CurrentOverBalls = 0
		inn.Striker, inn.NonStriker = inn.NonStriker, inn.Striker
		inn.PreviousBowler = inn.CurrentBowler
		inn.CurrentBowler = nil
	} else {
		inn.IsOverComplete = false
	}

	ball.Glyph = Glyph(ball)
	inn.BallLog = append(inn.BallLog, ball)
	m.refreshDerived(inn)

	// target_achieved wins over all_out, which wins over overs_complete.
	switch {
	case inn.Target != nil && inn.Runs >= *inn.Target:
		inn.finish(EndTargetAchieved)
	case inn.Wickets >= m.format.MaxWickets:
		inn.finish(EndAllOut)
	case inn.Balls >= m.format.TotalBalls():
		inn.finish(EndOversComplete)
	}

	if inn.IsComplete && m.currentIndex == 1 {
		m.CompleteMatch()
	}

	state := m.CurrentState()
	return &BallResult{Ball: ball, State: state, Actions: state.RequiredActions}, nil
}

func (inn *Innings) finish(reason EndReason) {
	inn.IsComplete = true
	inn.EndReason = reason
}

func (m *MatchEngine) creditBatsman(inn *Innings, ball BallRecord) {
	b := inn.ensureBatsman(ball.Striker)
	if facesBall(ball) {
		b.Balls++
	}
	runs := batRuns(ball)
	b.Runs += runs
	if runs == 4 {
		b.Fours++
	}
	if runs == 6 {
		b.Sixes++
	}
	b.StrikeRate = strikeRate(b.Runs, b.Balls)
}

func (m *MatchEngine) chargeBowler(inn *Innings, ball *BallRecord) {
	bpo := m.format.BallsPerOver
	b := inn.ensureBowler(ball.Bowler)
	ball.Reversal.BowlerOverRuns = b.CurrentOverRuns

	conceded := bowlerRuns(*ball)
	b.Runs += conceded
	b.CurrentOverRuns += conceded
	switch ball.ExtraType {
	case ExtraWide:
		b.Wides++
	case ExtraNoBall:
		b.NoBalls++
	}
	if ball.Wicket {
		b.Wickets++
	}
	if ball.IsLegalDelivery {
		b.Balls++
		if conceded == 0 {
			b.Dots++
		}
		if b.Balls%bpo == 0 {
			if b.CurrentOverRuns == 0 {
				b.Maidens++
				ball.Reversal.MaidenCounted = true
			}
			b.CurrentOverRuns = 0
		}
	}
	b.Overs = oversFromBalls(b.Balls, bpo)
	b.Economy = perOver(b.Runs, b.Balls, bpo)
}

func strikeRate(runs, balls int) float64 {
	if balls == 0 {
		return 0
	}
	return round2(float64(runs) / float64(balls) * 100)
}

// Glyph is the short display form of a ball: W, Wd, Wd+2, Nb+4, B2, Lb1 or
// the bat runs.
func Glyph(b BallRecord) string {
	if b.Wicket {
		return "W"
	}
	switch b.ExtraType {
	case ExtraWide:
		if b.ExtraRuns > 1 {
			return "Wd+" + strconv.Itoa(b.ExtraRuns-1)
		}
		return "Wd"
	case ExtraNoBall:
		if b.RunsOffBat > 0 {
			return "Nb+" + strconv.Itoa(b.RunsOffBat)
		}
		return "Nb"
	case ExtraBye:
		return "B" + strconv.Itoa(b.TotalRuns)
	case ExtraLegBye:
		return "Lb" + strconv.Itoa(b.TotalRuns)
	}
	return strconv.Itoa(b.RunsOffBat)
}
