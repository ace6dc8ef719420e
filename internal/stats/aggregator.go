// Package stats rebuilds player career aggregates from the stored ball log.
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/DhavalSuthar-24/crease/internal/match"
	"github.com/DhavalSuthar-24/crease/internal/scoring"
)

const (
	fifty          = 50
	hundred        = 100
	fiveWicketHaul = 5
)

// MatchLog is the stored ball log of one match.
type MatchLog struct {
	MatchID      uint
	BallsPerOver int
	Balls        []match.BallDelivery
}

type inningsKey struct {
	matchID uint
	innings int
}

type overKey struct {
	inningsKey
	over int
}

type battingInnings struct {
	runs, balls int
	out         bool
}

type bowlingInnings struct {
	balls, runs, wickets int
}

type bowlerOver struct {
	legal, runs, perOver int
}

// Aggregate replays every ball in logs from the point of view of player. The
// result has no UserID; callers set it.
func Aggregate(player scoring.PlayerID, logs []MatchLog) PlayerOverallCricketStat {
	id := string(player)
	var out PlayerOverallCricketStat

	var (
		batOrder  []inningsKey
		batting   = map[inningsKey]*battingInnings{}
		bowlOrder []inningsKey
		bowling   = map[inningsKey]*bowlingInnings{}
		overOrder []overKey
		overs     = map[overKey]*bowlerOver{}
	)
	// legal balls bowled, by balls per over of the match
	legalBalls := map[int]int{}
	playedIn := map[uint]bool{}
	battedIn := map[uint]bool{}
	bowledIn := map[uint]bool{}

	for _, log := range logs {
		perOver := log.BallsPerOver
		if perOver <= 0 {
			perOver = scoring.DefaultFormat().BallsPerOver
		}
		for _, b := range log.Balls {
			key := inningsKey{matchID: log.MatchID, innings: b.InningsNumber}

			if b.StrikerID == id || b.NonStrikerID == id || b.PlayerOutID == id {
				bi, ok := batting[key]
				if !ok {
					bi = &battingInnings{}
					batting[key] = bi
					batOrder = append(batOrder, key)
				}
				battedIn[log.MatchID] = true
				playedIn[log.MatchID] = true
				if b.StrikerID == id {
					runs := batRuns(b)
					bi.runs += runs
					if facesBall(b) {
						bi.balls++
					}
					switch runs {
					case 4:
						out.BattingFours++
					case 6:
						out.BattingSixes++
					}
				}
				if b.PlayerOutID == id && countsAsOut(b) {
					bi.out = true
				}
			}

			if b.BowlerID == id {
				bo, ok := bowling[key]
				if !ok {
					bo = &bowlingInnings{}
					bowling[key] = bo
					bowlOrder = append(bowlOrder, key)
				}
				bowledIn[log.MatchID] = true
				playedIn[log.MatchID] = true

				charged := bowlerRuns(b)
				bo.runs += charged
				if b.IsLegalDelivery {
					bo.balls++
					legalBalls[perOver]++
				}
				if b.IsWicket && b.BowlerCredited {
					bo.wickets++
				}
				switch scoring.ExtraType(b.ExtraType) {
				case scoring.ExtraWide:
					out.BowlingWides++
				case scoring.ExtraNoBall:
					out.BowlingNoBalls++
				}

				ovk := overKey{inningsKey: key, over: b.OverNumber}
				ov, seen := overs[ovk]
				if !seen {
					ov = &bowlerOver{perOver: perOver}
					overs[ovk] = ov
					overOrder = append(overOrder, ovk)
				}
				ov.runs += charged
				if b.IsLegalDelivery {
					ov.legal++
				}
			}

			if b.FielderID == id {
				playedIn[log.MatchID] = true
				switch scoring.DismissalKind(b.DismissalKind) {
				case scoring.KindCaught:
					out.Catches++
				case scoring.KindStumped:
					out.Stumpings++
				case scoring.KindRunOut:
					out.RunOuts++
				}
			}
		}
	}

	out.MatchesPlayed = len(playedIn)
	out.BattingMatchesPlayed = len(battedIn)
	out.BowlingMatchesPlayed = len(bowledIn)

	// Batting
	dismissals := 0
	for i, key := range batOrder {
		bi := batting[key]
		out.BattingInnings++
		out.BattingRunsScored += bi.runs
		out.BattingBallsFaced += bi.balls
		if bi.out {
			dismissals++
			if bi.runs == 0 {
				out.BattingDucks++
			}
		} else {
			out.BattingNotOuts++
		}
		switch {
		case bi.runs >= hundred:
			out.BattingHundreds++
		case bi.runs >= fifty:
			out.BattingFifties++
		}
		if i == 0 || bi.runs > out.BattingHighestScore || (bi.runs == out.BattingHighestScore && !bi.out) {
			out.BattingHighestScore = bi.runs
			out.BattingHighestScoreNotOut = !bi.out
		}
	}
	out.BattingAverage = ratio(out.BattingRunsScored, dismissals, 1)
	out.BattingStrikeRate = ratio(out.BattingRunsScored, out.BattingBallsFaced, 100)

	// Bowling
	for i, key := range bowlOrder {
		bo := bowling[key]
		out.BowlingInnings++
		out.BowlingBallsBowled += bo.balls
		out.BowlingRunsConceded += bo.runs
		out.BowlingWicketsTaken += bo.wickets
		if bo.wickets >= fiveWicketHaul {
			out.FiveWicketHauls++
		}
		better := bo.wickets > out.BestBowlingInningsWickets ||
			(bo.wickets == out.BestBowlingInningsWickets && bo.runs < out.BestBowlingInningsRuns)
		if i == 0 || better {
			out.BestBowlingInningsWickets = bo.wickets
			out.BestBowlingInningsRuns = bo.runs
		}
	}
	for _, key := range overOrder {
		ov := overs[key]
		if ov.legal >= ov.perOver && ov.runs == 0 {
			out.BowlingMaidens++
		}
	}
	out.BowlingAverage = ratio(out.BowlingRunsConceded, out.BowlingWicketsTaken, 1)
	out.BowlingStrikeRate = ratio(out.BowlingBallsBowled, out.BowlingWicketsTaken, 1)
	oversBowled := decimal.Zero
	for perOver, balls := range legalBalls {
		oversBowled = oversBowled.Add(decimal.NewFromInt(int64(balls)).Div(decimal.NewFromInt(int64(perOver))))
	}
	if oversBowled.IsPositive() {
		out.BowlingEconomyRate = decimal.NewFromInt(int64(out.BowlingRunsConceded)).Div(oversBowled).Round(2)
	}
	return out
}

// ratio returns num*scale/den rounded to two places, or zero when den is zero.
func ratio(num, den int, scale int64) decimal.Decimal {
	if den == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(num)).
		Mul(decimal.NewFromInt(scale)).
		Div(decimal.NewFromInt(int64(den))).
		Round(2)
}

// batRuns is what the striker is credited with.
func batRuns(b match.BallDelivery) int {
	switch scoring.ExtraType(b.ExtraType) {
	case scoring.ExtraBye, scoring.ExtraLegBye, scoring.ExtraWide:
		return 0
	}
	return b.RunsOffBat
}

func facesBall(b match.BallDelivery) bool {
	return b.IsLegalDelivery || scoring.ExtraType(b.ExtraType) == scoring.ExtraNoBall
}

// bowlerRuns excludes byes and leg-byes.
func bowlerRuns(b match.BallDelivery) int {
	switch scoring.ExtraType(b.ExtraType) {
	case scoring.ExtraBye, scoring.ExtraLegBye:
		return 0
	}
	return b.TotalRuns
}

// countsAsOut is false for a batsman who retired hurt.
func countsAsOut(b match.BallDelivery) bool {
	return !(scoring.DismissalKind(b.DismissalKind) == scoring.KindRetired && b.RetiredHurt)
}
