package scoring

import "fmt"

// ExportedMatch is the serializable form of an engine, stored by the
// persistence layer to suspend and resume a match.
type ExportedMatch struct {
	Innings             []*Innings   `json:"innings"`
	CurrentInningsIndex int          `json:"currentInningsIndex"`
	IsMatchComplete     bool         `json:"isMatchComplete"`
	Result              *MatchResult `json:"result,omitempty"`
	MaxOvers            int          `json:"maxOvers"`
	MaxWickets          int          `json:"maxWickets"`
	BallsPerOver        int          `json:"ballsPerOver"`
}

// Format returns the limits recorded in the export.
func (e ExportedMatch) Format() Format {
	return Format{MaxOvers: e.MaxOvers, MaxWickets: e.MaxWickets, BallsPerOver: e.BallsPerOver}.WithDefaults()
}

// Export returns a deep copy of the engine state.
func (m *MatchEngine) Export() ExportedMatch {
	out := ExportedMatch{
		Innings:             make([]*Innings, 0, len(m.innings)),
		CurrentInningsIndex: m.currentIndex,
		IsMatchComplete:     m.isMatchComplete,
		Result:              m.Result(),
		MaxOvers:            m.format.MaxOvers,
		MaxWickets:          m.format.MaxWickets,
		BallsPerOver:        m.format.BallsPerOver,
	}
	for _, inn := range m.innings {
		out.Innings = append(out.Innings, inn.clone())
	}
	return out
}

// Import rebuilds an engine from an export. The data is copied; the caller may
// keep using it.
func Import(data ExportedMatch) (*MatchEngine, error) {
	if len(data.Innings) == 0 {
		if data.CurrentInningsIndex != 0 {
			return nil, fmt.Errorf("%w: innings index %d with no innings", ErrInvalidImport, data.CurrentInningsIndex)
		}
	} else if data.CurrentInningsIndex < 0 || data.CurrentInningsIndex >= len(data.Innings) {
		return nil, fmt.Errorf("%w: innings index %d out of range", ErrInvalidImport, data.CurrentInningsIndex)
	}

	m := New(data.Format())
	for i, inn := range data.Innings {
		if inn == nil {
			return nil, fmt.Errorf("%w: innings %d is empty", ErrInvalidImport, i+1)
		}
		c := inn.clone()
		if c.Batsmen == nil {
			c.Batsmen = make(map[PlayerID]*BatsmanStats)
		}
		if c.Bowlers == nil {
			c.Bowlers = make(map[PlayerID]*BowlerStats)
		}
		m.innings = append(m.innings, c)
	}
	m.currentIndex = data.CurrentInningsIndex
	m.isMatchComplete = data.IsMatchComplete
	if data.Result != nil {
		r := *data.Result
		m.result = &r
	}
	return m, nil
}

func (inn *Innings) clone() *Innings {
	c := *inn
	if inn.Target != nil {
		t := *inn.Target
		c.Target = &t
	}
	if inn.RequiredRunRate != nil {
		r := *inn.RequiredRunRate
		c.RequiredRunRate = &r
	}
	c.Striker = copyPlayer(inn.Striker)
	c.NonStriker = copyPlayer(inn.NonStriker)
	c.CurrentBowler = copyPlayer(inn.CurrentBowler)
	c.PreviousBowler = copyPlayer(inn.PreviousBowler)

	if inn.Batsmen != nil {
		c.Batsmen = make(map[PlayerID]*BatsmanStats, len(inn.Batsmen))
		for id, b := range inn.Batsmen {
			cp := *b
			c.Batsmen[id] = &cp
		}
	}
	if inn.Bowlers != nil {
		c.Bowlers = make(map[PlayerID]*BowlerStats, len(inn.Bowlers))
		for id, b := range inn.Bowlers {
			cp := *b
			c.Bowlers[id] = &cp
		}
	}
	c.BattingOrder = append([]PlayerID(nil), inn.BattingOrder...)
	c.BowlingOrder = append([]PlayerID(nil), inn.BowlingOrder...)
	c.RecentBalls = append([]string{}, inn.RecentBalls...)
	c.FallOfWickets = append([]FallOfWicket{}, inn.FallOfWickets...)

	c.BallLog = make([]BallRecord, len(inn.BallLog))
	for i, b := range inn.BallLog {
		c.BallLog[i] = b.clone()
	}
	return &c
}

func (b BallRecord) clone() BallRecord {
	c := b
	c.DismissedBatsman = copyPlayer(b.DismissedBatsman)
	if b.Dismissal != nil {
		d := *b.Dismissal
		c.Dismissal = &d
	}
	c.Reversal.Striker = copyPlayer(b.Reversal.Striker)
	c.Reversal.NonStriker = copyPlayer(b.Reversal.NonStriker)
	c.Reversal.CurrentBowler = copyPlayer(b.Reversal.CurrentBowler)
	c.Reversal.PreviousBowler = copyPlayer(b.Reversal.PreviousBowler)
	return c
}
