package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/DhavalSuthar-24/crease/internal/scoring"
)

// Scorebook is a hand-kept ball-by-ball record of one match.
//
//	format: t20
//	teams:
//	  - {id: 1, name: Lions}
//	  - {id: 2, name: Tigers}
//	innings:
//	  - batting: 1
//	    bowling: 2
//	    striker: {id: alice, name: Alice}
//	    non_striker: {id: bob, name: Bob}
//	    bowler: {id: carol, name: Carol}
//	    events:
//	      - ball: {runs: 4}
//	      - ball: {extra: wide}
//	      - ball: {wicket: caught, fielder: dave}
//	      - batsman: {id: eve, name: Eve}
//	      - bowler: {id: frank, name: Frank}
//	      - undo: true
type Scorebook struct {
	Format  string            `yaml:"format"`
	Limits  *scoring.Format   `yaml:"limits"`
	Teams   []scoring.TeamRef `yaml:"teams"`
	Innings []InningsEntry    `yaml:"innings"`
}

// InningsEntry opens an innings and lists everything the scorer did in it.
type InningsEntry struct {
	Batting    uint         `yaml:"batting"`
	Bowling    uint         `yaml:"bowling"`
	Striker    PlayerEntry  `yaml:"striker"`
	NonStriker PlayerEntry  `yaml:"non_striker"`
	Bowler     PlayerEntry  `yaml:"bowler"`
	Events     []EventEntry `yaml:"events"`
}

type PlayerEntry struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

func (p PlayerEntry) player() scoring.Player {
	return scoring.Player{ID: scoring.PlayerID(p.ID), Name: p.Name}
}

// EventEntry holds exactly one scorer action.
type EventEntry struct {
	Ball    *BallEntry    `yaml:"ball"`
	Batsman *BatsmanEntry `yaml:"batsman"`
	Bowler  *PlayerEntry  `yaml:"bowler"`
	Undo    bool          `yaml:"undo"`
}

type BallEntry struct {
	Runs      int               `yaml:"runs"`
	Extra     scoring.ExtraType `yaml:"extra"`
	ExtraRuns int               `yaml:"extra_runs"`
	Wicket    string            `yaml:"wicket"`
	Fielder   string            `yaml:"fielder"`
	Out       string            `yaml:"out"`
	Hurt      bool              `yaml:"hurt"`
}

type BatsmanEntry struct {
	PlayerEntry `yaml:",inline"`
	OffStrike   bool `yaml:"off_strike"`
}

// LoadScorebook reads a scorebook from path. Unknown keys are rejected.
func LoadScorebook(path string) (*Scorebook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeScorebook(f)
}

func DecodeScorebook(r io.Reader) (*Scorebook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sb Scorebook
	if err := dec.Decode(&sb); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("scorebook is empty")
		}
		return nil, fmt.Errorf("decode scorebook: %w", err)
	}
	if len(sb.Innings) == 0 {
		return nil, errors.New("scorebook has no innings")
	}
	return &sb, nil
}

func (sb *Scorebook) format() (scoring.Format, error) {
	f := scoring.DefaultFormat()
	if sb.Format != "" {
		preset, ok := scoring.FormatByName(sb.Format)
		if !ok {
			return f, fmt.Errorf("unknown format %q: expected t20, odi or t10", sb.Format)
		}
		f = preset
	}
	if sb.Limits != nil {
		if sb.Limits.MaxOvers > 0 {
			f.MaxOvers = sb.Limits.MaxOvers
		}
		if sb.Limits.MaxWickets > 0 {
			f.MaxWickets = sb.Limits.MaxWickets
		}
		if sb.Limits.BallsPerOver > 0 {
			f.BallsPerOver = sb.Limits.BallsPerOver
		}
	}
	return f, nil
}

func (sb *Scorebook) team(id uint) scoring.TeamRef {
	for _, t := range sb.Teams {
		if t.ID == id {
			return t
		}
	}
	return scoring.TeamRef{ID: id}
}

// Replay runs the scorebook through a fresh engine.
func (sb *Scorebook) Replay() (*scoring.MatchEngine, error) {
	format, err := sb.format()
	if err != nil {
		return nil, err
	}
	m := scoring.New(format)
	for i, inn := range sb.Innings {
		lineup := scoring.Lineup{
			Striker:    inn.Striker.player(),
			NonStriker: inn.NonStriker.player(),
			Bowler:     inn.Bowler.player(),
		}
		if _, err := m.StartInnings(sb.team(inn.Batting), sb.team(inn.Bowling), lineup); err != nil {
			return nil, fmt.Errorf("innings %d: %w", i+1, err)
		}
		for j, ev := range inn.Events {
			if err := apply(m, ev); err != nil {
				return nil, fmt.Errorf("innings %d, event %d: %w", i+1, j+1, err)
			}
		}
	}
	return m, nil
}

func apply(m *scoring.MatchEngine, ev EventEntry) error {
	set := 0
	for _, ok := range []bool{ev.Ball != nil, ev.Batsman != nil, ev.Bowler != nil, ev.Undo} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return errors.New("event must hold exactly one of ball, batsman, bowler or undo")
	}

	var err error
	switch {
	case ev.Ball != nil:
		var d scoring.Delivery
		d, err = ev.Ball.delivery()
		if err == nil {
			_, err = m.RecordBall(d)
		}
	case ev.Batsman != nil:
		_, err = m.SetNewBatsman(ev.Batsman.player(), !ev.Batsman.OffStrike)
	case ev.Bowler != nil:
		_, err = m.SetNewBowler(ev.Bowler.player())
	default:
		_, err = m.UndoLastBall()
	}
	return err
}

func (b BallEntry) delivery() (scoring.Delivery, error) {
	d := scoring.Delivery{RunsOffBat: b.Runs, ExtraType: b.Extra, ExtraRuns: b.ExtraRuns}
	if b.Wicket == "" {
		return d, nil
	}
	dismissal, err := scoring.NewDismissal(scoring.DismissalKind(b.Wicket),
		scoring.PlayerID(b.Fielder), scoring.PlayerID(b.Out), b.Hurt)
	if err != nil {
		return d, err
	}
	d.Wicket = true
	d.Dismissal = dismissal
	return d, nil
}
