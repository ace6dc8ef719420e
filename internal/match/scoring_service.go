package match

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/DhavalSuthar-24/crease/internal/events"
	"github.com/DhavalSuthar-24/crease/internal/live"
	"github.com/DhavalSuthar-24/crease/internal/logger"
	"github.com/DhavalSuthar-24/crease/internal/models"
	"github.com/DhavalSuthar-24/crease/internal/scoring"
	"github.com/DhavalSuthar-24/crease/internal/session"
	"github.com/DhavalSuthar-24/crease/internal/team"
)

const (
	maxInnings = 2
	minSquad   = 2
	maxSquad   = 30
)

var (
	ErrMatchNotFound     = errors.New("match not found")
	ErrTeamNotFound      = errors.New("team not found")
	ErrUnknownFormat     = errors.New("unknown match format")
	ErrMatchFinished     = errors.New("match is already finished")
	ErrTeamNotInMatch    = errors.New("team does not play in this match")
	ErrPlayerNotInSquad  = errors.New("player is not in the squad")
	ErrSquadTooSmall     = errors.New("squad needs at least two players")
	ErrSquadOverlap      = errors.New("player cannot play for both teams")
	ErrInningsLimit      = errors.New("both innings have already been played")
	ErrInningsInProgress = errors.New("current innings is still in progress")
	ErrWrongBattingSide  = errors.New("the side that batted first must bowl the second innings")
)

// Publisher pushes a state update to spectators.
type Publisher interface {
	Publish(ctx context.Context, u live.Update) error
}

// ScoringService drives live matches: every call takes the match's session
// lock, runs the engine, stores the ball and snapshot in one transaction,
// then publishes the new state and any lifecycle events.
type ScoringService struct {
	repo     MatchRepository
	teams    team.TeamRepository
	sessions *session.Manager
	format   scoring.Format
	pub      Publisher
	broker   events.Broker
	log      *zap.Logger
}

// NewScoringService builds the service. pub and broker may be nil.
func NewScoringService(repo MatchRepository, teams team.TeamRepository, defaultFormat scoring.Format, pub Publisher, broker events.Broker, log *zap.Logger) *ScoringService {
	s := &ScoringService{
		repo:   repo,
		teams:  teams,
		format: defaultFormat.WithDefaults(),
		pub:    pub,
		broker: broker,
		log:    logger.OrNop(log).Named("scoring"),
	}
	s.sessions = session.NewManager(s, s.log)
	return s
}

// Sessions exposes the registry of loaded matches.
func (s *ScoringService) Sessions() *session.Manager {
	return s.sessions
}

// LoadSnapshot restores a match engine from its stored snapshot.
func (s *ScoringService) LoadSnapshot(_ context.Context, matchID uint) (*scoring.ExportedMatch, error) {
	snap, err := s.repo.GetSnapshot(matchID)
	if err != nil || snap == nil {
		return nil, err
	}
	exp := snap.Engine.Data
	return &exp, nil
}

// LatestUpdate rebuilds the last published state of a match from storage.
// It returns nil, nil if the match has never been scored.
func (s *ScoringService) LatestUpdate(_ context.Context, matchID uint) (*live.Update, error) {
	snap, err := s.repo.GetSnapshot(matchID)
	if err != nil || snap == nil {
		return nil, err
	}
	return &live.Update{
		Type:    live.UpdateState,
		MatchID: matchID,
		Version: snap.Version,
		State:   snap.State.Data,
	}, nil
}

// --- Match lifecycle ---

// CreateMatch registers a pending match between two teams. Squads default to
// each team's active members.
func (s *ScoringService) CreateMatch(_ context.Context, userID uint, req CreateMatchRequest) (*Match, error) {
	format, name, err := s.resolveFormat(req)
	if err != nil {
		return nil, err
	}

	teamA, err := s.loadTeam(req.TeamAID)
	if err != nil {
		return nil, err
	}
	teamB, err := s.loadTeam(req.TeamBID)
	if err != nil {
		return nil, err
	}
	squadA, err := s.buildSquad(teamA, req.TeamAPlayers)
	if err != nil {
		return nil, err
	}
	squadB, err := s.buildSquad(teamB, req.TeamBPlayers)
	if err != nil {
		return nil, err
	}
	for _, p := range squadA.Players {
		if squadB.Player(p.UserID) != nil {
			return nil, fmt.Errorf("%w: user %d", ErrSquadOverlap, p.UserID)
		}
	}
	squadA.IsHomeTeam = true

	match := &Match{
		CreatedByUserID: userID,
		TeamAID:         teamA.ID,
		TeamBID:         teamB.ID,
		LocationText:    req.LocationText,
		ScheduledAt:     req.ScheduledAt,
		FormatName:      name,
		MaxOvers:        format.MaxOvers,
		MaxWickets:      format.MaxWickets,
		BallsPerOver:    format.BallsPerOver,
		Status:          StatusMatchPending,
		MatchTeams:      []MatchTeam{*squadA, *squadB},
	}
	if err := s.repo.CreateMatch(match); err != nil {
		return nil, err
	}
	match.TeamA, match.TeamB = *teamA, *teamB

	s.log.Info("match created",
		zap.Uint("match_id", match.ID),
		zap.Uint("team_a", teamA.ID),
		zap.Uint("team_b", teamB.ID),
		zap.Int("max_overs", format.MaxOvers),
	)
	return match, nil
}

func (s *ScoringService) resolveFormat(req CreateMatchRequest) (scoring.Format, string, error) {
	format := s.format
	name := ""
	if req.Format != "" {
		preset, ok := scoring.FormatByName(req.Format)
		if !ok {
			return scoring.Format{}, "", fmt.Errorf("%w: %q", ErrUnknownFormat, req.Format)
		}
		format = preset
		name = strings.ToLower(req.Format)
	}
	if req.MaxOvers > 0 {
		format.MaxOvers = req.MaxOvers
	}
	if req.MaxWickets > 0 {
		format.MaxWickets = req.MaxWickets
	}
	if req.BallsPerOver > 0 {
		format.BallsPerOver = req.BallsPerOver
	}
	return format.WithDefaults(), name, nil
}

func (s *ScoringService) loadTeam(id uint) (*team.Team, error) {
	t, err := s.teams.GetTeamByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: %d", ErrTeamNotFound, id)
	}
	return t, nil
}

func (s *ScoringService) buildSquad(t *team.Team, userIDs []uint) (*MatchTeam, error) {
	members, _, err := s.teams.GetTeamMembers(t.ID, 1, maxSquad)
	if err != nil {
		return nil, err
	}
	byUser := make(map[uint]team.TeamMember, len(members))
	for _, m := range members {
		byUser[m.UserID] = m
	}
	if len(userIDs) == 0 {
		for _, m := range members {
			userIDs = append(userIDs, m.UserID)
		}
	}

	squad := &MatchTeam{TeamID: t.ID, TeamName: t.Name}
	for i, id := range userIDs {
		member, ok := byUser[id]
		if !ok {
			return nil, fmt.Errorf("%w: user %d is not a member of %s", ErrPlayerNotInSquad, id, t.Name)
		}
		if squad.Player(id) != nil {
			continue
		}
		name := member.DisplayName
		if name == "" {
			name = fmt.Sprintf("Player %d", id)
		}
		order := i + 1
		squad.Players = append(squad.Players, MatchPlayer{
			UserID:       id,
			DisplayName:  name,
			Role:         member.Role,
			BattingOrder: &order,
		})
	}
	if len(squad.Players) < minSquad {
		return nil, fmt.Errorf("%w: %s has %d", ErrSquadTooSmall, t.Name, len(squad.Players))
	}
	return squad, nil
}

func (s *ScoringService) GetMatch(_ context.Context, matchID uint) (*Match, error) {
	m, err := s.repo.GetMatchByID(matchID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMatchNotFound
	}
	return m, nil
}

func (s *ScoringService) ListMatches(_ context.Context, status MatchStatus, teamID uint, page, pageSize int) ([]Match, int64, error) {
	return s.repo.GetMatches(status, teamID, page, pageSize)
}

// scorable loads a match that still accepts scoring.
func (s *ScoringService) scorable(ctx context.Context, matchID uint) (*Match, error) {
	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := acceptsScoring(m); err != nil {
		return nil, err
	}
	return m, nil
}

func acceptsScoring(m *Match) error {
	if m.Status.Finished() {
		return ErrMatchFinished
	}
	return nil
}

func notAbandoned(m *Match) error {
	if m.Status == StatusMatchAbandoned {
		return ErrMatchFinished
	}
	return nil
}

// session returns the loaded engine of m, opening a fresh one for a match
// that has never been scored.
func (s *ScoringService) session(ctx context.Context, m *Match) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, m.ID)
	if err == nil || !errors.Is(err, session.ErrSessionNotFound) {
		return sess, err
	}
	sess, err = s.sessions.Open(m.ID, m.Format())
	if errors.Is(err, session.ErrSessionExists) {
		return s.sessions.Get(ctx, m.ID)
	}
	return sess, err
}

// apply runs fn under the session lock inside a transaction and stores the
// resulting snapshot with it. m is reloaded under the lock and checked by
// guard before fn runs. The engine is rolled back if anything fails.
func (s *ScoringService) apply(ctx context.Context, m *Match, guard func(*Match) error, fn func(*scoring.MatchEngine, MatchRepository) error) (*MatchSnapshot, error) {
	sess, err := s.session(ctx, m)
	if err != nil {
		return nil, err
	}
	var snap *MatchSnapshot
	err = sess.Apply(func(e *scoring.MatchEngine) error {
		return s.repo.WithTransaction(func(tx MatchRepository) error {
			cur, err := tx.GetMatchByID(m.ID)
			if err != nil {
				return err
			}
			if cur == nil {
				return ErrMatchNotFound
			}
			*m = *cur
			if err := guard(m); err != nil {
				return err
			}
			if err := fn(e, tx); err != nil {
				return err
			}
			snap = &MatchSnapshot{
				MatchID: m.ID,
				Engine:  models.NewJSON(e.Export()),
				State:   models.NewJSON(e.CurrentState()),
			}
			return tx.SaveSnapshot(snap)
		})
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// --- Scoring operations ---

// StartInnings opens the first or second innings. The second innings must be
// batted by the side that bowled the first.
func (s *ScoringService) StartInnings(ctx context.Context, matchID uint, req StartInningsRequest) (scoring.DerivedState, error) {
	m, err := s.scorable(ctx, matchID)
	if err != nil {
		return scoring.DerivedState{}, err
	}
	if !m.HasTeam(req.BattingTeamID) || !m.HasTeam(req.BowlingTeamID) || req.BattingTeamID == req.BowlingTeamID {
		return scoring.DerivedState{}, ErrTeamNotInMatch
	}
	batting, bowling := m.Squad(req.BattingTeamID), m.Squad(req.BowlingTeamID)
	striker, err := squadPlayer(batting, req.StrikerID)
	if err != nil {
		return scoring.DerivedState{}, err
	}
	nonStriker, err := squadPlayer(batting, req.NonStrikerID)
	if err != nil {
		return scoring.DerivedState{}, err
	}
	bowler, err := squadPlayer(bowling, req.BowlerID)
	if err != nil {
		return scoring.DerivedState{}, err
	}

	var st scoring.DerivedState
	snap, err := s.apply(ctx, m, acceptsScoring, func(e *scoring.MatchEngine, tx MatchRepository) error {
		switch n := e.InningsCount(); {
		case n >= maxInnings:
			return ErrInningsLimit
		case n > 0:
			cur := e.CurrentState()
			if !cur.IsInningsComplete {
				return ErrInningsInProgress
			}
			if cur.BattingTeam != nil && cur.BattingTeam.ID == req.BattingTeamID {
				return ErrWrongBattingSide
			}
		}

		var err error
		st, err = e.StartInnings(batting.TeamRef(), bowling.TeamRef(), scoring.Lineup{
			Striker:    striker,
			NonStriker: nonStriker,
			Bowler:     bowler,
		})
		if err != nil {
			return err
		}
		if m.Status == StatusMatchPending {
			now := time.Now()
			m.Status = StatusMatchLive
			m.StartedAt = &now
			return tx.UpdateMatch(m)
		}
		return nil
	})
	if err != nil {
		return scoring.DerivedState{}, err
	}

	s.log.Info("innings started",
		zap.Uint("match_id", m.ID),
		zap.Int("innings", st.InningsNumber),
		zap.Uint("batting_team", req.BattingTeamID),
	)
	s.publish(ctx, live.Update{Type: live.UpdateState, MatchID: m.ID, Version: snap.Version, State: st})
	return st, nil
}

// RecordBall scores one delivery.
func (s *ScoringService) RecordBall(ctx context.Context, matchID uint, req RecordBallRequest) (*scoring.BallResult, error) {
	m, err := s.scorable(ctx, matchID)
	if err != nil {
		return nil, err
	}

	var res *scoring.BallResult
	snap, err := s.apply(ctx, m, acceptsScoring, func(e *scoring.MatchEngine, tx MatchRepository) error {
		d, err := buildDelivery(m, e.CurrentState(), req)
		if err != nil {
			return err
		}
		res, err = e.RecordBall(d)
		if err != nil {
			return err
		}
		row := NewBallDelivery(m.ID, res.State, res.Ball)
		if err := tx.SaveDelivery(&row); err != nil {
			return err
		}
		if res.State.IsMatchComplete && res.State.Result != nil {
			settle(m, res.State.Result)
			return tx.UpdateMatch(m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	st := res.State
	kind := live.UpdateBall
	if st.IsMatchComplete {
		kind = live.UpdateMatchComplete
	}
	ball := res.Ball
	s.publish(ctx, live.Update{Type: kind, MatchID: m.ID, Version: snap.Version, State: st, Ball: &ball})

	if st.IsInningsComplete {
		s.log.Info("innings completed",
			zap.Uint("match_id", m.ID),
			zap.Int("innings", st.InningsNumber),
			zap.String("reason", string(st.EndReason)),
			zap.String("score", st.Score),
		)
		s.emit(ctx, events.InningsCompleted, m.ID, st.InningsNumber, snap.Engine.Data)
	}
	if st.IsMatchComplete {
		s.log.Info("match completed", zap.Uint("match_id", m.ID), zap.String("result", m.ResultSummary))
		s.emit(ctx, events.MatchCompleted, m.ID, 0, snap.Engine.Data)
	}
	return res, nil
}

func buildDelivery(m *Match, st scoring.DerivedState, req RecordBallRequest) (scoring.Delivery, error) {
	d := scoring.Delivery{
		RunsOffBat: req.RunsOffBat,
		ExtraType:  req.ExtraType,
		ExtraRuns:  req.ExtraRuns,
		Wicket:     req.IsWicket,
	}
	if !req.IsWicket {
		if req.DismissalKind != "" {
			return d, fmt.Errorf("%w: dismissal given without a wicket", scoring.ErrInvalidDelivery)
		}
		return d, nil
	}
	if req.DismissalKind == "" {
		return d, nil
	}
	if st.BowlingTeam == nil {
		return d, scoring.ErrNoActiveInnings
	}

	var fielder, batsman scoring.PlayerID
	if req.FielderID != 0 {
		p, err := squadPlayer(m.Squad(st.BowlingTeam.ID), req.FielderID)
		if err != nil {
			return d, err
		}
		fielder = p.ID
	}
	if req.PlayerOutID != 0 {
		batsman = PlayerID(req.PlayerOutID)
		atCrease := (st.Striker != nil && st.Striker.ID == batsman) || (st.NonStriker != nil && st.NonStriker.ID == batsman)
		if !atCrease {
			return d, fmt.Errorf("%w: player %d is not at the crease", scoring.ErrInvalidDelivery, req.PlayerOutID)
		}
	}
	dismissal, err := scoring.NewDismissal(req.DismissalKind, fielder, batsman, req.RetiredHurt)
	if err != nil {
		return d, err
	}
	d.Dismissal = dismissal
	return d, nil
}

// UndoLastBall removes the latest delivery of the current innings. Undoing
// the ball that completed the match reopens it.
func (s *ScoringService) UndoLastBall(ctx context.Context, matchID uint) (scoring.DerivedState, error) {
	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return scoring.DerivedState{}, err
	}
	if err := notAbandoned(m); err != nil {
		return scoring.DerivedState{}, err
	}

	var (
		st     scoring.DerivedState
		undone scoring.BallRecord
	)
	snap, err := s.apply(ctx, m, notAbandoned, func(e *scoring.MatchEngine, tx MatchRepository) error {
		innings := e.CurrentState().InningsNumber
		last, ok := e.LastBall()
		var err error
		st, err = e.UndoLastBall()
		if err != nil {
			return err
		}
		if ok {
			undone = last
			if err := tx.DeleteDelivery(m.ID, innings, last.Sequence); err != nil {
				return err
			}
		}
		if m.Status == StatusMatchCompleted && !st.IsMatchComplete {
			reopen(m)
			return tx.UpdateMatch(m)
		}
		return nil
	})
	if err != nil {
		return scoring.DerivedState{}, err
	}

	s.log.Info("ball undone",
		zap.Uint("match_id", m.ID),
		zap.Int("innings", st.InningsNumber),
		zap.Int("sequence", undone.Sequence),
	)
	s.publish(ctx, live.Update{Type: live.UpdateUndo, MatchID: m.ID, Version: snap.Version, State: st, Ball: &undone})
	return st, nil
}

// SetNewBatsman fills an empty crease slot from the batting squad. onStrike
// defaults to true.
func (s *ScoringService) SetNewBatsman(ctx context.Context, matchID uint, req SetBatsmanRequest) (scoring.DerivedState, error) {
	m, err := s.scorable(ctx, matchID)
	if err != nil {
		return scoring.DerivedState{}, err
	}
	onStrike := true
	if req.OnStrike != nil {
		onStrike = *req.OnStrike
	}

	var st scoring.DerivedState
	snap, err := s.apply(ctx, m, acceptsScoring, func(e *scoring.MatchEngine, _ MatchRepository) error {
		cur := e.CurrentState()
		if cur.BattingTeam == nil {
			return scoring.ErrNoActiveInnings
		}
		p, err := squadPlayer(m.Squad(cur.BattingTeam.ID), req.PlayerID)
		if err != nil {
			return err
		}
		st, err = e.SetNewBatsman(p, onStrike)
		return err
	})
	if err != nil {
		return scoring.DerivedState{}, err
	}
	s.publish(ctx, live.Update{Type: live.UpdateState, MatchID: m.ID, Version: snap.Version, State: st})
	return st, nil
}

// SetNewBowler assigns the next over to a member of the bowling squad.
func (s *ScoringService) SetNewBowler(ctx context.Context, matchID uint, req SetBowlerRequest) (scoring.DerivedState, error) {
	m, err := s.scorable(ctx, matchID)
	if err != nil {
		return scoring.DerivedState{}, err
	}

	var st scoring.DerivedState
	snap, err := s.apply(ctx, m, acceptsScoring, func(e *scoring.MatchEngine, _ MatchRepository) error {
		cur := e.CurrentState()
		if cur.BowlingTeam == nil {
			return scoring.ErrNoActiveInnings
		}
		p, err := squadPlayer(m.Squad(cur.BowlingTeam.ID), req.PlayerID)
		if err != nil {
			return err
		}
		st, err = e.SetNewBowler(p)
		return err
	})
	if err != nil {
		return scoring.DerivedState{}, err
	}
	s.publish(ctx, live.Update{Type: live.UpdateState, MatchID: m.ID, Version: snap.Version, State: st})
	return st, nil
}

// EndMatch settles the match now. A match with fewer than two innings is
// abandoned. Ending a finished match returns its stored result.
func (s *ScoringService) EndMatch(ctx context.Context, matchID uint) (*scoring.MatchResult, error) {
	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.Status.Finished() {
		return s.storedResult(m)
	}

	var (
		res *scoring.MatchResult
		st  scoring.DerivedState
	)
	snap, err := s.apply(ctx, m, acceptsScoring, func(e *scoring.MatchEngine, tx MatchRepository) error {
		res = e.CompleteMatch()
		st = e.CurrentState()
		settle(m, res)
		return tx.UpdateMatch(m)
	})
	if errors.Is(err, ErrMatchFinished) {
		// settled by another request while this one waited for the lock
		return s.storedResult(m)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("match ended",
		zap.Uint("match_id", m.ID),
		zap.String("status", string(m.Status)),
		zap.String("result", res.Message),
	)
	s.publish(ctx, live.Update{Type: live.UpdateMatchComplete, MatchID: m.ID, Version: snap.Version, State: st})
	s.emit(ctx, events.MatchCompleted, m.ID, 0, snap.Engine.Data)
	if m.Status == StatusMatchAbandoned {
		s.sessions.Dispose(m.ID)
	}
	return res, nil
}

func (s *ScoringService) storedResult(m *Match) (*scoring.MatchResult, error) {
	snap, err := s.repo.GetSnapshot(m.ID)
	if err != nil {
		return nil, err
	}
	if snap != nil && snap.Engine.Data.Result != nil {
		return snap.Engine.Data.Result, nil
	}
	return &scoring.MatchResult{Type: scoring.ResultType(m.ResultType), Message: m.ResultSummary}, nil
}

// --- Read side ---

// State returns the latest state of a match. A match that has not started
// reports the empty projection with version 0.
func (s *ScoringService) State(ctx context.Context, matchID uint) (*live.Update, error) {
	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	u, err := s.LatestUpdate(ctx, matchID)
	if err != nil || u != nil {
		return u, err
	}
	return &live.Update{
		Type:    live.UpdateState,
		MatchID: matchID,
		State:   scoring.New(m.Format()).CurrentState(),
	}, nil
}

// Balls returns the stored ball log.
func (s *ScoringService) Balls(ctx context.Context, matchID uint) ([]BallDelivery, error) {
	if _, err := s.GetMatch(ctx, matchID); err != nil {
		return nil, err
	}
	return s.repo.GetDeliveries(matchID)
}

// Scorecard renders the plain-text scorecard of a match to w.
func (s *ScoringService) Scorecard(ctx context.Context, matchID uint, w io.Writer) error {
	if _, err := s.GetMatch(ctx, matchID); err != nil {
		return err
	}
	exp, err := s.LoadSnapshot(ctx, matchID)
	if err != nil {
		return err
	}
	if exp == nil {
		exp = &scoring.ExportedMatch{}
	}
	return scoring.RenderScorecard(w, *exp)
}

// --- helpers ---

func (s *ScoringService) publish(ctx context.Context, u live.Update) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, u); err != nil {
		s.log.Warn("state publish failed",
			zap.Uint("match_id", u.MatchID),
			zap.Uint64("version", u.Version),
			zap.Error(err),
		)
	}
}

func (s *ScoringService) emit(ctx context.Context, t events.Type, matchID uint, inningsNumber int, exp scoring.ExportedMatch) {
	if s.broker == nil {
		return
	}
	e := events.NewEvent(t, matchID, inningsNumber, matchPlayers(exp, inningsNumber))
	if err := s.broker.Publish(ctx, e); err != nil {
		s.log.Warn("event publish failed",
			zap.String("type", string(t)),
			zap.Uint("match_id", matchID),
			zap.Error(err),
		)
	}
}

// matchPlayers lists every player who batted, bowled or fielded in the given
// innings, or in the whole match when inningsNumber is 0.
func matchPlayers(exp scoring.ExportedMatch, inningsNumber int) []string {
	seen := make(map[scoring.PlayerID]bool)
	var out []string
	add := func(id scoring.PlayerID) {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, string(id))
		}
	}
	for _, inn := range exp.Innings {
		if inn == nil || (inningsNumber != 0 && inn.Number != inningsNumber) {
			continue
		}
		for _, id := range inn.BattingOrder {
			add(id)
		}
		for _, id := range inn.BowlingOrder {
			add(id)
		}
		for _, b := range inn.BallLog {
			if b.Dismissal == nil {
				continue
			}
			switch d := b.Dismissal.Dismissal.(type) {
			case scoring.Caught:
				add(d.Fielder)
			case scoring.RunOut:
				add(d.Fielder)
			case scoring.Stumped:
				add(d.Keeper)
			}
		}
	}
	return out
}

func squadPlayer(squad *MatchTeam, userID uint) (scoring.Player, error) {
	if squad == nil {
		return scoring.Player{}, ErrTeamNotInMatch
	}
	p := squad.Player(userID)
	if p == nil {
		return scoring.Player{}, fmt.Errorf("%w: user %d is not in the %s squad", ErrPlayerNotInSquad, userID, squad.TeamName)
	}
	return p.EnginePlayer(), nil
}

func settle(m *Match, res *scoring.MatchResult) {
	now := time.Now()
	m.CompletedAt = &now
	m.ResultType = string(res.Type)
	m.ResultSummary = res.Message
	m.WinningTeamID = nil
	if res.Winner != nil {
		id := res.Winner.ID
		m.WinningTeamID = &id
	}
	m.Status = StatusMatchCompleted
	if res.Type == scoring.ResultIncomplete {
		m.Status = StatusMatchAbandoned
	}
}

func reopen(m *Match) {
	m.Status = StatusMatchLive
	m.CompletedAt = nil
	m.ResultType = ""
	m.ResultSummary = ""
	m.WinningTeamID = nil
}
