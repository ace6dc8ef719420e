package match

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/crease/internal/events"
	"github.com/DhavalSuthar-24/crease/internal/live"
	"github.com/DhavalSuthar-24/crease/internal/scoring"
	"github.com/DhavalSuthar-24/crease/internal/team"
	"github.com/DhavalSuthar-24/crease/internal/testutil"
	"github.com/DhavalSuthar-24/crease/internal/user"
)

type recordingPublisher struct {
	mu      sync.Mutex
	updates []live.Update
}

func (p *recordingPublisher) Publish(_ context.Context, u live.Update) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, u)
	return nil
}

func (p *recordingPublisher) all() []live.Update {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]live.Update(nil), p.updates...)
}

func (p *recordingPublisher) last() live.Update {
	all := p.all()
	return all[len(all)-1]
}

type serviceFixture struct {
	db     *gorm.DB
	repo   *GormMatchRepository
	teams  team.TeamRepository
	svc    *ScoringService
	pub    *recordingPublisher
	broker *events.InMemoryBroker

	scorer         user.User
	lions, tigers  team.Team
	lionsP, tigerP []uint
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db := testutil.NewDB(t,
		&user.User{}, &user.Role{}, &user.UserRole{},
		&team.Team{}, &team.TeamMember{},
		&Match{}, &MatchTeam{}, &MatchPlayer{}, &BallDelivery{}, &MatchSnapshot{},
	)
	f := &serviceFixture{
		db:     db,
		repo:   NewGormMatchRepository(db),
		teams:  team.NewTeamRepository(db),
		pub:    &recordingPublisher{},
		broker: events.NewInMemoryBroker(nil),
	}
	t.Cleanup(func() { f.broker.Close() })
	f.svc = NewScoringService(f.repo, f.teams, scoring.DefaultFormat(), f.pub, f.broker, nil)

	f.scorer = f.newUser(t, "scorer")
	f.lions, f.lionsP = f.newTeam(t, "Lions", "lion")
	f.tigers, f.tigerP = f.newTeam(t, "Tigers", "tiger")
	return f
}

func (f *serviceFixture) newUser(t *testing.T, name string) user.User {
	t.Helper()
	u := user.User{Name: name, Username: name, Email: name + "@example.com"}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

func (f *serviceFixture) newTeam(t *testing.T, name, prefix string) (team.Team, []uint) {
	t.Helper()
	tm := team.Team{Name: name, CreatedByID: f.scorer.ID}
	require.NoError(t, f.teams.CreateTeam(&tm))
	var ids []uint
	for i := 1; i <= 4; i++ {
		u := f.newUser(t, fmt.Sprintf("%s%d", prefix, i))
		require.NoError(t, f.teams.AddTeamMember(&team.TeamMember{
			TeamID:      tm.ID,
			UserID:      u.ID,
			DisplayName: fmt.Sprintf("%s %d", strings.TrimSuffix(name, "s"), i),
			Role:        team.RolePlayer,
			IsActive:    true,
			JoinedAt:    time.Now(),
		}))
		ids = append(ids, u.ID)
	}
	return tm, ids
}

func (f *serviceFixture) createMatch(t *testing.T, overs int) *Match {
	t.Helper()
	m, err := f.svc.CreateMatch(context.Background(), f.scorer.ID, CreateMatchRequest{
		TeamAID:  f.lions.ID,
		TeamBID:  f.tigers.ID,
		MaxOvers: overs,
	})
	require.NoError(t, err)
	return m
}

func (f *serviceFixture) startFirst(t *testing.T, m *Match) scoring.DerivedState {
	t.Helper()
	st, err := f.svc.StartInnings(context.Background(), m.ID, StartInningsRequest{
		BattingTeamID: f.lions.ID,
		BowlingTeamID: f.tigers.ID,
		StrikerID:     f.lionsP[0],
		NonStrikerID:  f.lionsP[1],
		BowlerID:      f.tigerP[0],
	})
	require.NoError(t, err)
	return st
}

func (f *serviceFixture) ball(t *testing.T, m *Match, req RecordBallRequest) *scoring.BallResult {
	t.Helper()
	res, err := f.svc.RecordBall(context.Background(), m.ID, req)
	require.NoError(t, err)
	return res
}

func (f *serviceFixture) runs(t *testing.T, m *Match, runs ...int) {
	t.Helper()
	for _, r := range runs {
		f.ball(t, m, RecordBallRequest{RunsOffBat: r})
	}
}

func receive(t *testing.T, ch <-chan events.Event) events.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return events.Event{}
	}
}

func TestCreateMatch_SquadsAndFormat(t *testing.T) {
	f := newServiceFixture(t)

	m, err := f.svc.CreateMatch(context.Background(), f.scorer.ID, CreateMatchRequest{
		TeamAID: f.lions.ID,
		TeamBID: f.tigers.ID,
		Format:  "T10",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusMatchPending, m.Status)
	assert.Equal(t, "t10", m.FormatName)
	assert.Equal(t, scoring.Format{MaxOvers: 10, MaxWickets: 10, BallsPerOver: 6}, m.Format())

	stored, err := f.svc.GetMatch(context.Background(), m.ID)
	require.NoError(t, err)
	require.Len(t, stored.MatchTeams, 2)
	lions := stored.Squad(f.lions.ID)
	require.NotNil(t, lions)
	assert.Len(t, lions.Players, 4)
	assert.True(t, lions.IsHomeTeam)
	assert.Equal(t, "Lions", stored.TeamA.Name)

	p := lions.Player(f.lionsP[2])
	require.NotNil(t, p)
	assert.Equal(t, "Lion 3", p.DisplayName)
	assert.Equal(t, PlayerID(f.lionsP[2]), p.EnginePlayer().ID)
}

func TestCreateMatch_ExplicitSquadAndOverrides(t *testing.T) {
	f := newServiceFixture(t)

	m, err := f.svc.CreateMatch(context.Background(), f.scorer.ID, CreateMatchRequest{
		TeamAID:      f.lions.ID,
		TeamBID:      f.tigers.ID,
		Format:       "odi",
		MaxOvers:     5,
		TeamAPlayers: f.lionsP[:2],
	})
	require.NoError(t, err)
	assert.Equal(t, 5, m.MaxOvers)
	assert.Len(t, m.Squad(f.lions.ID).Players, 2)
	assert.Len(t, m.Squad(f.tigers.ID).Players, 4)
}

func TestCreateMatch_Errors(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateMatch(ctx, f.scorer.ID, CreateMatchRequest{TeamAID: f.lions.ID, TeamBID: 999})
	assert.ErrorIs(t, err, ErrTeamNotFound)

	_, err = f.svc.CreateMatch(ctx, f.scorer.ID, CreateMatchRequest{
		TeamAID: f.lions.ID, TeamBID: f.tigers.ID, TeamAPlayers: []uint{f.lionsP[0], f.tigerP[0]},
	})
	assert.ErrorIs(t, err, ErrPlayerNotInSquad)

	_, err = f.svc.CreateMatch(ctx, f.scorer.ID, CreateMatchRequest{
		TeamAID: f.lions.ID, TeamBID: f.tigers.ID, TeamAPlayers: []uint{f.lionsP[0]},
	})
	assert.ErrorIs(t, err, ErrSquadTooSmall)

	// a player registered with both teams
	require.NoError(t, f.teams.AddTeamMember(&team.TeamMember{TeamID: f.tigers.ID, UserID: f.lionsP[3], IsActive: true}))
	_, err = f.svc.CreateMatch(ctx, f.scorer.ID, CreateMatchRequest{TeamAID: f.lions.ID, TeamBID: f.tigers.ID})
	assert.ErrorIs(t, err, ErrSquadOverlap)

	_, err = f.svc.CreateMatch(ctx, f.scorer.ID, CreateMatchRequest{TeamAID: f.lions.ID, TeamBID: f.tigers.ID, Format: "test"})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestStartInnings_Validation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	m := f.createMatch(t, 2)

	_, err := f.svc.StartInnings(ctx, m.ID, StartInningsRequest{
		BattingTeamID: f.lions.ID, BowlingTeamID: 999,
		StrikerID: f.lionsP[0], NonStrikerID: f.lionsP[1], BowlerID: f.tigerP[0],
	})
	assert.ErrorIs(t, err, ErrTeamNotInMatch)

	_, err = f.svc.StartInnings(ctx, m.ID, StartInningsRequest{
		BattingTeamID: f.lions.ID, BowlingTeamID: f.tigers.ID,
		StrikerID: f.lionsP[0], NonStrikerID: f.tigerP[1], BowlerID: f.tigerP[0],
	})
	assert.ErrorIs(t, err, ErrPlayerNotInSquad)

	_, err = f.svc.StartInnings(ctx, 999, StartInningsRequest{})
	assert.ErrorIs(t, err, ErrMatchNotFound)

	st := f.startFirst(t, m)
	assert.Equal(t, 1, st.InningsNumber)
	assert.Equal(t, "Lion 1", st.Striker.Name)

	stored, err := f.svc.GetMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusMatchLive, stored.Status)
	assert.NotNil(t, stored.StartedAt)

	_, err = f.svc.StartInnings(ctx, m.ID, StartInningsRequest{
		BattingTeamID: f.tigers.ID, BowlingTeamID: f.lions.ID,
		StrikerID: f.tigerP[0], NonStrikerID: f.tigerP[1], BowlerID: f.lionsP[0],
	})
	assert.ErrorIs(t, err, ErrInningsInProgress)
}

func TestScoringService_FullMatch(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	inningsDone, err := f.broker.Consume(events.InningsCompleted)
	require.NoError(t, err)
	matchDone, err := f.broker.Consume(events.MatchCompleted)
	require.NoError(t, err)

	m := f.createMatch(t, 1)
	f.startFirst(t, m)
	f.runs(t, m, 4, 1, 0, 2, 6, 0)

	st, err := f.svc.State(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 13, st.State.Runs)
	assert.True(t, st.State.IsInningsComplete)
	assert.Equal(t, scoring.EndOversComplete, st.State.EndReason)
	assert.Equal(t, scoring.ActionStartSecondInnings, st.State.RequiredActions[0].Type)

	e := receive(t, inningsDone)
	assert.Equal(t, m.ID, e.MatchID)
	assert.Equal(t, 1, e.InningsNumber)
	assert.ElementsMatch(t, []string{
		string(PlayerID(f.lionsP[0])), string(PlayerID(f.lionsP[1])), string(PlayerID(f.tigerP[0])),
	}, e.Players)

	_, err = f.svc.SetNewBowler(ctx, m.ID, SetBowlerRequest{PlayerID: f.tigerP[1]})
	assert.ErrorIs(t, err, scoring.ErrInningsComplete)

	_, err = f.svc.StartInnings(ctx, m.ID, StartInningsRequest{
		BattingTeamID: f.lions.ID, BowlingTeamID: f.tigers.ID,
		StrikerID: f.lionsP[2], NonStrikerID: f.lionsP[3], BowlerID: f.tigerP[1],
	})
	assert.ErrorIs(t, err, ErrWrongBattingSide)

	second, err := f.svc.StartInnings(ctx, m.ID, StartInningsRequest{
		BattingTeamID: f.tigers.ID, BowlingTeamID: f.lions.ID,
		StrikerID: f.tigerP[0], NonStrikerID: f.tigerP[1], BowlerID: f.lionsP[0],
	})
	require.NoError(t, err)
	require.NotNil(t, second.Target)
	assert.Equal(t, 14, *second.Target)

	f.runs(t, m, 6, 6)
	res := f.ball(t, m, RecordBallRequest{RunsOffBat: 2})
	assert.True(t, res.State.IsMatchComplete)
	assert.Equal(t, scoring.EndTargetAchieved, res.State.EndReason)

	stored, err := f.svc.GetMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusMatchCompleted, stored.Status)
	require.NotNil(t, stored.WinningTeamID)
	assert.Equal(t, f.tigers.ID, *stored.WinningTeamID)
	assert.Equal(t, "Tigers won by 10 wickets", stored.ResultSummary)
	assert.Equal(t, string(scoring.ResultWin), stored.ResultType)

	assert.Equal(t, 2, receive(t, inningsDone).InningsNumber)
	assert.Equal(t, m.ID, receive(t, matchDone).MatchID)

	balls, err := f.svc.Balls(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, balls, 9)
	assert.Equal(t, 1, balls[0].InningsNumber)
	assert.Equal(t, 1, balls[0].Sequence)
	assert.Equal(t, "4", balls[0].Glyph)
	assert.Equal(t, 2, balls[8].InningsNumber)
	assert.Equal(t, 3, balls[8].Sequence)
	assert.Equal(t, f.tigers.ID, balls[8].BattingTeamID)

	updates := f.pub.all()
	require.Len(t, updates, 11)
	for i := 1; i < len(updates); i++ {
		assert.Greater(t, updates[i].Version, updates[i-1].Version)
	}
	assert.Equal(t, live.UpdateMatchComplete, f.pub.last().Type)

	_, err = f.svc.RecordBall(ctx, m.ID, RecordBallRequest{RunsOffBat: 1})
	assert.ErrorIs(t, err, ErrMatchFinished)

	again, err := f.svc.EndMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tigers won by 10 wickets", again.Message)
}

func TestUndoLastBall_ReopensCompletedMatch(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	m := f.createMatch(t, 1)
	f.startFirst(t, m)
	f.runs(t, m, 1, 1, 1, 1, 1, 1)
	_, err := f.svc.StartInnings(ctx, m.ID, StartInningsRequest{
		BattingTeamID: f.tigers.ID, BowlingTeamID: f.lions.ID,
		StrikerID: f.tigerP[0], NonStrikerID: f.tigerP[1], BowlerID: f.lionsP[0],
	})
	require.NoError(t, err)
	res := f.ball(t, m, RecordBallRequest{RunsOffBat: 6})
	require.False(t, res.State.IsMatchComplete)
	res = f.ball(t, m, RecordBallRequest{RunsOffBat: 1})
	require.True(t, res.State.IsMatchComplete)

	st, err := f.svc.UndoLastBall(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, st.IsMatchComplete)
	assert.Equal(t, 6, st.Runs)
	assert.Equal(t, live.UpdateUndo, f.pub.last().Type)
	assert.Equal(t, 2, f.pub.last().Ball.Sequence)

	stored, err := f.svc.GetMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusMatchLive, stored.Status)
	assert.Nil(t, stored.WinningTeamID)
	assert.Empty(t, stored.ResultSummary)

	balls, err := f.svc.Balls(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, balls, 7)

	// the undone sequence can be scored again
	res = f.ball(t, m, RecordBallRequest{RunsOffBat: 2})
	assert.True(t, res.State.IsMatchComplete)
	assert.Equal(t, 2, res.Ball.Sequence)
}

func (f *serviceFixture) startSecond(t *testing.T, svc *ScoringService, m *Match) {
	t.Helper()
	_, err := svc.StartInnings(context.Background(), m.ID, StartInningsRequest{
		BattingTeamID: f.tigers.ID, BowlingTeamID: f.lions.ID,
		StrikerID: f.tigerP[0], NonStrikerID: f.tigerP[1], BowlerID: f.lionsP[0],
	})
	require.NoError(t, err)
}

func TestUndoLastBall_SettledMatchKeepsResult(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	m := f.createMatch(t, 1)
	f.startFirst(t, m)
	f.runs(t, m, 1, 1, 1, 1, 1, 1)
	f.startSecond(t, f.svc, m)
	f.runs(t, m, 4)

	res, err := f.svc.EndMatch(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, "Lions won by 2 runs", res.Message)

	_, err = f.svc.UndoLastBall(ctx, m.ID)
	assert.ErrorIs(t, err, scoring.ErrMatchSettled)
	assert.Equal(t, http.StatusConflict, statusFor(err))

	stored, err := f.svc.GetMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusMatchCompleted, stored.Status)
	assert.Equal(t, "Lions won by 2 runs", stored.ResultSummary)

	balls, err := f.svc.Balls(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, balls, 7)
}

// staleRepo answers reads outside a transaction with a row captured before
// another writer changed the match.
type staleRepo struct {
	*GormMatchRepository
	row Match
}

func (r *staleRepo) GetMatchByID(uint) (*Match, error) {
	row := r.row
	return &row, nil
}

func TestScoring_ReloadsMatchUnderSessionLock(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	m := f.createMatch(t, 1)
	f.startFirst(t, m)
	f.runs(t, m, 1, 1, 1, 1, 1, 1)
	f.startSecond(t, f.svc, m)
	f.runs(t, m, 6)

	before, err := f.svc.GetMatch(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, StatusMatchLive, before.Status)
	res := f.ball(t, m, RecordBallRequest{RunsOffBat: 1})
	require.True(t, res.State.IsMatchComplete)

	svc := NewScoringService(&staleRepo{GormMatchRepository: f.repo, row: *before}, f.teams, scoring.DefaultFormat(), f.pub, nil, nil)

	// undo sees the stored completion and reopens the match
	st, err := svc.UndoLastBall(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, st.IsMatchComplete)
	stored, err := f.repo.GetMatchByID(m.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusMatchLive, stored.Status)
	assert.Empty(t, stored.ResultSummary)

	// a ball is refused once the stored match is settled
	_, err = svc.EndMatch(ctx, m.ID)
	require.NoError(t, err)
	_, err = svc.RecordBall(ctx, m.ID, RecordBallRequest{RunsOffBat: 1})
	assert.ErrorIs(t, err, ErrMatchFinished)

	balls, err := f.repo.GetDeliveries(m.ID)
	require.NoError(t, err)
	assert.Len(t, balls, 7)
}

func TestUndoLastBall_Empty(t *testing.T) {
	f := newServiceFixture(t)
	m := f.createMatch(t, 2)

	_, err := f.svc.UndoLastBall(context.Background(), m.ID)
	assert.ErrorIs(t, err, scoring.ErrNoActiveInnings)

	f.startFirst(t, m)
	_, err = f.svc.UndoLastBall(context.Background(), m.ID)
	assert.ErrorIs(t, err, scoring.ErrEmptyBallLog)
}

func TestRecordBall_WicketsAndNewBatsman(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	m := f.createMatch(t, 5)
	f.startFirst(t, m)

	res := f.ball(t, m, RecordBallRequest{IsWicket: true, DismissalKind: scoring.KindCaught, FielderID: f.tigerP[2]})
	assert.Nil(t, res.State.Striker)
	require.NotEmpty(t, res.Actions)
	assert.Equal(t, scoring.ActionNewBatsman, res.Actions[0].Type)

	_, err := f.svc.RecordBall(ctx, m.ID, RecordBallRequest{RunsOffBat: 1})
	assert.ErrorIs(t, err, scoring.ErrBatsmanRequired)

	_, err = f.svc.SetNewBatsman(ctx, m.ID, SetBatsmanRequest{PlayerID: f.lionsP[0]})
	assert.ErrorIs(t, err, scoring.ErrBatsmanDismissed)
	_, err = f.svc.SetNewBatsman(ctx, m.ID, SetBatsmanRequest{PlayerID: f.tigerP[3]})
	assert.ErrorIs(t, err, ErrPlayerNotInSquad)
	_, err = f.svc.SetNewBatsman(ctx, m.ID, SetBatsmanRequest{PlayerID: f.lionsP[1]})
	assert.ErrorIs(t, err, scoring.ErrDuplicateBatsman)

	st, err := f.svc.SetNewBatsman(ctx, m.ID, SetBatsmanRequest{PlayerID: f.lionsP[2]})
	require.NoError(t, err)
	assert.Equal(t, "Lion 3", st.Striker.Name)

	// run out at the non-striker's end
	offStrike := false
	res = f.ball(t, m, RecordBallRequest{
		IsWicket: true, DismissalKind: scoring.KindRunOut, FielderID: f.tigerP[1], PlayerOutID: f.lionsP[1],
	})
	assert.Nil(t, res.State.NonStriker)
	require.NotNil(t, res.State.Striker)
	_, err = f.svc.SetNewBatsman(ctx, m.ID, SetBatsmanRequest{PlayerID: f.lionsP[3], OnStrike: &offStrike})
	require.NoError(t, err)

	balls, err := f.svc.Balls(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, balls, 2)
	assert.Equal(t, "caught", balls[0].DismissalKind)
	assert.Equal(t, string(PlayerID(f.tigerP[2])), balls[0].FielderID)
	assert.Equal(t, string(PlayerID(f.lionsP[0])), balls[0].PlayerOutID)
	assert.True(t, balls[0].BowlerCredited)
	assert.Equal(t, "run_out", balls[1].DismissalKind)
	assert.Equal(t, string(PlayerID(f.lionsP[1])), balls[1].PlayerOutID)
	assert.False(t, balls[1].BowlerCredited)
}

func TestRecordBall_RejectsBadDismissals(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	m := f.createMatch(t, 5)
	f.startFirst(t, m)

	_, err := f.svc.RecordBall(ctx, m.ID, RecordBallRequest{IsWicket: true, DismissalKind: scoring.KindCaught, FielderID: f.lionsP[3]})
	assert.ErrorIs(t, err, ErrPlayerNotInSquad)

	_, err = f.svc.RecordBall(ctx, m.ID, RecordBallRequest{IsWicket: true, DismissalKind: scoring.KindRunOut, PlayerOutID: f.lionsP[3]})
	assert.ErrorIs(t, err, scoring.ErrInvalidDelivery)

	_, err = f.svc.RecordBall(ctx, m.ID, RecordBallRequest{DismissalKind: scoring.KindBowled})
	assert.ErrorIs(t, err, scoring.ErrInvalidDelivery)

	_, err = f.svc.RecordBall(ctx, m.ID, RecordBallRequest{RunsOffBat: 2, ExtraType: scoring.ExtraWide})
	assert.ErrorIs(t, err, scoring.ErrInvalidDelivery)

	st, err := f.svc.State(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, st.State.Balls)
}

func TestSetNewBowler_Rules(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	m := f.createMatch(t, 5)
	f.startFirst(t, m)
	f.runs(t, m, 0, 0, 0, 0, 0, 0)

	_, err := f.svc.RecordBall(ctx, m.ID, RecordBallRequest{})
	assert.ErrorIs(t, err, scoring.ErrBowlerRequired)

	_, err = f.svc.SetNewBowler(ctx, m.ID, SetBowlerRequest{PlayerID: f.tigerP[0]})
	assert.ErrorIs(t, err, scoring.ErrConsecutiveOvers)
	_, err = f.svc.SetNewBowler(ctx, m.ID, SetBowlerRequest{PlayerID: f.lionsP[2]})
	assert.ErrorIs(t, err, ErrPlayerNotInSquad)

	st, err := f.svc.SetNewBowler(ctx, m.ID, SetBowlerRequest{PlayerID: f.tigerP[1]})
	require.NoError(t, err)
	assert.Equal(t, PlayerID(f.tigerP[1]), st.CurrentBowler.ID)
	assert.Equal(t, 1, st.Bowlers[PlayerID(f.tigerP[0])].Maidens)
}

func TestSessionRestoredFromSnapshot(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	m := f.createMatch(t, 5)
	f.startFirst(t, m)
	f.runs(t, m, 4, 2)

	// a fresh process sees only the database
	restarted := NewScoringService(f.repo, f.teams, scoring.DefaultFormat(), nil, nil, nil)
	res, err := restarted.RecordBall(ctx, m.ID, RecordBallRequest{RunsOffBat: 1})
	require.NoError(t, err)
	assert.Equal(t, 7, res.State.Runs)
	assert.Equal(t, 3, res.Ball.Sequence)
	assert.Equal(t, 1, restarted.Sessions().Len())

	u, err := restarted.LatestUpdate(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, uint64(4), u.Version)
	assert.Equal(t, 7, u.State.Runs)
}

func TestEndMatch_AbandonsPendingMatch(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	matchDone, err := f.broker.Consume(events.MatchCompleted)
	require.NoError(t, err)
	m := f.createMatch(t, 5)

	res, err := f.svc.EndMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, scoring.ResultIncomplete, res.Type)
	assert.Equal(t, "Match incomplete", res.Message)
	assert.Equal(t, 0, f.svc.Sessions().Len())
	assert.Equal(t, m.ID, receive(t, matchDone).MatchID)

	stored, err := f.svc.GetMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusMatchAbandoned, stored.Status)
	assert.NotNil(t, stored.CompletedAt)

	_, err = f.svc.RecordBall(ctx, m.ID, RecordBallRequest{RunsOffBat: 1})
	assert.ErrorIs(t, err, ErrMatchFinished)
	_, err = f.svc.UndoLastBall(ctx, m.ID)
	assert.ErrorIs(t, err, ErrMatchFinished)

	again, err := f.svc.EndMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, scoring.ResultIncomplete, again.Type)
}

func TestState_PendingMatch(t *testing.T) {
	f := newServiceFixture(t)
	m := f.createMatch(t, 3)

	u, err := f.svc.State(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), u.Version)
	assert.Equal(t, 3, u.State.MaxOvers)
	assert.Equal(t, []scoring.RequiredAction{{Type: scoring.ActionStartInnings}}, u.State.RequiredActions)

	none, err := f.svc.LatestUpdate(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = f.svc.State(context.Background(), 4242)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestScorecard(t *testing.T) {
	f := newServiceFixture(t)
	m := f.createMatch(t, 5)
	f.startFirst(t, m)
	f.runs(t, m, 4, 6)

	var sb strings.Builder
	require.NoError(t, f.svc.Scorecard(context.Background(), m.ID, &sb))
	assert.Contains(t, sb.String(), "Innings 1: Lions 10/0")
	assert.Contains(t, sb.String(), "Lion 1")
}

var errDiskFull = errors.New("disk full")

// failingRepo fails ball writes inside transactions.
type failingRepo struct {
	*GormMatchRepository
}

func (r *failingRepo) WithTransaction(fn func(MatchRepository) error) error {
	return r.GormMatchRepository.WithTransaction(func(tx MatchRepository) error {
		return fn(&failingRepo{GormMatchRepository: tx.(*GormMatchRepository)})
	})
}

func (r *failingRepo) SaveDelivery(*BallDelivery) error {
	return errDiskFull
}

func TestRecordBall_FailedWriteRollsBackEngine(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	m := f.createMatch(t, 5)
	f.startFirst(t, m)
	f.runs(t, m, 1)

	svc := NewScoringService(&failingRepo{f.repo}, f.teams, scoring.DefaultFormat(), f.pub, nil, nil)
	published := len(f.pub.all())
	_, err := svc.RecordBall(ctx, m.ID, RecordBallRequest{RunsOffBat: 4})
	assert.ErrorIs(t, err, errDiskFull)
	assert.Len(t, f.pub.all(), published)

	sess, err := svc.Sessions().Get(ctx, m.ID)
	require.NoError(t, err)
	sess.View(func(e *scoring.MatchEngine) {
		assert.Equal(t, 1, e.CurrentState().Runs)
	})

	u, err := svc.LatestUpdate(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.State.Runs)
}

func TestMatchPlayers(t *testing.T) {
	exp := scoring.ExportedMatch{Innings: []*scoring.Innings{
		{
			Number:       1,
			BattingOrder: []scoring.PlayerID{"1", "2"},
			BowlingOrder: []scoring.PlayerID{"5"},
			BallLog: []scoring.BallRecord{
				{Dismissal: &scoring.DismissalDetail{Dismissal: scoring.Caught{Fielder: "6"}}},
				{Dismissal: &scoring.DismissalDetail{Dismissal: scoring.Stumped{Keeper: "7"}}},
			},
		},
		{
			Number:       2,
			BattingOrder: []scoring.PlayerID{"5", "6"},
			BowlingOrder: []scoring.PlayerID{"1"},
		},
	}}

	assert.Equal(t, []string{"1", "2", "5", "6", "7"}, matchPlayers(exp, 1))
	assert.Equal(t, []string{"5", "6", "1"}, matchPlayers(exp, 2))
	assert.Equal(t, []string{"1", "2", "5", "6", "7"}, matchPlayers(exp, 0))
}

func TestPlayerIDRoundTrip(t *testing.T) {
	id := PlayerID(42)
	assert.Equal(t, scoring.PlayerID("42"), id)
	n, ok := UserID(id)
	assert.True(t, ok)
	assert.Equal(t, uint(42), n)

	_, ok = UserID("p-alice")
	assert.False(t, ok)
	_, ok = UserID("0")
	assert.False(t, ok)
}
