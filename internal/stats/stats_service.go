package stats

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/DhavalSuthar-24/crease/internal/logger"
	"github.com/DhavalSuthar-24/crease/internal/match"
	"github.com/DhavalSuthar-24/crease/internal/scoring"
)

// Service recomputes careers from the match ball log.
type Service struct {
	matches match.MatchRepository
	repo    StatsRepository
	log     *zap.Logger
}

func NewService(matches match.MatchRepository, repo StatsRepository, log *zap.Logger) *Service {
	return &Service{matches: matches, repo: repo, log: logger.OrNop(log).Named("stats")}
}

// Career returns the stored aggregate of userID, computing it first if none
// has been written yet.
func (s *Service) Career(ctx context.Context, userID uint) (*PlayerOverallCricketStat, error) {
	stat, err := s.repo.GetCareer(userID)
	if err != nil || stat != nil {
		return stat, err
	}
	return s.RefreshPlayer(ctx, userID)
}

// RefreshPlayer replays every stored ball involving userID and stores the
// result. Running it twice yields the same row.
func (s *Service) RefreshPlayer(_ context.Context, userID uint) (*PlayerOverallCricketStat, error) {
	player := match.PlayerID(userID)
	ids, err := s.matches.GetPlayerMatchIDs(string(player))
	if err != nil {
		return nil, fmt.Errorf("list matches of player %d: %w", userID, err)
	}
	logs, err := s.matchLogs(ids)
	if err != nil {
		return nil, err
	}

	stat := Aggregate(player, logs)
	stat.UserID = userID
	stat.RefreshedAt = time.Now()
	if err := s.repo.UpsertCareer(&stat); err != nil {
		return nil, fmt.Errorf("store career of player %d: %w", userID, err)
	}
	return &stat, nil
}

// RefreshPlayers refreshes each listed player. Ids that are not user ids are
// skipped. Failures are logged and the first one is returned after every
// player has been tried.
func (s *Service) RefreshPlayers(ctx context.Context, players []string) error {
	var first error
	for _, p := range players {
		userID, ok := match.UserID(scoring.PlayerID(p))
		if !ok {
			s.log.Debug("skipping non-user player id", zap.String("player_id", p))
			continue
		}
		if _, err := s.RefreshPlayer(ctx, userID); err != nil {
			s.log.Error("career refresh failed", zap.Uint("user_id", userID), zap.Error(err))
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func (s *Service) matchLogs(ids []uint) ([]MatchLog, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	matches, err := s.matches.GetMatchesByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	balls, err := s.matches.GetDeliveriesByMatches(ids)
	if err != nil {
		return nil, fmt.Errorf("load deliveries: %w", err)
	}

	byMatch := make(map[uint][]match.BallDelivery, len(ids))
	for _, b := range balls {
		byMatch[b.MatchID] = append(byMatch[b.MatchID], b)
	}
	logs := make([]MatchLog, 0, len(matches))
	for _, m := range matches {
		logs = append(logs, MatchLog{
			MatchID:      m.ID,
			BallsPerOver: m.BallsPerOver,
			Balls:        byMatch[m.ID],
		})
	}
	return logs, nil
}
