package service

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/analytics"
	"ctchen222/TicTacToe-Classic/internal/repository"
	"errors"
	"fmt"
)

var ErrSessionForbidden = errors.New("session belongs to another player")

// recentSessionsLimit caps the session list of a player.
const recentSessionsLimit = 20

// StatsService serves recorded results and saved sessions.
type StatsService interface {
	PlayerReport(ctx context.Context, playerID string, boardSize int) (*analytics.Report, error)
	PlayerSessions(ctx context.Context, playerID string) ([]*repository.Session, error)
	Session(ctx context.Context, sessionID string) (*repository.Session, error)
	DeleteSession(ctx context.Context, playerID, sessionID string) error
}

type statsService struct {
	statsRepo   repository.StatsRepository
	sessionRepo repository.SessionRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(statsRepo repository.StatsRepository, sessionRepo repository.SessionRepository) StatsService {
	return &statsService{statsRepo: statsRepo, sessionRepo: sessionRepo}
}

// PlayerReport aggregates every recorded game of a player. A boardSize of 0
// covers all sizes.
func (s *statsService) PlayerReport(ctx context.Context, playerID string, boardSize int) (*analytics.Report, error) {
	if boardSize != 0 {
		if err := validBoardSize(boardSize); err != nil {
			return nil, err
		}
	}

	results, err := s.statsRepo.ListResults(ctx, playerID, boardSize)
	if err != nil {
		return nil, err
	}
	report := analytics.Aggregate(results)
	return &report, nil
}

// PlayerSessions lists the player's most recent sessions still in the store.
func (s *statsService) PlayerSessions(ctx context.Context, playerID string) ([]*repository.Session, error) {
	return s.sessionRepo.ListByPlayer(ctx, playerID, recentSessionsLimit)
}

func (s *statsService) Session(ctx context.Context, sessionID string) (*repository.Session, error) {
	return s.sessionRepo.FindByID(ctx, sessionID)
}

// DeleteSession forgets a saved session of playerID. A room still playing
// the session saves it again on its next move.
func (s *statsService) DeleteSession(ctx context.Context, playerID, sessionID string) error {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.PlayerID != playerID {
		return fmt.Errorf("%w: %s", ErrSessionForbidden, sessionID)
	}
	return s.sessionRepo.Delete(ctx, sessionID)
}
