package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/skate-tracker/internal/apperror"
	"github.com/sakif/skate-tracker/internal/model"
	"github.com/sakif/skate-tracker/internal/progress"
	"github.com/sakif/skate-tracker/internal/repository"
)

type ChallengeService struct {
	challenges repository.ChallengeRepository
	tricks     repository.TrickRepository
	logger     *slog.Logger
}

func NewChallengeService(
	challenges repository.ChallengeRepository,
	tricks repository.TrickRepository,
	logger *slog.Logger,
) *ChallengeService {
	return &ChallengeService{challenges: challenges, tricks: tricks, logger: logger}
}

// List returns the challenge catalog; empty is not found.
func (s *ChallengeService) List(ctx context.Context) ([]model.Challenge, error) {
	challenges, err := s.challenges.ListChallenges(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/challenge: listing challenges: %w", err)
	}
	if len(challenges) == 0 {
		return nil, apperror.NotFoundMessage("No challenges found")
	}
	return challenges, nil
}

// Progress evaluates every challenge against the user's mastered tricks.
//
// Unlike List and TrickService.Mine, empty inputs are not errors here: a new
// user simply has zero progress. Nothing is written back; user_rewards stays
// untouched.
func (s *ChallengeService) Progress(ctx context.Context, userID int64) (progress.Summary, error) {
	tricks, err := s.tricks.ListUserTricks(ctx, userID)
	if err != nil {
		return progress.Summary{}, fmt.Errorf("service/challenge: listing tricks for user %d: %w", userID, err)
	}

	challenges, err := s.challenges.ListChallenges(ctx)
	if err != nil {
		return progress.Summary{}, fmt.Errorf("service/challenge: listing challenges: %w", err)
	}

	summary := progress.Summarize(tricks, challenges)
	s.logger.Debug("progress computed",
		slog.Int64("userID", userID),
		slog.Int("mastered", summary.MasteredCount),
		slog.Int("points", summary.TotalPoints),
	)
	return summary, nil
}
