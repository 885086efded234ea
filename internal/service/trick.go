package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/skate-tracker/internal/apperror"
	"github.com/sakif/skate-tracker/internal/model"
	"github.com/sakif/skate-tracker/internal/repository"
)

// TrickService manages the catalog and each user's tricks.
type TrickService struct {
	tricks repository.TrickRepository
	logger *slog.Logger
}

func NewTrickService(tricks repository.TrickRepository, logger *slog.Logger) *TrickService {
	return &TrickService{tricks: tricks, logger: logger}
}

// Catalog returns every trick. An empty catalog is reported as not found,
// which is the contract the mobile client was written against.
func (s *TrickService) Catalog(ctx context.Context) ([]model.Trick, error) {
	tricks, err := s.tricks.ListTricks(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/trick: listing catalog: %w", err)
	}
	if len(tricks) == 0 {
		return nil, apperror.NotFoundMessage("No tricks found")
	}
	return tricks, nil
}

// Add starts tracking a catalog trick for the user with status learning.
// Adding the same trick twice is a conflict; an unknown trick is not found.
func (s *TrickService) Add(ctx context.Context, userID, trickID int64) (*model.UserTrick, error) {
	if err := checkTrickID(trickID); err != nil {
		return nil, err
	}

	ut, err := s.tricks.AddUserTrick(ctx, userID, trickID)
	if err != nil {
		return nil, fmt.Errorf("service/trick: adding trick %d for user %d: %w", trickID, userID, err)
	}

	s.logger.Info("trick added",
		slog.Int64("userID", userID),
		slog.Int64("trickID", trickID),
	)
	return ut, nil
}

// Mine lists the user's tricks with status. A user with no tricks gets
// apperror.ErrNotFound rather than an empty list.
func (s *TrickService) Mine(ctx context.Context, userID int64) ([]model.UserTrickDetail, error) {
	tricks, err := s.tricks.ListUserTricks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/trick: listing tricks for user %d: %w", userID, err)
	}
	if len(tricks) == 0 {
		return nil, apperror.NotFoundMessage("No tricks found for this user")
	}
	return tricks, nil
}

// UpdateStatus moves one of the user's tricks to the given status. The only
// accepted status is "mastered".
func (s *TrickService) UpdateStatus(ctx context.Context, userID, trickID int64, status string) (*model.UserTrick, error) {
	if err := checkTrickID(trickID); err != nil {
		return nil, err
	}

	// Stored rows are learning or mastered, and both only move to mastered.
	next := model.TrickStatus(status)
	if !model.StatusLearning.CanTransition(next) {
		return nil, apperror.ValidationFailed("status", "Invalid status")
	}

	ut, err := s.tricks.UpdateUserTrickStatus(ctx, userID, trickID, next)
	if err != nil {
		return nil, fmt.Errorf("service/trick: updating trick %d for user %d: %w", trickID, userID, err)
	}

	s.logger.Info("trick mastered",
		slog.Int64("userID", userID),
		slog.Int64("trickID", trickID),
	)
	return ut, nil
}
