package service

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/ofxpulse/internal/domain/models"
	"github.com/guttosm/ofxpulse/internal/storage"
)

// ErrInvalidRange is returned when the window's start is after its end.
var ErrInvalidRange = errors.New("from must not be after to")

// SummaryService defines business logic for account summaries.
type SummaryService interface {
	GetSummary(ctx context.Context, accountID string, from *time.Time, to *time.Time) (*models.AccountSummary, error)
}

type summaryService struct {
	repo storage.TransactionsRepository
}

func NewSummaryService(repo storage.TransactionsRepository) SummaryService {
	return &summaryService{repo: repo}
}

// GetSummary returns nil, nil when the account has no postings in the window.
func (s *summaryService) GetSummary(ctx context.Context, accountID string, from *time.Time, to *time.Time) (*models.AccountSummary, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, ErrInvalidRange
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.repo.GetAccountSummary(accountID, from, to)
}
