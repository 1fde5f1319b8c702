package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cft-platform/planner-api/internal/models"
	appErrors "github.com/cft-platform/planner-api/pkg/errors"
)

type historyRepository interface {
	Insert(ctx context.Context, entry *models.HistoryEntry) error
	List(ctx context.Context, confirmationDate *time.Time) ([]models.HistoryEntry, error)
}

// HistoryService reads the append-only confirmation trail. Entries are
// never updated or deleted; there is no write surface beyond what the
// confirmation engine appends.
type HistoryService struct {
	repo   historyRepository
	logger *zap.Logger
}

// NewHistoryService instantiates HistoryService.
func NewHistoryService(repo historyRepository, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{repo: repo, logger: logger}
}

// List returns history entries, optionally filtered to one exact
// confirmation date. An unparsable date is a validation failure.
func (s *HistoryService) List(ctx context.Context, date string) ([]models.HistoryEntry, error) {
	var filter *time.Time
	if date != "" {
		parsed, err := time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid confirmation date, expected RFC 3339")
		}
		filter = &parsed
	}

	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule history")
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return entries, nil
}
