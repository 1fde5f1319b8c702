package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cft-platform/planner-api/internal/models"
	appErrors "github.com/cft-platform/planner-api/pkg/errors"
)

func TestHistoryServiceListRejectsBadDate(t *testing.T) {
	svc := NewHistoryService(&mockHistoryRepo{}, nil)

	_, err := svc.List(context.Background(), "26/08/2026")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "RFC 3339")
}

func TestHistoryServiceListFiltersByExactDate(t *testing.T) {
	first := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	second := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	repo := &mockHistoryRepo{entries: []models.HistoryEntry{
		{ID: "h1", Action: models.HistoryActionConfirmed, ConfirmationDate: first},
		{ID: "h2", Action: models.HistoryActionConfirmed, ConfirmationDate: second},
	}}
	svc := NewHistoryService(repo, nil)

	entries, err := svc.List(context.Background(), first.Format(time.RFC3339))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "h1", entries[0].ID)

	// A date no confirmation happened on matches nothing.
	entries, err = svc.List(context.Background(), "2026-08-25T09:00:00Z")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryServiceListUnfiltered(t *testing.T) {
	repo := &mockHistoryRepo{entries: []models.HistoryEntry{
		{ID: "h1", Action: models.HistoryActionCreated, ConfirmationDate: time.Now().UTC()},
	}}
	svc := NewHistoryService(repo, nil)

	entries, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestHistoryServiceListEmpty(t *testing.T) {
	svc := NewHistoryService(&mockHistoryRepo{}, nil)

	entries, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
