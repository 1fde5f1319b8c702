package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cft-platform/planner-api/internal/models"
)

type mockDraftRepo struct {
	drafts map[string]*models.Draft
	nextID int
}

func newMockDraftRepo() *mockDraftRepo {
	return &mockDraftRepo{drafts: make(map[string]*models.Draft)}
}

func (m *mockDraftRepo) add(draft models.Draft) *models.Draft {
	if draft.ID == "" {
		m.nextID++
		draft.ID = fmt.Sprintf("draft-%d", m.nextID)
	}
	copied := draft
	m.drafts[copied.ID] = &copied
	return &copied
}

func (m *mockDraftRepo) List(ctx context.Context) ([]models.Draft, error) {
	return m.ListRaw(ctx)
}

func (m *mockDraftRepo) ListRaw(ctx context.Context) ([]models.Draft, error) {
	out := make([]models.Draft, 0, len(m.drafts))
	for _, d := range m.drafts {
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockDraftRepo) FindByID(ctx context.Context, id string) (*models.Draft, error) {
	if d, ok := m.drafts[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDraftRepo) FindBySlot(ctx context.Context, dayID, slotID int) ([]models.Draft, error) {
	var out []models.Draft
	for _, d := range m.drafts {
		if d.DayID == dayID && d.SlotID == slotID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *mockDraftRepo) Create(ctx context.Context, draft *models.Draft) error {
	m.nextID++
	draft.ID = fmt.Sprintf("draft-%d", m.nextID)
	copied := *draft
	m.drafts[draft.ID] = &copied
	return nil
}

func (m *mockDraftRepo) Update(ctx context.Context, draft *models.Draft) error {
	copied := *draft
	m.drafts[draft.ID] = &copied
	return nil
}

func (m *mockDraftRepo) Delete(ctx context.Context, id string) error {
	delete(m.drafts, id)
	return nil
}

type mockScheduleRepo struct {
	schedules map[string]*models.Schedule
	nextID    int
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{schedules: make(map[string]*models.Schedule)}
}

func (m *mockScheduleRepo) add(schedule models.Schedule) *models.Schedule {
	if schedule.ID == "" {
		m.nextID++
		schedule.ID = fmt.Sprintf("sched-%d", m.nextID)
	}
	copied := schedule
	m.schedules[copied.ID] = &copied
	return &copied
}

func (m *mockScheduleRepo) List(ctx context.Context) ([]models.Schedule, error) {
	out := make([]models.Schedule, 0, len(m.schedules))
	for _, s := range m.schedules {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockScheduleRepo) ListByTrainer(ctx context.Context, trainerID string) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, s := range m.schedules {
		if s.TrainerID == trainerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockScheduleRepo) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	if s, ok := m.schedules[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockScheduleRepo) FindBySlot(ctx context.Context, dayID, slotID int) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, s := range m.schedules {
		if s.DayID == dayID && s.SlotID == slotID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockScheduleRepo) Create(ctx context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		m.nextID++
		schedule.ID = fmt.Sprintf("sched-%d", m.nextID)
	}
	copied := *schedule
	m.schedules[schedule.ID] = &copied
	return nil
}

func (m *mockScheduleRepo) Update(ctx context.Context, schedule *models.Schedule) error {
	copied := *schedule
	m.schedules[schedule.ID] = &copied
	return nil
}

func (m *mockScheduleRepo) Delete(ctx context.Context, id string) error {
	delete(m.schedules, id)
	return nil
}

type mockTrainerRepo struct {
	trainers map[string]*models.Trainer
}

func newMockTrainerRepo(trainers ...models.Trainer) *mockTrainerRepo {
	m := &mockTrainerRepo{trainers: make(map[string]*models.Trainer)}
	for _, tr := range trainers {
		copied := tr
		m.trainers[copied.ID] = &copied
	}
	return m
}

func (m *mockTrainerRepo) FindByID(ctx context.Context, id string) (*models.Trainer, error) {
	if tr, ok := m.trainers[id]; ok {
		copied := *tr
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTrainerRepo) FindByName(ctx context.Context, name string) (*models.Trainer, error) {
	for _, tr := range m.trainers {
		if tr.Name == name {
			copied := *tr
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

type mockTrackRepo struct {
	tracks map[string]*models.Track
}

func newMockTrackRepo(tracks ...models.Track) *mockTrackRepo {
	m := &mockTrackRepo{tracks: make(map[string]*models.Track)}
	for _, tk := range tracks {
		copied := tk
		m.tracks[copied.ID] = &copied
	}
	return m
}

func (m *mockTrackRepo) FindByID(ctx context.Context, id string) (*models.Track, error) {
	if tk, ok := m.tracks[id]; ok {
		copied := *tk
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

type mockEstablishmentRepo struct {
	establishments []models.Establishment
}

func (m *mockEstablishmentRepo) FindByRoom(ctx context.Context, room string) (*models.Establishment, error) {
	for _, e := range m.establishments {
		if e.Rooms.Contains(room) {
			copied := e
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

type mockHistoryRepo struct {
	entries   []models.HistoryEntry
	insertErr error
}

func (m *mockHistoryRepo) Insert(ctx context.Context, entry *models.HistoryEntry) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("hist-%d", len(m.entries)+1)
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockHistoryRepo) List(ctx context.Context, confirmationDate *time.Time) ([]models.HistoryEntry, error) {
	if confirmationDate == nil {
		return append([]models.HistoryEntry(nil), m.entries...), nil
	}
	var out []models.HistoryEntry
	for _, e := range m.entries {
		if e.ConfirmationDate.Equal(*confirmationDate) {
			out = append(out, e)
		}
	}
	return out, nil
}

// mockConfirmationStore reproduces the transactional store over the
// in-memory collections: either every write of one call lands or none.
type mockConfirmationStore struct {
	drafts    *mockDraftRepo
	schedules *mockScheduleRepo
	history   *mockHistoryRepo
}

func (m *mockConfirmationStore) ConfirmOne(ctx context.Context, schedule *models.Schedule, entry *models.HistoryEntry, draftID string) error {
	m.schedules.add(*schedule)
	if err := m.history.Insert(ctx, entry); err != nil {
		m.schedules.Delete(ctx, schedule.ID) //nolint:errcheck
		return err
	}
	return m.drafts.Delete(ctx, draftID)
}

func (m *mockConfirmationStore) ApplyDraft(ctx context.Context, schedule *models.Schedule, draftID string, update bool) error {
	if update {
		if err := m.schedules.Update(ctx, schedule); err != nil {
			return err
		}
	} else {
		if err := m.schedules.Create(ctx, schedule); err != nil {
			return err
		}
	}
	return m.drafts.Delete(ctx, draftID)
}
