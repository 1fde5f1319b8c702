package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// HistoryAction enumerates the events that produce a history entry.
type HistoryAction string

const (
	HistoryActionCreated   HistoryAction = "CREATED"
	HistoryActionUpdated   HistoryAction = "UPDATED"
	HistoryActionDeleted   HistoryAction = "DELETED"
	HistoryActionConfirmed HistoryAction = "CONFIRMED"
)

// ScheduleSnapshot is a denormalized copy of one confirmed assignment as it
// stood at confirmation time. The day is stored by NAME so snapshots stay
// readable without the grid tables.
type ScheduleSnapshot struct {
	ID          string            `json:"id"`
	TrainerID   string            `json:"trainer_id"`
	TrainerName string            `json:"trainer_name"`
	Room        string            `json:"room"`
	GroupName   string            `json:"group_name"`
	TrackID     string            `json:"track_id"`
	TrackName   string            `json:"track_name"`
	Day         string            `json:"day"`
	Slot        int               `json:"slot"`
	Module      *AssignmentModule `json:"module,omitempty"`
}

// HistorySnapshot is the full confirmed-schedule collection captured by one
// confirmation event, persisted as a JSONB array.
type HistorySnapshot []ScheduleSnapshot

// Value marshals the snapshot to JSON for persistence.
func (s HistorySnapshot) Value() (driver.Value, error) {
	if s == nil {
		s = HistorySnapshot{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal history snapshot: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB payload into the snapshot.
func (s *HistorySnapshot) Scan(value interface{}) error {
	if value == nil {
		*s = HistorySnapshot{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported history snapshot type %T", value)
	}
	if len(data) == 0 {
		*s = HistorySnapshot{}
		return nil
	}
	return json.Unmarshal(data, s)
}

// HistoryEntry is one append-only confirmation record. Entries are never
// updated or deleted once written.
type HistoryEntry struct {
	ID               string          `db:"id" json:"id"`
	ScheduleID       *string         `db:"schedule_id" json:"schedule_id,omitempty"`
	Action           HistoryAction   `db:"action" json:"action"`
	Schedules        HistorySnapshot `db:"schedules" json:"schedules"`
	ConfirmationDate time.Time       `db:"confirmation_date" json:"confirmation_date"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// SnapshotFromSchedule denormalizes one live schedule into snapshot form.
func SnapshotFromSchedule(s Schedule) ScheduleSnapshot {
	return ScheduleSnapshot{
		ID:          s.ID,
		TrainerID:   s.TrainerID,
		TrainerName: s.TrainerName,
		Room:        s.Room,
		GroupName:   s.GroupName,
		TrackID:     s.TrackID,
		TrackName:   s.TrackName,
		Day:         DayName(s.DayID),
		Slot:        s.SlotID,
		Module:      s.Module,
	}
}

// SnapshotFromSchedules denormalizes a full schedule collection.
func SnapshotFromSchedules(schedules []Schedule) HistorySnapshot {
	snapshot := make(HistorySnapshot, 0, len(schedules))
	for _, s := range schedules {
		snapshot = append(snapshot, SnapshotFromSchedule(s))
	}
	return snapshot
}
