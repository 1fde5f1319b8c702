package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AssignmentModule is the optional module taught in a slot, persisted as
// JSONB. The trainer name is a display cache refreshed on write; the id is
// the canonical reference.
type AssignmentModule struct {
	Name        string `json:"name"`
	TrainerID   string `json:"trainer_id,omitempty"`
	TrainerName string `json:"trainer_name,omitempty"`
}

// Value marshals the module to JSON for persistence.
func (m AssignmentModule) Value() (driver.Value, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal assignment module: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB payload into the module.
func (m *AssignmentModule) Scan(value interface{}) error {
	if value == nil {
		*m = AssignmentModule{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported assignment module type %T", value)
	}
	if len(data) == 0 {
		*m = AssignmentModule{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// Draft is a proposed assignment awaiting confirmation. TrainerName and
// TrackName are read-only projections joined from the canonical tables;
// rows whose trainer or track has been deleted drop out of list queries.
type Draft struct {
	ID          string            `db:"id" json:"id"`
	TrainerID   string            `db:"trainer_id" json:"trainer_id"`
	TrainerName string            `db:"trainer_name" json:"trainer_name,omitempty"`
	Room        string            `db:"room" json:"room"`
	GroupName   string            `db:"group_name" json:"group_name"`
	TrackID     string            `db:"track_id" json:"track_id"`
	TrackName   string            `db:"track_name" json:"track_name,omitempty"`
	DayID       int               `db:"day_id" json:"day_id"`
	SlotID      int               `db:"slot_id" json:"slot_id"`
	Module      *AssignmentModule `db:"module" json:"module,omitempty"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

// Schedule is a confirmed assignment occupying a slot on the live grid.
type Schedule struct {
	ID          string            `db:"id" json:"id"`
	TrainerID   string            `db:"trainer_id" json:"trainer_id"`
	TrainerName string            `db:"trainer_name" json:"trainer_name,omitempty"`
	Room        string            `db:"room" json:"room"`
	GroupName   string            `db:"group_name" json:"group_name"`
	TrackID     string            `db:"track_id" json:"track_id"`
	TrackName   string            `db:"track_name" json:"track_name,omitempty"`
	DayID       int               `db:"day_id" json:"day_id"`
	SlotID      int               `db:"slot_id" json:"slot_id"`
	Module      *AssignmentModule `db:"module" json:"module,omitempty"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

// DayName returns the display name of the schedule's day.
func (s Schedule) DayName() string {
	return DayName(s.DayID)
}

// ConflictDimension names the axis on which two assignments collide.
type ConflictDimension string

const (
	ConflictTrainer ConflictDimension = "TRAINER"
	ConflictRoom    ConflictDimension = "ROOM"
	ConflictGroup   ConflictDimension = "GROUP"
)

// AssignmentConflict describes an existing record blocking a placement.
type AssignmentConflict struct {
	RecordID   string            `json:"record_id"`
	Collection string            `json:"collection"`
	TrainerID  string            `json:"trainer_id"`
	Room       string            `json:"room"`
	GroupName  string            `json:"group_name"`
	DayID      int               `json:"day_id"`
	SlotID     int               `json:"slot_id"`
	Dimension  ConflictDimension `json:"dimension"`
}

// AssignmentConflictError is returned when a proposed placement collides
// with an already-committed assignment.
type AssignmentConflictError struct {
	Message  string             `json:"message"`
	Conflict AssignmentConflict `json:"conflict"`
}

// Error implements the error interface.
func (e *AssignmentConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// ConflictProposal carries the fields of a placement being checked. Empty
// fields are skipped, which lets read-only availability queries check a
// subset of dimensions; write paths always supply all three.
type ConflictProposal struct {
	TrainerID string
	Room      string
	GroupName string
	DayID     int
	SlotID    int
}

// Collides reports the first dimension on which the proposal collides with
// the given record fields, or "" when it does not.
func (p ConflictProposal) Collides(trainerID, room, groupName string) ConflictDimension {
	if p.TrainerID != "" && p.TrainerID == trainerID {
		return ConflictTrainer
	}
	if p.Room != "" && p.Room == room {
		return ConflictRoom
	}
	if p.GroupName != "" && p.GroupName == groupName {
		return ConflictGroup
	}
	return ""
}

// Pagination reports list slicing metadata.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
