package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// NameList is a JSONB-persisted list of names (groups, modules, rooms).
type NameList []string

// Value marshals the list to JSON for persistence.
func (l NameList) Value() (driver.Value, error) {
	if l == nil {
		l = NameList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal name list: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB payload into the list.
func (l *NameList) Scan(value interface{}) error {
	if value == nil {
		*l = NameList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported name list type %T", value)
	}
	if len(data) == 0 {
		*l = NameList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Contains reports whether the list holds the given name.
func (l NameList) Contains(name string) bool {
	for _, n := range l {
		if n == name {
			return true
		}
	}
	return false
}

// Track owns the valid group and module names for its assignments.
type Track struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	EstablishmentID string    `db:"establishment_id" json:"establishment_id"`
	Groups          NameList  `db:"groups" json:"groups"`
	Modules         NameList  `db:"modules" json:"modules"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Establishment groups rooms under one site. Rooms are free-text names;
// an assignment's room is valid when some establishment lists it.
type Establishment struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	City      *string   `db:"city" json:"city,omitempty"`
	Rooms     NameList  `db:"rooms" json:"rooms"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
