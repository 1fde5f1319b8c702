package models

import "time"

// TrainerRole distinguishes administrators from teaching staff.
type TrainerRole string

const (
	RoleSuperadmin TrainerRole = "SUPERADMIN"
	RoleTrainer    TrainerRole = "TRAINER"
)

// Trainer is a member of the teaching staff. The scheduling core only ever
// references trainers by id and caches the name for display.
type Trainer struct {
	ID        string      `db:"id" json:"id"`
	Matricule string      `db:"matricule" json:"matricule"`
	Name      string      `db:"name" json:"name"`
	Email     string      `db:"email" json:"email"`
	Phone     *string     `db:"phone" json:"phone,omitempty"`
	Address   *string     `db:"address" json:"address,omitempty"`
	Role      TrainerRole `db:"role" json:"role"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// TrainerFilter describes query params for listing trainers.
type TrainerFilter struct {
	Name     string
	Role     TrainerRole
	Page     int
	PageSize int
}
