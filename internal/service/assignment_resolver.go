package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cft-platform/planner-api/internal/models"
	appErrors "github.com/cft-platform/planner-api/pkg/errors"
)

type trainerLookup interface {
	FindByID(ctx context.Context, id string) (*models.Trainer, error)
	FindByName(ctx context.Context, name string) (*models.Trainer, error)
}

type trackLookup interface {
	FindByID(ctx context.Context, id string) (*models.Track, error)
}

type establishmentLookup interface {
	FindByRoom(ctx context.Context, room string) (*models.Establishment, error)
}

// assignmentInput is the raw placement tuple shared by draft and schedule
// write paths. TrainerID takes precedence over TrainerName when both are
// supplied, matching the update contract.
type assignmentInput struct {
	TrainerName     string
	TrainerID       string
	Room            string
	GroupName       string
	TrackID         string
	DayID           int
	SlotID          int
	ModuleName      string
	ModuleTrainerID string
}

// resolvedAssignment carries the canonical entities backing a validated
// placement.
type resolvedAssignment struct {
	Trainer *models.Trainer
	Track   *models.Track
	Module  *models.AssignmentModule
}

// AssignmentResolver validates the referential side of a placement: the
// trainer exists, some establishment owns the room, the track exists and
// lists the group (and module, when given).
type AssignmentResolver struct {
	trainers       trainerLookup
	tracks         trackLookup
	establishments establishmentLookup
}

func NewAssignmentResolver(trainers trainerLookup, tracks trackLookup, establishments establishmentLookup) *AssignmentResolver {
	return &AssignmentResolver{trainers: trainers, tracks: tracks, establishments: establishments}
}

// Resolve runs the full referential validation chain. Range errors on the
// grid coordinate are validation failures, never conflicts.
func (r *AssignmentResolver) Resolve(ctx context.Context, in assignmentInput) (*resolvedAssignment, error) {
	if !models.ValidDayID(in.DayID) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("day id %d is outside the weekly grid", in.DayID))
	}
	if !models.ValidSlotID(in.SlotID) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot id %d is outside the daily grid", in.SlotID))
	}

	trainer, err := r.resolveTrainer(ctx, in.TrainerID, in.TrainerName)
	if err != nil {
		return nil, err
	}

	if _, err := r.establishments.FindByRoom(ctx, in.Room); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no establishment owns room %q", in.Room))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve room")
	}

	track, err := r.tracks.FindByID(ctx, in.TrackID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "track not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve track")
	}
	if !track.Groups.Contains(in.GroupName) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("group %q is not part of track %q", in.GroupName, track.Name))
	}

	resolved := &resolvedAssignment{Trainer: trainer, Track: track}

	if in.ModuleName != "" {
		if !track.Modules.Contains(in.ModuleName) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("module %q is not part of track %q", in.ModuleName, track.Name))
		}
		// Module delivery may be owned by a different trainer than the
		// slot; it defaults to the primary one when unspecified.
		moduleTrainer := trainer
		if in.ModuleTrainerID != "" && in.ModuleTrainerID != trainer.ID {
			moduleTrainer, err = r.resolveTrainer(ctx, in.ModuleTrainerID, "")
			if err != nil {
				return nil, err
			}
		}
		resolved.Module = &models.AssignmentModule{
			Name:        in.ModuleName,
			TrainerID:   moduleTrainer.ID,
			TrainerName: moduleTrainer.Name,
		}
	}

	return resolved, nil
}

func (r *AssignmentResolver) resolveTrainer(ctx context.Context, id, name string) (*models.Trainer, error) {
	var (
		trainer *models.Trainer
		err     error
	)
	if id != "" {
		trainer, err = r.trainers.FindByID(ctx, id)
	} else {
		trainer, err = r.trainers.FindByName(ctx, name)
	}
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve trainer")
	}
	return trainer, nil
}
