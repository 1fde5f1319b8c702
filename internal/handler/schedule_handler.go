package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cft-platform/planner-api/internal/middleware"
	"github.com/cft-platform/planner-api/internal/models"
	"github.com/cft-platform/planner-api/internal/service"
	appErrors "github.com/cft-platform/planner-api/pkg/errors"
	"github.com/cft-platform/planner-api/pkg/response"
)

// ScheduleHandler manages confirmed schedule endpoints, including the
// history and availability queries.
type ScheduleHandler struct {
	schedules *service.ScheduleService
	history   *service.HistoryService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(schedules *service.ScheduleService, history *service.HistoryService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, history: history}
}

// List godoc
// @Summary List confirmed schedules
// @Tags Schedules
// @Produce json
// @Param trainerId query string false "Filter by trainer"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	if trainerID := c.Query("trainerId"); trainerID != "" {
		schedules, err := h.schedules.ListByTrainer(c.Request.Context(), trainerID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, schedules, nil)
		return
	}

	schedules, cached, err := h.schedules.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, schedules, nil, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get one confirmed schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.schedules.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Create godoc
// @Summary Place a confirmed schedule directly
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body service.CreateScheduleRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	schedule, err := h.schedules.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// Update godoc
// @Summary Update a confirmed schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body service.UpdateScheduleRequest true "Schedule payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req service.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	schedule, err := h.schedules.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Delete godoc
// @Summary Delete a confirmed schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedules.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{}, nil)
}

// History godoc
// @Summary List confirmation history snapshots
// @Tags Schedules
// @Produce json
// @Param date query string false "Exact confirmation date (RFC 3339)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedules/history [get]
func (h *ScheduleHandler) History(c *gin.Context) {
	entries, err := h.history.List(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Availability godoc
// @Summary Check what occupies a grid coordinate
// @Tags Schedules
// @Produce json
// @Param dayId query int true "Day id (1-6)"
// @Param slotId query int true "Slot id (1-4)"
// @Param trainerId query string false "Trainer dimension"
// @Param room query string false "Room dimension"
// @Param groupName query string false "Group dimension"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedules/availability [get]
func (h *ScheduleHandler) Availability(c *gin.Context) {
	dayID, err := strconv.Atoi(c.Query("dayId"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "dayId must be an integer"))
		return
	}
	slotID, err := strconv.Atoi(c.Query("slotId"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "slotId must be an integer"))
		return
	}

	proposal := models.ConflictProposal{
		TrainerID: c.Query("trainerId"),
		Room:      c.Query("room"),
		GroupName: c.Query("groupName"),
		DayID:     dayID,
		SlotID:    slotID,
	}
	result, err := h.schedules.Availability(c.Request.Context(), proposal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
