package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cft-platform/planner-api/internal/models"
	"github.com/cft-platform/planner-api/internal/service"
	appErrors "github.com/cft-platform/planner-api/pkg/errors"
	"github.com/cft-platform/planner-api/pkg/response"
)

// TrainerHandler manages trainer roster endpoints.
type TrainerHandler struct {
	service *service.TrainerService
}

// NewTrainerHandler constructs handler.
func NewTrainerHandler(svc *service.TrainerService) *TrainerHandler {
	return &TrainerHandler{service: svc}
}

// List godoc
// @Summary List trainers
// @Tags Trainers
// @Produce json
// @Param name query string false "Filter by name"
// @Param role query string false "Filter by role"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /trainers [get]
func (h *TrainerHandler) List(c *gin.Context) {
	var filter models.TrainerFilter
	filter.Name = c.Query("name")
	filter.Role = models.TrainerRole(c.Query("role"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}

	trainers, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainers, pagination)
}

// Get godoc
// @Summary Get one trainer
// @Tags Trainers
// @Produce json
// @Param id path string true "Trainer ID"
// @Success 200 {object} response.Envelope
// @Router /trainers/{id} [get]
func (h *TrainerHandler) Get(c *gin.Context) {
	trainer, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainer, nil)
}

// Create godoc
// @Summary Register a trainer
// @Tags Trainers
// @Accept json
// @Produce json
// @Param payload body service.CreateTrainerRequest true "Trainer payload"
// @Success 201 {object} response.Envelope
// @Router /trainers [post]
func (h *TrainerHandler) Create(c *gin.Context) {
	var req service.CreateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	trainer, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, trainer)
}

// Update godoc
// @Summary Update a trainer
// @Tags Trainers
// @Accept json
// @Produce json
// @Param id path string true "Trainer ID"
// @Param payload body service.UpdateTrainerRequest true "Trainer payload"
// @Success 200 {object} response.Envelope
// @Router /trainers/{id} [put]
func (h *TrainerHandler) Update(c *gin.Context) {
	var req service.UpdateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	trainer, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainer, nil)
}

// Delete godoc
// @Summary Delete a trainer
// @Tags Trainers
// @Produce json
// @Param id path string true "Trainer ID"
// @Success 204
// @Router /trainers/{id} [delete]
func (h *TrainerHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
