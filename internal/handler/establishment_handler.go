package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cft-platform/planner-api/internal/service"
	appErrors "github.com/cft-platform/planner-api/pkg/errors"
	"github.com/cft-platform/planner-api/pkg/response"
)

// EstablishmentHandler manages establishment endpoints.
type EstablishmentHandler struct {
	service *service.EstablishmentService
}

// NewEstablishmentHandler constructs handler.
func NewEstablishmentHandler(svc *service.EstablishmentService) *EstablishmentHandler {
	return &EstablishmentHandler{service: svc}
}

// List godoc
// @Summary List establishments
// @Tags Establishments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /establishments [get]
func (h *EstablishmentHandler) List(c *gin.Context) {
	establishments, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, establishments, nil)
}

// Get godoc
// @Summary Get one establishment
// @Tags Establishments
// @Produce json
// @Param id path string true "Establishment ID"
// @Success 200 {object} response.Envelope
// @Router /establishments/{id} [get]
func (h *EstablishmentHandler) Get(c *gin.Context) {
	establishment, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, establishment, nil)
}

// Create godoc
// @Summary Create an establishment
// @Tags Establishments
// @Accept json
// @Produce json
// @Param payload body service.EstablishmentRequest true "Establishment payload"
// @Success 201 {object} response.Envelope
// @Router /establishments [post]
func (h *EstablishmentHandler) Create(c *gin.Context) {
	var req service.EstablishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	establishment, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, establishment)
}

// Update godoc
// @Summary Update an establishment
// @Tags Establishments
// @Accept json
// @Produce json
// @Param id path string true "Establishment ID"
// @Param payload body service.EstablishmentRequest true "Establishment payload"
// @Success 200 {object} response.Envelope
// @Router /establishments/{id} [put]
func (h *EstablishmentHandler) Update(c *gin.Context) {
	var req service.EstablishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	establishment, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, establishment, nil)
}

// Delete godoc
// @Summary Delete an establishment
// @Tags Establishments
// @Produce json
// @Param id path string true "Establishment ID"
// @Success 204
// @Router /establishments/{id} [delete]
func (h *EstablishmentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
