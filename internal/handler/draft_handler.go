package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cft-platform/planner-api/internal/middleware"
	"github.com/cft-platform/planner-api/internal/service"
	appErrors "github.com/cft-platform/planner-api/pkg/errors"
	"github.com/cft-platform/planner-api/pkg/response"
)

// DraftHandler manages draft assignment endpoints, including the two
// confirmation entry points.
type DraftHandler struct {
	drafts       *service.DraftService
	confirmation *service.ConfirmationService
}

// NewDraftHandler constructs handler.
func NewDraftHandler(drafts *service.DraftService, confirmation *service.ConfirmationService) *DraftHandler {
	return &DraftHandler{drafts: drafts, confirmation: confirmation}
}

// List godoc
// @Summary List draft assignments
// @Tags Drafts
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /drafts [get]
func (h *DraftHandler) List(c *gin.Context) {
	drafts, cached, err := h.drafts.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, drafts, nil, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get one draft assignment
// @Tags Drafts
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} response.Envelope
// @Router /drafts/{id} [get]
func (h *DraftHandler) Get(c *gin.Context) {
	draft, err := h.drafts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft, nil)
}

// Create godoc
// @Summary Propose a draft assignment
// @Tags Drafts
// @Accept json
// @Produce json
// @Param payload body service.CreateDraftRequest true "Draft payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /drafts [post]
func (h *DraftHandler) Create(c *gin.Context) {
	var req service.CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	draft, err := h.drafts.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, draft)
}

// Update godoc
// @Summary Update a draft assignment
// @Tags Drafts
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param payload body service.UpdateDraftRequest true "Draft payload"
// @Success 200 {object} response.Envelope
// @Router /drafts/{id} [put]
func (h *DraftHandler) Update(c *gin.Context) {
	var req service.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	draft, err := h.drafts.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft, nil)
}

// Delete godoc
// @Summary Delete a draft assignment
// @Tags Drafts
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} response.Envelope
// @Router /drafts/{id} [delete]
func (h *DraftHandler) Delete(c *gin.Context) {
	if err := h.drafts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{}, nil)
}

// Confirm godoc
// @Summary Promote one draft into a confirmed schedule
// @Tags Drafts
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /drafts/{id}/confirm [post]
func (h *DraftHandler) Confirm(c *gin.Context) {
	schedule, err := h.confirmation.ConfirmOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// ConfirmAll godoc
// @Summary Promote every draft into confirmed schedules
// @Tags Drafts
// @Produce json
// @Success 200 {object} response.Envelope
// @Success 207 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /drafts/confirm-all [post]
func (h *DraftHandler) ConfirmAll(c *gin.Context) {
	result, err := h.confirmation.ConfirmAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.AddWarnings(c, result.Warnings)
	if result.Partial() {
		response.Partial(c, result.Schedules, result.Errors, middleware.ExtractMeta(c))
		return
	}
	response.JSON(c, http.StatusOK, result.Schedules, nil, middleware.ExtractMeta(c))
}
