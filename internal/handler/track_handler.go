package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cft-platform/planner-api/internal/service"
	appErrors "github.com/cft-platform/planner-api/pkg/errors"
	"github.com/cft-platform/planner-api/pkg/response"
)

// TrackHandler manages track endpoints.
type TrackHandler struct {
	service *service.TrackService
}

// NewTrackHandler constructs handler.
func NewTrackHandler(svc *service.TrackService) *TrackHandler {
	return &TrackHandler{service: svc}
}

// List godoc
// @Summary List tracks
// @Tags Tracks
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tracks [get]
func (h *TrackHandler) List(c *gin.Context) {
	tracks, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tracks, nil)
}

// Get godoc
// @Summary Get one track
// @Tags Tracks
// @Produce json
// @Param id path string true "Track ID"
// @Success 200 {object} response.Envelope
// @Router /tracks/{id} [get]
func (h *TrackHandler) Get(c *gin.Context) {
	track, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, track, nil)
}

// Create godoc
// @Summary Create a track
// @Tags Tracks
// @Accept json
// @Produce json
// @Param payload body service.TrackRequest true "Track payload"
// @Success 201 {object} response.Envelope
// @Router /tracks [post]
func (h *TrackHandler) Create(c *gin.Context) {
	var req service.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	track, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, track)
}

// Update godoc
// @Summary Update a track
// @Tags Tracks
// @Accept json
// @Produce json
// @Param id path string true "Track ID"
// @Param payload body service.TrackRequest true "Track payload"
// @Success 200 {object} response.Envelope
// @Router /tracks/{id} [put]
func (h *TrackHandler) Update(c *gin.Context) {
	var req service.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	track, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, track, nil)
}

// Delete godoc
// @Summary Delete a track
// @Tags Tracks
// @Produce json
// @Param id path string true "Track ID"
// @Success 204
// @Router /tracks/{id} [delete]
func (h *TrackHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
