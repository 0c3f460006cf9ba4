package handlers

import (
	"net/http"

	"auradash/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	errListSchedules  = "failed to load schedules"
	errCreateSchedule = "failed to create schedule"
	errUpdateSchedule = "failed to update schedule"
	errDeleteSchedule = "failed to delete schedule"
)

type scheduleRequest struct {
	NodeID  int64    `json:"node_id" binding:"required"`
	Action  string   `json:"action" binding:"required"` // on | off
	Time    string   `json:"time" binding:"required"`   // HH:MM
	Days    []string `json:"days"`
	Enabled bool     `json:"enabled"`
}

func (r scheduleRequest) toModel(id int64) models.Schedule {
	return models.Schedule{
		ID:      id,
		NodeID:  r.NodeID,
		Action:  r.Action,
		Time:    r.Time,
		Days:    r.Days,
		Enabled: r.Enabled,
	}
}

// @Summary      List schedules
// @Tags         schedules
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, schedules"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/schedules [get]
func (h *Handler) listSchedules(c *gin.Context) {
	ctx := c.Request.Context()
	schedules, err := h.services.Schedules.List(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListSchedules, "schedules_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(schedules), "schedules": schedules})
}

// @Summary      Create schedule
// @Description  The local row is authoritative; the push to the owning
// @Description  server is best-effort and a push failure is not an error.
// @Tags         schedules
// @Accept       json
// @Produce      json
// @Param        body  body  scheduleRequest  true  "Schedule payload"
// @Success      200   {object}  map[string]interface{}  "schedule"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/schedules [post]
func (h *Handler) createSchedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	ctx := c.Request.Context()
	created, err := h.services.Schedules.Create(ctx, req.toModel(0))
	if err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), "schedule_create_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": created})
}

// @Summary      Update schedule
// @Tags         schedules
// @Accept       json
// @Produce      json
// @Param        id    path  int              true  "Schedule ID"
// @Param        body  body  scheduleRequest  true  "Schedule payload"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/schedules/{id} [put]
func (h *Handler) updateSchedule(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := h.services.Schedules.Update(ctx, req.toModel(id)); err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), "schedule_update_failed", err, "schedule_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// @Summary      Delete schedule
// @Tags         schedules
// @Produce      json
// @Param        id  path  int  true  "Schedule ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/schedules/{id} [delete]
func (h *Handler) deleteSchedule(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.services.Schedules.Delete(ctx, id); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errDeleteSchedule, "schedule_delete_failed", err, "schedule_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}
