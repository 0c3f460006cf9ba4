package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const errRunSync = "sync pass failed"

// @Summary      Run one sync pass now
// @Tags         sync
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/sync/run [post]
func (h *Handler) runSync(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.services.Syncer.RunPass(ctx); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errRunSync, "manual_sync_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// @Summary      Pause background sync
// @Description  Lifecycle hook for app backgrounding; no passes run until
// @Description  resumed.
// @Tags         sync
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/v1/sync/pause [post]
func (h *Handler) pauseSync(c *gin.Context) {
	h.services.Scheduler.Pause()
	c.JSON(http.StatusOK, gin.H{"state": h.services.Scheduler.State()})
}

// @Summary      Resume background sync
// @Tags         sync
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/v1/sync/resume [post]
func (h *Handler) resumeSync(c *gin.Context) {
	h.services.Scheduler.Resume()
	c.JSON(http.StatusOK, gin.H{"state": h.services.Scheduler.State()})
}

// @Summary      Background sync status
// @Tags         sync
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/v1/sync/status [get]
func (h *Handler) syncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.services.Scheduler.State()})
}
