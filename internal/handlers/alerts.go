package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	errListAlerts = "failed to load alerts"
	errAckAlert   = "failed to acknowledge alert"
)

// @Summary      List alerts
// @Tags         alerts
// @Produce      json
// @Param        unacknowledged  query  bool  false  "Only open alerts"
// @Success      200  {object}  map[string]interface{}  "count, alerts"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/alerts [get]
func (h *Handler) listAlerts(c *gin.Context) {
	ctx := c.Request.Context()

	list := h.services.Alerts.All
	if c.Query("unacknowledged") == "true" {
		list = h.services.Alerts.Unacknowledged
	}

	alerts, err := list(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListAlerts, "alerts_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(alerts), "alerts": alerts})
}

// @Summary      Acknowledge an alert
// @Tags         alerts
// @Produce      json
// @Param        id  path  string  true  "Alert ID"
// @Success      200  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/alerts/{id}/ack [post]
func (h *Handler) acknowledgeAlert(c *gin.Context) {
	id := c.Param("id")

	ctx := c.Request.Context()
	if err := h.services.Alerts.Acknowledge(ctx, id); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errAckAlert, "alert_ack_failed", err, "alert_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}
