package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errListServers  = "failed to load servers"
	errListNodes    = "failed to load nodes"
	errNodeHistory  = "failed to load history"
	errScanFailed   = "discovery scan failed"
	errToggleFailed = "failed to set node state"

	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      List servers
// @Tags         servers
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, servers"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/servers [get]
func (h *Handler) listServers(c *gin.Context) {
	ctx := c.Request.Context()
	servers, err := h.services.Inventory.Servers(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListServers, "servers_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(servers), "servers": servers})
}

type scanRequest struct {
	LocalAddress string `json:"local_address" binding:"required"`
}

// @Summary      Scan the local subnet for servers
// @Tags         servers
// @Accept       json
// @Produce      json
// @Param        body  body  scanRequest  true  "Scan payload"
// @Success      200   {object}  map[string]interface{}  "found"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/servers/scan [post]
func (h *Handler) scanServers(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	ctx := c.Request.Context()
	found, err := h.services.Discovery.Scan(ctx, req.LocalAddress)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errScanFailed, "discovery_scan_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": found})
}

// @Summary      List nodes
// @Tags         nodes
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, nodes"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/nodes [get]
func (h *Handler) listNodes(c *gin.Context) {
	ctx := c.Request.Context()
	nodes, err := h.services.Inventory.Nodes(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListNodes, "nodes_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(nodes), "nodes": nodes})
}

// @Summary      Node telemetry history
// @Tags         nodes
// @Produce      json
// @Param        id    path   int     true   "Node ID"
// @Param        from  query  string  false  "Start of range (RFC3339)"
// @Param        to    query  string  false  "End of range (RFC3339)"
// @Success      200   {object}  map[string]interface{}  "count, points"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/nodes/{id}/history [get]
func (h *Handler) nodeHistory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var from, to time.Time
	if qs := c.Query("from"); qs != "" {
		t, err := time.Parse(time.RFC3339, qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' time; use RFC3339"})
			return
		}
		from = t
	}
	if qs := c.Query("to"); qs != "" {
		t, err := time.Parse(time.RFC3339, qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' time; use RFC3339"})
			return
		}
		to = t
	}

	ctx := c.Request.Context()
	points, err := h.services.Inventory.NodeHistory(ctx, id, from, to)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errNodeHistory, "node_history_failed", err, "node_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(points), "points": points})
}

type toggleRequest struct {
	State string `json:"state" binding:"required"` // on | off
}

// @Summary      Set node state
// @Description  Single attempt, no retry. A failure is returned
// @Description  synchronously so the caller can roll back its optimistic
// @Description  update.
// @Tags         nodes
// @Accept       json
// @Produce      json
// @Param        id    path  int            true  "Node ID"
// @Param        body  body  toggleRequest  true  "State payload"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/nodes/{id}/state [put]
func (h *Handler) toggleNode(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := h.services.Syncer.ToggleNode(ctx, id, req.State); err != nil {
		h.logAndJSONError(c, http.StatusBadGateway, errToggleFailed, "node_toggle_failed", err, "node_id", id, "state", req.State)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK, "state": req.State})
}
