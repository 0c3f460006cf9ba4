package handlers

import (
	"auradash/internal/logger"
	"auradash/internal/notify"
	"auradash/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services, the notification hub and
// logging.
type Handler struct {
	services *service.Service
	hub      *notify.Hub
	log      *logger.Logger
}

func NewHandler(services *service.Service, hub *notify.Hub, log *logger.Logger) *Handler {
	return &Handler{services: services, hub: hub, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	// Notification feed (HTTP upgrade) — same port
	router.GET("/ws", h.wsConnect)

	api := router.Group("/api/v1")
	{
		h.registerServerRoutes(api)
		h.registerNodeRoutes(api)
		h.registerAlertRoutes(api)
		h.registerScheduleRoutes(api)
		h.registerSyncRoutes(api)
	}

	return router
}

func (h *Handler) registerServerRoutes(api *gin.RouterGroup) {
	servers := api.Group("/servers")
	{
		servers.GET("/", h.listServers)
		// Body example: {"local_address":"192.168.1.42"}
		servers.POST("/scan", h.scanServers)
	}
}

func (h *Handler) registerNodeRoutes(api *gin.RouterGroup) {
	nodes := api.Group("/nodes")
	{
		nodes.GET("/", h.listNodes)
		nodes.GET("/:id/history", h.nodeHistory)
		// Body example: {"state":"on"}
		nodes.PUT("/:id/state", h.toggleNode)
	}
}

func (h *Handler) registerAlertRoutes(api *gin.RouterGroup) {
	alerts := api.Group("/alerts")
	{
		alerts.GET("/", h.listAlerts)
		alerts.POST("/:id/ack", h.acknowledgeAlert)
	}
}

func (h *Handler) registerScheduleRoutes(api *gin.RouterGroup) {
	schedules := api.Group("/schedules")
	{
		schedules.GET("/", h.listSchedules)
		schedules.POST("/", h.createSchedule)
		schedules.PUT("/:id", h.updateSchedule)
		schedules.DELETE("/:id", h.deleteSchedule)
	}
}

func (h *Handler) registerSyncRoutes(api *gin.RouterGroup) {
	sync := api.Group("/sync")
	{
		sync.POST("/run", h.runSync)
		sync.POST("/pause", h.pauseSync)
		sync.POST("/resume", h.resumeSync)
		sync.GET("/status", h.syncStatus)
	}
}
