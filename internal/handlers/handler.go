package handlers

import (
	"microwave/internal/logger"
	"microwave/internal/service"
	"microwave/internal/ws"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services, the observer registry and logging.
type Handler struct {
	services *service.Service
	registry *ws.Registry
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, registry *ws.Registry, log *logger.Logger) *Handler {
	return &Handler{services: services, registry: registry, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Device endpoints. Only cancel needs a token; the token is validated in
	// the handler and handed to the coordinator as a plain capability bit.
	h.registerMicrowaveRoutes(router)

	// Audit log (protected)
	h.registerLogRoutes(router)

	// WebSocket observers — same port
	router.GET("/ws/microwave", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerMicrowaveRoutes(r *gin.Engine) {
	mw := r.Group("/microwave")
	{
		mw.GET("", h.getState)
		mw.POST("/power/increase", h.increasePower)
		mw.POST("/power/decrease", h.decreasePower)
		mw.POST("/counter/increase", h.increaseCounter)
		mw.POST("/counter/decrease", h.decreaseCounter)
		mw.POST("/cancel", h.cancel)
	}
}

func (h *Handler) registerLogRoutes(r *gin.Engine) {
	logs := r.Group("/logs", h.authMiddleware)
	{
		logs.GET("", h.getLogs)
	}
}
