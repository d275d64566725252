package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/todo-assistant/internal/models"
	"github.com/adanyl0v/todo-assistant/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleToggleTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleClearCompleted(c *gin.Context)
	HandleGetStats(c *gin.Context)

	HandleChat(c *gin.Context)
}

// Responder produces assistant replies from the current task collection.
type Responder interface {
	Respond(message string, tasks []models.Task) string
}

type handlerImpl struct {
	logger    zerolog.Logger
	auth      services.AuthService
	tasks     services.TaskService
	assistant Responder
	now       func() time.Time
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	taskService services.TaskService,
	responder Responder,
) Handler {
	return &handlerImpl{
		logger:    logger,
		auth:      authService,
		tasks:     taskService,
		assistant: responder,
		now:       time.Now,
	}
}

// RegisterRoutes mounts the v1 API on router. Everything except login sits
// behind the auth middleware when the auth service is enabled.
func RegisterRoutes(router gin.IRouter, h Handler, requireAuth bool) {
	router = router.Group("/api/v1")

	authRouter := router.Group("/auth")
	authRouter.POST("/login", h.HandleLogin)

	protected := router.Group("")
	if requireAuth {
		protected.Use(h.HandleAuthMiddleware)
	}

	protected.GET("/tasks", h.HandleGetTasks)
	protected.POST("/tasks", h.HandleCreateTask)
	protected.DELETE("/tasks", h.HandleClearCompleted)
	protected.GET("/tasks/:id", h.HandleGetTask)
	protected.PATCH("/tasks/:id", h.HandleUpdateTask)
	protected.DELETE("/tasks/:id", h.HandleDeleteTask)
	protected.POST("/tasks/:id/toggle", h.HandleToggleTask)
	protected.GET("/stats", h.HandleGetStats)
	protected.POST("/chat", h.HandleChat)
}
