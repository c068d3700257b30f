package routes

import (
	"github.com/gin-gonic/gin"

	"tasktracker/internal/config"
	"tasktracker/internal/controller"
	"tasktracker/internal/middleware"
)

// Router builds the gin engine with all task routes.
func Router(ctrl *controller.Controller) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(config.Get().CORSOrigins))

	router.GET("/health", ctrl.Health)

	router.GET("/tasks", ctrl.ListTasks)
	router.GET("/tasks/stats", ctrl.GetStats)
	router.GET("/tasks/:id", ctrl.GetTask)
	router.POST("/tasks", ctrl.CreateTask)
	router.PUT("/tasks/:id", ctrl.UpdateTask)
	router.POST("/tasks/:id/complete", ctrl.CompleteTask)
	router.DELETE("/tasks/:id", ctrl.DeleteTask)

	return router
}
