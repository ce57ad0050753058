package routes

import (
	"job-tracker/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterApplicationRoutes registers all routes related to tracked applications.
// It applies the provided authentication middleware to all of them.
func RegisterApplicationRoutes(
	rg *gin.RouterGroup,
	applicationHandler handlers.ApplicationHandlerInterface,
	authMiddleware gin.HandlerFunc,
) {
	apps := rg.Group("/applications")
	apps.Use(authMiddleware)
	{
		apps.POST("", applicationHandler.CreateApplication)
		apps.GET("", applicationHandler.ListApplications)
		apps.GET("/export", applicationHandler.ExportApplications)
		apps.GET("/:id", applicationHandler.GetApplication)
		apps.PATCH("/:id/status", applicationHandler.UpdateStatus)
		apps.GET("/:id/history", applicationHandler.GetHistory)
		apps.DELETE("/:id", applicationHandler.DeleteApplication)
	}
}
