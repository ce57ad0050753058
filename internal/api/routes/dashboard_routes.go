package routes

import (
	"job-tracker/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

func RegisterDashboardRoutes(rg *gin.RouterGroup, dashboardHandler handlers.DashboardHandlerInterface, authMiddleware gin.HandlerFunc) {
	rg.GET("/dashboard", authMiddleware, dashboardHandler.GetDashboard)
}

func RegisterCompanyRoutes(rg *gin.RouterGroup, companyHandler handlers.CompanyHandlerInterface, authMiddleware gin.HandlerFunc) {
	companies := rg.Group("/companies")
	companies.Use(authMiddleware)
	{
		companies.GET("/search", companyHandler.SearchCompanies)
	}
}
