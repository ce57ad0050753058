package routes

import (
	"job-tracker/internal/api/handlers"
	"job-tracker/internal/api/middleware"
	"job-tracker/internal/app"
	"job-tracker/internal/metrics"
	"job-tracker/internal/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up the API routes by calling resource-specific registration functions
func RegisterRoutes(router *gin.Engine, app *app.Application) {

	// --- Base API Group ---
	apiV1 := router.Group("/api/v1")

	// --- Services ---
	var directory services.CompanyDirectory
	if app.Directory != nil {
		directory = app.Directory
	}
	userService := services.NewUserService(app.Store, app.Sessions)
	applicationService := services.NewApplicationService(app.Store, directory)
	dashboardService := services.NewDashboardService(app.Store)
	companyService := services.NewCompanyService(directory)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userService, app.Validator)
	applicationHandler := handlers.NewApplicationHandler(applicationService, app.Validator)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	companyHandler := handlers.NewCompanyHandler(companyService, app.Validator)

	// --- Middleware ---
	authMiddleware := middleware.SessionAuth(app.Sessions)
	authLimiter := middleware.NewRateLimiter(app.Config.RateLimit.RequestsPerSecond, app.Config.RateLimit.Burst)

	// --- Register Resource Routes ---
	RegisterAuthRoutes(apiV1, authHandler, authMiddleware, authLimiter.Handler())
	RegisterApplicationRoutes(apiV1, applicationHandler, authMiddleware)
	RegisterDashboardRoutes(apiV1, dashboardHandler, authMiddleware)
	RegisterCompanyRoutes(apiV1, companyHandler, authMiddleware)

	// --- Health Check and Metrics ---
	router.GET("/health", handlers.HealthCheck(app.Store))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	log.Println("Configuring Swagger UI handler")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
