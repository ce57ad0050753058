package routes

import (
	"job-tracker/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers signup, login and session routes. Signup and
// login are rate limited per client IP.
func RegisterAuthRoutes(
	rg *gin.RouterGroup,
	authHandler handlers.AuthHandlerInterface,
	authMiddleware gin.HandlerFunc,
	rateLimit gin.HandlerFunc,
) {
	auth := rg.Group("/auth")
	{
		auth.POST("/signup", rateLimit, authHandler.Signup)
		auth.POST("/login", rateLimit, authHandler.Login)
		auth.POST("/logout", authMiddleware, authHandler.Logout)
		auth.GET("/me", authMiddleware, authHandler.Me)
	}
}
