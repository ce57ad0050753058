package handlers

import "github.com/gin-gonic/gin"

// AuthHandlerInterface defines the methods needed by the auth routes.
type AuthHandlerInterface interface {
	Signup(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
}

// ApplicationHandlerInterface defines the methods needed by the application routes.
type ApplicationHandlerInterface interface {
	CreateApplication(c *gin.Context)
	ListApplications(c *gin.Context)
	GetApplication(c *gin.Context)
	UpdateStatus(c *gin.Context)
	GetHistory(c *gin.Context)
	DeleteApplication(c *gin.Context)
	ExportApplications(c *gin.Context)
}

type DashboardHandlerInterface interface {
	GetDashboard(c *gin.Context)
}

type CompanyHandlerInterface interface {
	SearchCompanies(c *gin.Context)
}

// Ensure handlers implements the interface (compile-time check)
var _ AuthHandlerInterface = (*AuthHandler)(nil)
var _ ApplicationHandlerInterface = (*ApplicationHandler)(nil)
var _ DashboardHandlerInterface = (*DashboardHandler)(nil)
var _ CompanyHandlerInterface = (*CompanyHandler)(nil)
