package handlers

import (
	"net/http"
	"time"

	"job-tracker/internal/api/middleware"
	"job-tracker/internal/services"
	"job-tracker/internal/transport/dto"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type DashboardHandler struct {
	service services.DashboardService
	now     func() time.Time
}

func NewDashboardHandler(service services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service, now: time.Now}
}

// GetDashboard godoc
// @Summary      Dashboard
// @Description  Ghost rate, response time, volume rates, funnel conversion and status flow for the caller's applications.
// @Tags         dashboard
// @Produce      json
// @Success      200 {object}  dto.DashboardResponse "Analytics summary"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /dashboard [get]
// @Security     BearerAuth
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		log.Printf("Error getting user ID from context: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	dashboard, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "load dashboard")
		return
	}
	c.JSON(http.StatusOK, dto.DashboardResponse{
		Summary: dashboard.Summary,
		Recent:  MapApplicationsToResponse(dashboard.Recent, h.now()),
	})
}
