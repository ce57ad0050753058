package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"job-tracker/internal/api/middleware"
	"job-tracker/internal/services"
	"job-tracker/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ApplicationHandler holds dependencies for application and status history operations.
type ApplicationHandler struct {
	service   services.ApplicationService
	validator *validator.Validate
	now       func() time.Time
}

func NewApplicationHandler(service services.ApplicationService, validate *validator.Validate) *ApplicationHandler {
	return &ApplicationHandler{service: service, validator: validate, now: time.Now}
}

// userAndID reads the caller and the :id path parameter, writing the error
// response itself when either is missing.
func (h *ApplicationHandler) userAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		log.Printf("Error getting user ID from context: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID format"})
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

// CreateApplication godoc
// @Summary      Track a new application
// @Description  Creates the application, reusing the company and job when they already exist, and seeds its status history.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        application body dto.CreateApplicationRequest true "Application details"
// @Success      201 {object}  dto.ApplicationResponse "Application created"
// @Failure      400 {object}  map[string]interface{} "Validation failed"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		log.Printf("Error getting user ID from context: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": FormatValidationErrors(err)})
		return
	}
	req.UserID = userID

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "create application")
		return
	}
	c.JSON(http.StatusCreated, MapApplicationToResponse(created, h.now()))
}

// ListApplications godoc
// @Summary      List applications
// @Description  Lists the caller's applications, most recently changed first.
// @Tags         applications
// @Produce      json
// @Param        status   query []string false "Filter by current status" collectionFormat(multi)
// @Param        job_type query []string false "Filter by job type" collectionFormat(multi)
// @Param        search   query string   false "Match company name or job title"
// @Param        limit    query int      false "Maximum number of results"
// @Success      200 {array}   dto.ApplicationResponse "Applications"
// @Failure      400 {object}  map[string]interface{} "Validation failed"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		log.Printf("Error getting user ID from context: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ListApplicationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": FormatValidationErrors(err)})
		return
	}
	req.UserID = userID

	apps, err := h.service.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "retrieve applications")
		return
	}
	c.JSON(http.StatusOK, MapApplicationsToResponse(apps, h.now()))
}

// GetApplication godoc
// @Summary      Get an application
// @Description  Returns the application with its status history and pipeline timeline.
// @Tags         applications
// @Produce      json
// @Param        id path string true "Application ID" Format(uuid)
// @Success      200 {object}  dto.ApplicationDetailResponse "Application"
// @Failure      400 {object}  map[string]string "Invalid ID format"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Forbidden"
// @Failure      404 {object}  map[string]string "Application Not Found"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /applications/{id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	userID, id, ok := h.userAndID(c)
	if !ok {
		return
	}

	view, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err, "retrieve application")
		return
	}
	c.JSON(http.StatusOK, dto.ApplicationDetailResponse{
		ApplicationResponse: MapApplicationToResponse(&view.Details, h.now()),
		History:             MapHistoryToResponse(view.History),
		Timeline:            view.Timeline,
	})
}

// UpdateStatus godoc
// @Summary      Record a status change
// @Description  Sets the current status and appends an entry to the status history. Any status may follow any other.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id     path string                  true "Application ID" Format(uuid)
// @Param        status body dto.UpdateStatusRequest true "New status"
// @Success      200 {object}  map[string]interface{} "Updated status"
// @Failure      400 {object}  map[string]interface{} "Validation failed"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Forbidden"
// @Failure      404 {object}  map[string]string "Application Not Found"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /applications/{id}/status [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	userID, id, ok := h.userAndID(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": FormatValidationErrors(err)})
		return
	}
	req.UserID = userID
	req.ApplicationID = id

	app, err := h.service.UpdateStatus(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "update application status")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":                  app.ID,
		"current_status":      app.CurrentStatus,
		"status_changed_date": formatDate(app.StatusChangedDate),
	})
}

// GetHistory godoc
// @Summary      Status history
// @Description  Lists every recorded status of the application, most recent first.
// @Tags         applications
// @Produce      json
// @Param        id path string true "Application ID" Format(uuid)
// @Success      200 {array}   dto.HistoryEntryResponse "Status history"
// @Failure      400 {object}  map[string]string "Invalid ID format"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Forbidden"
// @Failure      404 {object}  map[string]string "Application Not Found"
// @Router       /applications/{id}/history [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetHistory(c *gin.Context) {
	userID, id, ok := h.userAndID(c)
	if !ok {
		return
	}

	history, err := h.service.History(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err, "retrieve status history")
		return
	}
	c.JSON(http.StatusOK, MapHistoryToResponse(history))
}

// DeleteApplication godoc
// @Summary      Delete an application
// @Description  Permanently removes the application and its status history.
// @Tags         applications
// @Param        id path string true "Application ID" Format(uuid)
// @Success      204 "Application deleted"
// @Failure      400 {object}  map[string]string "Invalid ID format"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      403 {object}  map[string]string "Forbidden"
// @Failure      404 {object}  map[string]string "Application Not Found"
// @Router       /applications/{id} [delete]
// @Security     BearerAuth
func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	userID, id, ok := h.userAndID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err, "delete application")
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportApplications godoc
// @Summary      Export applications
// @Description  Downloads every application as CSV with columns Company, Title, Status, Status Date.
// @Tags         applications
// @Produce      text/csv
// @Success      200 {file}    file "CSV file"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /applications/export [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ExportApplications(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		log.Printf("Error getting user ID from context: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportCSV(c.Request.Context(), userID, &buf); err != nil {
		respondError(c, err, "export applications")
		return
	}

	filename := fmt.Sprintf("jobs_%s.csv", h.now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
