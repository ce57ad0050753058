package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"job-tracker/internal/models"
	"job-tracker/internal/services"
	"job-tracker/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// NewValidator returns a validator that also understands the app_status and
// job_type tags.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("app_status", func(fl validator.FieldLevel) bool {
		return models.Status(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("job_type", func(fl validator.FieldLevel) bool {
		return models.JobType(fl.Field().String()).Valid()
	})
	return v
}

func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{"Invalid validation error type"}
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		fieldName := fieldError.Field()
		switch fieldError.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("Field '%s' is required", fieldName))
		case "email":
			messages = append(messages, fmt.Sprintf("Field '%s' must be a valid email address", fieldName))
		case "max":
			messages = append(messages, fmt.Sprintf("Field '%s' must be at most %s characters long", fieldName, fieldError.Param()))
		case "datetime":
			messages = append(messages, fmt.Sprintf("Field '%s' must be a date in YYYY-MM-DD format", fieldName))
		case "app_status":
			messages = append(messages, fmt.Sprintf("Invalid status: %v", fieldError.Value()))
		case "job_type":
			messages = append(messages, fmt.Sprintf("Invalid job type: %v", fieldError.Value()))
		default:
			messages = append(messages, fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", fieldName, fieldError.Tag()))
		}
	}
	return messages
}

// respondError writes the status and body for an error returned by a service.
// action is used in the 500 message, e.g. "create application".
func respondError(c *gin.Context, err error, action string) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": vErr.Messages})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this resource"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Resource already exists"})
	default:
		log.WithField("path", c.FullPath()).Errorf("Failed to %s: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dto.DateLayout)
}

// daysSince counts calendar days from changed to now.
func daysSince(changed, now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(changed.Year(), changed.Month(), changed.Day(), 0, 0, 0, 0, time.UTC)
	if day.After(today) {
		return 0
	}
	return int(today.Sub(day).Hours() / 24)
}

// MapUserToResponse converts a models.User to a dto.UserResponse
func MapUserToResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// MapApplicationToResponse flattens an application with its job and company.
func MapApplicationToResponse(d *models.ApplicationDetails, now time.Time) dto.ApplicationResponse {
	resp := dto.ApplicationResponse{
		ID:                d.ID,
		CompanyName:       d.Company.Name,
		CompanyLogo:       d.Company.LogoURL,
		CompanyIndustry:   d.Company.Industry,
		CompanyLocation:   d.Company.Location,
		JobTitle:          d.Job.Title,
		JobType:           d.Job.Type,
		JobLocation:       d.Job.Location,
		CurrentStatus:     d.CurrentStatus,
		StatusChangedDate: formatDate(d.StatusChangedDate),
		DaysInStatus:      daysSince(d.StatusChangedDate, now),
		Notes:             d.Notes,
		CreatedAt:         d.CreatedAt,
	}
	if d.Job.PostedDate != nil {
		resp.PostedDate = formatDate(*d.Job.PostedDate)
	}
	return resp
}

func MapApplicationsToResponse(list []models.ApplicationDetails, now time.Time) []dto.ApplicationResponse {
	out := make([]dto.ApplicationResponse, 0, len(list))
	for i := range list {
		out = append(out, MapApplicationToResponse(&list[i], now))
	}
	return out
}

func MapHistoryToResponse(entries []models.StatusHistoryEntry) []dto.HistoryEntryResponse {
	out := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.HistoryEntryResponse{
			ID:         e.ID,
			Status:     e.Status,
			StatusDate: formatDate(e.StatusDate),
			Notes:      e.Notes,
		})
	}
	return out
}
