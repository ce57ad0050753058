package dto

import (
	"time"

	"job-tracker/internal/ledger"
	"job-tracker/internal/models"

	"github.com/google/uuid"
)

// DateLayout is the wire format of every calendar date.
const DateLayout = "2006-01-02"

// CreateApplicationRequest carries the add-application form. Company name and
// job title are required; the service reports them missing.
type CreateApplicationRequest struct {
	UserID          uuid.UUID      `json:"-"`
	CompanyName     string         `json:"company_name" validate:"omitempty,max=200"`
	CompanyIndustry string         `json:"company_industry" validate:"omitempty,max=200"`
	CompanyLocation string         `json:"company_location" validate:"omitempty,max=200"`
	CompanyLogo     string         `json:"company_logo" validate:"omitempty,url"`
	JobTitle        string         `json:"job_title" validate:"omitempty,max=200"`
	JobType         models.JobType `json:"job_type" validate:"omitempty,job_type"`
	JobLocation     string         `json:"job_location" validate:"omitempty,max=200"`
	PostedDate      string         `json:"posted_date" validate:"omitempty,datetime=2006-01-02"`
	Status          models.Status  `json:"status" validate:"omitempty,app_status"` // defaults to Saved
	StatusDate      string         `json:"status_date" validate:"omitempty,datetime=2006-01-02"`
	Notes           string         `json:"notes" validate:"omitempty,max=2000"`
}

// ListApplicationsRequest filters a user's applications. Empty slices match everything.
type ListApplicationsRequest struct {
	UserID   uuid.UUID        `form:"-"`
	Statuses []models.Status  `form:"status" validate:"omitempty,dive,app_status"`
	JobTypes []models.JobType `form:"job_type" validate:"omitempty,dive,job_type"`
	Search   string           `form:"search" validate:"omitempty,max=200"`
	Limit    int              `form:"limit" validate:"omitempty,gte=0,lte=1000"`
}

// UpdateStatusRequest records a transition. Status is checked against the
// ledger's status set by the service.
type UpdateStatusRequest struct {
	ApplicationID uuid.UUID `json:"-"`
	UserID        uuid.UUID `json:"-"`
	Status        string    `json:"status"`
	StatusDate    string    `json:"status_date" validate:"omitempty,datetime=2006-01-02"`
	Notes         string    `json:"notes" validate:"omitempty,max=2000"`
}

type ApplicationResponse struct {
	ID                uuid.UUID      `json:"id"`
	CompanyName       string         `json:"company_name"`
	CompanyLogo       string         `json:"company_logo"`
	CompanyIndustry   string         `json:"company_industry"`
	CompanyLocation   string         `json:"company_location"`
	JobTitle          string         `json:"job_title"`
	JobType           models.JobType `json:"job_type,omitempty"`
	JobLocation       string         `json:"job_location"`
	PostedDate        string         `json:"posted_date,omitempty"`
	CurrentStatus     models.Status  `json:"current_status"`
	StatusChangedDate string         `json:"status_changed_date"`
	DaysInStatus      int            `json:"days_in_status"`
	Notes             string         `json:"notes"`
	CreatedAt         time.Time      `json:"created_at"`
}

type HistoryEntryResponse struct {
	ID         uuid.UUID     `json:"id"`
	Status     models.Status `json:"status"`
	StatusDate string        `json:"status_date"`
	Notes      string        `json:"notes"`
}

// ApplicationDetailResponse is one application with its ledger and pipeline view.
type ApplicationDetailResponse struct {
	ApplicationResponse
	History  []HistoryEntryResponse `json:"history"`
	Timeline ledger.Timeline        `json:"timeline"`
}
