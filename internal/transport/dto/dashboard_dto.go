package dto

import "job-tracker/internal/analytics"

// DashboardResponse is the analytics summary plus the latest applications.
type DashboardResponse struct {
	analytics.Summary
	Recent []ApplicationResponse `json:"recent"`
}
