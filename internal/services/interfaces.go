package services

import (
	"context"
	"io"

	"job-tracker/internal/analytics"
	"job-tracker/internal/ledger"
	"job-tracker/internal/models"
	"job-tracker/internal/session"
	"job-tracker/internal/transport/dto"

	"github.com/google/uuid"
)

// AuthResult is returned by signup and login.
type AuthResult struct {
	User    *models.User
	Token   string
	Session *session.Session
}

// UserService defines the interface for account and session logic.
type UserService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error)
	Logout(ctx context.Context, s *session.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ApplicationView is an application with its ledger and pipeline timeline.
type ApplicationView struct {
	Details  models.ApplicationDetails
	History  []models.StatusHistoryEntry
	Timeline ledger.Timeline
}

// ApplicationService defines the interface for application and ledger logic.
// Every method is scoped to the calling user.
type ApplicationService interface {
	Create(ctx context.Context, req *dto.CreateApplicationRequest) (*models.ApplicationDetails, error)
	List(ctx context.Context, req *dto.ListApplicationsRequest) ([]models.ApplicationDetails, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*ApplicationView, error)
	UpdateStatus(ctx context.Context, req *dto.UpdateStatusRequest) (*models.Application, error)
	History(ctx context.Context, userID, id uuid.UUID) ([]models.StatusHistoryEntry, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ExportCSV(ctx context.Context, userID uuid.UUID, w io.Writer) error
}

// Dashboard is the analytics summary plus the most recently changed applications.
type Dashboard struct {
	analytics.Summary
	Recent []models.ApplicationDetails `json:"recent"`
}

type DashboardService interface {
	Get(ctx context.Context, userID uuid.UUID) (*Dashboard, error)
}

type CompanyService interface {
	Search(ctx context.Context, req *dto.CompanySearchRequest) []models.DirectoryCompany
}

// CompanyDirectory is the remote lookup used for autocomplete and to fill in
// company details on creation.
type CompanyDirectory interface {
	Suggest(ctx context.Context, query string) []models.DirectoryCompany
	Lookup(ctx context.Context, name string) (models.DirectoryCompany, bool)
}
