package storage

import (
	"context"
	"time"

	"job-tracker/internal/models"
	"job-tracker/internal/transport/dto"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// CompanyRepository stores companies, deduplicated by name.
type CompanyRepository interface {
	// GetOrCreate returns the existing company with the same name, or inserts company.
	GetOrCreate(ctx context.Context, company *models.Company) (*models.Company, error)
}

// JobRepository stores jobs, deduplicated by company and title.
type JobRepository interface {
	GetOrCreate(ctx context.Context, job *models.Job) (*models.Job, error)
}

// ApplicationRepository defines the interface for application data operations.
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) (*models.Application, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.ApplicationDetails, error)
	// ListByUser returns the user's applications, most recent status change first.
	ListByUser(ctx context.Context, req *dto.ListApplicationsRequest) ([]models.ApplicationDetails, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status, date time.Time) error
	// Delete removes the application and, by cascade, its status history.
	Delete(ctx context.Context, id uuid.UUID) error
}

// StatusHistoryRepository is the append-only status ledger.
type StatusHistoryRepository interface {
	Append(ctx context.Context, entries ...models.StatusHistoryEntry) error
	// ListByApplication returns entries ordered by status date, then insertion, most recent first.
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.StatusHistoryEntry, error)
	ListByApplications(ctx context.Context, applicationIDs []uuid.UUID) (map[uuid.UUID][]models.StatusHistoryEntry, error)
}

// Store groups the repositories of one backend. WithTx runs fn against a
// transactional view of the store; fn's error rolls every write back.
type Store interface {
	Users() UserRepository
	Companies() CompanyRepository
	Jobs() JobRepository
	Applications() ApplicationRepository
	StatusHistory() StatusHistoryRepository
	WithTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}
