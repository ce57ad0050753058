package postgres

import (
	"context"
	"errors"
	"fmt"

	"job-tracker/internal/models"
	"job-tracker/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// JobRepo implements the storage.JobRepository interface using PostgreSQL.
type JobRepo struct {
	db Querier
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(db Querier) *JobRepo {
	return &JobRepo{db: db}
}

// Compile-time check to ensure JobRepo implements JobRepository
var _ storage.JobRepository = (*JobRepo)(nil)

const jobColumns = `id, company_id, title, COALESCE(job_type, ''), location, posted_date, created_at`

func scanJob(row pgx.Row) (*models.Job, error) {
	var j models.Job
	if err := row.Scan(&j.ID, &j.CompanyID, &j.Title, &j.Type, &j.Location, &j.PostedDate, &j.CreatedAt); err != nil {
		return nil, err
	}
	return &j, nil
}

// GetOrCreate returns the job with the same company and title, inserting it if needed.
func (r *JobRepo) GetOrCreate(ctx context.Context, job *models.Job) (*models.Job, error) {
	id := job.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	insert := `
		INSERT INTO jobs (id, company_id, title, job_type, location, posted_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (company_id, title) DO NOTHING
		RETURNING ` + jobColumns

	j, err := scanJob(r.db.QueryRow(ctx, insert, id, job.CompanyID, job.Title, nullableJobType(job.Type), job.Location, job.PostedDate))
	if err == nil {
		return j, nil
	}
	if pgErrorCode(err) == codeForeignKeyViolation {
		log.Printf("Error creating job: Foreign key violation (company_id: %s): %v", job.CompanyID, err)
		return nil, fmt.Errorf("failed to create job: invalid company ID: %w", storage.ErrConflict)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("Error creating job %q: %v", job.Title, err)
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE company_id = $1 AND title = $2`
	j, err = scanJob(r.db.QueryRow(ctx, query, job.CompanyID, job.Title))
	if err != nil {
		log.Printf("Error loading job %q for company %s: %v", job.Title, job.CompanyID, err)
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	return j, nil
}
