package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"job-tracker/internal/models"
	"job-tracker/internal/storage"
	"job-tracker/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// ApplicationRepo implements the storage.ApplicationRepository interface using PostgreSQL.
type ApplicationRepo struct {
	db Querier
}

func NewApplicationRepo(db Querier) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

// Compile-time check to ensure ApplicationRepo implements ApplicationRepository
var _ storage.ApplicationRepository = (*ApplicationRepo)(nil)

const applicationDetailsQuery = `
	SELECT a.id, a.job_id, a.user_id, a.current_status, a.status_changed_date, a.notes, a.created_at,
	       j.id, j.company_id, j.title, COALESCE(j.job_type, ''), j.location, j.posted_date, j.created_at,
	       c.id, c.name, c.industry, c.location, c.logo_url, c.created_at
	FROM applications a
	JOIN jobs j ON j.id = a.job_id
	JOIN companies c ON c.id = j.company_id
`

func scanApplicationDetails(row pgx.Row) (models.ApplicationDetails, error) {
	var d models.ApplicationDetails
	err := row.Scan(
		&d.ID, &d.JobID, &d.UserID, &d.CurrentStatus, &d.StatusChangedDate, &d.Notes, &d.CreatedAt,
		&d.Job.ID, &d.Job.CompanyID, &d.Job.Title, &d.Job.Type, &d.Job.Location, &d.Job.PostedDate, &d.Job.CreatedAt,
		&d.Company.ID, &d.Company.Name, &d.Company.Industry, &d.Company.Location, &d.Company.LogoURL, &d.Company.CreatedAt,
	)
	return d, err
}

func (r *ApplicationRepo) Create(ctx context.Context, app *models.Application) (*models.Application, error) {
	id := app.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	query := `
		INSERT INTO applications (id, job_id, user_id, current_status, status_changed_date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, job_id, user_id, current_status, status_changed_date, notes, created_at
	`
	var created models.Application
	err := r.db.QueryRow(ctx, query, id, app.JobID, app.UserID, string(app.CurrentStatus), app.StatusChangedDate, app.Notes).Scan(
		&created.ID,
		&created.JobID,
		&created.UserID,
		&created.CurrentStatus,
		&created.StatusChangedDate,
		&created.Notes,
		&created.CreatedAt,
	)
	if err != nil {
		switch pgErrorCode(err) {
		case codeForeignKeyViolation, codeUniqueViolation:
			log.Printf("Error creating application (constraint violation): %v", err)
			return nil, fmt.Errorf("failed to create application: %w", storage.ErrConflict)
		}
		log.Printf("Error creating application: %v", err)
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	log.WithFields(log.Fields{"application_id": created.ID, "user_id": created.UserID}).Info("Application created")
	return &created, nil
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ApplicationDetails, error) {
	d, err := scanApplicationDetails(r.db.QueryRow(ctx, applicationDetailsQuery+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Application not found with ID: %s", id)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error retrieving application by ID %s: %v", id, err)
		return nil, fmt.Errorf("failed to get application by ID %s: %w", id, err)
	}
	return &d, nil
}

func (r *ApplicationRepo) ListByUser(ctx context.Context, req *dto.ListApplicationsRequest) ([]models.ApplicationDetails, error) {
	conditions := []string{"a.user_id = $1"}
	args := []any{req.UserID}

	if len(req.Statuses) > 0 {
		statuses := make([]string, len(req.Statuses))
		for i, s := range req.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		conditions = append(conditions, fmt.Sprintf("a.current_status = ANY($%d)", len(args)))
	}
	if len(req.JobTypes) > 0 {
		types := make([]string, len(req.JobTypes))
		for i, jt := range req.JobTypes {
			types[i] = string(jt)
		}
		args = append(args, types)
		conditions = append(conditions, fmt.Sprintf("j.job_type = ANY($%d)", len(args)))
	}
	if search := strings.TrimSpace(req.Search); search != "" {
		args = append(args, likePattern(search))
		conditions = append(conditions, fmt.Sprintf("(c.name ILIKE $%d OR j.title ILIKE $%d)", len(args), len(args)))
	}

	query := buildApplicationListQuery(applicationDetailsQuery, conditions, &args, req.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Error querying applications for user %s: %v", req.UserID, err)
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ApplicationDetails, error) {
		return scanApplicationDetails(row)
	})
	if err != nil {
		log.Printf("Error scanning applications for user %s: %v", req.UserID, err)
		return nil, fmt.Errorf("failed to scan applications: %w", err)
	}

	if apps == nil {
		apps = []models.ApplicationDetails{} // Return empty slice, not nil
	}
	return apps, nil
}

func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status, date time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE applications SET current_status = $1, status_changed_date = $2 WHERE id = $3`,
		string(status), date, id)
	if err != nil {
		log.Printf("Error updating status of application %s: %v", id, err)
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Delete relies on ON DELETE CASCADE to remove the status history.
func (r *ApplicationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		log.Printf("Error deleting application %s: %v", id, err)
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		log.Printf("Attempted to delete non-existent application %s", id)
		return storage.ErrNotFound
	}
	log.WithField("application_id", id).Info("Application deleted")
	return nil
}
