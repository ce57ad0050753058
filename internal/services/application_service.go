package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"job-tracker/internal/ledger"
	"job-tracker/internal/metrics"
	"job-tracker/internal/models"
	"job-tracker/internal/storage"
	"job-tracker/internal/transport/dto"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type applicationService struct {
	store     storage.Store
	directory CompanyDirectory
	now       func() time.Time
}

// NewApplicationService creates a new instance of ApplicationService. The
// directory may be nil, in which case company details come from the request only.
func NewApplicationService(store storage.Store, directory CompanyDirectory) ApplicationService {
	return &applicationService{store: store, directory: directory, now: time.Now}
}

type createInput struct {
	status     models.Status
	statusDate time.Time
	postedDate *time.Time
}

func (s *applicationService) validateCreate(req *dto.CreateApplicationRequest) (createInput, error) {
	var (
		v  validation
		in createInput
	)
	if strings.TrimSpace(req.CompanyName) == "" {
		v.add("Company name is required")
	}
	if strings.TrimSpace(req.JobTitle) == "" {
		v.add("Job title is required")
	}

	in.status = models.StatusSaved
	if req.Status != "" {
		status, err := ledger.Validate(string(req.Status))
		if err != nil {
			v.add(fmt.Sprintf("Invalid status: %s", req.Status))
		}
		in.status = status
	}
	if req.JobType != "" && !req.JobType.Valid() {
		v.add(fmt.Sprintf("Invalid job type: %s", req.JobType))
	}

	statusDate, err := parseDate(req.StatusDate, dateOf(s.now()))
	if err != nil {
		v.add("Invalid status date")
	}
	in.statusDate = statusDate

	if req.PostedDate != "" {
		posted, err := time.Parse(dto.DateLayout, req.PostedDate)
		switch {
		case err != nil:
			v.add("Invalid job posted date")
		case !in.statusDate.IsZero() && posted.After(in.statusDate):
			v.add("Job posted date cannot be after the application date")
		default:
			in.postedDate = &posted
		}
	}
	return in, v.err()
}

// companyFromRequest fills in what the form left blank from the directory,
// then falls back to the default logo.
func (s *applicationService) companyFromRequest(ctx context.Context, req *dto.CreateApplicationRequest) *models.Company {
	company := &models.Company{
		Name:     strings.TrimSpace(req.CompanyName),
		Industry: strings.TrimSpace(req.CompanyIndustry),
		Location: strings.TrimSpace(req.CompanyLocation),
		LogoURL:  strings.TrimSpace(req.CompanyLogo),
	}
	if s.directory != nil && company.LogoURL == "" {
		if match, ok := s.directory.Lookup(ctx, company.Name); ok && strings.EqualFold(match.Name, company.Name) {
			company.LogoURL = match.Logo
			if company.Industry == "" {
				company.Industry = match.Industry
			}
			if company.Location == "" {
				company.Location = match.Location
			}
		}
	}
	if company.LogoURL == "" {
		company.LogoURL = models.DefaultCompanyLogo
	}
	return company
}

// Create stores the company, job and application and seeds the ledger in one
// transaction.
func (s *applicationService) Create(ctx context.Context, req *dto.CreateApplicationRequest) (*models.ApplicationDetails, error) {
	in, err := s.validateCreate(req)
	if err != nil {
		return nil, err
	}
	company := s.companyFromRequest(ctx, req)

	var (
		details *models.ApplicationDetails
		written []models.StatusHistoryEntry
	)
	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		c, err := tx.Companies().GetOrCreate(ctx, company)
		if err != nil {
			return err
		}
		j, err := tx.Jobs().GetOrCreate(ctx, &models.Job{
			CompanyID:  c.ID,
			Title:      strings.TrimSpace(req.JobTitle),
			Type:       req.JobType,
			Location:   strings.TrimSpace(req.JobLocation),
			PostedDate: in.postedDate,
		})
		if err != nil {
			return err
		}
		app, err := tx.Applications().Create(ctx, &models.Application{
			ID:                uuid.New(),
			JobID:             j.ID,
			UserID:            req.UserID,
			CurrentStatus:     in.status,
			StatusChangedDate: in.statusDate,
			Notes:             req.Notes,
		})
		if err != nil {
			return err
		}
		entries, err := ledger.Seed(app.ID, in.status, in.statusDate, req.Notes)
		if err != nil {
			return NewValidationError(err.Error())
		}
		if err := tx.StatusHistory().Append(ctx, entries...); err != nil {
			return err
		}
		details = &models.ApplicationDetails{Application: *app, Job: *j, Company: *c}
		written = entries
		return nil
	})
	if err != nil {
		return nil, MapRepoError(err, "create application")
	}
	for _, e := range written {
		metrics.RecordLedgerEntry(string(e.Status))
	}

	log.WithFields(log.Fields{
		"application_id": details.ID,
		"user_id":        details.UserID,
		"status":         details.CurrentStatus,
	}).Info("Application tracked")
	return details, nil
}

func (s *applicationService) List(ctx context.Context, req *dto.ListApplicationsRequest) ([]models.ApplicationDetails, error) {
	apps, err := s.store.Applications().ListByUser(ctx, req)
	if err != nil {
		return nil, MapRepoError(err, "list applications")
	}
	return apps, nil
}

// owned loads the application and checks it belongs to userID.
func owned(ctx context.Context, store storage.Store, userID, id uuid.UUID) (*models.ApplicationDetails, error) {
	d, err := store.Applications().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.UserID != userID {
		log.WithFields(log.Fields{"application_id": id, "user_id": userID}).Warn("Access to another user's application denied")
		return nil, ErrForbidden
	}
	return d, nil
}

func (s *applicationService) Get(ctx context.Context, userID, id uuid.UUID) (*ApplicationView, error) {
	d, err := owned(ctx, s.store, userID, id)
	if err != nil {
		return nil, MapRepoError(err, "get application")
	}
	history, err := s.store.StatusHistory().ListByApplication(ctx, id)
	if err != nil {
		return nil, MapRepoError(err, "get status history")
	}
	if !ledger.Consistent(d.Application, history) {
		log.WithFields(log.Fields{"application_id": id, "current_status": d.CurrentStatus}).
			Warn("Stored status disagrees with status history")
	}
	return &ApplicationView{
		Details:  *d,
		History:  history,
		Timeline: ledger.BuildTimeline(d.CurrentStatus, history),
	}, nil
}

// UpdateStatus records a transition. The status change and the ledger entry
// are written in one transaction; an invalid status writes nothing.
func (s *applicationService) UpdateStatus(ctx context.Context, req *dto.UpdateStatusRequest) (*models.Application, error) {
	var v validation
	status, err := ledger.Validate(req.Status)
	if err != nil {
		v.add(fmt.Sprintf("Invalid status: %s", req.Status))
	}
	date, err := parseDate(req.StatusDate, dateOf(s.now()))
	if err != nil {
		v.add("Invalid status date")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	var updated models.Application
	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		d, err := owned(ctx, tx, req.UserID, req.ApplicationID)
		if err != nil {
			return err
		}
		app := d.Application
		entry, err := ledger.Transition(&app, status, date, req.Notes)
		if err != nil {
			return NewValidationError(err.Error())
		}
		if err := tx.Applications().UpdateStatus(ctx, app.ID, app.CurrentStatus, app.StatusChangedDate); err != nil {
			return err
		}
		if err := tx.StatusHistory().Append(ctx, entry); err != nil {
			return err
		}
		updated = app
		return nil
	})
	if err != nil {
		return nil, MapRepoError(err, "update application status")
	}
	metrics.RecordLedgerEntry(string(updated.CurrentStatus))

	log.WithFields(log.Fields{"application_id": updated.ID, "status": updated.CurrentStatus}).Info("Application status updated")
	return &updated, nil
}

func (s *applicationService) History(ctx context.Context, userID, id uuid.UUID) ([]models.StatusHistoryEntry, error) {
	if _, err := owned(ctx, s.store, userID, id); err != nil {
		return nil, MapRepoError(err, "get status history")
	}
	history, err := s.store.StatusHistory().ListByApplication(ctx, id)
	if err != nil {
		return nil, MapRepoError(err, "get status history")
	}
	return history, nil
}

// Delete removes the application and its whole ledger.
func (s *applicationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		if _, err := owned(ctx, tx, userID, id); err != nil {
			return err
		}
		return tx.Applications().Delete(ctx, id)
	})
	if err != nil {
		return MapRepoError(err, "delete application")
	}
	return nil
}

// ExportCSV writes every application of the user as Company, Title, Status, Status Date.
func (s *applicationService) ExportCSV(ctx context.Context, userID uuid.UUID, w io.Writer) error {
	apps, err := s.store.Applications().ListByUser(ctx, &dto.ListApplicationsRequest{UserID: userID})
	if err != nil {
		return MapRepoError(err, "export applications")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Company", "Title", "Status", "Status Date"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, a := range apps {
		record := []string{
			a.Company.Name,
			a.Job.Title,
			string(a.CurrentStatus),
			a.StatusChangedDate.Format(dto.DateLayout),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
