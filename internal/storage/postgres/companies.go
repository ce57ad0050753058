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

// CompanyRepo implements the storage.CompanyRepository interface using PostgreSQL.
type CompanyRepo struct {
	db Querier
}

func NewCompanyRepo(db Querier) *CompanyRepo {
	return &CompanyRepo{db: db}
}

var _ storage.CompanyRepository = (*CompanyRepo)(nil)

const companyColumns = `id, name, industry, location, logo_url, created_at`

func scanCompany(row pgx.Row) (*models.Company, error) {
	var c models.Company
	if err := row.Scan(&c.ID, &c.Name, &c.Industry, &c.Location, &c.LogoURL, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetOrCreate inserts the company unless one with the same name exists, in
// which case the stored row is returned unchanged.
func (r *CompanyRepo) GetOrCreate(ctx context.Context, company *models.Company) (*models.Company, error) {
	id := company.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	insert := `
		INSERT INTO companies (id, name, industry, location, logo_url, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (name) DO NOTHING
		RETURNING ` + companyColumns

	c, err := scanCompany(r.db.QueryRow(ctx, insert, id, company.Name, company.Industry, company.Location, company.LogoURL))
	if err == nil {
		log.WithFields(log.Fields{"company_id": c.ID, "name": c.Name}).Debug("CompanyRepo: created company")
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("Error creating company %q: %v", company.Name, err)
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	c, err = scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE name = $1`, company.Name))
	if err != nil {
		log.Printf("Error loading company %q: %v", company.Name, err)
		return nil, fmt.Errorf("failed to load company %q: %w", company.Name, err)
	}
	return c, nil
}
