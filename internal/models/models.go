package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultCompanyLogo is used when neither the form nor the directory supplies a logo.
const DefaultCompanyLogo = "https://storage.googleapis.com/simplify-imgs/company/default/logo.png"

// --- Application Status Enum ---
type Status string

const (
	StatusSaved     Status = "Saved"
	StatusApplied   Status = "Applied"
	StatusInterview Status = "Interview"
	StatusOffer     Status = "Offer"
	StatusRejected  Status = "Rejected"
)

// Statuses lists every valid status in pipeline order.
var Statuses = []Status{StatusSaved, StatusApplied, StatusInterview, StatusOffer, StatusRejected}

// Valid reports whether s belongs to the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusSaved, StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return true
	default:
		return false
	}
}

// ParseStatus converts a raw string into a Status, rejecting anything outside the set.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid status value: %q", raw)
	}
	return s, nil
}

// Scan implements the sql.Scanner interface for Status
func (s *Status) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		byteVal, ok := value.([]byte)
		if ok {
			strVal = string(byteVal)
		} else {
			return fmt.Errorf("failed to scan Status: value is not string or []byte")
		}
	}
	v, err := ParseStatus(strVal)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Value implements the driver.Valuer interface for Status
func (s Status) Value() (driver.Value, error) {
	return string(s), nil
}

// --- Job Type Enum ---
type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeInternship JobType = "Internship"
	JobTypeContract   JobType = "Contract"
	JobTypeOther      JobType = "Other"
)

// JobTypes lists the selectable job types.
var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeInternship, JobTypeContract, JobTypeOther}

func (jt JobType) Valid() bool {
	switch jt {
	case JobTypeFullTime, JobTypePartTime, JobTypeInternship, JobTypeContract, JobTypeOther:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for JobType
func (jt *JobType) Scan(value interface{}) error {
	if value == nil {
		*jt = ""
		return nil
	}
	strVal, ok := value.(string)
	if !ok {
		byteVal, ok := value.([]byte)
		if ok {
			strVal = string(byteVal)
		} else {
			return fmt.Errorf("failed to scan JobType: value is not string or []byte")
		}
	}
	v := JobType(strVal)
	if v != "" && !v.Valid() {
		return fmt.Errorf("invalid JobType value: %s", strVal)
	}
	*jt = v
	return nil
}

// Value implements the driver.Valuer interface for JobType. The empty type is stored as NULL.
func (jt JobType) Value() (driver.Value, error) {
	if jt == "" {
		return nil, nil
	}
	return string(jt), nil
}

// User represents an account owner. Email is unique and stored lower-cased.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Company is deduplicated by name.
type Company struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Industry  string    `json:"industry" db:"industry"`
	Location  string    `json:"location" db:"location"`
	LogoURL   string    `json:"logo_url" db:"logo_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Job is deduplicated by (company, title).
type Job struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	CompanyID  uuid.UUID  `json:"company_id" db:"company_id"`
	Title      string     `json:"title" db:"title"`
	Type       JobType    `json:"job_type" db:"job_type"`
	Location   string     `json:"location" db:"location"`
	PostedDate *time.Time `json:"posted_date,omitempty" db:"posted_date"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// Application tracks one user's pursuit of one job.
type Application struct {
	ID                uuid.UUID `json:"id" db:"id"`
	JobID             uuid.UUID `json:"job_id" db:"job_id"`
	UserID            uuid.UUID `json:"user_id" db:"user_id"`
	CurrentStatus     Status    `json:"current_status" db:"current_status"`
	StatusChangedDate time.Time `json:"status_changed_date" db:"status_changed_date"`
	Notes             string    `json:"notes" db:"notes"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// ApplicationDetails is an Application joined with its job and company, as listed to the user.
type ApplicationDetails struct {
	Application
	Job     Job     `json:"job"`
	Company Company `json:"company"`
}

// StatusHistoryEntry is one append-only ledger row. Seq records insertion order
// and breaks ties between entries sharing a status date.
type StatusHistoryEntry struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Seq           int64     `json:"-" db:"seq"`
	ApplicationID uuid.UUID `json:"application_id" db:"application_id"`
	Status        Status    `json:"status" db:"status"`
	StatusDate    time.Time `json:"status_date" db:"status_date"`
	Notes         string    `json:"notes" db:"notes"`
}

// DirectoryCompany is a candidate returned by the remote company directory.
type DirectoryCompany struct {
	Name     string `json:"name"`
	Logo     string `json:"logo"`
	Industry string `json:"industry"`
	Location string `json:"location"`
}
