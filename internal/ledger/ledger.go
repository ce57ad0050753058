// Package ledger implements the append-only status history of an application.
//
// The ledger is the source of truth for when an application entered a status.
// Transitions are deliberately unguarded: any status may follow any other.
package ledger

import (
	"fmt"
	"sort"
	"time"

	"job-tracker/internal/models"

	"github.com/google/uuid"
)

// ErrInvalidStatus is returned for any status outside the closed set.
var ErrInvalidStatus = fmt.Errorf("invalid status")

// Validate checks a raw status string against the closed set.
func Validate(raw string) (models.Status, error) {
	s, err := models.ParseStatus(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Seed returns the entries written when an application is created with status.
// A Saved application gets one entry; anything else gets a synthetic Saved
// entry followed by the requested status, both on the creation date.
func Seed(applicationID uuid.UUID, status models.Status, date time.Time, notes string) ([]models.StatusHistoryEntry, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if status == models.StatusSaved {
		return []models.StatusHistoryEntry{newEntry(applicationID, models.StatusSaved, date, notes)}, nil
	}
	return []models.StatusHistoryEntry{
		newEntry(applicationID, models.StatusSaved, date, ""),
		newEntry(applicationID, status, date, notes),
	}, nil
}

// Transition builds the entry for moving app to status and applies the change
// to app in memory. The caller persists both in one unit of work.
func Transition(app *models.Application, status models.Status, date time.Time, notes string) (models.StatusHistoryEntry, error) {
	if !status.Valid() {
		return models.StatusHistoryEntry{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	entry := newEntry(app.ID, status, date, notes)
	app.CurrentStatus = status
	app.StatusChangedDate = date
	return entry, nil
}

func newEntry(applicationID uuid.UUID, status models.Status, date time.Time, notes string) models.StatusHistoryEntry {
	return models.StatusHistoryEntry{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		Status:        status,
		StatusDate:    date,
		Notes:         notes,
	}
}

// Sort returns a copy of entries ordered most recent first. Entries sharing a
// status date are ordered by descending Seq, and otherwise keep reverse input order.
func Sort(entries []models.StatusHistoryEntry) []models.StatusHistoryEntry {
	out := make([]models.StatusHistoryEntry, len(entries))
	for i := range entries {
		out[len(entries)-1-i] = entries[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StatusDate.Equal(out[j].StatusDate) {
			return out[i].StatusDate.After(out[j].StatusDate)
		}
		return out[i].Seq > out[j].Seq
	})
	return out
}

// Latest returns the most recent entry with the given status.
func Latest(entries []models.StatusHistoryEntry, status models.Status) (models.StatusHistoryEntry, bool) {
	for _, e := range Sort(entries) {
		if e.Status == status {
			return e, true
		}
	}
	return models.StatusHistoryEntry{}, false
}

// Current derives the status an application is in from its ledger alone.
func Current(entries []models.StatusHistoryEntry) (models.Status, time.Time, bool) {
	if len(entries) == 0 {
		return "", time.Time{}, false
	}
	head := Sort(entries)[0]
	return head.Status, head.StatusDate, true
}

// Consistent reports whether the stored current status agrees with the ledger.
func Consistent(app models.Application, entries []models.StatusHistoryEntry) bool {
	status, _, ok := Current(entries)
	return ok && status == app.CurrentStatus
}
