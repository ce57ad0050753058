package postgres

import (
	"context"
	"fmt"

	"job-tracker/internal/models"
	"job-tracker/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// StatusHistoryRepo is the PostgreSQL status ledger. Rows are only ever
// inserted; seq is an identity column recording insertion order.
type StatusHistoryRepo struct {
	db Querier
}

func NewStatusHistoryRepo(db Querier) *StatusHistoryRepo {
	return &StatusHistoryRepo{db: db}
}

var _ storage.StatusHistoryRepository = (*StatusHistoryRepo)(nil)

const historyColumns = `id, seq, application_id, status, status_date, notes`

const historyOrder = ` ORDER BY status_date DESC, seq DESC`

func collectHistory(rows pgx.Rows) ([]models.StatusHistoryEntry, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.StatusHistoryEntry, error) {
		var e models.StatusHistoryEntry
		err := row.Scan(&e.ID, &e.Seq, &e.ApplicationID, &e.Status, &e.StatusDate, &e.Notes)
		return e, err
	})
}

// Append inserts entries in order as one batch.
func (r *StatusHistoryRepo) Append(ctx context.Context, entries ...models.StatusHistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range entries {
		id := e.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		batch.Queue(
			`INSERT INTO status_history (id, application_id, status, status_date, notes) VALUES ($1, $2, $3, $4, $5)`,
			id, e.ApplicationID, string(e.Status), e.StatusDate, e.Notes,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()
	for range entries {
		if _, err := results.Exec(); err != nil {
			if pgErrorCode(err) == codeForeignKeyViolation {
				log.Printf("Error appending status history: unknown application: %v", err)
				return fmt.Errorf("failed to append status history: %w", storage.ErrConflict)
			}
			log.Printf("Error appending status history: %v", err)
			return fmt.Errorf("failed to append status history: %w", err)
		}
	}
	return nil
}

func (r *StatusHistoryRepo) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.StatusHistoryEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+historyColumns+` FROM status_history WHERE application_id = $1`+historyOrder, applicationID)
	if err != nil {
		log.Printf("Error querying status history for %s: %v", applicationID, err)
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	entries, err := collectHistory(rows)
	if err != nil {
		log.Printf("Error scanning status history for %s: %v", applicationID, err)
		return nil, fmt.Errorf("failed to scan status history: %w", err)
	}
	if entries == nil {
		entries = []models.StatusHistoryEntry{}
	}
	return entries, nil
}

// ListByApplications loads several ledgers in one query.
func (r *StatusHistoryRepo) ListByApplications(ctx context.Context, applicationIDs []uuid.UUID) (map[uuid.UUID][]models.StatusHistoryEntry, error) {
	out := make(map[uuid.UUID][]models.StatusHistoryEntry, len(applicationIDs))
	if len(applicationIDs) == 0 {
		return out, nil
	}
	ids := make([]string, len(applicationIDs))
	for i, id := range applicationIDs {
		ids[i] = id.String()
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+historyColumns+` FROM status_history WHERE application_id = ANY($1::uuid[])`+historyOrder, ids)
	if err != nil {
		log.Printf("Error querying status history for %d applications: %v", len(ids), err)
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	entries, err := collectHistory(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan status history: %w", err)
	}
	for _, e := range entries {
		out[e.ApplicationID] = append(out[e.ApplicationID], e)
	}
	return out, nil
}
