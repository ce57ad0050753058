package postgres

import (
	"context"
	"errors"

	"job-tracker/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store implements storage.Store on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
	db   Querier
}

var _ storage.Store = (*Store)(nil)

// NewStore creates a Store backed by pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

func (s *Store) Users() storage.UserRepository                  { return NewUserRepo(s.db) }
func (s *Store) Companies() storage.CompanyRepository           { return NewCompanyRepo(s.db) }
func (s *Store) Jobs() storage.JobRepository                    { return NewJobRepo(s.db) }
func (s *Store) Applications() storage.ApplicationRepository    { return NewApplicationRepo(s.db) }
func (s *Store) StatusHistory() storage.StatusHistoryRepository { return NewStatusHistoryRepo(s.db) }

// WithTx runs fn inside a database transaction. A Store that is already
// transactional runs fn directly.
func (s *Store) WithTx(ctx context.Context, fn func(tx storage.Store) error) error {
	if s.pool == nil {
		return fn(s)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Ping(ctx)
}

// pgErrorCode returns the SQLSTATE of err, or "" when err is not a PgError.
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)
