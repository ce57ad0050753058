// Package memory is an in-process implementation of storage.Store. It is safe
// for concurrent use and backs the "memory" database driver and the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"job-tracker/internal/ledger"
	"job-tracker/internal/models"
	"job-tracker/internal/storage"
	"job-tracker/internal/transport/dto"

	"github.com/google/uuid"
)

type state struct {
	users        map[uuid.UUID]models.User
	companies    map[uuid.UUID]models.Company
	jobs         map[uuid.UUID]models.Job
	applications map[uuid.UUID]models.Application
	history      map[uuid.UUID][]models.StatusHistoryEntry
	nextSeq      int64
}

func newState() *state {
	return &state{
		users:        make(map[uuid.UUID]models.User),
		companies:    make(map[uuid.UUID]models.Company),
		jobs:         make(map[uuid.UUID]models.Job),
		applications: make(map[uuid.UUID]models.Application),
		history:      make(map[uuid.UUID][]models.StatusHistoryEntry),
		nextSeq:      1,
	}
}

func (st *state) clone() *state {
	c := newState()
	c.nextSeq = st.nextSeq
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.companies {
		c.companies[k] = v
	}
	for k, v := range st.jobs {
		c.jobs[k] = v
	}
	for k, v := range st.applications {
		c.applications[k] = v
	}
	for k, v := range st.history {
		c.history[k] = append([]models.StatusHistoryEntry(nil), v...)
	}
	return c
}

// Store is an in-memory storage.Store. A transactional view works on a copy
// of the data that replaces the original only when the transaction succeeds.
type Store struct {
	mu   *sync.RWMutex
	data *state
	tx   bool
}

var _ storage.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{mu: &sync.RWMutex{}, data: newState()}
}

// Inside a transaction the root lock is already held.
func (s *Store) lock() func() {
	if s.tx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) rlock() func() {
	if s.tx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) Users() storage.UserRepository                  { return &userRepo{s: s} }
func (s *Store) Companies() storage.CompanyRepository           { return &companyRepo{s: s} }
func (s *Store) Jobs() storage.JobRepository                    { return &jobRepo{s: s} }
func (s *Store) Applications() storage.ApplicationRepository    { return &applicationRepo{s: s} }
func (s *Store) StatusHistory() storage.StatusHistoryRepository { return &historyRepo{s: s} }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// WithTx serialises fn against every other writer and reader.
func (s *Store) WithTx(ctx context.Context, fn func(tx storage.Store) error) error {
	if s.tx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(&Store{mu: s.mu, data: work, tx: true}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = work
	return nil
}

// --- Users ---

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	defer r.s.lock()()

	u := *user
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range r.s.data.users {
		if existing.Email == u.Email {
			return nil, storage.ErrDuplicateEmail
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.s.data.users[u.ID] = u
	return &u, nil
}

func (r *userRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	defer r.s.rlock()()

	u, ok := r.s.data.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	defer r.s.rlock()()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

// --- Companies ---

type companyRepo struct{ s *Store }

func (r *companyRepo) GetOrCreate(_ context.Context, company *models.Company) (*models.Company, error) {
	defer r.s.lock()()

	for _, existing := range r.s.data.companies {
		if existing.Name == company.Name {
			return &existing, nil
		}
	}
	c := *company
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	r.s.data.companies[c.ID] = c
	return &c, nil
}

// --- Jobs ---

type jobRepo struct{ s *Store }

func (r *jobRepo) GetOrCreate(_ context.Context, job *models.Job) (*models.Job, error) {
	defer r.s.lock()()

	if _, ok := r.s.data.companies[job.CompanyID]; !ok {
		return nil, storage.ErrConflict
	}
	for _, existing := range r.s.data.jobs {
		if existing.CompanyID == job.CompanyID && existing.Title == job.Title {
			return &existing, nil
		}
	}
	j := *job
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}
	r.s.data.jobs[j.ID] = j
	return &j, nil
}

// --- Applications ---

type applicationRepo struct{ s *Store }

func (r *applicationRepo) Create(_ context.Context, app *models.Application) (*models.Application, error) {
	defer r.s.lock()()

	if _, ok := r.s.data.jobs[app.JobID]; !ok {
		return nil, storage.ErrConflict
	}
	if _, ok := r.s.data.users[app.UserID]; !ok {
		return nil, storage.ErrConflict
	}
	a := *app
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if _, exists := r.s.data.applications[a.ID]; exists {
		return nil, storage.ErrConflict
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	r.s.data.applications[a.ID] = a
	return &a, nil
}

func (r *applicationRepo) details(a models.Application) models.ApplicationDetails {
	job := r.s.data.jobs[a.JobID]
	return models.ApplicationDetails{
		Application: a,
		Job:         job,
		Company:     r.s.data.companies[job.CompanyID],
	}
}

func (r *applicationRepo) GetByID(_ context.Context, id uuid.UUID) (*models.ApplicationDetails, error) {
	defer r.s.rlock()()

	a, ok := r.s.data.applications[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	d := r.details(a)
	return &d, nil
}

func (r *applicationRepo) ListByUser(_ context.Context, req *dto.ListApplicationsRequest) ([]models.ApplicationDetails, error) {
	defer r.s.rlock()()

	search := strings.ToLower(strings.TrimSpace(req.Search))
	out := make([]models.ApplicationDetails, 0)
	for _, a := range r.s.data.applications {
		if a.UserID != req.UserID {
			continue
		}
		d := r.details(a)
		if len(req.Statuses) > 0 && !containsStatus(req.Statuses, a.CurrentStatus) {
			continue
		}
		if len(req.JobTypes) > 0 && !containsJobType(req.JobTypes, d.Job.Type) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(d.Company.Name), search) &&
			!strings.Contains(strings.ToLower(d.Job.Title), search) {
			continue
		}
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StatusChangedDate.Equal(out[j].StatusChangedDate) {
			return out[i].StatusChangedDate.After(out[j].StatusChangedDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if req.Limit > 0 && len(out) > req.Limit {
		out = out[:req.Limit]
	}
	return out, nil
}

func containsStatus(set []models.Status, s models.Status) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsJobType(set []models.JobType, jt models.JobType) bool {
	for _, v := range set {
		if v == jt {
			return true
		}
	}
	return false
}

func (r *applicationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.Status, date time.Time) error {
	defer r.s.lock()()

	a, ok := r.s.data.applications[id]
	if !ok {
		return storage.ErrNotFound
	}
	a.CurrentStatus = status
	a.StatusChangedDate = date
	r.s.data.applications[id] = a
	return nil
}

func (r *applicationRepo) Delete(_ context.Context, id uuid.UUID) error {
	defer r.s.lock()()

	if _, ok := r.s.data.applications[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.s.data.applications, id)
	delete(r.s.data.history, id)
	return nil
}

// --- Status history ---

type historyRepo struct{ s *Store }

func (r *historyRepo) Append(_ context.Context, entries ...models.StatusHistoryEntry) error {
	defer r.s.lock()()

	for _, e := range entries {
		if _, ok := r.s.data.applications[e.ApplicationID]; !ok {
			return storage.ErrConflict
		}
	}
	for _, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		e.Seq = r.s.data.nextSeq
		r.s.data.nextSeq++
		r.s.data.history[e.ApplicationID] = append(r.s.data.history[e.ApplicationID], e)
	}
	return nil
}

func (r *historyRepo) ListByApplication(_ context.Context, applicationID uuid.UUID) ([]models.StatusHistoryEntry, error) {
	defer r.s.rlock()()

	return ledger.Sort(r.s.data.history[applicationID]), nil
}

func (r *historyRepo) ListByApplications(_ context.Context, applicationIDs []uuid.UUID) (map[uuid.UUID][]models.StatusHistoryEntry, error) {
	defer r.s.rlock()()

	out := make(map[uuid.UUID][]models.StatusHistoryEntry, len(applicationIDs))
	for _, id := range applicationIDs {
		if entries, ok := r.s.data.history[id]; ok {
			out[id] = ledger.Sort(entries)
		}
	}
	return out, nil
}
