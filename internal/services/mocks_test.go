package services

import (
	"context"
	"time"

	"job-tracker/internal/models"
	"job-tracker/internal/storage"
	"job-tracker/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStore is a storage.Store whose repositories are testify mocks.
type MockStore struct {
	mock.Mock
	users        *MockUserRepository
	applications *MockApplicationRepository
	history      *MockStatusHistoryRepository
}

func newMockStore() *MockStore {
	return &MockStore{
		users:        &MockUserRepository{},
		applications: &MockApplicationRepository{},
		history:      &MockStatusHistoryRepository{},
	}
}

func (m *MockStore) Users() storage.UserRepository                  { return m.users }
func (m *MockStore) Companies() storage.CompanyRepository           { panic("not used") }
func (m *MockStore) Jobs() storage.JobRepository                    { panic("not used") }
func (m *MockStore) Applications() storage.ApplicationRepository    { return m.applications }
func (m *MockStore) StatusHistory() storage.StatusHistoryRepository { return m.history }

func (m *MockStore) WithTx(ctx context.Context, fn func(tx storage.Store) error) error {
	m.Called(ctx)
	return fn(m)
}

func (m *MockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var _ storage.Store = (*MockStore)(nil)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) Create(ctx context.Context, app *models.Application) (*models.Application, error) {
	args := m.Called(ctx, app)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ApplicationDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApplicationDetails), args.Error(1)
}

func (m *MockApplicationRepository) ListByUser(ctx context.Context, req *dto.ListApplicationsRequest) ([]models.ApplicationDetails, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ApplicationDetails), args.Error(1)
}

func (m *MockApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status, date time.Time) error {
	return m.Called(ctx, id, status, date).Error(0)
}

func (m *MockApplicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockStatusHistoryRepository struct {
	mock.Mock
}

func (m *MockStatusHistoryRepository) Append(ctx context.Context, entries ...models.StatusHistoryEntry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *MockStatusHistoryRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.StatusHistoryEntry, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StatusHistoryEntry), args.Error(1)
}

func (m *MockStatusHistoryRepository) ListByApplications(ctx context.Context, applicationIDs []uuid.UUID) (map[uuid.UUID][]models.StatusHistoryEntry, error) {
	args := m.Called(ctx, applicationIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]models.StatusHistoryEntry), args.Error(1)
}

// fakeDirectory answers lookups from a fixed list.
type fakeDirectory struct {
	companies []models.DirectoryCompany
	lookups   int
}

func (f *fakeDirectory) Suggest(_ context.Context, query string) []models.DirectoryCompany {
	if len(query) < 2 {
		return []models.DirectoryCompany{}
	}
	return f.companies
}

func (f *fakeDirectory) Lookup(_ context.Context, name string) (models.DirectoryCompany, bool) {
	f.lookups++
	if len(f.companies) == 0 {
		return models.DirectoryCompany{}, false
	}
	return f.companies[0], true
}
