package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"job-tracker/internal/api/middleware"
	"job-tracker/internal/models"
	"job-tracker/internal/services"
	"job-tracker/internal/session"
	"job-tracker/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2024, time.May, 20, 15, 30, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Services ---

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Signup(ctx context.Context, req *dto.SignupRequest) (*services.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuthResult), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, req *dto.LoginRequest) (*services.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuthResult), args.Error(1)
}

func (m *MockUserService) Logout(ctx context.Context, s *session.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

var _ services.UserService = (*MockUserService)(nil)

type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) Create(ctx context.Context, req *dto.CreateApplicationRequest) (*models.ApplicationDetails, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApplicationDetails), args.Error(1)
}

func (m *MockApplicationService) List(ctx context.Context, req *dto.ListApplicationsRequest) ([]models.ApplicationDetails, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ApplicationDetails), args.Error(1)
}

func (m *MockApplicationService) Get(ctx context.Context, userID, id uuid.UUID) (*services.ApplicationView, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ApplicationView), args.Error(1)
}

func (m *MockApplicationService) UpdateStatus(ctx context.Context, req *dto.UpdateStatusRequest) (*models.Application, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationService) History(ctx context.Context, userID, id uuid.UUID) ([]models.StatusHistoryEntry, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StatusHistoryEntry), args.Error(1)
}

func (m *MockApplicationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockApplicationService) ExportCSV(ctx context.Context, userID uuid.UUID, w io.Writer) error {
	args := m.Called(ctx, userID, w)
	if csv, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, csv)
	}
	return args.Error(1)
}

var _ services.ApplicationService = (*MockApplicationService)(nil)

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Get(ctx context.Context, userID uuid.UUID) (*services.Dashboard, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Dashboard), args.Error(1)
}

type MockCompanyService struct {
	mock.Mock
}

func (m *MockCompanyService) Search(ctx context.Context, req *dto.CompanySearchRequest) []models.DirectoryCompany {
	return m.Called(ctx, req).Get(0).([]models.DirectoryCompany)
}

// --- Helpers ---

// withSession stands in for SessionAuth.
func withSession(s *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s != nil {
			middleware.SetSession(c, s)
		}
		c.Next()
	}
}

func testSession() *session.Session {
	return &session.Session{
		ID:        "sess-1",
		UserID:    uuid.New(),
		Name:      "Ada",
		Email:     "ada@example.com",
		ExpiresAt: fixedNow.Add(time.Hour),
	}
}

func perform(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
