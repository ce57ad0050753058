package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"job-tracker/internal/ledger"
	"job-tracker/internal/models"
	"job-tracker/internal/services"
	"job-tracker/internal/session"
	"job-tracker/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupApplicationRouter(sess *session.Session) (*gin.Engine, *MockApplicationService) {
	svc := new(MockApplicationService)
	h := NewApplicationHandler(svc, NewValidator())
	h.now = func() time.Time { return fixedNow }

	router := gin.New()
	apps := router.Group("/applications", withSession(sess))
	apps.POST("", h.CreateApplication)
	apps.GET("", h.ListApplications)
	apps.GET("/export", h.ExportApplications)
	apps.GET("/:id", h.GetApplication)
	apps.PATCH("/:id/status", h.UpdateStatus)
	apps.GET("/:id/history", h.GetHistory)
	apps.DELETE("/:id", h.DeleteApplication)
	return router, svc
}

func sampleDetails(userID uuid.UUID) *models.ApplicationDetails {
	posted := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	return &models.ApplicationDetails{
		Application: models.Application{
			ID:                uuid.New(),
			UserID:            userID,
			CurrentStatus:     models.StatusApplied,
			StatusChangedDate: time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
			Notes:             "referral",
		},
		Job:     models.Job{Title: "Engineer", Type: models.JobTypeFullTime, PostedDate: &posted},
		Company: models.Company{Name: "Acme", LogoURL: models.DefaultCompanyLogo},
	}
}

func TestCreateApplication(t *testing.T) {
	sess := testSession()
	router, svc := setupApplicationRouter(sess)
	details := sampleDetails(sess.UserID)

	svc.On("Create", mock.Anything, mock.MatchedBy(func(r *dto.CreateApplicationRequest) bool {
		return r.UserID == sess.UserID && r.CompanyName == "Acme" && r.Status == models.StatusApplied
	})).Return(details, nil).Once()

	w := perform(router, http.MethodPost, "/applications",
		`{"company_name":"Acme","job_title":"Engineer","job_type":"Full-time","status":"Applied","status_date":"2024-05-10"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp dto.ApplicationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Acme", resp.CompanyName)
	assert.Equal(t, "2024-05-10", resp.StatusChangedDate)
	assert.Equal(t, "2024-05-01", resp.PostedDate)
	assert.Equal(t, 10, resp.DaysInStatus)
	svc.AssertExpectations(t)
}

func TestCreateApplicationRejectsBadTags(t *testing.T) {
	router, svc := setupApplicationRouter(testSession())

	tests := []struct {
		name string
		body string
		want string
	}{
		{"status", `{"company_name":"Acme","job_title":"x","status":"Ghosted"}`, "Invalid status: Ghosted"},
		{"job type", `{"company_name":"Acme","job_title":"x","job_type":"Gig"}`, "Invalid job type: Gig"},
		{"date", `{"company_name":"Acme","job_title":"x","status_date":"10/05/2024"}`, "YYYY-MM-DD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(router, http.MethodPost, "/applications", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateApplicationUnauthenticated(t *testing.T) {
	router, _ := setupApplicationRouter(nil)
	w := perform(router, http.MethodPost, "/applications", `{"company_name":"Acme"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListApplicationsBindsFilters(t *testing.T) {
	sess := testSession()
	router, svc := setupApplicationRouter(sess)

	svc.On("List", mock.Anything, &dto.ListApplicationsRequest{
		UserID:   sess.UserID,
		Statuses: []models.Status{models.StatusApplied, models.StatusInterview},
		JobTypes: []models.JobType{models.JobTypeInternship},
		Search:   "acme",
		Limit:    5,
	}).Return([]models.ApplicationDetails{*sampleDetails(sess.UserID)}, nil).Once()

	w := perform(router, http.MethodGet,
		"/applications?status=Applied&status=Interview&job_type=Internship&search=acme&limit=5", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp []dto.ApplicationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
	svc.AssertExpectations(t)
}

func TestListApplicationsRejectsUnknownStatus(t *testing.T) {
	router, _ := setupApplicationRouter(testSession())
	w := perform(router, http.MethodGet, "/applications?status=Pending", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid status: Pending")
}

func TestGetApplication(t *testing.T) {
	sess := testSession()
	router, svc := setupApplicationRouter(sess)
	details := sampleDetails(sess.UserID)
	history := []models.StatusHistoryEntry{
		{ID: uuid.New(), ApplicationID: details.ID, Status: models.StatusApplied, StatusDate: details.StatusChangedDate},
		{ID: uuid.New(), ApplicationID: details.ID, Status: models.StatusSaved, StatusDate: details.StatusChangedDate},
	}
	svc.On("Get", mock.Anything, sess.UserID, details.ID).Return(&services.ApplicationView{
		Details:  *details,
		History:  history,
		Timeline: ledger.BuildTimeline(details.CurrentStatus, history),
	}, nil).Once()

	w := perform(router, http.MethodGet, "/applications/"+details.ID.String(), "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ApplicationDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, details.ID, resp.ID)
	require.Len(t, resp.History, 2)
	assert.Equal(t, models.StatusApplied, resp.History[0].Status)
	assert.Equal(t, "2024-05-10", resp.History[0].StatusDate)
}

func TestApplicationErrorMapping(t *testing.T) {
	sess := testSession()
	id := uuid.New()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("%w: get application", services.ErrNotFound), http.StatusNotFound},
		{"forbidden", services.ErrForbidden, http.StatusForbidden},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := setupApplicationRouter(sess)
			svc.On("Get", mock.Anything, sess.UserID, id).Return(nil, tt.err).Once()
			svc.On("History", mock.Anything, sess.UserID, id).Return(nil, tt.err).Once()
			svc.On("Delete", mock.Anything, sess.UserID, id).Return(tt.err).Once()

			assert.Equal(t, tt.want, perform(router, http.MethodGet, "/applications/"+id.String(), "").Code)
			assert.Equal(t, tt.want, perform(router, http.MethodGet, "/applications/"+id.String()+"/history", "").Code)
			assert.Equal(t, tt.want, perform(router, http.MethodDelete, "/applications/"+id.String(), "").Code)
		})
	}
}

func TestInvalidApplicationID(t *testing.T) {
	router, svc := setupApplicationRouter(testSession())
	w := perform(router, http.MethodGet, "/applications/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid application ID format"}`, w.Body.String())
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus(t *testing.T) {
	sess := testSession()
	id := uuid.New()

	t.Run("ok", func(t *testing.T) {
		router, svc := setupApplicationRouter(sess)
		svc.On("UpdateStatus", mock.Anything, &dto.UpdateStatusRequest{
			ApplicationID: id, UserID: sess.UserID, Status: "Interview", StatusDate: "2024-05-15", Notes: "phone screen",
		}).Return(&models.Application{
			ID: id, CurrentStatus: models.StatusInterview, StatusChangedDate: time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC),
		}, nil).Once()

		w := perform(router, http.MethodPatch, "/applications/"+id.String()+"/status",
			`{"status":"Interview","status_date":"2024-05-15","notes":"phone screen"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, fmt.Sprintf(`{"id":%q,"current_status":"Interview","status_changed_date":"2024-05-15"}`, id), w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("invalid status", func(t *testing.T) {
		router, svc := setupApplicationRouter(sess)
		svc.On("UpdateStatus", mock.Anything, mock.Anything).
			Return(nil, services.NewValidationError("Invalid status: Ghosted")).Once()

		w := perform(router, http.MethodPatch, "/applications/"+id.String()+"/status", `{"status":"Ghosted"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Validation failed","details":["Invalid status: Ghosted"]}`, w.Body.String())
	})
}

func TestExportApplications(t *testing.T) {
	sess := testSession()
	router, svc := setupApplicationRouter(sess)
	csv := "Company,Title,Status,Status Date\nAcme,Engineer,Applied,2024-05-10\n"
	svc.On("ExportCSV", mock.Anything, sess.UserID, mock.Anything).Return(csv, nil).Once()

	w := perform(router, http.MethodGet, "/applications/export", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="jobs_20240520.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, csv, w.Body.String())
}

func TestExportApplicationsFailure(t *testing.T) {
	sess := testSession()
	router, svc := setupApplicationRouter(sess)
	svc.On("ExportCSV", mock.Anything, sess.UserID, mock.Anything).Return(nil, errors.New("db down")).Once()

	w := perform(router, http.MethodGet, "/applications/export", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
}

func TestDaysSince(t *testing.T) {
	assert.Equal(t, 0, daysSince(fixedNow, fixedNow))
	assert.Equal(t, 19, daysSince(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), fixedNow))
	assert.Equal(t, 0, daysSince(fixedNow.AddDate(0, 0, 3), fixedNow))
}
