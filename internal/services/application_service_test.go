package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"job-tracker/internal/metrics"
	"job-tracker/internal/models"
	"job-tracker/internal/storage"
	"job-tracker/internal/storage/memory"
	"job-tracker/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.May, 20, 15, 30, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC)
}

func newTestApplicationService(t *testing.T, dir CompanyDirectory) (*applicationService, *memory.Store, *models.User) {
	t.Helper()
	store := memory.New()
	user, err := store.Users().Create(context.Background(), &models.User{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	svc := NewApplicationService(store, dir).(*applicationService)
	svc.now = func() time.Time { return fixedNow }
	return svc, store, user
}

func validationMessages(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.True(t, errors.Is(err, ErrValidation))
	return verr.Messages
}

func TestApplicationService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Saved seeds one entry", func(t *testing.T) {
		svc, store, user := newTestApplicationService(t, nil)

		d, err := svc.Create(ctx, &dto.CreateApplicationRequest{
			UserID: user.ID, CompanyName: " Acme ", JobTitle: "Engineer", Notes: "looks fun",
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusSaved, d.CurrentStatus)
		assert.Equal(t, day(20), d.StatusChangedDate, "defaults to today")
		assert.Equal(t, "Acme", d.Company.Name)
		assert.Equal(t, models.DefaultCompanyLogo, d.Company.LogoURL)

		history, err := store.StatusHistory().ListByApplication(ctx, d.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, models.StatusSaved, history[0].Status)
		assert.Equal(t, "looks fun", history[0].Notes)
	})

	t.Run("Applied seeds Saved then Applied", func(t *testing.T) {
		svc, store, user := newTestApplicationService(t, nil)

		d, err := svc.Create(ctx, &dto.CreateApplicationRequest{
			UserID: user.ID, CompanyName: "Acme", JobTitle: "Engineer",
			Status: models.StatusApplied, StatusDate: "2024-05-02", PostedDate: "2024-04-28",
			JobType: models.JobTypeFullTime, Notes: "referral",
		})
		require.NoError(t, err)
		assert.Equal(t, day(2), d.StatusChangedDate)
		require.NotNil(t, d.Job.PostedDate)
		assert.Equal(t, time.Date(2024, time.April, 28, 0, 0, 0, 0, time.UTC), *d.Job.PostedDate)

		history, err := store.StatusHistory().ListByApplication(ctx, d.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, models.StatusApplied, history[0].Status)
		assert.Equal(t, "referral", history[0].Notes)
		assert.Equal(t, models.StatusSaved, history[1].Status)
		assert.Empty(t, history[1].Notes)
	})

	t.Run("reuses company and job", func(t *testing.T) {
		svc, _, user := newTestApplicationService(t, nil)
		req := &dto.CreateApplicationRequest{UserID: user.ID, CompanyName: "Acme", JobTitle: "Engineer"}

		first, err := svc.Create(ctx, req)
		require.NoError(t, err)
		second, err := svc.Create(ctx, req)
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, first.Job.ID, second.Job.ID)
		assert.Equal(t, first.Company.ID, second.Company.ID)
	})

	t.Run("directory fills missing details", func(t *testing.T) {
		dir := &fakeDirectory{companies: []models.DirectoryCompany{
			{Name: "acme", Logo: "https://img/acme.png", Industry: "Tools", Location: "Nevada"},
		}}
		svc, _, user := newTestApplicationService(t, dir)

		d, err := svc.Create(ctx, &dto.CreateApplicationRequest{
			UserID: user.ID, CompanyName: "Acme", CompanyLocation: "Remote", JobTitle: "Engineer",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://img/acme.png", d.Company.LogoURL)
		assert.Equal(t, "Tools", d.Company.Industry)
		assert.Equal(t, "Remote", d.Company.Location, "form values win")
	})

	t.Run("validation collects every message and writes nothing", func(t *testing.T) {
		svc, store, user := newTestApplicationService(t, nil)

		_, err := svc.Create(ctx, &dto.CreateApplicationRequest{
			UserID: user.ID, CompanyName: "  ", StatusDate: "2024-05-01", PostedDate: "2024-05-03",
		})
		msgs := validationMessages(t, err)
		assert.Equal(t, []string{
			"Company name is required",
			"Job title is required",
			"Job posted date cannot be after the application date",
		}, msgs)

		apps, err := store.Applications().ListByUser(ctx, &dto.ListApplicationsRequest{UserID: user.ID})
		require.NoError(t, err)
		assert.Empty(t, apps)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc, _, user := newTestApplicationService(t, nil)
		_, err := svc.Create(ctx, &dto.CreateApplicationRequest{
			UserID: user.ID, CompanyName: "Acme", JobTitle: "Engineer", Status: "Pending",
		})
		assert.Equal(t, []string{"Invalid status: Pending"}, validationMessages(t, err))
	})
}

func TestApplicationService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc, store, user := newTestApplicationService(t, nil)

	created, err := svc.Create(ctx, &dto.CreateApplicationRequest{
		UserID: user.ID, CompanyName: "Acme", JobTitle: "Engineer", Status: models.StatusApplied, StatusDate: "2024-05-01",
	})
	require.NoError(t, err)

	t.Run("records transition", func(t *testing.T) {
		app, err := svc.UpdateStatus(ctx, &dto.UpdateStatusRequest{
			ApplicationID: created.ID, UserID: user.ID, Status: "Interview", StatusDate: "2024-05-08", Notes: "phone screen",
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusInterview, app.CurrentStatus)
		assert.Equal(t, day(8), app.StatusChangedDate)

		view, err := svc.Get(ctx, user.ID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusInterview, view.Details.CurrentStatus)
		require.Len(t, view.History, 3)
		assert.Equal(t, models.StatusInterview, view.History[0].Status)
		assert.Equal(t, "phone screen", view.History[0].Notes)
		assert.True(t, view.Timeline.Stages[2].Active)
	})

	t.Run("backwards transitions are allowed", func(t *testing.T) {
		app, err := svc.UpdateStatus(ctx, &dto.UpdateStatusRequest{
			ApplicationID: created.ID, UserID: user.ID, Status: "Applied",
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusApplied, app.CurrentStatus)
		assert.Equal(t, day(20), app.StatusChangedDate, "defaults to today")
	})

	t.Run("invalid status mutates nothing", func(t *testing.T) {
		before, err := svc.History(ctx, user.ID, created.ID)
		require.NoError(t, err)

		_, err = svc.UpdateStatus(ctx, &dto.UpdateStatusRequest{
			ApplicationID: created.ID, UserID: user.ID, Status: "Pending",
		})
		assert.Equal(t, []string{"Invalid status: Pending"}, validationMessages(t, err))

		after, err := svc.History(ctx, user.ID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, before, after)

		got, err := store.Applications().GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApplied, got.CurrentStatus)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, &dto.UpdateStatusRequest{
			ApplicationID: created.ID, UserID: uuid.New(), Status: "Offer",
		})
		assert.True(t, errors.Is(err, ErrForbidden))
	})

	t.Run("unknown application", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, &dto.UpdateStatusRequest{
			ApplicationID: uuid.New(), UserID: user.ID, Status: "Offer",
		})
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestApplicationService_UpdateStatusLedgerFailure(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	svc := NewApplicationService(store, nil).(*applicationService)
	svc.now = func() time.Time { return fixedNow }

	userID := uuid.New()
	app := &models.ApplicationDetails{Application: models.Application{
		ID: uuid.New(), UserID: userID, CurrentStatus: models.StatusApplied, StatusChangedDate: day(1),
	}}
	dbErr := errors.New("connection reset")

	store.On("WithTx", mock.Anything).Return()
	store.applications.On("GetByID", mock.Anything, app.ID).Return(app, nil)
	store.applications.On("UpdateStatus", mock.Anything, app.ID, models.StatusOffer, day(9)).Return(nil)
	store.history.On("Append", mock.Anything, mock.Anything).Return(dbErr)

	_, err := svc.UpdateStatus(ctx, &dto.UpdateStatusRequest{
		ApplicationID: app.ID, UserID: userID, Status: "Offer", StatusDate: "2024-05-09",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, dbErr))
	assert.Contains(t, err.Error(), "internal error during update application status")
	store.AssertCalled(t, "WithTx", mock.Anything)
}

func TestApplicationService_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	svc, store, user := newTestApplicationService(t, nil)

	created, err := svc.Create(ctx, &dto.CreateApplicationRequest{
		UserID: user.ID, CompanyName: "Acme", JobTitle: "Engineer", Status: models.StatusApplied,
	})
	require.NoError(t, err)

	assert.True(t, errors.Is(svc.Delete(ctx, uuid.New(), created.ID), ErrForbidden))

	require.NoError(t, svc.Delete(ctx, user.ID, created.ID))

	history, err := store.StatusHistory().ListByApplication(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = svc.Get(ctx, user.ID, created.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, user.ID, created.ID), ErrNotFound))
}

func TestApplicationService_ExportCSV(t *testing.T) {
	ctx := context.Background()
	svc, _, user := newTestApplicationService(t, nil)

	for _, req := range []dto.CreateApplicationRequest{
		{CompanyName: "Acme, Inc", JobTitle: "Engineer", Status: models.StatusApplied, StatusDate: "2024-05-01"},
		{CompanyName: "Globex", JobTitle: "Intern", StatusDate: "2024-05-03"},
	} {
		req.UserID = user.ID
		_, err := svc.Create(ctx, &req)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, user.ID, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"Company,Title,Status,Status Date",
		"Globex,Intern,Saved,2024-05-03",
		`"Acme, Inc",Engineer,Applied,2024-05-01`,
	}, lines)
}

func TestApplicationService_ListPropagatesRepoErrors(t *testing.T) {
	store := newMockStore()
	svc := NewApplicationService(store, nil)

	req := &dto.ListApplicationsRequest{UserID: uuid.New()}
	store.applications.On("ListByUser", mock.Anything, req).Return(nil, storage.ErrNotFound)

	_, err := svc.List(context.Background(), req)
	assert.True(t, errors.Is(err, ErrNotFound))
}

// ledgerEntryCount reads job_tracker_ledger_entries_total{status=...} from the registry.
func ledgerEntryCount(t *testing.T, status models.Status) float64 {
	t.Helper()
	families, err := metrics.Registry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "job_tracker_ledger_entries_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "status" && l.GetValue() == string(status) {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestApplicationService_CountsLedgerEntries(t *testing.T) {
	ctx := context.Background()
	svc, _, user := newTestApplicationService(t, nil)

	savedBefore := ledgerEntryCount(t, models.StatusSaved)
	appliedBefore := ledgerEntryCount(t, models.StatusApplied)
	offerBefore := ledgerEntryCount(t, models.StatusOffer)

	d, err := svc.Create(ctx, &dto.CreateApplicationRequest{
		UserID: user.ID, CompanyName: "Acme", JobTitle: "Engineer", Status: models.StatusApplied,
	})
	require.NoError(t, err)
	assert.Equal(t, savedBefore+1, ledgerEntryCount(t, models.StatusSaved))
	assert.Equal(t, appliedBefore+1, ledgerEntryCount(t, models.StatusApplied))

	_, err = svc.UpdateStatus(ctx, &dto.UpdateStatusRequest{ApplicationID: d.ID, UserID: user.ID, Status: "Offer"})
	require.NoError(t, err)
	assert.Equal(t, offerBefore+1, ledgerEntryCount(t, models.StatusOffer))

	_, err = svc.Create(ctx, &dto.CreateApplicationRequest{UserID: user.ID, JobTitle: "Missing company"})
	require.Error(t, err)
	assert.Equal(t, savedBefore+1, ledgerEntryCount(t, models.StatusSaved), "failed creates write nothing")
	assert.Positive(t, mustGatherCount(t, "job_tracker_ledger_entries_total"))
}

func mustGatherCount(t *testing.T, name string) int {
	t.Helper()
	n, err := testutil.GatherAndCount(metrics.Registry, name)
	require.NoError(t, err)
	return n
}
