package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"job-tracker/internal/analytics"
	"job-tracker/internal/models"
	"job-tracker/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Get(t *testing.T) {
	ctx := context.Background()
	appSvc, store, user := newTestApplicationService(t, nil)

	create := func(company string, status models.Status, date string) uuid.UUID {
		d, err := appSvc.Create(ctx, &dto.CreateApplicationRequest{
			UserID: user.ID, CompanyName: company, JobTitle: "Engineer", Status: status, StatusDate: date,
		})
		require.NoError(t, err)
		return d.ID
	}
	transition := func(id uuid.UUID, status models.Status, date string) {
		_, err := appSvc.UpdateStatus(ctx, &dto.UpdateStatusRequest{
			ApplicationID: id, UserID: user.ID, Status: string(status), StatusDate: date,
		})
		require.NoError(t, err)
	}

	create("Saved Co", models.StatusSaved, "2024-05-01")
	create("Waiting Co", models.StatusApplied, "2024-05-10")
	interviewing := create("Interview Co", models.StatusApplied, "2024-05-02")
	transition(interviewing, models.StatusInterview, "2024-05-09")
	rejected := create("Reject Co", models.StatusApplied, "2024-05-02")
	transition(rejected, models.StatusRejected, "2024-05-12")

	svc := NewDashboardService(store).(*dashboardService)
	svc.now = func() time.Time { return fixedNow }

	got, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, got.TotalApplied)
	assert.Equal(t, 66.7, got.GhostRate)
	// Interview after 7 days, rejection after 10.
	assert.Equal(t, 8.5, got.Performance.ResponseTime)
	assert.Equal(t, 10, got.Performance.LongestWaiting)
	assert.Equal(t, analytics.Funnel{AppliedToInterview: 33, InterviewToOffer: 0}, got.Funnel)
	assert.Equal(t, 4, got.Stats.Total)
	assert.Equal(t, 1, got.Stats.ByStatus[models.StatusSaved])
	assert.Equal(t, "APPLIED (3)", got.Flow.Labels[analytics.NodeApplied])

	require.Len(t, got.Recent, 4)
	assert.Equal(t, "Reject Co", got.Recent[0].Company.Name)
}

func TestDashboardService_RecentIsCapped(t *testing.T) {
	ctx := context.Background()
	appSvc, store, user := newTestApplicationService(t, nil)
	for i := 1; i <= 7; i++ {
		_, err := appSvc.Create(ctx, &dto.CreateApplicationRequest{
			UserID: user.ID, CompanyName: fmt.Sprintf("Co %d", i), JobTitle: "Engineer",
			Status: models.StatusApplied, StatusDate: fmt.Sprintf("2024-05-%02d", i),
		})
		require.NoError(t, err)
	}

	got, err := NewDashboardService(store).Get(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, got.Recent, RecentApplications)
	assert.Equal(t, "Co 7", got.Recent[0].Company.Name)
	assert.Equal(t, 7, got.Volume.TotalApplications)
}

func TestDashboardService_Empty(t *testing.T) {
	_, store, user := newTestApplicationService(t, nil)

	got, err := NewDashboardService(store).Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Zero(t, got.TotalApplied)
	assert.Zero(t, got.GhostRate)
	assert.Equal(t, analytics.NoActiveDay, got.Volume.MostActiveDay)
	assert.Empty(t, got.Flow.Links)
	assert.Empty(t, got.Recent)
}

func TestDashboardService_HistoryFailure(t *testing.T) {
	store := newMockStore()
	userID := uuid.New()
	apps := []models.ApplicationDetails{{Application: models.Application{ID: uuid.New(), UserID: userID}}}
	dbErr := errors.New("timeout")

	store.applications.On("ListByUser", mock.Anything, mock.Anything).Return(apps, nil)
	store.history.On("ListByApplications", mock.Anything, []uuid.UUID{apps[0].ID}).Return(nil, dbErr)

	_, err := NewDashboardService(store).Get(context.Background(), userID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dbErr))
}
