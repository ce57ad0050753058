package services

import (
	"context"
	"time"

	"job-tracker/internal/analytics"
	"job-tracker/internal/models"
	"job-tracker/internal/storage"
	"job-tracker/internal/transport/dto"

	"github.com/google/uuid"
)

// RecentApplications is how many applications the dashboard lists.
const RecentApplications = 5

type dashboardService struct {
	store storage.Store
	now   func() time.Time
}

func NewDashboardService(store storage.Store) DashboardService {
	return &dashboardService{store: store, now: time.Now}
}

// Get loads the user's applications and every ledger in two queries and
// computes the analytics summary from them.
func (s *dashboardService) Get(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	details, err := s.store.Applications().ListByUser(ctx, &dto.ListApplicationsRequest{UserID: userID})
	if err != nil {
		return nil, MapRepoError(err, "load dashboard applications")
	}

	apps := make([]models.Application, len(details))
	ids := make([]uuid.UUID, len(details))
	for i, d := range details {
		apps[i] = d.Application
		ids[i] = d.ID
	}

	ledgers, err := s.store.StatusHistory().ListByApplications(ctx, ids)
	if err != nil {
		return nil, MapRepoError(err, "load dashboard status history")
	}

	recent := details
	if len(recent) > RecentApplications {
		recent = recent[:RecentApplications]
	}
	return &Dashboard{
		Summary: analytics.Summarize(apps, ledgers, s.now()),
		Recent:  recent,
	}, nil
}
