package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/app/models/dto"
)

// StatsService defines the interface for the admin dashboard
type StatsService interface {
	GetStats(ctx context.Context) (*dto.StatsResponse, error)
}

type statsServiceImpl struct {
	users       UserStore
	submissions SubmissionStore
	companies   CompanyStore
}

// NewStatsService creates a new StatsService
func NewStatsService(users UserStore, submissions SubmissionStore, companies CompanyStore) StatsService {
	return &statsServiceImpl{users: users, submissions: submissions, companies: companies}
}

// GetStats runs the dashboard counts concurrently
func (s *statsServiceImpl) GetStats(ctx context.Context) (*dto.StatsResponse, error) {
	var out dto.StatsResponse
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.TotalUsers, err = s.users.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.PendingSubmissions, err = s.submissions.CountByStatus(ctx, models.SubmissionPending)
		return err
	})
	g.Go(func() (err error) {
		out.ApprovedSubmissions, err = s.submissions.CountByStatus(ctx, models.SubmissionApproved)
		return err
	})
	g.Go(func() (err error) {
		out.ApprovedCompanies, err = s.companies.CountByStatus(ctx, models.CompanyApproved)
		return err
	})
	g.Go(func() (err error) {
		out.PendingCompanies, err = s.companies.CountByStatus(ctx, models.CompanyPending)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error collecting stats: %w", err)
	}
	return &out, nil
}
