package stats_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josoavj/prospectius-core/internal/application/stats"
	"github.com/josoavj/prospectius-core/internal/domain"
	"github.com/josoavj/prospectius-core/internal/domain/entity"
	"github.com/josoavj/prospectius-core/internal/domain/repository"
)

type fakeStatsRepo struct {
	dashboard repository.Dashboard
	stats     repository.ProspectStats
	agg       repository.ConversionAggregate

	gotFrom, gotTo time.Time
	gotSince       time.Time
}

func (r *fakeStatsRepo) Dashboard(_ context.Context, accountID int64) (*repository.Dashboard, error) {
	d := r.dashboard
	d.AccountID = accountID
	return &d, nil
}

func (r *fakeStatsRepo) ProspectStatistics(_ context.Context, _ *int64, from, to time.Time) (*repository.ProspectStats, error) {
	r.gotFrom, r.gotTo = from, to
	s := r.stats
	return &s, nil
}

func (r *fakeStatsRepo) ConversionAggregate(_ context.Context, _ *int64, since time.Time) (*repository.ConversionAggregate, error) {
	r.gotSince = since
	a := r.agg
	return &a, nil
}

type fakeTaskRepo struct {
	overdue []entity.Task
}

func (r *fakeTaskRepo) Create(_ context.Context, _ *entity.Task) (int64, error) { return 0, nil }
func (r *fakeTaskRepo) UpdateStatus(_ context.Context, _ int64, _ entity.TaskStatus) error {
	return nil
}
func (r *fakeTaskRepo) ListForAssignee(_ context.Context, _ int64, _ bool) ([]entity.Task, error) {
	return nil, nil
}
func (r *fakeTaskRepo) ListOverdue(_ context.Context, _ *int64) ([]entity.Task, error) {
	return r.overdue, nil
}

func TestDashboard_AvecDetailRetards(t *testing.T) {
	statsRepo := &fakeStatsRepo{dashboard: repository.Dashboard{
		TotalProspects: 12,
		OverdueTasks:   1,
		AcceptedValue:  decimal.NewFromInt(42000),
	}}
	taskRepo := &fakeTaskRepo{overdue: []entity.Task{{ID: 5, Title: "Relance", Status: entity.TaskPending}}}
	uc := stats.NewUseCase(statsRepo, taskRepo)

	res, err := uc.Dashboard(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.AccountID)
	assert.Equal(t, int64(12), res.TotalProspects)
	assert.True(t, decimal.NewFromInt(42000).Equal(res.AcceptedValue))
	require.Len(t, res.OverdueDetails, 1)
	assert.Equal(t, "Relance", res.OverdueDetails[0].Title)
}

func TestProspectStatistics_FenetreParDefaut(t *testing.T) {
	statsRepo := &fakeStatsRepo{stats: repository.ProspectStats{TotalProspects: 4, Accepted: 1}}
	uc := stats.NewUseCase(statsRepo, &fakeTaskRepo{})

	res, err := uc.ProspectStatistics(context.Background(), nil, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.TotalProspects)
	assert.WithinDuration(t, time.Now(), statsRepo.gotTo, time.Minute)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -30), statsRepo.gotFrom, time.Minute,
		"fenêtre par défaut de 30 jours")
}

func TestProspectStatistics_BornesInversees(t *testing.T) {
	uc := stats.NewUseCase(&fakeStatsRepo{}, &fakeTaskRepo{})

	from := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	_, err := uc.ProspectStatistics(context.Background(), nil, from, to)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestConversionRates(t *testing.T) {
	avg := 4.5
	statsRepo := &fakeStatsRepo{agg: repository.ConversionAggregate{
		TotalProspects:    8,
		Accepted:          2,
		Rejected:          4,
		AvgResolutionDays: &avg,
	}}
	uc := stats.NewUseCase(statsRepo, &fakeTaskRepo{})

	res, err := uc.ConversionRates(context.Background(), nil, 90)
	require.NoError(t, err)
	assert.Equal(t, 90, res.WindowDays)
	assert.InDelta(t, 25.0, res.ConversionRate, 1e-9)
	assert.InDelta(t, 50.0, res.RejectionRate, 1e-9)
	assert.InDelta(t, 4.5, res.AvgResolutionDays, 1e-9)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -90), statsRepo.gotSince, time.Minute)
}

func TestConversionRates_AucunProspect(t *testing.T) {
	uc := stats.NewUseCase(&fakeStatsRepo{}, &fakeTaskRepo{})

	res, err := uc.ConversionRates(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 30, res.WindowDays, "fenêtre par défaut")
	assert.Zero(t, res.ConversionRate, "taux à zéro sans prospect, jamais de division par zéro")
	assert.Zero(t, res.RejectionRate)
	assert.Zero(t, res.AvgResolutionDays)
}
