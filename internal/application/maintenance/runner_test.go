package maintenance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/josoavj/prospectius-core/internal/application/maintenance"
	"github.com/josoavj/prospectius-core/internal/application/prospecting"
	"github.com/josoavj/prospectius-core/internal/domain/entity"
	"github.com/josoavj/prospectius-core/internal/domain/repository"
	"github.com/josoavj/prospectius-core/pkg/config"
	"github.com/josoavj/prospectius-core/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes minimaux
// ──────────────────────────────────────────────────────────────────────────────

type fakeMaintenanceRepo struct {
	calls int
	err   error
}

func (r *fakeMaintenanceRepo) Cleanup(_ context.Context) (string, error) {
	r.calls++
	return "2 sessions désactivées", r.err
}

type fakeAccountRepo struct {
	active []entity.Account
}

func (r *fakeAccountRepo) Create(_ context.Context, _ *entity.Account, _ *int64) (int64, error) {
	return 0, nil
}
func (r *fakeAccountRepo) GetByID(_ context.Context, _ int64) (*entity.Account, error) {
	return nil, nil
}
func (r *fakeAccountRepo) GetCredentialsByEmail(_ context.Context, _ string) (*repository.Credentials, error) {
	return nil, nil
}
func (r *fakeAccountRepo) Authenticate(_ context.Context, _, _, _ string) (*repository.AuthResult, error) {
	return nil, nil
}
func (r *fakeAccountRepo) ListActive(_ context.Context) ([]entity.Account, error) {
	return r.active, nil
}

type fakeProspectRepo struct {
	autoAssignCalls int
}

func (r *fakeProspectRepo) Create(_ context.Context, _ *entity.Prospect, _ int64) (int64, error) {
	return 0, nil
}
func (r *fakeProspectRepo) GetByID(_ context.Context, _ int64) (*entity.Prospect, error) {
	return nil, nil
}
func (r *fakeProspectRepo) UpdateStatus(_ context.Context, _ int64, _ entity.ProspectStatus, _ int64, _ *decimal.Decimal) error {
	return nil
}
func (r *fakeProspectRepo) Assign(_ context.Context, _, _ int64) error { return nil }
func (r *fakeProspectRepo) Search(_ context.Context, _ repository.SearchFilter, _ *int64, _, _ int) ([]entity.Prospect, error) {
	return nil, nil
}
func (r *fakeProspectRepo) ListByStatus(_ context.Context, _ entity.ProspectStatus, _ *int64) ([]entity.Prospect, error) {
	return nil, nil
}
func (r *fakeProspectRepo) AssignAutomatically(_ context.Context) (*repository.AssignmentSummary, error) {
	r.autoAssignCalls++
	return &repository.AssignmentSummary{Assigned: 1, Message: "1 prospect assigné"}, nil
}
func (r *fakeProspectRepo) Delete(_ context.Context, _ int64) error { return nil }

type fakeCommRepo struct{}

func (fakeCommRepo) Add(_ context.Context, _ *entity.Communication) (int64, error) { return 0, nil }
func (fakeCommRepo) ListByProspect(_ context.Context, _ int64) ([]entity.Communication, error) {
	return nil, nil
}

type fakeTaskRepo struct{}

func (fakeTaskRepo) Create(_ context.Context, _ *entity.Task) (int64, error) { return 0, nil }
func (fakeTaskRepo) UpdateStatus(_ context.Context, _ int64, _ entity.TaskStatus) error {
	return nil
}
func (fakeTaskRepo) ListForAssignee(_ context.Context, _ int64, _ bool) ([]entity.Task, error) {
	return nil, nil
}
func (fakeTaskRepo) ListOverdue(_ context.Context, _ *int64) ([]entity.Task, error) {
	return nil, nil
}

type fakeStatsRepo struct {
	dashboardErr   error
	dashboardCalls int
}

func (r *fakeStatsRepo) Dashboard(_ context.Context, accountID int64) (*repository.Dashboard, error) {
	r.dashboardCalls++
	if r.dashboardErr != nil && accountID == 1 {
		return nil, r.dashboardErr
	}
	return &repository.Dashboard{AccountID: accountID}, nil
}
func (r *fakeStatsRepo) ProspectStatistics(_ context.Context, _ *int64, _, _ time.Time) (*repository.ProspectStats, error) {
	return &repository.ProspectStats{}, nil
}
func (r *fakeStatsRepo) ConversionAggregate(_ context.Context, _ *int64, _ time.Time) (*repository.ConversionAggregate, error) {
	return &repository.ConversionAggregate{}, nil
}

func newRunner(t *testing.T) (*maintenance.Runner, *fakeMaintenanceRepo, *fakeProspectRepo, *fakeStatsRepo, *fakeAccountRepo) {
	t.Helper()
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	maintRepo := &fakeMaintenanceRepo{}
	prospectRepo := &fakeProspectRepo{}
	statsRepo := &fakeStatsRepo{}
	accountRepo := &fakeAccountRepo{}
	uc := prospecting.NewUseCase(prospectRepo, fakeCommRepo{}, fakeTaskRepo{}, statsRepo, log)
	cfg := config.MaintenanceConfig{CleanupHour: 2, NotificationHour: 8}
	return maintenance.NewRunner(maintRepo, accountRepo, uc, cfg, log), maintRepo, prospectRepo, statsRepo, accountRepo
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestTick_NettoyageUneFoisParJour(t *testing.T) {
	runner, maintRepo, prospectRepo, _, _ := newRunner(t)
	ctx := context.Background()

	day := time.Date(2026, 8, 29, 2, 0, 0, 0, time.UTC)
	runner.Tick(ctx, day)
	runner.Tick(ctx, day.Add(time.Minute))
	runner.Tick(ctx, day.Add(30*time.Minute))

	assert.Equal(t, 1, maintRepo.calls, "une seule passe de nettoyage dans l'heure")
	assert.Equal(t, 1, prospectRepo.autoAssignCalls)

	// Le lendemain, la passe repart.
	runner.Tick(ctx, day.AddDate(0, 0, 1))
	assert.Equal(t, 2, maintRepo.calls)
}

func TestTick_HorsHeureConfigureeRienNeSePasse(t *testing.T) {
	runner, maintRepo, prospectRepo, statsRepo, _ := newRunner(t)

	runner.Tick(context.Background(), time.Date(2026, 8, 29, 14, 0, 0, 0, time.UTC))
	assert.Zero(t, maintRepo.calls)
	assert.Zero(t, prospectRepo.autoAssignCalls)
	assert.Zero(t, statsRepo.dashboardCalls)
}

func TestTick_EchecNettoyageNArretePasLAssignation(t *testing.T) {
	runner, maintRepo, prospectRepo, _, _ := newRunner(t)
	maintRepo.err = errors.New("base indisponible")

	runner.Tick(context.Background(), time.Date(2026, 8, 29, 2, 5, 0, 0, time.UTC))
	assert.Equal(t, 1, maintRepo.calls)
	assert.Equal(t, 1, prospectRepo.autoAssignCalls, "l'assignation tourne malgré l'échec du nettoyage")
}

func TestTick_NotificationsContinuentApresEchec(t *testing.T) {
	runner, _, _, statsRepo, accountRepo := newRunner(t)
	accountRepo.active = []entity.Account{{ID: 1}, {ID: 2}, {ID: 3}}
	statsRepo.dashboardErr = errors.New("vue indisponible")

	runner.Tick(context.Background(), time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, 3, statsRepo.dashboardCalls,
		"l'échec du rapport du compte 1 n'empêche pas les comptes suivants")
}
