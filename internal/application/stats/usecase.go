// Package stats porte les cas d'usage de restitution : tableau de bord,
// statistiques fenêtrées et taux de conversion.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/josoavj/prospectius-core/internal/application/dto"
	"github.com/josoavj/prospectius-core/internal/domain"
	"github.com/josoavj/prospectius-core/internal/domain/repository"
)

// Fenêtre par défaut des statistiques et des taux de conversion.
const defaultWindowDays = 30

// UseCase cas d'usage de statistiques, en lecture seule.
type UseCase struct {
	stats repository.StatsRepository
	tasks repository.TaskRepository
}

// NewUseCase construit le cas d'usage de statistiques.
func NewUseCase(stats repository.StatsRepository, tasks repository.TaskRepository) *UseCase {
	return &UseCase{stats: stats, tasks: tasks}
}

// Dashboard retourne le tableau de bord d'un compte, enrichi du détail des
// tâches en retard.
func (uc *UseCase) Dashboard(ctx context.Context, accountID int64) (*dto.DashboardResponse, error) {
	d, err := uc.stats.Dashboard(ctx, accountID)
	if err != nil {
		return nil, err
	}
	overdue, err := uc.tasks.ListOverdue(ctx, &accountID)
	if err != nil {
		return nil, err
	}
	res := dto.FromDashboard(d)
	res.OverdueDetails = dto.FromTasks(overdue)
	return &res, nil
}

// ProspectStatistics retourne les statistiques des prospects sur [from, to].
// Quand les bornes sont nulles, la fenêtre par défaut des trente derniers
// jours s'applique. accountID restreint au compte quand il est non nil.
func (uc *UseCase) ProspectStatistics(ctx context.Context, accountID *int64, from, to time.Time) (*dto.ProspectStatsResponse, error) {
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -defaultWindowDays)
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: date_debut postérieure à date_fin", domain.ErrValidation)
	}
	s, err := uc.stats.ProspectStatistics(ctx, accountID, from, to)
	if err != nil {
		return nil, err
	}
	return &dto.ProspectStatsResponse{
		From:                from.Format("2006-01-02"),
		To:                  to.Format("2006-01-02"),
		TotalProspects:      s.TotalProspects,
		Accepted:            s.Accepted,
		Rejected:            s.Rejected,
		InProgress:          s.InProgress,
		Pending:             s.Pending,
		TotalEstimatedValue: s.TotalEstimatedValue,
	}, nil
}

// ConversionRates calcule les taux de conversion et de refus sur une fenêtre
// glissante en jours. Tous les taux valent zéro quand aucun prospect
// n'existe dans la fenêtre.
func (uc *UseCase) ConversionRates(ctx context.Context, accountID *int64, windowDays int) (*dto.ConversionRates, error) {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	since := time.Now().AddDate(0, 0, -windowDays)
	agg, err := uc.stats.ConversionAggregate(ctx, accountID, since)
	if err != nil {
		return nil, err
	}

	res := &dto.ConversionRates{
		WindowDays:     windowDays,
		TotalProspects: agg.TotalProspects,
		Accepted:       agg.Accepted,
		Rejected:       agg.Rejected,
	}
	if agg.TotalProspects > 0 {
		res.ConversionRate = float64(agg.Accepted) / float64(agg.TotalProspects) * 100
		res.RejectionRate = float64(agg.Rejected) / float64(agg.TotalProspects) * 100
	}
	if agg.AvgResolutionDays != nil {
		res.AvgResolutionDays = *agg.AvgResolutionDays
	}
	return res, nil
}
