package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/josoavj/prospectius-core/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)
var _ repository.MaintenanceRepository = (*StatsRepo)(nil)

// StatsRepo requêtes read-only d'agrégation (tableaux de bord, taux de
// conversion) et opérations d'entretien déléguées à la base.
type StatsRepo struct {
	gw *Gateway
}

// NewStatsRepository construit l'adaptateur statistiques.
func NewStatsRepository(gw *Gateway) *StatsRepo {
	return &StatsRepo{gw: gw}
}

// Dashboard lit la vue d'agrégats par compte. Un compte sans activité reçoit
// un tableau de bord à zéro plutôt qu'une erreur.
func (r *StatsRepo) Dashboard(ctx context.Context, accountID int64) (*repository.Dashboard, error) {
	query := `
		SELECT id_compte, total_prospects, prospects_en_attente, prospects_acceptes,
		       taches_en_attente, taches_en_retard, valeur_acceptee
		FROM v_dashboard_utilisateur
		WHERE id_compte = $1`
	var d repository.Dashboard
	err := r.gw.QueryRow(ctx, query, []any{accountID}, func(row pgx.Row) error {
		return row.Scan(
			&d.AccountID, &d.TotalProspects, &d.PendingProspects, &d.AcceptedProspects,
			&d.PendingTasks, &d.OverdueTasks, &d.AcceptedValue,
		)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &repository.Dashboard{AccountID: accountID}, nil
		}
		return nil, fmt.Errorf("lire le tableau de bord: %w", err)
	}
	return &d, nil
}

// ProspectStatistics exécute la procédure de statistiques sur la fenêtre
// [from, to], tous comptes confondus quand accountID est nil.
func (r *StatsRepo) ProspectStatistics(ctx context.Context, accountID *int64, from, to time.Time) (*repository.ProspectStats, error) {
	var s repository.ProspectStats
	err := r.gw.CallProcedure(ctx, "sp_statistiques_prospects", []any{accountID, from, to}, func(rows pgx.Rows) error {
		if !rows.Next() {
			return nil // fenêtre vide : tous les compteurs restent à zéro
		}
		return rows.Scan(&s.TotalProspects, &s.Accepted, &s.Rejected, &s.InProgress, &s.Pending, &s.TotalEstimatedValue)
	})
	if err != nil {
		return nil, fmt.Errorf("statistiques prospects: %w", err)
	}
	return &s, nil
}

// ConversionAggregate compte acceptés/refusés et la durée moyenne de
// résolution depuis la date donnée. La moyenne est NULL quand rien n'a été
// résolu dans la fenêtre.
func (r *StatsRepo) ConversionAggregate(ctx context.Context, accountID *int64, since time.Time) (*repository.ConversionAggregate, error) {
	query := `
		SELECT COUNT(*)                                                        AS total_prospects,
		       COUNT(*) FILTER (WHERE statut_prospect = 'accepté')             AS acceptes,
		       COUNT(*) FILTER (WHERE statut_prospect = 'refusé')              AS refuses,
		       AVG(EXTRACT(EPOCH FROM updated_at - created_at) / 86400.0)
		           FILTER (WHERE statut_prospect IN ('accepté', 'refusé'))     AS duree_moyenne
		FROM prospect
		WHERE date_creation >= $1`
	args := []any{since}
	if accountID != nil {
		query += ` AND id_compte_fk = $2`
		args = append(args, *accountID)
	}

	var a repository.ConversionAggregate
	err := r.gw.QueryRow(ctx, query, args, func(row pgx.Row) error {
		return row.Scan(&a.TotalProspects, &a.Accepted, &a.Rejected, &a.AvgResolutionDays)
	})
	if err != nil {
		return nil, fmt.Errorf("agrégat de conversion: %w", err)
	}
	return &a, nil
}

// Cleanup exécute la procédure de nettoyage des données obsolètes.
func (r *StatsRepo) Cleanup(ctx context.Context) (string, error) {
	var message string
	err := r.gw.CallProcedure(ctx, "sp_nettoyage_donnees", nil, func(rows pgx.Rows) error {
		if !rows.Next() {
			return nil
		}
		return rows.Scan(&message)
	})
	if err != nil {
		return "", fmt.Errorf("nettoyage: %w", err)
	}
	return message, nil
}
