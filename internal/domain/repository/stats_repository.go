package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Dashboard agrégats du tableau de bord d'un compte (vue en base).
type Dashboard struct {
	AccountID         int64
	TotalProspects    int64
	PendingProspects  int64
	AcceptedProspects int64
	PendingTasks      int64
	OverdueTasks      int64
	AcceptedValue     decimal.Decimal
}

// ProspectStats résultat de la procédure de statistiques sur une fenêtre.
type ProspectStats struct {
	TotalProspects      int64
	Accepted            int64
	Rejected            int64
	InProgress          int64
	Pending             int64
	TotalEstimatedValue decimal.Decimal
}

// ConversionAggregate comptages bruts servant au calcul des taux de
// conversion ; AvgResolutionDays est nul quand aucun prospect n'a été résolu
// dans la fenêtre.
type ConversionAggregate struct {
	TotalProspects    int64
	Accepted          int64
	Rejected          int64
	AvgResolutionDays *float64
}

// StatsRepository requêtes read-only d'agrégation.
type StatsRepository interface {
	Dashboard(ctx context.Context, accountID int64) (*Dashboard, error)
	ProspectStatistics(ctx context.Context, accountID *int64, from, to time.Time) (*ProspectStats, error)
	ConversionAggregate(ctx context.Context, accountID *int64, since time.Time) (*ConversionAggregate, error)
}

// MaintenanceRepository opérations d'entretien déléguées à la base.
type MaintenanceRepository interface {
	// Cleanup exécute la procédure de nettoyage des données obsolètes et
	// retourne son message de statut.
	Cleanup(ctx context.Context) (string, error)
}
