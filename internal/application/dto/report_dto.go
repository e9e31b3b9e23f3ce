package dto

import (
	"github.com/shopspring/decimal"

	"github.com/josoavj/prospectius-core/internal/domain/repository"
)

// DashboardResponse tableau de bord d'un compte, avec le détail des tâches en
// retard.
type DashboardResponse struct {
	AccountID         int64           `json:"id_compte"`
	TotalProspects    int64           `json:"total_prospects"`
	PendingProspects  int64           `json:"prospects_en_attente"`
	AcceptedProspects int64           `json:"prospects_acceptes"`
	PendingTasks      int64           `json:"taches_en_attente"`
	OverdueTasks      int64           `json:"taches_en_retard"`
	AcceptedValue     decimal.Decimal `json:"valeur_acceptee"`
	OverdueDetails    []TaskResponse  `json:"detail_taches_en_retard,omitempty"`
}

// FromDashboard construit la réponse depuis les agrégats de la vue.
func FromDashboard(d *repository.Dashboard) DashboardResponse {
	return DashboardResponse{
		AccountID:         d.AccountID,
		TotalProspects:    d.TotalProspects,
		PendingProspects:  d.PendingProspects,
		AcceptedProspects: d.AcceptedProspects,
		PendingTasks:      d.PendingTasks,
		OverdueTasks:      d.OverdueTasks,
		AcceptedValue:     d.AcceptedValue,
	}
}

// ProspectStatsResponse statistiques des prospects sur une fenêtre.
type ProspectStatsResponse struct {
	From                string          `json:"date_debut"`
	To                  string          `json:"date_fin"`
	TotalProspects      int64           `json:"total_prospects"`
	Accepted            int64           `json:"acceptes"`
	Rejected            int64           `json:"refuses"`
	InProgress          int64           `json:"en_cours"`
	Pending             int64           `json:"en_attente"`
	TotalEstimatedValue decimal.Decimal `json:"valeur_estimee_totale"`
}

// ConversionRates taux calculés sur une fenêtre glissante. Tous les taux
// valent zéro quand aucun prospect n'existe dans la fenêtre.
type ConversionRates struct {
	WindowDays        int     `json:"fenetre_jours"`
	TotalProspects    int64   `json:"total_prospects"`
	Accepted          int64   `json:"acceptes"`
	Rejected          int64   `json:"refuses"`
	ConversionRate    float64 `json:"taux_conversion"`
	RejectionRate     float64 `json:"taux_refus"`
	AvgResolutionDays float64 `json:"duree_moyenne_jours"`
}

// DailyReport rapport quotidien d'un compte.
type DailyReport struct {
	ReportDate   string             `json:"date_rapport"`
	AccountID    int64              `json:"id_compte"`
	Stats        DashboardResponse  `json:"statistiques"`
	TodayTasks   []TaskResponse     `json:"taches_du_jour"`
	HighPriority []ProspectResponse `json:"prospects_haute_priorite"`
	OverdueTasks []TaskResponse     `json:"taches_en_retard"`
	Alerts       int                `json:"alertes"`
}
