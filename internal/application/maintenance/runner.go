// Package maintenance exécute les passes automatiques planifiées : nettoyage
// des données et assignation des prospects orphelins à l'heure creuse,
// rapports quotidiens des comptes actifs en début de journée.
package maintenance

import (
	"context"
	"time"

	"github.com/josoavj/prospectius-core/internal/application/prospecting"
	"github.com/josoavj/prospectius-core/internal/domain/repository"
	"github.com/josoavj/prospectius-core/pkg/config"
	"github.com/josoavj/prospectius-core/pkg/logger"
)

// Runner boucle de maintenance. Chaque passe se déclenche au plus une fois
// par jour, à la minute zéro de son heure configurée. Les erreurs sont
// journalisées et n'arrêtent jamais la boucle.
type Runner struct {
	maintenance repository.MaintenanceRepository
	accounts    repository.AccountRepository
	prospecting *prospecting.UseCase
	cfg         config.MaintenanceConfig
	log         *logger.Logger

	lastCleanup      string // date (2006-01-02) de la dernière passe
	lastNotification string
}

// NewRunner construit la boucle de maintenance.
func NewRunner(
	maintenance repository.MaintenanceRepository,
	accounts repository.AccountRepository,
	prospecting *prospecting.UseCase,
	cfg config.MaintenanceConfig,
	log *logger.Logger,
) *Runner {
	return &Runner{
		maintenance: maintenance,
		accounts:    accounts,
		prospecting: prospecting,
		cfg:         cfg,
		log:         log,
	}
}

// Run boucle jusqu'à annulation du contexte, au pas d'une minute.
func (r *Runner) Run(ctx context.Context) {
	r.log.Info().Int("heure_nettoyage", r.cfg.CleanupHour).
		Int("heure_notifications", r.cfg.NotificationHour).
		Msg("boucle de maintenance démarrée")

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("boucle de maintenance arrêtée")
			return
		case now := <-ticker.C:
			r.Tick(ctx, now)
		}
	}
}

// Tick déclenche les passes dues à l'instant now. Exposé pour les tests.
func (r *Runner) Tick(ctx context.Context, now time.Time) {
	day := now.Format("2006-01-02")
	if now.Hour() == r.cfg.CleanupHour && r.lastCleanup != day {
		r.lastCleanup = day
		r.runCleanup(ctx)
	}
	if now.Hour() == r.cfg.NotificationHour && r.lastNotification != day {
		r.lastNotification = day
		r.runNotifications(ctx)
	}
}

// runCleanup exécute le nettoyage en base puis l'assignation automatique des
// prospects orphelins.
func (r *Runner) runCleanup(ctx context.Context) {
	msg, err := r.maintenance.Cleanup(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("échec du nettoyage des données")
	} else {
		r.log.Info().Str("resultat", msg).Msg("nettoyage des données terminé")
	}

	summary, err := r.prospecting.AssignAutomatically(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("échec de l'assignation automatique")
		return
	}
	r.log.Info().Int("assignes", summary.Assigned).Str("resultat", summary.Message).
		Msg("assignation automatique terminée")
}

// runNotifications produit le rapport quotidien de chaque compte actif. Un
// échec sur un compte n'empêche pas les suivants.
func (r *Runner) runNotifications(ctx context.Context) {
	accounts, err := r.accounts.ListActive(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("échec du listage des comptes actifs")
		return
	}
	for _, account := range accounts {
		report, err := r.prospecting.DailyReport(ctx, account.ID)
		if err != nil {
			r.log.Error().Err(err).Int64("id_compte", account.ID).
				Msg("échec du rapport quotidien")
			continue
		}
		r.log.Info().Int64("id_compte", account.ID).
			Int("alertes", report.Alerts).
			Int("taches_du_jour", len(report.TodayTasks)).
			Int("taches_en_retard", len(report.OverdueTasks)).
			Msg("rapport quotidien généré")
	}
}
