// Package prospecting orchestre le cycle de vie des prospects : workflow de
// création complet, transitions de statut, communications, tâches de suivi,
// traitement par lot et rapport quotidien.
package prospecting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/josoavj/prospectius-core/internal/application/dto"
	"github.com/josoavj/prospectius-core/internal/domain"
	"github.com/josoavj/prospectius-core/internal/domain/entity"
	"github.com/josoavj/prospectius-core/internal/domain/repository"
	"github.com/josoavj/prospectius-core/pkg/logger"
)

// Délai de la tâche de suivi initial créée par le workflow.
const initialFollowUpDelay = 72 * time.Hour

// UseCase cas d'usage de prospection.
type UseCase struct {
	prospects      repository.ProspectRepository
	communications repository.CommunicationRepository
	tasks          repository.TaskRepository
	stats          repository.StatsRepository
	log            *logger.Logger
}

// NewUseCase construit le cas d'usage de prospection.
func NewUseCase(
	prospects repository.ProspectRepository,
	communications repository.CommunicationRepository,
	tasks repository.TaskRepository,
	stats repository.StatsRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		prospects:      prospects,
		communications: communications,
		tasks:          tasks,
		stats:          stats,
		log:            log,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Workflow de création
// ──────────────────────────────────────────────────────────────────────────────

// CreateProspectWorkflow enchaîne la création du prospect, l'enregistrement
// de la première communication et la tâche de suivi initial. L'enchaînement
// n'est pas compensé : si une étape intermédiaire échoue, le prospect créé
// reste en base et le résultat porte son identifiant avec Success à faux.
func (uc *UseCase) CreateProspectWorkflow(ctx context.Context, in dto.ProspectInput, accountID int64) (*dto.WorkflowResult, error) {
	p, err := in.ToEntity()
	if err != nil {
		return nil, err
	}
	p.OwnerID = &accountID

	prospectID, err := uc.prospects.Create(ctx, p, accountID)
	if err != nil {
		return nil, fmt.Errorf("création du prospect: %w", err)
	}

	body := "Premier contact établi avec le prospect"
	commID, err := uc.communications.Add(ctx, &entity.Communication{
		ProspectID: prospectID,
		Type:       "email",
		Subject:    "Premier contact",
		Body:       &body,
		Status:     entity.CommunicationDone,
		AccountID:  accountID,
	})
	if err != nil {
		uc.log.Error().Err(err).Int64("id_prospect", prospectID).
			Msg("workflow interrompu après création du prospect")
		return &dto.WorkflowResult{
			Success:    false,
			ProspectID: prospectID,
			Message:    "Prospect créé mais communication initiale en échec",
		}, nil
	}

	desc := "Effectuer le suivi initial du prospect"
	taskID, err := uc.tasks.Create(ctx, &entity.Task{
		ProspectID:  prospectID,
		Title:       fmt.Sprintf("Suivi initial - %s %s", p.LastName, p.FirstName),
		Description: &desc,
		DueDate:     time.Now().Add(initialFollowUpDelay),
		Status:      entity.TaskPending,
		Priority:    p.Priority,
		AssigneeID:  accountID,
	})
	if err != nil {
		uc.log.Error().Err(err).Int64("id_prospect", prospectID).
			Msg("workflow interrompu après la communication initiale")
		return &dto.WorkflowResult{
			Success:         false,
			ProspectID:      prospectID,
			CommunicationID: commID,
			Message:         "Prospect créé mais tâche de suivi en échec",
		}, nil
	}

	uc.log.Info().Int64("id_prospect", prospectID).Int64("id_tache", taskID).
		Msg("workflow de création terminé")
	return &dto.WorkflowResult{
		Success:         true,
		ProspectID:      prospectID,
		CommunicationID: commID,
		TaskID:          taskID,
		Message:         "Workflow complet : prospect, communication et tâche créés",
	}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Prospects
// ──────────────────────────────────────────────────────────────────────────────

// GetProspect retourne un prospect par identifiant, ErrNotFound s'il n'existe
// pas.
func (uc *UseCase) GetProspect(ctx context.Context, id int64) (*dto.ProspectResponse, error) {
	p, err := uc.prospects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	res := dto.FromProspect(p)
	return &res, nil
}

// UpdateProspectStatus écrase le statut d'un prospect. Les transitions hors
// flux nominal sont acceptées mais journalisées en avertissement. La valeur
// finale ne remplace la valeur estimée que si elle est fournie.
func (uc *UseCase) UpdateProspectStatus(ctx context.Context, id int64, statusRaw string, updatedBy int64, finalValue *decimal.Decimal) error {
	status, err := entity.ParseProspectStatus(statusRaw)
	if err != nil {
		return fmt.Errorf("%w: statut inconnu %q", domain.ErrValidation, statusRaw)
	}
	if finalValue != nil && finalValue.IsNegative() {
		return fmt.Errorf("%w: valeur finale négative", domain.ErrValidation)
	}

	current, err := uc.prospects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.ErrNotFound
	}
	if !entity.NominalTransition(current.Status, status) {
		uc.log.Warn().Int64("id_prospect", id).
			Str("de", string(current.Status)).Str("vers", string(status)).
			Msg("transition hors flux nominal")
	}
	return uc.prospects.UpdateStatus(ctx, id, status, updatedBy, finalValue)
}

// Search recherche des prospects selon le filtre, scopé au compte quand
// ownerID est non nil.
func (uc *UseCase) Search(ctx context.Context, in dto.SearchRequest, ownerID *int64) ([]dto.ProspectResponse, error) {
	f, err := buildFilter(in)
	if err != nil {
		return nil, err
	}
	in.DefaultPage()
	items, err := uc.prospects.Search(ctx, f, ownerID, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	return dto.FromProspects(items), nil
}

// buildFilter traduit la requête API en filtre de persistance.
func buildFilter(in dto.SearchRequest) (repository.SearchFilter, error) {
	var f repository.SearchFilter
	if in.Status != "" {
		s, err := entity.ParseProspectStatus(in.Status)
		if err != nil {
			return f, fmt.Errorf("%w: statut inconnu %q", domain.ErrValidation, in.Status)
		}
		f.Status = &s
	}
	if in.Priority != "" {
		p, err := entity.ParsePriority(in.Priority)
		if err != nil {
			return f, fmt.Errorf("%w: priorité inconnue %q", domain.ErrValidation, in.Priority)
		}
		f.Priority = &p
	}
	if in.From != "" {
		ts, err := time.Parse("2006-01-02", in.From)
		if err != nil {
			return f, fmt.Errorf("%w: date_debut invalide", domain.ErrValidation)
		}
		f.From = &ts
	}
	if in.To != "" {
		ts, err := time.Parse("2006-01-02", in.To)
		if err != nil {
			return f, fmt.Errorf("%w: date_fin invalide", domain.ErrValidation)
		}
		f.To = &ts
	}
	f.Text = in.Text
	return f, nil
}

// AssignProspect affecte un prospect à un compte. Le prospect passe d'abord
// en cours de traitement, puis l'affectation est écrite.
func (uc *UseCase) AssignProspect(ctx context.Context, prospectID, accountID, actorID int64) error {
	if err := uc.prospects.UpdateStatus(ctx, prospectID, entity.ProspectInProgress, actorID, nil); err != nil {
		return err
	}
	return uc.prospects.Assign(ctx, prospectID, accountID)
}

// DeleteProspect supprime définitivement un prospect. Les communications et
// tâches liées partent en cascade côté base.
func (uc *UseCase) DeleteProspect(ctx context.Context, id int64) error {
	return uc.prospects.Delete(ctx, id)
}

// AssignAutomatically délègue la répartition des prospects orphelins à la
// procédure stockée.
func (uc *UseCase) AssignAutomatically(ctx context.Context) (*repository.AssignmentSummary, error) {
	return uc.prospects.AssignAutomatically(ctx)
}

// ──────────────────────────────────────────────────────────────────────────────
// Communications et tâches
// ──────────────────────────────────────────────────────────────────────────────

// AddCommunication enregistre une interaction avec un prospect. Le statut,
// quand il est fourni, doit être une valeur connue ; vide, il est défaulté à
// realise par la couche repository.
func (uc *UseCase) AddCommunication(ctx context.Context, in dto.CommunicationInput) (int64, error) {
	if in.ProspectID == 0 || in.Type == "" || in.Subject == "" {
		return 0, fmt.Errorf("%w: prospect, type et sujet sont obligatoires", domain.ErrValidation)
	}
	if in.Status != "" {
		if _, err := entity.ParseCommunicationStatus(in.Status); err != nil {
			return 0, fmt.Errorf("%w: statut de communication inconnu %q", domain.ErrValidation, in.Status)
		}
	}
	return uc.communications.Add(ctx, in.ToEntity())
}

// ScheduleCommunication planifie une interaction à venir : même insertion
// qu'une communication réalisée, statut forcé à planifie. Comme pour l'ajout,
// la date absente est défaultée à l'instant courant.
func (uc *UseCase) ScheduleCommunication(ctx context.Context, in dto.CommunicationInput) (int64, error) {
	in.Status = string(entity.CommunicationPlanned)
	return uc.AddCommunication(ctx, in)
}

// ListCommunications retourne l'historique des interactions d'un prospect,
// de la plus récente à la plus ancienne.
func (uc *UseCase) ListCommunications(ctx context.Context, prospectID int64) ([]dto.CommunicationResponse, error) {
	items, err := uc.communications.ListByProspect(ctx, prospectID)
	if err != nil {
		return nil, err
	}
	return dto.FromCommunications(items), nil
}

// CreateTask crée une tâche de suivi.
func (uc *UseCase) CreateTask(ctx context.Context, in dto.TaskInput) (int64, error) {
	if in.ProspectID == 0 || in.Title == "" || in.AssigneeID == 0 {
		return 0, fmt.Errorf("%w: prospect, titre et assigné sont obligatoires", domain.ErrValidation)
	}
	t, err := in.ToEntity()
	if err != nil {
		return 0, err
	}
	return uc.tasks.Create(ctx, t)
}

// UpdateTaskStatus écrase le statut d'une tâche.
func (uc *UseCase) UpdateTaskStatus(ctx context.Context, id int64, statusRaw string) error {
	status, err := entity.ParseTaskStatus(statusRaw)
	if err != nil {
		return fmt.Errorf("%w: statut de tâche inconnu %q", domain.ErrValidation, statusRaw)
	}
	return uc.tasks.UpdateStatus(ctx, id, status)
}

// ListTasks retourne les tâches d'un compte, tâches terminées exclues sauf
// demande explicite.
func (uc *UseCase) ListTasks(ctx context.Context, accountID int64, includeCompleted bool) ([]dto.TaskResponse, error) {
	items, err := uc.tasks.ListForAssignee(ctx, accountID, includeCompleted)
	if err != nil {
		return nil, err
	}
	return dto.FromTasks(items), nil
}

// ListOverdueTasks retourne les tâches en retard, scopé au compte quand
// assigneeID est non nil.
func (uc *UseCase) ListOverdueTasks(ctx context.Context, assigneeID *int64) ([]dto.TaskResponse, error) {
	items, err := uc.tasks.ListOverdue(ctx, assigneeID)
	if err != nil {
		return nil, err
	}
	return dto.FromTasks(items), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Traitement par lot
// ──────────────────────────────────────────────────────────────────────────────

// ProcessBatch exécute un lot d'opérations au mieux : chaque opération
// échouée est consignée et le traitement continue. Le bilan compte les
// opérations traitées et le succès global n'est vrai que sans aucun échec.
func (uc *UseCase) ProcessBatch(ctx context.Context, ops []dto.BatchOperation, accountID int64) *dto.BatchResult {
	result := &dto.BatchResult{Total: len(ops)}
	for i, op := range ops {
		if err := uc.applyOperation(ctx, op, accountID); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("opération %d (%s): %v", i+1, op.Type, err))
			continue
		}
		result.Processed++
		result.Results = append(result.Results, fmt.Sprintf("opération %d (%s): ok", i+1, op.Type))
	}
	result.Success = len(result.Errors) == 0
	uc.log.Info().Int("total", result.Total).Int("traitees", result.Processed).
		Int("echecs", len(result.Errors)).Msg("lot traité")
	return result
}

func (uc *UseCase) applyOperation(ctx context.Context, op dto.BatchOperation, accountID int64) error {
	switch op.Type {
	case dto.OpUpdateProspectStatus:
		return uc.UpdateProspectStatus(ctx, op.Data.ProspectID, op.Data.Status, accountID, op.Data.FinalValue)
	case dto.OpCompleteTask:
		return uc.tasks.UpdateStatus(ctx, op.Data.TaskID, entity.TaskCompleted)
	case dto.OpAddCommunication:
		_, err := uc.AddCommunication(ctx, dto.CommunicationInput{
			ProspectID: op.Data.ProspectID,
			Type:       op.Data.Type,
			Subject:    op.Data.Subject,
			Body:       op.Data.Body,
			AccountID:  accountID,
		})
		return err
	case dto.OpAssignProspect:
		return uc.AssignProspect(ctx, op.Data.ProspectID, op.Data.AssignedTo, accountID)
	default:
		return fmt.Errorf("%w: type d'opération inconnu %q", domain.ErrValidation, op.Type)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Rapport quotidien
// ──────────────────────────────────────────────────────────────────────────────

// DailyReport assemble le rapport quotidien d'un compte : tableau de bord,
// tâches dues au plus tard aujourd'hui, prospects haute priorité en attente,
// tâches en retard. Le compteur d'alertes additionne tâches en retard et
// prospects haute priorité en attente.
func (uc *UseCase) DailyReport(ctx context.Context, accountID int64) (*dto.DailyReport, error) {
	now := time.Now()

	dashboard, err := uc.stats.Dashboard(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("tableau de bord: %w", err)
	}

	tasks, err := uc.tasks.ListForAssignee(ctx, accountID, false)
	if err != nil {
		return nil, fmt.Errorf("tâches du compte: %w", err)
	}
	// Les tâches du jour incluent celles déjà en retard (échéance <= aujourd'hui).
	var today []entity.Task
	for _, t := range tasks {
		if !dayStart(t.DueDate).After(dayStart(now)) {
			today = append(today, t)
		}
	}

	pending, err := uc.prospects.ListByStatus(ctx, entity.ProspectPending, &accountID)
	if err != nil {
		return nil, fmt.Errorf("prospects en attente: %w", err)
	}
	var high []entity.Prospect
	for _, p := range pending {
		if p.Priority == entity.PriorityHigh {
			high = append(high, p)
		}
		if len(high) == 10 {
			break
		}
	}

	overdue, err := uc.tasks.ListOverdue(ctx, &accountID)
	if err != nil {
		return nil, fmt.Errorf("tâches en retard: %w", err)
	}

	return &dto.DailyReport{
		ReportDate:   now.Format("2006-01-02"),
		AccountID:    accountID,
		Stats:        dto.FromDashboard(dashboard),
		TodayTasks:   dto.FromTasks(today),
		HighPriority: dto.FromProspects(high),
		OverdueTasks: dto.FromTasks(overdue),
		Alerts:       len(overdue) + len(high),
	}, nil
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
