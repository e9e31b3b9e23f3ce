package prospecting_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josoavj/prospectius-core/internal/application/dto"
	"github.com/josoavj/prospectius-core/internal/application/prospecting"
	"github.com/josoavj/prospectius-core/internal/domain"
	"github.com/josoavj/prospectius-core/internal/domain/entity"
	"github.com/josoavj/prospectius-core/internal/domain/repository"
	"github.com/josoavj/prospectius-core/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en mémoire
// ──────────────────────────────────────────────────────────────────────────────

type fakeProspectRepo struct {
	byID   map[int64]*entity.Prospect
	nextID int64
}

func newFakeProspectRepo() *fakeProspectRepo {
	return &fakeProspectRepo{byID: map[int64]*entity.Prospect{}, nextID: 1}
}

func (r *fakeProspectRepo) Create(_ context.Context, p *entity.Prospect, _ int64) (int64, error) {
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	r.byID[p.ID] = p
	return p.ID, nil
}

func (r *fakeProspectRepo) GetByID(_ context.Context, id int64) (*entity.Prospect, error) {
	return r.byID[id], nil
}

func (r *fakeProspectRepo) UpdateStatus(_ context.Context, id int64, status entity.ProspectStatus, updatedBy int64, finalValue *decimal.Decimal) error {
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	p.UpdatedBy = &updatedBy
	if finalValue != nil {
		p.EstimatedValue = finalValue
	}
	return nil
}

func (r *fakeProspectRepo) Assign(_ context.Context, id, accountID int64) error {
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.OwnerID = &accountID
	return nil
}

func (r *fakeProspectRepo) Search(_ context.Context, _ repository.SearchFilter, _ *int64, _, _ int) ([]entity.Prospect, error) {
	var out []entity.Prospect
	for _, p := range r.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProspectRepo) ListByStatus(_ context.Context, status entity.ProspectStatus, ownerID *int64) ([]entity.Prospect, error) {
	var out []entity.Prospect
	for _, p := range r.byID {
		if p.Status != status {
			continue
		}
		if ownerID != nil && (p.OwnerID == nil || *p.OwnerID != *ownerID) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProspectRepo) AssignAutomatically(_ context.Context) (*repository.AssignmentSummary, error) {
	return &repository.AssignmentSummary{Assigned: 0, Message: "rien à assigner"}, nil
}

func (r *fakeProspectRepo) Delete(_ context.Context, id int64) error {
	delete(r.byID, id)
	return nil
}

type fakeCommRepo struct {
	items  []entity.Communication
	nextID int64
	fail   bool
}

func (r *fakeCommRepo) Add(_ context.Context, c *entity.Communication) (int64, error) {
	if r.fail {
		return 0, errors.New("insertion refusée")
	}
	r.nextID++
	c.ID = r.nextID
	r.items = append(r.items, *c)
	return c.ID, nil
}

func (r *fakeCommRepo) ListByProspect(_ context.Context, prospectID int64) ([]entity.Communication, error) {
	var out []entity.Communication
	for _, c := range r.items {
		if c.ProspectID == prospectID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeTaskRepo struct {
	byID   map[int64]*entity.Task
	nextID int64
	fail   bool
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{byID: map[int64]*entity.Task{}}
}

func (r *fakeTaskRepo) Create(_ context.Context, t *entity.Task) (int64, error) {
	if r.fail {
		return 0, errors.New("insertion refusée")
	}
	r.nextID++
	t.ID = r.nextID
	r.byID[t.ID] = t
	return t.ID, nil
}

func (r *fakeTaskRepo) UpdateStatus(_ context.Context, id int64, status entity.TaskStatus) error {
	t, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTaskRepo) ListForAssignee(_ context.Context, accountID int64, includeCompleted bool) ([]entity.Task, error) {
	var out []entity.Task
	for _, t := range r.byID {
		if t.AssigneeID != accountID {
			continue
		}
		if !includeCompleted && t.Status == entity.TaskCompleted {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTaskRepo) ListOverdue(_ context.Context, assigneeID *int64) ([]entity.Task, error) {
	var out []entity.Task
	now := time.Now()
	for _, t := range r.byID {
		if assigneeID != nil && t.AssigneeID != *assigneeID {
			continue
		}
		if t.Overdue(now) {
			out = append(out, *t)
		}
	}
	return out, nil
}

type fakeStatsRepo struct {
	dashboard repository.Dashboard
}

func (r *fakeStatsRepo) Dashboard(_ context.Context, accountID int64) (*repository.Dashboard, error) {
	d := r.dashboard
	d.AccountID = accountID
	return &d, nil
}

func (r *fakeStatsRepo) ProspectStatistics(_ context.Context, _ *int64, _, _ time.Time) (*repository.ProspectStats, error) {
	return &repository.ProspectStats{}, nil
}

func (r *fakeStatsRepo) ConversionAggregate(_ context.Context, _ *int64, _ time.Time) (*repository.ConversionAggregate, error) {
	return &repository.ConversionAggregate{}, nil
}

type deps struct {
	prospects *fakeProspectRepo
	comms     *fakeCommRepo
	tasks     *fakeTaskRepo
	stats     *fakeStatsRepo
}

func newUseCase(t *testing.T) (*prospecting.UseCase, *deps) {
	t.Helper()
	d := &deps{
		prospects: newFakeProspectRepo(),
		comms:     &fakeCommRepo{},
		tasks:     newFakeTaskRepo(),
		stats:     &fakeStatsRepo{},
	}
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	return prospecting.NewUseCase(d.prospects, d.comms, d.tasks, d.stats, log), d
}

func validInput() dto.ProspectInput {
	return dto.ProspectInput{
		LastName:  "Rakoto",
		FirstName: "Jean",
		Email:     "jean.rakoto@example.mg",
		Priority:  "haute",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Workflow de création
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateProspectWorkflow_Complet(t *testing.T) {
	uc, d := newUseCase(t)

	res, err := uc.CreateProspectWorkflow(context.Background(), validInput(), 7)
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.NotZero(t, res.ProspectID)

	p := d.prospects.byID[res.ProspectID]
	require.NotNil(t, p)
	assert.Equal(t, entity.ProspectPending, p.Status)
	require.NotNil(t, p.OwnerID)
	assert.Equal(t, int64(7), *p.OwnerID)

	require.Len(t, d.comms.items, 1)
	comm := d.comms.items[0]
	assert.Equal(t, "email", comm.Type)
	assert.Equal(t, "Premier contact", comm.Subject)
	assert.Equal(t, res.ProspectID, comm.ProspectID)

	task := d.tasks.byID[res.TaskID]
	require.NotNil(t, task)
	assert.Equal(t, "Suivi initial - Rakoto Jean", task.Title)
	assert.Equal(t, entity.PriorityHigh, task.Priority, "la tâche hérite de la priorité du prospect")
	assert.Equal(t, int64(7), task.AssigneeID)
	assert.WithinDuration(t, time.Now().Add(72*time.Hour), task.DueDate, time.Minute,
		"échéance du suivi initial à 3 jours")
}

func TestCreateProspectWorkflow_EchecCommunication(t *testing.T) {
	uc, d := newUseCase(t)
	d.comms.fail = true

	res, err := uc.CreateProspectWorkflow(context.Background(), validInput(), 7)
	require.NoError(t, err, "un échec intermédiaire n'est pas une erreur, c'est un résultat partiel")
	assert.False(t, res.Success)
	assert.NotZero(t, res.ProspectID, "le prospect créé est conservé, pas de compensation")
	assert.Zero(t, res.TaskID)
	assert.NotNil(t, d.prospects.byID[res.ProspectID])
	assert.Empty(t, d.tasks.byID, "aucune tâche après l'étape en échec")
}

func TestCreateProspectWorkflow_EchecTache(t *testing.T) {
	uc, d := newUseCase(t)
	d.tasks.fail = true

	res, err := uc.CreateProspectWorkflow(context.Background(), validInput(), 7)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.NotZero(t, res.ProspectID)
	assert.NotZero(t, res.CommunicationID, "la communication déjà créée reste acquise")
}

func TestCreateProspectWorkflow_EntreeInvalide(t *testing.T) {
	uc, d := newUseCase(t)

	_, err := uc.CreateProspectWorkflow(context.Background(), dto.ProspectInput{FirstName: "Jean"}, 7)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, d.prospects.byID, "rien n'est persisté sur entrée invalide")
}

// ──────────────────────────────────────────────────────────────────────────────
// Transitions de statut
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateProspectStatus(t *testing.T) {
	uc, d := newUseCase(t)
	res, err := uc.CreateProspectWorkflow(context.Background(), validInput(), 7)
	require.NoError(t, err)

	val := decimal.NewFromInt(15000)
	require.NoError(t, uc.UpdateProspectStatus(context.Background(), res.ProspectID, "accepté", 7, &val))
	p := d.prospects.byID[res.ProspectID]
	assert.Equal(t, entity.ProspectAccepted, p.Status)
	require.NotNil(t, p.EstimatedValue)
	assert.True(t, val.Equal(*p.EstimatedValue))

	// Transition hors flux nominal : acceptée quand même (écrasement libre).
	require.NoError(t, uc.UpdateProspectStatus(context.Background(), res.ProspectID, "en attente", 7, nil))
	assert.Equal(t, entity.ProspectPending, p.Status)
	require.NotNil(t, p.EstimatedValue)
	assert.True(t, val.Equal(*p.EstimatedValue), "la valeur estimée est conservée sans valeur finale")

	err = uc.UpdateProspectStatus(context.Background(), res.ProspectID, "inexistant", 7, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	neg := decimal.NewFromInt(-1)
	err = uc.UpdateProspectStatus(context.Background(), res.ProspectID, "accepté", 7, &neg)
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = uc.UpdateProspectStatus(context.Background(), 999, "accepté", 7, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Communications
// ──────────────────────────────────────────────────────────────────────────────

func TestScheduleCommunication(t *testing.T) {
	uc, d := newUseCase(t)
	res, err := uc.CreateProspectWorkflow(context.Background(), validInput(), 7)
	require.NoError(t, err)

	when := time.Now().AddDate(0, 0, 2)
	id, err := uc.ScheduleCommunication(context.Background(), dto.CommunicationInput{
		ProspectID: res.ProspectID,
		Type:       "reunion",
		Subject:    "Présentation de l'offre",
		OccurredAt: &when,
		AccountID:  7,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	last := d.comms.items[len(d.comms.items)-1]
	assert.Equal(t, entity.CommunicationPlanned, last.Status, "statut forcé à planifie")

	// Sans date : même défaut que l'ajout, la date courante est posée en aval.
	id, err = uc.ScheduleCommunication(context.Background(), dto.CommunicationInput{
		ProspectID: res.ProspectID,
		Type:       "reunion",
		Subject:    "Sans date",
		AccountID:  7,
	})
	require.NoError(t, err)
	require.NotZero(t, id)
	last = d.comms.items[len(d.comms.items)-1]
	assert.Equal(t, entity.CommunicationPlanned, last.Status)
	assert.True(t, last.OccurredAt.IsZero(), "la date absente est défaultée par la couche repository")
}

func TestAddCommunication_StatutInconnu(t *testing.T) {
	uc, d := newUseCase(t)
	res, err := uc.CreateProspectWorkflow(context.Background(), validInput(), 7)
	require.NoError(t, err)

	before := len(d.comms.items)
	_, err = uc.AddCommunication(context.Background(), dto.CommunicationInput{
		ProspectID: res.ProspectID,
		Type:       "email",
		Subject:    "Relance",
		Status:     "archive",
		AccountID:  7,
	})
	assert.ErrorIs(t, err, domain.ErrValidation, "statut inconnu rejeté avant la persistance")
	assert.Len(t, d.comms.items, before)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traitement par lot
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessBatch_ComptabiliteDesEchecs(t *testing.T) {
	uc, d := newUseCase(t)
	res, err := uc.CreateProspectWorkflow(context.Background(), validInput(), 7)
	require.NoError(t, err)

	ops := []dto.BatchOperation{
		{Type: dto.OpUpdateProspectStatus, Data: dto.BatchOperationData{ProspectID: res.ProspectID, Status: "en_cours_traitement"}},
		{Type: dto.OpCompleteTask, Data: dto.BatchOperationData{TaskID: res.TaskID}},
		{Type: dto.OpUpdateProspectStatus, Data: dto.BatchOperationData{ProspectID: 999, Status: "accepté"}},
		{Type: dto.OpAddCommunication, Data: dto.BatchOperationData{ProspectID: res.ProspectID, Type: "telephone", Subject: "Relance"}},
		{Type: "operation_inconnue"},
	}
	out := uc.ProcessBatch(context.Background(), ops, 7)

	assert.False(t, out.Success)
	assert.Equal(t, 5, out.Total)
	assert.Equal(t, 3, out.Processed, "traitées = total moins échecs")
	assert.Len(t, out.Results, 3)
	require.Len(t, out.Errors, 2)
	assert.Contains(t, out.Errors[0], "opération 3")
	assert.Contains(t, out.Errors[1], "opération 5")

	assert.Equal(t, entity.ProspectInProgress, d.prospects.byID[res.ProspectID].Status)
	assert.Equal(t, entity.TaskCompleted, d.tasks.byID[res.TaskID].Status)
}

func TestProcessBatch_ToutReussit(t *testing.T) {
	uc, d := newUseCase(t)
	res, err := uc.CreateProspectWorkflow(context.Background(), validInput(), 7)
	require.NoError(t, err)

	out := uc.ProcessBatch(context.Background(), []dto.BatchOperation{
		{Type: dto.OpAssignProspect, Data: dto.BatchOperationData{ProspectID: res.ProspectID, AssignedTo: 9}},
	}, 7)
	assert.True(t, out.Success)
	assert.Equal(t, 1, out.Processed)
	assert.Empty(t, out.Errors)

	// L'assignation passe d'abord le prospect en cours de traitement.
	p := d.prospects.byID[res.ProspectID]
	assert.Equal(t, entity.ProspectInProgress, p.Status)
	require.NotNil(t, p.OwnerID)
	assert.Equal(t, int64(9), *p.OwnerID)
}

func TestProcessBatch_LotVide(t *testing.T) {
	uc, _ := newUseCase(t)

	out := uc.ProcessBatch(context.Background(), nil, 7)
	assert.True(t, out.Success, "un lot vide est un succès")
	assert.Zero(t, out.Total)
	assert.Zero(t, out.Processed)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rapport quotidien
// ──────────────────────────────────────────────────────────────────────────────

func TestDailyReport(t *testing.T) {
	uc, d := newUseCase(t)
	d.stats.dashboard = repository.Dashboard{TotalProspects: 3, PendingProspects: 2}

	// Prospect haute priorité en attente, assigné au compte 7.
	res, err := uc.CreateProspectWorkflow(context.Background(), validInput(), 7)
	require.NoError(t, err)

	// Prospect urgent : hors du rapport, qui ne retient que la priorité haute.
	urgent := validInput()
	urgent.LastName = "Rasoa"
	urgent.Email = "rasoa@example.mg"
	urgent.Priority = "urgente"
	_, err = uc.CreateProspectWorkflow(context.Background(), urgent, 7)
	require.NoError(t, err)

	// Tâche en retard d'une semaine.
	_, err = d.tasks.Create(context.Background(), &entity.Task{
		ProspectID: res.ProspectID,
		Title:      "Relance oubliée",
		DueDate:    time.Now().AddDate(0, 0, -7),
		Status:     entity.TaskPending,
		Priority:   entity.PriorityNormal,
		AssigneeID: 7,
	})
	require.NoError(t, err)

	// Tâche due aujourd'hui.
	_, err = d.tasks.Create(context.Background(), &entity.Task{
		ProspectID: res.ProspectID,
		Title:      "Appel du jour",
		DueDate:    time.Now(),
		Status:     entity.TaskPending,
		Priority:   entity.PriorityNormal,
		AssigneeID: 7,
	})
	require.NoError(t, err)

	report, err := uc.DailyReport(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, time.Now().Format("2006-01-02"), report.ReportDate)
	assert.Equal(t, int64(7), report.Stats.AccountID)
	assert.Equal(t, int64(3), report.Stats.TotalProspects)

	// Les tâches du jour incluent la tâche déjà en retard (échéance passée).
	require.Len(t, report.TodayTasks, 2)
	titles := []string{report.TodayTasks[0].Title, report.TodayTasks[1].Title}
	assert.Contains(t, titles, "Appel du jour")
	assert.Contains(t, titles, "Relance oubliée")

	require.Len(t, report.HighPriority, 1, "seule la priorité haute est retenue, pas urgente")
	assert.Equal(t, res.ProspectID, report.HighPriority[0].ID)

	require.Len(t, report.OverdueTasks, 1)
	assert.Equal(t, "Relance oubliée", report.OverdueTasks[0].Title)

	assert.Equal(t, 2, report.Alerts, "alertes = tâches en retard + prospects haute priorité")
}
