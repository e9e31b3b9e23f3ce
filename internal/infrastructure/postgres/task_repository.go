package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/josoavj/prospectius-core/internal/domain"
	"github.com/josoavj/prospectius-core/internal/domain/entity"
	"github.com/josoavj/prospectius-core/internal/domain/repository"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

// TaskRepo implémentation du port TaskRepository.
type TaskRepo struct {
	gw *Gateway
}

// NewTaskRepository construit l'adaptateur tâches.
func NewTaskRepository(gw *Gateway) *TaskRepo {
	return &TaskRepo{gw: gw}
}

const taskColumns = `id_tache, id_prospect_fk, titre, description, date_echeance,
	statut_tache, priorite, id_compte_assigne, created_at, updated_at`

func scanTask(row pgx.Row, t *entity.Task) error {
	return row.Scan(
		&t.ID, &t.ProspectID, &t.Title, &t.Description, &t.DueDate,
		&t.Status, &t.Priority, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt,
	)
}

// Create insère une tâche de suivi.
func (r *TaskRepo) Create(ctx context.Context, t *entity.Task) (int64, error) {
	status := t.Status
	if status == "" {
		status = entity.TaskPending
	}
	priority := t.Priority
	if priority == "" {
		priority = entity.PriorityNormal
	}
	query := `
		INSERT INTO tache (id_prospect_fk, titre, description, date_echeance, statut_tache, priorite, id_compte_assigne)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id_tache`
	id, err := r.gw.InsertReturningID(ctx, query,
		t.ProspectID, t.Title, t.Description, t.DueDate, status, priority, t.AssigneeID,
	)
	if err != nil {
		return 0, fmt.Errorf("insérer la tâche: %w", err)
	}
	return id, nil
}

// UpdateStatus écrase le statut d'une tâche.
func (r *TaskRepo) UpdateStatus(ctx context.Context, id int64, status entity.TaskStatus) error {
	affected, err := r.gw.Exec(ctx, `UPDATE tache SET statut_tache = $1 WHERE id_tache = $2`, status, id)
	if err != nil {
		return fmt.Errorf("mettre à jour la tâche: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("tâche %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListForAssignee retourne les tâches d'un compte, échéances proches d'abord.
// Les tâches terminées sont exclues sauf demande explicite.
func (r *TaskRepo) ListForAssignee(ctx context.Context, accountID int64, includeCompleted bool) ([]entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tache WHERE id_compte_assigne = $1`
	if !includeCompleted {
		query += ` AND statut_tache != 'terminee'`
	}
	query += `
		ORDER BY date_echeance ASC, CASE priorite
			WHEN 'urgente' THEN 4 WHEN 'haute' THEN 3 WHEN 'normale' THEN 2 ELSE 1
		END DESC`

	var list []entity.Task
	err := r.gw.Query(ctx, query, []any{accountID}, func(rows pgx.Rows) error {
		for rows.Next() {
			var t entity.Task
			if err := scanTask(rows, &t); err != nil {
				return fmt.Errorf("scanner la tâche: %w", err)
			}
			list = append(list, t)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("lister les tâches: %w", err)
	}
	return list, nil
}

// ListOverdue retourne les tâches en retard : échéance strictement avant la
// date du jour et statut en_attente ou en_cours. Scopée à l'assigné quand
// assigneeID est fourni, globale sinon.
func (r *TaskRepo) ListOverdue(ctx context.Context, assigneeID *int64) ([]entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tache
		WHERE date_echeance < CURRENT_DATE
		  AND statut_tache IN ('en_attente', 'en_cours')`
	var args []any
	if assigneeID != nil {
		query += ` AND id_compte_assigne = $1`
		args = append(args, *assigneeID)
	}
	query += ` ORDER BY date_echeance ASC`

	var list []entity.Task
	err := r.gw.Query(ctx, query, args, func(rows pgx.Rows) error {
		for rows.Next() {
			var t entity.Task
			if err := scanTask(rows, &t); err != nil {
				return fmt.Errorf("scanner la tâche: %w", err)
			}
			list = append(list, t)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("lister les tâches en retard: %w", err)
	}
	return list, nil
}
