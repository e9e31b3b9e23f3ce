package repository

import (
	"context"

	"github.com/josoavj/prospectius-core/internal/domain/entity"
)

// TaskRepository accès aux tâches de suivi.
//
// UpdateStatus écrase le statut directement, sans garde de transition.
// ListOverdue retourne les tâches dont l'échéance est strictement antérieure
// à la date du jour et le statut dans {en_attente, en_cours}.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status entity.TaskStatus) error
	ListForAssignee(ctx context.Context, accountID int64, includeCompleted bool) ([]entity.Task, error)
	ListOverdue(ctx context.Context, assigneeID *int64) ([]entity.Task, error)
}
