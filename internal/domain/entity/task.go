package entity

import (
	"time"

	"github.com/josoavj/prospectius-core/internal/domain"
)

// TaskStatus statut d'une tâche de suivi.
type TaskStatus string

const (
	TaskPending    TaskStatus = "en_attente"
	TaskInProgress TaskStatus = "en_cours"
	TaskCompleted  TaskStatus = "terminee"
)

// ParseTaskStatus valide une valeur de statut de tâche venue de l'extérieur.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskPending, TaskInProgress, TaskCompleted:
		return TaskStatus(s), nil
	}
	return "", domain.ErrValidation
}

// Task obligation de suivi liée à un prospect et à un compte assigné.
type Task struct {
	ID          int64
	ProspectID  int64
	Title       string
	Description *string
	DueDate     time.Time
	Status      TaskStatus
	Priority    Priority
	AssigneeID  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Overdue indique si la tâche est en retard : échéance strictement passée et
// statut non terminé.
func (t Task) Overdue(today time.Time) bool {
	due := time.Date(t.DueDate.Year(), t.DueDate.Month(), t.DueDate.Day(), 0, 0, 0, 0, today.Location())
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	return due.Before(day) && t.Status != TaskCompleted
}
