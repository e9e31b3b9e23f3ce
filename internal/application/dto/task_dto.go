package dto

import (
	"time"

	"github.com/josoavj/prospectius-core/internal/domain/entity"
)

// TaskInput création d'une tâche de suivi.
type TaskInput struct {
	ProspectID  int64     `json:"id_prospect_fk"`
	Title       string    `json:"titre"`
	Description *string   `json:"description,omitempty"`
	DueDate     time.Time `json:"date_echeance"`
	Priority    string    `json:"priorite,omitempty"`
	AssigneeID  int64     `json:"id_compte_fk"`
}

// ToEntity convertit l'entrée en entité, avec les valeurs par défaut.
func (in TaskInput) ToEntity() (*entity.Task, error) {
	t := &entity.Task{
		ProspectID:  in.ProspectID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Status:      entity.TaskPending,
		Priority:    entity.PriorityNormal,
		AssigneeID:  in.AssigneeID,
	}
	if in.Priority != "" {
		pr, err := entity.ParsePriority(in.Priority)
		if err != nil {
			return nil, err
		}
		t.Priority = pr
	}
	return t, nil
}

// TaskResponse représentation API d'une tâche.
type TaskResponse struct {
	ID          int64     `json:"id_tache"`
	ProspectID  int64     `json:"id_prospect_fk"`
	Title       string    `json:"titre"`
	Description *string   `json:"description,omitempty"`
	DueDate     time.Time `json:"date_echeance"`
	Status      string    `json:"statut"`
	Priority    string    `json:"priorite"`
	AssigneeID  int64     `json:"id_compte_fk"`
	CreatedAt   time.Time `json:"date_creation"`
}

// FromTask construit la réponse API depuis l'entité.
func FromTask(t *entity.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		ProspectID:  t.ProspectID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		AssigneeID:  t.AssigneeID,
		CreatedAt:   t.CreatedAt,
	}
}

// FromTasks convertit une liste d'entités.
func FromTasks(items []entity.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(items))
	for i := range items {
		out = append(out, FromTask(&items[i]))
	}
	return out
}

// TaskStatusRequest changement de statut d'une tâche.
type TaskStatusRequest struct {
	Status string `json:"statut"`
}

// CommunicationInput enregistrement d'une interaction avec un prospect.
type CommunicationInput struct {
	ProspectID int64      `json:"id_prospect_fk"`
	Type       string     `json:"type_communication"`
	Subject    string     `json:"sujet"`
	Body       *string    `json:"contenu,omitempty"`
	OccurredAt *time.Time `json:"date_communication,omitempty"`
	Status     string     `json:"statut,omitempty"`
	AccountID  int64      `json:"id_compte_fk"`
}

// ToEntity convertit l'entrée en entité. Les défauts (date courante, statut
// realise) sont posés par la couche repository.
func (in CommunicationInput) ToEntity() *entity.Communication {
	c := &entity.Communication{
		ProspectID: in.ProspectID,
		Type:       in.Type,
		Subject:    in.Subject,
		Body:       in.Body,
		Status:     entity.CommunicationStatus(in.Status),
		AccountID:  in.AccountID,
	}
	if in.OccurredAt != nil {
		c.OccurredAt = *in.OccurredAt
	}
	return c
}

// CommunicationResponse représentation API d'une communication.
type CommunicationResponse struct {
	ID         int64     `json:"id_communication"`
	ProspectID int64     `json:"id_prospect_fk"`
	Type       string    `json:"type_communication"`
	Subject    string    `json:"sujet"`
	Body       *string   `json:"contenu,omitempty"`
	OccurredAt time.Time `json:"date_communication"`
	Status     string    `json:"statut"`
	AccountID  int64     `json:"id_compte_fk"`
}

// FromCommunication construit la réponse API depuis l'entité.
func FromCommunication(c *entity.Communication) CommunicationResponse {
	return CommunicationResponse{
		ID:         c.ID,
		ProspectID: c.ProspectID,
		Type:       c.Type,
		Subject:    c.Subject,
		Body:       c.Body,
		OccurredAt: c.OccurredAt,
		Status:     string(c.Status),
		AccountID:  c.AccountID,
	}
}

// FromCommunications convertit une liste d'entités.
func FromCommunications(items []entity.Communication) []CommunicationResponse {
	out := make([]CommunicationResponse, 0, len(items))
	for i := range items {
		out = append(out, FromCommunication(&items[i]))
	}
	return out
}
