package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/josoavj/prospectius-core/internal/domain/entity"
)

// ProspectInput données de création d'un prospect.
type ProspectInput struct {
	LastName       string           `json:"nom_prospect"`
	FirstName      string           `json:"prenom_prospect"`
	Email          string           `json:"email_prospect"`
	Phone          string           `json:"telephone_prospect"`
	Address        string           `json:"adresse_prospect"`
	PostalCode     *string          `json:"code_postal,omitempty"`
	City           *string          `json:"ville,omitempty"`
	Country        string           `json:"pays,omitempty"`
	Summary        *string          `json:"resume_prospect,omitempty"`
	Priority       string           `json:"priorite,omitempty"`
	Source         *string          `json:"source_prospect,omitempty"`
	EstimatedValue *decimal.Decimal `json:"valeur_estimee,omitempty"`
	FollowUpDate   *time.Time       `json:"date_relance,omitempty"`
	InternalNotes  *string          `json:"notes_internes,omitempty"`
}

// ToEntity convertit l'entrée en entité, avec les valeurs par défaut.
func (in ProspectInput) ToEntity() (*entity.Prospect, error) {
	p := &entity.Prospect{
		LastName:       in.LastName,
		FirstName:      in.FirstName,
		Email:          in.Email,
		Phone:          in.Phone,
		Address:        in.Address,
		PostalCode:     in.PostalCode,
		City:           in.City,
		Country:        in.Country,
		Summary:        in.Summary,
		Source:         in.Source,
		EstimatedValue: in.EstimatedValue,
		FollowUpDate:   in.FollowUpDate,
		InternalNotes:  in.InternalNotes,
		Status:         entity.ProspectPending,
		Priority:       entity.PriorityNormal,
	}
	if in.Priority != "" {
		pr, err := entity.ParsePriority(in.Priority)
		if err != nil {
			return nil, err
		}
		p.Priority = pr
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ProspectResponse représentation API d'un prospect.
type ProspectResponse struct {
	ID             int64            `json:"id_prospect"`
	LastName       string           `json:"nom_prospect"`
	FirstName      string           `json:"prenom_prospect"`
	Email          string           `json:"email_prospect"`
	Phone          string           `json:"telephone_prospect"`
	Address        string           `json:"adresse_prospect"`
	PostalCode     *string          `json:"code_postal,omitempty"`
	City           *string          `json:"ville,omitempty"`
	Country        string           `json:"pays"`
	Summary        *string          `json:"resume_prospect,omitempty"`
	Status         string           `json:"statut"`
	Priority       string           `json:"priorite"`
	Source         *string          `json:"source_prospect,omitempty"`
	EstimatedValue *decimal.Decimal `json:"valeur_estimee,omitempty"`
	FollowUpDate   *time.Time       `json:"date_relance,omitempty"`
	OwnerID        *int64           `json:"id_compte_fk,omitempty"`
	CreatedAt      time.Time        `json:"date_creation"`
	UpdatedAt      time.Time        `json:"date_modification"`
}

// FromProspect construit la réponse API depuis l'entité.
func FromProspect(p *entity.Prospect) ProspectResponse {
	return ProspectResponse{
		ID:             p.ID,
		LastName:       p.LastName,
		FirstName:      p.FirstName,
		Email:          p.Email,
		Phone:          p.Phone,
		Address:        p.Address,
		PostalCode:     p.PostalCode,
		City:           p.City,
		Country:        p.Country,
		Summary:        p.Summary,
		Status:         string(p.Status),
		Priority:       string(p.Priority),
		Source:         p.Source,
		EstimatedValue: p.EstimatedValue,
		FollowUpDate:   p.FollowUpDate,
		OwnerID:        p.OwnerID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// FromProspects convertit une liste d'entités.
func FromProspects(items []entity.Prospect) []ProspectResponse {
	out := make([]ProspectResponse, 0, len(items))
	for i := range items {
		out = append(out, FromProspect(&items[i]))
	}
	return out
}

// TransitionRequest changement de statut d'un prospect.
type TransitionRequest struct {
	Status     string           `json:"statut"`
	FinalValue *decimal.Decimal `json:"valeur_finale,omitempty"`
}

// SearchRequest critères de recherche des prospects.
type SearchRequest struct {
	Status   string `query:"statut"`
	Priority string `query:"priorite"`
	Text     string `query:"recherche"`
	From     string `query:"date_debut"`
	To       string `query:"date_fin"`
	PageRequest
}

// WorkflowResult résultat du workflow de création complet.
type WorkflowResult struct {
	Success         bool   `json:"success"`
	ProspectID      int64  `json:"prospect_id,omitempty"`
	CommunicationID int64  `json:"communication_id,omitempty"`
	TaskID          int64  `json:"task_id,omitempty"`
	Message         string `json:"message"`
}
