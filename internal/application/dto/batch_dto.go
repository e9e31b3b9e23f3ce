package dto

import "github.com/shopspring/decimal"

// Types d'opérations acceptés par le traitement par lot.
const (
	OpUpdateProspectStatus = "update_prospect_status"
	OpCompleteTask         = "complete_task"
	OpAddCommunication     = "add_communication"
	OpAssignProspect       = "assign_prospect"
)

// BatchOperation opération unitaire d'un lot.
type BatchOperation struct {
	Type string             `json:"type"`
	Data BatchOperationData `json:"data"`
}

// BatchOperationData charge utile d'une opération de lot. Les champs utilisés
// dépendent du type : seuls ceux de l'opération concernée sont lus.
type BatchOperationData struct {
	ProspectID int64            `json:"prospect_id,omitempty"`
	TaskID     int64            `json:"task_id,omitempty"`
	Status     string           `json:"statut,omitempty"`
	FinalValue *decimal.Decimal `json:"valeur_finale,omitempty"`
	AssignedTo int64            `json:"assigne_a,omitempty"`
	Type       string           `json:"type_communication,omitempty"`
	Subject    string           `json:"sujet,omitempty"`
	Body       *string          `json:"contenu,omitempty"`
}

// BatchRequest lot d'opérations soumis en une fois.
type BatchRequest struct {
	Operations []BatchOperation `json:"operations"`
}

// BatchResult bilan d'un lot : succès global seulement si aucune opération
// n'a échoué.
type BatchResult struct {
	Success   bool     `json:"success"`
	Processed int      `json:"operations_traitees"`
	Total     int      `json:"operations_total"`
	Results   []string `json:"resultats,omitempty"`
	Errors    []string `json:"erreurs,omitempty"`
}
