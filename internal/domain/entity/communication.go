package entity

import (
	"time"

	"github.com/josoavj/prospectius-core/internal/domain"
)

// CommunicationStatus statut d'une interaction : réalisée ou planifiée.
type CommunicationStatus string

const (
	CommunicationDone    CommunicationStatus = "realise"
	CommunicationPlanned CommunicationStatus = "planifie"
)

// ParseCommunicationStatus valide une valeur de statut venue de l'extérieur.
func ParseCommunicationStatus(s string) (CommunicationStatus, error) {
	switch CommunicationStatus(s) {
	case CommunicationDone, CommunicationPlanned:
		return CommunicationStatus(s), nil
	}
	return "", domain.ErrValidation
}

// Communication trace d'interaction avec un prospect, en append-only :
// aucune opération de mise à jour n'existe.
type Communication struct {
	ID         int64
	ProspectID int64
	Type       string // email, telephone, reunion, ...
	Subject    string
	Body       *string
	OccurredAt time.Time
	Status     CommunicationStatus
	AccountID  int64 // compte acteur
}
