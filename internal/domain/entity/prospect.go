package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/josoavj/prospectius-core/internal/domain"
)

// ProspectStatus statut de suivi d'un prospect. Les valeurs correspondent à
// l'ENUM en base.
type ProspectStatus string

const (
	ProspectPending    ProspectStatus = "en attente"
	ProspectInProgress ProspectStatus = "en_cours_traitement"
	ProspectAccepted   ProspectStatus = "accepté"
	ProspectRejected   ProspectStatus = "refusé"
)

// ParseProspectStatus valide une valeur de statut venue de l'extérieur.
func ParseProspectStatus(s string) (ProspectStatus, error) {
	switch ProspectStatus(s) {
	case ProspectPending, ProspectInProgress, ProspectAccepted, ProspectRejected:
		return ProspectStatus(s), nil
	}
	return "", domain.ErrValidation
}

// Terminal indique si aucun flux métier ne repart de ce statut : un prospect
// accepté ou refusé ne se rouvre pas, on crée une nouvelle fiche.
func (s ProspectStatus) Terminal() bool {
	return s == ProspectAccepted || s == ProspectRejected
}

// NominalTransition indique si le passage from → to correspond au flux métier
// nominal : en attente → en_cours_traitement → accepté/refusé, avec raccourci
// direct depuis en attente vers un statut terminal. La transition n'est pas
// imposée par la couche repository (écrasement libre, politique actuelle) ;
// cette fonction sert de point unique si une garde devait être ajoutée.
func NominalTransition(from, to ProspectStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case ProspectPending:
		return to == ProspectInProgress || to == ProspectAccepted || to == ProspectRejected
	case ProspectInProgress:
		return to == ProspectAccepted || to == ProspectRejected
	}
	return false
}

// Priority priorité d'un prospect ou d'une tâche.
type Priority string

const (
	PriorityLow    Priority = "basse"
	PriorityNormal Priority = "normale"
	PriorityHigh   Priority = "haute"
	PriorityUrgent Priority = "urgente"
)

// ParsePriority valide une valeur de priorité venue de l'extérieur.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return Priority(s), nil
	}
	return "", domain.ErrValidation
}

// Prospect piste commerciale suivie jusqu'à acceptation ou refus.
type Prospect struct {
	ID             int64
	LastName       string
	FirstName      string
	Email          string
	Phone          string
	Address        string
	PostalCode     *string
	City           *string
	Country        string
	Summary        *string
	Status         ProspectStatus
	Priority       Priority
	Source         *string
	EstimatedValue *decimal.Decimal // montant, jamais négatif quand présent
	FollowUpDate   *time.Time
	InternalNotes  *string
	OwnerID        *int64
	CreationDate   time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	UpdatedBy      *int64
}

// Validate vérifie les invariants portés par l'entité elle-même. Les
// contrôles de format fins (regex email/téléphone) restent à la charge de la
// couche appelante.
func (p *Prospect) Validate() error {
	if p.LastName == "" || p.Email == "" {
		return domain.ErrValidation
	}
	if p.EstimatedValue != nil && p.EstimatedValue.IsNegative() {
		return domain.ErrValidation
	}
	return nil
}
