package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/josoavj/prospectius-core/internal/domain/entity"
)

// SearchFilter filtre conjonctif de recherche de prospects. Tous les champs
// renseignés sont combinés en AND ; Text cherche dans nom, prénom, email et
// ville.
type SearchFilter struct {
	Status   *entity.ProspectStatus
	Priority *entity.Priority
	From     *time.Time
	To       *time.Time
	Text     string
}

// AssignmentSummary résumé de la procédure d'assignation automatique, dont la
// politique de répartition est opaque pour cette couche.
type AssignmentSummary struct {
	Assigned int
	Message  string
}

// ProspectRepository accès aux prospects.
//
// UpdateStatus écrase le statut sans garde de transition (politique actuelle,
// voir entity.NominalTransition) et ne remplace la valeur estimée que si une
// nouvelle valeur est fournie (COALESCE côté SQL).
type ProspectRepository interface {
	Create(ctx context.Context, p *entity.Prospect, createdBy int64) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Prospect, error)
	UpdateStatus(ctx context.Context, id int64, status entity.ProspectStatus, updatedBy int64, finalValue *decimal.Decimal) error
	Assign(ctx context.Context, id, accountID int64) error
	// Search est scopé au propriétaire quand ownerID est non nil, global
	// sinon ; tri par date de création décroissante, pagination limit/offset.
	Search(ctx context.Context, f SearchFilter, ownerID *int64, limit, offset int) ([]entity.Prospect, error)
	ListByStatus(ctx context.Context, status entity.ProspectStatus, ownerID *int64) ([]entity.Prospect, error)
	AssignAutomatically(ctx context.Context) (*AssignmentSummary, error)
	Delete(ctx context.Context, id int64) error
}
