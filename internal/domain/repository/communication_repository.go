package repository

import (
	"context"

	"github.com/josoavj/prospectius-core/internal/domain/entity"
)

// CommunicationRepository journal d'interactions, insertion seule.
type CommunicationRepository interface {
	Add(ctx context.Context, c *entity.Communication) (int64, error)
	ListByProspect(ctx context.Context, prospectID int64) ([]entity.Communication, error)
}
