package repository

import (
	"context"
	"time"

	"github.com/josoavj/prospectius-core/internal/domain/entity"
)

// SessionRepository persistance des sessions. Les lignes ne sont jamais
// modifiées après insertion, hors invalidation explicite.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	// GetActive retourne la session si elle existe, est active et non expirée
	// à l'instant now ; (nil, nil) dans tous les autres cas non fautifs.
	GetActive(ctx context.Context, id string, now time.Time) (*entity.Session, error)
	Invalidate(ctx context.Context, id string) error
}
