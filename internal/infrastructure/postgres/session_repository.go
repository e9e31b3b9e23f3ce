package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/josoavj/prospectius-core/internal/domain/entity"
	"github.com/josoavj/prospectius-core/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implémentation du port SessionRepository.
type SessionRepo struct {
	gw *Gateway
}

// NewSessionRepository construit l'adaptateur sessions.
func NewSessionRepository(gw *Gateway) *SessionRepo {
	return &SessionRepo{gw: gw}
}

// Create insère la session émise.
func (r *SessionRepo) Create(ctx context.Context, s *entity.Session) error {
	query := `
		INSERT INTO session_utilisateur (id_session, id_compte_fk, adresse_ip, user_agent, date_expiration, actif)
		VALUES ($1, $2, $3, $4, $5, TRUE)`
	if _, err := r.gw.Exec(ctx, query, s.ID, s.AccountID, s.IPAddress, s.UserAgent, s.ExpiresAt); err != nil {
		return fmt.Errorf("insérer la session: %w", err)
	}
	return nil
}

// GetActive retourne la session si elle est active et non expirée à l'instant
// now ; (nil, nil) sinon. Aucune distinction n'est faite entre absente,
// inactive et expirée.
func (r *SessionRepo) GetActive(ctx context.Context, id string, now time.Time) (*entity.Session, error) {
	query := `
		SELECT id_session, id_compte_fk, adresse_ip, user_agent, date_expiration, actif, created_at
		FROM session_utilisateur
		WHERE id_session = $1 AND actif = TRUE AND date_expiration > $2`
	var s entity.Session
	err := r.gw.QueryRow(ctx, query, []any{id, now}, func(row pgx.Row) error {
		return row.Scan(&s.ID, &s.AccountID, &s.IPAddress, &s.UserAgent, &s.ExpiresAt, &s.Active, &s.CreatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lire la session: %w", err)
	}
	return &s, nil
}

// Invalidate désactive explicitement une session (déconnexion).
func (r *SessionRepo) Invalidate(ctx context.Context, id string) error {
	if _, err := r.gw.Exec(ctx, `UPDATE session_utilisateur SET actif = FALSE WHERE id_session = $1`, id); err != nil {
		return fmt.Errorf("invalider la session: %w", err)
	}
	return nil
}
