package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/josoavj/prospectius-core/internal/domain/entity"
	"github.com/josoavj/prospectius-core/internal/domain/repository"
)

var _ repository.CommunicationRepository = (*CommunicationRepo)(nil)

// CommunicationRepo journal append-only des interactions : insertion et
// lecture, aucune mise à jour.
type CommunicationRepo struct {
	gw *Gateway
}

// NewCommunicationRepository construit l'adaptateur communications.
func NewCommunicationRepository(gw *Gateway) *CommunicationRepo {
	return &CommunicationRepo{gw: gw}
}

// Add insère une interaction. La date par défaut est l'instant courant, le
// statut par défaut "realise".
func (r *CommunicationRepo) Add(ctx context.Context, c *entity.Communication) (int64, error) {
	occurredAt := c.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	status := c.Status
	if status == "" {
		status = entity.CommunicationDone
	}
	query := `
		INSERT INTO communication (id_prospect_fk, type_communication, sujet, contenu, date_communication, statut, id_compte_fk)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id_communication`
	id, err := r.gw.InsertReturningID(ctx, query,
		c.ProspectID, c.Type, c.Subject, c.Body, occurredAt, status, c.AccountID,
	)
	if err != nil {
		return 0, fmt.Errorf("insérer la communication: %w", err)
	}
	return id, nil
}

// ListByProspect retourne l'historique d'un prospect, plus récentes d'abord.
func (r *CommunicationRepo) ListByProspect(ctx context.Context, prospectID int64) ([]entity.Communication, error) {
	query := `
		SELECT id_communication, id_prospect_fk, type_communication, sujet, contenu, date_communication, statut, id_compte_fk
		FROM communication
		WHERE id_prospect_fk = $1
		ORDER BY date_communication DESC`
	var list []entity.Communication
	err := r.gw.Query(ctx, query, []any{prospectID}, func(rows pgx.Rows) error {
		for rows.Next() {
			var c entity.Communication
			if err := rows.Scan(&c.ID, &c.ProspectID, &c.Type, &c.Subject, &c.Body, &c.OccurredAt, &c.Status, &c.AccountID); err != nil {
				return fmt.Errorf("scanner la communication: %w", err)
			}
			list = append(list, c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("lister les communications: %w", err)
	}
	return list, nil
}
