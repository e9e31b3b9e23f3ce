package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/josoavj/prospectius-core/internal/domain"
	"github.com/josoavj/prospectius-core/internal/domain/entity"
	"github.com/josoavj/prospectius-core/internal/domain/repository"
)

var _ repository.ProspectRepository = (*ProspectRepo)(nil)

// ProspectRepo implémentation du port ProspectRepository.
type ProspectRepo struct {
	gw *Gateway
}

// NewProspectRepository construit l'adaptateur prospects.
func NewProspectRepository(gw *Gateway) *ProspectRepo {
	return &ProspectRepo{gw: gw}
}

const prospectColumns = `id_prospect, nom_prospect, prenom_prospect, email_prospect, telephone_prospect,
	adresse_prospect, code_postal, ville, pays, resume_prospect, statut_prospect, priorite,
	source_prospect, valeur_estimee, date_suivi_prevue, notes_internes, id_compte_fk,
	date_creation, created_at, updated_at, updated_by`

func scanProspect(row pgx.Row, p *entity.Prospect) error {
	return row.Scan(
		&p.ID, &p.LastName, &p.FirstName, &p.Email, &p.Phone,
		&p.Address, &p.PostalCode, &p.City, &p.Country, &p.Summary, &p.Status, &p.Priority,
		&p.Source, &p.EstimatedValue, &p.FollowUpDate, &p.InternalNotes, &p.OwnerID,
		&p.CreationDate, &p.CreatedAt, &p.UpdatedAt, &p.UpdatedBy,
	)
}

// Create insère un prospect, statut "en attente" par défaut sauf valeur
// explicite.
func (r *ProspectRepo) Create(ctx context.Context, p *entity.Prospect, createdBy int64) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	status := p.Status
	if status == "" {
		status = entity.ProspectPending
	}
	priority := p.Priority
	if priority == "" {
		priority = entity.PriorityNormal
	}
	country := p.Country
	if country == "" {
		country = "Madagascar"
	}
	query := `
		INSERT INTO prospect (nom_prospect, prenom_prospect, email_prospect, telephone_prospect,
			adresse_prospect, code_postal, ville, pays, resume_prospect, statut_prospect, priorite,
			source_prospect, valeur_estimee, date_suivi_prevue, notes_internes, id_compte_fk, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id_prospect`
	id, err := r.gw.InsertReturningID(ctx, query,
		p.LastName, p.FirstName, p.Email, p.Phone,
		p.Address, p.PostalCode, p.City, country, p.Summary, status, priority,
		p.Source, p.EstimatedValue, p.FollowUpDate, p.InternalNotes, p.OwnerID, createdBy,
	)
	if err != nil {
		return 0, fmt.Errorf("insérer le prospect: %w", err)
	}
	return id, nil
}

// GetByID retourne un prospect, (nil, nil) s'il n'existe pas.
func (r *ProspectRepo) GetByID(ctx context.Context, id int64) (*entity.Prospect, error) {
	query := `SELECT ` + prospectColumns + ` FROM prospect WHERE id_prospect = $1`
	var p entity.Prospect
	err := r.gw.QueryRow(ctx, query, []any{id}, func(row pgx.Row) error {
		return scanProspect(row, &p)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lire le prospect: %w", err)
	}
	return &p, nil
}

// UpdateStatus écrase le statut sans garde de transition ; la valeur estimée
// n'est remplacée que si finalValue est fournie (COALESCE).
func (r *ProspectRepo) UpdateStatus(ctx context.Context, id int64, status entity.ProspectStatus, updatedBy int64, finalValue *decimal.Decimal) error {
	query := `
		UPDATE prospect
		SET statut_prospect = $1,
		    updated_by      = $2,
		    valeur_estimee  = COALESCE($3, valeur_estimee)
		WHERE id_prospect = $4`
	affected, err := r.gw.Exec(ctx, query, status, updatedBy, finalValue, id)
	if err != nil {
		return fmt.Errorf("mettre à jour le statut: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("prospect %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Assign rattache un prospect à un compte gestionnaire.
func (r *ProspectRepo) Assign(ctx context.Context, id, accountID int64) error {
	affected, err := r.gw.Exec(ctx, `UPDATE prospect SET id_compte_fk = $1 WHERE id_prospect = $2`, accountID, id)
	if err != nil {
		return fmt.Errorf("assigner le prospect: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("prospect %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// buildSearchQuery assemble le filtre conjonctif de recherche. Fonction pure,
// testée sans base.
func buildSearchQuery(f repository.SearchFilter, ownerID *int64, limit, offset int) (string, []any) {
	conditions := []string{"1=1"}
	var args []any

	add := func(cond string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if ownerID != nil {
		add("id_compte_fk = $%d", *ownerID)
	}
	if f.Status != nil {
		add("statut_prospect = $%d", *f.Status)
	}
	if f.Priority != nil {
		add("priorite = $%d", *f.Priority)
	}
	if f.From != nil {
		add("date_creation >= $%d", *f.From)
	}
	if f.To != nil {
		add("date_creation <= $%d", *f.To)
	}
	if f.Text != "" {
		// Normalisation NFC : les accents composés/décomposés des saisies
		// clavier doivent matcher la même forme stockée.
		args = append(args, "%"+norm.NFC.String(f.Text)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(nom_prospect ILIKE $%d OR prenom_prospect ILIKE $%d OR email_prospect ILIKE $%d OR ville ILIKE $%d)",
			n, n, n, n))
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(
		"SELECT %s FROM prospect WHERE %s ORDER BY date_creation DESC, id_prospect DESC LIMIT $%d OFFSET $%d",
		prospectColumns, strings.Join(conditions, " AND "), len(args)-1, len(args))
	return query, args
}

// Search recherche paginée avec filtres conjonctifs, scopée au propriétaire
// quand ownerID est fourni.
func (r *ProspectRepo) Search(ctx context.Context, f repository.SearchFilter, ownerID *int64, limit, offset int) ([]entity.Prospect, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query, args := buildSearchQuery(f, ownerID, limit, offset)

	var list []entity.Prospect
	err := r.gw.Query(ctx, query, args, func(rows pgx.Rows) error {
		for rows.Next() {
			var p entity.Prospect
			if err := scanProspect(rows, &p); err != nil {
				return fmt.Errorf("scanner le prospect: %w", err)
			}
			list = append(list, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rechercher les prospects: %w", err)
	}
	return list, nil
}

// ListByStatus retourne les prospects d'un statut, priorité décroissante puis
// plus anciens d'abord.
func (r *ProspectRepo) ListByStatus(ctx context.Context, status entity.ProspectStatus, ownerID *int64) ([]entity.Prospect, error) {
	query := `SELECT ` + prospectColumns + ` FROM prospect WHERE statut_prospect = $1`
	args := []any{status}
	if ownerID != nil {
		query += ` AND id_compte_fk = $2`
		args = append(args, *ownerID)
	}
	query += `
		ORDER BY CASE priorite
			WHEN 'urgente' THEN 4 WHEN 'haute' THEN 3 WHEN 'normale' THEN 2 ELSE 1
		END DESC, date_creation ASC`

	var list []entity.Prospect
	err := r.gw.Query(ctx, query, args, func(rows pgx.Rows) error {
		for rows.Next() {
			var p entity.Prospect
			if err := scanProspect(rows, &p); err != nil {
				return fmt.Errorf("scanner le prospect: %w", err)
			}
			list = append(list, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("lister par statut: %w", err)
	}
	return list, nil
}

// AssignAutomatically délègue à la procédure d'assignation, dont la politique
// de répartition est opaque ici.
func (r *ProspectRepo) AssignAutomatically(ctx context.Context) (*repository.AssignmentSummary, error) {
	var s repository.AssignmentSummary
	err := r.gw.CallProcedure(ctx, "sp_assigner_prospects_automatiquement", nil, func(rows pgx.Rows) error {
		if !rows.Next() {
			s.Message = "aucun prospect à assigner"
			return nil
		}
		return rows.Scan(&s.Assigned, &s.Message)
	})
	if err != nil {
		return nil, fmt.Errorf("assignation automatique: %w", err)
	}
	return &s, nil
}

// Delete suppression administrative ; les communications et tâches liées
// suivent en cascade.
func (r *ProspectRepo) Delete(ctx context.Context, id int64) error {
	affected, err := r.gw.Exec(ctx, `DELETE FROM prospect WHERE id_prospect = $1`, id)
	if err != nil {
		return fmt.Errorf("supprimer le prospect: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("prospect %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
