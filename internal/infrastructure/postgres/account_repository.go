package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/josoavj/prospectius-core/internal/domain"
	"github.com/josoavj/prospectius-core/internal/domain/entity"
	"github.com/josoavj/prospectius-core/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implémentation du port AccountRepository via la passerelle.
type AccountRepo struct {
	gw *Gateway
}

// NewAccountRepository construit l'adaptateur comptes.
func NewAccountRepository(gw *Gateway) *AccountRepo {
	return &AccountRepo{gw: gw}
}

// Create passe par la procédure de création de compte, qui vérifie l'unicité
// email/username et pose les champs d'audit.
func (r *AccountRepo) Create(ctx context.Context, account *entity.Account, createdBy *int64) (int64, error) {
	var (
		id      int64
		message string
	)
	err := r.gw.CallProcedure(ctx, "sp_creer_compte", []any{
		account.LastName, account.FirstName, account.Username, account.Email,
		account.PasswordHash, account.Salt, string(account.Role), createdBy,
	}, func(rows pgx.Rows) error {
		if !rows.Next() {
			return fmt.Errorf("sp_creer_compte: aucune ligne retournée")
		}
		return rows.Scan(&id, &message)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicateIdentity
		}
		return 0, fmt.Errorf("créer le compte: %w", err)
	}
	return id, nil
}

const accountColumns = `id_compte, nom_compte, prenom_compte, nom_utilisateur, email,
	password_hash, salt, role_compte, statut_compte, derniere_connexion,
	tentatives_connexion, compte_verrouille_jusqu, created_at, updated_at, created_by, updated_by`

func scanAccount(row pgx.Row, a *entity.Account) error {
	return row.Scan(
		&a.ID, &a.LastName, &a.FirstName, &a.Username, &a.Email,
		&a.PasswordHash, &a.Salt, &a.Role, &a.Status, &a.LastLoginAt,
		&a.LoginAttempts, &a.LockedUntil, &a.CreatedAt, &a.UpdatedAt, &a.CreatedBy, &a.UpdatedBy,
	)
}

// GetByID retourne un compte par identifiant, (nil, nil) s'il n'existe pas.
func (r *AccountRepo) GetByID(ctx context.Context, id int64) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM compte WHERE id_compte = $1`
	var a entity.Account
	err := r.gw.QueryRow(ctx, query, []any{id}, func(row pgx.Row) error {
		return scanAccount(row, &a)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lire le compte: %w", err)
	}
	return &a, nil
}

// GetCredentialsByEmail retourne le matériel de vérification du mot de passe,
// (nil, nil) quand l'email est inconnu.
func (r *AccountRepo) GetCredentialsByEmail(ctx context.Context, email string) (*repository.Credentials, error) {
	query := `SELECT id_compte, password_hash, salt FROM compte WHERE email = $1`
	var c repository.Credentials
	err := r.gw.QueryRow(ctx, query, []any{email}, func(row pgx.Row) error {
		return row.Scan(&c.AccountID, &c.PasswordHash, &c.Salt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lire les credentials: %w", err)
	}
	return &c, nil
}

// Authenticate délègue le verdict à la procédure d'authentification, qui
// tient les compteurs de tentatives et le verrouillage de façon cohérente
// sous connexions concurrentes.
func (r *AccountRepo) Authenticate(ctx context.Context, email, passwordHash, ipAddress string) (*repository.AuthResult, error) {
	var (
		res       repository.AuthResult
		accountID *int64
	)
	err := r.gw.CallProcedure(ctx, "sp_authentifier_utilisateur", []any{
		email, passwordHash, ipAddress,
	}, func(rows pgx.Rows) error {
		if !rows.Next() {
			return fmt.Errorf("sp_authentifier_utilisateur: aucune ligne retournée")
		}
		return rows.Scan(&res.Success, &accountID, &res.Message)
	})
	if err != nil {
		return nil, fmt.Errorf("authentifier: %w", err)
	}
	if accountID != nil {
		res.AccountID = *accountID
	}
	return &res, nil
}

// ListActive retourne les comptes actifs (passe de notification quotidienne).
func (r *AccountRepo) ListActive(ctx context.Context) ([]entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM compte WHERE statut_compte = 'actif' ORDER BY id_compte`
	var list []entity.Account
	err := r.gw.Query(ctx, query, nil, func(rows pgx.Rows) error {
		for rows.Next() {
			var a entity.Account
			if err := scanAccount(rows, &a); err != nil {
				return fmt.Errorf("scanner le compte: %w", err)
			}
			list = append(list, a)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("lister les comptes actifs: %w", err)
	}
	return list, nil
}
