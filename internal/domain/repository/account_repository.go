// Package repository définit les ports de persistance du domaine. Les
// implémentations vivent dans internal/infrastructure/postgres.
package repository

import (
	"context"

	"github.com/josoavj/prospectius-core/internal/domain/entity"
)

// Credentials matériel de vérification d'un compte : empreinte et sel stockés.
type Credentials struct {
	AccountID    int64
	PasswordHash string
	Salt         string
}

// AuthResult verdict de la procédure d'authentification côté persistance,
// qui tient aussi les compteurs de tentatives et le verrouillage.
type AuthResult struct {
	Success   bool
	AccountID int64
	Message   string
}

// AccountRepository accès aux comptes. La création passe par la procédure
// stockée de création de compte (unicité email/username vérifiée en base).
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account, createdBy *int64) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Account, error)
	GetCredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
	Authenticate(ctx context.Context, email, passwordHash, ipAddress string) (*AuthResult, error)
	ListActive(ctx context.Context) ([]entity.Account, error)
}
