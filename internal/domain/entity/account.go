package entity

import (
	"time"

	"github.com/josoavj/prospectius-core/internal/domain"
)

// Role rôle d'un compte.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleUser    Role = "user"
	RoleManager Role = "manager"
)

// ParseRole valide une valeur de rôle venue de l'extérieur.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser, RoleManager:
		return Role(s), nil
	}
	return "", domain.ErrValidation
}

// AccountStatus état d'activité d'un compte.
type AccountStatus string

const (
	AccountActive    AccountStatus = "actif"
	AccountInactive  AccountStatus = "inactif"
	AccountSuspended AccountStatus = "suspendu"
)

// Account porteur d'identité et de credentials. L'empreinte du mot de passe
// est toujours accompagnée du sel généré par le service d'authentification,
// jamais fourni de l'extérieur.
type Account struct {
	ID            int64
	LastName      string
	FirstName     string
	Username      string
	Email         string
	PasswordHash  string
	Salt          string
	Role          Role
	Status        AccountStatus
	LastLoginAt   *time.Time
	LoginAttempts int
	LockedUntil   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     *int64
	UpdatedBy     *int64
}
