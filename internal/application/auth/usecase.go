// Package auth porte les cas d'usage d'authentification : création de
// compte, login avec session opaque, validation et invalidation de session.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/josoavj/prospectius-core/internal/application/dto"
	"github.com/josoavj/prospectius-core/internal/domain"
	"github.com/josoavj/prospectius-core/internal/domain/entity"
	"github.com/josoavj/prospectius-core/internal/domain/repository"
	"github.com/josoavj/prospectius-core/pkg/logger"
	"github.com/josoavj/prospectius-core/pkg/password"
)

// UseCase cas d'usage d'authentification. Les sessions sont des identifiants
// opaques stockés en base, avec une durée de vie fixe.
type UseCase struct {
	accounts   repository.AccountRepository
	sessions   repository.SessionRepository
	sessionTTL time.Duration
	log        *logger.Logger
}

// NewUseCase construit le cas d'usage d'authentification.
func NewUseCase(accounts repository.AccountRepository, sessions repository.SessionRepository, sessionTTL time.Duration, log *logger.Logger) *UseCase {
	return &UseCase{accounts: accounts, sessions: sessions, sessionTTL: sessionTTL, log: log}
}

// Register crée un compte : valide l'entrée, génère sel et empreinte, puis
// délègue la création à la procédure stockée. Retourne ErrDuplicateIdentity
// si l'email ou le nom d'utilisateur existe déjà.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest, createdBy *int64) (*dto.RegisterResponse, error) {
	if in.LastName == "" || in.Username == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: nom, nom_utilisateur et email sont obligatoires", domain.ErrValidation)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: mot de passe trop court (8 caractères minimum)", domain.ErrValidation)
	}
	role := entity.RoleUser
	if in.Role != "" {
		r, err := entity.ParseRole(in.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: rôle inconnu %q", domain.ErrValidation, in.Role)
		}
		role = r
	}

	salt, err := password.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("génération du sel: %w", err)
	}
	account := &entity.Account{
		LastName:     in.LastName,
		FirstName:    in.FirstName,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: password.Hash(in.Password, salt),
		Salt:         salt,
		Role:         role,
		Status:       entity.AccountActive,
	}
	id, err := uc.accounts.Create(ctx, account, createdBy)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("id_compte", id).Str("role", string(role)).Msg("compte créé")
	return &dto.RegisterResponse{AccountID: id, Message: "Compte créé avec succès"}, nil
}

// Login vérifie email et mot de passe puis ouvre une session. La vérification
// de l'empreinte se fait côté base, qui tient aussi le compteur d'échecs et
// le verrouillage temporaire. Retourne ErrInvalidCredentials sur tout échec
// d'authentification, sans distinguer compte inconnu et mot de passe faux.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	creds, err := uc.accounts.GetCredentialsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, domain.ErrInvalidCredentials
	}
	digest := password.Hash(in.Password, creds.Salt)
	res, err := uc.accounts.Authenticate(ctx, in.Email, digest, ipAddress)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		uc.log.Warn().Str("email", in.Email).Str("motif", res.Message).Msg("échec d'authentification")
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCredentials, res.Message)
	}

	session := &entity.Session{
		ID:        uuid.New().String(),
		AccountID: res.AccountID,
		IPAddress: ipAddress,
		ExpiresAt: time.Now().Add(uc.sessionTTL),
		Active:    true,
	}
	if userAgent != "" {
		session.UserAgent = &userAgent
	}
	if err := uc.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("création de session: %w", err)
	}
	uc.log.Info().Int64("id_compte", res.AccountID).Msg("session ouverte")
	return &dto.LoginResponse{
		Success:   true,
		Message:   res.Message,
		SessionID: session.ID,
		AccountID: res.AccountID,
	}, nil
}

// ValidateSession retourne la session si elle est active et non expirée ;
// ErrSessionExpired dans tous les autres cas.
func (uc *UseCase) ValidateSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionExpired
	}
	session, err := uc.sessions.GetActive(ctx, sessionID, time.Now())
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionExpired
	}
	return session, nil
}

// Logout invalide la session. Idempotent : invalider une session inconnue ou
// déjà invalidée ne produit pas d'erreur.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	return uc.sessions.Invalidate(ctx, sessionID)
}
