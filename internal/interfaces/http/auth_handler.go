package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/josoavj/prospectius-core/internal/application/auth"
	"github.com/josoavj/prospectius-core/internal/application/dto"
	"github.com/josoavj/prospectius-core/internal/domain"
)

// AuthHandler gère l'inscription, le login et le logout.
type AuthHandler struct {
	uc *auth.UseCase
}

// NewAuthHandler construit le handler d'authentification.
func NewAuthHandler(uc *auth.UseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register crée un compte utilisateur.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	out, err := h.uc.Register(c.UserContext(), in, nil)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrDuplicateIdentity):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_IDENTITY", Message: "email ou nom d'utilisateur déjà utilisé"})
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login ouvre une session après vérification des identifiants.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email et password sont requis"})
	}
	out, err := h.uc.Login(c.UserContext(), in, c.IP(), c.Get("User-Agent"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "email ou mot de passe incorrect"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Session retourne la session courante et son échéance.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	session, err := h.uc.ValidateSession(c.UserContext(), GetSessionID(c))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: "session invalide ou expirée"})
	}
	return c.JSON(dto.SessionInfo{
		SessionID: session.ID,
		AccountID: session.AccountID,
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
	})
}

// Logout invalide la session courante.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.UserContext(), GetSessionID(c)); err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "session invalidée"})
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
