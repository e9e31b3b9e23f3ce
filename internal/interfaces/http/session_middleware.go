package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/josoavj/prospectius-core/internal/application/dto"
	"github.com/josoavj/prospectius-core/internal/domain/entity"
)

// Clés Locals posées par le middleware de session.
const (
	LocalAccountID = "account_id"
	LocalSessionID = "session_id"
)

// SessionValidator valide un identifiant de session opaque. Implémenté par le
// cas d'usage d'authentification.
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionID string) (*entity.Session, error)
}

// SessionMiddleware valide le Bearer token (identifiant de session opaque) et
// pose l'identifiant du compte dans c.Locals.
func SessionMiddleware(validator SessionValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_SESSION", Message: "en-tête Authorization requis"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_SESSION", Message: "format attendu : Bearer <session>"})
		}
		sessionID := strings.TrimSpace(parts[1])
		if sessionID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_SESSION", Message: "session vide"})
		}
		session, err := validator.ValidateSession(c.UserContext(), sessionID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: "session invalide ou expirée"})
		}
		c.Locals(LocalAccountID, session.AccountID)
		c.Locals(LocalSessionID, session.ID)
		return c.Next()
	}
}

// GetAccountID retourne l'identifiant du compte posé par le middleware.
func GetAccountID(c *fiber.Ctx) int64 {
	v := c.Locals(LocalAccountID)
	if v == nil {
		return 0
	}
	id, _ := v.(int64)
	return id
}

// GetSessionID retourne l'identifiant de session posé par le middleware.
func GetSessionID(c *fiber.Ctx) string {
	v := c.Locals(LocalSessionID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
