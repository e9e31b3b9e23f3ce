package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/josoavj/prospectius-core/internal/application/dto"
	"github.com/josoavj/prospectius-core/internal/application/prospecting"
	"github.com/josoavj/prospectius-core/internal/domain"
)

// ProspectHandler gère le cycle de vie des prospects : workflow de création,
// recherche, transitions et traitement par lot.
type ProspectHandler struct {
	uc *prospecting.UseCase
}

// NewProspectHandler construit le handler des prospects.
func NewProspectHandler(uc *prospecting.UseCase) *ProspectHandler {
	return &ProspectHandler{uc: uc}
}

// CreateWorkflow enchaîne prospect, communication initiale et tâche de suivi.
// Répond 201 même sur workflow partiel : le résultat détaille l'avancement.
func (h *ProspectHandler) CreateWorkflow(c *fiber.Ctx) error {
	var in dto.ProspectInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	out, err := h.uc.CreateProspectWorkflow(c.UserContext(), in, GetAccountID(c))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID retourne un prospect.
func (h *ProspectHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "identifiant invalide"})
	}
	out, err := h.uc.GetProspect(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "prospect introuvable"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Search recherche les prospects du compte courant selon les critères passés
// en query string.
func (h *ProspectHandler) Search(c *fiber.Ctx) error {
	var in dto.SearchRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "critères de recherche invalides"})
	}
	accountID := GetAccountID(c)
	out, err := h.uc.Search(c.UserContext(), in, &accountID)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"prospects": out, "total": len(out)})
}

// UpdateStatus change le statut d'un prospect, avec valeur finale optionnelle.
func (h *ProspectHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "identifiant invalide"})
	}
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	if err := h.uc.UpdateProspectStatus(c.UserContext(), id, in.Status, GetAccountID(c), in.FinalValue); err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "prospect introuvable"})
		}
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Assign affecte un prospect à un compte et le passe en cours de traitement.
func (h *ProspectHandler) Assign(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "identifiant invalide"})
	}
	var in struct {
		AccountID int64 `json:"id_compte"`
	}
	if err := c.BodyParser(&in); err != nil || in.AccountID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id_compte requis"})
	}
	if err := h.uc.AssignProspect(c.UserContext(), id, in.AccountID, GetAccountID(c)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "prospect introuvable"})
		}
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Delete supprime un prospect et ses données liées.
func (h *ProspectHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "identifiant invalide"})
	}
	if err := h.uc.DeleteProspect(c.UserContext(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "prospect introuvable"})
		}
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Batch exécute un lot d'opérations au mieux et retourne le bilan détaillé.
func (h *ProspectHandler) Batch(c *fiber.Ctx) error {
	var in dto.BatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	out := h.uc.ProcessBatch(c.UserContext(), in.Operations, GetAccountID(c))
	return c.JSON(out)
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	return strconv.ParseInt(c.Params(name), 10, 64)
}
