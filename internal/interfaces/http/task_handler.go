package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/josoavj/prospectius-core/internal/application/dto"
	"github.com/josoavj/prospectius-core/internal/application/prospecting"
	"github.com/josoavj/prospectius-core/internal/domain"
)

// TaskHandler gère les tâches de suivi et les communications.
type TaskHandler struct {
	uc *prospecting.UseCase
}

// NewTaskHandler construit le handler des tâches.
func NewTaskHandler(uc *prospecting.UseCase) *TaskHandler {
	return &TaskHandler{uc: uc}
}

// Create crée une tâche de suivi assignée au compte courant si aucun assigné
// n'est fourni.
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var in dto.TaskInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	if in.AssigneeID == 0 {
		in.AssigneeID = GetAccountID(c)
	}
	id, err := h.uc.CreateTask(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id_tache": id})
}

// List retourne les tâches du compte courant. Le paramètre terminees=true
// inclut les tâches terminées.
func (h *TaskHandler) List(c *fiber.Ctx) error {
	includeCompleted := c.QueryBool("terminees", false)
	out, err := h.uc.ListTasks(c.UserContext(), GetAccountID(c), includeCompleted)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"taches": out, "total": len(out)})
}

// ListOverdue retourne les tâches en retard du compte courant.
func (h *TaskHandler) ListOverdue(c *fiber.Ctx) error {
	accountID := GetAccountID(c)
	out, err := h.uc.ListOverdueTasks(c.UserContext(), &accountID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"taches": out, "total": len(out)})
}

// UpdateStatus change le statut d'une tâche.
func (h *TaskHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "identifiant invalide"})
	}
	var in dto.TaskStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	if err := h.uc.UpdateTaskStatus(c.UserContext(), id, in.Status); err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tâche introuvable"})
		}
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// AddCommunication enregistre une interaction avec un prospect.
func (h *TaskHandler) AddCommunication(c *fiber.Ctx) error {
	prospectID, err := pathID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "identifiant invalide"})
	}
	var in dto.CommunicationInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	in.ProspectID = prospectID
	if in.AccountID == 0 {
		in.AccountID = GetAccountID(c)
	}
	id, err := h.uc.AddCommunication(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id_communication": id})
}

// ScheduleCommunication planifie une interaction à venir avec un prospect.
func (h *TaskHandler) ScheduleCommunication(c *fiber.Ctx) error {
	prospectID, err := pathID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "identifiant invalide"})
	}
	var in dto.CommunicationInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	in.ProspectID = prospectID
	if in.AccountID == 0 {
		in.AccountID = GetAccountID(c)
	}
	id, err := h.uc.ScheduleCommunication(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id_communication": id})
}

// ListCommunications retourne l'historique des interactions d'un prospect.
func (h *TaskHandler) ListCommunications(c *fiber.Ctx) error {
	prospectID, err := pathID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "identifiant invalide"})
	}
	out, err := h.uc.ListCommunications(c.UserContext(), prospectID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"communications": out, "total": len(out)})
}
