package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/josoavj/prospectius-core/internal/application/dto"
	"github.com/josoavj/prospectius-core/internal/application/prospecting"
	"github.com/josoavj/prospectius-core/internal/application/stats"
	"github.com/josoavj/prospectius-core/internal/domain"
)

// ReportGenerator rend un rapport quotidien en PDF.
type ReportGenerator interface {
	GenerateDailyReport(report *dto.DailyReport) ([]byte, error)
}

// ReportHandler gère la restitution : tableau de bord, statistiques, taux de
// conversion et rapport quotidien (JSON ou PDF).
type ReportHandler struct {
	statsUC       *stats.UseCase
	prospectingUC *prospecting.UseCase
	pdf           ReportGenerator
}

// NewReportHandler construit le handler de restitution.
func NewReportHandler(statsUC *stats.UseCase, prospectingUC *prospecting.UseCase, pdf ReportGenerator) *ReportHandler {
	return &ReportHandler{statsUC: statsUC, prospectingUC: prospectingUC, pdf: pdf}
}

// Dashboard retourne le tableau de bord du compte courant.
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.statsUC.Dashboard(c.UserContext(), GetAccountID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Statistics retourne les statistiques des prospects du compte courant sur la
// fenêtre [date_debut, date_fin], trente derniers jours par défaut.
func (h *ReportHandler) Statistics(c *fiber.Ctx) error {
	var from, to time.Time
	var err error
	if raw := c.Query("date_debut"); raw != "" {
		if from, err = time.Parse("2006-01-02", raw); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_debut invalide"})
		}
	}
	if raw := c.Query("date_fin"); raw != "" {
		if to, err = time.Parse("2006-01-02", raw); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_fin invalide"})
		}
	}
	accountID := GetAccountID(c)
	out, err := h.statsUC.ProspectStatistics(c.UserContext(), &accountID, from, to)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Conversion retourne les taux de conversion du compte courant sur une
// fenêtre glissante en jours (paramètre fenetre, 30 par défaut).
func (h *ReportHandler) Conversion(c *fiber.Ctx) error {
	accountID := GetAccountID(c)
	out, err := h.statsUC.ConversionRates(c.UserContext(), &accountID, c.QueryInt("fenetre", 0))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Daily retourne le rapport quotidien du compte courant en JSON.
func (h *ReportHandler) Daily(c *fiber.Ctx) error {
	out, err := h.prospectingUC.DailyReport(c.UserContext(), GetAccountID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// DailyPDF retourne le rapport quotidien du compte courant en PDF.
func (h *ReportHandler) DailyPDF(c *fiber.Ctx) error {
	report, err := h.prospectingUC.DailyReport(c.UserContext(), GetAccountID(c))
	if err != nil {
		return internalError(c, err)
	}
	raw, err := h.pdf.GenerateDailyReport(report)
	if err != nil {
		return internalError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="rapport-%s.pdf"`, report.ReportDate))
	return c.Send(raw)
}
