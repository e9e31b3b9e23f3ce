package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/josoavj/prospectius-core/internal/application/auth"
	"github.com/josoavj/prospectius-core/internal/application/prospecting"
	"github.com/josoavj/prospectius-core/internal/application/stats"
)

// RouterDeps dépendances du routeur.
type RouterDeps struct {
	AuthUC        *auth.UseCase
	ProspectingUC *prospecting.UseCase
	StatsUC       *stats.UseCase
	PDF           ReportGenerator
}

// Router enregistre les routes de l'API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Routes protégées (Bearer = identifiant de session opaque)
	protected := api.Group("/", SessionMiddleware(deps.AuthUC))
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/session", authHandler.Session)

	// Prospects
	prospects := protected.Group("/prospects")
	prospectHandler := NewProspectHandler(deps.ProspectingUC)
	prospects.Post("/", prospectHandler.CreateWorkflow)
	prospects.Get("/", prospectHandler.Search)
	prospects.Get("/:id", prospectHandler.GetByID)
	prospects.Patch("/:id/statut", prospectHandler.UpdateStatus)
	prospects.Post("/:id/assignation", prospectHandler.Assign)
	prospects.Delete("/:id", prospectHandler.Delete)

	// Communications (rattachées au prospect)
	taskHandler := NewTaskHandler(deps.ProspectingUC)
	prospects.Post("/:id/communications", taskHandler.AddCommunication)
	prospects.Post("/:id/communications/planification", taskHandler.ScheduleCommunication)
	prospects.Get("/:id/communications", taskHandler.ListCommunications)

	// Tâches
	tasks := protected.Group("/taches")
	tasks.Post("/", taskHandler.Create)
	tasks.Get("/", taskHandler.List)
	tasks.Get("/retard", taskHandler.ListOverdue)
	tasks.Patch("/:id/statut", taskHandler.UpdateStatus)

	// Traitement par lot
	protected.Post("/lots", prospectHandler.Batch)

	// Restitution
	reports := protected.Group("/rapports")
	reportHandler := NewReportHandler(deps.StatsUC, deps.ProspectingUC, deps.PDF)
	reports.Get("/tableau-de-bord", reportHandler.Dashboard)
	reports.Get("/statistiques", reportHandler.Statistics)
	reports.Get("/conversion", reportHandler.Conversion)
	reports.Get("/quotidien", reportHandler.Daily)
	reports.Get("/quotidien/pdf", reportHandler.DailyPDF)
}
