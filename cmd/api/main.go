package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/josoavj/prospectius-core/internal/application/auth"
	"github.com/josoavj/prospectius-core/internal/application/maintenance"
	"github.com/josoavj/prospectius-core/internal/application/prospecting"
	"github.com/josoavj/prospectius-core/internal/application/stats"
	infrapdf "github.com/josoavj/prospectius-core/internal/infrastructure/pdf"
	"github.com/josoavj/prospectius-core/internal/infrastructure/postgres"
	httpRouter "github.com/josoavj/prospectius-core/internal/interfaces/http"
	"github.com/josoavj/prospectius-core/pkg/config"
	"github.com/josoavj/prospectius-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("chargement de la configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("démarrage de l'application")

	ctx := context.Background()

	if err := postgres.RunMigrations(ctx, cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migrations")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.Pool)
	if err != nil {
		log.Fatal().Err(err).Msg("connexion à PostgreSQL")
	}
	defer pool.Close()

	gateway := postgres.NewGateway(pool, cfg.Pool.AcquireTimeout)
	accountRepo := postgres.NewAccountRepository(gateway)
	sessionRepo := postgres.NewSessionRepository(gateway)
	prospectRepo := postgres.NewProspectRepository(gateway)
	communicationRepo := postgres.NewCommunicationRepository(gateway)
	taskRepo := postgres.NewTaskRepository(gateway)
	statsRepo := postgres.NewStatsRepository(gateway)

	authUC := auth.NewUseCase(accountRepo, sessionRepo, cfg.Session.TTL, log)
	prospectingUC := prospecting.NewUseCase(prospectRepo, communicationRepo, taskRepo, statsRepo, log)
	statsUC := stats.NewUseCase(statsRepo, taskRepo)
	pdfGenerator := infrapdf.NewMarotoReportGenerator()

	// Boucle de maintenance : nettoyage, assignation automatique, rapports.
	maintCtx, cancelMaint := context.WithCancel(ctx)
	defer cancelMaint()
	runner := maintenance.NewRunner(statsRepo, accountRepo, prospectingUC, cfg.Maintenance, log)
	go runner.Run(maintCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local : http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Prospectius API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ProspectingUC: prospectingUC,
		StatsUC:       statsUC,
		PDF:           pdfGenerator,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("serveur HTTP arrêté")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("signal d'arrêt reçu, fermeture du serveur...")
	cancelMaint()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("arrêt du serveur")
	}

	log.Info().Msg("application arrêtée")
}
