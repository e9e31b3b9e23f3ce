package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/josoavj/prospectius-core/internal/infrastructure/postgres/migrations"
)

// RunMigrations applique le schéma embarqué (tables, procédures, vues) via
// goose. Utilise une connexion database/sql dédiée, distincte du pool pgx.
func RunMigrations(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("ouvrir la base pour migration: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("appliquer les migrations: %w", err)
	}
	return nil
}
