// Package postgres contient les adaptateurs de persistance : pool borné,
// passerelle d'exécution (requêtes, procédures, transactions implicites) et
// implémentations des ports repository.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/josoavj/prospectius-core/pkg/config"
)

// NewPool crée le pool de connexions PostgreSQL borné par la configuration.
// Le pool est la seule ressource mutable partagée du système : chaque appel
// repository emprunte une connexion pour sa seule durée.
func NewPool(ctx context.Context, dbCfg config.DBConfig, poolCfg config.PoolConfig) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(dbCfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parser le DSN: %w", err)
	}

	pc.MinConns = poolCfg.MinConns
	pc.MaxConns = poolCfg.MaxConns
	pc.MaxConnLifetime = time.Hour
	pc.MaxConnIdleTime = 30 * time.Minute
	pc.HealthCheckPeriod = time.Minute

	// Codec NUMERIC -> shopspring/decimal sur toutes les connexions du pool
	// (valeur estimée des prospects).
	pc.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("créer le pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping de la base: %w", err)
	}
	return pool, nil
}
