package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/josoavj/prospectius-core/internal/domain"
)

// Gateway seule interface d'accès au stockage. Chaque appel :
//   - emprunte une connexion au pool avec une attente bornée
//     (dépassement -> domain.ErrPoolExhausted) ;
//   - s'exécute dans sa propre transaction, commitée en cas de succès,
//     annulée et propagée en cas d'échec ;
//   - rend la connexion au pool sur tous les chemins de sortie.
//
// Aucune transaction ne traverse deux appels : les workflows multi-étapes de
// la couche application sont composés d'opérations indépendamment commitées.
type Gateway struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
}

// NewGateway construit la passerelle sur un pool existant.
func NewGateway(pool *pgxpool.Pool, acquireTimeout time.Duration) *Gateway {
	return &Gateway{pool: pool, acquireTimeout: acquireTimeout}
}

// Close ferme le pool sous-jacent.
func (g *Gateway) Close() {
	g.pool.Close()
}

func (g *Gateway) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	acquireCtx, cancel := context.WithTimeout(ctx, g.acquireTimeout)
	defer cancel()

	conn, err := g.pool.Acquire(acquireCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: aucun slot libre après %s", domain.ErrPoolExhausted, g.acquireTimeout)
		}
		return fmt.Errorf("acquérir une connexion: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ouvrir la transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// QueryRow exécute une requête et scanne la ligne unique via scan.
func (g *Gateway) QueryRow(ctx context.Context, query string, args []any, scan func(pgx.Row) error) error {
	return g.withTx(ctx, func(tx pgx.Tx) error {
		return scan(tx.QueryRow(ctx, query, args...))
	})
}

// Query exécute une requête et délègue l'itération des lignes à collect.
func (g *Gateway) Query(ctx context.Context, query string, args []any, collect func(pgx.Rows) error) error {
	return g.withTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		if err := collect(rows); err != nil {
			return err
		}
		return rows.Err()
	})
}

// Exec exécute une mutation et retourne le nombre de lignes affectées.
func (g *Gateway) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	var affected int64
	err := g.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	return affected, err
}

// InsertReturningID exécute un INSERT ... RETURNING id et retourne
// l'identifiant généré.
func (g *Gateway) InsertReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	err := g.withTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query, args...).Scan(&id)
	})
	return id, err
}

// CallProcedure exécute une routine stockée (SELECT * FROM nom(...)) et
// délègue les lignes produites à collect.
func (g *Gateway) CallProcedure(ctx context.Context, name string, args []any, collect func(pgx.Rows) error) error {
	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("SELECT * FROM %s(%s)", name, strings.Join(placeholders, ", "))
	return g.Query(ctx, query, args, collect)
}
