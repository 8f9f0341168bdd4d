package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farellanoc/calificaciones-api/internal/application/carga"
	"github.com/farellanoc/calificaciones-api/internal/domain/repository"
)

var _ carga.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Lo usa la confirmación de cargas: el lote completo queda
// visible de una vez o no queda nada.
func (r *TxRunner) Run(ctx context.Context, fn func(
	califRepo repository.CalificacionRepository,
	factorRepo repository.FactorValorRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	califRepo := NewCalificacionRepository(tx)
	factorRepo := NewFactorValorRepository(tx)

	if err := fn(califRepo, factorRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
