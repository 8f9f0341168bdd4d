package postgres

import (
	"context"
	"fmt"

	"github.com/farellanoc/calificaciones-api/internal/domain/entity"
	"github.com/farellanoc/calificaciones-api/internal/domain/repository"
)

var _ repository.FactorValorRepository = (*FactorValorRepo)(nil)

// FactorValorRepo implementación del detalle de factores sobre PostgreSQL.
type FactorValorRepo struct {
	q Querier
}

// NewFactorValorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFactorValorRepository(q Querier) *FactorValorRepo {
	return &FactorValorRepo{q: q}
}

// ListByCalificacion devuelve los factores de una calificación ordenados por posición.
func (r *FactorValorRepo) ListByCalificacion(ctx context.Context, calificacionID int) ([]*entity.FactorValor, error) {
	query := `
		SELECT id, calificacion_id, posicion, monto_base, valor, factor_def_id
		FROM factor_valores WHERE calificacion_id = $1 ORDER BY posicion`
	rows, err := r.q.Query(ctx, query, calificacionID)
	if err != nil {
		return nil, fmt.Errorf("list factores: %w", err)
	}
	defer rows.Close()

	var out []*entity.FactorValor
	for rows.Next() {
		var fv entity.FactorValor
		if err := rows.Scan(&fv.ID, &fv.CalificacionID, &fv.Posicion, &fv.MontoBase, &fv.Valor, &fv.FactorDefID); err != nil {
			return nil, fmt.Errorf("scan factor: %w", err)
		}
		out = append(out, &fv)
	}
	return out, rows.Err()
}

// Upsert inserta o reemplaza el valor de (calificación, posición).
func (r *FactorValorRepo) Upsert(ctx context.Context, fv *entity.FactorValor) error {
	query := `
		INSERT INTO factor_valores (calificacion_id, posicion, monto_base, valor, factor_def_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (calificacion_id, posicion) DO UPDATE SET
			monto_base = EXCLUDED.monto_base,
			valor = EXCLUDED.valor,
			factor_def_id = EXCLUDED.factor_def_id
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		fv.CalificacionID, fv.Posicion, fv.MontoBase, fv.Valor, fv.FactorDefID,
	).Scan(&fv.ID)
	if err != nil {
		return fmt.Errorf("upsert factor: %w", err)
	}
	return nil
}
