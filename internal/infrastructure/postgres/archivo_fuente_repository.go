package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/farellanoc/calificaciones-api/internal/domain/entity"
	"github.com/farellanoc/calificaciones-api/internal/domain/repository"
)

var _ repository.ArchivoFuenteRepository = (*ArchivoFuenteRepo)(nil)

// ArchivoFuenteRepo evidencia de cargas sobre PostgreSQL.
type ArchivoFuenteRepo struct {
	q Querier
}

// NewArchivoFuenteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewArchivoFuenteRepository(q Querier) *ArchivoFuenteRepo {
	return &ArchivoFuenteRepo{q: q}
}

// Create registra la evidencia de una carga y completa ID y fecha.
func (r *ArchivoFuenteRepo) Create(ctx context.Context, a *entity.ArchivoFuente) error {
	query := `
		INSERT INTO archivos_fuente (nombre_archivo, ruta_almacenamiento, fecha_subida, usuario)
		VALUES ($1, $2, now(), $3)
		RETURNING id, fecha_subida`
	err := r.q.QueryRow(ctx, query, a.NombreArchivo, a.Ruta, a.Usuario).
		Scan(&a.ID, &a.FechaSubida)
	if err != nil {
		return fmt.Errorf("insert archivo fuente: %w", err)
	}
	return nil
}

// GetByID obtiene una evidencia por ID; nil si no existe.
func (r *ArchivoFuenteRepo) GetByID(ctx context.Context, id int) (*entity.ArchivoFuente, error) {
	var a entity.ArchivoFuente
	err := r.q.QueryRow(ctx, `
		SELECT id, nombre_archivo, ruta_almacenamiento, fecha_subida, usuario
		FROM archivos_fuente WHERE id = $1`, id).
		Scan(&a.ID, &a.NombreArchivo, &a.Ruta, &a.FechaSubida, &a.Usuario)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get archivo fuente: %w", err)
	}
	return &a, nil
}
