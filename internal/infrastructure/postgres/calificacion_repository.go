package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/farellanoc/calificaciones-api/internal/domain"
	"github.com/farellanoc/calificaciones-api/internal/domain/entity"
	"github.com/farellanoc/calificaciones-api/internal/domain/repository"
)

var _ repository.CalificacionRepository = (*CalificacionRepo)(nil)

// CalificacionRepo implementación del puerto sobre PostgreSQL (usable con pool o tx).
type CalificacionRepo struct {
	q Querier
}

// NewCalificacionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCalificacionRepository(q Querier) *CalificacionRepo {
	return &CalificacionRepo{q: q}
}

const califColumns = `id, mercado_id, instrumento_text, tipo_ingreso_id, descripcion,
	fecha_pago_dividendo, ejercicio, secuencia_evento, dividendo, valor_historico,
	factor_actualizacion, isfut, usuario, archivo_fuente_id, fecha_creacion, fecha_modificacion`

// List devuelve una página filtrada del mantenedor, más el total sin paginar.
func (r *CalificacionRepo) List(ctx context.Context, f repository.CalificacionFilter) ([]*entity.Calificacion, int, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Ejercicio > 0 {
		where = append(where, "ejercicio = "+arg(f.Ejercicio))
	}
	if f.MercadoID > 0 {
		where = append(where, "mercado_id = "+arg(f.MercadoID))
	}
	if f.Texto != "" {
		p := arg("%" + f.Texto + "%")
		where = append(where, "(instrumento_text ILIKE "+p+" OR descripcion ILIKE "+p+")")
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, "SELECT count(*) FROM calificaciones"+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count calificaciones: %w", err)
	}

	query := "SELECT " + califColumns + " FROM calificaciones" + cond +
		" ORDER BY ejercicio DESC, secuencia_evento DESC" +
		" LIMIT " + arg(f.Limit) + " OFFSET " + arg(f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list calificaciones: %w", err)
	}
	defer rows.Close()

	var out []*entity.Calificacion
	for rows.Next() {
		c, err := scanCalificacion(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// GetByID obtiene una calificación; nil si no existe.
func (r *CalificacionRepo) GetByID(ctx context.Context, id int) (*entity.Calificacion, error) {
	row := r.q.QueryRow(ctx, "SELECT "+califColumns+" FROM calificaciones WHERE id = $1", id)
	c, err := scanCalificacion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get calificacion: %w", err)
	}
	return c, nil
}

// ExisteLlaveNatural informa si ya hay registro para (ejercicio, secuencia).
func (r *CalificacionRepo) ExisteLlaveNatural(ctx context.Context, ejercicio, secuenciaEvento int) (bool, error) {
	var existe bool
	err := r.q.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM calificaciones WHERE ejercicio = $1 AND secuencia_evento = $2)",
		ejercicio, secuenciaEvento).Scan(&existe)
	if err != nil {
		return false, fmt.Errorf("existe calificacion: %w", err)
	}
	return existe, nil
}

// UpsertPorLlaveNatural inserta o refresca la cabecera. El ON CONFLICT sobre
// la restricción única hace el upsert atómico frente a cargas concurrentes;
// xmax = 0 distingue inserción de actualización en la misma vuelta.
func (r *CalificacionRepo) UpsertPorLlaveNatural(ctx context.Context, c *entity.Calificacion) (repository.UpsertResultado, error) {
	query := `
		INSERT INTO calificaciones (mercado_id, instrumento_text, tipo_ingreso_id, descripcion,
			fecha_pago_dividendo, ejercicio, secuencia_evento, dividendo, valor_historico,
			factor_actualizacion, isfut, usuario, archivo_fuente_id, fecha_creacion, fecha_modificacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
		ON CONFLICT (ejercicio, secuencia_evento) DO UPDATE SET
			mercado_id = EXCLUDED.mercado_id,
			instrumento_text = EXCLUDED.instrumento_text,
			tipo_ingreso_id = EXCLUDED.tipo_ingreso_id,
			descripcion = EXCLUDED.descripcion,
			fecha_pago_dividendo = COALESCE(EXCLUDED.fecha_pago_dividendo, calificaciones.fecha_pago_dividendo),
			dividendo = EXCLUDED.dividendo,
			valor_historico = EXCLUDED.valor_historico,
			factor_actualizacion = EXCLUDED.factor_actualizacion,
			usuario = EXCLUDED.usuario,
			archivo_fuente_id = COALESCE(EXCLUDED.archivo_fuente_id, calificaciones.archivo_fuente_id),
			fecha_modificacion = now()
		RETURNING id, (xmax = 0)`
	var (
		id     int
		creada bool
	)
	err := r.q.QueryRow(ctx, query,
		c.MercadoID, c.InstrumentoText, c.TipoIngresoID, c.Descripcion,
		c.FechaPago, c.Ejercicio, c.SecuenciaEvento, c.Dividendo, c.ValorHistorico,
		c.FactorActualizacion, c.Isfut, c.Usuario, c.ArchivoFuenteID,
	).Scan(&id, &creada)
	if err != nil {
		return repository.UpsertResultado{}, fmt.Errorf("upsert calificacion: %w", err)
	}
	c.ID = id
	return repository.UpsertResultado{Calificacion: c, Creada: creada}, nil
}

// Update reemplaza los campos mutables de una calificación existente.
func (r *CalificacionRepo) Update(ctx context.Context, c *entity.Calificacion) error {
	query := `
		UPDATE calificaciones SET
			mercado_id = $1, instrumento_text = $2, tipo_ingreso_id = $3, descripcion = $4,
			fecha_pago_dividendo = $5, ejercicio = $6, secuencia_evento = $7, dividendo = $8,
			valor_historico = $9, factor_actualizacion = $10, isfut = $11, usuario = $12,
			fecha_modificacion = now()
		WHERE id = $13`
	tag, err := r.q.Exec(ctx, query,
		c.MercadoID, c.InstrumentoText, c.TipoIngresoID, c.Descripcion,
		c.FechaPago, c.Ejercicio, c.SecuenciaEvento, c.Dividendo,
		c.ValorHistorico, c.FactorActualizacion, c.Isfut, c.Usuario, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update calificacion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByIDs borra calificaciones; el detalle cae por FK ON DELETE CASCADE.
func (r *CalificacionRepo) DeleteByIDs(ctx context.Context, ids []int) (int, error) {
	tag, err := r.q.Exec(ctx, "DELETE FROM calificaciones WHERE id = ANY($1)", ids)
	if err != nil {
		return 0, fmt.Errorf("delete calificaciones: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanCalificacion(row pgx.Row) (*entity.Calificacion, error) {
	var c entity.Calificacion
	err := row.Scan(
		&c.ID, &c.MercadoID, &c.InstrumentoText, &c.TipoIngresoID, &c.Descripcion,
		&c.FechaPago, &c.Ejercicio, &c.SecuenciaEvento, &c.Dividendo, &c.ValorHistorico,
		&c.FactorActualizacion, &c.Isfut, &c.Usuario, &c.ArchivoFuenteID,
		&c.FechaCreacion, &c.FechaModificacion,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
