package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/farellanoc/calificaciones-api/internal/domain/entity"
	"github.com/farellanoc/calificaciones-api/internal/domain/repository"
)

var (
	_ repository.MercadoRepository     = (*MercadoRepo)(nil)
	_ repository.TipoIngresoRepository = (*TipoIngresoRepo)(nil)
	_ repository.FactorDefRepository   = (*FactorDefRepo)(nil)
)

// MercadoRepo catálogo de mercados sobre PostgreSQL.
type MercadoRepo struct {
	q Querier
}

// NewMercadoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMercadoRepository(q Querier) *MercadoRepo {
	return &MercadoRepo{q: q}
}

// List devuelve los mercados activos primero, ordenados por nombre.
func (r *MercadoRepo) List(ctx context.Context) ([]*entity.Mercado, error) {
	rows, err := r.q.Query(ctx,
		"SELECT id, nombre, codigo, activo FROM mercados ORDER BY activo DESC, nombre")
	if err != nil {
		return nil, fmt.Errorf("list mercados: %w", err)
	}
	defer rows.Close()

	var out []*entity.Mercado
	for rows.Next() {
		var m entity.Mercado
		if err := rows.Scan(&m.ID, &m.Nombre, &m.Codigo, &m.Activo); err != nil {
			return nil, fmt.Errorf("scan mercado: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// GetByCodigoONombre resuelve por código exacto y, si no hay coincidencia,
// por nombre. nil si no existe: los archivos traen códigos libres y un
// mercado desconocido es una omisión de fila, no un error.
func (r *MercadoRepo) GetByCodigoONombre(ctx context.Context, codigoONombre string) (*entity.Mercado, error) {
	query := `
		SELECT id, nombre, codigo, activo FROM mercados
		WHERE upper(codigo) = upper($1) OR upper(nombre) = upper($1)
		ORDER BY (upper(codigo) = upper($1)) DESC
		LIMIT 1`
	var m entity.Mercado
	err := r.q.QueryRow(ctx, query, codigoONombre).Scan(&m.ID, &m.Nombre, &m.Codigo, &m.Activo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get mercado: %w", err)
	}
	return &m, nil
}

// TipoIngresoRepo catálogo de tipos de ingreso sobre PostgreSQL.
type TipoIngresoRepo struct {
	q Querier
}

// NewTipoIngresoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTipoIngresoRepository(q Querier) *TipoIngresoRepo {
	return &TipoIngresoRepo{q: q}
}

// List devuelve los tipos ordenados por prioridad.
func (r *TipoIngresoRepo) List(ctx context.Context) ([]*entity.TipoIngreso, error) {
	rows, err := r.q.Query(ctx,
		"SELECT id, nombre, prioridad FROM tipos_ingreso ORDER BY prioridad, id")
	if err != nil {
		return nil, fmt.Errorf("list tipos de ingreso: %w", err)
	}
	defer rows.Close()

	var out []*entity.TipoIngreso
	for rows.Next() {
		var t entity.TipoIngreso
		if err := rows.Scan(&t.ID, &t.Nombre, &t.Prioridad); err != nil {
			return nil, fmt.Errorf("scan tipo de ingreso: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// GetByID obtiene un tipo por ID; nil si no existe.
func (r *TipoIngresoRepo) GetByID(ctx context.Context, id int) (*entity.TipoIngreso, error) {
	var t entity.TipoIngreso
	err := r.q.QueryRow(ctx,
		"SELECT id, nombre, prioridad FROM tipos_ingreso WHERE id = $1", id).
		Scan(&t.ID, &t.Nombre, &t.Prioridad)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tipo de ingreso: %w", err)
	}
	return &t, nil
}

// GetDefault devuelve el primer tipo del catálogo. Las cargas usan este
// fallback cuando la fila no trae tipo o trae uno desconocido.
func (r *TipoIngresoRepo) GetDefault(ctx context.Context) (*entity.TipoIngreso, error) {
	var t entity.TipoIngreso
	err := r.q.QueryRow(ctx,
		"SELECT id, nombre, prioridad FROM tipos_ingreso ORDER BY prioridad, id LIMIT 1").
		Scan(&t.ID, &t.Nombre, &t.Prioridad)
	if err != nil {
		return nil, fmt.Errorf("get tipo de ingreso default: %w", err)
	}
	return &t, nil
}

// FactorDefRepo catálogo de definiciones de factores sobre PostgreSQL.
type FactorDefRepo struct {
	q Querier
}

// NewFactorDefRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFactorDefRepository(q Querier) *FactorDefRepo {
	return &FactorDefRepo{q: q}
}

// List devuelve todas las definiciones ordenadas por posición.
func (r *FactorDefRepo) List(ctx context.Context) ([]*entity.FactorDef, error) {
	rows, err := r.q.Query(ctx,
		"SELECT id, posicion, codigo, nombre, descripcion, activo FROM factor_defs ORDER BY posicion")
	if err != nil {
		return nil, fmt.Errorf("list factor defs: %w", err)
	}
	defer rows.Close()

	var out []*entity.FactorDef
	for rows.Next() {
		var d entity.FactorDef
		if err := rows.Scan(&d.ID, &d.Posicion, &d.Codigo, &d.Nombre, &d.Descripcion, &d.Activo); err != nil {
			return nil, fmt.Errorf("scan factor def: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// MapActivos devuelve {posición: definición} para las activas del rango.
func (r *FactorDefRepo) MapActivos(ctx context.Context, posMin, posMax int) (map[int]*entity.FactorDef, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, posicion, codigo, nombre, descripcion, activo
		FROM factor_defs WHERE activo AND posicion BETWEEN $1 AND $2`, posMin, posMax)
	if err != nil {
		return nil, fmt.Errorf("map factor defs: %w", err)
	}
	defer rows.Close()

	out := make(map[int]*entity.FactorDef)
	for rows.Next() {
		var d entity.FactorDef
		if err := rows.Scan(&d.ID, &d.Posicion, &d.Codigo, &d.Nombre, &d.Descripcion, &d.Activo); err != nil {
			return nil, fmt.Errorf("scan factor def: %w", err)
		}
		out[d.Posicion] = &d
	}
	return out, rows.Err()
}
