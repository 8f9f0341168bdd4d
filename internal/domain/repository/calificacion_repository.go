package repository

import (
	"context"

	"github.com/farellanoc/calificaciones-api/internal/domain/entity"
)

// CalificacionFilter filtros del listado del mantenedor.
type CalificacionFilter struct {
	Ejercicio int    // 0 = sin filtro
	MercadoID int    // 0 = sin filtro
	Texto     string // busca en instrumento y descripción
	Limit     int
	Offset    int
}

// UpsertResultado indica si el upsert por llave natural creó o actualizó.
type UpsertResultado struct {
	Calificacion *entity.Calificacion
	Creada       bool
}

// CalificacionRepository puerto de persistencia de cabeceras de calificación.
type CalificacionRepository interface {
	List(ctx context.Context, f CalificacionFilter) ([]*entity.Calificacion, int, error)
	GetByID(ctx context.Context, id int) (*entity.Calificacion, error)
	// ExisteLlaveNatural informa si ya hay una calificación para
	// (ejercicio, secuencia_evento). Usado por la vista previa.
	ExisteLlaveNatural(ctx context.Context, ejercicio, secuenciaEvento int) (bool, error)
	// UpsertPorLlaveNatural crea la cabecera si no existe o refresca sus
	// campos mutables (mercado, instrumento, tipo ingreso, descripción,
	// fecha de pago, usuario, archivo fuente) si ya existe. La identidad
	// (ejercicio, secuencia) nunca se toca. Respaldado por una restricción
	// UNIQUE, por lo que dos cargas concurrentes no pueden duplicar la llave.
	UpsertPorLlaveNatural(ctx context.Context, c *entity.Calificacion) (UpsertResultado, error)
	Update(ctx context.Context, c *entity.Calificacion) error
	DeleteByIDs(ctx context.Context, ids []int) (int, error)
}

// FactorValorRepository puerto de persistencia del detalle de factores.
type FactorValorRepository interface {
	ListByCalificacion(ctx context.Context, calificacionID int) ([]*entity.FactorValor, error)
	// Upsert inserta o reemplaza el valor para (calificación, posición).
	Upsert(ctx context.Context, fv *entity.FactorValor) error
}
