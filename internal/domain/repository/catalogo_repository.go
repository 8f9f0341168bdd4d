package repository

import (
	"context"

	"github.com/farellanoc/calificaciones-api/internal/domain/entity"
)

// MercadoRepository puerto de persistencia del catálogo de mercados.
type MercadoRepository interface {
	List(ctx context.Context) ([]*entity.Mercado, error)
	// GetByCodigoONombre resuelve un mercado por código exacto o, si no hay
	// coincidencia, por nombre (ambos case-insensitive). nil si no existe.
	GetByCodigoONombre(ctx context.Context, codigoONombre string) (*entity.Mercado, error)
}

// TipoIngresoRepository puerto del catálogo de tipos de ingreso.
type TipoIngresoRepository interface {
	List(ctx context.Context) ([]*entity.TipoIngreso, error)
	GetByID(ctx context.Context, id int) (*entity.TipoIngreso, error)
	// GetDefault devuelve el tipo de menor prioridad (el primero del catálogo).
	GetDefault(ctx context.Context) (*entity.TipoIngreso, error)
}

// FactorDefRepository puerto del catálogo de definiciones de factores.
// El catálogo puede ser parcial o estar vacío; los consumidores degradan a
// etiquetas genéricas (entity.EtiquetaPosicion).
type FactorDefRepository interface {
	List(ctx context.Context) ([]*entity.FactorDef, error)
	// MapActivos devuelve {posición: definición} solo para posiciones activas
	// dentro del rango dado. Se consulta una vez por lote, no por fila.
	MapActivos(ctx context.Context, posMin, posMax int) (map[int]*entity.FactorDef, error)
}

// ArchivoFuenteRepository puerto de evidencia de cargas.
type ArchivoFuenteRepository interface {
	Create(ctx context.Context, a *entity.ArchivoFuente) error
	GetByID(ctx context.Context, id int) (*entity.ArchivoFuente, error)
}
