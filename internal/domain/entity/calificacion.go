package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SecuenciaMinima las secuencias de evento válidas son > 10000.
const SecuenciaMinima = 10001

// Calificacion cabecera de una calificación tributaria.
// La llave natural de negocio es (Ejercicio, SecuenciaEvento): reimportar la
// misma llave actualiza la cabecera en vez de duplicarla.
type Calificacion struct {
	ID              int
	MercadoID       int
	InstrumentoText string
	TipoIngresoID   int
	Descripcion     string
	FechaPago       *time.Time // fecha de pago del dividendo; nil si el origen no la trae
	Ejercicio       int
	SecuenciaEvento int

	Dividendo           decimal.Decimal
	ValorHistorico      decimal.Decimal
	FactorActualizacion decimal.Decimal
	Isfut               bool

	Usuario           string // actor que creó/modificó, atribución solamente
	ArchivoFuenteID   *int
	FechaCreacion     time.Time
	FechaModificacion time.Time
}

// FactorValor detalle de un factor por calificación y posición (8..37).
// MontoBase solo se llena cuando la carga fue por montos; Valor siempre.
type FactorValor struct {
	ID             int
	CalificacionID int
	Posicion       int
	MontoBase      *decimal.Decimal // nil en cargas por factores
	Valor          decimal.Decimal  // 0..1, 8 decimales
	FactorDefID    *int
}

// ArchivoFuente evidencia de una carga masiva (trazabilidad).
type ArchivoFuente struct {
	ID            int
	NombreArchivo string
	Ruta          string
	FechaSubida   time.Time
	Usuario       string
}
