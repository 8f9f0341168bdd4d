package dto

import "github.com/shopspring/decimal"

// CalificacionResumenDTO fila del listado del mantenedor.
type CalificacionResumenDTO struct {
	ID              int    `json:"id"`
	Ejercicio       int    `json:"ejercicio"`
	SecuenciaEvento int    `json:"secuencia_evento"`
	Mercado         string `json:"mercado"`
	Instrumento     string `json:"instrumento"`
	Descripcion     string `json:"descripcion"`
	FechaPago       string `json:"fecha_pago,omitempty"`
	Usuario         string `json:"usuario"`
}

// CalificacionListResponse página del listado.
type CalificacionListResponse struct {
	Items []CalificacionResumenDTO `json:"items"`
	PageResponse
}

// FactorDetalleDTO un factor del detalle, con etiqueta del catálogo o
// "Posición N" cuando no hay definición.
type FactorDetalleDTO struct {
	Posicion  int              `json:"posicion"`
	Etiqueta  string           `json:"etiqueta"`
	MontoBase *decimal.Decimal `json:"monto_base,omitempty"`
	Valor     decimal.Decimal  `json:"valor"`
}

// CalificacionDetalleDTO cabecera + 30 factores.
type CalificacionDetalleDTO struct {
	CalificacionResumenDTO
	TipoIngreso         string             `json:"tipo_ingreso"`
	Dividendo           decimal.Decimal    `json:"dividendo"`
	ValorHistorico      decimal.Decimal    `json:"valor_historico"`
	FactorActualizacion decimal.Decimal    `json:"factor_actualizacion"`
	Isfut               bool               `json:"isfut"`
	Factores            []FactorDetalleDTO `json:"factores"`
	Suma819             string             `json:"suma_8_19"`
}

// GuardarCalificacionRequest entrada de creación/edición manual. Exactamente
// uno de Montos o Factores debe venir: montos deriva proporcionalmente,
// factores se validan tal cual. Las llaves del mapa son posiciones 8..37.
type GuardarCalificacionRequest struct {
	Ejercicio       int    `json:"ejercicio"`
	SecuenciaEvento int    `json:"secuencia_evento"`
	MercadoCod      string `json:"mercado_cod"`
	Instrumento     string `json:"instrumento"`
	TipoIngresoID   int    `json:"tipo_ingreso_id"`
	Descripcion     string `json:"descripcion"`
	FechaPago       string `json:"fecha_pago"` // YYYY-MM-DD

	Dividendo           decimal.Decimal `json:"dividendo"`
	ValorHistorico      decimal.Decimal `json:"valor_historico"`
	FactorActualizacion decimal.Decimal `json:"factor_actualizacion"`
	Isfut               bool            `json:"isfut"`

	Montos   map[int]decimal.Decimal `json:"montos,omitempty"`
	Factores map[int]decimal.Decimal `json:"factores,omitempty"`
}

// EliminarCalificacionesRequest borrado múltiple desde el listado.
type EliminarCalificacionesRequest struct {
	IDs []int `json:"ids"`
}

// MercadoDTO item del catálogo de mercados.
type MercadoDTO struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
	Codigo string `json:"codigo"`
	Activo bool   `json:"activo"`
}

// TipoIngresoDTO item del catálogo de tipos de ingreso.
type TipoIngresoDTO struct {
	ID        int    `json:"id"`
	Nombre    string `json:"nombre"`
	Prioridad int    `json:"prioridad"`
}

// FactorDefDTO item del catálogo de definiciones de factores.
type FactorDefDTO struct {
	Posicion    int    `json:"posicion"`
	Codigo      string `json:"codigo"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	Activo      bool   `json:"activo"`
}
