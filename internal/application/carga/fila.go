// Package carga implementa la carga masiva de calificaciones: extracción de
// filas desde CSV, documentos tabulares (XLSX) y texto de Cert70 (PDF),
// pre-validación para la vista previa y el grabado transaccional definitivo.
package carga

import (
	"github.com/shopspring/decimal"

	"github.com/farellanoc/calificaciones-api/internal/domain/factores"
)

// Modo indica qué representación trae el lote: montos crudos (factores a
// derivar) o factores directos. Se decide una vez por lote, nunca se mezcla.
type Modo string

const (
	ModoMontos   Modo = "montos"
	ModoFactores Modo = "factores"
)

// Estados de una fila respecto a la llave natural (ejercicio, sec_eve).
const (
	StatusNuevo     = "nuevo"
	StatusActualiza = "actualiza"
)

// Fila es una calificación prospectiva normalizada. Los campos fijos van
// tipados; las columnas variables F{n}_MONTO / F{n}_FACTOR viajan en Valores
// tal como llegaron del origen. Todo es string/decimal serializable: la fila
// vive entre la vista previa y la confirmación y se descarta después.
type Fila struct {
	Ejercicio     string `json:"ejercicio"`
	MercadoCod    string `json:"mercado_cod"`
	Nemo          string `json:"nemo"`
	FechaPago     string `json:"fecha_pago"`
	SecEve        string `json:"sec_eve"`
	Descripcion   string `json:"descripcion"`
	TipoIngresoID string `json:"tipo_ingreso_id"`

	// Cabecera complementaria del Cert70; vacíos en cargas CSV.
	ValorHistorico      string `json:"valor_historico,omitempty"`
	FactorActualizacion string `json:"factor_actualizacion,omitempty"`
	MontoActualizado    string `json:"monto_actualizado,omitempty"`

	// Valores por encabezado canónico: "F8_MONTO", "F21_FACTOR", ...
	Valores map[string]string `json:"valores"`

	// Anotaciones de la vista previa.
	Status           string `json:"status"`
	FactoresConValor int    `json:"factores_con_valor"`
	Suma819          string `json:"suma_8_19"`
	PreError         bool   `json:"pre_error"`
	PreWarning       bool   `json:"pre_warning"`
}

// NuevaFila construye una fila con el mapa de valores listo.
func NuevaFila() *Fila {
	return &Fila{Valores: make(map[string]string)}
}

// SetValor guarda el valor de una posición bajo su encabezado canónico.
func (f *Fila) SetValor(tipo factores.TipoColumna, pos int, v string) {
	f.Valores[factores.NombreColumna(tipo, pos)] = v
}

// Montos extrae los montos por posición, parseados de forma segura.
func (f *Fila) Montos(r factores.Rango) map[int]decimal.Decimal {
	out := make(map[int]decimal.Decimal)
	for k, v := range f.Valores {
		if pos, ok := r.PosicionMonto(k); ok {
			out[pos] = factores.ParseDecimal(v, decimal.Zero)
		}
	}
	return out
}

// Factores extrae los factores por posición, parseados de forma segura.
func (f *Fila) Factores(r factores.Rango) map[int]decimal.Decimal {
	out := make(map[int]decimal.Decimal)
	for k, v := range f.Valores {
		if pos, ok := r.PosicionFactor(k); ok {
			out[pos] = factores.ParseDecimal(v, decimal.Zero)
		}
	}
	return out
}
