package factores

import (
	"fmt"
	"strconv"
	"strings"
)

// TipoColumna distingue columnas de montos crudos y de factores directos.
type TipoColumna int

const (
	ColumnaMonto TipoColumna = iota
	ColumnaFactor
)

func (t TipoColumna) String() string {
	if t == ColumnaFactor {
		return "FACTOR"
	}
	return "MONTO"
}

// ClasificarColumna reconoce encabezados con formato F{pos}_MONTO o
// F{pos}_FACTOR (case-insensitive) y devuelve el tipo y la posición. Los
// encabezados malformados ("F_FACTOR", "FX_MONTO") o fuera del rango
// devuelven ok=false, nunca error.
func (r Rango) ClasificarColumna(header string) (TipoColumna, int, bool) {
	h := strings.ToUpper(strings.TrimSpace(header))
	if !strings.HasPrefix(h, "F") {
		return 0, 0, false
	}

	var tipo TipoColumna
	switch {
	case strings.HasSuffix(h, "_MONTO"):
		tipo = ColumnaMonto
	case strings.HasSuffix(h, "_FACTOR"):
		tipo = ColumnaFactor
	default:
		return 0, 0, false
	}

	idx := strings.Index(h, "_")
	pos, err := strconv.Atoi(h[1:idx])
	if err != nil || !r.Contiene(pos) {
		return 0, 0, false
	}
	return tipo, pos, true
}

// PosicionMonto devuelve la posición si el encabezado es una columna de monto.
func (r Rango) PosicionMonto(header string) (int, bool) {
	tipo, pos, ok := r.ClasificarColumna(header)
	if !ok || tipo != ColumnaMonto {
		return 0, false
	}
	return pos, true
}

// PosicionFactor devuelve la posición si el encabezado es una columna de factor.
func (r Rango) PosicionFactor(header string) (int, bool) {
	tipo, pos, ok := r.ClasificarColumna(header)
	if !ok || tipo != ColumnaFactor {
		return 0, false
	}
	return pos, true
}

// NombreColumna arma el encabezado canónico de una posición: F8_MONTO, F37_FACTOR.
func NombreColumna(tipo TipoColumna, pos int) string {
	return fmt.Sprintf("F%d_%s", pos, tipo)
}
