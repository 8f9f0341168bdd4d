// Package factores implementa el motor de derivación y validación de factores
// tributarios: normalización numérica chilena, clasificación de columnas
// F{n}_MONTO / F{n}_FACTOR y el cálculo proporcional sobre el rango base.
package factores

import "github.com/shopspring/decimal"

// Rango delimita las posiciones de factores. [Min..Base] es el rango base cuya
// suma de factores no puede exceder 1; (Base..Max] son posiciones de crédito
// sin restricción de suma. Se construye una vez y se inyecta, en lugar de
// repetir constantes sueltas en cada componente.
type Rango struct {
	Min  int
	Base int
	Max  int
}

// Defecto es el rango del formulario SII vigente: posiciones 8..37, base 8..19.
var Defecto = Rango{Min: 8, Base: 19, Max: 37}

// SumaMaxima tope exacto para la suma de factores del rango base.
// Un valor infinitesimalmente sobre 1 tras redondeo debe rechazarse, no
// recortarse.
var SumaMaxima = decimal.RequireFromString("1.00000000")

// Contiene informa si pos es una posición válida del rango.
func (r Rango) Contiene(pos int) bool {
	return pos >= r.Min && pos <= r.Max
}

// EsBase informa si pos pertenece al rango base (divisor de la derivación).
func (r Rango) EsBase(pos int) bool {
	return pos >= r.Min && pos <= r.Base
}

// Posiciones devuelve todas las posiciones del rango en orden ascendente.
func (r Rango) Posiciones() []int {
	out := make([]int, 0, r.Max-r.Min+1)
	for pos := r.Min; pos <= r.Max; pos++ {
		out = append(out, pos)
	}
	return out
}
