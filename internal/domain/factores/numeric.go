package factores

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseEntero convierte a int de forma segura; ante cualquier fallo devuelve def.
func ParseEntero(v string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// ParseDecimal convierte a Decimal de forma segura (acepta coma o punto como
// separador decimal). Vacío o basura devuelve def; nunca falla.
func ParseDecimal(v string, def decimal.Decimal) decimal.Decimal {
	s := strings.TrimSpace(v)
	if s == "" {
		return def
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return def
	}
	return d
}

// patrón de factor con coma decimal: "1,014", "0,5". Cualquier otra forma se
// trata como monto con puntos de miles.
var reFactorComa = regexp.MustCompile(`^\d+,\d{1,3}$`)

// NormalizarMonedaChilena desambigua los dos estilos numéricos de los
// documentos fuente. La regla es de carga crítica: confundir un estilo con el
// otro altera el valor en ~1000x.
//
//	entrada        interpretación                  salida
//	"39.546"       punto = separador de miles      "39546"
//	"6.525.197"    punto = separador de miles      "6525197"
//	"1,014"        coma = separador decimal        "1.014"
//	"1.234,56"     miles + coma decimal            "1234.56"
func NormalizarMonedaChilena(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
	if s == "" {
		return ""
	}
	if reFactorComa.MatchString(s) {
		return strings.ReplaceAll(s, ",", ".")
	}
	s = strings.ReplaceAll(s, ".", "")
	return strings.ReplaceAll(s, ",", ".")
}

// ParseMonedaChilena normaliza con NormalizarMonedaChilena y parsea de forma
// segura; ante fallo devuelve def.
func ParseMonedaChilena(s string, def decimal.Decimal) decimal.Decimal {
	n := NormalizarMonedaChilena(s)
	if n == "" {
		return def
	}
	d, err := decimal.NewFromString(n)
	if err != nil {
		return def
	}
	return d
}

// Redondear8 cuantiza a 8 decimales con redondeo half-up (0.123456785 ->
// 0.12345679). Half-up y no bancario: regla de negocio del mantenedor.
func Redondear8(d decimal.Decimal) decimal.Decimal {
	// decimal.Round redondea half away from zero, que para factores no
	// negativos equivale a HALF_UP.
	return d.Round(8)
}
