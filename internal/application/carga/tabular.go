package carga

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farellanoc/calificaciones-api/internal/domain/factores"
	"github.com/farellanoc/calificaciones-api/pkg/logger"
)

// Mapeo físico→lógico del Cert70 tabular. El documento no trae encabezados
// semánticos estables para las columnas de crédito, así que el mapeo es una
// tabla constante atada a ese layout exacto: si el emisor cambia el formato,
// se actualiza aquí.
//
// Tabla de montos históricos (posiciones base):
//
//	col física:  0    1      2..6      7      8     ...   18      19
//	contenido:   RUT  FECHA  (otros)   F8     F9    ...   F19     DIVIDENDO N°
const (
	colFechaMontos     = 1
	colDividendoMontos = 19
	// la posición lógica es la columna física + 1 en la tabla de montos
	primeraColMontos = 7
	ultimaColMontos  = 18
)

// Tabla de créditos (posiciones 20..37): fecha y dividendo adelante, luego los
// 18 créditos en orden posicional.
const (
	colFechaCreditos     = 0
	colDividendoCreditos = 1
)

var mapaColumnasCreditos = map[int]int{
	2: 20, 3: 21, 4: 22, 5: 23, 6: 24, 7: 25,
	8: 26, 9: 27, 10: 28, 11: 29, 12: 30, 13: 31,
	14: 32, 15: 33, 16: 34, 17: 35, 18: 36, 19: 37,
}

// ExtractorTabular recorre las páginas de un documento tabular, identifica la
// tabla de montos históricos y la de créditos por palabras clave del
// encabezado, y reconcilia ambas pasadas en un registro por transacción
// usando la llave (fecha, dividendo). Siempre produce modo "montos".
type ExtractorTabular struct {
	rango factores.Rango
	log   *logger.Logger
}

// NewExtractorTabular construye el extractor.
func NewExtractorTabular(rango factores.Rango, log *logger.Logger) *ExtractorTabular {
	return &ExtractorTabular{rango: rango, log: log}
}

// registroTabular acumulado de las dos pasadas para una transacción.
type registroTabular struct {
	fila        *Fila
	totalBase   decimal.Decimal
	desdeMontos bool // la pasada de montos creó el registro
}

// Extraer procesa el documento completo: primero todas las tablas de montos,
// luego todas las de créditos (pueden venir en páginas distintas). Los
// registros cuyo total base 8..19 no es positivo se descartan: un evento sin
// monto histórico no aporta información.
func (e *ExtractorTabular) Extraer(paginas []Pagina) ([]*Fila, Modo, error) {
	registros := make(map[string]*registroTabular)
	var orden []string

	for _, pag := range paginas {
		for _, tab := range pag.Tablas {
			if clasificarTabla(tab) == tablaMontos {
				e.procesarTablaMontos(tab, registros, &orden)
			}
		}
	}
	for _, pag := range paginas {
		for _, tab := range pag.Tablas {
			if clasificarTabla(tab) == tablaCreditos {
				e.procesarTablaCreditos(tab, registros, &orden)
			}
		}
	}

	filas := make([]*Fila, 0, len(registros))
	for _, key := range orden {
		reg := registros[key]
		// toda posición 8..37 debe quedar con valor explícito
		for _, pos := range e.rango.Posiciones() {
			nombre := factores.NombreColumna(factores.ColumnaMonto, pos)
			if _, ok := reg.fila.Valores[nombre]; !ok {
				reg.fila.Valores[nombre] = "0"
			}
		}
		if !reg.totalBase.IsPositive() {
			continue
		}
		filas = append(filas, reg.fila)
	}

	return filas, ModoMontos, nil
}

type tipoTabla int

const (
	tablaDesconocida tipoTabla = iota
	tablaMontos
	tablaCreditos
)

// clasificarTabla identifica la tabla por palabras clave del encabezado
// concatenado (case-insensitive). Tablas que no calzan se ignoran.
func clasificarTabla(t Tabla) tipoTabla {
	if len(t.Filas) == 0 {
		return tablaDesconocida
	}
	encabezado := strings.ToUpper(strings.Join(t.Filas[0], " "))
	switch {
	case strings.Contains(encabezado, "MONTO") &&
		(strings.Contains(encabezado, "HISTÓRICO") || strings.Contains(encabezado, "HISTORICO")):
		return tablaMontos
	case strings.Contains(encabezado, "CRÉDITO") || strings.Contains(encabezado, "CREDITO"):
		return tablaCreditos
	default:
		return tablaDesconocida
	}
}

func (e *ExtractorTabular) procesarTablaMontos(t Tabla, registros map[string]*registroTabular, orden *[]string) {
	for _, filaFisica := range t.Filas[1:] {
		for _, sub := range dividirSubfilas(filaFisica, colFechaMontos) {
			fecha := convertirFechaDDMMYYYY(celda(sub, colFechaMontos))
			div := strings.TrimSpace(celda(sub, colDividendoMontos))
			if fecha == "" && div == "" {
				continue
			}
			key := fecha + "|" + div

			reg, ok := registros[key]
			if !ok {
				reg = &registroTabular{fila: filaTabularBase(fecha, div), totalBase: decimal.Zero}
				registros[key] = reg
				*orden = append(*orden, key)
			}
			reg.desdeMontos = true

			for col := primeraColMontos; col <= ultimaColMontos; col++ {
				pos := col + 1
				valor := limpiarCeldaNumerica(celda(sub, col))
				reg.fila.SetValor(factores.ColumnaMonto, pos, valor)
				if e.rango.EsBase(pos) {
					reg.totalBase = reg.totalBase.Add(factores.ParseMonedaChilena(valor, decimal.Zero))
				}
			}
		}
	}
}

func (e *ExtractorTabular) procesarTablaCreditos(t Tabla, registros map[string]*registroTabular, orden *[]string) {
	for _, filaFisica := range t.Filas[1:] {
		for _, sub := range dividirSubfilas(filaFisica, colFechaCreditos) {
			fecha := convertirFechaDDMMYYYY(celda(sub, colFechaCreditos))
			div := strings.TrimSpace(celda(sub, colDividendoCreditos))
			if fecha == "" && div == "" {
				continue
			}
			key := fecha + "|" + div

			reg, ok := registros[key]
			if !ok {
				// anomalía recuperable: la pasada de montos nunca vio esta
				// transacción; se crea un stub con defaults y se deja registro
				e.log.Warn().
					Str("fecha", fecha).
					Str("dividendo", div).
					Msg("tabla de créditos sin contraparte en tabla de montos")
				reg = &registroTabular{fila: filaTabularBase(fecha, div), totalBase: decimal.Zero}
				registros[key] = reg
				*orden = append(*orden, key)
			}

			for col, pos := range mapaColumnasCreditos {
				valor := limpiarCeldaNumerica(celda(sub, col))
				reg.fila.SetValor(factores.ColumnaMonto, pos, valor)
			}
		}
	}
}

// filaTabularBase arma la fila con los defaults de dominio del Cert70: el
// documento no trae mercado ni nemo por transacción.
func filaTabularBase(fechaISO, dividendo string) *Fila {
	f := NuevaFila()
	f.MercadoCod = "ACC"
	f.Nemo = "CERT70"
	f.Descripcion = "Carga Cert70 tabular"
	f.TipoIngresoID = "2"
	f.FechaPago = fechaISO
	f.SecEve = dividendo
	if len(fechaISO) >= 4 {
		f.Ejercicio = fechaISO[:4]
	}
	return f
}

// dividirSubfilas separa los registros lógicos empacados en una fila física.
// La columna de fecha manda: su cantidad de sublíneas define cuántos registros
// hay; las demás columnas se dividen igual y se rellenan con vacío a la
// derecha si traen menos sublíneas (nunca se trunca la cuenta de la fecha).
func dividirSubfilas(filaFisica []string, colFecha int) [][]string {
	fechaLineas := strings.Split(celda(filaFisica, colFecha), "\n")
	n := len(fechaLineas)
	if n == 0 {
		return nil
	}

	subfilas := make([][]string, n)
	for i := range subfilas {
		subfilas[i] = make([]string, len(filaFisica))
	}
	for col := range filaFisica {
		lineas := strings.Split(filaFisica[col], "\n")
		for i := 0; i < n; i++ {
			if i < len(lineas) {
				subfilas[i][col] = strings.TrimSpace(lineas[i])
			}
		}
	}
	return subfilas
}

// reOCRFechaExtra corrige un artefacto de OCR visto en producción:
// '220/02/2020' -> '20/02/2020'.
var reOCRFechaExtra = regexp.MustCompile(`^2(\d{2}/\d{2}/\d{4})$`)

// convertirFechaDDMMYYYY convierte DD/MM/YYYY a ISO YYYY-MM-DD. Una fecha
// malformada degrada al string crudo en vez de fallar.
func convertirFechaDDMMYYYY(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = reOCRFechaExtra.ReplaceAllString(s, "$1")
	t, err := time.Parse("2/1/2006", s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}

// limpiarCeldaNumerica normaliza una celda numérica del documento. Vacío,
// "0" y "-" son cero sin intento de parseo; el resto pasa por la heurística
// de moneda chilena.
func limpiarCeldaNumerica(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" || s == "-" {
		return "0"
	}
	n := factores.NormalizarMonedaChilena(s)
	if n == "" {
		return "0"
	}
	return n
}

// celda acceso tolerante por índice: fuera de rango devuelve vacío.
func celda(fila []string, idx int) string {
	if idx < 0 || idx >= len(fila) {
		return ""
	}
	return fila[idx]
}

// String para diagnósticos.
func (t Tabla) String() string {
	return fmt.Sprintf("tabla de %d filas", len(t.Filas))
}
