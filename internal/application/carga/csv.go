package carga

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/farellanoc/calificaciones-api/internal/domain/factores"
	"github.com/farellanoc/calificaciones-api/pkg/encoding"
)

// tamaño de la muestra para detectar el delimitador.
const sniffBytes = 4096

// aliasesCampos encabezados aceptados por campo canónico, en orden de
// preferencia. La búsqueda es case-insensitive y gana el primer alias con
// valor no vacío.
var aliasesCampos = map[string][]string{
	"ejercicio":       {"EJERCICIO"},
	"mercado_cod":     {"MERCADO_COD", "MERCADO", "CODIGO_MERCADO"},
	"nemo":            {"NEMO", "INSTRUMENTO"},
	"fecha_pago":      {"FEC_PAGO", "FECHA_PAGO"},
	"sec_eve":         {"SEC_EVE", "SECUENCIA_EVENTO"},
	"descripcion":     {"DESCRIPCION", "DESCRIPCIÓN"},
	"tipo_ingreso_id": {"TIPO_INGRESO_ID"},
}

// ParseCSV lee un CSV de calificaciones y devuelve las filas normalizadas más
// el modo del lote. Tolera BOM, Windows-1252 y delimitador coma, punto y coma
// o tabulador. El modo es "montos" si hay columnas de montos y ninguna de
// factores; "factores" si hay alguna columna de factores; "montos" como
// default documentado cuando no se detecta ninguna.
func ParseCSV(r io.Reader, rango factores.Rango) ([]*Fila, Modo, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, "", fmt.Errorf("detectar encoding: %w", err)
	}

	contenido, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, "", fmt.Errorf("leer csv: %w", err)
	}

	delim := detectarDelimitador(contenido)

	reader := csv.NewReader(strings.NewReader(string(contenido)))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	registros, err := reader.ReadAll()
	if err != nil {
		return nil, "", fmt.Errorf("leer csv: %w", err)
	}
	if len(registros) == 0 {
		return nil, ModoMontos, nil
	}

	headers := normalizarHeaders(registros[0])
	modo := detectarModo(headers, rango)

	filas := make([]*Fila, 0, len(registros)-1)
	for _, registro := range registros[1:] {
		if registroVacio(registro) {
			continue
		}
		valores := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(registro) {
				valores[h] = strings.TrimSpace(registro[i])
			}
		}

		f := NuevaFila()
		f.Ejercicio = buscarAlias(valores, aliasesCampos["ejercicio"])
		f.MercadoCod = buscarAlias(valores, aliasesCampos["mercado_cod"])
		f.Nemo = buscarAlias(valores, aliasesCampos["nemo"])
		f.FechaPago = buscarAlias(valores, aliasesCampos["fecha_pago"])
		f.SecEve = buscarAlias(valores, aliasesCampos["sec_eve"])
		f.Descripcion = buscarAlias(valores, aliasesCampos["descripcion"])
		f.TipoIngresoID = buscarAlias(valores, aliasesCampos["tipo_ingreso_id"])

		// Copiar tal cual toda columna F* reconocida. Montos y factores
		// pueden coexistir en el archivo; el modo decide cuál se usa.
		for h, v := range valores {
			if tipo, pos, ok := rango.ClasificarColumna(h); ok {
				f.SetValor(tipo, pos, v)
			}
		}
		filas = append(filas, f)
	}

	return filas, modo, nil
}

// detectarDelimitador elige entre coma, punto y coma y tabulador contando
// apariciones en la primera línea de la muestra; ante empate o ausencia cae a
// coma.
func detectarDelimitador(contenido []byte) rune {
	muestra := contenido
	if len(muestra) > sniffBytes {
		muestra = muestra[:sniffBytes]
	}
	linea := string(muestra)
	if idx := strings.IndexByte(linea, '\n'); idx >= 0 {
		linea = linea[:idx]
	}

	mejor, mejorCuenta := ',', 0
	for _, cand := range []rune{',', ';', '\t'} {
		if n := strings.Count(linea, string(cand)); n > mejorCuenta {
			mejor, mejorCuenta = cand, n
		}
	}
	return mejor
}

// normalizarHeaders quita el BOM del primer encabezado y espacios de todos.
func normalizarHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

// detectarModo decide el modo del lote a partir del set de columnas.
func detectarModo(headers []string, rango factores.Rango) Modo {
	var hayMontos, hayFactores bool
	for _, h := range headers {
		if _, ok := rango.PosicionMonto(h); ok {
			hayMontos = true
		}
		if _, ok := rango.PosicionFactor(h); ok {
			hayFactores = true
		}
	}
	switch {
	case hayMontos && !hayFactores:
		return ModoMontos
	case hayFactores:
		return ModoFactores
	default:
		return ModoMontos
	}
}

// buscarAlias devuelve el primer alias con valor no vacío (case-insensitive).
func buscarAlias(valores map[string]string, aliases []string) string {
	lower := make(map[string]string, len(valores))
	for k, v := range valores {
		lower[strings.ToLower(k)] = v
	}
	for _, a := range aliases {
		if v := lower[strings.ToLower(a)]; v != "" {
			return v
		}
	}
	return ""
}

func registroVacio(registro []string) bool {
	for _, c := range registro {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
