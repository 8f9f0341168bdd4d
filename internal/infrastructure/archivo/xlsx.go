// Package archivo contiene los lectores de archivos de carga: XLSX tabular y
// extracción de texto de PDF.
package archivo

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/farellanoc/calificaciones-api/internal/application/carga"
)

// LectorXLSX adapta un libro XLSX al modelo de páginas/tablas: cada hoja es
// una página con una tabla. Los saltos de línea dentro de una celda se
// conservan, el extractor decide cómo partirlos.
type LectorXLSX struct{}

// NewLectorXLSX construye el lector.
func NewLectorXLSX() *LectorXLSX {
	return &LectorXLSX{}
}

// Leer abre el libro y devuelve sus hojas como páginas.
func (l *LectorXLSX) Leer(r io.Reader, _ int64) ([]carga.Pagina, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer f.Close()

	var paginas []carga.Pagina
	for _, hoja := range f.GetSheetList() {
		filas, err := f.GetRows(hoja)
		if err != nil {
			return nil, fmt.Errorf("leer hoja %q: %w", hoja, err)
		}
		if len(filas) == 0 {
			continue
		}
		paginas = append(paginas, carga.Pagina{Tablas: []carga.Tabla{{Filas: filas}}})
	}
	return paginas, nil
}
