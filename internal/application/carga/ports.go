package carga

import (
	"context"
	"io"
	"time"

	"github.com/farellanoc/calificaciones-api/internal/domain/repository"
)

// Tabla una tabla física tal como aparece en el documento: la primera fila es
// el encabezado, el resto datos. Las celdas conservan sus saltos de línea
// internos (varias transacciones pueden venir empacadas en una fila visual).
type Tabla struct {
	Filas [][]string
}

// Pagina una página del documento con sus tablas en orden de aparición.
type Pagina struct {
	Tablas []Tabla
}

// LectorTabular produce las páginas/tablas de un documento tabular (XLSX).
type LectorTabular interface {
	Leer(r io.Reader, size int64) ([]Pagina, error)
}

// ExtractorTexto extrae el texto plano de un documento (PDF Cert70).
type ExtractorTexto interface {
	ExtraerTexto(r io.ReaderAt, size int64) (string, error)
}

// PreviewGuardada es el estado entre la vista previa y la confirmación.
type PreviewGuardada struct {
	Filas           []*Fila
	Modo            Modo
	NombreArchivo   string
	TipoArchivo     string // csv | xlsx | pdf
	ArchivoFuenteID int    // 0 si no se pudo registrar evidencia
	Usuario         string
	CreadaEn        time.Time
}

// AlmacenPreview guarda vistas previas por token con vigencia acotada.
// Confirmar con un token desconocido o vencido es un error fatal del lote.
type AlmacenPreview interface {
	Guardar(p *PreviewGuardada) (token string, err error)
	Obtener(token string) (*PreviewGuardada, bool)
	Eliminar(token string)
}

// TxRunner ejecuta el grabado de un lote dentro de una transacción de BD,
// pasando repositorios atados a esa tx. O todo el lote queda visible o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		califRepo repository.CalificacionRepository,
		factorRepo repository.FactorValorRepository,
	) error) error
}
