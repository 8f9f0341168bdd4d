package archivo

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractorPDF extrae el texto plano de un PDF. Los certificados 70 se
// procesan después por patrones sobre ese texto.
type ExtractorPDF struct{}

// NewExtractorPDF construye el extractor.
func NewExtractorPDF() *ExtractorPDF {
	return &ExtractorPDF{}
}

// ExtraerTexto devuelve el texto de todas las páginas, separadas por salto de
// línea. Una página ilegible se salta: los certificados escaneados suelen
// traer páginas mixtas y el parseo posterior tolera huecos.
func (e *ExtractorPDF) ExtraerTexto(r io.ReaderAt, size int64) (string, error) {
	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("abrir pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= doc.NumPage(); i++ {
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		texto, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(texto)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
