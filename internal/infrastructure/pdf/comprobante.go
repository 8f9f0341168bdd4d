// Package pdf implementa el comprobante imprimible de una calificación
// tributaria: cabecera del evento más la tabla de factores por posición.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Calificación Tributaria  │  Ejercicio / Secuencia  │
//	│  ───────────────────────────────────────────────────────── │
//	│  EVENTO: Mercado / Instrumento / Tipo ingreso / Fecha pago  │
//	│  ───────────────────────────────────────────────────────── │
//	│  TABLA: Posición | Concepto | Monto base | Factor           │
//	│  ───────────────────────────────────────────────────────── │
//	│  RESUMEN: Suma posiciones base                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/farellanoc/calificaciones-api/internal/application/dto"
	"github.com/farellanoc/calificaciones-api/internal/application/usecase"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ usecase.GeneradorComprobante = (*ComprobanteGenerator)(nil)

// ComprobanteGenerator implementa usecase.GeneradorComprobante usando Maroto v2.
type ComprobanteGenerator struct{}

// NewComprobanteGenerator construye el generador.
func NewComprobanteGenerator() *ComprobanteGenerator { return &ComprobanteGenerator{} }

// Generar genera el PDF del comprobante y devuelve sus bytes.
func (g *ComprobanteGenerator) Generar(det *dto.CalificacionDetalleDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de Calificación Tributaria", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(det))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(eventoRow(det))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range factorRows(det.Factores) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(resumenRow(det))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título (izq) y ejercicio + secuencia del evento (der).
func headerRow(det *dto.CalificacionDetalleDTO) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("CALIFICACIÓN TRIBUTARIA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Comprobante de factores por posición", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("Ejercicio %d", det.Ejercicio), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New(fmt.Sprintf("Secuencia de evento: %d", det.SecuenciaEvento), props.Text{
				Size: 9, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// eventoRow: datos del evento de pago.
func eventoRow(det *dto.CalificacionDetalleDTO) core.Row {
	fecha := det.FechaPago
	if fecha == "" {
		fecha = "—"
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("EVENTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s — %s", det.Mercado, det.Instrumento), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Tipo de ingreso: %s   |   Fecha de pago: %s   |   Registrado por: %s",
				det.TipoIngreso, fecha, det.Usuario,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de factores.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Pos.", 1, align.Center),
		h("Concepto", 6, align.Left),
		h("Monto base", 2, align.Right),
		h("Factor", 3, align.Right),
	)
}

// factorRows: una fila por posición 8..37.
func factorRows(facs []dto.FactorDetalleDTO) []core.Row {
	result := make([]core.Row, 0, len(facs))
	for _, f := range facs {
		monto := "—"
		if f.MontoBase != nil {
			monto = f.MontoBase.StringFixed(2)
		}
		result = append(result, row.New(6).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", f.Posicion),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				f.Etiqueta,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				monto,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				f.Valor.StringFixed(8),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// resumenRow: suma de las posiciones base, alineada a la derecha.
func resumenRow(det *dto.CalificacionDetalleDTO) core.Row {
	return row.New(10).Add(
		col.New(8),
		col.New(4).Add(
			text.New("Suma posiciones 8 a 19", props.Text{
				Size: 8, Align: align.Right, Top: 1, Color: colorGray,
			}),
			text.New(det.Suma819, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 5,
			}),
		),
	)
}
