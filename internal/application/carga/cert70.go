package carga

import (
	"regexp"
	"strings"

	"github.com/farellanoc/calificaciones-api/internal/domain/factores"
)

// Patrones del texto del Cert70. Las filas del certificado vienen como
// RUT  FECHA  MONTO_HIST  FACTOR  ...  MONTO_ACT  DIVIDENDO_N°; las columnas
// intermedias (créditos u otros) suelen ser ceros y se saltan con un tramo
// acotado.
var (
	reEjercicio = regexp.MustCompile(`(?i)Año Tributario\s+(\d{4})|Ejercicio\s*:?\s*([12]\d{3})`)

	reFilaCert70 = regexp.MustCompile(
		`(\d{1,2}\.\d{3}\.\d{3}-[\dkK])\s+` + // rut
			`(\d{1,2}/\d{1,2}/\d{4})\s+` + // fecha
			`(\d{1,3}(?:\.\d{3})*(?:,\d{1,3})?)\s+` + // monto histórico
			`(\d+,\d{1,3})\s+` + // factor de actualización
			`.{0,30}?` +
			`(\d{1,3}(?:\.\d{3})*(?:,\d{1,3})?)\s+` + // monto actualizado
			`(\d{3,})`) // dividendo n°
)

// índices de los grupos de reFilaCert70
const (
	grpFecha = 2
	grpMH    = 3
	grpFac   = 4
	grpMA    = 5
	grpDiv   = 6
)

// ParseCert70 extrae las filas del texto plano de un certificado 70, una por
// dividendo. El certificado no desagrega por posición, así que cada fila sale
// con F8_FACTOR=1 y el resto 0; el lote es siempre modo "factores". Si el
// texto no calza con ningún patrón se devuelve una única fila vacía para que
// la vista previa muestre algo corregible en vez de fallar en seco.
func ParseCert70(texto string, rango factores.Rango) ([]*Fila, Modo, error) {
	texto = strings.ReplaceAll(texto, "\u00a0", " ")

	var ejercicio string
	if m := reEjercicio.FindStringSubmatch(texto); m != nil {
		ejercicio = m[1]
		if ejercicio == "" {
			ejercicio = m[2]
		}
	}

	var filas []*Fila
	for _, m := range reFilaCert70.FindAllStringSubmatch(texto, -1) {
		f := filaCert70Base(ejercicio)
		f.FechaPago = convertirFechaDDMMYYYY(m[grpFecha])
		f.SecEve = m[grpDiv] // el N° de dividendo hace de secuencia de evento
		f.ValorHistorico = factores.NormalizarMonedaChilena(m[grpMH])
		f.FactorActualizacion = factores.NormalizarMonedaChilena(m[grpFac])
		f.MontoActualizado = factores.NormalizarMonedaChilena(m[grpMA])

		for pos := rango.Min; pos <= rango.Base; pos++ {
			v := "0"
			if pos == rango.Min {
				v = "1"
			}
			f.SetValor(factores.ColumnaFactor, pos, v)
		}
		filas = append(filas, f)
	}

	if len(filas) == 0 {
		f := filaCert70Base(ejercicio)
		f.ValorHistorico = "0"
		f.FactorActualizacion = "1.000"
		f.MontoActualizado = "0"
		for pos := rango.Min; pos <= rango.Base; pos++ {
			f.SetValor(factores.ColumnaFactor, pos, "0")
		}
		filas = append(filas, f)
	}

	return filas, ModoFactores, nil
}

func filaCert70Base(ejercicio string) *Fila {
	f := NuevaFila()
	f.Ejercicio = ejercicio
	f.MercadoCod = "ACC"
	f.Nemo = "PDF-EJEMPLO"
	f.Descripcion = "Desde PDF Cert70"
	f.TipoIngresoID = "2"
	return f
}
