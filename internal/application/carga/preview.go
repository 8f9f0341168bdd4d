package carga

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/farellanoc/calificaciones-api/internal/domain/factores"
)

// VerificadorExistencia responde si ya existe una calificación con la llave
// natural (ejercicio, secuencia_evento).
type VerificadorExistencia interface {
	ExisteLlaveNatural(ctx context.Context, ejercicio, secuenciaEvento int) (bool, error)
}

// Anotador enriquece cada fila con el estado frente a la base y las
// pre-validaciones que pinta la vista previa.
type Anotador struct {
	rango  factores.Rango
	existe VerificadorExistencia
}

// NewAnotador construye el anotador.
func NewAnotador(rango factores.Rango, existe VerificadorExistencia) *Anotador {
	return &Anotador{rango: rango, existe: existe}
}

// Anotar marca cada fila con status nuevo/actualiza, cuenta de factores con
// valor, suma base y los flags pre_error / pre_warning. Los errores bloquean
// la confirmación del lote; los warnings solo avisan y nunca acompañan a un
// error en la misma fila. Una fila que no se puede evaluar (llave ilegible,
// fallo de consulta) queda como error en vez de abortar la vista previa.
func (a *Anotador) Anotar(ctx context.Context, filas []*Fila, modo Modo) {
	for _, f := range filas {
		if err := a.anotarFila(ctx, f, modo); err != nil {
			f.Status = StatusNuevo
			f.FactoresConValor = 0
			f.Suma819 = "0"
			f.PreError = true
			f.PreWarning = false
		}
	}
}

func (a *Anotador) anotarFila(ctx context.Context, f *Fila, modo Modo) error {
	ejercicio := factores.ParseEntero(f.Ejercicio, 0)
	secEve := factores.ParseEntero(f.SecEve, 0)

	existe, err := a.existe.ExisteLlaveNatural(ctx, ejercicio, secEve)
	if err != nil {
		return err
	}
	f.Status = StatusNuevo
	if existe {
		f.Status = StatusActualiza
	}

	factoresConValor := 0
	suma819 := decimal.Zero
	totalBaseMontos := decimal.Zero

	for k, v := range f.Valores {
		if pos, ok := a.rango.PosicionFactor(k); ok {
			val := factores.ParseDecimal(v, decimal.Zero)
			if !val.IsZero() {
				factoresConValor++
			}
			if a.rango.EsBase(pos) {
				suma819 = suma819.Add(val)
			}
		}
		if pos, ok := a.rango.PosicionMonto(k); ok && a.rango.EsBase(pos) {
			totalBaseMontos = totalBaseMontos.Add(factores.ParseDecimal(v, decimal.Zero))
		}
	}

	f.FactoresConValor = factoresConValor
	f.Suma819 = suma819.String()

	var preError, preWarning bool
	// sin base positiva no hay factores que derivar
	if modo == ModoMontos && !totalBaseMontos.IsPositive() {
		preError = true
	}
	if modo == ModoFactores && suma819.GreaterThan(factores.SumaMaxima) {
		preError = true
	}
	if f.MercadoCod == "" || f.SecEve == "" {
		preWarning = true
	}
	if f.Status == StatusActualiza {
		preWarning = true
	}

	f.PreError = preError
	f.PreWarning = !preError && preWarning
	return nil
}
