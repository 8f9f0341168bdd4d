package factores

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Derivacion resultado del cálculo proporcional a partir de montos.
type Derivacion struct {
	// Factores por posición, todas las posiciones del rango presentes.
	Factores map[int]decimal.Decimal
	// TotalBase es la suma de montos del rango base (divisor).
	TotalBase decimal.Decimal
	// SumaBase es la suma de los factores *redondeados* del rango base.
	// Se suma sobre lo redondeado y no sobre los montos: el artefacto de
	// redondeo es esperado y aceptado.
	SumaBase decimal.Decimal
}

// DerivarDesdeMontos calcula factor = Redondear8(monto / totalBase) para cada
// posición del rango, con totalBase = suma de montos 8..19. Si totalBase <= 0
// todos los factores quedan en 0; el llamador debe rechazar ese caso como
// error (al menos un monto del rango base debe ser positivo).
func (r Rango) DerivarDesdeMontos(montos map[int]decimal.Decimal) Derivacion {
	totalBase := decimal.Zero
	for pos, m := range montos {
		if r.EsBase(pos) {
			totalBase = totalBase.Add(m)
		}
	}

	out := Derivacion{
		Factores:  make(map[int]decimal.Decimal, r.Max-r.Min+1),
		TotalBase: totalBase,
		SumaBase:  decimal.Zero,
	}
	for _, pos := range r.Posiciones() {
		factor := decimal.Zero
		if totalBase.IsPositive() {
			m, ok := montos[pos]
			if !ok {
				m = decimal.Zero
			}
			factor = Redondear8(m.Div(totalBase))
		}
		out.Factores[pos] = factor
		if r.EsBase(pos) {
			out.SumaBase = out.SumaBase.Add(factor)
		}
	}
	return out
}

// ValidarFactores valida factores entregados directamente: rechaza negativos
// o mayores a 1, redondea los sobrevivientes a 8 decimales y calcula la suma
// del rango base sobre los valores redondeados. Las posiciones ausentes
// quedan en 0.
func (r Rango) ValidarFactores(entrada map[int]decimal.Decimal) (map[int]decimal.Decimal, decimal.Decimal, error) {
	limpios := make(map[int]decimal.Decimal, r.Max-r.Min+1)
	sumaBase := decimal.Zero

	for _, pos := range r.Posiciones() {
		f, ok := entrada[pos]
		if !ok {
			limpios[pos] = decimal.Zero
			continue
		}
		if f.IsNegative() {
			return nil, decimal.Zero, fmt.Errorf("posición %d: factor negativo (%s)", pos, f)
		}
		if f.GreaterThan(decimal.NewFromInt(1)) {
			return nil, decimal.Zero, fmt.Errorf("posición %d: factor mayor a 1 (%s)", pos, f)
		}
		f = Redondear8(f)
		limpios[pos] = f
		if r.EsBase(pos) {
			sumaBase = sumaBase.Add(f)
		}
	}
	return limpios, sumaBase, nil
}

// AlgunaBasePositiva informa si al menos un valor del rango base es > 0.
// Un rango base completamente en cero no aporta información: se usa tanto
// para montos como para factores manuales.
func (r Rango) AlgunaBasePositiva(valores map[int]decimal.Decimal) bool {
	for pos, v := range valores {
		if r.EsBase(pos) && v.IsPositive() {
			return true
		}
	}
	return false
}
