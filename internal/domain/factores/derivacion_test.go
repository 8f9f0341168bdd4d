package factores_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farellanoc/calificaciones-api/internal/domain/factores"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDerivarDesdeMontos_Proporcional(t *testing.T) {
	r := factores.Defecto
	montos := map[int]decimal.Decimal{
		8: dec("300.00"),
		9: dec("700.00"),
	}

	d := r.DerivarDesdeMontos(montos)

	require.True(t, d.TotalBase.Equal(dec("1000.00")))
	assert.Equal(t, "0.30000000", d.Factores[8].StringFixed(8))
	assert.Equal(t, "0.70000000", d.Factores[9].StringFixed(8))
	for pos := 10; pos <= 37; pos++ {
		assert.True(t, d.Factores[pos].IsZero(), "posición %d debe quedar en 0", pos)
	}
	assert.Equal(t, "1.00000000", d.SumaBase.StringFixed(8))
}

func TestDerivarDesdeMontos_CreditosNoEntranAlDivisor(t *testing.T) {
	r := factores.Defecto
	montos := map[int]decimal.Decimal{
		8:  dec("500"),
		9:  dec("500"),
		20: dec("250"), // crédito: se deriva pero no divide ni suma
	}

	d := r.DerivarDesdeMontos(montos)

	require.True(t, d.TotalBase.Equal(dec("1000")))
	assert.Equal(t, "0.25000000", d.Factores[20].StringFixed(8))
	assert.Equal(t, "1.00000000", d.SumaBase.StringFixed(8))
}

func TestDerivarDesdeMontos_SumaSobreRedondeados(t *testing.T) {
	// tres montos iguales: cada factor redondea a 0.33333333 y la suma base
	// queda en 0.99999999, no en 1: el artefacto de redondeo se acepta.
	r := factores.Defecto
	montos := map[int]decimal.Decimal{
		8:  dec("1"),
		9:  dec("1"),
		10: dec("1"),
	}

	d := r.DerivarDesdeMontos(montos)

	assert.Equal(t, "0.33333333", d.Factores[8].StringFixed(8))
	assert.Equal(t, "0.99999999", d.SumaBase.StringFixed(8))
}

func TestDerivarDesdeMontos_BaseCero(t *testing.T) {
	r := factores.Defecto
	// solo créditos: el divisor 8..19 queda en cero
	montos := map[int]decimal.Decimal{20: dec("1000")}

	d := r.DerivarDesdeMontos(montos)

	assert.True(t, d.TotalBase.IsZero())
	for _, pos := range r.Posiciones() {
		assert.True(t, d.Factores[pos].IsZero())
	}
	assert.False(t, r.AlgunaBasePositiva(montos))
}

func TestDerivarDesdeMontos_RoundTripAcotado(t *testing.T) {
	// la suma base de factores derivados nunca excede 1 más un ULP de redondeo
	r := factores.Defecto
	casos := []map[int]decimal.Decimal{
		{8: dec("1"), 9: dec("2"), 10: dec("3"), 11: dec("4"), 19: dec("5")},
		{8: dec("0.01"), 9: dec("0.02"), 12: dec("999999.97")},
		{8: dec("7"), 9: dec("11"), 10: dec("13"), 11: dec("17"), 13: dec("19"), 17: dec("23")},
	}
	tope := dec("1.00000001")

	for i, montos := range casos {
		d := r.DerivarDesdeMontos(montos)
		assert.True(t, d.SumaBase.LessThanOrEqual(tope), "caso %d: suma %s", i, d.SumaBase)
		for pos, m := range montos {
			esperado := factores.Redondear8(m.Div(d.TotalBase))
			assert.True(t, d.Factores[pos].Equal(esperado), "caso %d posición %d", i, pos)
		}
	}
}

func TestValidarFactores_OK(t *testing.T) {
	r := factores.Defecto
	limpios, suma, err := r.ValidarFactores(map[int]decimal.Decimal{
		8: dec("0.30000000"),
		9: dec("0.70000000"),
	})

	require.NoError(t, err)
	assert.Equal(t, "1.00000000", suma.StringFixed(8))
	assert.Equal(t, "0.30000000", limpios[8].StringFixed(8))
	assert.True(t, limpios[37].IsZero())
}

func TestValidarFactores_RechazaNegativoYMayorAUno(t *testing.T) {
	r := factores.Defecto

	_, _, err := r.ValidarFactores(map[int]decimal.Decimal{8: dec("-0.1")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "posición 8")

	_, _, err = r.ValidarFactores(map[int]decimal.Decimal{21: dec("1.5")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "posición 21")
}

func TestValidarFactores_RedondeaA8(t *testing.T) {
	r := factores.Defecto
	limpios, _, err := r.ValidarFactores(map[int]decimal.Decimal{8: dec("0.123456785")})
	require.NoError(t, err)
	assert.Equal(t, "0.12345679", limpios[8].StringFixed(8))
}

func TestSumaMaxima_TopeEstricto(t *testing.T) {
	// 1.00000000 exacto pasa; 1.00000001 no
	assert.False(t, dec("1.00000000").GreaterThan(factores.SumaMaxima))
	assert.True(t, dec("1.00000001").GreaterThan(factores.SumaMaxima))
}
