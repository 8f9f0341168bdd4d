package carga

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farellanoc/calificaciones-api/internal/domain/factores"
)

func TestParseCSV_ModoMontos(t *testing.T) {
	csv := "EJERCICIO,MERCADO_COD,NEMO,SEC_EVE,F8_MONTO,F9_MONTO\n" +
		"2024,ACC,COPEC,10500,300,700\n"

	filas, modo, err := ParseCSV(strings.NewReader(csv), factores.Defecto)
	require.NoError(t, err)
	assert.Equal(t, ModoMontos, modo)
	require.Len(t, filas, 1)

	f := filas[0]
	assert.Equal(t, "2024", f.Ejercicio)
	assert.Equal(t, "ACC", f.MercadoCod)
	assert.Equal(t, "COPEC", f.Nemo)
	assert.Equal(t, "10500", f.SecEve)
	assert.Equal(t, "300", f.Valores["F8_MONTO"])
	assert.Equal(t, "700", f.Valores["F9_MONTO"])
}

func TestParseCSV_ModoFactores(t *testing.T) {
	csv := "EJERCICIO,MERCADO_COD,NEMO,SEC_EVE,F8_FACTOR,F9_FACTOR\n" +
		"2024,ACC,CMPC,10600,0.5,0.5\n"

	_, modo, err := ParseCSV(strings.NewReader(csv), factores.Defecto)
	require.NoError(t, err)
	assert.Equal(t, ModoFactores, modo)
}

func TestParseCSV_FactoresGanaSiCoexisten(t *testing.T) {
	// con columnas de ambos tipos el lote es de factores
	csv := "EJERCICIO,SEC_EVE,F8_MONTO,F8_FACTOR\n2024,10500,100,1\n"

	_, modo, err := ParseCSV(strings.NewReader(csv), factores.Defecto)
	require.NoError(t, err)
	assert.Equal(t, ModoFactores, modo)
}

func TestParseCSV_SinColumnasFDefaultMontos(t *testing.T) {
	csv := "EJERCICIO,SEC_EVE\n2024,10500\n"

	_, modo, err := ParseCSV(strings.NewReader(csv), factores.Defecto)
	require.NoError(t, err)
	assert.Equal(t, ModoMontos, modo)
}

func TestParseCSV_DelimitadorPuntoYComa(t *testing.T) {
	csv := "EJERCICIO;MERCADO_COD;SEC_EVE;F8_MONTO\n2024;ACC;10500;1000\n"

	filas, _, err := ParseCSV(strings.NewReader(csv), factores.Defecto)
	require.NoError(t, err)
	require.Len(t, filas, 1)
	assert.Equal(t, "1000", filas[0].Valores["F8_MONTO"])
}

func TestParseCSV_DelimitadorTabulador(t *testing.T) {
	csv := "EJERCICIO\tSEC_EVE\tF8_MONTO\n2024\t10500\t1000\n"

	filas, _, err := ParseCSV(strings.NewReader(csv), factores.Defecto)
	require.NoError(t, err)
	require.Len(t, filas, 1)
	assert.Equal(t, "2024", filas[0].Ejercicio)
}

func TestParseCSV_BOMEnPrimerEncabezado(t *testing.T) {
	csv := "\ufeffEJERCICIO,SEC_EVE,F8_MONTO\n2024,10500,1\n"

	filas, _, err := ParseCSV(strings.NewReader(csv), factores.Defecto)
	require.NoError(t, err)
	require.Len(t, filas, 1)
	assert.Equal(t, "2024", filas[0].Ejercicio)
}

func TestParseCSV_EncabezadosConAlias(t *testing.T) {
	csv := "EJERCICIO,MERCADO,INSTRUMENTO,SECUENCIA_EVENTO,FECHA_PAGO,F8_MONTO\n" +
		"2024,Acciones,FALABELLA,10700,2024-03-15,500\n"

	filas, _, err := ParseCSV(strings.NewReader(csv), factores.Defecto)
	require.NoError(t, err)
	require.Len(t, filas, 1)

	f := filas[0]
	assert.Equal(t, "Acciones", f.MercadoCod)
	assert.Equal(t, "FALABELLA", f.Nemo)
	assert.Equal(t, "10700", f.SecEve)
	assert.Equal(t, "2024-03-15", f.FechaPago)
}

func TestParseCSV_EncabezadosCaseInsensitive(t *testing.T) {
	csv := "ejercicio,mercado_cod,sec_eve,f8_monto\n2024,ACC,10500,100\n"

	filas, modo, err := ParseCSV(strings.NewReader(csv), factores.Defecto)
	require.NoError(t, err)
	assert.Equal(t, ModoMontos, modo)
	require.Len(t, filas, 1)
	assert.Equal(t, "2024", filas[0].Ejercicio)
	assert.Equal(t, "100", filas[0].Valores["F8_MONTO"])
}

func TestParseCSV_IgnoraFilasVacias(t *testing.T) {
	csv := "EJERCICIO,SEC_EVE,F8_MONTO\n2024,10500,1\n,,\n\n2024,10501,2\n"

	filas, _, err := ParseCSV(strings.NewReader(csv), factores.Defecto)
	require.NoError(t, err)
	assert.Len(t, filas, 2)
}

func TestParseCSV_ColumnaFueraDeRangoSeIgnora(t *testing.T) {
	// F7 y F38 no existen en el rango 8..37
	csv := "EJERCICIO,SEC_EVE,F7_MONTO,F8_MONTO,F38_MONTO\n2024,10500,9,1,9\n"

	filas, _, err := ParseCSV(strings.NewReader(csv), factores.Defecto)
	require.NoError(t, err)
	require.Len(t, filas, 1)

	f := filas[0]
	assert.Equal(t, "1", f.Valores["F8_MONTO"])
	assert.NotContains(t, f.Valores, "F7_MONTO")
	assert.NotContains(t, f.Valores, "F38_MONTO")
}

func TestParseCSV_Windows1252(t *testing.T) {
	// "AÑO" en Windows-1252: Ñ = 0xD1
	csv := []byte("EJERCICIO,DESCRIPCION,SEC_EVE,F8_MONTO\n2024,A\xd1O TRIBUTARIO,10500,1\n")

	filas, _, err := ParseCSV(strings.NewReader(string(csv)), factores.Defecto)
	require.NoError(t, err)
	require.Len(t, filas, 1)
	assert.Equal(t, "AÑO TRIBUTARIO", filas[0].Descripcion)
}
