package carga

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farellanoc/calificaciones-api/internal/domain"
	"github.com/farellanoc/calificaciones-api/internal/domain/entity"
	"github.com/farellanoc/calificaciones-api/internal/domain/factores"
	"github.com/farellanoc/calificaciones-api/pkg/config"
	"github.com/farellanoc/calificaciones-api/pkg/logger"
)

func nuevoUseCaseTest(t *testing.T) (*UseCase, *califRepoFake, *almacenFake) {
	t.Helper()

	repo := newCalifRepoFake()
	almacen := newAlmacenFake()
	mercados := &mercadoRepoFake{porCodigo: map[string]*entity.Mercado{
		"ACC": {ID: 1, Nombre: "Acciones", Codigo: "ACC", Activo: true},
	}}

	uc := NewUseCase(
		factores.Defecto,
		config.CargaConfig{MaxBytes: 10 << 20, MaxFilas: 100, PreviewTTLMinutos: 30},
		nil, // sin lector XLSX en estos tests
		nil, // sin extractor PDF
		NewAnotador(factores.Defecto, repo),
		almacen,
		&archivoRepoFake{},
		mercados,
		tipoRepoFake{},
		defRepoFake{},
		&txRunnerFake{repo: repo},
		logger.Nop(),
	)
	return uc, repo, almacen
}

const csvMontos = "EJERCICIO,MERCADO_COD,NEMO,SEC_EVE,FEC_PAGO,F8_MONTO,F9_MONTO\n" +
	"2024,ACC,COPEC,10500,2024-03-15,300,700\n"

func TestPrevisualizarYConfirmar_Montos(t *testing.T) {
	uc, repo, _ := nuevoUseCaseTest(t)
	ctx := context.Background()

	prev, err := uc.Previsualizar(ctx, "carga.csv", []byte(csvMontos), "fsoto")
	require.NoError(t, err)
	assert.Equal(t, "montos", prev.ModoDetectado)
	assert.Equal(t, 1, prev.Total)
	assert.Equal(t, 1, prev.Nuevos)
	assert.True(t, prev.PuedeImportar)
	require.Len(t, prev.PrimerasFilas, 1)
	assert.Equal(t, "nuevo", prev.PrimerasFilas[0].Status)

	res, err := uc.Confirmar(ctx, prev.Token, "fsoto")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Creados)
	assert.Equal(t, 0, res.Actualizados)
	assert.Equal(t, 0, res.Omitidos)

	c := repo.porLlave[llave(2024, 10500)]
	require.NotNil(t, c)
	assert.Equal(t, "COPEC", c.InstrumentoText)
	assert.Equal(t, "fsoto", c.Usuario)
	require.NotNil(t, c.FechaPago)
	assert.Equal(t, "2024-03-15", c.FechaPago.Format("2006-01-02"))

	// factores derivados proporcionalmente y las 30 posiciones presentes
	fvs, err := repo.ListByCalificacion(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, fvs, 30)

	porPos := make(map[int]*entity.FactorValor, len(fvs))
	for _, fv := range fvs {
		porPos[fv.Posicion] = fv
	}
	assert.True(t, porPos[8].Valor.Equal(decimal.RequireFromString("0.3")))
	assert.True(t, porPos[9].Valor.Equal(decimal.RequireFromString("0.7")))
	assert.True(t, porPos[10].Valor.IsZero())
	require.NotNil(t, porPos[8].MontoBase)
	assert.True(t, porPos[8].MontoBase.Equal(decimal.RequireFromString("300")))
	require.NotNil(t, porPos[8].FactorDefID)
	assert.Nil(t, porPos[9].FactorDefID, "posición sin definición en el catálogo")
}

func TestConfirmar_EsIdempotentePorLlaveNatural(t *testing.T) {
	uc, repo, _ := nuevoUseCaseTest(t)
	ctx := context.Background()

	prev1, err := uc.Previsualizar(ctx, "carga.csv", []byte(csvMontos), "fsoto")
	require.NoError(t, err)
	_, err = uc.Confirmar(ctx, prev1.Token, "fsoto")
	require.NoError(t, err)

	// reimportar el mismo archivo actualiza en vez de duplicar
	prev2, err := uc.Previsualizar(ctx, "carga.csv", []byte(csvMontos), "fsoto")
	require.NoError(t, err)
	assert.Equal(t, 1, prev2.Actualiza)
	assert.Equal(t, 0, prev2.Nuevos)

	res, err := uc.Confirmar(ctx, prev2.Token, "fsoto")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Creados)
	assert.Equal(t, 1, res.Actualizados)
	assert.Len(t, repo.porLlave, 1)
}

func TestConfirmar_TokenDesconocido(t *testing.T) {
	uc, _, _ := nuevoUseCaseTest(t)

	_, err := uc.Confirmar(context.Background(), "token-inexistente", "fsoto")
	assert.ErrorIs(t, err, domain.ErrPreviewVencida)
}

func TestConfirmar_TokenSeConsumeAlGrabar(t *testing.T) {
	uc, _, _ := nuevoUseCaseTest(t)
	ctx := context.Background()

	prev, err := uc.Previsualizar(ctx, "carga.csv", []byte(csvMontos), "fsoto")
	require.NoError(t, err)

	_, err = uc.Confirmar(ctx, prev.Token, "fsoto")
	require.NoError(t, err)

	_, err = uc.Confirmar(ctx, prev.Token, "fsoto")
	assert.ErrorIs(t, err, domain.ErrPreviewVencida)
}

func TestConfirmar_RechazaLoteConErrores(t *testing.T) {
	uc, repo, _ := nuevoUseCaseTest(t)
	ctx := context.Background()

	// base completa en cero: pre_error en la vista previa
	csv := "EJERCICIO,MERCADO_COD,SEC_EVE,F8_MONTO\n2024,ACC,10500,0\n"
	prev, err := uc.Previsualizar(ctx, "carga.csv", []byte(csv), "fsoto")
	require.NoError(t, err)
	assert.False(t, prev.PuedeImportar)
	assert.Equal(t, 1, prev.Errores)

	_, err = uc.Confirmar(ctx, prev.Token, "fsoto")
	assert.ErrorIs(t, err, domain.ErrFilasConError)
	assert.Empty(t, repo.porLlave, "nada se graba si hay errores")
}

func TestConfirmar_OmiteFilaConMercadoDesconocido(t *testing.T) {
	uc, repo, _ := nuevoUseCaseTest(t)
	ctx := context.Background()

	csv := "EJERCICIO,MERCADO_COD,SEC_EVE,F8_MONTO\n" +
		"2024,XXX,10500,100\n" +
		"2024,ACC,10501,100\n"
	prev, err := uc.Previsualizar(ctx, "carga.csv", []byte(csv), "fsoto")
	require.NoError(t, err)
	require.True(t, prev.PuedeImportar)

	res, err := uc.Confirmar(ctx, prev.Token, "fsoto")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Creados)
	assert.Equal(t, 1, res.Omitidos)
	require.Len(t, res.Razones, 1)
	assert.Contains(t, res.Razones[0], "Fila 1")
	assert.Contains(t, res.Razones[0], "mercado no encontrado")
	assert.Len(t, repo.porLlave, 1)
}

func TestConfirmar_ModoFactoresGrabaTalCual(t *testing.T) {
	uc, repo, _ := nuevoUseCaseTest(t)
	ctx := context.Background()

	csv := "EJERCICIO,MERCADO_COD,SEC_EVE,F8_FACTOR,F20_FACTOR\n" +
		"2024,ACC,10500,0.75,0.10\n"
	prev, err := uc.Previsualizar(ctx, "factores.csv", []byte(csv), "fsoto")
	require.NoError(t, err)
	assert.Equal(t, "factores", prev.ModoDetectado)

	res, err := uc.Confirmar(ctx, prev.Token, "fsoto")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Creados)

	c := repo.porLlave[llave(2024, 10500)]
	require.NotNil(t, c)
	fvs, err := repo.ListByCalificacion(ctx, c.ID)
	require.NoError(t, err)

	porPos := make(map[int]*entity.FactorValor, len(fvs))
	for _, fv := range fvs {
		porPos[fv.Posicion] = fv
	}
	assert.True(t, porPos[8].Valor.Equal(decimal.RequireFromString("0.75")))
	assert.True(t, porPos[20].Valor.Equal(decimal.RequireFromString("0.1")))
	assert.Nil(t, porPos[8].MontoBase, "en modo factores no hay monto base")
}

func TestPrevisualizar_FormatoNoSoportado(t *testing.T) {
	uc, _, _ := nuevoUseCaseTest(t)

	_, err := uc.Previsualizar(context.Background(), "datos.txt", []byte("x"), "fsoto")
	assert.ErrorIs(t, err, domain.ErrFormatoNoSoportado)
}

func TestPrevisualizar_ArchivoSinFilas(t *testing.T) {
	uc, _, _ := nuevoUseCaseTest(t)

	csv := "EJERCICIO,SEC_EVE,F8_MONTO\n"
	_, err := uc.Previsualizar(context.Background(), "vacio.csv", []byte(csv), "fsoto")
	assert.ErrorIs(t, err, domain.ErrSinFilas)
}

func TestPrevisualizar_ExcedeLimiteDeFilas(t *testing.T) {
	uc, _, _ := nuevoUseCaseTest(t)

	var sb strings.Builder
	sb.WriteString("EJERCICIO,MERCADO_COD,SEC_EVE,F8_MONTO\n")
	for i := 0; i < 101; i++ {
		sb.WriteString("2024,ACC,10500,100\n")
	}
	_, err := uc.Previsualizar(context.Background(), "grande.csv", []byte(sb.String()), "fsoto")
	assert.ErrorIs(t, err, domain.ErrLimiteFilas)
}
