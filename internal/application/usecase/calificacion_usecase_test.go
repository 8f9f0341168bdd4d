package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farellanoc/calificaciones-api/internal/application/dto"
	"github.com/farellanoc/calificaciones-api/internal/domain"
	"github.com/farellanoc/calificaciones-api/internal/domain/entity"
	"github.com/farellanoc/calificaciones-api/internal/domain/factores"
	"github.com/farellanoc/calificaciones-api/internal/domain/repository"
)

// Dobles mínimos en memoria para el mantenedor.

type memStore struct {
	seq      int
	porID    map[int]*entity.Calificacion
	factores map[string]*entity.FactorValor
}

func newMemStore() *memStore {
	return &memStore{
		porID:    make(map[int]*entity.Calificacion),
		factores: make(map[string]*entity.FactorValor),
	}
}

func (s *memStore) List(_ context.Context, f repository.CalificacionFilter) ([]*entity.Calificacion, int, error) {
	var out []*entity.Calificacion
	for _, c := range s.porID {
		if f.Ejercicio > 0 && c.Ejercicio != f.Ejercicio {
			continue
		}
		out = append(out, c)
	}
	return out, len(out), nil
}

func (s *memStore) GetByID(_ context.Context, id int) (*entity.Calificacion, error) {
	return s.porID[id], nil
}

func (s *memStore) ExisteLlaveNatural(_ context.Context, ejercicio, secEve int) (bool, error) {
	for _, c := range s.porID {
		if c.Ejercicio == ejercicio && c.SecuenciaEvento == secEve {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) UpsertPorLlaveNatural(_ context.Context, c *entity.Calificacion) (repository.UpsertResultado, error) {
	for _, prev := range s.porID {
		if prev.Ejercicio == c.Ejercicio && prev.SecuenciaEvento == c.SecuenciaEvento {
			c.ID = prev.ID
			s.porID[c.ID] = c
			return repository.UpsertResultado{Calificacion: c, Creada: false}, nil
		}
	}
	s.seq++
	c.ID = s.seq
	s.porID[c.ID] = c
	return repository.UpsertResultado{Calificacion: c, Creada: true}, nil
}

func (s *memStore) Update(_ context.Context, c *entity.Calificacion) error {
	if _, ok := s.porID[c.ID]; !ok {
		return domain.ErrNotFound
	}
	s.porID[c.ID] = c
	return nil
}

func (s *memStore) DeleteByIDs(_ context.Context, ids []int) (int, error) {
	n := 0
	for _, id := range ids {
		if _, ok := s.porID[id]; ok {
			delete(s.porID, id)
			n++
		}
	}
	return n, nil
}

func (s *memStore) ListByCalificacion(_ context.Context, califID int) ([]*entity.FactorValor, error) {
	var out []*entity.FactorValor
	for _, pos := range factores.Defecto.Posiciones() {
		if fv, ok := s.factores[fmt.Sprintf("%d|%d", califID, pos)]; ok {
			out = append(out, fv)
		}
	}
	return out, nil
}

func (s *memStore) Upsert(_ context.Context, fv *entity.FactorValor) error {
	s.factores[fmt.Sprintf("%d|%d", fv.CalificacionID, fv.Posicion)] = fv
	return nil
}

type catalogoFake struct{}

func (catalogoFake) List(context.Context) ([]*entity.Mercado, error) {
	return []*entity.Mercado{{ID: 1, Nombre: "Acciones", Codigo: "ACC", Activo: true}}, nil
}

func (catalogoFake) GetByCodigoONombre(_ context.Context, cod string) (*entity.Mercado, error) {
	if cod == "ACC" || cod == "Acciones" {
		return &entity.Mercado{ID: 1, Nombre: "Acciones", Codigo: "ACC", Activo: true}, nil
	}
	return nil, nil
}

type tiposFake struct{}

func (tiposFake) List(context.Context) ([]*entity.TipoIngreso, error) {
	return []*entity.TipoIngreso{{ID: 1, Nombre: "Dividendo definitivo", Prioridad: 1}}, nil
}

func (tiposFake) GetByID(_ context.Context, id int) (*entity.TipoIngreso, error) {
	if id == 1 {
		return &entity.TipoIngreso{ID: 1, Nombre: "Dividendo definitivo", Prioridad: 1}, nil
	}
	return nil, nil
}

func (tiposFake) GetDefault(context.Context) (*entity.TipoIngreso, error) {
	return &entity.TipoIngreso{ID: 1, Nombre: "Dividendo definitivo", Prioridad: 1}, nil
}

type defsFake struct{}

func (defsFake) List(context.Context) ([]*entity.FactorDef, error) {
	return []*entity.FactorDef{{ID: 1, Posicion: 8, Codigo: "F8", Nombre: "Rentas afectas", Activo: true}}, nil
}

func (defsFake) MapActivos(context.Context, int, int) (map[int]*entity.FactorDef, error) {
	return map[int]*entity.FactorDef{
		8: {ID: 1, Posicion: 8, Codigo: "F8", Nombre: "Rentas afectas", Activo: true},
	}, nil
}

func nuevoMantenedorTest() (*CalificacionUseCase, *memStore) {
	store := newMemStore()
	uc := NewCalificacionUseCase(factores.Defecto, store, store, catalogoFake{}, tiposFake{}, defsFake{})
	return uc, store
}

func requestBase() dto.GuardarCalificacionRequest {
	return dto.GuardarCalificacionRequest{
		Ejercicio:       2024,
		SecuenciaEvento: 10500,
		MercadoCod:      "ACC",
		Instrumento:     "COPEC",
		TipoIngresoID:   1,
		Descripcion:     "Dividendo definitivo marzo",
		FechaPago:       "2024-03-15",
	}
}

func TestCrear_DerivaFactoresDesdeMontos(t *testing.T) {
	uc, _ := nuevoMantenedorTest()

	in := requestBase()
	in.Montos = map[int]decimal.Decimal{
		8: decimal.NewFromInt(300),
		9: decimal.NewFromInt(700),
	}
	out, err := uc.Crear(context.Background(), in, "fsoto")
	require.NoError(t, err)
	require.Len(t, out.Factores, 30)

	assert.Equal(t, "Rentas afectas", out.Factores[0].Etiqueta)
	assert.Equal(t, "Posición 9", out.Factores[1].Etiqueta)
	assert.True(t, out.Factores[0].Valor.Equal(decimal.RequireFromString("0.3")))
	assert.True(t, out.Factores[1].Valor.Equal(decimal.RequireFromString("0.7")))
	assert.Equal(t, "1", out.Suma819)
}

func TestCrear_RechazaLlaveNaturalDuplicada(t *testing.T) {
	uc, _ := nuevoMantenedorTest()

	in := requestBase()
	in.Factores = map[int]decimal.Decimal{8: decimal.NewFromInt(1)}
	_, err := uc.Crear(context.Background(), in, "fsoto")
	require.NoError(t, err)

	_, err = uc.Crear(context.Background(), in, "fsoto")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCrear_ExigeMontosXorFactores(t *testing.T) {
	uc, _ := nuevoMantenedorTest()
	ctx := context.Background()

	sinNada := requestBase()
	_, err := uc.Crear(ctx, sinNada, "fsoto")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	conAmbos := requestBase()
	conAmbos.Montos = map[int]decimal.Decimal{8: decimal.NewFromInt(1)}
	conAmbos.Factores = map[int]decimal.Decimal{8: decimal.NewFromInt(1)}
	_, err = uc.Crear(ctx, conAmbos, "fsoto")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCrear_RechazaSumaBaseExcedida(t *testing.T) {
	uc, _ := nuevoMantenedorTest()

	in := requestBase()
	in.Factores = map[int]decimal.Decimal{
		8: decimal.RequireFromString("0.6"),
		9: decimal.RequireFromString("0.41"),
	}
	_, err := uc.Crear(context.Background(), in, "fsoto")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCrear_RechazaMontosSinBasePositiva(t *testing.T) {
	uc, _ := nuevoMantenedorTest()

	in := requestBase()
	// montos solo fuera del rango base
	in.Montos = map[int]decimal.Decimal{20: decimal.NewFromInt(500)}
	_, err := uc.Crear(context.Background(), in, "fsoto")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCrear_RechazaSecuenciaBaja(t *testing.T) {
	uc, _ := nuevoMantenedorTest()

	in := requestBase()
	in.SecuenciaEvento = 9999
	in.Factores = map[int]decimal.Decimal{8: decimal.NewFromInt(1)}
	_, err := uc.Crear(context.Background(), in, "fsoto")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestActualizar_NoExiste(t *testing.T) {
	uc, _ := nuevoMantenedorTest()

	in := requestBase()
	in.Factores = map[int]decimal.Decimal{8: decimal.NewFromInt(1)}
	_, err := uc.Actualizar(context.Background(), 99, in, "fsoto")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEliminar(t *testing.T) {
	uc, store := nuevoMantenedorTest()

	in := requestBase()
	in.Factores = map[int]decimal.Decimal{8: decimal.NewFromInt(1)}
	out, err := uc.Crear(context.Background(), in, "fsoto")
	require.NoError(t, err)

	n, err := uc.Eliminar(context.Background(), []int{out.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, store.porID)

	_, err = uc.Eliminar(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
