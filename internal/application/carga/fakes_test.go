package carga

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/farellanoc/calificaciones-api/internal/domain/entity"
	"github.com/farellanoc/calificaciones-api/internal/domain/repository"
)

// Dobles en memoria para los tests del paquete. Implementan los puertos con
// la semántica mínima que los casos de uso observan.

type existeFake struct {
	llaves map[string]bool
	err    error
}

func (f *existeFake) ExisteLlaveNatural(_ context.Context, ejercicio, secuenciaEvento int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.llaves[fmt.Sprintf("%d|%d", ejercicio, secuenciaEvento)], nil
}

type almacenFake struct {
	mu     sync.Mutex
	datos  map[string]*PreviewGuardada
	ultimo int
}

func newAlmacenFake() *almacenFake {
	return &almacenFake{datos: make(map[string]*PreviewGuardada)}
}

func (a *almacenFake) Guardar(p *PreviewGuardada) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ultimo++
	token := fmt.Sprintf("token-%d", a.ultimo)
	a.datos[token] = p
	return token, nil
}

func (a *almacenFake) Obtener(token string) (*PreviewGuardada, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.datos[token]
	return p, ok
}

func (a *almacenFake) Eliminar(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.datos, token)
}

type califRepoFake struct {
	mu        sync.Mutex
	seq       int
	porLlave  map[string]*entity.Calificacion
	factores  map[string]*entity.FactorValor // "califID|pos"
	failUpser bool
}

func newCalifRepoFake() *califRepoFake {
	return &califRepoFake{
		porLlave: make(map[string]*entity.Calificacion),
		factores: make(map[string]*entity.FactorValor),
	}
}

func llave(ejercicio, secEve int) string { return fmt.Sprintf("%d|%d", ejercicio, secEve) }

func (r *califRepoFake) List(context.Context, repository.CalificacionFilter) ([]*entity.Calificacion, int, error) {
	return nil, 0, nil
}

func (r *califRepoFake) GetByID(_ context.Context, id int) (*entity.Calificacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.porLlave {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *califRepoFake) ExisteLlaveNatural(_ context.Context, ejercicio, secEve int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.porLlave[llave(ejercicio, secEve)]
	return ok, nil
}

func (r *califRepoFake) UpsertPorLlaveNatural(_ context.Context, c *entity.Calificacion) (repository.UpsertResultado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpser {
		return repository.UpsertResultado{}, fmt.Errorf("upsert forzado a fallar")
	}
	k := llave(c.Ejercicio, c.SecuenciaEvento)
	if prev, ok := r.porLlave[k]; ok {
		c.ID = prev.ID
		r.porLlave[k] = c
		return repository.UpsertResultado{Calificacion: c, Creada: false}, nil
	}
	r.seq++
	c.ID = r.seq
	r.porLlave[k] = c
	return repository.UpsertResultado{Calificacion: c, Creada: true}, nil
}

func (r *califRepoFake) Update(_ context.Context, c *entity.Calificacion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.porLlave[llave(c.Ejercicio, c.SecuenciaEvento)] = c
	return nil
}

func (r *califRepoFake) DeleteByIDs(_ context.Context, ids []int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k, c := range r.porLlave {
		for _, id := range ids {
			if c.ID == id {
				delete(r.porLlave, k)
				n++
			}
		}
	}
	return n, nil
}

func (r *califRepoFake) ListByCalificacion(_ context.Context, califID int) ([]*entity.FactorValor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.FactorValor
	for k, fv := range r.factores {
		if strings.HasPrefix(k, fmt.Sprintf("%d|", califID)) {
			out = append(out, fv)
		}
	}
	return out, nil
}

func (r *califRepoFake) Upsert(_ context.Context, fv *entity.FactorValor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factores[fmt.Sprintf("%d|%d", fv.CalificacionID, fv.Posicion)] = fv
	return nil
}

// txRunnerFake pasa los mismos fakes como repos de la "transacción".
type txRunnerFake struct {
	repo *califRepoFake
}

func (t *txRunnerFake) Run(ctx context.Context, fn func(
	repository.CalificacionRepository,
	repository.FactorValorRepository,
) error) error {
	return fn(t.repo, t.repo)
}

type mercadoRepoFake struct {
	porCodigo map[string]*entity.Mercado
}

func (m *mercadoRepoFake) List(context.Context) ([]*entity.Mercado, error) { return nil, nil }

func (m *mercadoRepoFake) GetByCodigoONombre(_ context.Context, cod string) (*entity.Mercado, error) {
	return m.porCodigo[strings.ToUpper(cod)], nil
}

type tipoRepoFake struct{}

func (tipoRepoFake) List(context.Context) ([]*entity.TipoIngreso, error) { return nil, nil }

func (tipoRepoFake) GetByID(_ context.Context, id int) (*entity.TipoIngreso, error) {
	return &entity.TipoIngreso{ID: id, Nombre: fmt.Sprintf("Tipo %d", id)}, nil
}

func (tipoRepoFake) GetDefault(context.Context) (*entity.TipoIngreso, error) {
	return &entity.TipoIngreso{ID: 1, Nombre: "Afecto", Prioridad: 1}, nil
}

type defRepoFake struct{}

func (defRepoFake) List(context.Context) ([]*entity.FactorDef, error) { return nil, nil }

func (defRepoFake) MapActivos(context.Context, int, int) (map[int]*entity.FactorDef, error) {
	return map[int]*entity.FactorDef{
		8: {ID: 1, Posicion: 8, Codigo: "F8", Nombre: "Rentas afectas", Activo: true},
	}, nil
}

type archivoRepoFake struct {
	seq int
	err error
}

func (a *archivoRepoFake) Create(_ context.Context, af *entity.ArchivoFuente) error {
	if a.err != nil {
		return a.err
	}
	a.seq++
	af.ID = a.seq
	return nil
}

func (a *archivoRepoFake) GetByID(_ context.Context, id int) (*entity.ArchivoFuente, error) {
	return &entity.ArchivoFuente{ID: id}, nil
}
