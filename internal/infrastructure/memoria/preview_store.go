// Package memoria implementa almacenes en memoria de estado efímero.
package memoria

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/farellanoc/calificaciones-api/internal/application/carga"
)

var _ carga.AlmacenPreview = (*PreviewStore)(nil)

// PreviewStore retiene vistas previas por token con vigencia acotada. Vive en
// el proceso: reiniciar el servicio invalida las previas pendientes, que es
// aceptable porque el cliente simplemente vuelve a subir el archivo.
type PreviewStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	datos map[string]entrada
	ahora func() time.Time
}

type entrada struct {
	preview *carga.PreviewGuardada
	vence   time.Time
}

// NewPreviewStore construye el almacén con la vigencia dada.
func NewPreviewStore(ttl time.Duration) *PreviewStore {
	return &PreviewStore{
		ttl:   ttl,
		datos: make(map[string]entrada),
		ahora: time.Now,
	}
}

// Guardar retiene la vista previa y devuelve su token.
func (s *PreviewStore) Guardar(p *carga.PreviewGuardada) (string, error) {
	token := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgar()
	s.datos[token] = entrada{preview: p, vence: s.ahora().Add(s.ttl)}
	return token, nil
}

// Obtener devuelve la vista previa vigente del token, si existe.
func (s *PreviewStore) Obtener(token string) (*carga.PreviewGuardada, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.datos[token]
	if !ok {
		return nil, false
	}
	if s.ahora().After(e.vence) {
		delete(s.datos, token)
		return nil, false
	}
	return e.preview, true
}

// Eliminar descarta el token (al confirmar o descartar una carga).
func (s *PreviewStore) Eliminar(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.datos, token)
}

// purgar elimina entradas vencidas; se llama con el lock tomado.
func (s *PreviewStore) purgar() {
	ahora := s.ahora()
	for token, e := range s.datos {
		if ahora.After(e.vence) {
			delete(s.datos, token)
		}
	}
}
