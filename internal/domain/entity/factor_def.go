package entity

import "fmt"

// FactorDef definición de un factor tributario (posiciones 8..37).
// El catálogo puede ser parcial: no toda posición tiene definición.
type FactorDef struct {
	ID          int
	Posicion    int // 8..37, único
	Codigo      string
	Nombre      string
	Descripcion string
	Activo      bool
}

// EtiquetaPosicion devuelve el nombre de la definición si existe en el mapa,
// o un rótulo genérico cuando el catálogo no cubre la posición.
func EtiquetaPosicion(defs map[int]*FactorDef, pos int) string {
	if d, ok := defs[pos]; ok && d != nil && d.Nombre != "" {
		return d.Nombre
	}
	return fmt.Sprintf("Posición %d", pos)
}
