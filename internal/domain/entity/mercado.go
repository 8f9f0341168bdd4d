package entity

// Mercado catálogo de mercados (ej.: ACCIONES, CFI, FONDOS MUTUOS).
type Mercado struct {
	ID     int
	Nombre string // único
	Codigo string // código corto opcional, ej. "ACC"
	Activo bool
}

// TipoIngreso catálogo de tipos/fuentes de ingreso para calificaciones.
// La prioridad define la regla de prevalencia (p.ej. Corredor > Bolsa);
// el tipo con menor prioridad es el default para cargas sin tipo declarado.
type TipoIngreso struct {
	ID        int
	Nombre    string
	Prioridad int
}
