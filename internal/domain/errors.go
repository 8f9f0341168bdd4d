package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrFormatoNoSoportado = errors.New("formato de archivo no soportado")
	ErrSinFilas           = errors.New("el archivo no produjo filas válidas")
	ErrPreviewVencida     = errors.New("no hay vista previa vigente")
	ErrFilasConError      = errors.New("existen registros con errores en la validación")
	ErrLimiteFilas        = errors.New("el archivo excede el máximo de filas permitido")
)
