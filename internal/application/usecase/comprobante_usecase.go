package usecase

import (
	"context"

	"github.com/farellanoc/calificaciones-api/internal/application/dto"
)

// GeneradorComprobante renderiza el comprobante de una calificación.
type GeneradorComprobante interface {
	Generar(det *dto.CalificacionDetalleDTO) ([]byte, error)
}

// ComprobanteUseCase produce el comprobante PDF de una calificación con su
// detalle de factores.
type ComprobanteUseCase struct {
	calif     *CalificacionUseCase
	generador GeneradorComprobante
}

// NewComprobanteUseCase construye el caso de uso.
func NewComprobanteUseCase(calif *CalificacionUseCase, generador GeneradorComprobante) *ComprobanteUseCase {
	return &ComprobanteUseCase{calif: calif, generador: generador}
}

// Generar devuelve los bytes del PDF del comprobante.
func (uc *ComprobanteUseCase) Generar(ctx context.Context, id int) ([]byte, error) {
	det, err := uc.calif.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.generador.Generar(det)
}
