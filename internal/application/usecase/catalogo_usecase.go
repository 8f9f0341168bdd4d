package usecase

import (
	"context"

	"github.com/farellanoc/calificaciones-api/internal/application/dto"
	"github.com/farellanoc/calificaciones-api/internal/domain/repository"
)

// CatalogoUseCase expone los catálogos de apoyo del mantenedor.
type CatalogoUseCase struct {
	mercadoRepo repository.MercadoRepository
	tipoRepo    repository.TipoIngresoRepository
	defRepo     repository.FactorDefRepository
}

// NewCatalogoUseCase construye el caso de uso.
func NewCatalogoUseCase(
	mercadoRepo repository.MercadoRepository,
	tipoRepo repository.TipoIngresoRepository,
	defRepo repository.FactorDefRepository,
) *CatalogoUseCase {
	return &CatalogoUseCase{mercadoRepo: mercadoRepo, tipoRepo: tipoRepo, defRepo: defRepo}
}

// Mercados lista el catálogo de mercados.
func (uc *CatalogoUseCase) Mercados(ctx context.Context) ([]dto.MercadoDTO, error) {
	list, err := uc.mercadoRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MercadoDTO, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MercadoDTO{ID: m.ID, Nombre: m.Nombre, Codigo: m.Codigo, Activo: m.Activo})
	}
	return out, nil
}

// TiposIngreso lista el catálogo de tipos de ingreso por prioridad.
func (uc *CatalogoUseCase) TiposIngreso(ctx context.Context) ([]dto.TipoIngresoDTO, error) {
	list, err := uc.tipoRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TipoIngresoDTO, 0, len(list))
	for _, t := range list {
		out = append(out, dto.TipoIngresoDTO{ID: t.ID, Nombre: t.Nombre, Prioridad: t.Prioridad})
	}
	return out, nil
}

// FactorDefs lista las definiciones de factores.
func (uc *CatalogoUseCase) FactorDefs(ctx context.Context) ([]dto.FactorDefDTO, error) {
	list, err := uc.defRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FactorDefDTO, 0, len(list))
	for _, d := range list {
		out = append(out, dto.FactorDefDTO{
			Posicion:    d.Posicion,
			Codigo:      d.Codigo,
			Nombre:      d.Nombre,
			Descripcion: d.Descripcion,
			Activo:      d.Activo,
		})
	}
	return out, nil
}
