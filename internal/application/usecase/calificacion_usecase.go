package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farellanoc/calificaciones-api/internal/application/dto"
	"github.com/farellanoc/calificaciones-api/internal/domain"
	"github.com/farellanoc/calificaciones-api/internal/domain/entity"
	"github.com/farellanoc/calificaciones-api/internal/domain/factores"
	"github.com/farellanoc/calificaciones-api/internal/domain/repository"
)

// CalificacionUseCase mantenedor de calificaciones: listado, detalle y
// edición manual registro a registro.
type CalificacionUseCase struct {
	rango       factores.Rango
	califRepo   repository.CalificacionRepository
	factorRepo  repository.FactorValorRepository
	mercadoRepo repository.MercadoRepository
	tipoRepo    repository.TipoIngresoRepository
	defRepo     repository.FactorDefRepository
}

// NewCalificacionUseCase construye el caso de uso.
func NewCalificacionUseCase(
	rango factores.Rango,
	califRepo repository.CalificacionRepository,
	factorRepo repository.FactorValorRepository,
	mercadoRepo repository.MercadoRepository,
	tipoRepo repository.TipoIngresoRepository,
	defRepo repository.FactorDefRepository,
) *CalificacionUseCase {
	return &CalificacionUseCase{
		rango:       rango,
		califRepo:   califRepo,
		factorRepo:  factorRepo,
		mercadoRepo: mercadoRepo,
		tipoRepo:    tipoRepo,
		defRepo:     defRepo,
	}
}

// List devuelve una página del listado con los filtros del mantenedor.
func (uc *CalificacionUseCase) List(ctx context.Context, f repository.CalificacionFilter) (*dto.CalificacionListResponse, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	califs, total, err := uc.califRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	mercados, err := uc.mapaMercados(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CalificacionResumenDTO, 0, len(califs))
	for _, c := range califs {
		items = append(items, resumenDTO(c, mercados))
	}
	return &dto.CalificacionListResponse{
		Items:        items,
		PageResponse: dto.PageResponse{Total: total, Limit: f.Limit, Offset: f.Offset},
	}, nil
}

// Detail devuelve la cabecera con sus 30 factores etiquetados.
func (uc *CalificacionUseCase) Detail(ctx context.Context, id int) (*dto.CalificacionDetalleDTO, error) {
	c, err := uc.califRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}

	fvs, err := uc.factorRepo.ListByCalificacion(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	defs, err := uc.defRepo.MapActivos(ctx, uc.rango.Min, uc.rango.Max)
	if err != nil {
		return nil, err
	}
	mercados, err := uc.mapaMercados(ctx)
	if err != nil {
		return nil, err
	}

	porPos := make(map[int]*entity.FactorValor, len(fvs))
	for _, fv := range fvs {
		porPos[fv.Posicion] = fv
	}

	det := &dto.CalificacionDetalleDTO{
		CalificacionResumenDTO: resumenDTO(c, mercados),
		Dividendo:              c.Dividendo,
		ValorHistorico:         c.ValorHistorico,
		FactorActualizacion:    c.FactorActualizacion,
		Isfut:                  c.Isfut,
	}
	if tipo, err := uc.tipoRepo.GetByID(ctx, c.TipoIngresoID); err == nil && tipo != nil {
		det.TipoIngreso = tipo.Nombre
	}

	suma := decimal.Zero
	for _, pos := range uc.rango.Posiciones() {
		fd := dto.FactorDetalleDTO{
			Posicion: pos,
			Etiqueta: entity.EtiquetaPosicion(defs, pos),
			Valor:    decimal.Zero,
		}
		if fv, ok := porPos[pos]; ok {
			fd.Valor = fv.Valor
			fd.MontoBase = fv.MontoBase
		}
		if uc.rango.EsBase(pos) {
			suma = suma.Add(fd.Valor)
		}
		det.Factores = append(det.Factores, fd)
	}
	det.Suma819 = suma.String()

	return det, nil
}

// Crear crea una calificación manual. La llave natural no puede existir ya;
// para modificar una existente se usa Actualizar.
func (uc *CalificacionUseCase) Crear(ctx context.Context, in dto.GuardarCalificacionRequest, usuario string) (*dto.CalificacionDetalleDTO, error) {
	existe, err := uc.califRepo.ExisteLlaveNatural(ctx, in.Ejercicio, in.SecuenciaEvento)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, fmt.Errorf("%w: ya existe la calificación %d/%d",
			domain.ErrDuplicate, in.Ejercicio, in.SecuenciaEvento)
	}
	return uc.guardar(ctx, 0, in, usuario)
}

// Actualizar reemplaza cabecera y factores de una calificación existente.
func (uc *CalificacionUseCase) Actualizar(ctx context.Context, id int, in dto.GuardarCalificacionRequest, usuario string) (*dto.CalificacionDetalleDTO, error) {
	c, err := uc.califRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return uc.guardar(ctx, id, in, usuario)
}

func (uc *CalificacionUseCase) guardar(ctx context.Context, id int, in dto.GuardarCalificacionRequest, usuario string) (*dto.CalificacionDetalleDTO, error) {
	if err := validarGuardar(in); err != nil {
		return nil, err
	}

	mercado, err := uc.mercadoRepo.GetByCodigoONombre(ctx, in.MercadoCod)
	if err != nil {
		return nil, err
	}
	if mercado == nil {
		return nil, fmt.Errorf("%w: mercado %q no existe", domain.ErrInvalidInput, in.MercadoCod)
	}
	tipo, err := uc.tipoRepo.GetByID(ctx, in.TipoIngresoID)
	if err != nil || tipo == nil {
		return nil, fmt.Errorf("%w: tipo de ingreso %d no existe", domain.ErrInvalidInput, in.TipoIngresoID)
	}

	// derivar o validar según la representación que vino
	var (
		valores map[int]decimal.Decimal
		montos  map[int]decimal.Decimal
	)
	if in.Montos != nil {
		if !uc.rango.AlgunaBasePositiva(in.Montos) {
			return nil, fmt.Errorf("%w: se requiere al menos un monto base positivo", domain.ErrInvalidInput)
		}
		der := uc.rango.DerivarDesdeMontos(in.Montos)
		valores = der.Factores
		montos = in.Montos
	} else {
		vals, suma, err := uc.rango.ValidarFactores(in.Factores)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		if suma.GreaterThan(factores.SumaMaxima) {
			return nil, fmt.Errorf("%w: suma 8..19 = %s > 1", domain.ErrInvalidInput, suma)
		}
		valores = vals
	}

	c := &entity.Calificacion{
		ID:                  id,
		MercadoID:           mercado.ID,
		InstrumentoText:     in.Instrumento,
		TipoIngresoID:       tipo.ID,
		Descripcion:         in.Descripcion,
		FechaPago:           parseFechaISO(in.FechaPago),
		Ejercicio:           in.Ejercicio,
		SecuenciaEvento:     in.SecuenciaEvento,
		Dividendo:           in.Dividendo,
		ValorHistorico:      in.ValorHistorico,
		FactorActualizacion: in.FactorActualizacion,
		Isfut:               in.Isfut,
		Usuario:             usuario,
	}

	if id == 0 {
		res, err := uc.califRepo.UpsertPorLlaveNatural(ctx, c)
		if err != nil {
			return nil, err
		}
		c = res.Calificacion
	} else {
		if err := uc.califRepo.Update(ctx, c); err != nil {
			return nil, err
		}
	}

	defs, err := uc.defRepo.MapActivos(ctx, uc.rango.Min, uc.rango.Max)
	if err != nil {
		return nil, err
	}
	for _, pos := range uc.rango.Posiciones() {
		fv := &entity.FactorValor{
			CalificacionID: c.ID,
			Posicion:       pos,
			Valor:          valores[pos],
		}
		if montos != nil {
			m := montos[pos]
			fv.MontoBase = &m
		}
		if def, ok := defs[pos]; ok {
			defID := def.ID
			fv.FactorDefID = &defID
		}
		if err := uc.factorRepo.Upsert(ctx, fv); err != nil {
			return nil, err
		}
	}

	return uc.Detail(ctx, c.ID)
}

// Eliminar borra calificaciones por ID (el detalle cae en cascada).
func (uc *CalificacionUseCase) Eliminar(ctx context.Context, ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: sin IDs", domain.ErrInvalidInput)
	}
	return uc.califRepo.DeleteByIDs(ctx, ids)
}

func validarGuardar(in dto.GuardarCalificacionRequest) error {
	if in.Ejercicio < 1900 || in.Ejercicio > 2200 {
		return fmt.Errorf("%w: ejercicio %d fuera de rango", domain.ErrInvalidInput, in.Ejercicio)
	}
	if in.SecuenciaEvento < entity.SecuenciaMinima {
		return fmt.Errorf("%w: la secuencia de evento debe ser mayor a %d",
			domain.ErrInvalidInput, entity.SecuenciaMinima-1)
	}
	if (in.Montos == nil) == (in.Factores == nil) {
		return fmt.Errorf("%w: debe venir exactamente uno de montos o factores", domain.ErrInvalidInput)
	}
	return nil
}

func resumenDTO(c *entity.Calificacion, mercados map[int]*entity.Mercado) dto.CalificacionResumenDTO {
	out := dto.CalificacionResumenDTO{
		ID:              c.ID,
		Ejercicio:       c.Ejercicio,
		SecuenciaEvento: c.SecuenciaEvento,
		Instrumento:     c.InstrumentoText,
		Descripcion:     c.Descripcion,
		Usuario:         c.Usuario,
	}
	if m, ok := mercados[c.MercadoID]; ok {
		out.Mercado = m.Nombre
	}
	if c.FechaPago != nil {
		out.FechaPago = c.FechaPago.Format("2006-01-02")
	}
	return out
}

func (uc *CalificacionUseCase) mapaMercados(ctx context.Context) (map[int]*entity.Mercado, error) {
	list, err := uc.mercadoRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[int]*entity.Mercado, len(list))
	for _, m := range list {
		out[m.ID] = m
	}
	return out, nil
}

func parseFechaISO(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
