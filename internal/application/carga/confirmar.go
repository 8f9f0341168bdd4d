package carga

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

// Confirmar graba definitivamente el lote retenido bajo el token. El lote
// completo va en una transacción: las filas con problemas de negocio se
// omiten con razón (la transacción sigue), pero un error de infraestructura
// revierte todo. Si alguna fila quedó con pre_error, no se graba nada.
func (u *UseCase) Confirmar(ctx context.Context, token, usuario string) (*dto.ConfirmResponse, error) {
	prev, ok := u.almacen.Obtener(token)
	if !ok {
		return nil, domain.ErrPreviewVencida
	}
	for _, f := range prev.Filas {
		if f.PreError {
			return nil, domain.ErrFilasConError
		}
	}

	defMap, err := u.defRepo.MapActivos(ctx, u.rango.Min, u.rango.Max)
	if err != nil {
		return nil, fmt.Errorf("cargar definiciones de factores: %w", err)
	}
	tipoDefault, err := u.tipoRepo.GetDefault(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar tipo de ingreso por defecto: %w", err)
	}

	if usuario == "" {
		usuario = prev.Usuario
	}

	resumen := &dto.ConfirmResponse{}
	err = u.tx.Run(ctx, func(
		califRepo repository.CalificacionRepository,
		factorRepo repository.FactorValorRepository,
	) error {
		for i, f := range prev.Filas {
			nFila := i + 1

			mercado, err := u.mercadoRepo.GetByCodigoONombre(ctx, f.MercadoCod)
			if err != nil {
				return fmt.Errorf("fila %d: resolver mercado: %w", nFila, err)
			}
			if mercado == nil {
				resumen.Omitidos++
				resumen.Razones = append(resumen.Razones,
					fmt.Sprintf("Fila %d: mercado no encontrado (%s).", nFila, f.MercadoCod))
				continue
			}

			tipoID := tipoDefault.ID
			if id := factores.ParseEntero(f.TipoIngresoID, 0); id > 0 {
				if t, err := u.tipoRepo.GetByID(ctx, id); err == nil && t != nil {
					tipoID = t.ID
				}
			}

			cab := &entity.Calificacion{
				MercadoID:           mercado.ID,
				InstrumentoText:     f.Nemo,
				TipoIngresoID:       tipoID,
				Descripcion:         f.Descripcion,
				FechaPago:           parseFechaISO(f.FechaPago),
				Ejercicio:           factores.ParseEntero(f.Ejercicio, 0),
				SecuenciaEvento:     factores.ParseEntero(f.SecEve, 0),
				ValorHistorico:      factores.ParseDecimal(f.ValorHistorico, decimal.Zero),
				FactorActualizacion: factores.ParseDecimal(f.FactorActualizacion, decimal.Zero),
				Usuario:             usuario,
			}
			if prev.ArchivoFuenteID > 0 {
				id := prev.ArchivoFuenteID
				cab.ArchivoFuenteID = &id
			}

			res, err := califRepo.UpsertPorLlaveNatural(ctx, cab)
			if err != nil {
				return fmt.Errorf("fila %d: grabar calificación: %w", nFila, err)
			}

			if prev.Modo == ModoMontos {
				montos := f.Montos(u.rango)
				der := u.rango.DerivarDesdeMontos(montos)
				if !der.TotalBase.IsPositive() {
					resumen.Omitidos++
					resumen.Razones = append(resumen.Razones,
						fmt.Sprintf("Fila %d: total 8..19 = 0; no se pueden calcular factores.", nFila))
					continue
				}
				if err := grabarFactores(ctx, factorRepo, u.rango, res.Calificacion.ID, der.Factores, montos, defMap); err != nil {
					return fmt.Errorf("fila %d: grabar factores: %w", nFila, err)
				}
			} else {
				entrada := f.Factores(u.rango)
				vals, suma, err := u.rango.ValidarFactores(entrada)
				if err != nil {
					resumen.Omitidos++
					resumen.Razones = append(resumen.Razones,
						fmt.Sprintf("Fila %d: %v", nFila, err))
					continue
				}
				if suma.GreaterThan(factores.SumaMaxima) {
					resumen.Omitidos++
					resumen.Razones = append(resumen.Razones,
						fmt.Sprintf("Fila %d: suma 8..19 = %s > 1.0", nFila, suma.String()))
					continue
				}
				if err := grabarFactores(ctx, factorRepo, u.rango, res.Calificacion.ID, vals, nil, defMap); err != nil {
					return fmt.Errorf("fila %d: grabar factores: %w", nFila, err)
				}
			}

			if res.Creada {
				resumen.Creados++
			} else {
				resumen.Actualizados++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.almacen.Eliminar(token)

	u.log.Info().
		Str("archivo", prev.NombreArchivo).
		Int("creados", resumen.Creados).
		Int("actualizados", resumen.Actualizados).
		Int("omitidos", resumen.Omitidos).
		Msg("lote confirmado")

	return resumen, nil
}

// grabarFactores materializa las 30 posiciones. El monto base acompaña al
// factor solo cuando el lote vino por montos (montos != nil).
func grabarFactores(
	ctx context.Context,
	repo repository.FactorValorRepository,
	rango factores.Rango,
	calificacionID int,
	valores map[int]decimal.Decimal,
	montos map[int]decimal.Decimal,
	defMap map[int]*entity.FactorDef,
) error {
	for _, pos := range rango.Posiciones() {
		fv := &entity.FactorValor{
			CalificacionID: calificacionID,
			Posicion:       pos,
			Valor:          valores[pos],
		}
		if montos != nil {
			m := montos[pos]
			fv.MontoBase = &m
		}
		if def, ok := defMap[pos]; ok {
			id := def.ID
			fv.FactorDefID = &id
		}
		if err := repo.Upsert(ctx, fv); err != nil {
			return err
		}
	}
	return nil
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
