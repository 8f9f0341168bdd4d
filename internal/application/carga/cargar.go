package carga

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/farellanoc/calificaciones-api/internal/application/dto"
	"github.com/farellanoc/calificaciones-api/internal/domain"
	"github.com/farellanoc/calificaciones-api/internal/domain/entity"
	"github.com/farellanoc/calificaciones-api/internal/domain/factores"
	"github.com/farellanoc/calificaciones-api/internal/domain/repository"
	"github.com/farellanoc/calificaciones-api/pkg/config"
	"github.com/farellanoc/calificaciones-api/pkg/logger"
)

// cuántas filas se devuelven como vistazo en la respuesta de preview
const filasVistazo = 5

// UseCase orquesta la carga masiva: vista previa (parseo + anotación +
// retención por token) y confirmación (grabado transaccional).
type UseCase struct {
	rango        factores.Rango
	cfg          config.CargaConfig
	lectorXLSX   LectorTabular
	extractorPDF ExtractorTexto
	tabular      *ExtractorTabular
	anotador     *Anotador
	almacen      AlmacenPreview
	archivoRepo  repository.ArchivoFuenteRepository
	mercadoRepo  repository.MercadoRepository
	tipoRepo     repository.TipoIngresoRepository
	defRepo      repository.FactorDefRepository
	tx           TxRunner
	log          *logger.Logger
}

// NewUseCase construye el caso de uso de carga con todas sus dependencias.
func NewUseCase(
	rango factores.Rango,
	cfg config.CargaConfig,
	lectorXLSX LectorTabular,
	extractorPDF ExtractorTexto,
	anotador *Anotador,
	almacen AlmacenPreview,
	archivoRepo repository.ArchivoFuenteRepository,
	mercadoRepo repository.MercadoRepository,
	tipoRepo repository.TipoIngresoRepository,
	defRepo repository.FactorDefRepository,
	tx TxRunner,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		rango:        rango,
		cfg:          cfg,
		lectorXLSX:   lectorXLSX,
		extractorPDF: extractorPDF,
		tabular:      NewExtractorTabular(rango, log),
		anotador:     anotador,
		almacen:      almacen,
		archivoRepo:  archivoRepo,
		mercadoRepo:  mercadoRepo,
		tipoRepo:     tipoRepo,
		defRepo:      defRepo,
		tx:           tx,
		log:          log,
	}
}

// Previsualizar parsea el archivo según su extensión, anota las filas y deja
// el lote retenido bajo un token para la confirmación posterior. El archivo
// completo ya viene en memoria (el handler aplica el límite de tamaño).
func (u *UseCase) Previsualizar(ctx context.Context, nombre string, contenido []byte, usuario string) (*dto.PreviewResponse, error) {
	ext := strings.ToLower(filepath.Ext(nombre))

	var (
		filas []*Fila
		modo  Modo
		tipo  string
		err   error
	)
	switch ext {
	case ".csv":
		tipo = "csv"
		filas, modo, err = ParseCSV(bytes.NewReader(contenido), u.rango)
	case ".xlsx":
		tipo = "xlsx"
		var paginas []Pagina
		paginas, err = u.lectorXLSX.Leer(bytes.NewReader(contenido), int64(len(contenido)))
		if err == nil {
			filas, modo, err = u.tabular.Extraer(paginas)
		}
	case ".pdf":
		tipo = "pdf"
		var texto string
		texto, err = u.extractorPDF.ExtraerTexto(bytes.NewReader(contenido), int64(len(contenido)))
		if err == nil {
			filas, modo, err = ParseCert70(texto, u.rango)
		}
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrFormatoNoSoportado, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("procesar %s: %w", tipo, err)
	}
	if len(filas) == 0 {
		return nil, domain.ErrSinFilas
	}
	if len(filas) > u.cfg.MaxFilas {
		return nil, fmt.Errorf("%w: %d filas (máximo %d)", domain.ErrLimiteFilas, len(filas), u.cfg.MaxFilas)
	}

	u.anotador.Anotar(ctx, filas, modo)

	// evidencia de la carga; su falla no bloquea la vista previa
	archivoFuenteID := 0
	af := &entity.ArchivoFuente{
		NombreArchivo: nombre,
		Ruta:          "calificaciones/" + nombre,
		Usuario:       usuario,
	}
	if err := u.archivoRepo.Create(ctx, af); err != nil {
		u.log.Warn().Err(err).Str("archivo", nombre).Msg("no se pudo registrar archivo fuente")
	} else {
		archivoFuenteID = af.ID
	}

	token, err := u.almacen.Guardar(&PreviewGuardada{
		Filas:           filas,
		Modo:            modo,
		NombreArchivo:   nombre,
		TipoArchivo:     tipo,
		ArchivoFuenteID: archivoFuenteID,
		Usuario:         usuario,
		CreadaEn:        time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("retener vista previa: %w", err)
	}

	resp := &dto.PreviewResponse{
		Token:         token,
		ModoDetectado: string(modo),
		ArchivoNombre: nombre,
		TipoArchivo:   tipo,
		Total:         len(filas),
	}
	for i, f := range filas {
		switch {
		case f.PreError:
			resp.Errores++
		case f.PreWarning:
			resp.Advertencias++
		default:
			resp.Validos++
		}
		if f.Status == StatusActualiza {
			resp.Actualiza++
		} else {
			resp.Nuevos++
		}
		if i < filasVistazo {
			resp.PrimerasFilas = append(resp.PrimerasFilas, filaADTO(f))
		}
	}
	resp.PuedeImportar = resp.Errores == 0

	u.log.Info().
		Str("archivo", nombre).
		Str("modo", string(modo)).
		Int("filas", resp.Total).
		Int("errores", resp.Errores).
		Msg("vista previa generada")

	return resp, nil
}

func filaADTO(f *Fila) dto.FilaPreviewDTO {
	return dto.FilaPreviewDTO{
		Ejercicio:        f.Ejercicio,
		MercadoCod:       f.MercadoCod,
		Nemo:             f.Nemo,
		FechaPago:        f.FechaPago,
		SecEve:           f.SecEve,
		Descripcion:      f.Descripcion,
		TipoIngresoID:    f.TipoIngresoID,
		Valores:          f.Valores,
		Status:           f.Status,
		FactoresConValor: f.FactoresConValor,
		Suma819:          f.Suma819,
		PreError:         f.PreError,
		PreWarning:       f.PreWarning,
	}
}
