package dto

// FilaPreviewDTO una fila normalizada con sus anotaciones de pre-validación,
// tal como se muestra en la vista previa.
type FilaPreviewDTO struct {
	Ejercicio        string            `json:"ejercicio"`
	MercadoCod       string            `json:"mercado_cod"`
	Nemo             string            `json:"nemo"`
	FechaPago        string            `json:"fecha_pago"`
	SecEve           string            `json:"sec_eve"`
	Descripcion      string            `json:"descripcion"`
	TipoIngresoID    string            `json:"tipo_ingreso_id"`
	Valores          map[string]string `json:"valores"` // F{n}_MONTO / F{n}_FACTOR
	Status           string            `json:"status"`  // nuevo | actualiza
	FactoresConValor int               `json:"factores_con_valor"`
	Suma819          string            `json:"suma_8_19"`
	PreError         bool              `json:"pre_error"`
	PreWarning       bool              `json:"pre_warning"`
}

// PreviewResponse respuesta del paso de carga/vista previa.
type PreviewResponse struct {
	Token         string           `json:"token"`
	ModoDetectado string           `json:"modo_detectado"` // montos | factores
	ArchivoNombre string           `json:"archivo_nombre"`
	TipoArchivo   string           `json:"tipo_archivo"` // csv | xlsx | pdf
	Total         int              `json:"total"`
	Nuevos        int              `json:"nuevos"`
	Actualiza     int              `json:"actualiza"`
	Validos       int              `json:"validos"`
	Advertencias  int              `json:"advertencias"`
	Errores       int              `json:"errores"`
	PuedeImportar bool             `json:"puede_importar"`
	PrimerasFilas []FilaPreviewDTO `json:"primeras_filas"` // solo un vistazo
}

// ConfirmResponse resumen del grabado definitivo.
type ConfirmResponse struct {
	Creados      int      `json:"creados"`
	Actualizados int      `json:"actualizados"`
	Omitidos     int      `json:"omitidos"`
	Razones      []string `json:"razones,omitempty"` // "Fila N: ..."
}
