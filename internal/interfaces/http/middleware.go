package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/farellanoc/calificaciones-api/pkg/logger"
)

const usuarioAnonimo = "anonimo"

// GetUsuario devuelve el actor de la petición desde el header X-Usuario.
// La atribución de quién cargó o editó viene del perímetro (proxy/SSO);
// este servicio solo la registra.
func GetUsuario(c *fiber.Ctx) string {
	if u := c.Get("X-Usuario"); u != "" {
		return u
	}
	return usuarioAnonimo
}

// RequestLogger registra cada petición con método, ruta, status y duración.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		inicio := time.Now()
		err := c.Next()

		ev := log.Info()
		if err != nil || c.Response().StatusCode() >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(inicio)).
			Str("usuario", GetUsuario(c)).
			Msg("request")
		return err
	}
}
