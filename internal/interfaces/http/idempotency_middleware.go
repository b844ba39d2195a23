package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/erp-workflow-api/internal/application/dto"
	"github.com/jhoicas/erp-workflow-api/internal/infrastructure/idempotency"
)

// HeaderIdempotencyKey clave enviada por el cliente para reintentar sin duplicar.
const HeaderIdempotencyKey = "Idempotency-Key"

// Idempotency repite la respuesta guardada cuando llega de nuevo la misma clave
// (por compañía y ruta). Sin header la petición pasa sin cambios.
// Las respuestas 5xx no se guardan: la reserva se libera para permitir el reintento.
func Idempotency(store idempotency.Store, ttl time.Duration, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderIdempotencyKey)
		if key == "" {
			return c.Next()
		}
		if len(key) > 255 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "Idempotency-Key demasiado larga"})
		}
		ctx := c.UserContext()
		scoped := GetCompanyID(c) + ":" + c.Path() + ":" + key

		saved, found, err := store.Get(ctx, scoped)
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("idempotencia: consulta")
			return unavailable(c)
		}
		if found {
			return replay(c, saved)
		}

		reserved, err := store.Reserve(ctx, scoped, ttl)
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("idempotencia: reserva")
			return unavailable(c)
		}
		if !reserved {
			return replay(c, nil)
		}

		if err := c.Next(); err != nil {
			_ = store.Release(ctx, scoped)
			return err
		}
		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			if err := store.Release(ctx, scoped); err != nil {
				log.Error().Err(err).Str("key", key).Msg("idempotencia: liberar")
			}
			return nil
		}
		resp := idempotency.Response{Status: status, Body: append([]byte(nil), c.Response().Body()...)}
		if err := store.Save(ctx, scoped, resp, ttl); err != nil {
			log.Error().Err(err).Str("key", key).Msg("idempotencia: guardar")
		}
		return nil
	}
}

// replay devuelve la respuesta original; nil = la primera petición sigue en curso.
func replay(c *fiber.Ctx, saved *idempotency.Response) error {
	if saved == nil {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_IN_PROGRESS", Message: "petición con la misma clave en curso"})
	}
	c.Set("Idempotent-Replayed", "true")
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(saved.Status).Send(saved.Body)
}

func unavailable(c *fiber.Ctx) error {
	c.Set(fiber.HeaderRetryAfter, "1")
	return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "RETRY", Message: "almacén de idempotencia no disponible"})
}
