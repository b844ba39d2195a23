package idempotency

import (
	"context"
	"time"

	"github.com/jhoicas/erp-workflow-api/pkg/config"
	"github.com/jhoicas/erp-workflow-api/pkg/logger"
)

// Response respuesta HTTP guardada para una clave ya procesada.
type Response struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// Store reserva claves de idempotencia y guarda la respuesta de la primera ejecución.
//
// Flujo: Reserve -> (operación) -> Save o Release. Mientras la clave está reservada
// sin respuesta, Get devuelve (nil, true): otra petición con la misma clave está en curso.
type Store interface {
	// Reserve marca la clave como en curso. false si ya existía (en curso o terminada).
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Get devuelve la respuesta guardada. found=false si la clave no existe o expiró.
	Get(ctx context.Context, key string) (resp *Response, found bool, err error)
	// Save guarda la respuesta final de la clave.
	Save(ctx context.Context, key string, resp Response, ttl time.Duration) error
	// Release libera una reserva cuya operación falló, para permitir el reintento.
	Release(ctx context.Context, key string) error
	Close() error
}

// New elige Redis si hay REDIS_ADDR; si no, el almacén en memoria del proceso.
func New(cfg config.RedisConfig, log *logger.Logger) (Store, error) {
	if cfg.Addr == "" {
		log.Info().Msg("idempotencia: almacén en memoria")
		return NewMemoryStore(), nil
	}
	s, err := NewRedisStore(cfg.Addr, cfg.Password, cfg.DB, "erp:idem:")
	if err != nil {
		return nil, err
	}
	log.Info().Str("addr", cfg.Addr).Msg("idempotencia: redis")
	return s, nil
}
