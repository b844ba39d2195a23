package postgres

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/erp-workflow-api/internal/application/workflow"
	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
	"github.com/jhoicas/erp-workflow-api/pkg/config"
)

var _ workflow.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED
// más bloqueos de fila explícitos). Reintenta fn ante deadlock, fallo de serialización
// o timeout de bloqueo, hasta MaxRetries veces con backoff exponencial.
type TxRunner struct {
	pool *pgxpool.Pool
	cfg  config.WorkflowConfig
	log  zerolog.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, cfg config.WorkflowConfig, log zerolog.Logger) *TxRunner {
	return &TxRunner{pool: pool, cfg: cfg, log: log.With().Str("component", "tx_runner").Logger()}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	var err error
	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if werr := r.wait(ctx, attempt); werr != nil {
				return err
			}
		}
		err = r.runOnce(ctx, fn)
		if err == nil || !domain.IsRetryable(err) {
			return err
		}
		r.log.Debug().Err(err).Int("attempt", attempt+1).Msg("transacción en conflicto")
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	txCtx := ctx
	if r.cfg.TxTimeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, r.cfg.TxTimeout)
		defer cancel()
	}

	tx, err := r.pool.BeginTx(txCtx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return mapError(ctx, fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(txCtx, NewRepos(tx)); err != nil {
		return mapError(ctx, err)
	}
	if err := tx.Commit(txCtx); err != nil {
		return mapError(ctx, fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// wait backoff exponencial con jitter; falla si ctx se cancela antes.
func (r *TxRunner) wait(ctx context.Context, attempt int) error {
	base := r.cfg.RetryBaseDelay
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	delay := base << (attempt - 1)
	delay += time.Duration(rand.Int64N(int64(base)))
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
