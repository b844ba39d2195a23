package workflow

import (
	"context"

	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una única transacción, con todos los repositorios
// atados a ella. Commit si fn devuelve nil; rollback en cualquier otro caso.
// Las implementaciones pueden reintentar fn ante conflictos de concurrencia,
// por eso fn no debe tener efectos fuera de r.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, r repository.Repos) error) error
}
