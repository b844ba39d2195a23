package accounting

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
	"github.com/jhoicas/erp-workflow-api/internal/domain/sequence"
)

// SequenceGenerator emite números consecutivos por compañía y tipo de documento.
// El bloqueo de la fila se mantiene hasta el commit: quien llame debe hacerlo
// después de tomar los demás bloqueos de la operación.
type SequenceGenerator struct{}

func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{}
}

// NextNumber bloquea (o crea) la secuencia, la incrementa y devuelve el número formateado.
// Si la transacción se revierte el número no se consume.
func (g *SequenceGenerator) NextNumber(ctx context.Context, r repository.Repos, companyID string, docType entity.DocumentType) (string, error) {
	seq, err := r.Sequences.LockOrCreate(ctx, sequence.DefaultFor(companyID, docType))
	if err != nil {
		return "", fmt.Errorf("bloquear secuencia %s: %w", docType, err)
	}
	n, err := r.Sequences.Advance(ctx, companyID, docType)
	if err != nil {
		return "", fmt.Errorf("avanzar secuencia %s: %w", docType, err)
	}
	return sequence.Format(*seq, n), nil
}
