package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/erp-workflow-api/internal/domain"
)

// Códigos SQLSTATE que el runner traduce a errores de dominio.
const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014"
	codeInvalidTextRepr      = "22P02"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// mapError traduce errores de PostgreSQL a errores de dominio.
// parent es el contexto del llamador: si ya se canceló, el error sale tal cual.
func mapError(parent context.Context, err error) error {
	if err == nil || domain.IsBusiness(err) || domain.IsRetryable(err) {
		return err
	}
	if parent.Err() != nil {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected:
			return fmt.Errorf("%w: %w", domain.ErrTxConflict, err)
		case codeLockNotAvailable, codeQueryCanceled:
			return fmt.Errorf("%w: %w", domain.ErrLockTimeout, err)
		case codeUniqueViolation:
			return fmt.Errorf("%w: %w", domain.ErrDuplicate, err)
		case codeInvalidTextRepr:
			return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
	}
	// venció el timeout propio de la transacción
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrLockTimeout, err)
	}
	return err
}

// nullIfEmpty convierte "" en NULL.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromNull(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
