package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/pos-inventario/internal/domain"
)

const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func pgCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	code, _ := pgCode(err)
	return code == codeUniqueViolation
}

// mapError traduce errores de PostgreSQL a sentinelas de dominio y envuelve el resto con op.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	code, constraint := pgCode(err)
	switch code {
	case codeSerializationFailure, codeDeadlockDetected:
		return fmt.Errorf("%s: %w", op, domain.ErrConcurrentModification)
	case codeCheckViolation:
		return fmt.Errorf("%s: %s: %w", op, constraint, domain.ErrInvalidState)
	}
	return fmt.Errorf("%s: %w", op, err)
}
