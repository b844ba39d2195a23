// Package taxid valida el NIT colombiano (módulo 11 de la DIAN).
package taxid

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// pesos de derecha a izquierda sobre la base del NIT (hasta 15 dígitos).
var weights = [...]int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

var ErrInvalidNIT = errors.New("NIT inválido")

// CheckDigit calcula el dígito de verificación de base (solo dígitos).
func CheckDigit(base string) (byte, error) {
	if base == "" || len(base) > len(weights) {
		return 0, fmt.Errorf("%w: la base debe tener entre 1 y %d dígitos", ErrInvalidNIT, len(weights))
	}
	sum := 0
	for i := 0; i < len(base); i++ {
		c := base[len(base)-1-i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q no es numérico", ErrInvalidNIT, base)
		}
		sum += int(c-'0') * weights[i]
	}
	r := sum % 11
	if r > 1 {
		r = 11 - r
	}
	return byte('0' + r), nil
}

// Validate acepta "900123456-8", "900.123.456-8" o solo la base "900123456".
// Si viene el dígito de verificación (después del guion) se comprueba.
func Validate(nit string) error {
	nit = strings.TrimSpace(nit)
	base, dv, hasDV := strings.Cut(nit, "-")
	base = digits(base)
	if base == "" {
		return fmt.Errorf("%w: %q", ErrInvalidNIT, nit)
	}
	expected, err := CheckDigit(base)
	if err != nil {
		return err
	}
	if !hasDV {
		return nil
	}
	dv = strings.TrimSpace(dv)
	if len(dv) != 1 || dv[0] != expected {
		return fmt.Errorf("%w: %s, dígito de verificación esperado %c", ErrInvalidNIT, nit, expected)
	}
	return nil
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' || r == ' ':
		default:
			return ""
		}
	}
	return b.String()
}
