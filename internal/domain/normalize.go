package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

var fold = cases.Fold()

// NormalizeName devuelve la forma canónica (case folding Unicode, sin espacios
// extremos) de un nombre de ítem o bodega. Todas las comparaciones de
// identidad usan esta forma; "Bolt" y "bolt" son el mismo ítem.
func NormalizeName(s string) string {
	return fold.String(strings.TrimSpace(s))
}

// SameName compara dos nombres bajo la identidad case-insensitive del dominio.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}
