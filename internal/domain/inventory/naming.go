package inventory

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var upperES = cases.Upper(language.Spanish)

// NormalizeCategoryName nombre de categoría tal como se guarda: sin espacios sobrantes y en mayúsculas.
func NormalizeCategoryName(name string) string {
	return upperES.String(strings.Join(strings.Fields(name), " "))
}

// CategoryKey clave de comparación sin acentos ni mayúsculas: "Eléctricos" y "ELECTRICOS" coinciden.
// La Ñ se conserva.
func CategoryKey(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(isAccent)), norm.NFC)
	folded, _, err := transform.String(t, NormalizeCategoryName(name))
	if err != nil {
		return NormalizeCategoryName(name)
	}
	return folded
}

// isAccent marcas combinantes salvo la tilde de la ñ (U+0303).
func isAccent(r rune) bool {
	return unicode.Is(unicode.Mn, r) && r != '\u0303'
}
