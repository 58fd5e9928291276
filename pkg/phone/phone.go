// Package phone normaliza números telefónicos a formato E.164 con libphonenumber.
package phone

import (
	"strings"

	"github.com/ttacon/libphonenumber"
)

// DefaultRegion región usada para números sin prefijo internacional (Paraguay).
const DefaultRegion = "PY"

// Normalizer interpreta números locales según su región por defecto.
type Normalizer struct {
	region string
}

// NewNormalizer construye el normalizador. region vacía usa DefaultRegion.
func NewNormalizer(region string) *Normalizer {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = DefaultRegion
	}
	return &Normalizer{region: region}
}

// Normalize devuelve el número en E.164 (ej: "0981 123456" → "+595981123456").
// ok=false si no es un número válido; el caller decide si conservar el texto original.
func (n *Normalizer) Normalize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	p, err := libphonenumber.Parse(raw, n.region)
	if err != nil {
		return "", false
	}
	if !libphonenumber.IsValidNumber(p) {
		return "", false
	}
	return libphonenumber.Format(p, libphonenumber.E164), true
}
