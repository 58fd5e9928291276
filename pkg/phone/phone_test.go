package phone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ferreteria-api/pkg/phone"
)

func TestNormalize(t *testing.T) {
	n := phone.NewNormalizer("")

	got, ok := n.Normalize("0981 123456")
	assert.True(t, ok)
	assert.Equal(t, "+595981123456", got)

	got, ok = n.Normalize("+595 971 234567")
	assert.True(t, ok)
	assert.Equal(t, "+595971234567", got)

	_, ok = n.Normalize("no es un teléfono")
	assert.False(t, ok)

	_, ok = n.Normalize("")
	assert.False(t, ok)
}
