package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ferreteria-api/internal/domain/inventory"
)

func TestNormalizeCategoryName(t *testing.T) {
	assert.Equal(t, "HERRAMIENTAS MANUALES", inventory.NormalizeCategoryName("  herramientas   manuales "))
	assert.Equal(t, "ELÉCTRICOS", inventory.NormalizeCategoryName("eléctricos"))
	assert.Equal(t, "SIN CATEGORÍA", inventory.NormalizeCategoryName("sin categoría"))
}

func TestCategoryKey(t *testing.T) {
	assert.Equal(t, inventory.CategoryKey("Eléctricos"), inventory.CategoryKey("ELECTRICOS"))
	assert.Equal(t, "PLOMERIA", inventory.CategoryKey("plomería"))
	assert.Equal(t, "AÑADIDOS", inventory.CategoryKey("añadidos"))
	assert.NotEqual(t, inventory.CategoryKey("pina"), inventory.CategoryKey("piña"))
}
