package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/pkg/jwt"
)

func TestGenerateParse(t *testing.T) {
	token, err := jwt.Generate("secreto", "u-1", "caja1", "vendedor", "ferreteria-api", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "caja1", claims.Username)
	assert.Equal(t, "vendedor", claims.Role)
}

func TestParse_Rejects(t *testing.T) {
	token, err := jwt.Generate("secreto", "u-1", "caja1", "vendedor", "ferreteria-api", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", token)
	assert.Error(t, err)

	expired, err := jwt.Generate("secreto", "u-1", "caja1", "vendedor", "ferreteria-api", -1)
	require.NoError(t, err)
	_, err = jwt.Parse("secreto", expired)
	assert.Error(t, err)

	_, err = jwt.Parse("", token)
	assert.Error(t, err)
}
