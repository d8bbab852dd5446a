package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinica-api/internal/models"
	"clinica-api/internal/utils"
)

func testUsuario() *models.Usuario {
	return &models.Usuario{
		ID:    7,
		Nome:  "Ana Souza",
		Email: "ana@clinica.test",
		Role:  models.RoleRecepcionista,
	}
}

func TestGenerateEValidateToken(t *testing.T) {
	token, err := utils.GenerateToken(testUsuario(), "segredo", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := utils.ValidateToken(token, "segredo")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ana@clinica.test", claims.Email)
	assert.Equal(t, models.RoleRecepcionista, claims.Role)
}

func TestValidateTokenSegredoErrado(t *testing.T) {
	token, err := utils.GenerateToken(testUsuario(), "segredo", time.Hour)
	require.NoError(t, err)

	_, err = utils.ValidateToken(token, "outro-segredo")
	assert.Error(t, err)
}

func TestValidateTokenExpirado(t *testing.T) {
	token, err := utils.GenerateToken(testUsuario(), "segredo", -time.Minute)
	require.NoError(t, err)

	_, err = utils.ValidateToken(token, "segredo")
	assert.Error(t, err)
}

func TestValidateTokenLixo(t *testing.T) {
	_, err := utils.ValidateToken("nao.e.um.jwt", "segredo")
	assert.Error(t, err)
}
