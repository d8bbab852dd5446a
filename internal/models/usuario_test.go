package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinica-api/internal/models"
)

func TestSetECheckSenha(t *testing.T) {
	usuario := &models.Usuario{Nome: "Ana", Email: "ana@clinica.test"}
	require.NoError(t, usuario.SetSenha("senha123"))

	assert.NotEqual(t, "senha123", usuario.Senha, "password is stored hashed")
	assert.True(t, usuario.CheckSenha("senha123"))
	assert.False(t, usuario.CheckSenha("outra-senha"))
}

func TestSanitize(t *testing.T) {
	usuario := &models.Usuario{
		ID:    3,
		Nome:  "Ana",
		Email: "ana@clinica.test",
		Role:  models.RoleAdmin,
		Senha: "$2a$10$hash",
	}

	s := usuario.Sanitize()
	assert.Equal(t, uint(3), s.ID)
	assert.Equal(t, "Ana", s.Nome)
	assert.Equal(t, "ana@clinica.test", s.Email)
	assert.Equal(t, models.RoleAdmin, s.Role)
}
