package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"clinica-api/internal/models"
)

func criarProntuario(t *testing.T, db *gorm.DB, idPaciente uint, diagnostico string) *models.Prontuario {
	t.Helper()
	prontuario := &models.Prontuario{
		IDPaciente:   idPaciente,
		DataRegistro: time.Now(),
		Diagnostico:  diagnostico,
	}
	require.NoError(t, db.Create(prontuario).Error)
	return prontuario
}

func TestCriarProntuario(t *testing.T) {
	router, db, cfg := newTestEnv(t)
	medicoToken := tokenFor(t, cfg, 1, models.RoleMedico)
	paciente := criarPaciente(t, db, "João Silva", "123.456.789-00")

	w := doRequest(t, router, http.MethodPost, "/api/prontuarios", medicoToken, map[string]interface{}{
		"id_paciente": paciente.ID,
		"diagnostico": "Hipertensão arterial",
		"observacoes": "Acompanhamento mensal",
	})
	requireStatus(t, w, http.StatusCreated)

	data := dataMap(t, w)
	assert.Equal(t, "Hipertensão arterial", data["diagnostico"])
	assert.NotEmpty(t, data["data_registro"], "record date is stamped at creation")
}

func TestCriarProntuarioPacienteInexistente(t *testing.T) {
	router, _, cfg := newTestEnv(t)
	medicoToken := tokenFor(t, cfg, 1, models.RoleMedico)

	w := doRequest(t, router, http.MethodPost, "/api/prontuarios", medicoToken, map[string]interface{}{
		"id_paciente": 9999,
		"diagnostico": "Hipertensão arterial",
	})
	requireStatus(t, w, http.StatusNotFound)
}

func TestCriarProntuarioRequerPerfilClinico(t *testing.T) {
	router, db, cfg := newTestEnv(t)
	recep := tokenFor(t, cfg, 1, models.RoleRecepcionista)
	paciente := criarPaciente(t, db, "João Silva", "123.456.789-00")

	w := doRequest(t, router, http.MethodPost, "/api/prontuarios", recep, map[string]interface{}{
		"id_paciente": paciente.ID,
		"diagnostico": "Hipertensão arterial",
	})
	requireStatus(t, w, http.StatusForbidden)
}

func TestListarProntuariosPorPaciente(t *testing.T) {
	router, db, cfg := newTestEnv(t)
	token := tokenFor(t, cfg, 1, models.RoleRecepcionista)

	paciente := criarPaciente(t, db, "João Silva", "123.456.789-00")
	outro := criarPaciente(t, db, "Maria Lima", "222.222.222-22")
	criarProntuario(t, db, paciente.ID, "Hipertensão arterial")
	criarProntuario(t, db, paciente.ID, "Rinite alérgica")
	criarProntuario(t, db, outro.ID, "Enxaqueca")

	w := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/prontuarios?id_paciente=%d", paciente.ID), token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, float64(2), dataMap(t, w)["total"])
}

func TestAtualizarParcialProntuario(t *testing.T) {
	router, db, cfg := newTestEnv(t)
	medicoToken := tokenFor(t, cfg, 1, models.RoleMedico)

	paciente := criarPaciente(t, db, "João Silva", "123.456.789-00")
	prontuario := criarProntuario(t, db, paciente.ID, "Hipertensão arterial")

	w := doRequest(t, router, http.MethodPatch, fmt.Sprintf("/api/prontuarios/%d", prontuario.ID), medicoToken, map[string]interface{}{
		"observacoes": "Paciente respondeu bem ao tratamento",
	})
	requireStatus(t, w, http.StatusOK)

	data := dataMap(t, w)
	assert.Equal(t, "Paciente respondeu bem ao tratamento", data["observacoes"])
	assert.Equal(t, "Hipertensão arterial", data["diagnostico"], "untouched fields keep their values")
}

func TestExcluirProntuario(t *testing.T) {
	router, db, cfg := newTestEnv(t)
	admin := tokenFor(t, cfg, 1, models.RoleAdmin)

	paciente := criarPaciente(t, db, "João Silva", "123.456.789-00")
	prontuario := criarProntuario(t, db, paciente.ID, "Hipertensão arterial")

	w := doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/prontuarios/%d", prontuario.ID), admin, nil)
	requireStatus(t, w, http.StatusOK)

	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/prontuarios/%d", prontuario.ID), admin, nil)
	requireStatus(t, w, http.StatusNotFound)
}
