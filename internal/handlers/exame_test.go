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

func criarExame(t *testing.T, db *gorm.DB, consulta *models.Consulta, status models.StatusExame) *models.Exame {
	t.Helper()
	exame := &models.Exame{
		IDConsulta:      consulta.ID,
		IDPaciente:      consulta.IDPaciente,
		TipoExame:       "Hemograma",
		DataSolicitacao: time.Now(),
		Status:          status,
	}
	require.NoError(t, db.Create(exame).Error)
	return exame
}

func TestCriarExame(t *testing.T) {
	router, db, cfg := newTestEnv(t)
	medicoToken := tokenFor(t, cfg, 1, models.RoleMedico)

	paciente := criarPaciente(t, db, "João Silva", "123.456.789-00")
	medico := criarMedico(t, db, "Dra. Helena Castro", "12345-SP")
	consulta := criarConsulta(t, db, paciente.ID, medico.ID, seedConsultaHorario(), models.ConsultaAgendada)

	w := doRequest(t, router, http.MethodPost, "/api/exames", medicoToken, map[string]interface{}{
		"id_consulta": consulta.ID,
		"id_paciente": paciente.ID,
		"tipo_exame":  "Hemograma completo",
	})
	requireStatus(t, w, http.StatusCreated)

	data := dataMap(t, w)
	assert.Equal(t, "Solicitado", data["status"], "status defaults to Solicitado")
	assert.NotEmpty(t, data["data_solicitacao"], "request date defaults to now")
}

// The declared patient must match the patient of the appointment.
func TestCriarExamePacienteNaoCorresponde(t *testing.T) {
	router, db, cfg := newTestEnv(t)
	medicoToken := tokenFor(t, cfg, 1, models.RoleMedico)

	paciente := criarPaciente(t, db, "João Silva", "123.456.789-00")
	outro := criarPaciente(t, db, "Maria Lima", "222.222.222-22")
	medico := criarMedico(t, db, "Dra. Helena Castro", "12345-SP")
	consulta := criarConsulta(t, db, paciente.ID, medico.ID, seedConsultaHorario(), models.ConsultaAgendada)

	w := doRequest(t, router, http.MethodPost, "/api/exames", medicoToken, map[string]interface{}{
		"id_consulta": consulta.ID,
		"id_paciente": outro.ID,
		"tipo_exame":  "Hemograma",
	})
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "O paciente informado não corresponde ao paciente da consulta", parseResponse(t, w).Message)
}

func TestCriarExameRequerPerfilClinico(t *testing.T) {
	router, db, cfg := newTestEnv(t)
	recep := tokenFor(t, cfg, 1, models.RoleRecepcionista)

	paciente := criarPaciente(t, db, "João Silva", "123.456.789-00")
	medico := criarMedico(t, db, "Dra. Helena Castro", "12345-SP")
	consulta := criarConsulta(t, db, paciente.ID, medico.ID, seedConsultaHorario(), models.ConsultaAgendada)

	w := doRequest(t, router, http.MethodPost, "/api/exames", recep, map[string]interface{}{
		"id_consulta": consulta.ID,
		"id_paciente": paciente.ID,
		"tipo_exame":  "Hemograma",
	})
	requireStatus(t, w, http.StatusForbidden)
}

// A full replace without status or request date keeps the stored values.
func TestAtualizarExameMantemCamposOmitidos(t *testing.T) {
	router, db, cfg := newTestEnv(t)
	medicoToken := tokenFor(t, cfg, 1, models.RoleMedico)

	paciente := criarPaciente(t, db, "João Silva", "123.456.789-00")
	medico := criarMedico(t, db, "Dra. Helena Castro", "12345-SP")
	consulta := criarConsulta(t, db, paciente.ID, medico.ID, seedConsultaHorario(), models.ConsultaAgendada)
	exame := criarExame(t, db, consulta, models.ExameEmAndamento)

	w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/exames/%d", exame.ID), medicoToken, map[string]interface{}{
		"id_consulta": consulta.ID,
		"id_paciente": paciente.ID,
		"tipo_exame":  "Hemograma completo",
		"resultado":   "Dentro da normalidade",
	})
	requireStatus(t, w, http.StatusOK)

	data := dataMap(t, w)
	assert.Equal(t, "Em Andamento", data["status"], "omitted status keeps the stored value")
	assert.Equal(t, "Dentro da normalidade", data["resultado"])
}

// Repointing an exam to another appointment re-checks against the patient in
// effect after the merge.
func TestAtualizarParcialExameMudaConsulta(t *testing.T) {
	router, db, cfg := newTestEnv(t)
	medicoToken := tokenFor(t, cfg, 1, models.RoleMedico)

	paciente := criarPaciente(t, db, "João Silva", "123.456.789-00")
	outro := criarPaciente(t, db, "Maria Lima", "222.222.222-22")
	medico := criarMedico(t, db, "Dra. Helena Castro", "12345-SP")
	consulta := criarConsulta(t, db, paciente.ID, medico.ID, seedConsultaHorario(), models.ConsultaAgendada)
	consultaOutro := criarConsulta(t, db, outro.ID, medico.ID, seedConsultaHorario().Add(time.Hour), models.ConsultaAgendada)
	exame := criarExame(t, db, consulta, models.ExameSolicitado)

	// Appointment alone: the effective patient no longer matches
	w := doRequest(t, router, http.MethodPatch, fmt.Sprintf("/api/exames/%d", exame.ID), medicoToken, map[string]interface{}{
		"id_consulta": consultaOutro.ID,
	})
	requireStatus(t, w, http.StatusBadRequest)

	// Appointment and patient together stay consistent
	w = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/api/exames/%d", exame.ID), medicoToken, map[string]interface{}{
		"id_consulta": consultaOutro.ID,
		"id_paciente": outro.ID,
	})
	requireStatus(t, w, http.StatusOK)
}

func TestAtualizarParcialExameStatusInvalido(t *testing.T) {
	router, db, cfg := newTestEnv(t)
	medicoToken := tokenFor(t, cfg, 1, models.RoleMedico)

	paciente := criarPaciente(t, db, "João Silva", "123.456.789-00")
	medico := criarMedico(t, db, "Dra. Helena Castro", "12345-SP")
	consulta := criarConsulta(t, db, paciente.ID, medico.ID, seedConsultaHorario(), models.ConsultaAgendada)
	exame := criarExame(t, db, consulta, models.ExameSolicitado)

	w := doRequest(t, router, http.MethodPatch, fmt.Sprintf("/api/exames/%d", exame.ID), medicoToken, map[string]interface{}{
		"status": "Perdido",
	})
	requireStatus(t, w, http.StatusBadRequest)
}

func TestListarExamesPorStatus(t *testing.T) {
	router, db, cfg := newTestEnv(t)
	token := tokenFor(t, cfg, 1, models.RoleRecepcionista)

	paciente := criarPaciente(t, db, "João Silva", "123.456.789-00")
	medico := criarMedico(t, db, "Dra. Helena Castro", "12345-SP")
	consulta := criarConsulta(t, db, paciente.ID, medico.ID, seedConsultaHorario(), models.ConsultaAgendada)
	criarExame(t, db, consulta, models.ExameSolicitado)
	criarExame(t, db, consulta, models.ExameConcluido)

	w := doRequest(t, router, http.MethodGet, "/api/exames?status=Concluído", token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, float64(1), dataMap(t, w)["total"])
}
