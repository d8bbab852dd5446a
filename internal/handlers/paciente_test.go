package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinica-api/internal/models"
)

func TestCriarEObterPaciente(t *testing.T) {
	router, _, cfg := newTestEnv(t)
	token := tokenFor(t, cfg, 1, models.RoleRecepcionista)

	w := doRequest(t, router, http.MethodPost, "/api/pacientes", token, map[string]interface{}{
		"nome":            "João Silva",
		"cpf":             "123.456.789-00",
		"data_nascimento": "1985-03-22",
		"telefone":        "11999990000",
		"email":           "joao@exemplo.com",
		"endereco":        "Rua das Flores, 100",
	})
	requireStatus(t, w, http.StatusCreated)

	data := dataMap(t, w)
	id := uint(data["id_paciente"].(float64))
	require.NotZero(t, id)

	// Reads are public, no token needed
	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/pacientes/%d", id), "", nil)
	requireStatus(t, w, http.StatusOK)

	data = dataMap(t, w)
	assert.Equal(t, "João Silva", data["nome"])
	assert.Equal(t, "123.456.789-00", data["cpf"])
}

func TestCriarPacienteCPFDuplicado(t *testing.T) {
	router, db, cfg := newTestEnv(t)
	token := tokenFor(t, cfg, 1, models.RoleRecepcionista)
	criarPaciente(t, db, "João Silva", "123.456.789-00")

	w := doRequest(t, router, http.MethodPost, "/api/pacientes", token, map[string]interface{}{
		"nome":            "Outro João",
		"cpf":             "123.456.789-00",
		"data_nascimento": "1990-01-01",
		"telefone":        "11888880000",
	})
	requireStatus(t, w, http.StatusConflict)
	assert.Equal(t, "Já existe um paciente com este CPF", parseResponse(t, w).Message)
}

// Replacing a patient while keeping the same CPF must not trip the
// uniqueness check against the record itself.
func TestAtualizarPacienteMantendoCPF(t *testing.T) {
	router, db, cfg := newTestEnv(t)
	token := tokenFor(t, cfg, 1, models.RoleRecepcionista)
	paciente := criarPaciente(t, db, "João Silva", "123.456.789-00")

	w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/pacientes/%d", paciente.ID), token, map[string]interface{}{
		"nome":            "João S. Atualizado",
		"cpf":             "123.456.789-00",
		"data_nascimento": "1985-03-22",
		"telefone":        "11777770000",
	})
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "João S. Atualizado", dataMap(t, w)["nome"])
}

func TestAtualizarPacienteCPFDeOutro(t *testing.T) {
	router, db, cfg := newTestEnv(t)
	token := tokenFor(t, cfg, 1, models.RoleRecepcionista)
	criarPaciente(t, db, "João Silva", "111.111.111-11")
	alvo := criarPaciente(t, db, "Maria Lima", "222.222.222-22")

	w := doRequest(t, router, http.MethodPatch, fmt.Sprintf("/api/pacientes/%d", alvo.ID), token, map[string]interface{}{
		"cpf": "111.111.111-11",
	})
	requireStatus(t, w, http.StatusConflict)
}

func TestListarPacientesPaginado(t *testing.T) {
	router, db, _ := newTestEnv(t)
	for i := 0; i < 15; i++ {
		criarPaciente(t, db, fmt.Sprintf("Paciente %02d", i), fmt.Sprintf("000.000.000-%02d", i))
	}

	w := doRequest(t, router, http.MethodGet, "/api/pacientes", "", nil)
	requireStatus(t, w, http.StatusOK)

	data := dataMap(t, w)
	assert.Equal(t, float64(15), data["total"])
	assert.Equal(t, float64(1), data["page"])
	assert.Equal(t, float64(10), data["limit"])
	assert.Equal(t, float64(2), data["pages"])
	assert.Len(t, data["pacientes"], 10)

	w = doRequest(t, router, http.MethodGet, "/api/pacientes?page=2", "", nil)
	requireStatus(t, w, http.StatusOK)

	data = dataMap(t, w)
	assert.Equal(t, float64(2), data["page"])
	assert.Len(t, data["pacientes"], 5)
}

func TestExcluirPacienteComConsultas(t *testing.T) {
	router, db, cfg := newTestEnv(t)
	admin := tokenFor(t, cfg, 1, models.RoleAdmin)

	paciente := criarPaciente(t, db, "João Silva", "123.456.789-00")
	medico := criarMedico(t, db, "Dra. Helena", "12345-SP")
	criarConsulta(t, db, paciente.ID, medico.ID, time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC), models.ConsultaAgendada)

	w := doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/pacientes/%d", paciente.ID), admin, nil)
	requireStatus(t, w, http.StatusConflict)
	assert.Equal(t, "Não é possível excluir o paciente pois ele possui registros associados", parseResponse(t, w).Message)
}

func TestExcluirPacienteSemVinculos(t *testing.T) {
	router, db, cfg := newTestEnv(t)
	admin := tokenFor(t, cfg, 1, models.RoleAdmin)
	paciente := criarPaciente(t, db, "João Silva", "123.456.789-00")

	w := doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/pacientes/%d", paciente.ID), admin, nil)
	requireStatus(t, w, http.StatusOK)

	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/pacientes/%d", paciente.ID), "", nil)
	requireStatus(t, w, http.StatusNotFound)
}

func TestPacienteGuardasDeRota(t *testing.T) {
	router, db, cfg := newTestEnv(t)
	paciente := criarPaciente(t, db, "João Silva", "123.456.789-00")

	// Writes require authentication
	w := doRequest(t, router, http.MethodPost, "/api/pacientes", "", map[string]interface{}{
		"nome":            "Sem Token",
		"cpf":             "999.999.999-99",
		"data_nascimento": "1990-01-01",
		"telefone":        "11000000000",
	})
	requireStatus(t, w, http.StatusUnauthorized)

	// Deletes require the admin role
	recep := tokenFor(t, cfg, 2, models.RoleRecepcionista)
	w = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/pacientes/%d", paciente.ID), recep, nil)
	requireStatus(t, w, http.StatusForbidden)
}

func TestObterPacienteIDInvalido(t *testing.T) {
	router, _, _ := newTestEnv(t)

	w := doRequest(t, router, http.MethodGet, "/api/pacientes/abc", "", nil)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "ID inválido", parseResponse(t, w).Message)
}
