package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"clinica-api/internal/config"
	"clinica-api/internal/models"
	"clinica-api/internal/routes"
	"clinica-api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestEnv wires a router against a fresh in-memory database. A single
// connection keeps the database alive for the duration of the test, and the
// foreign_keys pragma makes SQLite enforce the RESTRICT constraints the way
// MySQL does in production.
func newTestEnv(t *testing.T) (*gin.Engine, *gorm.DB, *config.Config) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))

	cfg := &config.Config{
		Port:               "0",
		Origin:             "*",
		Environment:        "test",
		JWTSecret:          "segredo-de-teste",
		JWTExpirationHours: 1,
	}

	router := gin.New()
	routes.SetupRoutes(router, db, cfg)
	return router, db, cfg
}

// tokenFor issues a valid access token for the given identity without going
// through the login endpoint.
func tokenFor(t *testing.T, cfg *config.Config, id uint, role models.Role) string {
	t.Helper()
	usuario := &models.Usuario{
		ID:    id,
		Email: fmt.Sprintf("usuario%d@clinica.test", id),
		Role:  role,
	}
	token, err := utils.GenerateToken(usuario, cfg.JWTSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// dataMap returns the data field of a response as a generic map.
func dataMap(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	resp := parseResponse(t, w)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "response data is not an object: %s", w.Body.String())
	return data
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "unexpected status, body: %s", w.Body.String())
}

// Fixtures inserted straight into the database.

func criarPaciente(t *testing.T, db *gorm.DB, nome, cpf string) *models.Paciente {
	t.Helper()
	paciente := &models.Paciente{
		Nome:           nome,
		CPF:            cpf,
		DataNascimento: "1990-05-15",
		Telefone:       "11999990000",
	}
	require.NoError(t, db.Create(paciente).Error)
	return paciente
}

func criarMedico(t *testing.T, db *gorm.DB, nome, crm string) *models.Medico {
	t.Helper()
	medico := &models.Medico{
		Nome:          nome,
		CRM:           crm,
		Especialidade: "Clínica Geral",
		Telefone:      "11888880000",
	}
	require.NoError(t, db.Create(medico).Error)
	return medico
}

func criarConsulta(t *testing.T, db *gorm.DB, idPaciente, idMedico uint, data time.Time, status models.StatusConsulta) *models.Consulta {
	t.Helper()
	consulta := &models.Consulta{
		IDPaciente:   idPaciente,
		IDMedico:     idMedico,
		DataConsulta: data,
		Status:       status,
		Motivo:       "Rotina",
	}
	require.NoError(t, db.Create(consulta).Error)
	return consulta
}

// seedConsultaHorario is a fixed slot reused by appointment fixtures.
func seedConsultaHorario() time.Time {
	return time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)
}

func registrarUsuario(t *testing.T, db *gorm.DB, nome, email, senha string, role models.Role) *models.Usuario {
	t.Helper()
	usuario := &models.Usuario{Nome: nome, Email: email, Role: role}
	require.NoError(t, usuario.SetSenha(senha))
	require.NoError(t, db.Create(usuario).Error)
	return usuario
}
