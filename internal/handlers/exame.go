package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinica-api/internal/models"
	"clinica-api/internal/utils"
)

// ExameHandler handles exam related requests.
type ExameHandler struct {
	DB *gorm.DB
}

// NewExameHandler creates a new ExameHandler.
func NewExameHandler(db *gorm.DB) *ExameHandler {
	return &ExameHandler{DB: db}
}

// ListarExames lists exams, newest first, with optional filters on patient,
// appointment and status.
func (h *ExameHandler) ListarExames(c *gin.Context) {
	p := utils.GetPagination(c)

	query := h.DB.Model(&models.Exame{})

	if v := c.Query("id_paciente"); v != "" {
		query = query.Where("id_paciente = ?", v)
	}
	if v := c.Query("id_consulta"); v != "" {
		query = query.Where("id_consulta = ?", v)
	}
	if v := c.Query("status"); v != "" {
		query = query.Where("status = ?", v)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Erro ao listar exames", err)
		return
	}

	var exames []models.Exame
	err := query.Preload("Paciente").Preload("Consulta").Preload("Consulta.Medico").
		Order("data_solicitacao DESC").Offset(p.Offset).Limit(p.Limit).
		Find(&exames).Error
	if err != nil {
		utils.InternalServerError(c, "Erro ao listar exames", err)
		return
	}

	utils.Success(c, "Exames listados com sucesso", gin.H{
		"exames": exames,
		"total":  total,
		"page":   p.Page,
		"limit":  p.Limit,
		"pages":  p.Pages(total),
	})
}

// ObterExame fetches a single exam with patient and appointment embedded.
func (h *ExameHandler) ObterExame(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	exame, err := h.exameComRelacionados(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Exame não encontrado")
		} else {
			utils.InternalServerError(c, "Erro ao obter exame", err)
		}
		return
	}

	utils.Success(c, "Exame encontrado com sucesso", exame)
}

// CriarExameRequest represents the request body for creating an exam.
type CriarExameRequest struct {
	IDConsulta      uint               `json:"id_consulta" binding:"required"`
	IDPaciente      uint               `json:"id_paciente" binding:"required"`
	TipoExame       string             `json:"tipo_exame" binding:"required"`
	DataSolicitacao *time.Time         `json:"data_solicitacao"`
	Resultado       string             `json:"resultado"`
	Status          models.StatusExame `json:"status" binding:"omitempty,oneof=Solicitado 'Em Andamento' Concluído"`
}

// CriarExame creates a new exam. The given patient must be the patient of
// the referenced appointment.
func (h *ExameHandler) CriarExame(c *gin.Context) {
	var req CriarExameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Dados obrigatórios não fornecidos")
		return
	}

	if !h.verificarConsistencia(c, req.IDConsulta, req.IDPaciente) {
		return
	}

	dataSolicitacao := time.Now()
	if req.DataSolicitacao != nil {
		dataSolicitacao = *req.DataSolicitacao
	}
	status := req.Status
	if status == "" {
		status = models.ExameSolicitado
	}

	exame := models.Exame{
		IDConsulta:      req.IDConsulta,
		IDPaciente:      req.IDPaciente,
		TipoExame:       req.TipoExame,
		DataSolicitacao: dataSolicitacao,
		Resultado:       req.Resultado,
		Status:          status,
	}

	if err := h.DB.Create(&exame).Error; err != nil {
		utils.InternalServerError(c, "Erro ao criar exame", err)
		return
	}

	completo, err := h.exameComRelacionados(exame.ID)
	if err != nil {
		utils.InternalServerError(c, "Erro ao criar exame", err)
		return
	}

	utils.Created(c, "Exame criado com sucesso", completo)
}

// AtualizarExame replaces an existing exam. Request timestamp and status fall
// back to the stored values when omitted.
func (h *ExameHandler) AtualizarExame(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CriarExameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Dados obrigatórios não fornecidos")
		return
	}

	var exame models.Exame
	if err := h.DB.First(&exame, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Exame não encontrado")
		} else {
			utils.InternalServerError(c, "Erro ao atualizar exame", err)
		}
		return
	}

	if !h.verificarConsistencia(c, req.IDConsulta, req.IDPaciente) {
		return
	}

	exame.IDConsulta = req.IDConsulta
	exame.IDPaciente = req.IDPaciente
	exame.TipoExame = req.TipoExame
	exame.Resultado = req.Resultado
	if req.DataSolicitacao != nil {
		exame.DataSolicitacao = *req.DataSolicitacao
	}
	if req.Status != "" {
		exame.Status = req.Status
	}

	if err := h.DB.Save(&exame).Error; err != nil {
		utils.InternalServerError(c, "Erro ao atualizar exame", err)
		return
	}

	atualizado, err := h.exameComRelacionados(exame.ID)
	if err != nil {
		utils.InternalServerError(c, "Erro ao atualizar exame", err)
		return
	}

	utils.Success(c, "Exame atualizado com sucesso", atualizado)
}

// AtualizarParcialExameRequest carries the fields a PATCH may touch.
type AtualizarParcialExameRequest struct {
	IDConsulta      *uint               `json:"id_consulta"`
	IDPaciente      *uint               `json:"id_paciente"`
	TipoExame       *string             `json:"tipo_exame" validate:"omitempty,min=1"`
	DataSolicitacao *time.Time          `json:"data_solicitacao"`
	Resultado       *string             `json:"resultado"`
	Status          *models.StatusExame `json:"status" validate:"omitempty,oneof=Solicitado 'Em Andamento' Concluído"`
}

// AtualizarParcialExame updates only the provided fields. The patient
// consistency check re-runs against the merged state when the appointment
// or patient reference changes.
func (h *ExameHandler) AtualizarParcialExame(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AtualizarParcialExameRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var exame models.Exame
	if err := h.DB.First(&exame, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Exame não encontrado")
		} else {
			utils.InternalServerError(c, "Erro ao atualizar exame", err)
		}
		return
	}

	if req.IDConsulta != nil || req.IDPaciente != nil {
		if req.IDPaciente != nil && !h.verificarPaciente(c, *req.IDPaciente) {
			return
		}
		if req.IDConsulta != nil {
			// Merged state: the new appointment must belong to the patient
			// that will be in effect after the update.
			idPaciente := exame.IDPaciente
			if req.IDPaciente != nil {
				idPaciente = *req.IDPaciente
			}
			if !h.verificarConsistencia(c, *req.IDConsulta, idPaciente) {
				return
			}
		}
	}

	if req.IDConsulta != nil {
		exame.IDConsulta = *req.IDConsulta
	}
	if req.IDPaciente != nil {
		exame.IDPaciente = *req.IDPaciente
	}
	if req.TipoExame != nil {
		exame.TipoExame = *req.TipoExame
	}
	if req.DataSolicitacao != nil {
		exame.DataSolicitacao = *req.DataSolicitacao
	}
	if req.Resultado != nil {
		exame.Resultado = *req.Resultado
	}
	if req.Status != nil {
		exame.Status = *req.Status
	}

	if err := h.DB.Save(&exame).Error; err != nil {
		utils.InternalServerError(c, "Erro ao atualizar exame", err)
		return
	}

	atualizado, err := h.exameComRelacionados(exame.ID)
	if err != nil {
		utils.InternalServerError(c, "Erro ao atualizar exame", err)
		return
	}

	utils.Success(c, "Exame atualizado com sucesso", atualizado)
}

// ExcluirExame removes an exam.
func (h *ExameHandler) ExcluirExame(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var exame models.Exame
	if err := h.DB.First(&exame, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Exame não encontrado")
		} else {
			utils.InternalServerError(c, "Erro ao excluir exame", err)
		}
		return
	}

	if err := h.DB.Delete(&exame).Error; err != nil {
		utils.InternalServerError(c, "Erro ao excluir exame", err)
		return
	}

	utils.Success(c, "Exame excluído com sucesso", nil)
}

// verificarConsistencia confirms that both patient and appointment exist and
// that the appointment belongs to the given patient. A mismatch is a payload
// inconsistency, answered with 400.
func (h *ExameHandler) verificarConsistencia(c *gin.Context, idConsulta, idPaciente uint) bool {
	if !h.verificarPaciente(c, idPaciente) {
		return false
	}

	var consulta models.Consulta
	if err := h.DB.First(&consulta, idConsulta).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Consulta não encontrada")
		} else {
			utils.InternalServerError(c, "Erro ao verificar consulta", err)
		}
		return false
	}

	if consulta.IDPaciente != idPaciente {
		utils.BadRequest(c, "O paciente informado não corresponde ao paciente da consulta")
		return false
	}
	return true
}

func (h *ExameHandler) verificarPaciente(c *gin.Context, id uint) bool {
	var paciente models.Paciente
	if err := h.DB.First(&paciente, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Paciente não encontrado")
		} else {
			utils.InternalServerError(c, "Erro ao verificar paciente", err)
		}
		return false
	}
	return true
}

func (h *ExameHandler) exameComRelacionados(id uint) (*models.Exame, error) {
	var exame models.Exame
	err := h.DB.Preload("Paciente").Preload("Consulta").Preload("Consulta.Medico").
		First(&exame, id).Error
	if err != nil {
		return nil, err
	}
	return &exame, nil
}
