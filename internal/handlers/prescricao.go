package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinica-api/internal/models"
	"clinica-api/internal/utils"
)

// PrescricaoHandler handles prescription related requests.
type PrescricaoHandler struct {
	DB *gorm.DB
}

// NewPrescricaoHandler creates a new PrescricaoHandler.
func NewPrescricaoHandler(db *gorm.DB) *PrescricaoHandler {
	return &PrescricaoHandler{DB: db}
}

// ListarPrescricoes lists prescriptions, newest first, with optional filters
// on patient and appointment.
func (h *PrescricaoHandler) ListarPrescricoes(c *gin.Context) {
	p := utils.GetPagination(c)

	query := h.DB.Model(&models.Prescricao{})

	if v := c.Query("id_paciente"); v != "" {
		query = query.Where("id_paciente = ?", v)
	}
	if v := c.Query("id_consulta"); v != "" {
		query = query.Where("id_consulta = ?", v)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Erro ao listar prescrições", err)
		return
	}

	var prescricoes []models.Prescricao
	err := query.Preload("Paciente").Preload("Consulta").Preload("Consulta.Medico").
		Order("data_prescricao DESC").Offset(p.Offset).Limit(p.Limit).
		Find(&prescricoes).Error
	if err != nil {
		utils.InternalServerError(c, "Erro ao listar prescrições", err)
		return
	}

	utils.Success(c, "Prescrições listadas com sucesso", gin.H{
		"prescricoes": prescricoes,
		"total":       total,
		"page":        p.Page,
		"limit":       p.Limit,
		"pages":       p.Pages(total),
	})
}

// ObterPrescricao fetches a single prescription with related data embedded.
func (h *PrescricaoHandler) ObterPrescricao(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	prescricao, err := h.prescricaoComRelacionados(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Prescrição não encontrada")
		} else {
			utils.InternalServerError(c, "Erro ao obter prescrição", err)
		}
		return
	}

	utils.Success(c, "Prescrição encontrada com sucesso", prescricao)
}

// CriarPrescricaoRequest represents the request body for creating a prescription.
type CriarPrescricaoRequest struct {
	IDConsulta     uint       `json:"id_consulta" binding:"required"`
	IDPaciente     uint       `json:"id_paciente" binding:"required"`
	Medicamento    string     `json:"medicamento" binding:"required"`
	Dosagem        string     `json:"dosagem" binding:"required"`
	Instrucoes     string     `json:"instrucoes" binding:"required"`
	DataPrescricao *time.Time `json:"data_prescricao"`
}

// CriarPrescricao creates a new prescription. The given patient must be the
// patient of the referenced appointment.
func (h *PrescricaoHandler) CriarPrescricao(c *gin.Context) {
	var req CriarPrescricaoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Dados obrigatórios não fornecidos")
		return
	}

	if !h.verificarConsistencia(c, req.IDConsulta, req.IDPaciente) {
		return
	}

	dataPrescricao := time.Now()
	if req.DataPrescricao != nil {
		dataPrescricao = *req.DataPrescricao
	}

	prescricao := models.Prescricao{
		IDConsulta:     req.IDConsulta,
		IDPaciente:     req.IDPaciente,
		Medicamento:    req.Medicamento,
		Dosagem:        req.Dosagem,
		Instrucoes:     req.Instrucoes,
		DataPrescricao: dataPrescricao,
	}

	if err := h.DB.Create(&prescricao).Error; err != nil {
		utils.InternalServerError(c, "Erro ao criar prescrição", err)
		return
	}

	completa, err := h.prescricaoComRelacionados(prescricao.ID)
	if err != nil {
		utils.InternalServerError(c, "Erro ao criar prescrição", err)
		return
	}

	utils.Created(c, "Prescrição criada com sucesso", completa)
}

// AtualizarPrescricao replaces an existing prescription. The prescription
// timestamp falls back to the stored value when omitted.
func (h *PrescricaoHandler) AtualizarPrescricao(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CriarPrescricaoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Dados obrigatórios não fornecidos")
		return
	}

	var prescricao models.Prescricao
	if err := h.DB.First(&prescricao, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Prescrição não encontrada")
		} else {
			utils.InternalServerError(c, "Erro ao atualizar prescrição", err)
		}
		return
	}

	if !h.verificarConsistencia(c, req.IDConsulta, req.IDPaciente) {
		return
	}

	prescricao.IDConsulta = req.IDConsulta
	prescricao.IDPaciente = req.IDPaciente
	prescricao.Medicamento = req.Medicamento
	prescricao.Dosagem = req.Dosagem
	prescricao.Instrucoes = req.Instrucoes
	if req.DataPrescricao != nil {
		prescricao.DataPrescricao = *req.DataPrescricao
	}

	if err := h.DB.Save(&prescricao).Error; err != nil {
		utils.InternalServerError(c, "Erro ao atualizar prescrição", err)
		return
	}

	atualizada, err := h.prescricaoComRelacionados(prescricao.ID)
	if err != nil {
		utils.InternalServerError(c, "Erro ao atualizar prescrição", err)
		return
	}

	utils.Success(c, "Prescrição atualizada com sucesso", atualizada)
}

// AtualizarParcialPrescricaoRequest carries the fields a PATCH may touch.
type AtualizarParcialPrescricaoRequest struct {
	IDConsulta     *uint      `json:"id_consulta"`
	IDPaciente     *uint      `json:"id_paciente"`
	Medicamento    *string    `json:"medicamento" validate:"omitempty,min=1"`
	Dosagem        *string    `json:"dosagem" validate:"omitempty,min=1"`
	Instrucoes     *string    `json:"instrucoes" validate:"omitempty,min=1"`
	DataPrescricao *time.Time `json:"data_prescricao"`
}

// AtualizarParcialPrescricao updates only the provided fields. The patient
// consistency check re-runs against the merged state when the appointment
// or patient reference changes.
func (h *PrescricaoHandler) AtualizarParcialPrescricao(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AtualizarParcialPrescricaoRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var prescricao models.Prescricao
	if err := h.DB.First(&prescricao, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Prescrição não encontrada")
		} else {
			utils.InternalServerError(c, "Erro ao atualizar prescrição", err)
		}
		return
	}

	if req.IDConsulta != nil || req.IDPaciente != nil {
		if req.IDPaciente != nil && !h.verificarPaciente(c, *req.IDPaciente) {
			return
		}
		if req.IDConsulta != nil {
			idPaciente := prescricao.IDPaciente
			if req.IDPaciente != nil {
				idPaciente = *req.IDPaciente
			}
			if !h.verificarConsistencia(c, *req.IDConsulta, idPaciente) {
				return
			}
		}
	}

	if req.IDConsulta != nil {
		prescricao.IDConsulta = *req.IDConsulta
	}
	if req.IDPaciente != nil {
		prescricao.IDPaciente = *req.IDPaciente
	}
	if req.Medicamento != nil {
		prescricao.Medicamento = *req.Medicamento
	}
	if req.Dosagem != nil {
		prescricao.Dosagem = *req.Dosagem
	}
	if req.Instrucoes != nil {
		prescricao.Instrucoes = *req.Instrucoes
	}
	if req.DataPrescricao != nil {
		prescricao.DataPrescricao = *req.DataPrescricao
	}

	if err := h.DB.Save(&prescricao).Error; err != nil {
		utils.InternalServerError(c, "Erro ao atualizar prescrição", err)
		return
	}

	atualizada, err := h.prescricaoComRelacionados(prescricao.ID)
	if err != nil {
		utils.InternalServerError(c, "Erro ao atualizar prescrição", err)
		return
	}

	utils.Success(c, "Prescrição atualizada com sucesso", atualizada)
}

// ExcluirPrescricao removes a prescription.
func (h *PrescricaoHandler) ExcluirPrescricao(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var prescricao models.Prescricao
	if err := h.DB.First(&prescricao, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Prescrição não encontrada")
		} else {
			utils.InternalServerError(c, "Erro ao excluir prescrição", err)
		}
		return
	}

	if err := h.DB.Delete(&prescricao).Error; err != nil {
		utils.InternalServerError(c, "Erro ao excluir prescrição", err)
		return
	}

	utils.Success(c, "Prescrição excluída com sucesso", nil)
}

// verificarConsistencia confirms that both patient and appointment exist and
// that the appointment belongs to the given patient.
func (h *PrescricaoHandler) verificarConsistencia(c *gin.Context, idConsulta, idPaciente uint) bool {
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

func (h *PrescricaoHandler) verificarPaciente(c *gin.Context, id uint) bool {
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

func (h *PrescricaoHandler) prescricaoComRelacionados(id uint) (*models.Prescricao, error) {
	var prescricao models.Prescricao
	err := h.DB.Preload("Paciente").Preload("Consulta").Preload("Consulta.Medico").
		First(&prescricao, id).Error
	if err != nil {
		return nil, err
	}
	return &prescricao, nil
}
