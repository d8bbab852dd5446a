package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinica-api/internal/models"
	"clinica-api/internal/utils"
)

// ProntuarioHandler handles medical record related requests.
type ProntuarioHandler struct {
	DB *gorm.DB
}

// NewProntuarioHandler creates a new ProntuarioHandler.
func NewProntuarioHandler(db *gorm.DB) *ProntuarioHandler {
	return &ProntuarioHandler{DB: db}
}

// ListarProntuarios lists medical records, newest first, optionally filtered
// by patient.
func (h *ProntuarioHandler) ListarProntuarios(c *gin.Context) {
	p := utils.GetPagination(c)

	query := h.DB.Model(&models.Prontuario{})

	if v := c.Query("id_paciente"); v != "" {
		query = query.Where("id_paciente = ?", v)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Erro ao listar prontuários", err)
		return
	}

	var prontuarios []models.Prontuario
	err := query.Preload("Paciente").
		Order("data_registro DESC").Offset(p.Offset).Limit(p.Limit).
		Find(&prontuarios).Error
	if err != nil {
		utils.InternalServerError(c, "Erro ao listar prontuários", err)
		return
	}

	utils.Success(c, "Prontuários listados com sucesso", gin.H{
		"prontuarios": prontuarios,
		"total":       total,
		"page":        p.Page,
		"limit":       p.Limit,
		"pages":       p.Pages(total),
	})
}

// ObterProntuario fetches a single medical record with the patient embedded.
func (h *ProntuarioHandler) ObterProntuario(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	prontuario, err := h.prontuarioComRelacionados(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Prontuário não encontrado")
		} else {
			utils.InternalServerError(c, "Erro ao obter prontuário", err)
		}
		return
	}

	utils.Success(c, "Prontuário encontrado com sucesso", prontuario)
}

// CriarProntuarioRequest represents the request body for creating a record.
type CriarProntuarioRequest struct {
	IDPaciente  uint   `json:"id_paciente" binding:"required"`
	Diagnostico string `json:"diagnostico" binding:"required"`
	Observacoes string `json:"observacoes"`
}

// CriarProntuario creates a new medical record stamped with the current time.
func (h *ProntuarioHandler) CriarProntuario(c *gin.Context) {
	var req CriarProntuarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Dados obrigatórios não fornecidos")
		return
	}

	if !h.verificarPaciente(c, req.IDPaciente) {
		return
	}

	prontuario := models.Prontuario{
		IDPaciente:   req.IDPaciente,
		Diagnostico:  req.Diagnostico,
		Observacoes:  req.Observacoes,
		DataRegistro: time.Now(),
	}

	if err := h.DB.Create(&prontuario).Error; err != nil {
		utils.InternalServerError(c, "Erro ao criar prontuário", err)
		return
	}

	completo, err := h.prontuarioComRelacionados(prontuario.ID)
	if err != nil {
		utils.InternalServerError(c, "Erro ao criar prontuário", err)
		return
	}

	utils.Created(c, "Prontuário criado com sucesso", completo)
}

// AtualizarProntuario replaces the patient, diagnosis and notes of an
// existing record. The patient existence check runs only when it changes.
func (h *ProntuarioHandler) AtualizarProntuario(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CriarProntuarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Dados obrigatórios não fornecidos")
		return
	}

	var prontuario models.Prontuario
	if err := h.DB.First(&prontuario, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Prontuário não encontrado")
		} else {
			utils.InternalServerError(c, "Erro ao atualizar prontuário", err)
		}
		return
	}

	if req.IDPaciente != prontuario.IDPaciente && !h.verificarPaciente(c, req.IDPaciente) {
		return
	}

	prontuario.IDPaciente = req.IDPaciente
	prontuario.Diagnostico = req.Diagnostico
	prontuario.Observacoes = req.Observacoes

	if err := h.DB.Save(&prontuario).Error; err != nil {
		utils.InternalServerError(c, "Erro ao atualizar prontuário", err)
		return
	}

	atualizado, err := h.prontuarioComRelacionados(prontuario.ID)
	if err != nil {
		utils.InternalServerError(c, "Erro ao atualizar prontuário", err)
		return
	}

	utils.Success(c, "Prontuário atualizado com sucesso", atualizado)
}

// AtualizarParcialProntuarioRequest carries the fields a PATCH may touch.
type AtualizarParcialProntuarioRequest struct {
	IDPaciente  *uint   `json:"id_paciente"`
	Diagnostico *string `json:"diagnostico" validate:"omitempty,min=1"`
	Observacoes *string `json:"observacoes"`
}

// AtualizarParcialProntuario updates only the provided fields.
func (h *ProntuarioHandler) AtualizarParcialProntuario(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AtualizarParcialProntuarioRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var prontuario models.Prontuario
	if err := h.DB.First(&prontuario, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Prontuário não encontrado")
		} else {
			utils.InternalServerError(c, "Erro ao atualizar prontuário", err)
		}
		return
	}

	if req.IDPaciente != nil && *req.IDPaciente != prontuario.IDPaciente {
		if !h.verificarPaciente(c, *req.IDPaciente) {
			return
		}
	}

	if req.IDPaciente != nil {
		prontuario.IDPaciente = *req.IDPaciente
	}
	if req.Diagnostico != nil {
		prontuario.Diagnostico = *req.Diagnostico
	}
	if req.Observacoes != nil {
		prontuario.Observacoes = *req.Observacoes
	}

	if err := h.DB.Save(&prontuario).Error; err != nil {
		utils.InternalServerError(c, "Erro ao atualizar prontuário", err)
		return
	}

	atualizado, err := h.prontuarioComRelacionados(prontuario.ID)
	if err != nil {
		utils.InternalServerError(c, "Erro ao atualizar prontuário", err)
		return
	}

	utils.Success(c, "Prontuário atualizado com sucesso", atualizado)
}

// ExcluirProntuario removes a medical record.
func (h *ProntuarioHandler) ExcluirProntuario(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var prontuario models.Prontuario
	if err := h.DB.First(&prontuario, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Prontuário não encontrado")
		} else {
			utils.InternalServerError(c, "Erro ao excluir prontuário", err)
		}
		return
	}

	if err := h.DB.Delete(&prontuario).Error; err != nil {
		utils.InternalServerError(c, "Erro ao excluir prontuário", err)
		return
	}

	utils.Success(c, "Prontuário excluído com sucesso", nil)
}

func (h *ProntuarioHandler) verificarPaciente(c *gin.Context, id uint) bool {
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

func (h *ProntuarioHandler) prontuarioComRelacionados(id uint) (*models.Prontuario, error) {
	var prontuario models.Prontuario
	if err := h.DB.Preload("Paciente").First(&prontuario, id).Error; err != nil {
		return nil, err
	}
	return &prontuario, nil
}
