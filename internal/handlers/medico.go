package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinica-api/internal/middleware"
	"clinica-api/internal/models"
	"clinica-api/internal/utils"
)

// MedicoHandler handles doctor related requests.
type MedicoHandler struct {
	DB *gorm.DB
}

// NewMedicoHandler creates a new MedicoHandler.
func NewMedicoHandler(db *gorm.DB) *MedicoHandler {
	return &MedicoHandler{DB: db}
}

// ListarMedicos lists doctors ordered by name, paginated.
func (h *MedicoHandler) ListarMedicos(c *gin.Context) {
	p := utils.GetPagination(c)

	query := h.DB.Model(&models.Medico{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Erro ao listar médicos", err)
		return
	}

	var medicos []models.Medico
	if err := query.Order("nome ASC").Offset(p.Offset).Limit(p.Limit).Find(&medicos).Error; err != nil {
		utils.InternalServerError(c, "Erro ao listar médicos", err)
		return
	}

	utils.Success(c, "Médicos listados com sucesso", gin.H{
		"medicos": medicos,
		"total":   total,
		"page":    p.Page,
		"limit":   p.Limit,
		"pages":   p.Pages(total),
	})
}

// ObterMedico fetches a single doctor by id.
func (h *MedicoHandler) ObterMedico(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var medico models.Medico
	if err := h.DB.First(&medico, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Médico não encontrado")
		} else {
			utils.InternalServerError(c, "Erro ao obter médico", err)
		}
		return
	}

	utils.Success(c, "Médico encontrado com sucesso", medico)
}

// CriarMedicoRequest represents the request body for creating a doctor.
type CriarMedicoRequest struct {
	Nome          string `json:"nome" binding:"required"`
	CRM           string `json:"crm" binding:"required"`
	Especialidade string `json:"especialidade" binding:"required"`
	Telefone      string `json:"telefone" binding:"required"`
	Email         string `json:"email" binding:"omitempty,email"`
}

// CriarMedico creates a new doctor. CRM must be unique.
func (h *MedicoHandler) CriarMedico(c *gin.Context) {
	var req CriarMedicoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Dados obrigatórios não fornecidos")
		return
	}

	if taken, err := h.crmEmUso(req.CRM, 0); err != nil {
		utils.InternalServerError(c, "Erro ao criar médico", err)
		return
	} else if taken {
		utils.Conflict(c, "Já existe um médico com este CRM")
		return
	}

	medico := models.Medico{
		Nome:          req.Nome,
		CRM:           req.CRM,
		Especialidade: req.Especialidade,
		Telefone:      req.Telefone,
		Email:         req.Email,
	}

	if err := h.DB.Create(&medico).Error; err != nil {
		if isUniqueViolation(err) {
			utils.Conflict(c, "Já existe um médico com este CRM")
			return
		}
		utils.InternalServerError(c, "Erro ao criar médico", err)
		return
	}

	utils.Created(c, "Médico criado com sucesso", medico)
}

// AtualizarMedico replaces every field of an existing doctor. A medico-role
// caller may only update its own record.
func (h *MedicoHandler) AtualizarMedico(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CriarMedicoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Dados obrigatórios não fornecidos")
		return
	}

	var medico models.Medico
	if err := h.DB.First(&medico, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Médico não encontrado")
		} else {
			utils.InternalServerError(c, "Erro ao atualizar médico", err)
		}
		return
	}

	if !h.podeModificar(c, &medico) {
		return
	}

	if req.CRM != medico.CRM {
		if taken, err := h.crmEmUso(req.CRM, medico.ID); err != nil {
			utils.InternalServerError(c, "Erro ao atualizar médico", err)
			return
		} else if taken {
			utils.Conflict(c, "Já existe um médico com este CRM")
			return
		}
	}

	medico.Nome = req.Nome
	medico.CRM = req.CRM
	medico.Especialidade = req.Especialidade
	medico.Telefone = req.Telefone
	medico.Email = req.Email

	if err := h.DB.Save(&medico).Error; err != nil {
		if isUniqueViolation(err) {
			utils.Conflict(c, "Já existe um médico com este CRM")
			return
		}
		utils.InternalServerError(c, "Erro ao atualizar médico", err)
		return
	}

	utils.Success(c, "Médico atualizado com sucesso", medico)
}

// AtualizarParcialMedicoRequest carries the fields a PATCH may touch.
type AtualizarParcialMedicoRequest struct {
	Nome          *string `json:"nome" validate:"omitempty,min=1"`
	CRM           *string `json:"crm" validate:"omitempty,min=1"`
	Especialidade *string `json:"especialidade"`
	Telefone      *string `json:"telefone"`
	Email         *string `json:"email" validate:"omitempty,email"`
}

// AtualizarParcialMedico updates only the provided fields.
func (h *MedicoHandler) AtualizarParcialMedico(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AtualizarParcialMedicoRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var medico models.Medico
	if err := h.DB.First(&medico, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Médico não encontrado")
		} else {
			utils.InternalServerError(c, "Erro ao atualizar médico", err)
		}
		return
	}

	if !h.podeModificar(c, &medico) {
		return
	}

	if req.CRM != nil && *req.CRM != medico.CRM {
		if taken, err := h.crmEmUso(*req.CRM, medico.ID); err != nil {
			utils.InternalServerError(c, "Erro ao atualizar médico", err)
			return
		} else if taken {
			utils.Conflict(c, "Já existe um médico com este CRM")
			return
		}
	}

	if req.Nome != nil {
		medico.Nome = *req.Nome
	}
	if req.CRM != nil {
		medico.CRM = *req.CRM
	}
	if req.Especialidade != nil {
		medico.Especialidade = *req.Especialidade
	}
	if req.Telefone != nil {
		medico.Telefone = *req.Telefone
	}
	if req.Email != nil {
		medico.Email = *req.Email
	}

	if err := h.DB.Save(&medico).Error; err != nil {
		if isUniqueViolation(err) {
			utils.Conflict(c, "Já existe um médico com este CRM")
			return
		}
		utils.InternalServerError(c, "Erro ao atualizar médico", err)
		return
	}

	utils.Success(c, "Médico atualizado com sucesso", medico)
}

// ExcluirMedico removes a doctor. Appointments referencing the doctor make
// the storage engine reject the delete, surfaced as a conflict.
func (h *MedicoHandler) ExcluirMedico(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var medico models.Medico
	if err := h.DB.First(&medico, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Médico não encontrado")
		} else {
			utils.InternalServerError(c, "Erro ao excluir médico", err)
		}
		return
	}

	if err := h.DB.Delete(&medico).Error; err != nil {
		if isForeignKeyViolation(err) {
			utils.Conflict(c, "Não é possível excluir o médico pois ele possui registros associados")
			return
		}
		utils.InternalServerError(c, "Erro ao excluir médico", err)
		return
	}

	utils.Success(c, "Médico excluído com sucesso", nil)
}

// podeModificar enforces the self-only rule: a medico-role caller may only
// modify the doctor record matching its own identity. Responds 403 and
// returns false when the rule is violated.
func (h *MedicoHandler) podeModificar(c *gin.Context, medico *models.Medico) bool {
	role, _ := middleware.GetUserRoleFromContext(c)
	if role != models.RoleMedico {
		return true
	}
	userID, _ := middleware.GetUserIDFromContext(c)
	if userID != medico.ID {
		utils.Forbidden(c, "Você não tem permissão para atualizar dados de outro médico")
		return false
	}
	return true
}

// crmEmUso checks whether another doctor already holds the given CRM.
func (h *MedicoHandler) crmEmUso(crm string, excetoID uint) (bool, error) {
	query := h.DB.Model(&models.Medico{}).Where("crm = ?", crm)
	if excetoID != 0 {
		query = query.Where("id_medico <> ?", excetoID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
