package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinica-api/internal/models"
	"clinica-api/internal/utils"
)

// PacienteHandler handles patient related requests.
type PacienteHandler struct {
	DB *gorm.DB
}

// NewPacienteHandler creates a new PacienteHandler.
func NewPacienteHandler(db *gorm.DB) *PacienteHandler {
	return &PacienteHandler{DB: db}
}

// ListarPacientes lists patients ordered by name, paginated.
func (h *PacienteHandler) ListarPacientes(c *gin.Context) {
	p := utils.GetPagination(c)

	query := h.DB.Model(&models.Paciente{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Erro ao listar pacientes", err)
		return
	}

	var pacientes []models.Paciente
	if err := query.Order("nome ASC").Offset(p.Offset).Limit(p.Limit).Find(&pacientes).Error; err != nil {
		utils.InternalServerError(c, "Erro ao listar pacientes", err)
		return
	}

	utils.Success(c, "Pacientes listados com sucesso", gin.H{
		"pacientes": pacientes,
		"total":     total,
		"page":      p.Page,
		"limit":     p.Limit,
		"pages":     p.Pages(total),
	})
}

// ObterPaciente fetches a single patient by id.
func (h *PacienteHandler) ObterPaciente(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var paciente models.Paciente
	if err := h.DB.First(&paciente, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Paciente não encontrado")
		} else {
			utils.InternalServerError(c, "Erro ao obter paciente", err)
		}
		return
	}

	utils.Success(c, "Paciente encontrado com sucesso", paciente)
}

// CriarPacienteRequest represents the request body for creating a patient.
type CriarPacienteRequest struct {
	Nome           string `json:"nome" binding:"required"`
	CPF            string `json:"cpf" binding:"required,min=11,max=14"`
	DataNascimento string `json:"data_nascimento" binding:"required"`
	Telefone       string `json:"telefone" binding:"required"`
	Email          string `json:"email" binding:"omitempty,email"`
	Endereco       string `json:"endereco"`
}

// CriarPaciente creates a new patient. CPF must be unique.
func (h *PacienteHandler) CriarPaciente(c *gin.Context) {
	var req CriarPacienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Dados obrigatórios não fornecidos")
		return
	}

	if taken, err := h.cpfEmUso(req.CPF, 0); err != nil {
		utils.InternalServerError(c, "Erro ao criar paciente", err)
		return
	} else if taken {
		utils.Conflict(c, "Já existe um paciente com este CPF")
		return
	}

	paciente := models.Paciente{
		Nome:           req.Nome,
		CPF:            req.CPF,
		DataNascimento: req.DataNascimento,
		Telefone:       req.Telefone,
		Email:          req.Email,
		Endereco:       req.Endereco,
	}

	if err := h.DB.Create(&paciente).Error; err != nil {
		if isUniqueViolation(err) {
			utils.Conflict(c, "Já existe um paciente com este CPF")
			return
		}
		utils.InternalServerError(c, "Erro ao criar paciente", err)
		return
	}

	utils.Created(c, "Paciente criado com sucesso", paciente)
}

// AtualizarPaciente replaces every field of an existing patient.
func (h *PacienteHandler) AtualizarPaciente(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CriarPacienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Dados obrigatórios não fornecidos")
		return
	}

	var paciente models.Paciente
	if err := h.DB.First(&paciente, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Paciente não encontrado")
		} else {
			utils.InternalServerError(c, "Erro ao atualizar paciente", err)
		}
		return
	}

	if req.CPF != paciente.CPF {
		if taken, err := h.cpfEmUso(req.CPF, paciente.ID); err != nil {
			utils.InternalServerError(c, "Erro ao atualizar paciente", err)
			return
		} else if taken {
			utils.Conflict(c, "Já existe um paciente com este CPF")
			return
		}
	}

	paciente.Nome = req.Nome
	paciente.CPF = req.CPF
	paciente.DataNascimento = req.DataNascimento
	paciente.Telefone = req.Telefone
	paciente.Email = req.Email
	paciente.Endereco = req.Endereco

	if err := h.DB.Save(&paciente).Error; err != nil {
		if isUniqueViolation(err) {
			utils.Conflict(c, "Já existe um paciente com este CPF")
			return
		}
		utils.InternalServerError(c, "Erro ao atualizar paciente", err)
		return
	}

	utils.Success(c, "Paciente atualizado com sucesso", paciente)
}

// AtualizarParcialPacienteRequest carries the fields a PATCH may touch.
type AtualizarParcialPacienteRequest struct {
	Nome           *string `json:"nome" validate:"omitempty,min=1"`
	CPF            *string `json:"cpf" validate:"omitempty,min=11,max=14"`
	DataNascimento *string `json:"data_nascimento"`
	Telefone       *string `json:"telefone"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Endereco       *string `json:"endereco"`
}

// AtualizarParcialPaciente updates only the provided fields, re-validating
// CPF uniqueness when it changes.
func (h *PacienteHandler) AtualizarParcialPaciente(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AtualizarParcialPacienteRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var paciente models.Paciente
	if err := h.DB.First(&paciente, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Paciente não encontrado")
		} else {
			utils.InternalServerError(c, "Erro ao atualizar paciente", err)
		}
		return
	}

	if req.CPF != nil && *req.CPF != paciente.CPF {
		if taken, err := h.cpfEmUso(*req.CPF, paciente.ID); err != nil {
			utils.InternalServerError(c, "Erro ao atualizar paciente", err)
			return
		} else if taken {
			utils.Conflict(c, "Já existe um paciente com este CPF")
			return
		}
	}

	if req.Nome != nil {
		paciente.Nome = *req.Nome
	}
	if req.CPF != nil {
		paciente.CPF = *req.CPF
	}
	if req.DataNascimento != nil {
		paciente.DataNascimento = *req.DataNascimento
	}
	if req.Telefone != nil {
		paciente.Telefone = *req.Telefone
	}
	if req.Email != nil {
		paciente.Email = *req.Email
	}
	if req.Endereco != nil {
		paciente.Endereco = *req.Endereco
	}

	if err := h.DB.Save(&paciente).Error; err != nil {
		if isUniqueViolation(err) {
			utils.Conflict(c, "Já existe um paciente com este CPF")
			return
		}
		utils.InternalServerError(c, "Erro ao atualizar paciente", err)
		return
	}

	utils.Success(c, "Paciente atualizado com sucesso", paciente)
}

// ExcluirPaciente removes a patient. Dependent rows make the storage engine
// reject the delete, surfaced as a conflict.
func (h *PacienteHandler) ExcluirPaciente(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var paciente models.Paciente
	if err := h.DB.First(&paciente, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Paciente não encontrado")
		} else {
			utils.InternalServerError(c, "Erro ao excluir paciente", err)
		}
		return
	}

	if err := h.DB.Delete(&paciente).Error; err != nil {
		if isForeignKeyViolation(err) {
			utils.Conflict(c, "Não é possível excluir o paciente pois ele possui registros associados")
			return
		}
		utils.InternalServerError(c, "Erro ao excluir paciente", err)
		return
	}

	utils.Success(c, "Paciente excluído com sucesso", nil)
}

// cpfEmUso checks whether another patient already holds the given CPF.
func (h *PacienteHandler) cpfEmUso(cpf string, excetoID uint) (bool, error) {
	query := h.DB.Model(&models.Paciente{}).Where("cpf = ?", cpf)
	if excetoID != 0 {
		query = query.Where("id_paciente <> ?", excetoID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
