package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinica-api/internal/models"
	"clinica-api/internal/utils"
)

// ConsultaHandler handles appointment related requests.
type ConsultaHandler struct {
	DB *gorm.DB
}

// NewConsultaHandler creates a new ConsultaHandler.
func NewConsultaHandler(db *gorm.DB) *ConsultaHandler {
	return &ConsultaHandler{DB: db}
}

// ListarConsultas lists appointments, newest first, with optional filters on
// patient, doctor, status and an inclusive date range.
func (h *ConsultaHandler) ListarConsultas(c *gin.Context) {
	p := utils.GetPagination(c)

	query := h.DB.Model(&models.Consulta{})

	if v := c.Query("id_paciente"); v != "" {
		query = query.Where("id_paciente = ?", v)
	}
	if v := c.Query("id_medico"); v != "" {
		query = query.Where("id_medico = ?", v)
	}
	if v := c.Query("status"); v != "" {
		query = query.Where("status = ?", v)
	}

	inicio := c.Query("data_inicio")
	fim := c.Query("data_fim")
	switch {
	case inicio != "" && fim != "":
		dataInicio, err := parseDateQuery(inicio)
		if err != nil {
			utils.BadRequest(c, "Data inicial inválida")
			return
		}
		dataFim, err := parseDateQuery(fim)
		if err != nil {
			utils.BadRequest(c, "Data final inválida")
			return
		}
		query = query.Where("data_consulta BETWEEN ? AND ?", dataInicio, dataFim)
	case inicio != "":
		dataInicio, err := parseDateQuery(inicio)
		if err != nil {
			utils.BadRequest(c, "Data inicial inválida")
			return
		}
		query = query.Where("data_consulta >= ?", dataInicio)
	case fim != "":
		dataFim, err := parseDateQuery(fim)
		if err != nil {
			utils.BadRequest(c, "Data final inválida")
			return
		}
		query = query.Where("data_consulta <= ?", dataFim)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Erro ao listar consultas", err)
		return
	}

	var consultas []models.Consulta
	err := query.Preload("Paciente").Preload("Medico").
		Order("data_consulta DESC").Offset(p.Offset).Limit(p.Limit).
		Find(&consultas).Error
	if err != nil {
		utils.InternalServerError(c, "Erro ao listar consultas", err)
		return
	}

	utils.Success(c, "Consultas listadas com sucesso", gin.H{
		"consultas": consultas,
		"total":     total,
		"page":      p.Page,
		"limit":     p.Limit,
		"pages":     p.Pages(total),
	})
}

// ObterConsulta fetches a single appointment with patient and doctor embedded.
func (h *ConsultaHandler) ObterConsulta(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	consulta, err := h.consultaComRelacionados(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Consulta não encontrada")
		} else {
			utils.InternalServerError(c, "Erro ao obter consulta", err)
		}
		return
	}

	utils.Success(c, "Consulta encontrada com sucesso", consulta)
}

// CriarConsultaRequest represents the request body for creating an appointment.
type CriarConsultaRequest struct {
	IDPaciente   uint                  `json:"id_paciente" binding:"required"`
	IDMedico     uint                  `json:"id_medico" binding:"required"`
	DataConsulta time.Time             `json:"data_consulta" binding:"required"`
	Status       models.StatusConsulta `json:"status" binding:"omitempty,oneof=Agendada Realizada Cancelada"`
	Motivo       string                `json:"motivo"`
}

// CriarConsulta creates a new appointment after checking that both patient
// and doctor exist and that the doctor has no other active appointment at
// the same timestamp.
func (h *ConsultaHandler) CriarConsulta(c *gin.Context) {
	var req CriarConsultaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Dados obrigatórios não fornecidos")
		return
	}

	if !h.verificarPaciente(c, req.IDPaciente) || !h.verificarMedico(c, req.IDMedico) {
		return
	}

	conflito, err := h.existeConflito(req.IDMedico, req.DataConsulta, 0)
	if err != nil {
		utils.InternalServerError(c, "Erro ao criar consulta", err)
		return
	}
	if conflito {
		utils.Conflict(c, "Já existe uma consulta agendada para este médico neste horário")
		return
	}

	status := req.Status
	if status == "" {
		status = models.ConsultaAgendada
	}

	consulta := models.Consulta{
		IDPaciente:   req.IDPaciente,
		IDMedico:     req.IDMedico,
		DataConsulta: req.DataConsulta,
		Status:       status,
		Motivo:       req.Motivo,
	}

	if err := h.DB.Create(&consulta).Error; err != nil {
		utils.InternalServerError(c, "Erro ao criar consulta", err)
		return
	}

	completa, err := h.consultaComRelacionados(consulta.ID)
	if err != nil {
		utils.InternalServerError(c, "Erro ao criar consulta", err)
		return
	}

	utils.Created(c, "Consulta criada com sucesso", completa)
}

// AtualizarConsultaRequest represents the request body for replacing an appointment.
type AtualizarConsultaRequest struct {
	IDPaciente   uint                  `json:"id_paciente" binding:"required"`
	IDMedico     uint                  `json:"id_medico" binding:"required"`
	DataConsulta time.Time             `json:"data_consulta" binding:"required"`
	Status       models.StatusConsulta `json:"status" binding:"required,oneof=Agendada Realizada Cancelada"`
	Motivo       string                `json:"motivo"`
}

// AtualizarConsulta replaces every field of an existing appointment. The
// collision check is re-run only when the doctor or timestamp changes, and
// always excludes the record itself so a no-op update does not self-conflict.
func (h *ConsultaHandler) AtualizarConsulta(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AtualizarConsultaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Dados obrigatórios não fornecidos")
		return
	}

	var consulta models.Consulta
	if err := h.DB.First(&consulta, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Consulta não encontrada")
		} else {
			utils.InternalServerError(c, "Erro ao atualizar consulta", err)
		}
		return
	}

	if !h.verificarPaciente(c, req.IDPaciente) || !h.verificarMedico(c, req.IDMedico) {
		return
	}

	if req.IDMedico != consulta.IDMedico || !req.DataConsulta.Equal(consulta.DataConsulta) {
		conflito, err := h.existeConflito(req.IDMedico, req.DataConsulta, consulta.ID)
		if err != nil {
			utils.InternalServerError(c, "Erro ao atualizar consulta", err)
			return
		}
		if conflito {
			utils.Conflict(c, "Já existe uma consulta agendada para este médico neste horário")
			return
		}
	}

	consulta.IDPaciente = req.IDPaciente
	consulta.IDMedico = req.IDMedico
	consulta.DataConsulta = req.DataConsulta
	consulta.Status = req.Status
	consulta.Motivo = req.Motivo

	if err := h.DB.Save(&consulta).Error; err != nil {
		utils.InternalServerError(c, "Erro ao atualizar consulta", err)
		return
	}

	atualizada, err := h.consultaComRelacionados(consulta.ID)
	if err != nil {
		utils.InternalServerError(c, "Erro ao atualizar consulta", err)
		return
	}

	utils.Success(c, "Consulta atualizada com sucesso", atualizada)
}

// AtualizarParcialConsultaRequest carries the fields a PATCH may touch.
type AtualizarParcialConsultaRequest struct {
	IDPaciente   *uint                  `json:"id_paciente"`
	IDMedico     *uint                  `json:"id_medico"`
	DataConsulta *time.Time             `json:"data_consulta"`
	Status       *models.StatusConsulta `json:"status" validate:"omitempty,oneof=Agendada Realizada Cancelada"`
	Motivo       *string                `json:"motivo"`
}

// AtualizarParcialConsulta updates only the provided fields. The collision
// check runs against the hypothetical merged state, and only when the doctor
// or timestamp actually changes.
func (h *ConsultaHandler) AtualizarParcialConsulta(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AtualizarParcialConsultaRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var consulta models.Consulta
	if err := h.DB.First(&consulta, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Consulta não encontrada")
		} else {
			utils.InternalServerError(c, "Erro ao atualizar consulta", err)
		}
		return
	}

	mudouMedico := req.IDMedico != nil && *req.IDMedico != consulta.IDMedico
	mudouData := req.DataConsulta != nil && !req.DataConsulta.Equal(consulta.DataConsulta)

	if mudouMedico || mudouData {
		if req.IDMedico != nil && !h.verificarMedico(c, *req.IDMedico) {
			return
		}

		// Merged state: changed fields override current values.
		idMedico := consulta.IDMedico
		if req.IDMedico != nil {
			idMedico = *req.IDMedico
		}
		dataConsulta := consulta.DataConsulta
		if req.DataConsulta != nil {
			dataConsulta = *req.DataConsulta
		}

		conflito, err := h.existeConflito(idMedico, dataConsulta, consulta.ID)
		if err != nil {
			utils.InternalServerError(c, "Erro ao atualizar consulta", err)
			return
		}
		if conflito {
			utils.Conflict(c, "Já existe uma consulta agendada para este médico neste horário")
			return
		}
	}

	if req.IDPaciente != nil && *req.IDPaciente != consulta.IDPaciente {
		if !h.verificarPaciente(c, *req.IDPaciente) {
			return
		}
	}

	if req.IDPaciente != nil {
		consulta.IDPaciente = *req.IDPaciente
	}
	if req.IDMedico != nil {
		consulta.IDMedico = *req.IDMedico
	}
	if req.DataConsulta != nil {
		consulta.DataConsulta = *req.DataConsulta
	}
	if req.Status != nil {
		consulta.Status = *req.Status
	}
	if req.Motivo != nil {
		consulta.Motivo = *req.Motivo
	}

	if err := h.DB.Save(&consulta).Error; err != nil {
		utils.InternalServerError(c, "Erro ao atualizar consulta", err)
		return
	}

	atualizada, err := h.consultaComRelacionados(consulta.ID)
	if err != nil {
		utils.InternalServerError(c, "Erro ao atualizar consulta", err)
		return
	}

	utils.Success(c, "Consulta atualizada com sucesso", atualizada)
}

// ExcluirConsulta removes an appointment. Exams or prescriptions referencing
// it make the storage engine reject the delete, surfaced as a conflict.
func (h *ConsultaHandler) ExcluirConsulta(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var consulta models.Consulta
	if err := h.DB.First(&consulta, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Consulta não encontrada")
		} else {
			utils.InternalServerError(c, "Erro ao excluir consulta", err)
		}
		return
	}

	if err := h.DB.Delete(&consulta).Error; err != nil {
		if isForeignKeyViolation(err) {
			utils.Conflict(c, "Não é possível excluir a consulta pois ela possui registros associados")
			return
		}
		utils.InternalServerError(c, "Erro ao excluir consulta", err)
		return
	}

	utils.Success(c, "Consulta excluída com sucesso", nil)
}

// existeConflito reports whether the doctor already has a non-cancelled
// appointment at the exact timestamp. excluirID leaves the record being
// updated out of the check.
func (h *ConsultaHandler) existeConflito(idMedico uint, data time.Time, excluirID uint) (bool, error) {
	query := h.DB.Model(&models.Consulta{}).
		Where("id_medico = ? AND data_consulta = ? AND status <> ?", idMedico, data, models.ConsultaCancelada)
	if excluirID != 0 {
		query = query.Where("id_consulta <> ?", excluirID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// verificarPaciente confirms the referenced patient exists. Responds 404 and
// returns false otherwise.
func (h *ConsultaHandler) verificarPaciente(c *gin.Context, id uint) bool {
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

// verificarMedico confirms the referenced doctor exists. Responds 404 and
// returns false otherwise.
func (h *ConsultaHandler) verificarMedico(c *gin.Context, id uint) bool {
	var medico models.Medico
	if err := h.DB.First(&medico, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Médico não encontrado")
		} else {
			utils.InternalServerError(c, "Erro ao verificar médico", err)
		}
		return false
	}
	return true
}

func (h *ConsultaHandler) consultaComRelacionados(id uint) (*models.Consulta, error) {
	var consulta models.Consulta
	err := h.DB.Preload("Paciente").Preload("Medico").First(&consulta, id).Error
	if err != nil {
		return nil, err
	}
	return &consulta, nil
}
