package models

import (
	"time"
)

// StatusExame represents the status of an exam request
type StatusExame string

const (
	ExameSolicitado  StatusExame = "Solicitado"
	ExameEmAndamento StatusExame = "Em Andamento"
	ExameConcluido   StatusExame = "Concluído"
)

// Exame represents an exam requested during an appointment.
// IDPaciente must match the patient of the referenced Consulta.
type Exame struct {
	ID              uint        `gorm:"column:id_exame;primaryKey;autoIncrement" json:"id_exame"`
	IDConsulta      uint        `gorm:"column:id_consulta;not null;index" json:"id_consulta"`
	IDPaciente      uint        `gorm:"column:id_paciente;not null;index" json:"id_paciente"`
	TipoExame       string      `gorm:"column:tipo_exame;size:255;not null" json:"tipo_exame"`
	DataSolicitacao time.Time   `gorm:"column:data_solicitacao;not null" json:"data_solicitacao"`
	Resultado       string      `gorm:"type:text" json:"resultado,omitempty"`
	Status          StatusExame `gorm:"size:20;not null;default:'Solicitado'" json:"status"`
	CreatedAt       time.Time   `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	Paciente *Paciente `gorm:"foreignKey:IDPaciente" json:"paciente,omitempty"`
	Consulta *Consulta `gorm:"foreignKey:IDConsulta" json:"consulta,omitempty"`
}

func (Exame) TableName() string { return "exames" }
