package models

import (
	"time"
)

// StatusConsulta represents the status of an appointment
type StatusConsulta string

const (
	ConsultaAgendada  StatusConsulta = "Agendada"
	ConsultaRealizada StatusConsulta = "Realizada"
	ConsultaCancelada StatusConsulta = "Cancelada"
)

// Consulta represents a scheduled medical appointment.
// At most one non-cancelled appointment may exist per doctor and timestamp;
// cancelling an appointment frees the slot for reuse.
type Consulta struct {
	ID           uint           `gorm:"column:id_consulta;primaryKey;autoIncrement" json:"id_consulta"`
	IDPaciente   uint           `gorm:"column:id_paciente;not null;index" json:"id_paciente"`
	IDMedico     uint           `gorm:"column:id_medico;not null;index" json:"id_medico"`
	DataConsulta time.Time      `gorm:"column:data_consulta;not null" json:"data_consulta"`
	Status       StatusConsulta `gorm:"size:20;not null;default:'Agendada'" json:"status"`
	Motivo       string         `gorm:"size:255" json:"motivo,omitempty"`
	CreatedAt    time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	Paciente    *Paciente    `gorm:"foreignKey:IDPaciente" json:"paciente,omitempty"`
	Medico      *Medico      `gorm:"foreignKey:IDMedico" json:"medico,omitempty"`
	Exames      []Exame      `gorm:"foreignKey:IDConsulta;constraint:OnDelete:RESTRICT" json:"-"`
	Prescricoes []Prescricao `gorm:"foreignKey:IDConsulta;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Consulta) TableName() string { return "consultas" }
