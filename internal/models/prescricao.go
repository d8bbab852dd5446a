package models

import (
	"time"
)

// Prescricao represents a medication prescribed during an appointment.
// IDPaciente must match the patient of the referenced Consulta.
type Prescricao struct {
	ID             uint      `gorm:"column:id_prescricao;primaryKey;autoIncrement" json:"id_prescricao"`
	IDConsulta     uint      `gorm:"column:id_consulta;not null;index" json:"id_consulta"`
	IDPaciente     uint      `gorm:"column:id_paciente;not null;index" json:"id_paciente"`
	Medicamento    string    `gorm:"size:255;not null" json:"medicamento"`
	Dosagem        string    `gorm:"size:100;not null" json:"dosagem"`
	Instrucoes     string    `gorm:"type:text;not null" json:"instrucoes"`
	DataPrescricao time.Time `gorm:"column:data_prescricao;not null" json:"data_prescricao"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	Paciente *Paciente `gorm:"foreignKey:IDPaciente" json:"paciente,omitempty"`
	Consulta *Consulta `gorm:"foreignKey:IDConsulta" json:"consulta,omitempty"`
}

func (Prescricao) TableName() string { return "prescricoes" }
