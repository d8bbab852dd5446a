package models

import (
	"time"
)

// Prontuario represents an entry in a patient's medical record.
type Prontuario struct {
	ID           uint      `gorm:"column:id_prontuario;primaryKey;autoIncrement" json:"id_prontuario"`
	IDPaciente   uint      `gorm:"column:id_paciente;not null;index" json:"id_paciente"`
	DataRegistro time.Time `gorm:"column:data_registro;not null" json:"data_registro"`
	Diagnostico  string    `gorm:"type:text;not null" json:"diagnostico"`
	Observacoes  string    `gorm:"type:text" json:"observacoes,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`

	Paciente *Paciente `gorm:"foreignKey:IDPaciente" json:"paciente,omitempty"`
}

func (Prontuario) TableName() string { return "prontuarios" }
