package models

import (
	"time"
)

// Medico represents a doctor. CRM is the medical license number, unique per doctor.
type Medico struct {
	ID            uint      `gorm:"column:id_medico;primaryKey;autoIncrement" json:"id_medico"`
	Nome          string    `gorm:"size:255;not null" json:"nome"`
	CRM           string    `gorm:"column:crm;size:20;uniqueIndex;not null" json:"crm"`
	Especialidade string    `gorm:"size:100;not null" json:"especialidade"`
	Telefone      string    `gorm:"size:20;not null" json:"telefone"`
	Email         string    `gorm:"size:255" json:"email,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`

	Consultas []Consulta `gorm:"foreignKey:IDMedico;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Medico) TableName() string { return "medicos" }
