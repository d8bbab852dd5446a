package models

import (
	"time"
)

// Paciente represents a patient of the clinic.
type Paciente struct {
	ID             uint      `gorm:"column:id_paciente;primaryKey;autoIncrement" json:"id_paciente"`
	Nome           string    `gorm:"size:255;not null" json:"nome"`
	CPF            string    `gorm:"column:cpf;size:14;uniqueIndex;not null" json:"cpf"`
	DataNascimento string    `gorm:"column:data_nascimento;type:date;not null" json:"data_nascimento"`
	Telefone       string    `gorm:"size:20;not null" json:"telefone"`
	Email          string    `gorm:"size:255" json:"email,omitempty"`
	Endereco       string    `gorm:"size:255" json:"endereco,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`

	// Relations; dependent rows block deletion
	Consultas   []Consulta   `gorm:"foreignKey:IDPaciente;constraint:OnDelete:RESTRICT" json:"-"`
	Prontuarios []Prontuario `gorm:"foreignKey:IDPaciente;constraint:OnDelete:RESTRICT" json:"-"`
	Exames      []Exame      `gorm:"foreignKey:IDPaciente;constraint:OnDelete:RESTRICT" json:"-"`
	Prescricoes []Prescricao `gorm:"foreignKey:IDPaciente;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Paciente) TableName() string { return "pacientes" }
