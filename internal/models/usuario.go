package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleMedico        Role = "medico"
	RoleRecepcionista Role = "recepcionista"
)

// Usuario represents a login credential. IDReferencia links a medico-role
// credential to its Medico record; it is a soft reference, not a foreign key.
type Usuario struct {
	ID           uint      `gorm:"column:id_usuario;primaryKey;autoIncrement" json:"id_usuario"`
	Nome         string    `gorm:"size:255;not null" json:"nome"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Senha        string    `gorm:"size:255;not null" json:"-"` // Never send the hash in JSON
	Role         Role      `gorm:"size:20;not null;default:'recepcionista'" json:"role"`
	IDReferencia *uint     `gorm:"column:id_referencia" json:"id_referencia,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Usuario) TableName() string { return "usuarios" }

// UsuarioSanitizado is the caller-safe projection returned by login/register.
type UsuarioSanitizado struct {
	ID    uint   `json:"id"`
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// SetSenha hashes a clear text password and sets it on the user.
func (u *Usuario) SetSenha(senha string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Senha = string(hash)
	return nil
}

// CheckSenha compares a clear text password with the stored hash.
func (u *Usuario) CheckSenha(senha string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Senha), []byte(senha)) == nil
}

// Sanitize strips the credential down to the fields safe for API responses.
func (u *Usuario) Sanitize() UsuarioSanitizado {
	return UsuarioSanitizado{
		ID:    u.ID,
		Nome:  u.Nome,
		Email: u.Email,
		Role:  u.Role,
	}
}
