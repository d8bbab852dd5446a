package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinica-api/internal/config"
	"clinica-api/internal/models"
	"clinica-api/internal/utils"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg}
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email string `json:"email" binding:"required"`
	Senha string `json:"senha" binding:"required"`
}

// Login authenticates a user and issues an access token. Unknown email and
// wrong password answer with the same message so callers cannot tell which
// of the two failed.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Email e senha são obrigatórios")
		return
	}

	var usuario models.Usuario
	if err := h.DB.Where("email = ?", req.Email).First(&usuario).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Unauthorized(c, "Credenciais inválidas")
		} else {
			utils.InternalServerError(c, "Erro interno do servidor", err)
		}
		return
	}

	if !usuario.CheckSenha(req.Senha) {
		utils.Unauthorized(c, "Credenciais inválidas")
		return
	}

	token, err := utils.GenerateToken(&usuario, h.Cfg.JWTSecret, time.Duration(h.Cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		utils.InternalServerError(c, "Erro interno do servidor", err)
		return
	}

	utils.Success(c, "Login realizado com sucesso", gin.H{
		"usuario": usuario.Sanitize(),
		"token":   token,
	})
}

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	Nome  string      `json:"nome" binding:"required"`
	Email string      `json:"email" binding:"required,email"`
	Senha string      `json:"senha" binding:"required,min=6"`
	Role  models.Role `json:"role" binding:"omitempty,oneof=admin medico recepcionista"`
}

// Register creates a new credential. The role defaults to recepcionista.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Nome, email e senha são obrigatórios")
		return
	}

	var existente models.Usuario
	err := h.DB.Where("email = ?", req.Email).First(&existente).Error
	if err == nil {
		utils.Conflict(c, "Email já está em uso")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.InternalServerError(c, "Erro interno do servidor", err)
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleRecepcionista
	}

	usuario := models.Usuario{
		Nome:  req.Nome,
		Email: req.Email,
		Role:  role,
	}
	if err := usuario.SetSenha(req.Senha); err != nil {
		utils.InternalServerError(c, "Erro interno do servidor", err)
		return
	}

	if err := h.DB.Create(&usuario).Error; err != nil {
		// Lost the race against a concurrent registration with the same email.
		if isUniqueViolation(err) {
			utils.Conflict(c, "Email já está em uso")
			return
		}
		utils.InternalServerError(c, "Erro interno do servidor", err)
		return
	}

	token, err := utils.GenerateToken(&usuario, h.Cfg.JWTSecret, time.Duration(h.Cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		utils.InternalServerError(c, "Erro interno do servidor", err)
		return
	}

	utils.Created(c, "Usuário registrado com sucesso", gin.H{
		"usuario": usuario.Sanitize(),
		"token":   token,
	})
}
