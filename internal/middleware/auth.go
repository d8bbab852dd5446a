package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"clinica-api/internal/config"
	"clinica-api/internal/models"
	"clinica-api/internal/utils"
)

// Context keys set by AuthMiddleware for downstream handlers.
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// AuthMiddleware creates a middleware for JWT authentication.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Token não fornecido")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 {
			utils.Unauthorized(c, "Erro no formato do token")
			c.Abort()
			return
		}

		if !strings.EqualFold(parts[0], "Bearer") {
			utils.Unauthorized(c, "Token mal formatado")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1], cfg.JWTSecret)
		if err != nil {
			utils.Unauthorized(c, "Token inválido")
			c.Abort()
			return
		}

		// Set caller identity in context for downstream handlers
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)

		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware for role-based authorization.
// It must be used after AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRoleFromContext(c)
		if !ok {
			utils.Forbidden(c, "Acesso negado: você não tem permissão para acessar este recurso")
			c.Abort()
			return
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}

		utils.Forbidden(c, "Acesso negado: você não tem permissão para acessar este recurso")
		c.Abort()
	}
}

// GetUserIDFromContext returns the authenticated caller id.
func GetUserIDFromContext(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// GetUserRoleFromContext returns the authenticated caller role.
func GetUserRoleFromContext(c *gin.Context) (models.Role, bool) {
	value, exists := c.Get(ContextUserRole)
	if !exists {
		return "", false
	}
	role, ok := value.(models.Role)
	return role, ok
}
