package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinica-api/internal/utils"
)

// parseIDParam reads the :id route parameter. Responds 400 and returns false
// when it is not a positive integer.
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.BadRequest(c, "ID inválido")
		return 0, false
	}
	return uint(id), true
}

// parseDateQuery accepts RFC3339 timestamps or plain dates (2006-01-02).
func parseDateQuery(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// isUniqueViolation reports whether err is a uniqueness constraint failure
// from the storage engine. The string check covers drivers that predate
// gorm's error translation.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") || strings.Contains(msg, "unique constraint")
}

// isForeignKeyViolation reports whether err is a dependent-row constraint
// failure from the storage engine.
func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}
