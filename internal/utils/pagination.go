package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination carries the page window parsed from the query string.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// GetPagination reads page/limit query parameters, defaulting to 1/10.
func GetPagination(c *gin.Context) Pagination {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	return Pagination{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// Pages computes the total page count for a result set.
func (p Pagination) Pages(total int64) int {
	return int(math.Ceil(float64(total) / float64(p.Limit)))
}
