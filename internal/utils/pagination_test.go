package utils_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"clinica-api/internal/utils"
)

func paginationFor(query string) utils.Pagination {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return utils.GetPagination(c)
}

func TestGetPagination(t *testing.T) {
	t.Run("padroes", func(t *testing.T) {
		p := paginationFor("")
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 10, p.Limit)
		assert.Equal(t, 0, p.Offset)
	})

	t.Run("valores explicitos", func(t *testing.T) {
		p := paginationFor("page=3&limit=5")
		assert.Equal(t, 3, p.Page)
		assert.Equal(t, 5, p.Limit)
		assert.Equal(t, 10, p.Offset)
	})

	t.Run("valores invalidos voltam ao padrao", func(t *testing.T) {
		p := paginationFor("page=abc&limit=-2")
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 10, p.Limit)
	})
}

func TestPages(t *testing.T) {
	p := utils.Pagination{Page: 1, Limit: 10}
	assert.Equal(t, 2, p.Pages(15))
	assert.Equal(t, 1, p.Pages(10))
	assert.Equal(t, 1, p.Pages(1))
	assert.Equal(t, 0, p.Pages(0))
}
