package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginatedResult(t *testing.T) {
	t.Run("middle page", func(t *testing.T) {
		p := NewPaginatedResult([]int{1, 2, 3}, 25, Pagination{Page: 2, Limit: 10})
		assert.Equal(t, 25, p.Total)
		assert.Equal(t, 3, p.TotalPages)
		assert.True(t, p.HasNextPage)
		assert.True(t, p.HasPrevPage)
	})

	t.Run("first page", func(t *testing.T) {
		p := NewPaginatedResult([]int{1}, 25, Pagination{Page: 1, Limit: 10})
		assert.True(t, p.HasNextPage)
		assert.False(t, p.HasPrevPage)
	})

	t.Run("last page", func(t *testing.T) {
		p := NewPaginatedResult([]int{1}, 25, Pagination{Page: 3, Limit: 10})
		assert.False(t, p.HasNextPage)
		assert.True(t, p.HasPrevPage)
	})

	t.Run("empty result", func(t *testing.T) {
		p := NewPaginatedResult([]int{}, 0, Pagination{Page: 1, Limit: 10})
		assert.Equal(t, 0, p.TotalPages)
		assert.False(t, p.HasNextPage)
		assert.False(t, p.HasPrevPage)
	})

	t.Run("total not divisible by limit rounds up", func(t *testing.T) {
		p := NewPaginatedResult([]int{}, 11, Pagination{Page: 1, Limit: 10})
		assert.Equal(t, 2, p.TotalPages)
	})
}

func TestPaginationOffset(t *testing.T) {
	assert.Equal(t, 0, Pagination{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 40, Pagination{Page: 5, Limit: 10}.Offset())
}
