package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name        string
		page, limit string
		want        Pagination
		offset      int
	}{
		{"defaults", "", "", Pagination{1, DefaultPageSize}, 0},
		{"garbage", "x", "-4", Pagination{1, DefaultPageSize}, 0},
		{"third page", "3", "10", Pagination{3, 10}, 20},
		{"capped", "1", "5000", Pagination{1, MaxPageSize}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPagination(tt.page, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.offset, got.Offset())
		})
	}
}
