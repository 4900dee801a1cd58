package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		page, size         int
		wantOffset, wantLm int
	}{
		{name: "first page", page: 1, size: 10, wantOffset: 0, wantLm: 10},
		{name: "third page", page: 3, size: 10, wantOffset: 20, wantLm: 10},
		{name: "zero page", page: 0, size: 5, wantOffset: 0, wantLm: 5},
		{name: "default size", page: 2, size: 0, wantOffset: DefaultPageSize, wantLm: DefaultPageSize},
		{name: "capped size", page: 1, size: 1000, wantOffset: 0, wantLm: MaxPageSize},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			off, lim := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.wantOffset, off)
			assert.Equal(t, tt.wantLm, lim)
		})
	}
}

func TestPaging(t *testing.T) {
	t.Parallel()

	_, _, ok := Paging("", "")
	assert.False(t, ok)

	off, lim, ok := Paging("2", "")
	assert.True(t, ok)
	assert.Equal(t, DefaultPageSize, off)
	assert.Equal(t, DefaultPageSize, lim)

	off, lim, ok = Paging("x", "5")
	assert.True(t, ok)
	assert.Equal(t, 0, off)
	assert.Equal(t, 5, lim)
}
