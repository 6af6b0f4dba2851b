package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Offset(t *testing.T) {
	assert.Equal(t, 0, DefaultFilter().Offset())
	assert.Equal(t, 40, Filter{Page: 3, PageSize: 20}.Offset())
	assert.Equal(t, 0, Filter{Page: 3}.Offset())
	assert.False(t, Filter{PageSize: 10}.Paged())
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 20, 0},
		{40, 20, 2},
		{41, 20, 3},
		{1, 100, 1},
		{10, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PageCount(tt.total, tt.pageSize), "total=%d size=%d", tt.total, tt.pageSize)
	}
}

func TestEndOfDay(t *testing.T) {
	assert.Nil(t, EndOfDay(nil))

	day := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	end := EndOfDay(&day)

	assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 59, 999999999, time.UTC), *end)
	assert.True(t, end.Before(day.AddDate(0, 0, 1)))
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), day)
}
