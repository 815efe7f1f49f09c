package helpers_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/placementprep/internal/pkg/helpers"
)

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		page, size    int
		offset, limit uint64
	}{
		{1, 10, 0, 10},
		{3, 10, 20, 10},
		{0, 10, 0, 10},
		{2, 0, 20, 20},
		{1, 500, 0, 20},
	}
	for _, tt := range tests {
		offset, limit := helpers.CalculateOffsetLimit(tt.page, tt.size)
		if offset != tt.offset || limit != tt.limit {
			t.Errorf("CalculateOffsetLimit(%d, %d) = %d, %d", tt.page, tt.size, offset, limit)
		}
	}
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query      string
		page, size int
	}{
		{"", 1, 20},
		{"?page=2&size=5", 2, 5},
		{"?page=-1&size=abc", 1, 20},
		{"?size=1000", 1, 20},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/"+tt.query, nil)
		page, size := helpers.ParsePaginationParams(c)
		if page != tt.page || size != tt.size {
			t.Errorf("%q: got %d, %d", tt.query, page, size)
		}
	}
}

func TestParseDuration(t *testing.T) {
	if got := helpers.ParseDuration("90s", time.Second); got != 90*time.Second {
		t.Errorf("got %v", got)
	}
	if got := helpers.ParseDuration("soon", time.Minute); got != time.Minute {
		t.Errorf("invalid: got %v", got)
	}
	if got := helpers.ParseDuration("", time.Minute); got != time.Minute {
		t.Errorf("empty: got %v", got)
	}
}
