package helpers

import (
	"testing"
	"time"
)

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantOffset uint64
		wantLimit  int
	}{
		{name: "first page", page: 1, size: 10, wantOffset: 0, wantLimit: 10},
		{name: "third page", page: 3, size: 20, wantOffset: 40, wantLimit: 20},
		{name: "zero page clamps to first", page: 0, size: 10, wantOffset: 0, wantLimit: 10},
		{name: "negative size falls back", page: 2, size: -1, wantOffset: 10, wantLimit: DefaultPageSize},
		{name: "oversized page size falls back", page: 1, size: 500, wantOffset: 0, wantLimit: DefaultPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(tt.page, tt.size)
			if offset != tt.wantOffset || limit != tt.wantLimit {
				t.Errorf("got (%d, %d), want (%d, %d)", offset, limit, tt.wantOffset, tt.wantLimit)
			}
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	tests := []struct {
		name       string
		totalItems int64
		page, size int
		wantPages  int
		wantPage   int
	}{
		{name: "even split", totalItems: 40, page: 1, size: 10, wantPages: 4, wantPage: 1},
		{name: "remainder adds a page", totalItems: 41, page: 1, size: 10, wantPages: 5, wantPage: 1},
		{name: "empty result still has one page", totalItems: 0, page: 1, size: 10, wantPages: 1, wantPage: 1},
		{name: "page beyond range clamps", totalItems: 20, page: 9, size: 10, wantPages: 2, wantPage: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPaginationInfo(tt.totalItems, tt.page, tt.size)
			if info.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", info.TotalPages, tt.wantPages)
			}
			if info.CurrentPage != tt.wantPage {
				t.Errorf("CurrentPage = %d, want %d", info.CurrentPage, tt.wantPage)
			}
			if info.TotalItems != tt.totalItems {
				t.Errorf("TotalItems = %d, want %d", info.TotalItems, tt.totalItems)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	if got := ParseDuration("", time.Minute); got != time.Minute {
		t.Errorf("empty string: got %v, want the fallback", got)
	}
	if got := ParseDuration("nonsense", time.Minute); got != time.Minute {
		t.Errorf("malformed string: got %v, want the fallback", got)
	}
	if got := ParseDuration("90s", time.Minute); got != 90*time.Second {
		t.Errorf("got %v, want 90s", got)
	}
}
