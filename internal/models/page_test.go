package models

import (
	"math"
	"testing"
)

func TestNewPageRequest(t *testing.T) {
	tests := []struct {
		name       string
		pageNumber int
		pageSize   int
		expected   PageRequest
	}{
		{"explicit values", 2, 15, PageRequest{PageNumber: 2, PageSize: 15}},
		{"negative page number", -1, 10, PageRequest{PageNumber: 0, PageSize: 10}},
		{"zero page size", 3, 0, PageRequest{PageNumber: 3, PageSize: 25}},
		{"negative page size", 0, -5, PageRequest{PageNumber: 0, PageSize: 25}},
		{"page size at max", 0, MaxPageSize, PageRequest{PageNumber: 0, PageSize: MaxPageSize}},
		{"page size above max", 1, 1 << 62, PageRequest{PageNumber: 1, PageSize: MaxPageSize}},
		{"huge page number", math.MaxInt, 4, PageRequest{PageNumber: math.MaxInt, PageSize: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPageRequest(tt.pageNumber, tt.pageSize)
			if got != tt.expected {
				t.Errorf("NewPageRequest(%d, %d) = %+v, want %+v", tt.pageNumber, tt.pageSize, got, tt.expected)
			}
		})
	}

	if DefaultPageRequest() != (PageRequest{PageNumber: 0, PageSize: 25}) {
		t.Errorf("unexpected default page request %+v", DefaultPageRequest())
	}
}

func TestPageRequest_Offset(t *testing.T) {
	tests := []struct {
		name     string
		req      PageRequest
		expected int
	}{
		{"first page", NewPageRequest(0, 25), 0},
		{"fourth page", NewPageRequest(3, 25), 75},
		{"product overflows", NewPageRequest(1<<62, 4), math.MaxInt},
		{"product overflows at max size", NewPageRequest(math.MaxInt, MaxPageSize), math.MaxInt},
		{"largest exact offset", PageRequest{PageNumber: math.MaxInt / 2, PageSize: 2}, math.MaxInt - 1},
		{"negative page number literal", PageRequest{PageNumber: -2, PageSize: 10}, 0},
		{"zero page size literal", PageRequest{PageNumber: 3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Offset(); got != tt.expected {
				t.Errorf("Offset() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestNewPage(t *testing.T) {
	t.Run("middle page", func(t *testing.T) {
		page := NewPage([]string{"a", "b"}, NewPageRequest(1, 2), 5)

		if page.TotalPages != 3 {
			t.Errorf("TotalPages = %d, want 3", page.TotalPages)
		}
		if page.First || page.Last {
			t.Errorf("expected neither first nor last, got first=%v last=%v", page.First, page.Last)
		}
		if page.NumberOfElements != 2 {
			t.Errorf("NumberOfElements = %d, want 2", page.NumberOfElements)
		}
	})

	t.Run("last page", func(t *testing.T) {
		page := NewPage([]string{"e"}, NewPageRequest(2, 2), 5)
		if !page.Last {
			t.Error("expected last page")
		}
	})

	t.Run("page number at max int", func(t *testing.T) {
		page := NewPage[string](nil, NewPageRequest(math.MaxInt, 2), 5)
		if !page.Last || page.First || !page.Empty {
			t.Errorf("unexpected flags %+v", page)
		}
	})

	t.Run("nil content becomes empty", func(t *testing.T) {
		page := NewPage[string](nil, DefaultPageRequest(), 0)
		if page.Content == nil {
			t.Fatal("content must not be nil")
		}
		if !page.Empty || !page.First || !page.Last {
			t.Errorf("unexpected flags %+v", page)
		}
		if page.TotalPages != 0 {
			t.Errorf("TotalPages = %d, want 0", page.TotalPages)
		}
	})
}
