package pagination

import (
	"reflect"
	"testing"
)

func TestParseClamping(t *testing.T) {
	tests := []struct {
		name                    string
		page, limit             string
		sortBy, sortOrder       string
		defaultSort             string
		maxLimit                int
		wantPage, wantLimit     int
		wantSkip                int
		wantSortBy, wantOrder   string
	}{
		{"defaults", "", "", "", "", "created_at", 100, 1, 10, 0, "created_at", "desc"},
		{"negative page and oversized limit", "-5", "9999", "", "", "created_at", 100, 1, 100, 0, "created_at", "desc"},
		{"non numeric", "abc", "xyz", "", "", "created_at", 100, 1, 10, 0, "created_at", "desc"},
		{"zero page", "0", "25", "name", "asc", "created_at", 100, 1, 25, 0, "name", "asc"},
		{"skip computed", "3", "20", "", "", "id", 100, 3, 20, 40, "id", "desc"},
		{"bad sort order falls back", "1", "10", "name", "sideways", "id", 100, 1, 10, 0, "name", "desc"},
		{"sort by injection rejected", "1", "10", "name; DROP TABLE", "asc", "id", 100, 1, 10, 0, "id", "asc"},
		{"limit exactly at cap", "1", "100", "", "", "id", 100, 1, 100, 0, "id", "desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.page, tt.limit, tt.sortBy, tt.sortOrder, tt.defaultSort, tt.maxLimit)
			if got.Page != tt.wantPage || got.Limit != tt.wantLimit || got.Skip != tt.wantSkip {
				t.Errorf("Parse() = %+v, want page=%d limit=%d skip=%d", got, tt.wantPage, tt.wantLimit, tt.wantSkip)
			}
			if got.SortBy != tt.wantSortBy || got.SortOrder != tt.wantOrder {
				t.Errorf("Parse() sort = %s %s, want %s %s", got.SortBy, got.SortOrder, tt.wantSortBy, tt.wantOrder)
			}
		})
	}
}

func TestOrderClause(t *testing.T) {
	p := Parse("2", "10", "name", "asc", "id", 100)
	if got := p.OrderClause(); got != "name ASC" {
		t.Errorf("OrderClause() = %q, want %q", got, "name ASC")
	}
}

func TestSearchFilter(t *testing.T) {
	clause, args := SearchFilter("Mandiri", []string{"code", "name"})
	wantClause := "(LOWER(code) LIKE ? OR LOWER(name) LIKE ?)"
	if clause != wantClause {
		t.Errorf("clause = %q, want %q", clause, wantClause)
	}
	wantArgs := []interface{}{"%mandiri%", "%mandiri%"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("args = %v, want %v", args, wantArgs)
	}
}

func TestSearchFilterEmpty(t *testing.T) {
	if clause, args := SearchFilter("", []string{"name"}); clause != "" || args != nil {
		t.Errorf("empty term should produce no filter, got %q %v", clause, args)
	}
	if clause, args := SearchFilter("  ", []string{"name"}); clause != "" || args != nil {
		t.Errorf("blank term should produce no filter, got %q %v", clause, args)
	}
	if clause, _ := SearchFilter("x", nil); clause != "" {
		t.Errorf("no fields should produce no filter, got %q", clause)
	}
}

func TestNewResultMetadata(t *testing.T) {
	tests := []struct {
		name           string
		page, limit    int
		total          int64
		wantTotalPages int
		wantNext       bool
		wantPrev       bool
	}{
		{"empty result", 1, 10, 0, 0, false, false},
		{"single page", 1, 10, 7, 1, false, false},
		{"first of many", 1, 10, 35, 4, true, false},
		{"middle page", 2, 10, 35, 4, true, true},
		{"last page", 4, 10, 35, 4, false, true},
		{"page beyond range", 9, 10, 35, 4, false, true},
		{"exact division", 2, 10, 20, 2, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResult([]string{}, tt.page, tt.limit, tt.total)
			m := r.Meta
			if m.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", m.TotalPages, tt.wantTotalPages)
			}
			if m.HasNext != tt.wantNext || m.HasPrev != tt.wantPrev {
				t.Errorf("HasNext/HasPrev = %v/%v, want %v/%v", m.HasNext, m.HasPrev, tt.wantNext, tt.wantPrev)
			}
			if m.Page != tt.page || m.Limit != tt.limit || m.Total != tt.total {
				t.Errorf("meta echoes = %+v", m)
			}
		})
	}
}
