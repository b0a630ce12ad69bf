package pagination_test

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/promptdeck/pkg/pagination"
)

func defaultConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := pagination.Config{}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize failed: %v", err)
		}
		if cfg.DefaultPageSize != 20 || cfg.MaxPageSize != 100 {
			t.Errorf("got %+v, want {20 100}", cfg)
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_PAGE_SIZE", "50")
		t.Setenv("TEST_MAX_PAGE", "200")

		cfg := pagination.Config{}
		err := cfg.Finalize(&pagination.ConfigEnv{
			DefaultPageSize: "TEST_PAGE_SIZE",
			MaxPageSize:     "TEST_MAX_PAGE",
		})
		if err != nil {
			t.Fatalf("finalize failed: %v", err)
		}
		if cfg.DefaultPageSize != 50 || cfg.MaxPageSize != 200 {
			t.Errorf("got %+v, want {50 200}", cfg)
		}
	})

	t.Run("default exceeds max", func(t *testing.T) {
		cfg := pagination.Config{DefaultPageSize: 200, MaxPageSize: 100}
		err := cfg.Finalize(nil)
		if err == nil || !strings.Contains(err.Error(), "default_page_size cannot exceed max_page_size") {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestConfigMerge(t *testing.T) {
	base := pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
	base.Merge(&pagination.Config{DefaultPageSize: 50})

	if base.DefaultPageSize != 50 {
		t.Errorf("DefaultPageSize = %d, want 50", base.DefaultPageSize)
	}
	if base.MaxPageSize != 100 {
		t.Errorf("MaxPageSize = %d, want 100 (unchanged)", base.MaxPageSize)
	}
}

func TestPageRequestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		req          pagination.PageRequest
		wantPage     int
		wantPageSize int
	}{
		{"zero values get defaults", pagination.PageRequest{}, 1, 20},
		{"negative page corrected", pagination.PageRequest{Page: -1, PageSize: 10}, 1, 10},
		{"page size clamped to max", pagination.PageRequest{Page: 1, PageSize: 500}, 1, 100},
		{"valid values preserved", pagination.PageRequest{Page: 3, PageSize: 25}, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize(defaultConfig())
			if tt.req.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", tt.req.Page, tt.wantPage)
			}
			if tt.req.PageSize != tt.wantPageSize {
				t.Errorf("PageSize = %d, want %d", tt.req.PageSize, tt.wantPageSize)
			}
		})
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values := url.Values{
		"page":      {"2"},
		"page_size": {"15"},
		"search":    {"support"},
		"sort":      {"name,-createdDate"},
	}

	got := pagination.PageRequestFromQuery(values, defaultConfig())
	want := pagination.PageRequest{
		Page:     2,
		PageSize: 15,
		Search:   "support",
		Sort:     pagination.SortFields{{Field: "name"}, {Field: "createdDate", Descending: true}},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PageRequestFromQuery mismatch (-want +got):\n%s", diff)
	}

	empty := pagination.PageRequestFromQuery(url.Values{}, defaultConfig())
	if empty.Page != 1 || empty.PageSize != 20 || empty.Search != "" || empty.Sort != nil {
		t.Errorf("empty query: got %+v", empty)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		pageSize       int
		wantTotalPages int
	}{
		{"exact division", 100, 20, 5},
		{"remainder", 101, 20, 6},
		{"single page", 5, 20, 1},
		{"empty result", 0, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult([]string{"a"}, tt.total, 1, tt.pageSize)
			if result.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", result.TotalPages, tt.wantTotalPages)
			}
		})
	}

	if result := pagination.NewPageResult[string](nil, 0, 1, 20); result.Data == nil {
		t.Error("Data should be empty slice, not nil")
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name      string
		page      int
		pageSize  int
		want      []int
		wantPages int
	}{
		{"first page", 1, 3, []int{1, 2, 3}, 3},
		{"last partial page", 3, 3, []int{7}, 3},
		{"past the end", 5, 3, []int{}, 3},
		{"everything", 1, 10, items, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := pagination.PageRequest{Page: tt.page, PageSize: tt.pageSize}
			got := pagination.Paginate(items, req)

			if diff := cmp.Diff(tt.want, got.Data); diff != "" {
				t.Errorf("Data mismatch (-want +got):\n%s", diff)
			}
			if got.Total != len(items) {
				t.Errorf("Total = %d, want %d", got.Total, len(items))
			}
			if got.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", got.TotalPages, tt.wantPages)
			}
		})
	}
}

func TestPaginateCopies(t *testing.T) {
	items := []int{1, 2, 3}
	got := pagination.Paginate(items, pagination.PageRequest{Page: 1, PageSize: 2})
	got.Data[0] = 99

	if items[0] != 1 {
		t.Error("Paginate should not alias the input slice")
	}
}

func TestSortFieldsUnmarshal(t *testing.T) {
	want := pagination.SortFields{
		{Field: "name"},
		{Field: "createdDate", Descending: true},
	}

	inputs := map[string]string{
		"string": `"name,-createdDate"`,
		"array":  `[{"field":"name"},{"field":"createdDate","descending":true}]`,
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			var got pagination.SortFields
			if err := json.Unmarshal([]byte(input), &got); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}

	var bad pagination.SortFields
	if err := json.Unmarshal([]byte(`42`), &bad); err == nil {
		t.Error("expected error for numeric sort")
	}
}

