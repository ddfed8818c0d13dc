package pagination_test

import (
	"encoding/json"
	"net/url"
	"reflect"
	"testing"

	"github.com/Infernos444/insurely/pkg/pagination"
)

var testConfig = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		req          pagination.PageRequest
		wantPage     int
		wantPageSize int
	}{
		{"zero values", pagination.PageRequest{}, 1, 20},
		{"negative page", pagination.PageRequest{Page: -3, PageSize: 10}, 1, 10},
		{"oversized page size", pagination.PageRequest{Page: 2, PageSize: 500}, 2, 100},
		{"valid values", pagination.PageRequest{Page: 4, PageSize: 25}, 4, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize(testConfig)
			if tt.req.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", tt.req.Page, tt.wantPage)
			}
			if tt.req.PageSize != tt.wantPageSize {
				t.Errorf("PageSize = %d, want %d", tt.req.PageSize, tt.wantPageSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	req := pagination.PageRequest{Page: 3, PageSize: 25}
	if got := req.Offset(); got != 50 {
		t.Errorf("Offset() = %d, want 50", got)
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("page", "2")
	values.Set("page_size", "10")
	values.Set("search", "scan")
	values.Set("sort", "-UploadedAt")

	req := pagination.PageRequestFromQuery(values, testConfig)

	if req.Page != 2 || req.PageSize != 10 {
		t.Errorf("page = %d size = %d, want 2 and 10", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "scan" {
		t.Errorf("Search = %v, want scan", req.Search)
	}
	want := pagination.SortFields{{Field: "UploadedAt", Descending: true}}
	if !reflect.DeepEqual(req.Sort, want) {
		t.Errorf("Sort = %v, want %v", req.Sort, want)
	}
}

func TestPageRequestFromQueryDefaults(t *testing.T) {
	req := pagination.PageRequestFromQuery(url.Values{}, testConfig)

	if req.Page != 1 || req.PageSize != 20 {
		t.Errorf("page = %d size = %d, want defaults 1 and 20", req.Page, req.PageSize)
	}
	if req.Search != nil {
		t.Errorf("Search = %v, want nil", req.Search)
	}
}

func TestSortFieldsUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  pagination.SortFields
	}{
		{
			"string form",
			`"Filename,-UploadedAt"`,
			pagination.SortFields{
				{Field: "Filename"},
				{Field: "UploadedAt", Descending: true},
			},
		},
		{
			"array form",
			`[{"Field":"Filename","Descending":false}]`,
			pagination.SortFields{{Field: "Filename"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got pagination.SortFields
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name           string
		data           []string
		total          int
		pageSize       int
		wantTotalPages int
	}{
		{"even division", []string{"a", "b"}, 40, 10, 4},
		{"partial last page", []string{"a"}, 41, 10, 5},
		{"empty", nil, 0, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult(tt.data, tt.total, 1, tt.pageSize)
			if result.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", result.TotalPages, tt.wantTotalPages)
			}
			if result.Data == nil {
				t.Error("Data = nil, want empty slice")
			}
		})
	}
}

func TestConfigFinalize(t *testing.T) {
	cfg := &pagination.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.DefaultPageSize != 20 || cfg.MaxPageSize != 100 {
		t.Errorf("defaults = (%d, %d), want (20, 100)", cfg.DefaultPageSize, cfg.MaxPageSize)
	}

	bad := &pagination.Config{DefaultPageSize: 200, MaxPageSize: 100}
	if err := bad.Finalize(nil); err == nil {
		t.Error("Finalize() with default above max: want error")
	}
}
