package storage_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Infernos444/insurely/pkg/storage"
)

func TestParseMaxResults(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback int32
		want     int32
		wantErr  bool
	}{
		{"empty uses fallback", "", 50, 50, false},
		{"valid value", "25", 50, 25, false},
		{"clamped to cap", "100000", 50, storage.MaxListCap, false},
		{"zero rejected", "0", 50, 0, true},
		{"negative rejected", "-5", 50, 0, true},
		{"non-numeric rejected", "many", 50, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := storage.ParseMaxResults(tt.value, tt.fallback)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMaxResults(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMaxResults(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{storage.ErrNotFound, http.StatusNotFound},
		{storage.ErrEmptyKey, http.StatusBadRequest},
		{storage.ErrInvalidKey, http.StatusBadRequest},
		{fmt.Errorf("download blob: %w", storage.ErrNotFound), http.StatusNotFound},
		{errors.New("socket closed"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := storage.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
