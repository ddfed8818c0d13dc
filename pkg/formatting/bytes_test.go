package formatting_test

import (
	"testing"

	"github.com/Infernos444/insurely/pkg/formatting"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name      string
		n         int64
		precision int
		want      string
	}{
		{"zero", 0, 2, "0 B"},
		{"bytes", 512, 0, "512 B"},
		{"kilobytes", 2048, 1, "2.0 KB"},
		{"megabytes", 26214400, 0, "25 MB"},
		{"gigabytes rounded", 1610612736, 2, "1.50 GB"},
		{"negative precision clamped", 2048, -3, "2 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatting.FormatBytes(tt.n, tt.precision)
			if got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"25MB", 26214400},
		{"25 MB", 26214400},
		{"25mb", 26214400},
		{"1.5KB", 1536},
		{"1024", 1024},
		{"1GB", 1073741824},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if err != nil {
				t.Fatalf("ParseBytes(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseBytesInvalid(t *testing.T) {
	tests := []string{"", "abc", "12XB", "-5MB"}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := formatting.ParseBytes(input); err == nil {
				t.Errorf("ParseBytes(%q): want error", input)
			}
		})
	}
}

func TestByteRoundTrip(t *testing.T) {
	sizes := []int64{1024, 1048576, 26214400}

	for _, size := range sizes {
		formatted := formatting.FormatBytes(size, 0)
		parsed, err := formatting.ParseBytes(formatted)
		if err != nil {
			t.Fatalf("ParseBytes(%q) error = %v", formatted, err)
		}
		if parsed != size {
			t.Errorf("round trip %d -> %q -> %d", size, formatted, parsed)
		}
	}
}
