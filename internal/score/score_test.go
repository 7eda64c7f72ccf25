package score

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"three full one half", "★★★☆", 3.5},
		{"full only", "★★", 2.0},
		{"half only", "☆", 0.5},
		{"empty", "", 0.0},
		{"numeric text", "3.5", 0.0},
		{"free text", "강함", 0.0},
		{"mixed with noise", "★a★ b☆", 2.5},
		{"no ceiling", "★★★★★★★", 7.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.raw); got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
