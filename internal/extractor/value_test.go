package extractor

import (
	"errors"
	"testing"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"millions", "€944.70m", 944700000},
		{"thousands", "€500k", 500000},
		{"thousand boundary", "1000k", 1000000},
		{"plain number rounds", "€1.2", 1},
		{"plain number rounds up", "€1.7", 2},
		{"no euro sign", "944.70m", 944700000},
		{"embedded spaces", "€ 45.5m ", 45500000},
		{"integer millions", "€400m", 400000000},
		{"zero", "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCurrency(tt.input)
			if err != nil {
				t.Fatalf("ParseCurrency(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCurrency(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCurrency_Invalid(t *testing.T) {
	for _, input := range []string{"", "-", "n/a", "€", "abc", "€m"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseCurrency(input)
			if err == nil {
				t.Fatalf("ParseCurrency(%q) error = nil, want CurrencyParseError", input)
			}
			var cpe *CurrencyParseError
			if !errors.As(err, &cpe) {
				t.Errorf("error type = %T, want *CurrencyParseError", err)
			}
		})
	}
}

func TestParsePercentage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"simple", "5.1%", 5.1},
		{"spaced", "5.1 %", 5.1},
		{"zero", "0%", 0.0},
		{"negative", "-3.4 %", -3.4},
		{"no sign", "12.5", 12.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePercentage(tt.input)
			if err != nil {
				t.Fatalf("ParsePercentage(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePercentage(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePercentage_Invalid(t *testing.T) {
	for _, input := range []string{"n/a", "-", "", "%"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParsePercentage(input)
			if err == nil {
				t.Fatalf("ParsePercentage(%q) error = nil, want PercentParseError", input)
			}
			var ppe *PercentParseError
			if !errors.As(err, &ppe) {
				t.Errorf("error type = %T, want *PercentParseError", err)
			}
		})
	}
}
