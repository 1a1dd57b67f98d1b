package extractor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CurrencyParseError reports a cell that could not be read as a market
// value. The row carrying it is dropped.
type CurrencyParseError struct {
	Input string
}

func (e *CurrencyParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as a currency amount", e.Input)
}

// PercentParseError reports a cell that could not be read as a
// percentage. Only the field is dropped; the row survives.
type PercentParseError struct {
	Input string
}

func (e *PercentParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as a percentage", e.Input)
}

// ParseCurrency converts market-value strings like "€944.70m" or "€500k"
// into whole euros. The euro sign is optional, "m" scales by a million,
// "k" by a thousand, and a bare number is taken as euros already.
// Fractional euros round to the nearest whole euro.
func ParseCurrency(s string) (int64, error) {
	t := strings.TrimSpace(strings.ReplaceAll(s, "€", ""))
	mult := 1.0
	switch {
	case strings.HasSuffix(t, "m"), strings.HasSuffix(t, "M"):
		mult = 1_000_000
		t = strings.TrimSpace(t[:len(t)-1])
	case strings.HasSuffix(t, "k"), strings.HasSuffix(t, "K"):
		mult = 1_000
		t = strings.TrimSpace(t[:len(t)-1])
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, &CurrencyParseError{Input: s}
	}
	return int64(math.Round(f * mult)), nil
}

// ParsePercentage converts strings like "5.1%" or "5.1 %" to 5.1.
// The numeric portion is returned as-is, not divided by 100.
func ParsePercentage(s string) (float64, error) {
	t := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, &PercentParseError{Input: s}
	}
	return f, nil
}
