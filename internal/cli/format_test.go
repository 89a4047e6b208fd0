package cli

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{-50, "-50.00"},
		{-1234.5, "-1,234.50"},
		{1234567.891, "1,234,567.89"},
		{-0.004, "0.00"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDecimal(t *testing.T) {
	d, err := decimal.NewFromString("-30.555")
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatDecimal(d); got != "-30.56" {
		t.Fatalf("FormatDecimal = %q, want -30.56", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		-1234567: "-1,234,567",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	if got := FormatCompact(-1234); got != "-1.2K" {
		t.Fatalf("FormatCompact(-1234) = %q", got)
	}
	if got := FormatCompact(2500000); got != "2.5M" {
		t.Fatalf("FormatCompact(2500000) = %q", got)
	}
	if got := FormatCompact(-12); got != "-12" {
		t.Fatalf("FormatCompact(-12) = %q", got)
	}
}

func TestFormatChange(t *testing.T) {
	if got := FormatChange(-120, -100); got != "+20.0%" {
		t.Fatalf("FormatChange = %q, want +20.0%%", got)
	}
	if got := FormatChange(-80, -100); got != "-20.0%" {
		t.Fatalf("FormatChange = %q, want -20.0%%", got)
	}
	if got := FormatChange(-80, 0); got != "n/a" {
		t.Fatalf("FormatChange = %q, want n/a", got)
	}
}

func TestFormatMonth(t *testing.T) {
	if got := FormatMonth(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)); got != "Jan 2024" {
		t.Fatalf("FormatMonth = %q", got)
	}
	if got := FormatMonth(time.Time{}); got != "-" {
		t.Fatalf("FormatMonth(zero) = %q", got)
	}
}
