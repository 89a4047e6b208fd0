package model

import (
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	want := time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"2023-03-17",
		"2023-03-17 08:30:00",
		"2023-03-17T08:30:00Z",
		"2023-03",
		"17/03/2023",
		"17.03.2023",
		" 2023-03-01 ",
	} {
		got, ok := ParseMonth(in)
		if !ok {
			t.Fatalf("ParseMonth(%q) failed", in)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseMonth(%q) = %v, want %v", in, got, want)
		}
	}

	for _, in := range []string{"", "   ", "not a date", "2023-13-01"} {
		if _, ok := ParseMonth(in); ok {
			t.Fatalf("ParseMonth(%q) succeeded, want failure", in)
		}
	}
}

func TestNextMonthCrossesYear(t *testing.T) {
	dec := time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)
	got := NextMonth(dec)
	if FormatMonth(got) != "2024-01" {
		t.Fatalf("NextMonth(2023-12) = %s, want 2024-01", FormatMonth(got))
	}
	if n := MonthsBetween(dec, got); n != 1 {
		t.Fatalf("MonthsBetween = %d, want 1", n)
	}
}

func TestComposedForType(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	c := Composed{Points: []ComposedPoint{
		{Month: jan, Type: "Fun", Source: SourceHistorical},
		{Month: NextMonth(jan), Type: "Fun", Source: SourceForecast},
		{Month: jan, Type: "Others", Source: SourceHistorical},
	}}

	if got := c.Types(); len(got) != 2 || got[0] != "Fun" || got[1] != "Others" {
		t.Fatalf("Types() = %v, want [Fun Others]", got)
	}
	if got := len(c.ForType("Fun")); got != 2 {
		t.Fatalf("len(ForType(Fun)) = %d, want 2", got)
	}
	if got := c.ForType("Missing"); got != nil {
		t.Fatalf("ForType(Missing) = %v, want nil", got)
	}
	if got := c.Count(SourceForecast); got != 1 {
		t.Fatalf("Count(forecast) = %d, want 1", got)
	}
	if got := len(c.Months()); got != 2 {
		t.Fatalf("len(Months()) = %d, want 2", got)
	}
}
