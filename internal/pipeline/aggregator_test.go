package pipeline

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/spendcast/internal/model"
)

func TestAggregate_GroupsAndSorts(t *testing.T) {
	rows := []model.Row{
		row(month(2023, 3), "Fun", -10),
		row(month(2023, 1), "Fun", -50),
		row(month(2023, 1), "Fun", -5),
		row(month(2023, 2), "Others", -7),
	}

	got := Aggregate(rows)
	if len(got) != 2 {
		t.Fatalf("types = %d, want 2", len(got))
	}

	fun := got["Fun"]
	if fun.Len() != 2 {
		t.Fatalf("Fun points = %d, want 2 (no zero fill)", fun.Len())
	}
	if !fun.Points[0].Month.Equal(month(2023, 1)) {
		t.Fatalf("first month = %v, want 2023-01", fun.Points[0].Month)
	}
	if !fun.Points[0].Total.Equal(decimal.NewFromInt(-55)) {
		t.Fatalf("Jan total = %s, want -55", fun.Points[0].Total)
	}
}

func TestAggregate_StrictlyAscending(t *testing.T) {
	var rows []model.Row
	for _, m := range []int{7, 2, 11, 2, 5, 1, 7, 12} {
		rows = append(rows, row(month(2022, 0).AddDate(0, m, 0), "Others", -1))
	}

	for typ, s := range Aggregate(rows) {
		for i := 1; i < len(s.Points); i++ {
			if !s.Points[i-1].Month.Before(s.Points[i].Month) {
				t.Fatalf("%s not strictly ascending at %d: %v then %v",
					typ, i, s.Points[i-1].Month, s.Points[i].Month)
			}
		}
	}
}

func TestAggregate_MergesUnlistedIntoOthers(t *testing.T) {
	rows := []model.Row{
		row(month(2023, 1), "Groceries", -20),
		row(month(2023, 1), "Rent", -800),
		row(month(2023, 1), "Fun", -15),
	}

	got := Aggregate(ClassifyRows(rows, NewAllowList("Fun", "Necessities")))
	if _, ok := got["Groceries"]; ok {
		t.Fatal("Groceries kept as its own type")
	}
	others := got[OthersType]
	if others.Len() != 1 || !others.Points[0].Total.Equal(decimal.NewFromInt(-820)) {
		t.Fatalf("Others = %+v, want one point of -820", others.Points)
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	rows := append(monthlyRows(month(2023, 1), "Fun", 6), monthlyRows(month(2023, 4), "Rent", 6)...)
	a := Aggregate(ClassifyRows(rows, NewAllowList("Fun")))
	b := Aggregate(ClassifyRows(rows, NewAllowList("Fun")))

	for typ, sa := range a {
		sb := b[typ]
		if sa.Len() != sb.Len() {
			t.Fatalf("%s length differs", typ)
		}
		for i := range sa.Points {
			if !sa.Points[i].Month.Equal(sb.Points[i].Month) || !sa.Points[i].Total.Equal(sb.Points[i].Total) {
				t.Fatalf("%s point %d differs", typ, i)
			}
		}
	}
}

func TestRegularize_FillsGapsWithZero(t *testing.T) {
	s := model.Series{Type: "Fun", Points: []model.Point{
		{Month: month(2023, 11), Total: decimal.NewFromInt(-10)},
		{Month: month(2024, 2), Total: decimal.NewFromInt(-20)},
	}}

	got := Regularize(s)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	for i, want := range []int64{-10, 0, 0, -20} {
		if !got[i].Total.Equal(decimal.NewFromInt(want)) {
			t.Fatalf("got[%d] = %s, want %d", i, got[i].Total, want)
		}
	}
	if !got[2].Month.Equal(month(2024, 1)) {
		t.Fatalf("got[2].Month = %v, want 2024-01", got[2].Month)
	}
	if Regularize(model.Series{}) != nil {
		t.Fatal("empty series regularized to non-nil")
	}
}

func TestMonthlyShares(t *testing.T) {
	series := Aggregate([]model.Row{
		row(month(2023, 1), "Fun", -25),
		row(month(2023, 1), "Others", -75),
		row(month(2023, 2), "Fun", -10),
	})

	got := MonthlyShares(series)
	if len(got) != 3 {
		t.Fatalf("shares = %d, want 3", len(got))
	}
	if got[0].Type != "Fun" || got[0].Percent != 25 {
		t.Fatalf("got[0] = %+v, want Fun 25%%", got[0])
	}
	if got[1].Type != "Others" || got[1].Percent != 75 {
		t.Fatalf("got[1] = %+v, want Others 75%%", got[1])
	}
	if got[2].Percent != 100 {
		t.Fatalf("got[2].Percent = %v, want 100", got[2].Percent)
	}
}
