package chart

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/spendcast/internal/model"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestFromComposedMarkerAndGaps(t *testing.T) {
	c := model.Composed{
		Points: []model.ComposedPoint{
			{Month: month(2024, 1), Type: "Fun", Total: -10, Source: model.SourceHistorical},
			{Month: month(2024, 2), Type: "Fun", Total: -12, Source: model.SourceHistorical},
			{Month: month(2024, 3), Type: "Fun", Total: -11, Source: model.SourceForecast},
			{Month: month(2024, 2), Type: "Others", Total: -5, Source: model.SourceHistorical},
		},
		Transition: month(2024, 2),
	}

	p := FromComposed(c, Line)
	if len(p.Labels) != 3 || p.Labels[0] != "2024-01" {
		t.Fatalf("labels = %v", p.Labels)
	}
	if p.Marker != 1 {
		t.Fatalf("marker = %d, want 1", p.Marker)
	}
	if len(p.Series) != 2 || p.Series[1].Name != "Others" {
		t.Fatalf("series = %+v", p.Series)
	}
	if !math.IsNaN(p.Series[1].Values[0]) || p.Series[1].Values[1] != -5 {
		t.Fatalf("Others values = %v", p.Series[1].Values)
	}
}

func queryResult() *model.QueryResult {
	return &model.QueryResult{
		Columns: []string{"category", "total", "n"},
		Numeric: []bool{false, true, true},
		Rows: [][]any{
			{"Fun", -10.0, int64(2)},
			{"Rent", -900.0, int64(1)},
			{"Food", nil, int64(5)},
		},
	}
}

func TestQueryAxesDefaults(t *testing.T) {
	axes, err := QueryAxes(queryResult(), "", nil)
	if err != nil {
		t.Fatalf("QueryAxes: %v", err)
	}
	if axes.X != "category" || len(axes.Ys) != 1 || axes.Ys[0] != "total" {
		t.Fatalf("axes = %+v, want x=category y=[total]", axes)
	}
	numericFirst := &model.QueryResult{Columns: []string{"n", "label", "total"}, Numeric: []bool{true, false, true}}
	axes, err = QueryAxes(numericFirst, "", nil)
	if err != nil || axes.X != "n" || axes.Ys[0] != "n" {
		t.Fatalf("axes = %+v, %v; want x=n y=[n]", axes, err)
	}
	if _, err := QueryAxes(queryResult(), "", []string{"category"}); err == nil {
		t.Fatal("text y column accepted")
	}
	if _, err := QueryAxes(queryResult(), "nope", nil); err == nil {
		t.Fatal("unknown x column accepted")
	}
	text := &model.QueryResult{Columns: []string{"a"}, Numeric: []bool{false}}
	if _, err := QueryAxes(text, "", nil); !errors.Is(err, ErrNoNumeric) {
		t.Fatalf("err = %v, want ErrNoNumeric", err)
	}
}

func TestFromQueryBarSortsDescending(t *testing.T) {
	res := queryResult()
	p := FromQuery(res, Bar, Axes{X: "category", Ys: []string{"n"}})
	want := []string{"Food", "Fun", "Rent"}
	for i, l := range want {
		if p.Labels[i] != l {
			t.Fatalf("labels = %v, want %v", p.Labels, want)
		}
	}

	p = FromQuery(res, Line, Axes{X: "category", Ys: []string{"total"}})
	if p.Labels[0] != "Fun" || !math.IsNaN(p.Series[0].Values[2]) {
		t.Fatalf("line plot = %+v", p)
	}
}

func TestShareResultDrawsBothCharts(t *testing.T) {
	res := &model.QueryResult{
		Columns: []string{"month", "type", "total", "percent_share"},
		Numeric: []bool{false, false, true, true},
		Rows: [][]any{
			{"2024-02", "Fun", -1.0, 25.0},
			{"2024-01", "Fun", -1.0, 50.0},
			{"2024-01", "Others", -1.0, 50.0},
			{"2024-02", "Others", -3.0, 75.0},
		},
	}

	share, ok := SharePlot(res)
	if !ok {
		t.Fatal("SharePlot ok = false")
	}
	if share.Kind != Bar || len(share.Labels) != 2 || share.Labels[0] != "2024-01" {
		t.Fatalf("share plot = %+v", share)
	}
	if share.Series[0].Name != "Fun" || share.Series[0].Values[1] != 25 || share.Series[1].Values[1] != 75 {
		t.Fatalf("share series = %+v", share.Series)
	}

	axes, err := QueryAxes(res, "type", []string{"total"})
	if err != nil {
		t.Fatalf("QueryAxes: %v", err)
	}
	p := FromQuery(res, Bar, axes)
	if len(p.Series) != 1 || p.Series[0].Name != "total" {
		t.Fatalf("series = %+v, want one total series", p.Series)
	}
	if len(p.Labels) != 4 || p.Labels[0] != "Fun" || p.Labels[3] != "Others" {
		t.Fatalf("labels = %v", p.Labels)
	}
	if p.Series[0].Values[3] != -3 {
		t.Fatalf("values = %v, want lowest total last", p.Series[0].Values)
	}

	if _, ok := SharePlot(queryResult()); ok {
		t.Fatal("SharePlot accepted a non-share result")
	}
}
