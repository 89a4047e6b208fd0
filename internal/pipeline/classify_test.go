package pipeline

import "testing"

func TestClassify(t *testing.T) {
	allow := NewAllowList("Fun", "Necessities")

	tests := []struct {
		in   string
		want string
	}{
		{"Fun", "Fun"},
		{"Necessities", "Necessities"},
		{"Groceries", OthersType},
		{"fun", OthersType},
		{"", OthersType},
		{"Others", OthersType},
	}
	for _, tt := range tests {
		if got := Classify(tt.in, allow); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassifyOutputIsCategoryOrOthers(t *testing.T) {
	allow := NewAllowList("Fun", "Necessities")
	for _, c := range []string{"Fun", "Rent", "Travel", "Necessities", "x", " Fun"} {
		got := Classify(c, allow)
		if got != c && got != OthersType {
			t.Fatalf("Classify(%q) = %q, want %q or Others", c, got, c)
		}
		if got == c {
			if _, ok := allow[c]; !ok {
				t.Fatalf("Classify(%q) kept a category outside the allow-list", c)
			}
		}
	}
}

func TestClassifyRowsDoesNotMutateInput(t *testing.T) {
	rows := monthlyRows(month(2023, 1), "Groceries", 3)
	out := ClassifyRows(rows, NewAllowList("Fun"))

	for i := range out {
		if out[i].Category != OthersType {
			t.Fatalf("out[%d].Category = %q, want Others", i, out[i].Category)
		}
		if rows[i].Category != "Groceries" {
			t.Fatalf("input row %d mutated to %q", i, rows[i].Category)
		}
	}
}

func TestAllowListNames(t *testing.T) {
	got := NewAllowList("Necessities", "Fun").Names()
	if len(got) != 2 || got[0] != "Fun" || got[1] != "Necessities" {
		t.Fatalf("Names() = %v, want [Fun Necessities]", got)
	}
}
