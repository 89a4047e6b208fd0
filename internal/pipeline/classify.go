package pipeline

import (
	"sort"

	"github.com/theirongolddev/spendcast/internal/model"
)

// OthersType is the catch-all type for categories outside the allow-list.
const OthersType = "Others"

// AllowList is the set of categories kept as their own type.
type AllowList map[string]struct{}

// NewAllowList builds an allow-list from category names.
func NewAllowList(names ...string) AllowList {
	a := make(AllowList, len(names))
	for _, n := range names {
		a[n] = struct{}{}
	}
	return a
}

// Names returns the allowed categories, sorted.
func (a AllowList) Names() []string {
	out := make([]string, 0, len(a))
	for n := range a {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Classify maps a raw category to its type: the category itself when it is
// allowed, otherwise OthersType. Matching is exact.
func Classify(category string, allow AllowList) string {
	if _, ok := allow[category]; ok {
		return category
	}
	return OthersType
}

// ClassifyRows returns copies of rows with Category replaced by the type.
func ClassifyRows(rows []model.Row, allow AllowList) []model.Row {
	out := make([]model.Row, len(rows))
	for i, r := range rows {
		r.Category = Classify(r.Category, allow)
		out[i] = r
	}
	return out
}
