// Package chart plots series onto a character canvas. It knows nothing about
// colours: callers style each cell run by series index.
package chart

import (
	"fmt"
	"strings"
)

// Kind selects how series are drawn.
type Kind int

const (
	None Kind = iota
	Bar
	Line
	Area
)

var kindNames = []string{"none", "bar", "line", "area"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Next cycles none, bar, line, area.
func (k Kind) Next() Kind {
	return (k + 1) % Kind(len(kindNames))
}

// ParseKind reads a chart kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return None, nil
	}
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return None, fmt.Errorf("unknown chart type %q (want none, bar, line or area)", s)
}
