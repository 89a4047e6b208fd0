package source

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

const bom = "\ufeff"

var candidateDelimiters = []rune{';', ',', '\t', '|'}

// SniffDelimiter picks the candidate that splits the header line into the
// most fields. Ties go to the earlier candidate; ';' comes first because the
// bank exports this tool targets use it.
func SniffDelimiter(r io.Reader) (rune, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	line = strings.TrimPrefix(line, bom)

	best, bestCount := ';', 0
	for _, d := range candidateDelimiters {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best, nil
}

// ParseAmount reads a money value. It accepts a decimal point or a decimal
// comma, thousands separators, a leading currency sign and surrounding spaces.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\'', '$', '€', '£':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Zero, errors.New("empty amount")
	}

	dot := strings.LastIndexByte(s, '.')
	comma := strings.LastIndexByte(s, ',')
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	return decimal.NewFromString(s)
}

func hasBOM(b []byte) bool {
	return bytes.HasPrefix(b, []byte(bom))
}
