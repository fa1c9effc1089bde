// Package core holds the domain model: month labels, line items and
// monetary amounts shared by the pivot engine, storage and HTTP layers.
package core

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// monthTable holds the canonical three-letter month abbreviations in
// chronological order. Index i corresponds to month i+1.
var monthTable = [12]string{
	"Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
	"Jul", "Ago", "Set", "Out", "Nov", "Dez",
}

// UnknownMonthIndex sorts after every valid month so garbage labels end up
// at the right edge of a chart instead of skewing it to the left.
const UnknownMonthIndex = len(monthTable)

// Normalize canonicalizes a free-form month/year token into "Mon/YYYY".
//
// The month token may be a 1-2 digit ordinal (1-12) or a case-insensitive
// three-letter abbreviation from the fixed table. Two-digit years are
// prefixed with "20". Inputs without a "/" separator are returned unchanged,
// and unmatched month tokens are kept with fixed casing rather than being
// silently mapped to another month. Normalize never fails.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	sep := strings.Index(raw, "/")
	if sep < 0 {
		return raw
	}

	month := normalizeMonthToken(strings.TrimSpace(raw[:sep]))
	year := normalizeYearToken(strings.TrimSpace(raw[sep+1:]))
	return month + "/" + year
}

func normalizeMonthToken(tok string) string {
	if tok == "" {
		return tok
	}
	if n, err := strconv.Atoi(tok); err == nil {
		if n >= 1 && n <= 12 {
			return monthTable[n-1]
		}
		return tok
	}
	for _, m := range monthTable {
		if strings.EqualFold(tok, m) {
			return m
		}
	}
	// Unrecognized token: fix casing but keep it visible.
	return titleCase(tok)
}

func normalizeYearToken(tok string) string {
	if len(tok) == 2 && isDigits(tok) {
		return "20" + tok
	}
	return tok
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func titleCase(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}

// MonthIndex returns the zero-based chronological index of a label's month
// token, or UnknownMonthIndex when the token is not in the table.
func MonthIndex(label string) int {
	tok := label
	if sep := strings.Index(label, "/"); sep >= 0 {
		tok = label[:sep]
	}
	for i, m := range monthTable {
		if strings.EqualFold(tok, m) {
			return i
		}
	}
	return UnknownMonthIndex
}

// labelYear extracts the numeric year of a canonical label. Labels without a
// parsable year sort after everything else.
func labelYear(label string) int {
	sep := strings.Index(label, "/")
	if sep < 0 {
		return int(^uint(0) >> 1)
	}
	y, err := strconv.Atoi(strings.TrimSpace(label[sep+1:]))
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return y
}

// CompareLabels orders two month labels by (year, month index). Unknown
// months sort after all known months; remaining ties fall back to plain
// string comparison so the order is total.
func CompareLabels(a, b string) int {
	ay, by := labelYear(a), labelYear(b)
	if ay != by {
		if ay < by {
			return -1
		}
		return 1
	}
	am, bm := MonthIndex(a), MonthIndex(b)
	if am != bm {
		if am < bm {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// SortLabels sorts labels in place chronologically.
func SortLabels(labels []string) {
	sort.Slice(labels, func(i, j int) bool {
		return CompareLabels(labels[i], labels[j]) < 0
	})
}
