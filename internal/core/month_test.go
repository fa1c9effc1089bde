package core

import (
	"sort"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"3/25", "Mar/2025"},
		{"03/25", "Mar/2025"},
		{"3/2025", "Mar/2025"},
		{"12/25", "Dez/2025"},
		{"1/2024", "Jan/2024"},
		{"mar/2025", "Mar/2025"},
		{"MAR/25", "Mar/2025"},
		{"fev/25", "Fev/2025"},
		{" Set/2024 ", "Set/2024"},
		{"Jan/2025", "Jan/2025"},
		// Unmatched month tokens keep fixed casing, never another month.
		{"MARÇO/25", "Março/2025"},
		{"xyz/2024", "Xyz/2024"},
		{"13/25", "13/2025"},
		{"0/25", "0/2025"},
		// No separator: returned unchanged.
		{"opaque", "opaque"},
		{"", ""},
		// Odd year tokens pass through.
		{"Mar/999", "Mar/999"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.out {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"3/25", "mar/2025", "MARÇO/25", "12/99", "opaque", "Jan/2025"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestCompareLabels(t *testing.T) {
	cases := []struct {
		a, b string
		want int // sign only
	}{
		{"Jan/2025", "Fev/2025", -1},
		{"Dez/2024", "Jan/2025", -1},
		{"Mar/2025", "Mar/2025", 0},
		{"Fev/2025", "Jan/2025", 1},
		// Unknown months sort after every known month of the same year.
		{"Jan/2025", "Xyz/2025", -1},
		{"Dez/2025", "Xyz/2025", -1},
		{"Xyz/2025", "Jan/2026", -1},
	}
	for _, tc := range cases {
		got := CompareLabels(tc.a, tc.b)
		if sign(got) != tc.want {
			t.Fatalf("CompareLabels(%q, %q) = %d, want sign %d", tc.a, tc.b, got, tc.want)
		}
		if rev := CompareLabels(tc.b, tc.a); sign(rev) != -tc.want {
			t.Fatalf("CompareLabels(%q, %q) = %d, not antisymmetric", tc.b, tc.a, rev)
		}
	}
}

func TestSortLabels(t *testing.T) {
	labels := []string{"Xyz/2024", "Fev/2025", "Dez/2024", "Jan/2025", "Mar/2024"}
	SortLabels(labels)
	want := []string{"Mar/2024", "Dez/2024", "Xyz/2024", "Jan/2025", "Fev/2025"}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", labels, want)
		}
	}
	if !sort.SliceIsSorted(labels, func(i, j int) bool {
		return CompareLabels(labels[i], labels[j]) < 0
	}) {
		t.Fatal("SortLabels result not sorted under CompareLabels")
	}
}

func TestMonthIndex(t *testing.T) {
	if got := MonthIndex("Jan/2025"); got != 0 {
		t.Fatalf("MonthIndex(Jan) = %d", got)
	}
	if got := MonthIndex("dez/2025"); got != 11 {
		t.Fatalf("MonthIndex(dez) = %d", got)
	}
	if got := MonthIndex("Xyz/2025"); got != UnknownMonthIndex {
		t.Fatalf("MonthIndex(Xyz) = %d, want %d", got, UnknownMonthIndex)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
