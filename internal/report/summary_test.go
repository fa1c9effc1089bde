package report

import (
	"testing"

	"github.com/shopspring/decimal"

	"carteira/internal/core"
)

func TestBuildSummary(t *testing.T) {
	var facts []core.LineItem
	months := []string{
		"Jan/2024", "Fev/2024", "Mar/2024", "Abr/2024", "Mai/2024", "Jun/2024",
		"Jul/2024", "Ago/2024", "Set/2024", "Out/2024", "Nov/2024", "Dez/2024",
		"Jan/2025",
	}
	for i, m := range months {
		facts = append(facts, fact("A", m, int64(100+i)))
		facts = append(facts, fact("B", m, int64(200+i)))
	}
	p := BuildPivot(facts)
	s := BuildSummary(p)

	if s.CurrentMonth != "Jan/2025" {
		t.Fatalf("current month = %q", s.CurrentMonth)
	}
	wantTotal := dec(112 + 212)
	if !s.CurrentTotal.Equal(wantTotal) {
		t.Fatalf("current total = %s, want %s", s.CurrentTotal, wantTotal)
	}

	// Current total equals last column total and the distribution sum.
	totals := ColumnTotals(p)
	if !s.CurrentTotal.Equal(totals[len(totals)-1]) {
		t.Fatalf("current total %s != last column total %s", s.CurrentTotal, totals[len(totals)-1])
	}
	distSum := decimal.Zero
	for _, sh := range s.Distribution {
		distSum = distSum.Add(sh.Amount)
	}
	if !s.CurrentTotal.Equal(distSum) {
		t.Fatalf("current total %s != distribution sum %s", s.CurrentTotal, distSum)
	}

	// Distribution is sorted descending by amount: B before A.
	if s.Distribution[0].Asset != "B" || s.Distribution[1].Asset != "A" {
		t.Fatalf("distribution order = %v", s.Distribution)
	}

	// 13 columns: offsets 1, 3, 6 and 12 are all reachable.
	for _, back := range []int{1, 3, 6, 12} {
		total, ok := s.PriorTotals[back]
		if !ok {
			t.Fatalf("missing prior total for offset %d", back)
		}
		wantIdx := len(totals) - 1 - back
		if !total.Equal(totals[wantIdx]) {
			t.Fatalf("prior total[%d] = %s, want %s", back, total, totals[wantIdx])
		}
	}
}

func TestBuildSummaryShortHistory(t *testing.T) {
	p := BuildPivot([]core.LineItem{
		fact("A", "Jan/2025", 100),
		fact("A", "Fev/2025", 150),
	})
	s := BuildSummary(p)
	if s.CurrentMonth != "Fev/2025" {
		t.Fatalf("current month = %q", s.CurrentMonth)
	}
	if _, ok := s.PriorTotals[1]; !ok {
		t.Fatal("offset 1 should be present")
	}
	for _, back := range []int{3, 6, 12} {
		if _, ok := s.PriorTotals[back]; ok {
			t.Fatalf("offset %d should be absent with 2 columns", back)
		}
	}
}

func TestBuildSummaryEmpty(t *testing.T) {
	s := BuildSummary(PivotTable{})
	if s.CurrentMonth != "" || !s.CurrentTotal.IsZero() {
		t.Fatalf("empty pivot summary = %+v", s)
	}
	if len(s.Distribution) != 0 || len(s.PriorTotals) != 0 {
		t.Fatalf("empty pivot summary = %+v", s)
	}
}

func TestBuildSnapshot(t *testing.T) {
	snap := BuildSnapshot(core.KindPosition, []core.LineItem{
		fact("A", "Jan/2025", 100),
		fact("B", "Jan/2025", 200),
		fact("A", "Fev/2025", 150),
	})
	if snap.Kind != core.KindPosition {
		t.Fatalf("kind = %q", snap.Kind)
	}
	if len(snap.Totals) != 2 || !snap.Totals[0].Equal(dec(300)) || !snap.Totals[1].Equal(dec(150)) {
		t.Fatalf("totals = %v", snap.Totals)
	}
	if snap.TotalDeltas[0] != nil || snap.TotalDeltas[1] == nil {
		t.Fatalf("total deltas = %v", snap.TotalDeltas)
	}
	if !snap.Summary.CurrentTotal.Equal(snap.Totals[1]) {
		t.Fatal("summary total inconsistent with column totals")
	}
}
