package report

import (
	"testing"

	"github.com/shopspring/decimal"

	"carteira/internal/core"
)

func fact(asset, month string, amount int64) core.LineItem {
	return core.LineItem{
		OwnerID: "u1",
		Month:   month,
		Asset:   asset,
		Amount:  decimal.NewFromInt(amount),
	}
}

func TestBuildPivot(t *testing.T) {
	facts := []core.LineItem{
		fact("A", "Jan/2025", 100),
		fact("B", "Jan/2025", 200),
		fact("A", "Fev/2025", 150),
	}
	p := BuildPivot(facts)

	wantCols := []string{"Jan/2025", "Fev/2025"}
	if len(p.Columns) != len(wantCols) {
		t.Fatalf("columns = %v, want %v", p.Columns, wantCols)
	}
	for i := range wantCols {
		if p.Columns[i] != wantCols[i] {
			t.Fatalf("columns = %v, want %v", p.Columns, wantCols)
		}
	}

	if len(p.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(p.Rows))
	}
	assertRow(t, p.Rows[0], "A", 100, 150)
	assertRow(t, p.Rows[1], "B", 200, 0)

	totals := ColumnTotals(p)
	if !totals[0].Equal(decimal.NewFromInt(300)) || !totals[1].Equal(decimal.NewFromInt(150)) {
		t.Fatalf("totals = %v, want [300 150]", totals)
	}
}

func assertRow(t *testing.T, row PivotRow, asset string, values ...int64) {
	t.Helper()
	if row.Asset != asset {
		t.Fatalf("row asset = %q, want %q", row.Asset, asset)
	}
	if len(row.Values) != len(values) {
		t.Fatalf("row %s has %d values, want %d", asset, len(row.Values), len(values))
	}
	for i, v := range values {
		if !row.Values[i].Equal(decimal.NewFromInt(v)) {
			t.Fatalf("row %s values = %v, want %v", asset, row.Values, values)
		}
	}
}

func TestBuildPivotNormalizesMixedLabels(t *testing.T) {
	// "3/25", "mar/2025" and "Mar/25" are the same column.
	facts := []core.LineItem{
		fact("A", "3/25", 10),
		fact("A", "mar/2025", 20),
		fact("B", "Mar/25", 5),
	}
	p := BuildPivot(facts)
	if len(p.Columns) != 1 || p.Columns[0] != "Mar/2025" {
		t.Fatalf("columns = %v, want [Mar/2025]", p.Columns)
	}
	// Duplicate (asset, month) facts are summed, not overwritten.
	assertRow(t, p.Rows[0], "A", 30)
	assertRow(t, p.Rows[1], "B", 5)
}

func TestBuildPivotZeroFill(t *testing.T) {
	facts := []core.LineItem{
		fact("A", "Jan/2025", 1),
		fact("B", "Fev/2025", 2),
		fact("C", "Mar/2025", 3),
	}
	p := BuildPivot(facts)
	if len(p.Columns) != 3 {
		t.Fatalf("columns = %v", p.Columns)
	}
	for _, row := range p.Rows {
		if len(row.Values) != len(p.Columns) {
			t.Fatalf("row %s has %d values, want %d", row.Asset, len(row.Values), len(p.Columns))
		}
		nonZero := 0
		for _, v := range row.Values {
			if !v.IsZero() {
				nonZero++
			}
		}
		if nonZero != 1 {
			t.Fatalf("row %s has %d non-zero values, want 1", row.Asset, nonZero)
		}
	}
}

func TestBuildPivotEmpty(t *testing.T) {
	p := BuildPivot(nil)
	if len(p.Columns) != 0 || len(p.Rows) != 0 {
		t.Fatalf("empty facts should yield empty table, got %+v", p)
	}
}

func TestBuildPivotRowOrder(t *testing.T) {
	facts := []core.LineItem{
		fact("banana", "Jan/2025", 1),
		fact("Apple", "Jan/2025", 1),
		fact("cherry", "Jan/2025", 1),
	}
	p := BuildPivot(facts)
	want := []string{"Apple", "banana", "cherry"}
	for i, row := range p.Rows {
		if row.Asset != want[i] {
			t.Fatalf("row order = %v, want %v", p.Rows, want)
		}
	}
}
