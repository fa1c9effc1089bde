package report

import (
	"github.com/shopspring/decimal"

	"carteira/internal/core"
)

type (
	// Share is one asset's slice of a month's total.
	Share struct {
		Asset  string          `json:"asset"`
		Amount decimal.Decimal `json:"amount"`
		Pct    float64         `json:"pct"`
	}

	// PercentRow carries month-over-month deltas for one asset. A nil entry
	// means the delta is undefined (no preceding column, or a zero baseline).
	PercentRow struct {
		Asset  string     `json:"asset"`
		Deltas []*float64 `json:"deltas"`
	}

	// PercentTable is the percentage-change view of a pivot table.
	PercentTable struct {
		Columns []string     `json:"columns"`
		Rows    []PercentRow `json:"rows"`
		Totals  []*float64   `json:"totals"`
	}
)

// ColumnTotals sums every column across all rows. The result has the same
// length as p.Columns.
func ColumnTotals(p PivotTable) []decimal.Decimal {
	totals := make([]decimal.Decimal, len(p.Columns))
	for _, row := range p.Rows {
		for i, v := range row.Values {
			totals[i] = totals[i].Add(v)
		}
	}
	return totals
}

// PercentDeltas computes the relative change of each entry against its
// predecessor, in percent. The first entry is always nil; an entry whose
// baseline is zero is nil as well, undefined rather than infinity.
// Percentages are not rounded here; formatting is a presentation concern.
func PercentDeltas(series []decimal.Decimal) []*float64 {
	deltas := make([]*float64, len(series))
	for i := 1; i < len(series); i++ {
		prev := series[i-1]
		if prev.IsZero() {
			continue
		}
		pct := series[i].Sub(prev).Div(prev).InexactFloat64() * 100
		deltas[i] = &pct
	}
	return deltas
}

// BuildPercentTable derives per-asset and grand-total deltas from a pivot.
func BuildPercentTable(p PivotTable) PercentTable {
	rows := make([]PercentRow, 0, len(p.Rows))
	for _, row := range p.Rows {
		rows = append(rows, PercentRow{Asset: row.Asset, Deltas: PercentDeltas(row.Values)})
	}
	return PercentTable{
		Columns: append([]string(nil), p.Columns...),
		Rows:    rows,
		Totals:  PercentDeltas(ColumnTotals(p)),
	}
}

// Participation returns each asset's share of the total for one column.
//
// An out-of-range column index is clamped to the last available column.
// Rows named with the reserved total sentinel are skipped. When the column
// total is not positive every share is 0; an empty pivot yields an empty
// slice.
func Participation(p PivotTable, col int) []Share {
	if len(p.Columns) == 0 {
		return []Share{}
	}
	if col < 0 || col >= len(p.Columns) {
		col = len(p.Columns) - 1
	}

	total := decimal.Zero
	for _, row := range p.Rows {
		if row.Asset == core.TotalRowName {
			continue
		}
		total = total.Add(row.Values[col])
	}

	shares := make([]Share, 0, len(p.Rows))
	for _, row := range p.Rows {
		if row.Asset == core.TotalRowName {
			continue
		}
		amount := row.Values[col]
		pct := 0.0
		if total.IsPositive() {
			pct = amount.Div(total).InexactFloat64() * 100
		}
		shares = append(shares, Share{Asset: row.Asset, Amount: amount, Pct: pct})
	}
	return shares
}
