// Package report turns raw (asset, month, amount) facts into the derived
// views the dashboard consumes: a dense pivot table, per-column totals,
// month-over-month percentage deltas and participation shares.
//
// Every function here is pure. Derived views are rebuilt from scratch on each
// fetch or mutation cycle and never patched incrementally.
package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"carteira/internal/core"
)

type (
	// PivotRow is one asset's amounts aligned to PivotTable.Columns.
	PivotRow struct {
		Asset  string            `json:"asset"`
		Values []decimal.Decimal `json:"values"`
	}

	// PivotTable is the dense asset x month matrix. Columns are
	// chronologically sorted canonical month labels without duplicates;
	// every row has exactly len(Columns) values, zero-filled where the
	// asset had no entry that month.
	PivotTable struct {
		Columns []string   `json:"columns"`
		Rows    []PivotRow `json:"rows"`
	}
)

// BuildPivot converts a sparse fact list into a dense pivot table.
//
// Month labels are re-normalized before grouping. Duplicate (asset, month)
// facts are summed, not overwritten: the store is expected to enforce one
// row per pair but the engine tolerates violations. Empty input yields an
// empty table.
func BuildPivot(facts []core.LineItem) PivotTable {
	type cell struct{ asset, month string }

	sums := make(map[cell]decimal.Decimal, len(facts))
	monthSeen := make(map[string]bool)
	assetSeen := make(map[string]bool)

	for _, f := range facts {
		month := core.Normalize(f.Month)
		if month == "" || f.Asset == "" {
			continue
		}
		c := cell{asset: f.Asset, month: month}
		sums[c] = sums[c].Add(f.Amount)
		monthSeen[month] = true
		assetSeen[f.Asset] = true
	}

	columns := make([]string, 0, len(monthSeen))
	for m := range monthSeen {
		columns = append(columns, m)
	}
	core.SortLabels(columns)

	assets := make([]string, 0, len(assetSeen))
	for a := range assetSeen {
		assets = append(assets, a)
	}
	sortAssets(assets)

	rows := make([]PivotRow, 0, len(assets))
	for _, a := range assets {
		values := make([]decimal.Decimal, len(columns))
		for i, m := range columns {
			values[i] = sums[cell{asset: a, month: m}]
		}
		rows = append(rows, PivotRow{Asset: a, Values: values})
	}

	return PivotTable{Columns: columns, Rows: rows}
}

// sortAssets orders asset names case-insensitively, with the original
// spelling as tie-breaker so the order is deterministic.
func sortAssets(assets []string) {
	sort.Slice(assets, func(i, j int) bool {
		li, lj := strings.ToLower(assets[i]), strings.ToLower(assets[j])
		if li != lj {
			return li < lj
		}
		return assets[i] < assets[j]
	})
}
