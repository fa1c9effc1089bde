package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"carteira/internal/core"
)

// priorOffsets are the months-back distances reported by the summary card.
var priorOffsets = []int{1, 3, 6, 12}

type (
	// Summary is the compact dashboard header derived from one pivot:
	// the latest month, its total, totals N months back where the table
	// reaches that far, and the per-asset distribution of the latest month
	// sorted descending by amount.
	Summary struct {
		CurrentMonth string                     `json:"current_month"`
		CurrentTotal decimal.Decimal            `json:"current_total"`
		PriorTotals  map[int]decimal.Decimal    `json:"prior_totals"`
		Distribution []Share                    `json:"distribution"`
	}

	// Snapshot bundles every derived view of one fact family. It is owned by
	// the request that built it and discarded on the next refresh.
	Snapshot struct {
		Kind        core.RecordKind   `json:"kind"`
		Pivot       PivotTable        `json:"pivot"`
		Totals      []decimal.Decimal `json:"totals"`
		TotalDeltas []*float64        `json:"total_deltas"`
		Summary     Summary           `json:"summary"`
	}
)

// BuildSummary derives the summary view for the last column of a pivot.
// Invariant: CurrentTotal equals both the sum of Distribution amounts and
// the last entry of ColumnTotals.
func BuildSummary(p PivotTable) Summary {
	s := Summary{PriorTotals: make(map[int]decimal.Decimal), Distribution: []Share{}}
	if len(p.Columns) == 0 {
		return s
	}

	totals := ColumnTotals(p)
	last := len(p.Columns) - 1
	s.CurrentMonth = p.Columns[last]
	s.CurrentTotal = totals[last]

	for _, back := range priorOffsets {
		if idx := last - back; idx >= 0 {
			s.PriorTotals[back] = totals[idx]
		}
	}

	s.Distribution = Participation(p, last)
	sort.SliceStable(s.Distribution, func(i, j int) bool {
		return s.Distribution[i].Amount.GreaterThan(s.Distribution[j].Amount)
	})
	return s
}

// BuildSnapshot computes every derived view for one fact family in a single
// pass. All views come from the same pivot so they are mutually consistent.
func BuildSnapshot(kind core.RecordKind, facts []core.LineItem) Snapshot {
	pivot := BuildPivot(facts)
	totals := ColumnTotals(pivot)
	return Snapshot{
		Kind:        kind,
		Pivot:       pivot,
		Totals:      totals,
		TotalDeltas: PercentDeltas(totals),
		Summary:     BuildSummary(pivot),
	}
}
