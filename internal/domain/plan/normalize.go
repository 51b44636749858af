package plan

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dentalplan/planner/internal/platform/money"
)

// NormalizeRows turns submitted rows into computable ones. The display
// name is the catalog selection verbatim, or the trimmed custom text when
// the selection is the Custom sentinel. Rows whose resolved name is empty
// are dropped. Surviving rows keep their original submission index so
// later override matching stays aligned.
func NormalizeRows(raw []RawRow) []Row {
	rows := make([]Row, 0, len(raw))
	for i, r := range raw {
		name := r.ProcedureName
		if name == CustomProcedure {
			name = strings.TrimSpace(r.CustomName)
		}
		if name == "" {
			continue
		}
		rows = append(rows, Row{
			OriginalIndex: i,
			DisplayName:   name,
			Tooth:         strings.TrimSpace(r.Tooth),
			Reason:        strings.TrimSpace(r.Reason),
			Cost:          money.ParseAmount(r.Cost, decimal.Zero),
			Coverage:      money.ParsePercent(r.Coverage),
			NoFinance:     r.NoFinance,
		})
	}
	return rows
}

// markNoFinance sets the no-finance flag on the raw rows at the given
// submission indexes. Marked rows still consume benefit and show their
// cost split; only the monthly estimate is suppressed. Out-of-range
// indexes are ignored.
func markNoFinance(raw []RawRow, indexes []int) []RawRow {
	if len(indexes) == 0 {
		return raw
	}
	marked := make([]RawRow, len(raw))
	copy(marked, raw)
	for _, i := range indexes {
		if i >= 0 && i < len(marked) {
			marked[i].NoFinance = true
		}
	}
	return marked
}
