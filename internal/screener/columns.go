package screener

import "github.com/pders01/screener/internal/filter"

// Column is a result table column.
type Column struct {
	Label    string
	Field    string
	Sortable bool
}

var Columns = []Column{
	{Label: "Symbol", Field: "ticker", Sortable: true},
	{Label: "Name", Field: "company_name", Sortable: true},
	{Label: "Market Cap", Field: "market_cap", Sortable: true},
	{Label: "Previous Close", Field: "previous_close", Sortable: true},
	{Label: "50-Day Avg", Field: "fifty_day_average"},
	{Label: "200-Day Avg", Field: "two_hundred_day_average"},
	{Label: "P/E Ratio", Field: "pe", Sortable: true},
	{Label: "Forward P/E", Field: "forward_pe", Sortable: true},
	{Label: "Dividend Yield", Field: "dividend_yield", Sortable: true},
	{Label: "Payout Ratio", Field: "payout_ratio", Sortable: true},
}

// ColumnToField maps column labels to backend sort fields.
var ColumnToField = func() map[string]string {
	m := make(map[string]string, len(Columns))
	for _, c := range Columns {
		m[c.Label] = c.Field
	}
	return m
}()

// SortIndicator returns the arrow shown next to a column sorted by o.
func SortIndicator(column string, o filter.Options) string {
	field, ok := ColumnToField[column]
	if !ok || o.SortBy == nil || *o.SortBy != field {
		return ""
	}
	if o.SortOrder != nil && *o.SortOrder == filter.SortDesc {
		return "↓"
	}
	return "↑"
}
