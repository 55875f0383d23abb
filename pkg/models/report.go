package models

// Kind selects the canonical schema a report is normalized into.
type Kind string

const (
	KindBalanceSheet     Kind = "balance_sheet"
	KindProfitLoss       Kind = "profit_loss"
	KindCashFlow         Kind = "cash_flow"
	KindAccountingRatios Kind = "accounting_ratios"
	KindGeneric          Kind = "generic"
)

// Missing-value placeholders. Statement tables show a zero baseline; ratio
// tables show "not computable". The two are never interchangeable.
const (
	MissingStatement = "0.00"
	MissingRatio     = "NA"
)

// KindOf maps a report name to its kind.
func KindOf(name string) Kind {
	switch name {
	case "balance_sheet":
		return KindBalanceSheet
	case "profit_loss":
		return KindProfitLoss
	case "cash_flow", "cash_flow_statement":
		return KindCashFlow
	case "accounting_ratios":
		return KindAccountingRatios
	default:
		return KindGeneric
	}
}

// MissingDisplay returns the placeholder used for unavailable values in
// reports of this kind.
func (k Kind) MissingDisplay() string {
	if k == KindAccountingRatios {
		return MissingRatio
	}
	return MissingStatement
}

// LineItem is one canonical field of a normalized report.
type LineItem struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Section string `json:"section,omitempty"`
	Unit    Unit   `json:"unit"`
	Value   Value  `json:"value"`
	// Provided is true when the payload carried a value for this field, even
	// if that value was 0.
	Provided bool   `json:"provided"`
	Source   string `json:"source,omitempty"`
	Text     string `json:"text,omitempty"`
}

// RatioRow is one line of the analytical ratios table with a year-over-year
// variance column.
type RatioRow struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Unit        Unit   `json:"unit"`
	Numerator   string `json:"numerator"`
	Denominator string `json:"denominator"`
	Current     Value  `json:"current"`
	Previous    Value  `json:"previous"`
	Variance    Value  `json:"variance"`
	Reason      string `json:"reason"`
}

// Table is an array-of-objects section carried over from a generic report.
type Table struct {
	Name    string           `json:"name"`
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// ReportRecord is a normalized report. It is built once and not mutated
// afterwards.
type ReportRecord struct {
	Name           string        `json:"name"`
	Kind           Kind          `json:"kind"`
	CompanyName    string        `json:"company_name"`
	CIN            string        `json:"cin,omitempty"`
	Period         PeriodLabel   `json:"period"`
	PreviousPeriod *PeriodLabel  `json:"previous_period,omitempty"`
	Items          []LineItem    `json:"items,omitempty"`
	PreviousYear   *ReportRecord `json:"previous_year,omitempty"`
	RatioRows      []RatioRow    `json:"ratio_rows,omitempty"`
	Ratios         *RatioSet     `json:"ratios,omitempty"`
	Tables         []Table       `json:"tables,omitempty"`
	Error          string        `json:"error,omitempty"`
	MissingDisplay string        `json:"missing_display"`
	Diagnostics    []Diagnostic  `json:"diagnostics,omitempty"`
}

// Item returns the line item with the given key.
func (r ReportRecord) Item(key string) (LineItem, bool) {
	for _, it := range r.Items {
		if it.Key == key {
			return it, true
		}
	}
	return LineItem{}, false
}

// Previous returns the prior-year line item matching key, if the record has
// a previous-year sibling.
func (r ReportRecord) Previous(key string) (LineItem, bool) {
	if r.PreviousYear == nil {
		return LineItem{}, false
	}
	return r.PreviousYear.Item(key)
}

// Sections returns distinct item sections in first-seen order.
func (r ReportRecord) Sections() []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range r.Items {
		if it.Section == "" || seen[it.Section] {
			continue
		}
		seen[it.Section] = true
		out = append(out, it.Section)
	}
	return out
}
