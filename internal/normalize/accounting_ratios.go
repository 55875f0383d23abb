package normalize

import (
	"fmt"

	"github.com/seenimoa/finlens/internal/ratios"
	"github.com/seenimoa/finlens/internal/resolve"
	"github.com/seenimoa/finlens/pkg/models"
)

// DefaultReason is shown when the payload gives no reason for a variance.
const DefaultReason = "Normal Business Change"

// ratioRowDef is one line of the analytical ratios note.
type ratioRowDef struct {
	ratioKey    string // catalog key
	reasonKey   string // prefix of "<key>_reason" and reason_for_variance.<key>
	name        string
	unit        models.Unit
	numerator   string
	denominator string
	reason      string // default reason
}

var accountingRatioRows = []ratioRowDef{
	{
		ratioKey: "currentRatio", reasonKey: "current_ratio",
		name: "Current Ratio", unit: models.UnitTimes,
		numerator:   "Total Current Assets",
		denominator: "Total Current Liabilities",
	},
	{
		ratioKey: "debtToEquity", reasonKey: "debt_equity",
		name: "Debt-Equity Ratio", unit: models.UnitTimes,
		numerator:   "Total Debt (Borrowings and Lease Liabilities)",
		denominator: "Total Equity (i.e. Shareholders Fund)",
	},
	{
		ratioKey: "debtServiceCoverage", reasonKey: "debt_service",
		name: "Debt Service Coverage Ratio", unit: models.UnitTimes,
		numerator:   "Earning for Debt Service = Net Profit before taxes + Non-cash operating expenses + Interest + Other non-cash adjustments",
		denominator: "Debt service = Interest and lease payments + Principal repayments",
	},
	{
		ratioKey: "roe", reasonKey: "roe",
		name: "Return On Equity Ratio", unit: models.UnitPercentage,
		numerator:   "Profit for the Year (after Tax) - Pref. Dividend",
		denominator: "Average Shareholders Equity",
	},
	{
		ratioKey: "inventoryTurnover", reasonKey: "inventory_turnover",
		name: "Inventory Turnover Ratio", unit: models.UnitTimes,
		numerator:   "Revenue from operations",
		denominator: "Average Inventory",
	},
	{
		ratioKey: "tradeReceivablesTurnover", reasonKey: "trade_receivables",
		name: "Trade Receivables Turnover Ratio", unit: models.UnitTimes,
		numerator:   "Revenue from operations",
		denominator: "Average trade receivables",
	},
	{
		ratioKey: "tradePayablesTurnover", reasonKey: "trade_payables",
		name: "Trade Payables Turnover Ratio", unit: models.UnitTimes,
		numerator:   "Total Purchase",
		denominator: "Average trade Payables",
	},
	{
		ratioKey: "netCapitalTurnover", reasonKey: "net_capital",
		name: "Net Capital Turnover Ratio", unit: models.UnitTimes,
		numerator:   "Revenue from operations",
		denominator: "Average working capital (i.e. Total current assets less Total current liabilities)",
	},
	{
		ratioKey: "netMargin", reasonKey: "net_profit",
		name: "Net Profit Ratio", unit: models.UnitPercentage,
		numerator:   "Profit for the Year (after Tax)",
		denominator: "Revenue from operations (Net Sales)",
	},
	{
		ratioKey: "returnOnCapitalEmployed", reasonKey: "roce",
		name: "Return on Capital Employed", unit: models.UnitPercentage,
		numerator:   "Profit before tax and finance costs (EBIT)",
		denominator: "Capital Employed (Tangible Net Worth + Total Debt + DTL)",
	},
	{
		ratioKey: "returnOnInvestment", reasonKey: "roi",
		name: "Return on Investment", unit: models.UnitPercentage,
		numerator:   "Income generated from invested funds",
		denominator: "Average invested funds",
		reason:      "Investment in equity shares of unlisted private company, ratio calculable only at time of sale",
	},
}

// accountingRatios derives the current and previous ratio sets and lays out
// the analytical ratios note with variance and reasons.
func (b *builder) accountingRatios() {
	pl := resolve.Object(b.base.Reports, "profit_loss", "management_report.financial_statements.pl_statement")
	bs := resolve.Object(b.base.Reports, "balance_sheet", "management_report.financial_statements.balance_sheet")

	snap := ratios.SnapshotFrom(b.data, pl, bs)
	current := ratios.Derive(snap, b.data)

	prevDirect := resolve.Object(b.data, "previous_year", "previousYear", "previous_year_ratios", "previousYearRatios")
	previous := ratios.Derive(snap.PreviousOrEmpty(), prevDirect)

	b.rec.Ratios = &current
	b.rec.RatioRows = make([]models.RatioRow, 0, len(accountingRatioRows))
	for _, def := range accountingRatioRows {
		cur := current.Value(def.ratioKey)
		prev := previous.Value(def.ratioKey)
		if cur.IsAvailable() && prev.IsZero() {
			b.diag(def.ratioKey+".variance", fmt.Errorf("previous year is 0: %w", models.ErrDivisionByZero))
		}
		b.rec.RatioRows = append(b.rec.RatioRows, models.RatioRow{
			Key:         def.ratioKey,
			Name:        def.name,
			Unit:        def.unit,
			Numerator:   def.numerator,
			Denominator: def.denominator,
			Current:     cur,
			Previous:    prev,
			Variance:    ratios.Variance(cur, prev),
			Reason:      b.reason(def),
		})
	}

	prevSet := previous
	b.rec.PreviousYear = &models.ReportRecord{
		Name:           b.rec.Name,
		Kind:           b.rec.Kind,
		CompanyName:    b.rec.CompanyName,
		CIN:            b.rec.CIN,
		Period:         b.previousPeriodOrZero(),
		Ratios:         &prevSet,
		MissingDisplay: b.rec.MissingDisplay,
	}
}

func (b *builder) reason(def ratioRowDef) string {
	if s := resolve.String(b.data, def.reasonKey+"_reason", "reason_for_variance."+def.reasonKey); s != "" {
		return s
	}
	if def.reason != "" {
		return def.reason
	}
	return DefaultReason
}

// accountingRatioKeys returns the catalog keys of the analytical ratios note
// in display order.
func accountingRatioKeys() []string {
	out := make([]string, len(accountingRatioRows))
	for i, r := range accountingRatioRows {
		out[i] = r.ratioKey
	}
	return out
}
