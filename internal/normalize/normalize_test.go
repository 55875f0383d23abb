package normalize

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/finlens/internal/payload"
	"github.com/seenimoa/finlens/pkg/models"
	"github.com/seenimoa/finlens/pkg/utils"
)

func newTestNormalizer() *Normalizer {
	return New(DefaultOptions(), zerolog.Nop())
}

func item(t *testing.T, rec models.ReportRecord, key string) models.LineItem {
	t.Helper()
	it, ok := rec.Item(key)
	require.True(t, ok, "missing item %s", key)
	return it
}

func num(t *testing.T, v models.Value) float64 {
	t.Helper()
	f, ok := v.Float()
	require.True(t, ok, "value unavailable")
	return f
}

func balanceSheetPayload() map[string]any {
	return map[string]any{
		"company_name": "Acme Pvt Ltd",
		"period":       "31st March 2024",
		"equity": map[string]any{
			"Share Capital": 500,
			"Reserves":      200,
		},
		"liabilities": map[string]any{
			"trade_payables": 300,
			"liability_breakdown": []any{
				map[string]any{"category": "Long Term Liabilities", "subcategory": "Borrowings", "amount": 1000},
			},
		},
		"assets": map[string]any{
			"inventories":       0,
			"trade_receivables": "1,500",
			"cash_in_hand":      json.Number("250"),
		},
		"previous_year": map[string]any{
			"assets": map[string]any{"inventories": 80},
		},
	}
}

func TestBalanceSheetSources(t *testing.T) {
	rec := newTestNormalizer().NormalizeReport("balance_sheet", balanceSheetPayload(), BaseContext{})

	assert.Equal(t, models.KindBalanceSheet, rec.Kind)
	assert.Equal(t, "Acme Pvt Ltd", rec.CompanyName)
	assert.Equal(t, models.MissingStatement, rec.MissingDisplay)
	assert.Len(t, rec.Items, len(balanceSheetKeys()))

	tests := []struct {
		key      string
		want     float64
		source   string
		provided bool
	}{
		{"share_capital", 500, sourceDictionary, true},
		{"reserves_and_surplus", 200, sourceDictionary, true},
		{"shareholders_funds", 700, sourceComputed, false},
		{"long_term_borrowings", 1000, sourceBreakdown, true},
		{"trade_payables", 300, "liabilities.trade_payables", true},
		{"trade_receivables", 1500, "assets.trade_receivables", true},
		{"cash_and_bank_balances", 250, "assets.cash_in_hand", true},
		{"total_current_assets", 1750, sourceComputed, false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			it := item(t, rec, tt.key)
			assert.InDelta(t, tt.want, num(t, it.Value), 1e-9)
			assert.Equal(t, tt.source, it.Source)
			assert.Equal(t, tt.provided, it.Provided)
		})
	}
}

func TestZeroIsProvidedMissingIsNot(t *testing.T) {
	rec := newTestNormalizer().NormalizeReport("balance_sheet", balanceSheetPayload(), BaseContext{})

	inv := item(t, rec, "inventories")
	assert.True(t, inv.Provided)
	assert.Equal(t, 0.0, num(t, inv.Value))

	cwip := item(t, rec, "capital_work_in_progress")
	assert.False(t, cwip.Provided)
	assert.False(t, cwip.Value.IsAvailable())
	assert.Equal(t, "0.00", utils.FormatValue(cwip.Value, cwip.Unit, rec.MissingDisplay, 2))
}

func TestBalanceSheetPreviousYear(t *testing.T) {
	rec := newTestNormalizer().NormalizeReport("balance_sheet", balanceSheetPayload(), BaseContext{})

	require.NotNil(t, rec.PreviousYear)
	prev, ok := rec.Previous("inventories")
	require.True(t, ok)
	assert.Equal(t, 80.0, num(t, prev.Value))
	assert.Equal(t, "31st March 2023", rec.PreviousYear.Period.Label())

	// Fuzzy sources only apply to the current year.
	ltb, _ := rec.Previous("long_term_borrowings")
	assert.False(t, ltb.Value.IsAvailable())
}

func TestNoPreviousYearWithoutValues(t *testing.T) {
	rec := newTestNormalizer().NormalizeReport("balance_sheet", map[string]any{
		"assets": map[string]any{"inventories": 10},
	}, BaseContext{})
	assert.Nil(t, rec.PreviousYear)
	require.NotNil(t, rec.PreviousPeriod)
	assert.Equal(t, "31st March 2023", rec.PreviousPeriod.Label())
}

func TestNormalizeIdempotent(t *testing.T) {
	n := newTestNormalizer()
	base := BaseContext{CompanyName: "Acme"}
	first := n.NormalizeReport("balance_sheet", balanceSheetPayload(), base)
	second := n.NormalizeReport("balance_sheet", balanceSheetPayload(), base)
	assert.Equal(t, first, second)
}

func TestProfitLossComputedLines(t *testing.T) {
	rec := newTestNormalizer().NormalizeReport("profit_loss", map[string]any{
		"revenue":                   1000,
		"other_income":              50,
		"cost_of_material_consumed": 400,
		"employee_benefits_expense": 200,
		"finance_costs":             50,
		"tax":                       100,
	}, BaseContext{})

	tests := []struct {
		key  string
		want float64
	}{
		{"total_income", 1050},
		{"total_expenses", 650},
		{"profit_before_prior_period", 400},
		{"profit_before_tax", 400},
		{"profit_for_year", 300},
		{"gross_profit", 600},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, num(t, item(t, rec, tt.key).Value), 1e-9, tt.key)
	}

	opex := item(t, rec, "sales_expenses")
	assert.False(t, opex.Value.IsAvailable(), "opex split is never invented")
}

func TestCashFlowClosingBalance(t *testing.T) {
	rec := newTestNormalizer().NormalizeReport("cash_flow_statement", map[string]any{
		"cash_at_beginning":          100,
		"net_increase_decrease_cash": -30,
		"previous_closing_balance":   100,
		"investing_activities": map[string]any{
			"purchase_fixed_assets":           -50,
			"proceeds_from_sale_fixed_assets": 20,
		},
	}, BaseContext{})

	assert.Equal(t, models.KindCashFlow, rec.Kind)
	assert.InDelta(t, 70, num(t, item(t, rec, "cash_at_end").Value), 1e-9)
	assert.InDelta(t, -30, num(t, item(t, rec, "net_cash_investing").Value), 1e-9)

	prev, ok := rec.Previous("cash_at_end")
	require.True(t, ok)
	assert.Equal(t, 100.0, num(t, prev.Value))
}

func TestPeriodResolution(t *testing.T) {
	n := newTestNormalizer()
	tests := []struct {
		name     string
		report   string
		payload  map[string]any
		base     BaseContext
		want     string
		wantPrev string
	}{
		{"default", "balance_sheet", map[string]any{}, BaseContext{}, "31st March 2024", "31st March 2023"},
		{"placeholder", "balance_sheet", map[string]any{"period": "Current Period"}, BaseContext{}, "31st March 2024", "31st March 2023"},
		{"numeric year", "profit_loss", map[string]any{"year": json.Number("2023")}, BaseContext{}, "31st March 2023", "31st March 2022"},
		{"from context", "cash_flow", map[string]any{}, BaseContext{Period: "2025-03-31"}, "31st March 2025", "31st March 2024"},
		{"explicit previous", "balance_sheet", map[string]any{"previous_period": "31 Dec 2022"}, BaseContext{}, "31st March 2024", "31st December 2022"},
		{"context previous", "balance_sheet", map[string]any{}, BaseContext{PreviousPeriod: "30/06/2023"}, "31st March 2024", "30th June 2023"},
		{"generic default", "gst_summary", map[string]any{}, BaseContext{}, "31st March 2024", "31st March 2023"},
		{"generic year back", "gst_return", map[string]any{"period": "31st March 2024"}, BaseContext{}, "31st March 2024", "31st March 2023"},
		{"generic explicit previous", "notes", map[string]any{"previous_period": "2022-03-31"}, BaseContext{}, "31st March 2024", "31st March 2022"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := n.NormalizeReport(tt.report, tt.payload, tt.base)
			assert.Equal(t, tt.want, rec.Period.Label())
			require.NotNil(t, rec.PreviousPeriod)
			assert.Equal(t, tt.wantPrev, rec.PreviousPeriod.Label())
		})
	}
}

func TestUnparseablePeriodIsDiagnosed(t *testing.T) {
	rec := newTestNormalizer().NormalizeReport("balance_sheet", map[string]any{"period": "sometime"}, BaseContext{})
	assert.Equal(t, "31st March 2024", rec.Period.Label())
	require.NotEmpty(t, rec.Diagnostics)
	assert.Equal(t, "period", rec.Diagnostics[0].Field)
}

func TestTypeMismatchIsolated(t *testing.T) {
	rec := newTestNormalizer().NormalizeReport("profit_loss", map[string]any{
		"revenue":      map[string]any{"oops": 1},
		"other_income": 5,
	}, BaseContext{})

	assert.False(t, item(t, rec, "revenue").Value.IsAvailable())
	assert.Equal(t, 5.0, num(t, item(t, rec, "other_income").Value))
	require.Len(t, rec.Diagnostics, 1)
	assert.Equal(t, "revenue", rec.Diagnostics[0].Field)
}

func TestNonObjectPayload(t *testing.T) {
	rec := newTestNormalizer().NormalizeReport("balance_sheet", "not json", BaseContext{CompanyName: "Acme"})
	assert.Equal(t, "Acme", rec.CompanyName)
	assert.Empty(t, rec.Items)
	require.Len(t, rec.Diagnostics, 1)
	assert.Contains(t, rec.Diagnostics[0].Err, "type mismatch")
}

func TestEmptyStatementIsDiagnosed(t *testing.T) {
	rec := newTestNormalizer().NormalizeReport("cash_flow", map[string]any{"note": "nothing here"}, BaseContext{})
	require.Len(t, rec.Diagnostics, 1)
	assert.Equal(t, "cash_flow", rec.Diagnostics[0].Field)
	assert.Contains(t, rec.Diagnostics[0].Err, models.ErrFieldMissing.Error())
}

func TestZeroPreviousRatioIsDiagnosed(t *testing.T) {
	rec := newTestNormalizer().NormalizeReport("accounting_ratios", map[string]any{
		"current_ratio": 1.2,
		"previous_year": map[string]any{"current_ratio": 0},
	}, BaseContext{})
	require.Len(t, rec.Diagnostics, 1)
	assert.Equal(t, "currentRatio.variance", rec.Diagnostics[0].Field)
	assert.Contains(t, rec.Diagnostics[0].Err, models.ErrDivisionByZero.Error())
}

func TestErrorFieldShortCircuits(t *testing.T) {
	rec := newTestNormalizer().NormalizeReport("profit_loss", map[string]any{
		"error":   "extraction failed",
		"revenue": 10,
	}, BaseContext{})
	assert.Equal(t, "extraction failed", rec.Error)
	assert.Empty(t, rec.Items)
}

func TestAccountingRatios(t *testing.T) {
	base := BaseContext{Reports: map[string]any{
		"profit_loss":   map[string]any{"revenue": 1000, "profit_for_year": 100},
		"balance_sheet": map[string]any{"assets": map[string]any{"inventories": 250}},
	}}
	rec := newTestNormalizer().NormalizeReport("accounting_ratios", map[string]any{
		"current_ratio": 2.5,
		"previous_year": map[string]any{"current_ratio": 0, "netProfitRatio": 8},
		"reason_for_variance": map[string]any{
			"debt_equity": "Loans repaid",
		},
		"net_profit_reason": "Higher sales",
	}, base)

	assert.Equal(t, models.MissingRatio, rec.MissingDisplay)
	require.NotNil(t, rec.Ratios)
	require.Len(t, rec.RatioRows, len(accountingRatioKeys()))

	rows := make(map[string]models.RatioRow)
	for _, r := range rec.RatioRows {
		rows[r.Key] = r
	}

	cr := rows["currentRatio"]
	assert.Equal(t, 2.5, num(t, cr.Current))
	assert.Equal(t, 0.0, num(t, cr.Previous))
	assert.False(t, cr.Variance.IsAvailable(), "previous of 0 has no variance")
	assert.Equal(t, "NA", utils.FormatValue(cr.Variance, models.UnitPercentage, rec.MissingDisplay, 2))

	inv := rows["inventoryTurnover"]
	assert.InDelta(t, 4, num(t, inv.Current), 1e-9)

	np := rows["netMargin"]
	assert.InDelta(t, 10, num(t, np.Current), 1e-9)
	assert.InDelta(t, 8, num(t, np.Previous), 1e-9)
	assert.InDelta(t, 25, num(t, np.Variance), 1e-9)
	assert.Equal(t, "Higher sales", np.Reason)

	assert.Equal(t, "Loans repaid", rows["debtToEquity"].Reason)
	assert.Equal(t, DefaultReason, rows["roe"].Reason)
	assert.Contains(t, rows["returnOnInvestment"].Reason, "unlisted private company")
	assert.False(t, rows["returnOnInvestment"].Current.IsAvailable())

	require.NotNil(t, rec.PreviousYear)
	require.NotNil(t, rec.PreviousYear.Ratios)
	assert.Equal(t, "31st March 2023", rec.PreviousYear.Period.Label())
}

func TestAccountingRatiosFromManagementReport(t *testing.T) {
	base := BaseContext{Reports: map[string]any{
		"management_report": map[string]any{
			"financial_statements": map[string]any{
				"balance_sheet": map[string]any{
					"total_current_assets":      600,
					"total_current_liabilities": 300,
				},
			},
		},
	}}
	rec := newTestNormalizer().NormalizeReport("accounting_ratios", map[string]any{}, base)
	assert.InDelta(t, 2, num(t, rec.RatioRows[0].Current), 1e-9)
}

func TestGenericReport(t *testing.T) {
	rec := newTestNormalizer().NormalizeReport("gst_summary", map[string]any{
		"company_name": "Acme",
		"gstin":        "29ABCDE1234F1Z5",
		"totals": map[string]any{
			"taxable_value": "₹1,20,000",
			"tax_rate":      "18%",
			"filed":         true,
		},
		"entries": []any{
			map[string]any{"invoice": "INV-1", "amount": 100},
			map[string]any{"invoice": "INV-2", "amount": 200, "note": "late"},
		},
		"tags": []any{"b2b", "monthly"},
	}, BaseContext{})

	assert.Equal(t, models.KindGeneric, rec.Kind)
	keys := make([]string, len(rec.Items))
	for i, it := range rec.Items {
		keys[i] = it.Key
	}
	assert.Equal(t, []string{"gstin", "tags", "totals.filed", "totals.tax_rate", "totals.taxable_value"}, keys)

	assert.Equal(t, "29ABCDE1234F1Z5", item(t, rec, "gstin").Text)
	assert.False(t, item(t, rec, "gstin").Value.IsAvailable())
	assert.Equal(t, "b2b, monthly", item(t, rec, "tags").Text)
	assert.Equal(t, 120000.0, num(t, item(t, rec, "totals.taxable_value").Value))

	rate := item(t, rec, "totals.tax_rate")
	assert.Equal(t, models.UnitPercentage, rate.Unit)
	assert.Equal(t, 18.0, num(t, rate.Value))

	require.Len(t, rec.Tables, 1)
	assert.Equal(t, "entries", rec.Tables[0].Name)
	assert.Equal(t, []string{"amount", "invoice", "note"}, rec.Tables[0].Columns)
	assert.Nil(t, rec.Ratios)
}

func TestGenericBankStatement(t *testing.T) {
	rec := newTestNormalizer().NormalizeReport("bank_statement", map[string]any{
		"summary": map[string]any{
			"opening_balance": 1000,
			"closing_balance": 1500,
		},
		"transactions": []any{
			map[string]any{"type": "credit", "amount": 800},
			map[string]any{"type": "debit", "amount": 300},
		},
	}, BaseContext{})

	require.NotNil(t, rec.Ratios)
	assert.InDelta(t, 500, num(t, rec.Ratios.Value("netChange")), 1e-9)
	assert.InDelta(t, 50, num(t, rec.Ratios.Value("percentageChange")), 1e-9)
	assert.InDelta(t, 1500.0/300, num(t, rec.Ratios.Value("currentRatio")), 1e-9)
	assert.Equal(t, models.MissingRatio, rec.MissingDisplay)
	require.NotNil(t, rec.PreviousPeriod)
	assert.Equal(t, "31st March 2023", rec.PreviousPeriod.Label())
	require.Len(t, rec.Tables, 1)
}

func TestGenericRatioReport(t *testing.T) {
	rec := newTestNormalizer().NormalizeReport("financial_ratios", map[string]any{
		"liquidity": map[string]any{"currentAssets": 300, "currentLiabilities": 200},
		"balanceSheet": map[string]any{"inventory": 0},
	}, BaseContext{})

	require.NotNil(t, rec.Ratios)
	assert.InDelta(t, 1.5, num(t, rec.Ratios.Value("quickRatio")), 1e-9)
	r, ok := rec.Ratios.Get("quickRatio")
	require.True(t, ok)
	assert.Equal(t, models.SourceDerived, r.Source)
	assert.Equal(t, models.KindGeneric, rec.Kind)
	assert.Equal(t, models.MissingRatio, rec.MissingDisplay)
}

func TestUnusableDefaultPeriodFallsBackToFiscalYearEnd(t *testing.T) {
	n := New(Options{DefaultPeriod: "whenever"}, zerolog.Nop())
	n.now = func() time.Time { return time.Date(2025, 7, 1, 0, 0, 0, 0, utils.IST) }

	rec := n.NormalizeReport("balance_sheet", map[string]any{}, BaseContext{})
	assert.Equal(t, "31st March 2026", rec.Period.Label())
	require.NotNil(t, rec.PreviousPeriod)
	assert.Equal(t, "31st March 2025", rec.PreviousPeriod.Label())

	rec = n.NormalizeReport("profit_loss", "not an object", BaseContext{})
	assert.Equal(t, "31st March 2026", rec.Period.Label())
}

func TestBatch(t *testing.T) {
	res, err := payload.Decode([]byte(`{
		"document_type": "trial_balance",
		"company_name": "Acme",
		"period": "31st March 2024",
		"reports": {
			"balance_sheet": {"assets": {"inventories": 10}},
			"profit_loss": {"revenue": 1000, "profit_for_year": 50},
			"accounting_ratios": {"current_ratio": 1.2},
			"broken": "oops"
		}
	}`))
	require.NoError(t, err)

	out, err := newTestNormalizer().Batch(context.Background(), res)
	require.NoError(t, err)
	assert.NotEmpty(t, out.RunID)
	assert.Equal(t, "trial_balance", out.DocumentType)
	assert.Equal(t, []string{"accounting_ratios", "balance_sheet", "broken", "profit_loss"}, out.Names())

	assert.Equal(t, 10.0, num(t, item(t, out.Records["balance_sheet"], "inventories").Value))
	assert.InDelta(t, 5, num(t, out.Records["accounting_ratios"].RatioRows[8].Current), 1e-9)
	assert.NotEmpty(t, out.Records["broken"].Diagnostics)
	assert.Equal(t, "Acme", out.Records["profit_loss"].CompanyName)
}

func TestBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := payload.Result{Reports: map[string]any{"balance_sheet": map[string]any{}}}
	_, err := newTestNormalizer().Batch(ctx, res)
	assert.ErrorIs(t, err, context.Canceled)
}
