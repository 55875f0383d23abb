package normalize

import "github.com/seenimoa/finlens/pkg/models"

const (
	sectionOperating     = "Cash Flow from Operating Activities"
	sectionWorkingCap    = "Changes in Working Capital"
	sectionInvesting     = "Cash Flow from Investing Activities"
	sectionFinancing     = "Cash Flow from Financing Activities"
	sectionCashFlowTotal = "Net Change in Cash"
)

var (
	operating = []string{"operating_activities"}
	investing = []string{"investing_activities"}
	financing = []string{"financing_activities"}
)

func joinPaths(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var cashFlowFields = []field{
	{
		key: "net_profit_before_tax", label: "Net Profit before Tax", section: sectionOperating,
		paths: joinPaths([]string{"net_profit_before_tax"}, prefixed(operating, "net_profit_before_tax")),
	},
	{
		key: "depreciation", label: "Depreciation", section: sectionOperating,
		paths: joinPaths(prefixed(operating, "depreciation"), []string{"depreciation"}),
	},
	{
		key: "interest_on_fdr", label: "Interest on FDR", section: sectionOperating,
		paths: joinPaths(prefixed(operating, "interest_on_fdr"), prefixed(investing, "interest_on_fdr")),
	},
	{
		key: "other_interest_income", label: "Other Interest Income", section: sectionOperating,
		paths: joinPaths(prefixed(operating, "other_interest_income"), prefixed(investing, "other_interest_income")),
	},
	{
		key: "interest_expense", label: "Interest Expense", section: sectionOperating,
		paths: joinPaths(
			prefixed(operating, "interest_expense"),
			prefixed(financing, "interest_expense"),
			[]string{"interest_expense"},
		),
	},
	{
		key: "operating_profit_before_wc", label: "Operating Profit before Working Capital Changes", section: sectionOperating,
		paths: prefixed(operating, "operating_profit_before_wc", "operating_profit_before_working_capital_changes"),
	},
	{
		key: "increase_decrease_inventories", label: "(Increase)/Decrease in Inventories", section: sectionWorkingCap,
		paths: prefixed(operating, "increase_decrease_inventories", "changes_inventories"),
	},
	{
		key: "increase_decrease_trade_receivables", label: "(Increase)/Decrease in Trade Receivables", section: sectionWorkingCap,
		paths: prefixed(operating, "increase_decrease_trade_receivables", "changes_trade_receivables"),
	},
	{
		key: "increase_decrease_short_term_loans_advances", label: "(Increase)/Decrease in Short-Term Loans and Advances", section: sectionWorkingCap,
		paths: prefixed(operating, "increase_decrease_short_term_loans_advances", "changes_short_term_loans"),
	},
	{
		key: "increase_decrease_long_term_loans_advances", label: "(Increase)/Decrease in Long-Term Loans and Advances", section: sectionWorkingCap,
		paths: prefixed(operating, "increase_decrease_long_term_loans_advances"),
	},
	{
		key: "increase_decrease_other_assets", label: "(Increase)/Decrease in Other Current and Non-Current Assets", section: sectionWorkingCap,
		paths: prefixed(operating, "increase_decrease_other_assets"),
	},
	{
		key: "increase_decrease_trade_payables", label: "Increase/(Decrease) in Trade Payables", section: sectionWorkingCap,
		paths: prefixed(operating, "increase_decrease_trade_payables", "changes_trade_payables"),
	},
	{
		key: "increase_decrease_other_current_liabilities", label: "Increase/(Decrease) in Other Current Liabilities", section: sectionWorkingCap,
		paths: prefixed(operating, "increase_decrease_other_current_liabilities"),
	},
	{
		key: "increase_decrease_short_term_provisions", label: "Increase/(Decrease) in Short-Term Provisions", section: sectionWorkingCap,
		paths: prefixed(operating, "increase_decrease_short_term_provisions"),
	},
	{
		key: "increase_decrease_long_term_provisions", label: "Increase/(Decrease) in Long-Term Provisions", section: sectionWorkingCap,
		paths: prefixed(operating, "increase_decrease_long_term_provisions"),
	},
	{
		key: "cash_generated_used", label: "Cash Generated from/(Used in) Operations", section: sectionOperating,
		paths: joinPaths(
			prefixed(operating, "cash_generated_used"),
			[]string{"cash_from_operating", "operating_cash_flow"},
		),
	},
	{
		key: "cash_extraordinary", label: "Cash Flow from Extraordinary Items", section: sectionOperating,
		paths: prefixed(operating, "cash_extraordinary"),
	},
	{
		key: "income_tax_paid", label: "Income Tax Paid", section: sectionOperating,
		paths: joinPaths(prefixed(operating, "income_tax_paid"), []string{"income_tax_paid"}),
	},
	{
		key: "proceeds_from_fd_maturity", label: "Proceeds from Maturity of Fixed Deposits", section: sectionInvesting,
		paths: prefixed(investing, "proceeds_from_fd_maturity"),
	},
	{
		key: "purchase_fixed_assets", label: "Purchase of Fixed Assets", section: sectionInvesting,
		paths: prefixed(investing, "purchase_fixed_assets", "purchase_of_fixed_assets"),
	},
	{
		key: "proceeds_from_sale_fixed_assets", label: "Proceeds from Sale of Fixed Assets", section: sectionInvesting,
		paths: prefixed(investing, "proceeds_from_sale_fixed_assets"),
	},
	{
		key: "net_cash_investing", label: "Net Cash from/(Used in) Investing Activities", section: sectionInvesting,
		paths:   joinPaths(prefixed(investing, "net_cash_generated_used"), []string{"cash_from_investing"}),
		compute: sumOf("proceeds_from_fd_maturity", "purchase_fixed_assets", "proceeds_from_sale_fixed_assets"),
	},
	{
		key: "increase_decrease_long_term_borrowings", label: "Increase/(Decrease) in Long-Term Borrowings", section: sectionFinancing,
		paths: prefixed(financing, "increase_decrease_long_term_borrowings"),
	},
	{
		key: "increase_decrease_short_term_borrowings", label: "Increase/(Decrease) in Short-Term Borrowings", section: sectionFinancing,
		paths: prefixed(financing, "increase_decrease_short_term_borrowings"),
	},
	{
		key: "interest_subsidy_receivable", label: "Interest Subsidy Receivable", section: sectionFinancing,
		paths: prefixed(financing, "interest_subsidy_receivable"),
	},
	{
		key: "net_cash_financing", label: "Net Cash Generated from/(Used in) Financing Activities", section: sectionFinancing,
		paths: joinPaths(prefixed(financing, "net_cash_generated_used"), []string{"cash_from_financing"}),
	},
	{
		key: "net_increase_decrease_cash", label: "Net Increase/(Decrease) in Cash and Cash Equivalents", section: sectionCashFlowTotal,
		paths:     []string{"net_increase_decrease_cash", "net_cash_flow"},
		prevPaths: []string{"previous_net_cash_flow"},
	},
	{
		key: "cash_at_beginning", label: "Cash and Cash Equivalents at the Beginning of the Year", section: sectionCashFlowTotal,
		paths:     []string{"cash_at_beginning", "opening_balance", "cash_and_cash_equivalents_at_beginning"},
		prevPaths: []string{"previous_opening_balance"},
	},
	{
		key: "cash_at_end", label: "Cash and Cash Equivalents at the End of the Year", section: sectionCashFlowTotal,
		paths:     []string{"cash_at_end", "closing_balance", "cash_and_cash_equivalents_at_end"},
		prevPaths: []string{"previous_closing_balance"},
		compute: func(get func(string) models.Value) models.Value {
			// beginning + net change; both must be present.
			return get("cash_at_beginning").Sub(get("net_increase_decrease_cash").Scale(-1))
		},
	},
}

func (b *builder) cashFlow() {
	b.statement(cashFlowFields)
}

// cashFlowKeys returns the canonical cash flow keys in display order.
func cashFlowKeys() []string {
	return keysOf(cashFlowFields)
}
