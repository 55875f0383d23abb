package normalize

const (
	sectionShareholdersFunds  = "Shareholders' Funds"
	sectionNonCurrentLiab     = "Non-Current Liabilities"
	sectionCurrentLiab        = "Current Liabilities"
	sectionNonCurrentAssets   = "Non-Current Assets"
	sectionCurrentAssets      = "Current Assets"
	sectionBalanceSheetTotals = "Totals"
)

var (
	assetBreakdown     = []string{"assets.asset_breakdown", "asset_breakdown"}
	liabilityBreakdown = []string{"liabilities.liability_breakdown", "liability_breakdown"}
)

func liab(category, subcategory string) breakdown {
	return breakdown{array: liabilityBreakdown, category: category, subcategory: subcategory}
}

func asset(category, subcategory string) breakdown {
	return breakdown{array: assetBreakdown, category: category, subcategory: subcategory}
}

var balanceSheetFields = []field{
	// Equity and liabilities
	{
		key: "share_capital", label: "Share Capital", section: sectionShareholdersFunds,
		paths:  []string{"equity.share_capital", "equity.equity_share_capital"},
		dictIn: "equity", dict: []string{"Share Capital", "Share capital", "share capital", "Capital"},
	},
	{
		key: "reserves_and_surplus", label: "Reserves and Surplus", section: sectionShareholdersFunds,
		paths:  []string{"equity.reserves_and_surplus", "equity.reserves"},
		dictIn: "equity", dict: []string{"Reserves", "Reserves and Surplus", "Surplus"},
	},
	{
		key: "shareholders_funds", label: "Total Shareholders' Funds", section: sectionShareholdersFunds,
		paths:   []string{"equity.total_equity", "equity.total", "total_equity", "shareholders_funds"},
		compute: sumOf("share_capital", "reserves_and_surplus"),
	},
	{
		key: "long_term_borrowings", label: "Long-Term Borrowings", section: sectionNonCurrentLiab,
		paths:      []string{"liabilities.long_term_borrowings", "liabilities.bank_loan", "liabilities.loans"},
		breakdowns: []breakdown{liab("Long Term", "Borrowings")},
		dictIn:     "liabilities", dict: []string{"Long Term Borrowings", "Bank Loan", "Loans", "Borrowings"},
	},
	{
		key: "deferred_tax_liabilities", label: "Deferred Tax Liabilities (Net)", section: sectionNonCurrentLiab,
		paths:      []string{"liabilities.deferred_tax_liabilities"},
		breakdowns: []breakdown{liab("Non Current Liabilities", "Deferred Tax")},
	},
	{
		key: "long_term_provisions", label: "Long-Term Provisions", section: sectionNonCurrentLiab,
		paths:      []string{"liabilities.long_term_provisions"},
		breakdowns: []breakdown{liab("Non Current Liabilities", "Provisions")},
	},
	{
		key: "other_non_current_liabilities", label: "Other Non-Current Liabilities", section: sectionNonCurrentLiab,
		paths:      []string{"liabilities.other_non_current_liabilities"},
		breakdowns: []breakdown{liab("Non Current Liabilities", "Other")},
	},
	{
		key: "total_non_current_liabilities", label: "Total Non-Current Liabilities", section: sectionNonCurrentLiab,
		paths: []string{"liabilities.total_non_current_liabilities", "total_non_current_liabilities"},
		compute: sumOf("long_term_borrowings", "deferred_tax_liabilities",
			"long_term_provisions", "other_non_current_liabilities"),
	},
	{
		key: "short_term_borrowings", label: "Short-Term Borrowings", section: sectionCurrentLiab,
		paths:      []string{"liabilities.short_term_borrowings"},
		breakdowns: []breakdown{liab("Current Liabilities", "Borrowings")},
	},
	{
		key: "trade_payables", label: "Trade Payables", section: sectionCurrentLiab,
		paths:      []string{"liabilities.trade_payables", "liabilities.accounts_payable", "liabilities.creditors"},
		breakdowns: []breakdown{liab("Current Liabilities", "Trade Payables")},
	},
	{
		key: "other_current_liabilities", label: "Other Current Liabilities", section: sectionCurrentLiab,
		paths:      []string{"liabilities.other_current_liabilities"},
		breakdowns: []breakdown{liab("Current Liabilities", "Other")},
	},
	{
		key: "short_term_provisions", label: "Short-Term Provisions", section: sectionCurrentLiab,
		paths:      []string{"liabilities.short_term_provisions"},
		breakdowns: []breakdown{liab("Current Liabilities", "Provisions")},
	},
	{
		key: "total_current_liabilities", label: "Total Current Liabilities", section: sectionCurrentLiab,
		paths: []string{"liabilities.total_current_liabilities", "total_current_liabilities"},
		compute: sumOf("short_term_borrowings", "trade_payables",
			"other_current_liabilities", "short_term_provisions"),
	},
	{
		key: "total_equity_and_liabilities", label: "Total Equity and Liabilities", section: sectionBalanceSheetTotals,
		paths: []string{"total_equity_and_liabilities", "total_liabilities_and_equity",
			"liabilities.total_equity_and_liabilities"},
		compute: sumOf("shareholders_funds", "total_non_current_liabilities", "total_current_liabilities"),
	},

	// Assets
	{
		key: "property_plant_equipment", label: "Property, Plant and Equipment", section: sectionNonCurrentAssets,
		paths: []string{"assets.property_plant_equipment", "assets.fixed_assets", "assets.equipment"},
		breakdowns: []breakdown{
			asset("Non Current", "Property"),
			asset("Non Current", "Plant"),
			asset("Non Current", "Equipment"),
		},
		dictIn: "assets", dict: []string{"Property", "Plant", "Equipment", "Fixed Assets", "PPE"},
	},
	{
		key: "capital_work_in_progress", label: "Capital Work-in-Progress", section: sectionNonCurrentAssets,
		paths:      []string{"assets.capital_work_in_progress"},
		breakdowns: []breakdown{asset("Non Current Assets", "Capital Work in Progress")},
	},
	{
		key: "non_current_investments", label: "Non-Current Investments", section: sectionNonCurrentAssets,
		paths:      []string{"assets.non_current_investments", "assets.investments"},
		breakdowns: []breakdown{asset("Non Current Assets", "Investments")},
	},
	{
		key: "deferred_tax_assets", label: "Deferred Tax Assets (Net)", section: sectionNonCurrentAssets,
		paths:      []string{"assets.deferred_tax_assets"},
		breakdowns: []breakdown{asset("Non Current Assets", "Deferred Tax")},
	},
	{
		key: "long_term_loans_and_advances", label: "Long-Term Loans and Advances", section: sectionNonCurrentAssets,
		paths:      []string{"assets.long_term_loans_and_advances"},
		breakdowns: []breakdown{asset("Non Current Assets", "Loans & Advances")},
	},
	{
		key: "other_non_current_assets", label: "Other Non-Current Assets", section: sectionNonCurrentAssets,
		paths:      []string{"assets.other_non_current_assets"},
		breakdowns: []breakdown{asset("Non Current Assets", "Other")},
	},
	{
		key: "total_non_current_assets", label: "Total Non-Current Assets", section: sectionNonCurrentAssets,
		paths: []string{"assets.total_non_current_assets", "total_non_current_assets"},
		compute: sumOf("property_plant_equipment", "capital_work_in_progress", "non_current_investments",
			"deferred_tax_assets", "long_term_loans_and_advances", "other_non_current_assets"),
	},
	{
		key: "inventories", label: "Inventories", section: sectionCurrentAssets,
		paths:      []string{"assets.inventories", "assets.inventory", "assets.stock"},
		breakdowns: []breakdown{asset("Current Assets", "Inventories")},
	},
	{
		key: "trade_receivables", label: "Trade Receivables", section: sectionCurrentAssets,
		paths:      []string{"assets.trade_receivables", "assets.accounts_receivable", "assets.receivables"},
		breakdowns: []breakdown{asset("Current Assets", "Trade Receivables")},
	},
	{
		key: "cash_and_bank_balances", label: "Cash and Bank Balances", section: sectionCurrentAssets,
		paths:      []string{"assets.cash_and_bank_balances", "assets.cash_in_hand", "assets.bank_account"},
		breakdowns: []breakdown{asset("Current Assets", "Cash and Bank")},
	},
	{
		key: "short_term_loans_and_advances", label: "Short-Term Loans and Advances", section: sectionCurrentAssets,
		paths:      []string{"assets.short_term_loans_and_advances"},
		breakdowns: []breakdown{asset("Current Assets", "Loans & Advances")},
	},
	{
		key: "other_current_assets", label: "Other Current Assets", section: sectionCurrentAssets,
		paths:      []string{"assets.other_current_assets"},
		breakdowns: []breakdown{asset("Current Assets", "Other")},
	},
	{
		key: "total_current_assets", label: "Total Current Assets", section: sectionCurrentAssets,
		paths: []string{"assets.total_current_assets", "total_current_assets"},
		compute: sumOf("inventories", "trade_receivables", "cash_and_bank_balances",
			"short_term_loans_and_advances", "other_current_assets"),
	},
	{
		key: "total_assets", label: "Total Assets", section: sectionBalanceSheetTotals,
		paths:   []string{"total_assets", "assets.total_assets"},
		compute: sumOf("total_non_current_assets", "total_current_assets"),
	},
}

func (b *builder) balanceSheet() {
	b.statement(balanceSheetFields)
}

// balanceSheetKeys returns the canonical balance sheet keys in display order.
func balanceSheetKeys() []string {
	return keysOf(balanceSheetFields)
}

func keysOf(fields []field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.key
	}
	return out
}
