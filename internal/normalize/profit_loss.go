package normalize

import (
	"github.com/seenimoa/finlens/internal/ratios"
	"github.com/seenimoa/finlens/pkg/models"
)

const (
	sectionIncome     = "Income"
	sectionExpenses   = "Expenses"
	sectionProfit     = "Profit"
	sectionOpexDetail = "Operating Expenses"
	sectionPerShare   = "Earnings per Equity Share"
)

var profitLossFields = []field{
	{
		key: "revenue", label: "Revenue from Operations", section: sectionIncome,
		paths: []string{"revenue", "revenue_from_operations", "total_revenue"},
	},
	{
		key: "other_income", label: "Other Income", section: sectionIncome,
		paths: []string{"other_income"},
	},
	{
		key: "total_income", label: "Total Income", section: sectionIncome,
		paths:   []string{"total_income"},
		compute: sumOf("revenue", "other_income"),
	},
	{
		key: "cost_of_material_consumed", label: "Cost of Material Consumed", section: sectionExpenses,
		paths: []string{"cost_of_material_consumed", "cogs", "cost_of_goods_sold"},
	},
	{
		key: "employee_benefits_expense", label: "Employee Benefits Expense", section: sectionExpenses,
		paths: []string{"employee_benefits_expense"},
	},
	{
		key: "finance_costs", label: "Finance Costs", section: sectionExpenses,
		paths: []string{"finance_costs", "interest_expense"},
	},
	{
		key: "depreciation_amortisation", label: "Depreciation and Amortisation Expense", section: sectionExpenses,
		paths: []string{"depreciation_amortisation", "depreciation_and_amortisation", "depreciation"},
	},
	{
		key: "other_expenses", label: "Other Expenses", section: sectionExpenses,
		paths: []string{"other_expenses"},
	},
	{
		key: "total_expenses", label: "Total Expenses", section: sectionExpenses,
		paths: []string{"total_expenses"},
		compute: sumOf("cost_of_material_consumed", "employee_benefits_expense", "finance_costs",
			"depreciation_amortisation", "other_expenses"),
	},
	{
		key: "profit_before_prior_period", label: "Profit from Ordinary Activities", section: sectionProfit,
		paths: []string{"profit_before_prior_period", "profit_before_exceptional_items"},
		compute: func(get func(string) models.Value) models.Value {
			return get("total_income").Sub(get("total_expenses"))
		},
	},
	{
		key: "prior_period_income_expense", label: "Prior Period Income / (Expense)", section: sectionProfit,
		paths: []string{"prior_period_income_expense", "prior_period_items"},
	},
	{
		key: "profit_before_tax", label: "Profit Before Tax", section: sectionProfit,
		paths: []string{"profit_before_tax", "operating_profit", "ebit"},
		compute: func(get func(string) models.Value) models.Value {
			base := get("profit_before_prior_period")
			if !base.IsAvailable() {
				return models.Unavailable()
			}
			return ratios.Sum(base, get("prior_period_income_expense"))
		},
	},
	{
		key: "tax_adjustments", label: "Tax Expense", section: sectionProfit,
		paths: []string{"tax_adjustments", "tax", "tax_expense"},
	},
	{
		key: "profit_for_year", label: "Profit for the Year", section: sectionProfit,
		paths: []string{"profit_for_year", "net_profit", "profit_after_tax"},
		compute: func(get func(string) models.Value) models.Value {
			pbt := get("profit_before_tax")
			if !pbt.IsAvailable() {
				return models.Unavailable()
			}
			return ratios.Sum(pbt, get("tax_adjustments").Scale(-1))
		},
	},
	{
		key: "earnings_per_share", label: "Basic and Diluted EPS", section: sectionPerShare, unit: models.UnitNumber,
		paths: []string{"earnings_per_share", "eps"},
	},

	// Summary lines the upstream analyzer reports alongside the statement.
	{
		key: "gross_profit", label: "Gross Profit", section: sectionOpexDetail,
		paths: []string{"gross_profit"},
		compute: func(get func(string) models.Value) models.Value {
			return get("revenue").Sub(get("cost_of_material_consumed"))
		},
	},
	{
		key: "operating_expenses", label: "Operating Expenses", section: sectionOpexDetail,
		paths: []string{"operating_expenses", "expenses", "opex"},
	},
	{
		key: "sales_expenses", label: "Sales", section: sectionOpexDetail,
		paths: []string{"sales", "opex_breakdown.sales"},
	},
	{
		key: "marketing_expenses", label: "Marketing", section: sectionOpexDetail,
		paths: []string{"marketing", "opex_breakdown.marketing"},
	},
	{
		key: "general_admin_expenses", label: "General & Administrative", section: sectionOpexDetail,
		paths: []string{"general_admin", "opex_breakdown.general_admin"},
	},
}

func (b *builder) profitLoss() {
	b.statement(profitLossFields)
}

// profitLossKeys returns the canonical profit and loss keys in display order.
func profitLossKeys() []string {
	return keysOf(profitLossFields)
}
