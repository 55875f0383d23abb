// Package ratios derives the canonical ratio set from a statement snapshot,
// preferring ratios the source already reports.
package ratios

import (
	"math"

	"github.com/seenimoa/finlens/pkg/models"
)

// Definition describes one canonical ratio.
type Definition struct {
	Key      string
	Category models.Category
	Name     string
	Unit     models.Unit
	// Aliases are resolver keys checked in the direct-ratio payload, in order.
	// Flat keys come before nested paths.
	Aliases []string
	// Formula derives the ratio from a snapshot. Nil means direct-only.
	Formula func(s models.Snapshot) models.Value
}

var catalog = []Definition{
	// ── Liquidity ──
	{
		Key: "currentRatio", Category: models.CategoryLiquidity, Name: "Current Ratio", Unit: models.UnitTimes,
		Aliases: []string{"currentRatio", "liquidity.currentRatio"},
		Formula: func(s models.Snapshot) models.Value { return s.CurrentAssets.Div(s.CurrentLiabilities) },
	},
	{
		Key: "quickRatio", Category: models.CategoryLiquidity, Name: "Quick Ratio", Unit: models.UnitTimes,
		Aliases: []string{"quickRatio", "liquidity.quickRatio"},
		Formula: quickRatio,
	},
	{
		Key: "cashRatio", Category: models.CategoryLiquidity, Name: "Cash Ratio", Unit: models.UnitTimes,
		Aliases: []string{"cashRatio", "liquidity.cashRatio"},
		Formula: func(s models.Snapshot) models.Value { return s.Cash.Div(s.CurrentLiabilities) },
	},
	{
		Key: "workingCapital", Category: models.CategoryLiquidity, Name: "Working Capital", Unit: models.UnitCurrency,
		Aliases: []string{"workingCapital", "liquidity.workingCapital", "workingCapital.amount"},
		Formula: workingCapital,
	},
	{
		Key: "workingCapitalRatio", Category: models.CategoryLiquidity, Name: "Working Capital Ratio", Unit: models.UnitTimes,
		Aliases: []string{"workingCapitalRatio", "liquidity.workingCapitalRatio", "workingCapital.ratio"},
		Formula: func(s models.Snapshot) models.Value { return s.CurrentAssets.Div(s.CurrentLiabilities) },
	},

	// ── Profitability ──
	{
		Key: "grossMargin", Category: models.CategoryProfitability, Name: "Gross Margin", Unit: models.UnitPercentage,
		Aliases: []string{"grossMargin", "profitability.grossMargin", "profitability.grossProfitMargin"},
		Formula: grossMargin,
	},
	{
		Key: "netMargin", Category: models.CategoryProfitability, Name: "Net Profit Margin", Unit: models.UnitPercentage,
		Aliases: []string{"netProfitRatio", "netProfitMargin", "profitability.netMargin", "profitability.netProfitMargin"},
		Formula: func(s models.Snapshot) models.Value { return marginOf(s.NetProfit, s.Revenue) },
	},
	{
		Key: "operatingMargin", Category: models.CategoryProfitability, Name: "Operating Margin", Unit: models.UnitPercentage,
		Aliases: []string{"operatingMargin", "profitability.operatingMargin"},
		Formula: func(s models.Snapshot) models.Value { return marginOf(s.OperatingProfit, s.Revenue) },
	},
	{
		Key: "roe", Category: models.CategoryProfitability, Name: "Return on Equity", Unit: models.UnitPercentage,
		Aliases: []string{"returnOnEquity", "roe", "profitability.roe", "profitability.returnOnEquity"},
		Formula: func(s models.Snapshot) models.Value { return s.NetProfit.Div(s.TotalEquity).Scale(100) },
	},
	{
		Key: "roa", Category: models.CategoryProfitability, Name: "Return on Assets", Unit: models.UnitPercentage,
		Aliases: []string{"returnOnAssets", "roa", "profitability.roa", "profitability.returnOnAssets"},
		Formula: func(s models.Snapshot) models.Value { return positiveDiv(s.NetProfit, s.TotalAssets).Scale(100) },
	},
	{
		Key: "ebitdaMargin", Category: models.CategoryProfitability, Name: "EBITDA Margin", Unit: models.UnitPercentage,
		Aliases: []string{"ebitdaMargin", "profitability.ebitdaMargin"},
		Formula: func(s models.Snapshot) models.Value { return marginOf(s.EBITDA, s.Revenue) },
	},
	{
		Key: "returnOnCapitalEmployed", Category: models.CategoryProfitability, Name: "Return on Capital Employed", Unit: models.UnitPercentage,
		Aliases: []string{"returnOnCapitalEmployed", "roce", "profitability.roce", "profitability.returnOnCapitalEmployed"},
		Formula: returnOnCapitalEmployed,
	},
	{
		Key: "returnOnInvestment", Category: models.CategoryProfitability, Name: "Return on Investment", Unit: models.UnitPercentage,
		Aliases: []string{"returnOnInvestment", "roi", "profitability.roi", "profitability.returnOnInvestment"},
	},

	// ── Efficiency ──
	{
		Key: "assetTurnover", Category: models.CategoryEfficiency, Name: "Asset Turnover", Unit: models.UnitTimes,
		Aliases: []string{"assetTurnover", "efficiency.assetTurnover"},
		Formula: func(s models.Snapshot) models.Value { return positiveDiv(s.Revenue, s.TotalAssets) },
	},
	{
		Key: "inventoryTurnover", Category: models.CategoryEfficiency, Name: "Inventory Turnover", Unit: models.UnitTimes,
		Aliases: []string{"inventoryTurnover", "efficiency.inventoryTurnover"},
		Formula: func(s models.Snapshot) models.Value { return s.Revenue.Div(s.Inventory) },
	},
	{
		Key: "tradeReceivablesTurnover", Category: models.CategoryEfficiency, Name: "Trade Receivables Turnover", Unit: models.UnitTimes,
		Aliases: []string{"tradeReceivablesTurnover", "efficiency.tradeReceivablesTurnover", "efficiency.receivablesTurnover"},
	},
	{
		Key: "tradePayablesTurnover", Category: models.CategoryEfficiency, Name: "Trade Payables Turnover", Unit: models.UnitTimes,
		Aliases: []string{"tradePayablesTurnover", "efficiency.tradePayablesTurnover", "efficiency.payablesTurnover"},
	},
	{
		Key: "netCapitalTurnover", Category: models.CategoryEfficiency, Name: "Net Capital Turnover", Unit: models.UnitTimes,
		Aliases: []string{"netCapitalTurnover", "efficiency.netCapitalTurnover"},
		Formula: func(s models.Snapshot) models.Value {
			return positiveDiv(s.Revenue, s.TotalAssets.Sub(s.TotalLiabilities))
		},
	},

	// ── Leverage ──
	{
		Key: "debtToEquity", Category: models.CategoryLeverage, Name: "Debt to Equity", Unit: models.UnitTimes,
		Aliases: []string{"debtEquityRatio", "debtToEquity", "leverage.debtToEquity", "leverage.debtEquityRatio", "solvency.debtToEquity"},
		Formula: func(s models.Snapshot) models.Value { return s.TotalDebt.Div(s.TotalEquity) },
	},
	{
		Key: "debtServiceCoverage", Category: models.CategoryLeverage, Name: "Debt Service Coverage", Unit: models.UnitTimes,
		Aliases: []string{"debtServiceCoverage", "leverage.debtServiceCoverage", "leverage.interestCoverage", "solvency.interestCoverage"},
	},
	{
		Key: "debtRatio", Category: models.CategoryLeverage, Name: "Debt Ratio", Unit: models.UnitPercentage,
		Aliases: []string{"debtRatio", "leverage.debtRatio"},
		Formula: func(s models.Snapshot) models.Value { return positiveDiv(s.TotalDebt, s.TotalAssets).Scale(100) },
	},
	{
		Key: "equityRatio", Category: models.CategoryLeverage, Name: "Equity Ratio", Unit: models.UnitPercentage,
		Aliases: []string{"equityRatio", "leverage.equityRatio"},
		Formula: func(s models.Snapshot) models.Value { return positiveDiv(s.TotalEquity, s.TotalAssets).Scale(100) },
	},

	// ── Activity ──
	{
		Key: "workingCapitalTurnover", Category: models.CategoryActivity, Name: "Working Capital Turnover", Unit: models.UnitTimes,
		Aliases: []string{"workingCapitalTurnover", "activity.workingCapitalTurnover"},
		Formula: func(s models.Snapshot) models.Value { return positiveDiv(s.Revenue, workingCapital(s)) },
	},
	{
		Key: "daysSalesOutstanding", Category: models.CategoryActivity, Name: "Days Sales Outstanding", Unit: models.UnitNumber,
		Aliases: []string{"daysSalesOutstanding", "dso", "activity.daysSalesOutstanding"},
	},
	{
		Key: "daysPayableOutstanding", Category: models.CategoryActivity, Name: "Days Payable Outstanding", Unit: models.UnitNumber,
		Aliases: []string{"daysPayableOutstanding", "dpo", "activity.daysPayableOutstanding"},
	},
	{
		Key: "cashConversionCycle", Category: models.CategoryActivity, Name: "Cash Conversion Cycle", Unit: models.UnitNumber,
		Aliases: []string{"cashConversionCycle", "activity.cashConversionCycle"},
	},

	// ── Cash flow ──
	{
		Key: "operatingCashFlow", Category: models.CategoryCashFlow, Name: "Operating Cash Flow", Unit: models.UnitCurrency,
		Aliases: []string{"operatingCashFlow", "cashFlow.operatingCashFlow"},
		Formula: func(s models.Snapshot) models.Value { return s.OperatingCashFlow },
	},
	{
		Key: "operatingCashFlowRatio", Category: models.CategoryCashFlow, Name: "Operating Cash Flow Ratio", Unit: models.UnitTimes,
		Aliases: []string{"operatingCashFlowRatio", "cashFlow.operatingCashFlowRatio"},
		Formula: func(s models.Snapshot) models.Value { return s.OperatingCashFlow.Div(s.CurrentLiabilities) },
	},
	{
		Key: "cashFlowMargin", Category: models.CategoryCashFlow, Name: "Cash Flow Margin", Unit: models.UnitPercentage,
		Aliases: []string{"cashFlowMargin", "cashFlow.cashFlowMargin"},
		Formula: func(s models.Snapshot) models.Value { return marginOf(s.OperatingCashFlow, s.Revenue) },
	},
	{
		Key: "freeCashFlow", Category: models.CategoryCashFlow, Name: "Free Cash Flow", Unit: models.UnitCurrency,
		Aliases: []string{"freeCashFlow", "cashFlow.freeCashFlow"},
	},
	{
		Key: "healthScore", Category: models.CategoryCashFlow, Name: "Cash Flow Health Score", Unit: models.UnitNumber,
		Aliases: []string{"healthScore", "cashFlow.healthScore"},
	},

	// ── Growth ──
	{
		Key: "revenueGrowth", Category: models.CategoryGrowth, Name: "Revenue Growth", Unit: models.UnitPercentage,
		Aliases: []string{"revenueGrowth", "growth.revenueGrowth"},
		Formula: func(s models.Snapshot) models.Value {
			return growthOver(s.Revenue, s.PreviousOrEmpty().Revenue)
		},
	},
	{
		Key: "expenseGrowth", Category: models.CategoryGrowth, Name: "Expense Growth", Unit: models.UnitPercentage,
		Aliases: []string{"expenseGrowth", "growth.expenseGrowth"},
		Formula: func(s models.Snapshot) models.Value {
			return growthOver(s.TotalExpenses, s.PreviousOrEmpty().TotalExpenses)
		},
	},
	{
		Key: "netProfitGrowth", Category: models.CategoryGrowth, Name: "Net Profit Growth", Unit: models.UnitPercentage,
		Aliases: []string{"netProfitGrowth", "growth.netProfitGrowth", "growth.profitGrowth"},
		Formula: netProfitGrowth,
	},

	// ── Transaction ──
	{
		Key: "averageTransactionSize", Category: models.CategoryTransaction, Name: "Average Transaction Size", Unit: models.UnitCurrency,
		Aliases: []string{"averageTransactionSize", "transaction.averageTransactionSize"},
	},
	{
		Key: "creditToDebitRatio", Category: models.CategoryTransaction, Name: "Credit to Debit Ratio", Unit: models.UnitTimes,
		Aliases: []string{"creditToDebitRatio", "transaction.creditToDebitRatio"},
	},
	{
		Key: "transactionFrequency", Category: models.CategoryTransaction, Name: "Transaction Frequency", Unit: models.UnitNumber,
		Aliases: []string{"transactionFrequency", "transaction.transactionFrequency"},
	},
	{
		Key: "creditFrequency", Category: models.CategoryTransaction, Name: "Credit Frequency", Unit: models.UnitNumber,
		Aliases: []string{"creditFrequency", "transaction.creditFrequency"},
	},
	{
		Key: "debitFrequency", Category: models.CategoryTransaction, Name: "Debit Frequency", Unit: models.UnitNumber,
		Aliases: []string{"debitFrequency", "transaction.debitFrequency"},
	},

	// ── Balance ──
	{
		Key: "openingBalance", Category: models.CategoryBalance, Name: "Opening Balance", Unit: models.UnitCurrency,
		Aliases: []string{"openingBalance", "balance.openingBalance"},
	},
	{
		Key: "closingBalance", Category: models.CategoryBalance, Name: "Closing Balance", Unit: models.UnitCurrency,
		Aliases: []string{"closingBalance", "balance.closingBalance"},
	},
	{
		Key: "netChange", Category: models.CategoryBalance, Name: "Net Change", Unit: models.UnitCurrency,
		Aliases: []string{"netChange", "balance.netChange"},
	},
	{
		Key: "percentageChange", Category: models.CategoryBalance, Name: "Percentage Change", Unit: models.UnitPercentage,
		Aliases: []string{"percentageChange", "balance.percentageChange", "growth.balanceGrowth"},
	},
}

// Catalog returns the ratio definitions in display order.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the definition for key.
func Lookup(key string) (Definition, bool) {
	for _, d := range catalog {
		if d.Key == key {
			return d, true
		}
	}
	return Definition{}, false
}

func quickRatio(s models.Snapshot) models.Value {
	// Missing inventory counts as none on hand.
	inv := models.FirstAvailable(s.Inventory, models.Of(0))
	return s.CurrentAssets.Sub(inv).Div(s.CurrentLiabilities)
}

func workingCapital(s models.Snapshot) models.Value {
	return s.CurrentAssets.Sub(s.CurrentLiabilities)
}

func grossMargin(s models.Snapshot) models.Value {
	// Missing COGS is zero here, and only here.
	cogs := models.FirstAvailable(s.CostOfGoodsSold, models.Of(0))
	return marginOf(s.Revenue.Sub(cogs), s.Revenue)
}

func returnOnCapitalEmployed(s models.Snapshot) models.Value {
	ebit := models.FirstAvailable(
		s.OperatingProfit,
		s.GrossProfit.Sub(s.OperatingExpenses),
		s.NetProfit,
	)
	cl := models.FirstAvailable(s.CurrentLiabilities, s.TotalLiabilities)
	return positiveDiv(ebit, s.TotalAssets.Sub(cl)).Scale(100)
}

func netProfitGrowth(s models.Snapshot) models.Value {
	prev := s.PreviousOrEmpty().NetProfit
	p, ok := prev.Float()
	if !ok {
		return models.Unavailable()
	}
	// |previous| keeps a loss-to-profit swing positive.
	return s.NetProfit.Sub(prev).Div(models.Of(math.Abs(p))).Scale(100)
}

// marginOf returns num / revenue × 100 when revenue is positive.
func marginOf(num, revenue models.Value) models.Value {
	return positiveDiv(num, revenue).Scale(100)
}

// growthOver returns (cur − prev) / prev × 100 when prev is positive.
func growthOver(cur, prev models.Value) models.Value {
	return positiveDiv(cur.Sub(prev), prev).Scale(100)
}

// positiveDiv divides only when the denominator is strictly positive.
func positiveDiv(num, den models.Value) models.Value {
	if !den.Positive() {
		return models.Unavailable()
	}
	return num.Div(den)
}
