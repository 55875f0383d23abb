package ratios

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/seenimoa/finlens/internal/coerce"
	"github.com/seenimoa/finlens/internal/resolve"
	"github.com/seenimoa/finlens/pkg/models"
)

// Resolver paths per snapshot field. Ratio payloads nest values under
// category objects; statement reports keep them flat or under their
// assets/liabilities/equity objects.
var (
	revenuePaths = []string{
		"profitability.revenue", "incomeStatement.revenue", "cashFlow.revenue",
		"revenue", "revenue_from_operations", "total_revenue",
	}
	cogsPaths = []string{
		"profitability.cogs", "incomeStatement.costOfGoodsSold",
		"cogs", "cost_of_goods_sold", "cost_of_material_consumed",
	}
	grossProfitPaths = []string{
		"profitability.grossProfit", "incomeStatement.grossProfit", "gross_profit",
	}
	opexPaths = []string{
		"profitability.operatingExpenses", "incomeStatement.operatingExpenses",
		"operating_expenses", "opex", "expenses",
	}
	totalExpensesPaths = []string{
		"profitability.totalExpenses", "incomeStatement.totalExpenses", "total_expenses",
	}
	netProfitPaths = []string{
		"profitability.netProfit", "incomeStatement.netProfit",
		"net_profit", "profit_for_year", "profit_after_tax",
	}
	operatingProfitPaths = []string{
		"profitability.operatingProfit", "incomeStatement.operatingProfit",
		"operating_profit", "ebit",
	}
	ebitdaPaths = []string{
		"profitability.ebitda", "incomeStatement.ebitda", "ebitda",
	}
	totalAssetsPaths = []string{
		"balanceSheet.totalAssets", "total_assets", "assets.total_assets", "assets.total",
	}
	currentAssetsPaths = []string{
		"liquidity.currentAssets", "balanceSheet.currentAssets",
		"current_assets", "total_current_assets", "assets.current_assets", "assets.total_current_assets",
	}
	inventoryPaths = []string{
		"balanceSheet.inventory", "inventory", "inventories", "assets.inventories", "assets.inventory",
	}
	cashPaths = []string{
		"balanceSheet.cash", "cash", "cash_and_bank_balances",
		"assets.cash_and_bank_balances", "assets.cash",
	}
	cashInHandPaths = []string{"balanceSheet.cashInHand", "cash_in_hand", "assets.cash_in_hand"}
	bankPaths       = []string{"balanceSheet.bankAccount", "bank_account", "assets.bank_account"}
	totalLiabilitiesPaths = []string{
		"balanceSheet.totalLiabilities", "total_liabilities",
		"liabilities.total_liabilities", "liabilities.total",
	}
	currentLiabilitiesPaths = []string{
		"liquidity.currentLiabilities", "balanceSheet.currentLiabilities",
		"current_liabilities", "total_current_liabilities",
		"liabilities.current_liabilities", "liabilities.total_current_liabilities",
	}
	totalEquityPaths = []string{
		"balanceSheet.totalEquity", "total_equity", "shareholders_funds",
		"equity.total_equity", "equity.total",
	}
	totalDebtPaths = []string{
		"balanceSheet.totalDebt", "leverage.totalDebt", "total_debt", "total_borrowings",
	}
	longTermBorrowingPaths  = []string{"long_term_borrowings", "liabilities.long_term_borrowings"}
	shortTermBorrowingPaths = []string{"short_term_borrowings", "liabilities.short_term_borrowings"}
	leasePaths              = []string{"lease_liabilities", "liabilities.lease_liabilities"}
	operatingCashFlowPaths  = []string{
		"cashFlow.operatingCashFlow", "operating_cash_flow", "cash_from_operating",
		"operating_activities.cash_generated_used", "operating_activities.net_operating",
	}
)

// SnapshotFrom builds a snapshot from ratio payloads and statement reports.
// For every field the sources are searched in order and the first available
// value wins. A "previousYear" object in any source yields Snapshot.Previous.
func SnapshotFrom(sources ...map[string]any) models.Snapshot {
	snap := snapshotOf(sources)

	var prev []map[string]any
	for _, src := range sources {
		if p := resolve.Object(src, "previousYear", "previous_year", "previousYearRatios"); p != nil {
			prev = append(prev, p)
		}
	}
	if len(prev) > 0 {
		p := snapshotOf(prev)
		snap.Previous = &p
	}
	return snap
}

func snapshotOf(sources []map[string]any) models.Snapshot {
	s := models.Snapshot{
		Revenue:            lookup(sources, revenuePaths),
		CostOfGoodsSold:    lookup(sources, cogsPaths),
		GrossProfit:        lookup(sources, grossProfitPaths),
		OperatingExpenses:  lookup(sources, opexPaths),
		TotalExpenses:      lookup(sources, totalExpensesPaths),
		NetProfit:          lookup(sources, netProfitPaths),
		OperatingProfit:    lookup(sources, operatingProfitPaths),
		EBITDA:             lookup(sources, ebitdaPaths),
		TotalAssets:        lookup(sources, totalAssetsPaths),
		CurrentAssets:      lookup(sources, currentAssetsPaths),
		Inventory:          lookup(sources, inventoryPaths),
		Cash:               lookup(sources, cashPaths),
		TotalLiabilities:   lookup(sources, totalLiabilitiesPaths),
		CurrentLiabilities: lookup(sources, currentLiabilitiesPaths),
		TotalEquity:        lookup(sources, totalEquityPaths),
		TotalDebt:          lookup(sources, totalDebtPaths),
		OperatingCashFlow:  lookup(sources, operatingCashFlowPaths),
	}

	if !s.Cash.IsAvailable() {
		s.Cash = Sum(lookup(sources, cashInHandPaths), lookup(sources, bankPaths))
	}
	if !s.TotalDebt.IsAvailable() {
		s.TotalDebt = Sum(
			lookup(sources, longTermBorrowingPaths),
			lookup(sources, shortTermBorrowingPaths),
			lookup(sources, leasePaths),
		)
	}
	if !s.TotalAssets.IsAvailable() {
		s.TotalAssets = sectionTotal(sources, "assets")
	}
	if !s.TotalLiabilities.IsAvailable() {
		s.TotalLiabilities = sectionTotal(sources, "liabilities")
	}
	if !s.TotalEquity.IsAvailable() {
		s.TotalEquity = sectionTotal(sources, "equity")
	}
	return s
}

func lookup(sources []map[string]any, paths []string) models.Value {
	for _, src := range sources {
		for _, p := range paths {
			r := resolve.Resolve(src, p)
			if !r.Found {
				continue
			}
			if v := coerce.Number(r.Value); v.IsAvailable() {
				return v
			}
		}
	}
	return models.Unavailable()
}

// Sum adds the available values. It is Unavailable when none are.
func Sum(vals ...models.Value) models.Value {
	nums := make([]float64, 0, len(vals))
	for _, v := range vals {
		if f, ok := v.Float(); ok {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		return models.Unavailable()
	}
	return models.Of(floats.Sum(nums))
}

// sectionTotal sums the numeric leaves of the first source's section object.
// Keys naming a total are skipped so subtotals are not counted twice.
func sectionTotal(sources []map[string]any, section string) models.Value {
	for _, src := range sources {
		obj := resolve.Object(src, section, "balanceSheet."+section)
		if obj == nil {
			continue
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		vals := make([]models.Value, 0, len(keys))
		for _, k := range keys {
			if strings.Contains(strings.ToLower(k), "total") {
				continue
			}
			vals = append(vals, coerce.Number(obj[k]))
		}
		if v := Sum(vals...); v.IsAvailable() {
			return v
		}
	}
	return models.Unavailable()
}
