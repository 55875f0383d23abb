package models

// Snapshot holds one period's core statement values. Every field is either a
// finite number or Unavailable.
type Snapshot struct {
	Revenue            Value `json:"revenue"`
	CostOfGoodsSold    Value `json:"cost_of_goods_sold"`
	GrossProfit        Value `json:"gross_profit"`
	OperatingExpenses  Value `json:"operating_expenses"`
	TotalExpenses      Value `json:"total_expenses"`
	NetProfit          Value `json:"net_profit"`
	OperatingProfit    Value `json:"operating_profit"` // EBIT when reported
	EBITDA             Value `json:"ebitda"`
	TotalAssets        Value `json:"total_assets"`
	CurrentAssets      Value `json:"current_assets"`
	Inventory          Value `json:"inventory"`
	Cash               Value `json:"cash"`
	TotalLiabilities   Value `json:"total_liabilities"`
	CurrentLiabilities Value `json:"current_liabilities"`
	TotalEquity        Value `json:"total_equity"`
	TotalDebt          Value `json:"total_debt"` // borrowings + lease liabilities
	OperatingCashFlow  Value `json:"operating_cash_flow"`

	Previous *Snapshot `json:"previous,omitempty"`
}

// PreviousOrEmpty returns the prior-period snapshot, or an all-unavailable one.
func (s Snapshot) PreviousOrEmpty() Snapshot {
	if s.Previous == nil {
		return Snapshot{}
	}
	return *s.Previous
}
