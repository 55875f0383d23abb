package models

// Category groups ratios for derivation fallback keys and display sectioning.
type Category string

const (
	CategoryLiquidity     Category = "liquidity"
	CategoryProfitability Category = "profitability"
	CategoryEfficiency    Category = "efficiency"
	CategoryLeverage      Category = "leverage"
	CategoryActivity      Category = "activity"
	CategoryCashFlow      Category = "cashFlow"
	CategoryGrowth        Category = "growth"
	CategoryTransaction   Category = "transaction"
	CategoryBalance       Category = "balance"
)

// AllCategories returns every category in display order.
func AllCategories() []Category {
	return []Category{
		CategoryLiquidity,
		CategoryProfitability,
		CategoryEfficiency,
		CategoryLeverage,
		CategoryActivity,
		CategoryCashFlow,
		CategoryGrowth,
		CategoryTransaction,
		CategoryBalance,
	}
}

// RatioSource records where a ratio value came from.
type RatioSource string

const (
	SourceDirect      RatioSource = "direct"
	SourceDerived     RatioSource = "derived"
	SourceUnavailable RatioSource = "unavailable"
)

// Ratio is one canonical ratio value with its display unit.
type Ratio struct {
	Key      string      `json:"key"`
	Category Category    `json:"category"`
	Name     string      `json:"name"`
	Unit     Unit        `json:"unit"`
	Value    Value       `json:"value"`
	Source   RatioSource `json:"source"`
}

// RatioGroup is the ordered list of ratios in one category.
type RatioGroup struct {
	Category Category `json:"category"`
	Ratios   []Ratio  `json:"ratios"`
}

// RatioSet is the canonical output of ratio derivation. Every catalog key is
// present, with an Unavailable value when it could not be determined.
type RatioSet struct {
	Groups []RatioGroup `json:"groups"`
}

// Get looks up a ratio by key across all categories.
func (rs RatioSet) Get(key string) (Ratio, bool) {
	for _, g := range rs.Groups {
		for _, r := range g.Ratios {
			if r.Key == key {
				return r, true
			}
		}
	}
	return Ratio{}, false
}

// Value returns the value for key, Unavailable when the key is unknown.
func (rs RatioSet) Value(key string) Value {
	r, ok := rs.Get(key)
	if !ok {
		return Unavailable()
	}
	return r.Value
}

// Group returns the ratios of one category.
func (rs RatioSet) Group(c Category) []Ratio {
	for _, g := range rs.Groups {
		if g.Category == c {
			return g.Ratios
		}
	}
	return nil
}

// Len returns the total number of ratios.
func (rs RatioSet) Len() int {
	n := 0
	for _, g := range rs.Groups {
		n += len(g.Ratios)
	}
	return n
}
