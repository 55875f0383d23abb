package ratios

import "github.com/seenimoa/finlens/pkg/models"

// Variance returns the percentage change from previous to current. It is
// Unavailable when either side is missing or previous is zero.
func Variance(current, previous models.Value) models.Value {
	return current.Sub(previous).Div(previous).Scale(100)
}
