package models

import (
	"encoding/json"
	"math"
)

// Value is a number that may be unavailable. The zero Value is unavailable,
// which keeps "missing" distinct from an explicit 0.
type Value struct {
	num   float64
	valid bool
}

// Of wraps a number. NaN and ±Inf become Unavailable.
func Of(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{num: f, valid: true}
}

// Unavailable returns the canonical "could not be determined" marker.
func Unavailable() Value {
	return Value{}
}

// Float returns the number and whether it is available.
func (v Value) Float() (float64, bool) {
	return v.num, v.valid
}

// IsAvailable reports whether v holds a number.
func (v Value) IsAvailable() bool {
	return v.valid
}

// Or returns the number, or def when unavailable.
func (v Value) Or(def float64) float64 {
	if !v.valid {
		return def
	}
	return v.num
}

// IsZero reports whether v is available and exactly zero.
func (v Value) IsZero() bool {
	return v.valid && v.num == 0
}

// Positive reports whether v is available and > 0.
func (v Value) Positive() bool {
	return v.valid && v.num > 0
}

// Sub returns v - o, unavailable if either side is.
func (v Value) Sub(o Value) Value {
	if !v.valid || !o.valid {
		return Value{}
	}
	return Of(v.num - o.num)
}

// Div returns v / o. A missing or exactly-zero divisor yields Unavailable.
func (v Value) Div(o Value) Value {
	if !v.valid || !o.valid || o.num == 0 {
		return Value{}
	}
	return Of(v.num / o.num)
}

// Scale multiplies an available value by k.
func (v Value) Scale(k float64) Value {
	if !v.valid {
		return Value{}
	}
	return Of(v.num * k)
}

// FirstAvailable returns the first available value, or Unavailable.
func FirstAvailable(vals ...Value) Value {
	for _, v := range vals {
		if v.valid {
			return v
		}
	}
	return Value{}
}

// MarshalJSON renders an available value as a number and an unavailable one as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.num)
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Of(f)
	return nil
}

// Unit determines how a value is displayed. It never affects stored precision.
type Unit string

const (
	UnitTimes      Unit = "times"
	UnitPercentage Unit = "percentage"
	UnitCurrency   Unit = "currency"
	UnitNumber     Unit = "number"
)
