// Package coerce converts loosely-typed payload values into models.Value.
package coerce

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/seenimoa/finlens/pkg/models"
)

var stripper = strings.NewReplacer("%", "", "₹", "", ",", "", " ", "", "\t", "", "\u00a0", "")

// Coerce converts raw into a number or Unavailable.
//
// nil, empty strings and the "N/A"/"NA" sentinels are Unavailable. Strings
// lose any %, ₹ and thousands separators before parsing; a percent sign does
// not rescale ("23.2%" is 23.2). Booleans, maps and slices return
// ErrTypeMismatch.
func Coerce(raw any) (models.Value, error) {
	switch v := raw.(type) {
	case nil:
		return models.Unavailable(), nil
	case float64:
		return models.Of(v), nil
	case float32:
		return models.Of(float64(v)), nil
	case int:
		return models.Of(float64(v)), nil
	case int8:
		return models.Of(float64(v)), nil
	case int16:
		return models.Of(float64(v)), nil
	case int32:
		return models.Of(float64(v)), nil
	case int64:
		return models.Of(float64(v)), nil
	case uint:
		return models.Of(float64(v)), nil
	case uint8:
		return models.Of(float64(v)), nil
	case uint16:
		return models.Of(float64(v)), nil
	case uint32:
		return models.Of(float64(v)), nil
	case uint64:
		return models.Of(float64(v)), nil
	case json.Number:
		return parseString(v.String()), nil
	case models.Value:
		return v, nil
	case string:
		return parseString(v), nil
	case bool:
		return models.Unavailable(), fmt.Errorf("coerce bool %t: %w", v, models.ErrTypeMismatch)
	default:
		return models.Unavailable(), fmt.Errorf("coerce %T: %w", raw, models.ErrTypeMismatch)
	}
}

// Number is Coerce with ErrTypeMismatch absorbed into Unavailable.
func Number(raw any) models.Value {
	v, err := Coerce(raw)
	if err != nil {
		return models.Unavailable()
	}
	return v
}

// IsSentinel reports whether s is an explicit "not available" marker.
func IsSentinel(s string) bool {
	t := strings.TrimSpace(s)
	return t == "" || strings.EqualFold(t, "N/A") || strings.EqualFold(t, "NA")
}

func parseString(s string) models.Value {
	if IsSentinel(s) {
		return models.Unavailable()
	}
	cleaned := stripper.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return models.Unavailable()
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return models.Unavailable()
	}
	return models.Of(f)
}
