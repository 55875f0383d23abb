// Package payload decodes analysis results produced by the upstream document
// analyzer. Input is often hand-edited or model-generated, so decoding falls
// back from strict JSON to a repair pass and finally to Hjson.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"

	"github.com/seenimoa/finlens/internal/resolve"
)

// ErrEmpty is returned for blank input.
var ErrEmpty = errors.New("empty payload")

// Result is a decoded analysis result.
type Result struct {
	DocumentType   string
	CompanyName    string
	CIN            string
	Period         string
	PreviousPeriod string
	Reports        map[string]any
}

// Header keys that never name a report when reports sit at the top level.
var headerKeys = map[string]bool{
	"document_type":   true,
	"documentType":    true,
	"company_name":    true,
	"companyName":     true,
	"cin":             true,
	"period":          true,
	"previous_period": true,
	"previousPeriod":  true,
	"success":         true,
	"message":         true,
	"analysis_id":     true,
}

// Decode parses data as an analysis result.
func Decode(data []byte) (Result, error) {
	raw, err := DecodeRaw(data)
	if err != nil {
		return Result{}, err
	}
	return FromMap(raw), nil
}

// DecodeRaw parses data into a generic object. Numbers are kept as
// json.Number so large amounts keep their precision until coercion.
func DecodeRaw(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}

	var out map[string]any
	if err := strictJSON(data, &out); err == nil {
		return out, nil
	}

	if repaired, err := jsonrepair.RepairJSON(string(data)); err == nil {
		if err := strictJSON([]byte(repaired), &out); err == nil {
			return out, nil
		}
	}

	out = nil
	if err := hjson.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("decode payload: %w", ErrEmpty)
	}
	return out, nil
}

func strictJSON(data []byte, out *map[string]any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if *out == nil {
		return ErrEmpty
	}
	return nil
}

// FromMap reads the header fields and the report map. Reports live under
// "reports" (or "data.reports"); without either, every remaining top-level
// object is treated as a report.
func FromMap(raw map[string]any) Result {
	res := Result{
		DocumentType:   resolve.String(raw, "document_type", "data.document_type"),
		CompanyName:    resolve.String(raw, "company_name", "data.company_name"),
		CIN:            resolve.String(raw, "cin", "data.cin"),
		Period:         ScalarText(resolve.First(raw, "period", "data.period").Value),
		PreviousPeriod: ScalarText(resolve.First(raw, "previous_period", "data.previous_period").Value),
	}

	if reports := resolve.Object(raw, "reports", "data.reports"); reports != nil {
		res.Reports = reports
		return res
	}

	res.Reports = make(map[string]any)
	for k, v := range raw {
		if headerKeys[k] {
			continue
		}
		if _, ok := v.(map[string]any); ok {
			res.Reports[k] = v
		}
	}
	return res
}

// Names returns the report names in sorted order.
func (r Result) Names() []string {
	names := make([]string, 0, len(r.Reports))
	for k := range r.Reports {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ScalarText renders a string or number value as text. Periods are
// sometimes sent as a bare year.
func ScalarText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return fmt.Sprintf("%.0f", t)
	case int:
		return fmt.Sprintf("%d", t)
	default:
		return ""
	}
}
