package normalize

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/seenimoa/finlens/internal/coerce"
	"github.com/seenimoa/finlens/internal/ratios"
	"github.com/seenimoa/finlens/internal/resolve"
	"github.com/seenimoa/finlens/pkg/models"
)

// Header keys already carried on the record itself.
var genericSkip = map[string]bool{
	"company_name":        true,
	"companyName":         true,
	"cin":                 true,
	"period":              true,
	"previous_period":     true,
	"previousPeriod":      true,
	"previous_year_label": true,
	"error":               true,
}

// Report names whose payload is a ratio set.
var ratioReportNames = map[string]bool{
	"financial_ratios": true,
	"ratios":           true,
	"ratio_analysis":   true,
}

// generic keeps every scalar leaf as a line item and every array of objects
// as a table. Bank statement summaries and ratio payloads also get a ratio
// set.
func (b *builder) generic() {
	b.walk("", b.data)

	switch {
	case ratioReportNames[b.rec.Name]:
		pl := resolve.Object(b.base.Reports, "profit_loss")
		bs := resolve.Object(b.base.Reports, "balance_sheet")
		set := ratios.Derive(ratios.SnapshotFrom(b.data, pl, bs), b.data)
		b.rec.Ratios = &set
	case b.isBankSummary():
		summary := resolve.Object(b.data, "summary", "account_summary")
		txns := resolve.Array(b.data, "transactions", "entries")
		set := ratios.FromBankSummary(summary, txns)
		b.rec.Ratios = &set
	}
}

func (b *builder) isBankSummary() bool {
	if strings.Contains(b.rec.Name, "bank") {
		return true
	}
	summary := resolve.Object(b.data, "summary", "account_summary")
	return resolve.First(summary, "opening_balance", "closing_balance", "total_credits", "total_debits").Found
}

// walk visits m in sorted key order so items and tables come out the same on
// every run.
func (b *builder) walk(prefix string, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if prefix == "" && genericSkip[k] {
			continue
		}
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}

		switch v := m[k].(type) {
		case nil:
			continue
		case map[string]any:
			b.walk(path, v)
		case []any:
			if rows, ok := objectRows(v); ok {
				b.rec.Tables = append(b.rec.Tables, tableOf(path, rows))
				continue
			}
			if text := joinScalars(v); text != "" {
				b.rec.Items = append(b.rec.Items, models.LineItem{
					Key: path, Label: labelOf(k), Unit: models.UnitNumber, Provided: true, Text: text,
				})
			}
		default:
			b.rec.Items = append(b.rec.Items, b.scalarItem(path, k, v))
		}
	}
}

func (b *builder) scalarItem(path, key string, raw any) models.LineItem {
	it := models.LineItem{
		Key:      path,
		Label:    labelOf(key),
		Unit:     unitOf(key, raw),
		Provided: true,
	}
	switch v := raw.(type) {
	case string:
		it.Text = strings.TrimSpace(v)
		if num := coerce.Number(v); num.IsAvailable() && !isWordy(v) {
			it.Value = num
		}
	case bool:
		it.Text = fmt.Sprint(v)
	default:
		val, err := coerce.Coerce(v)
		if err != nil {
			b.rec.Diagnostics = append(b.rec.Diagnostics, models.Diagnostic{Field: path, Err: err.Error()})
		}
		it.Value = val
	}
	return it
}

// isWordy reports whether s carries letters beyond a currency or percent
// marker, e.g. "Q1 2024" or "Account 1234".
func isWordy(s string) bool {
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}

// unitOf guesses a display unit from the key name.
func unitOf(key string, raw any) models.Unit {
	k := strings.ToLower(key)
	if s, ok := raw.(string); ok && strings.HasSuffix(strings.TrimSpace(s), "%") {
		return models.UnitPercentage
	}
	switch {
	case strings.Contains(k, "percent") || strings.Contains(k, "margin") ||
		strings.Contains(k, "growth") || strings.Contains(k, "rate"):
		return models.UnitPercentage
	case strings.Contains(k, "ratio") || strings.Contains(k, "turnover"):
		return models.UnitTimes
	case strings.Contains(k, "count") || strings.Contains(k, "number") ||
		strings.Contains(k, "days") || strings.Contains(k, "score"):
		return models.UnitNumber
	default:
		return models.UnitCurrency
	}
}

func objectRows(arr []any) ([]map[string]any, bool) {
	if len(arr) == 0 {
		return nil, false
	}
	rows := make([]map[string]any, 0, len(arr))
	for _, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			return nil, false
		}
		rows = append(rows, m)
	}
	return rows, true
}

// tableOf builds a table whose columns are the sorted union of row keys.
func tableOf(name string, rows []map[string]any) models.Table {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range rows {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return models.Table{Name: name, Columns: cols, Rows: rows}
}

func joinScalars(arr []any) string {
	parts := make([]string, 0, len(arr))
	for _, el := range arr {
		switch v := el.(type) {
		case nil:
		case string:
			if s := strings.TrimSpace(v); s != "" {
				parts = append(parts, s)
			}
		case json.Number:
			parts = append(parts, v.String())
		case map[string]any, []any:
			return ""
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, ", ")
}

// labelOf turns "total_credits" or "totalCredits" into "Total Credits".
func labelOf(key string) string {
	words := strings.Fields(strings.ReplaceAll(resolve.SnakeCase(key), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
