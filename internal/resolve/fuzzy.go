package resolve

import (
	"sort"
	"strings"

	"github.com/seenimoa/finlens/internal/coerce"
	"github.com/seenimoa/finlens/pkg/models"
)

// FromBreakdown scans an array of {category, subcategory, amount} objects and
// returns the first non-zero amount whose category and subcategory match.
// Matching is case-insensitive substring containment in either direction; an
// empty subcategory matches any item in the category.
func FromBreakdown(items any, category, subcategory string) models.Value {
	arr, ok := asSlice(items)
	if !ok {
		return models.Unavailable()
	}
	wantCat := strings.ToLower(strings.TrimSpace(category))
	wantSub := strings.ToLower(strings.TrimSpace(subcategory))
	for _, raw := range arr {
		item, ok := asMap(raw)
		if !ok {
			continue
		}
		cat := strings.ToLower(strings.TrimSpace(String(item, "category")))
		sub := strings.ToLower(strings.TrimSpace(String(item, "subcategory")))
		if !bothWays(cat, wantCat) {
			continue
		}
		if wantSub != "" && !bothWays(sub, wantSub) {
			continue
		}
		r := Resolve(item, "amount", SkipZero())
		if !r.Found {
			continue
		}
		if v := coerce.Number(r.Value); v.IsAvailable() {
			return v
		}
	}
	return models.Unavailable()
}

// FromDict looks patterns up in an account-name dictionary such as a trial
// balance's assets object. Exact keys are tried first, then each pattern is
// substring-matched in either direction against the dictionary keys in sorted
// order. Zero amounts are skipped.
func FromDict(dict any, patterns ...string) models.Value {
	m, ok := asMap(dict)
	if !ok {
		return models.Unavailable()
	}
	for _, p := range patterns {
		if v := nonZero(m[p]); v.IsAvailable() {
			return v
		}
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, p := range patterns {
		lp := strings.ToLower(strings.TrimSpace(p))
		if lp == "" {
			continue
		}
		for _, k := range keys {
			if !bothWays(strings.ToLower(strings.TrimSpace(k)), lp) {
				continue
			}
			if v := nonZero(m[k]); v.IsAvailable() {
				return v
			}
		}
	}
	return models.Unavailable()
}

func nonZero(raw any) models.Value {
	v := coerce.Number(raw)
	if !v.IsAvailable() || v.IsZero() {
		return models.Unavailable()
	}
	return v
}

// bothWays reports whether either string contains the other. Empty strings
// never match.
func bothWays(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
