package normalize

import (
	"github.com/seenimoa/finlens/internal/coerce"
	"github.com/seenimoa/finlens/internal/ratios"
	"github.com/seenimoa/finlens/internal/resolve"
	"github.com/seenimoa/finlens/pkg/models"
)

// Item sources other than a resolved key path.
const (
	sourceBreakdown  = "breakdown"
	sourceDictionary = "dictionary"
	sourceComputed   = "computed"
)

// field describes one canonical line of a statement.
type field struct {
	key     string
	label   string
	section string
	unit    models.Unit

	// paths are resolver keys relative to the year's root object.
	paths []string
	// breakdowns are tried in order when no path resolves (current year only).
	breakdowns []breakdown
	// dictIn names the account-name dictionary searched with dict patterns.
	dictIn string
	dict   []string
	// prevPaths are extra previous-year keys resolved against the payload root.
	prevPaths []string
	// compute derives the value from earlier items when nothing else resolves.
	compute func(get func(string) models.Value) models.Value
}

type breakdown struct {
	array       []string
	category    string
	subcategory string
}

// extraction carries what one pass over a field table produced.
type extraction struct {
	items []models.LineItem
	diags []models.Diagnostic
}

func (e *extraction) value(key string) models.Value {
	for _, it := range e.items {
		if it.Key == key {
			return it.Value
		}
	}
	return models.Unavailable()
}

// anyProvided reports whether at least one item came from the payload.
func (e *extraction) anyProvided() bool {
	for _, it := range e.items {
		if it.Provided {
			return true
		}
	}
	return false
}

// extract resolves every field against root. fuzzy enables the breakdown and
// dictionary fallbacks; payload is the report root used for prevPaths when
// extracting a previous year.
func extract(fields []field, root map[string]any, fuzzy bool, payload map[string]any) extraction {
	var ex extraction
	for _, f := range fields {
		it := models.LineItem{
			Key:     f.key,
			Label:   f.label,
			Section: f.section,
			Unit:    f.unit,
		}
		if it.Unit == "" {
			it.Unit = models.UnitCurrency
		}

		v, src, diags := fromPaths(f.key, root, f.paths)
		ex.diags = append(ex.diags, diags...)
		if !v.IsAvailable() && payload != nil && len(f.prevPaths) > 0 {
			v, src, diags = fromPaths(f.key, payload, f.prevPaths)
			ex.diags = append(ex.diags, diags...)
		}
		if v.IsAvailable() {
			it.Provided = true
		}

		if !v.IsAvailable() && fuzzy {
			for _, b := range f.breakdowns {
				if v = resolve.FromBreakdown(resolve.Array(root, b.array...), b.category, b.subcategory); v.IsAvailable() {
					src = sourceBreakdown
					break
				}
			}
			if !v.IsAvailable() && f.dictIn != "" {
				if v = resolve.FromDict(resolve.Object(root, f.dictIn), f.dict...); v.IsAvailable() {
					src = sourceDictionary
				}
			}
			it.Provided = v.IsAvailable()
		}

		if !v.IsAvailable() && f.compute != nil {
			if v = f.compute(ex.value); v.IsAvailable() {
				src = sourceComputed
			}
		}

		it.Value = v
		if v.IsAvailable() {
			it.Source = src
		}
		ex.items = append(ex.items, it)
	}
	return ex
}

// fromPaths returns the first path whose value coerces to a number. An
// explicit 0 counts. Type mismatches are reported and skipped.
func fromPaths(key string, root map[string]any, paths []string) (models.Value, string, []models.Diagnostic) {
	var diags []models.Diagnostic
	for _, p := range paths {
		r := resolve.Resolve(root, p)
		if !r.Found {
			continue
		}
		v, err := coerce.Coerce(r.Value)
		if err != nil {
			diags = append(diags, models.Diagnostic{Field: key, Err: err.Error()})
			continue
		}
		if v.IsAvailable() {
			return v, r.Key, diags
		}
	}
	return models.Unavailable(), "", diags
}

// sumOf computes the sum of the available items among keys.
func sumOf(keys ...string) func(func(string) models.Value) models.Value {
	return func(get func(string) models.Value) models.Value {
		vals := make([]models.Value, len(keys))
		for i, k := range keys {
			vals[i] = get(k)
		}
		return ratios.Sum(vals...)
	}
}

// prefixed returns each path prefixed with every one of roots.
func prefixed(roots []string, paths ...string) []string {
	out := make([]string, 0, len(roots)*len(paths))
	for _, r := range roots {
		for _, p := range paths {
			out = append(out, r+"."+p)
		}
	}
	return out
}
