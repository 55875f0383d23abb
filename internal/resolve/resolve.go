// Package resolve locates values in loosely-shaped payloads by logical key.
//
// A key is flat ("current_ratio") or dotted ("liquidity.currentRatio"). Each
// segment is tried verbatim, then as snake_case, camelCase, lowercase,
// UPPERCASE and with underscores stripped, in that order. Lookups are pure:
// nothing is cached between calls.
package resolve

import (
	"strings"
	"unicode"

	"github.com/seenimoa/finlens/internal/coerce"
)

// Result is the outcome of a lookup. Key is the concrete path that matched.
type Result struct {
	Value any
	Found bool
	Key   string
}

type options struct {
	skipZero bool
}

// Option tunes a lookup.
type Option func(*options)

// SkipZero treats a numeric zero as absent. Only the fuzzy breakdown and
// dictionary sources use it; canonical statement fields keep explicit zeros.
func SkipZero() Option {
	return func(o *options) { o.skipZero = true }
}

// Resolve looks key up in container. nil values and blank strings count as
// not found; numeric 0 is found unless SkipZero is given.
func Resolve(container any, key string, opts ...Option) Result {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Result{}
	}

	segments := strings.Split(key, ".")
	cur := container
	matched := make([]string, 0, len(segments))
	for i, seg := range segments {
		last := i == len(segments)-1
		m, ok := asMap(cur)
		if !ok {
			return Result{}
		}
		found := false
		for _, cand := range Variants(seg) {
			v, present := m[cand]
			if !present {
				continue
			}
			if last {
				if !usable(v, o.skipZero) {
					continue
				}
			} else if _, isMap := asMap(v); !isMap {
				continue
			}
			cur = v
			matched = append(matched, cand)
			found = true
			break
		}
		if !found {
			return Result{}
		}
	}
	return Result{Value: cur, Found: true, Key: strings.Join(matched, ".")}
}

// First walks a fallback chain and returns the first key that resolves.
func First(container any, keys ...string) Result {
	for _, k := range keys {
		if r := Resolve(container, k); r.Found {
			return r
		}
	}
	return Result{}
}

// Object returns the first nested object found under any of keys.
func Object(container any, keys ...string) map[string]any {
	for _, k := range keys {
		r := Resolve(container, k)
		if !r.Found {
			continue
		}
		if m, ok := asMap(r.Value); ok {
			return m
		}
	}
	return nil
}

// Array returns the first nested array found under any of keys.
func Array(container any, keys ...string) []any {
	for _, k := range keys {
		r := Resolve(container, k)
		if !r.Found {
			continue
		}
		if a, ok := asSlice(r.Value); ok {
			return a
		}
	}
	return nil
}

// String returns the first non-blank string found under any of keys.
func String(container any, keys ...string) string {
	for _, k := range keys {
		r := Resolve(container, k)
		if s, ok := r.Value.(string); r.Found && ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// Variants returns the ordered, de-duplicated spellings tried for one key
// segment.
func Variants(seg string) []string {
	cands := []string{
		seg,
		SnakeCase(seg),
		CamelCase(seg),
		strings.ToLower(seg),
		strings.ToUpper(seg),
		strings.ReplaceAll(seg, "_", ""),
	}
	out := cands[:0]
	seen := make(map[string]bool, len(cands))
	for _, c := range cands {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// SnakeCase converts "currentRatio" or "Current Ratio" to "current_ratio".
func SnakeCase(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ' || r == '-':
			b.WriteByte('_')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return b.String()
}

// CamelCase converts "current_ratio" or "current ratio" to "currentRatio".
func CamelCase(s string) string {
	var b strings.Builder
	upper := false
	for _, r := range strings.TrimSpace(s) {
		if r == '_' || r == ' ' || r == '-' {
			upper = b.Len() > 0
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func usable(v any, skipZero bool) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		if strings.TrimSpace(t) == "" {
			return false
		}
	}
	if skipZero && coerce.Number(v).IsZero() {
		return false
	}
	return true
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

func asSlice(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	}
	return nil, false
}
