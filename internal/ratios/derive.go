package ratios

import (
	"github.com/seenimoa/finlens/internal/coerce"
	"github.com/seenimoa/finlens/internal/resolve"
	"github.com/seenimoa/finlens/pkg/models"
)

// Derive computes the full ratio set. Each ratio is taken from direct when
// one of its alias keys holds a usable number, otherwise computed from snap,
// otherwise left Unavailable. direct may be nil.
func Derive(snap models.Snapshot, direct map[string]any) models.RatioSet {
	return build(func(d Definition) (models.Value, models.RatioSource) {
		return pick(d, snap, direct)
	})
}

// FromPayload derives the ratio set of a standalone payload. Statement
// figures are read from the payload itself and from its profit_loss,
// balance_sheet and cash_flow objects, at the top level or under reports.
func FromPayload(raw map[string]any) models.RatioSet {
	snap := SnapshotFrom(
		raw,
		resolve.Object(raw, "profit_loss", "reports.profit_loss"),
		resolve.Object(raw, "balance_sheet", "reports.balance_sheet"),
		resolve.Object(raw, "cash_flow", "reports.cash_flow"),
	)
	return Derive(snap, raw)
}

// deriveKey computes a single ratio the same way Derive does.
func deriveKey(key string, snap models.Snapshot, direct map[string]any) models.Ratio {
	d, ok := Lookup(key)
	if !ok {
		return models.Ratio{Key: key, Source: models.SourceUnavailable}
	}
	v, src := pick(d, snap, direct)
	return ratioOf(d, v, src)
}

func pick(d Definition, snap models.Snapshot, direct map[string]any) (models.Value, models.RatioSource) {
	if v, ok := directValue(direct, d); ok {
		return v, models.SourceDirect
	}
	if d.Formula != nil {
		if v := d.Formula(snap); v.IsAvailable() {
			return v, models.SourceDerived
		}
	}
	return models.Unavailable(), models.SourceUnavailable
}

func directValue(direct map[string]any, d Definition) (models.Value, bool) {
	if direct == nil {
		return models.Unavailable(), false
	}
	for _, alias := range d.Aliases {
		r := resolve.Resolve(direct, alias)
		if !r.Found {
			continue
		}
		// A nested object under an alias (e.g. workingCapital: {...}) is a
		// type mismatch; the next alias gets a chance.
		if v := coerce.Number(r.Value); v.IsAvailable() {
			return v, true
		}
	}
	return models.Unavailable(), false
}

// build assembles a RatioSet in catalog order.
func build(choose func(Definition) (models.Value, models.RatioSource)) models.RatioSet {
	groups := make([]models.RatioGroup, 0, len(models.AllCategories()))
	for _, c := range models.AllCategories() {
		g := models.RatioGroup{Category: c}
		for _, d := range catalog {
			if d.Category != c {
				continue
			}
			v, src := choose(d)
			g.Ratios = append(g.Ratios, ratioOf(d, v, src))
		}
		groups = append(groups, g)
	}
	return models.RatioSet{Groups: groups}
}

func ratioOf(d Definition, v models.Value, src models.RatioSource) models.Ratio {
	return models.Ratio{
		Key:      d.Key,
		Category: d.Category,
		Name:     d.Name,
		Unit:     d.Unit,
		Value:    v,
		Source:   src,
	}
}
