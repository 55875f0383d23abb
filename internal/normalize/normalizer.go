// Package normalize turns loosely-shaped report payloads into canonical
// report records.
package normalize

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/seenimoa/finlens/internal/payload"
	"github.com/seenimoa/finlens/internal/period"
	"github.com/seenimoa/finlens/internal/resolve"
	"github.com/seenimoa/finlens/pkg/models"
	"github.com/seenimoa/finlens/pkg/utils"
)

// Options configures a Normalizer.
type Options struct {
	DefaultPeriod  string // used when neither payload nor context carries a period
	DefaultCompany string
	FiscalYearEnd  string // "DD-MM"
	Concurrency    int    // reports normalized in parallel by Batch
}

// DefaultOptions returns the Indian fiscal defaults.
func DefaultOptions() Options {
	return Options{
		DefaultPeriod:  "31st March 2024",
		DefaultCompany: "XYZ",
		FiscalYearEnd:  "31-03",
		Concurrency:    4,
	}
}

// BaseContext carries document-level data shared by every report of one
// analysis result.
type BaseContext struct {
	DocumentType   string
	CompanyName    string
	CIN            string
	Period         string
	PreviousPeriod string
	// Reports holds sibling report payloads by name, used for cross-report
	// lookups such as ratios that need the balance sheet.
	Reports map[string]any
}

// ContextOf builds the base context of a decoded analysis result.
func ContextOf(res payload.Result) BaseContext {
	return BaseContext{
		DocumentType:   res.DocumentType,
		CompanyName:    res.CompanyName,
		CIN:            res.CIN,
		Period:         res.Period,
		PreviousPeriod: res.PreviousPeriod,
		Reports:        res.Reports,
	}
}

// Normalizer builds report records. It holds no mutable state and is safe for
// concurrent use.
type Normalizer struct {
	opts   Options
	parser period.Parser
	log    zerolog.Logger
	now    func() time.Time
}

// New creates a Normalizer. Zero option fields take their defaults.
func New(opts Options, log zerolog.Logger) *Normalizer {
	def := DefaultOptions()
	if opts.DefaultPeriod == "" {
		opts.DefaultPeriod = def.DefaultPeriod
	}
	if opts.DefaultCompany == "" {
		opts.DefaultCompany = def.DefaultCompany
	}
	if opts.FiscalYearEnd == "" {
		opts.FiscalYearEnd = def.FiscalYearEnd
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = def.Concurrency
	}
	return &Normalizer{
		opts:   opts,
		parser: period.NewParser(opts.FiscalYearEnd),
		log:    log.With().Str("component", "normalizer").Logger(),
		now:    utils.NowIST,
	}
}

// Options returns the effective options.
func (n *Normalizer) Options() Options { return n.opts }

// builder accumulates one record. It lives for a single NormalizeReport call.
type builder struct {
	n    *Normalizer
	data map[string]any
	base BaseContext
	rec  *models.ReportRecord
}

// NormalizeReport normalizes one report payload. Malformed data never
// fails the call: unusable fields become unavailable and are recorded as
// diagnostics on the returned record.
func (n *Normalizer) NormalizeReport(name string, raw any, base BaseContext) models.ReportRecord {
	kind := models.KindOf(name)
	rec := models.ReportRecord{
		Name:           name,
		Kind:           kind,
		MissingDisplay: kind.MissingDisplay(),
	}

	data, ok := raw.(map[string]any)
	if !ok {
		rec.CompanyName = n.companyName(nil, base)
		rec.CIN = base.CIN
		rec.Period = n.resolvePeriod(base.Period)
		rec.Diagnostics = append(rec.Diagnostics, models.Diagnostic{
			Field: name,
			Err:   models.ErrTypeMismatch.Error(),
		})
		n.log.Debug().Str("report", name).Msgf("payload is %T, not an object", raw)
		return rec
	}

	b := &builder{n: n, data: data, base: base, rec: &rec}
	b.header()

	if msg := resolve.String(data, "error"); msg != "" {
		rec.Error = msg
		return rec
	}

	switch kind {
	case models.KindBalanceSheet:
		b.balanceSheet()
	case models.KindProfitLoss:
		b.profitLoss()
	case models.KindCashFlow:
		b.cashFlow()
	case models.KindAccountingRatios:
		b.accountingRatios()
	default:
		b.generic()
	}

	if rec.Ratios != nil {
		rec.MissingDisplay = models.MissingRatio
	}

	for _, d := range rec.Diagnostics {
		n.log.Debug().Str("report", name).Str("field", d.Field).Msg(d.Err)
	}
	return rec
}

// defaultPeriod parses the configured default period. An unusable default
// falls back to the current fiscal year end.
func (n *Normalizer) defaultPeriod() models.PeriodLabel {
	if l, err := n.parser.Parse(n.opts.DefaultPeriod); err == nil {
		return l
	}
	return n.parser.YearEnding(n.now())
}

func (n *Normalizer) resolvePeriod(raw string) models.PeriodLabel {
	if l, err := n.parser.Parse(raw); err == nil {
		return l
	}
	return n.defaultPeriod()
}

func (n *Normalizer) companyName(data map[string]any, base BaseContext) string {
	if s := resolve.String(data, "company_name", "companyName", "company"); s != "" {
		return s
	}
	if base.CompanyName != "" {
		return base.CompanyName
	}
	return n.opts.DefaultCompany
}

// header fills company, CIN and the period labels.
func (b *builder) header() {
	b.rec.CompanyName = b.n.companyName(b.data, b.base)
	b.rec.CIN = resolve.String(b.data, "cin")
	if b.rec.CIN == "" {
		b.rec.CIN = b.base.CIN
	}

	raw := payload.ScalarText(resolve.First(b.data, "period", "year").Value)
	if raw == "" {
		raw = b.base.Period
	}
	cur, err := b.n.parser.Parse(raw)
	if err != nil {
		if raw != "" && raw != period.CurrentPeriod {
			b.diag("period", err)
		}
		cur = b.n.defaultPeriod()
	}
	b.rec.Period = cur

	if prev, ok := b.previousPeriod(cur); ok {
		b.rec.PreviousPeriod = &prev
	}
}

// previousPeriod walks the previous-period chain: an explicit label, then
// the current period one year back, then the default period one year back.
func (b *builder) previousPeriod(cur models.PeriodLabel) (models.PeriodLabel, bool) {
	explicit := []string{
		payload.ScalarText(resolve.First(b.data, "previous_period", "previousPeriod").Value),
		b.base.PreviousPeriod,
		payload.ScalarText(resolve.First(b.data, "previous_year_label").Value),
	}
	for _, raw := range explicit {
		if raw == "" {
			continue
		}
		l, err := b.n.parser.Parse(raw)
		if err == nil {
			return l, true
		}
		b.diag("previous_period", err)
	}

	if prev, err := period.Previous(cur); err == nil {
		return prev, true
	}
	def := b.n.defaultPeriod()
	if prev, err := period.Previous(def); err == nil {
		return prev, true
	}
	return models.PeriodLabel{}, false
}

func (b *builder) previousPeriodOrZero() models.PeriodLabel {
	if b.rec.PreviousPeriod == nil {
		return models.PeriodLabel{}
	}
	return *b.rec.PreviousPeriod
}

func (b *builder) diag(field string, err error) {
	b.rec.Diagnostics = append(b.rec.Diagnostics, models.Diagnostic{Field: field, Err: err.Error()})
}

// statement extracts a statement's current-year items and, when the payload
// carries prior-year values, a previous-year sibling record.
func (b *builder) statement(fields []field) {
	cur := extract(fields, b.data, true, nil)
	b.rec.Items = cur.items
	b.rec.Diagnostics = append(b.rec.Diagnostics, cur.diags...)
	if !cur.anyProvided() {
		b.diag(b.rec.Name, fmt.Errorf("no line items: %w", models.ErrFieldMissing))
	}

	prevRoot := resolve.Object(b.data, "previous_year", "previousYear")
	prev := extract(fields, prevRoot, false, b.data)
	b.rec.Diagnostics = append(b.rec.Diagnostics, prev.diags...)
	if !prev.anyProvided() {
		return
	}
	b.rec.PreviousYear = &models.ReportRecord{
		Name:           b.rec.Name,
		Kind:           b.rec.Kind,
		CompanyName:    b.rec.CompanyName,
		CIN:            b.rec.CIN,
		Period:         b.previousPeriodOrZero(),
		Items:          prev.items,
		MissingDisplay: b.rec.MissingDisplay,
	}
}
