package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/seenimoa/finlens/internal/normalize"
	"github.com/seenimoa/finlens/pkg/models"
	"github.com/seenimoa/finlens/pkg/utils"
)

// ════════════════════════════════════════════════════════════════════
// Report Renderer: normalized records to text, HTML, JSON or msgpack
// ════════════════════════════════════════════════════════════════════

// ReportFormat specifies the output format.
type ReportFormat string

const (
	FormatHTML    ReportFormat = "html"
	FormatText    ReportFormat = "text"
	FormatJSON    ReportFormat = "json"
	FormatMsgpack ReportFormat = "msgpack"
)

// ParseFormat maps a CLI flag value to a format.
func ParseFormat(s string) (ReportFormat, error) {
	switch f := ReportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatHTML, FormatText, FormatJSON, FormatMsgpack:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, html, json or msgpack)", s)
	}
}

// ReportConfig controls report rendering.
type ReportConfig struct {
	Format          ReportFormat // output format (default: text)
	Title           string       // custom report title (optional)
	Author          string       // author name (optional, default: "finlens")
	PercentDecimals int          // decimals for percentage cells
	CompactAmounts  bool         // lakh/crore notation for currency ratios
}

// DefaultReportConfig returns sensible defaults.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		Format:          FormatText,
		Author:          "finlens",
		PercentDecimals: 2,
	}
}

// ════════════════════════════════════════════════════════════════════
// Report Data: flattened for template rendering
// ════════════════════════════════════════════════════════════════════

// ReportData is the template model for one record.
type ReportData struct {
	Title       string
	CompanyName string
	CIN         string
	Author      string
	GeneratedAt string // IST formatted
	PeriodLine  string // "For the year ended 31st March 2024"
	Current     string // column header
	Previous    string // column header; empty hides the comparative column
	Error       string

	Sections    []SectionData
	RatioRows   []RatioLine
	RatioGroups []GroupData
	Tables      []TableData
	Notes       []string
}

// SectionData is a titled block of statement lines.
type SectionData struct {
	Title string
	Rows  []LineRow
}

// LineRow is one statement line with current and previous cells.
type LineRow struct {
	Label    string
	Current  string
	Previous string
	Computed bool
}

// RatioLine is one row of the analytical ratios note.
type RatioLine struct {
	Name        string
	Unit        string
	Numerator   string
	Denominator string
	Current     string
	Previous    string
	Variance    string
	Reason      string
}

// GroupData is one category of a ratio set.
type GroupData struct {
	Title string
	Rows  []GroupRow
}

// GroupRow is one ratio of a category.
type GroupRow struct {
	Name   string
	Value  string
	Source string
}

// TableData is a generic table with pre-rendered cells.
type TableData struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// ════════════════════════════════════════════════════════════════════
// Render
// ════════════════════════════════════════════════════════════════════

// Render writes one record in cfg.Format.
func Render(w io.Writer, rec models.ReportRecord, cfg ReportConfig) error {
	switch cfg.Format {
	case FormatJSON:
		return writeJSON(w, rec)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(rec)
	case FormatHTML:
		html, err := GenerateHTML(rec, cfg)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	default:
		_, err := io.WriteString(w, GenerateText(rec, cfg))
		return err
	}
}

// RenderBatch writes every record of a batch result. JSON and msgpack encode
// the result as one document; text and HTML render records in name order.
func RenderBatch(w io.Writer, res normalize.Result, cfg ReportConfig) error {
	switch cfg.Format {
	case FormatJSON:
		return writeJSON(w, res)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(res)
	}
	for _, name := range res.Names() {
		if err := Render(w, res.Records[name], cfg); err != nil {
			return fmt.Errorf("rendering %s: %w", name, err)
		}
	}
	return nil
}

// DecodeMsgpack reads a batch result written by RenderBatch.
func DecodeMsgpack(r io.Reader) (normalize.Result, error) {
	var res normalize.Result
	if err := msgpack.NewDecoder(r).Decode(&res); err != nil {
		return normalize.Result{}, fmt.Errorf("decoding msgpack: %w", err)
	}
	return res, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// GenerateHTML renders one record as a standalone HTML page.
func GenerateHTML(rec models.ReportRecord, cfg ReportConfig) (string, error) {
	data := BuildReportData(rec, cfg)

	tmpl, err := template.New("report").Parse(ReportTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// GenerateText renders one record as plain text (terminal / CLI friendly).
func GenerateText(rec models.ReportRecord, cfg ReportConfig) string {
	return renderTextReport(BuildReportData(rec, cfg))
}

// ════════════════════════════════════════════════════════════════════
// Internal: build template data
// ════════════════════════════════════════════════════════════════════

var reportTitles = map[models.Kind]string{
	models.KindBalanceSheet:     "Balance Sheet",
	models.KindProfitLoss:       "Statement of Profit and Loss",
	models.KindCashFlow:         "Cash Flow Statement",
	models.KindAccountingRatios: "Analytical Ratios",
}

var categoryTitles = map[models.Category]string{
	models.CategoryLiquidity:     "Liquidity",
	models.CategoryProfitability: "Profitability",
	models.CategoryEfficiency:    "Efficiency",
	models.CategoryLeverage:      "Leverage",
	models.CategoryActivity:      "Activity",
	models.CategoryCashFlow:      "Cash Flow",
	models.CategoryGrowth:        "Growth",
	models.CategoryTransaction:   "Transactions",
	models.CategoryBalance:       "Balance",
}

// BuildReportData flattens a record into display strings.
func BuildReportData(rec models.ReportRecord, cfg ReportConfig) ReportData {
	if cfg.Author == "" {
		cfg.Author = DefaultReportConfig().Author
	}
	data := ReportData{
		Title:       cfg.Title,
		CompanyName: rec.CompanyName,
		CIN:         rec.CIN,
		Author:      cfg.Author,
		GeneratedAt: ReportTimestamp(),
		Current:     rec.Period.Label(),
		Error:       rec.Error,
	}
	if data.Title == "" {
		data.Title = titleOf(rec)
	}

	switch rec.Kind {
	case models.KindBalanceSheet:
		data.PeriodLine = "As at " + rec.Period.Label()
	case models.KindAccountingRatios:
		data.PeriodLine = rec.Period.PeriodEnded()
	default:
		data.PeriodLine = rec.Period.YearEnded()
	}
	if rec.PreviousPeriod != nil && rec.Kind != models.KindGeneric {
		data.Previous = rec.PreviousPeriod.Label()
	}

	data.Sections = buildSections(rec, cfg)
	data.RatioRows = buildRatioLines(rec, cfg)
	if rec.Kind != models.KindAccountingRatios && rec.Ratios != nil {
		data.RatioGroups = buildGroups(*rec.Ratios, cfg)
	}
	data.Tables = buildTables(rec.Tables)
	for _, d := range rec.Diagnostics {
		data.Notes = append(data.Notes, fmt.Sprintf("%s: %s", d.Field, d.Err))
	}
	return data
}

func titleOf(rec models.ReportRecord) string {
	if t, ok := reportTitles[rec.Kind]; ok {
		return t
	}
	words := strings.Fields(strings.ReplaceAll(rec.Name, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func buildSections(rec models.ReportRecord, cfg ReportConfig) []SectionData {
	var out []SectionData
	index := make(map[string]int)
	for _, it := range rec.Items {
		title := it.Section
		if title == "" {
			title = "Details"
		}
		i, ok := index[title]
		if !ok {
			i = len(out)
			index[title] = i
			out = append(out, SectionData{Title: title})
		}

		row := LineRow{
			Label:    it.Label,
			Current:  cell(rec, it, cfg),
			Computed: it.Source == "computed",
		}
		if prev, ok := rec.Previous(it.Key); ok {
			row.Previous = cell(rec, prev, cfg)
		} else if rec.PreviousPeriod != nil && rec.Kind != models.KindGeneric {
			row.Previous = rec.MissingDisplay
		}
		out[i].Rows = append(out[i].Rows, row)
	}
	return out
}

// cell renders a line item. Statement amounts keep two decimals; cash flow
// amounts show negatives in parentheses.
func cell(rec models.ReportRecord, it models.LineItem, cfg ReportConfig) string {
	if !it.Value.IsAvailable() && it.Text != "" {
		return it.Text
	}
	f, ok := it.Value.Float()
	if !ok {
		return rec.MissingDisplay
	}
	if it.Unit == models.UnitCurrency {
		switch rec.Kind {
		case models.KindCashFlow:
			return utils.FormatCashFlow(f)
		case models.KindBalanceSheet, models.KindProfitLoss:
			return utils.FormatAmount(f)
		}
	}
	return utils.FormatValue(it.Value, it.Unit, rec.MissingDisplay, cfg.PercentDecimals)
}

func buildRatioLines(rec models.ReportRecord, cfg ReportConfig) []RatioLine {
	out := make([]RatioLine, 0, len(rec.RatioRows))
	for _, r := range rec.RatioRows {
		out = append(out, RatioLine{
			Name:        r.Name,
			Unit:        unitLabel(r.Unit),
			Numerator:   r.Numerator,
			Denominator: r.Denominator,
			Current:     ratioCell(r.Current, r.Unit, rec.MissingDisplay, cfg),
			Previous:    ratioCell(r.Previous, r.Unit, rec.MissingDisplay, cfg),
			Variance:    utils.FormatValue(r.Variance, models.UnitPercentage, rec.MissingDisplay, cfg.PercentDecimals),
			Reason:      r.Reason,
		})
	}
	return out
}

// ratioCell prints the bare number; the unit is shown in its own column.
func ratioCell(v models.Value, unit models.Unit, missing string, cfg ReportConfig) string {
	f, ok := v.Float()
	if !ok {
		return missing
	}
	if unit == models.UnitCurrency {
		if cfg.CompactAmounts {
			return utils.FormatINRCompact(f)
		}
		return utils.FormatCurrency(f)
	}
	return fmt.Sprintf("%.2f", f)
}

func unitLabel(u models.Unit) string {
	switch u {
	case models.UnitTimes:
		return "in times"
	case models.UnitPercentage:
		return "in %"
	case models.UnitCurrency:
		return "in ₹"
	default:
		return ""
	}
}

// buildGroups lists every ratio of the set; unavailable ones show
// MissingRatio so a category never silently shrinks.
func buildGroups(set models.RatioSet, cfg ReportConfig) []GroupData {
	out := make([]GroupData, 0, len(set.Groups))
	for _, g := range set.Groups {
		gd := GroupData{Title: categoryTitles[g.Category]}
		for _, r := range g.Ratios {
			gd.Rows = append(gd.Rows, GroupRow{
				Name:   r.Name,
				Value:  groupCell(r, cfg),
				Source: string(r.Source),
			})
		}
		if len(gd.Rows) > 0 {
			out = append(out, gd)
		}
	}
	return out
}

func groupCell(r models.Ratio, cfg ReportConfig) string {
	if f, ok := r.Value.Float(); ok && cfg.CompactAmounts && r.Unit == models.UnitCurrency {
		return utils.FormatINRCompact(f)
	}
	return utils.FormatValue(r.Value, r.Unit, models.MissingRatio, cfg.PercentDecimals)
}

func buildTables(tables []models.Table) []TableData {
	out := make([]TableData, 0, len(tables))
	for _, t := range tables {
		td := TableData{Title: titleOf(models.ReportRecord{Name: t.Name}), Columns: t.Columns}
		for _, row := range t.Rows {
			cells := make([]string, len(t.Columns))
			for i, c := range t.Columns {
				cells[i] = tableCell(row[c])
			}
			td.Rows = append(td.Rows, cells)
		}
		out = append(out, td)
	}
	return out
}

func tableCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return utils.FormatAmount(t)
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

// ════════════════════════════════════════════════════════════════════
// Plain-text renderer
// ════════════════════════════════════════════════════════════════════

func renderTextReport(d ReportData) string {
	var sb strings.Builder
	line := strings.Repeat("═", 72)
	thinLine := strings.Repeat("─", 72)

	sb.WriteString("\n" + line + "\n")
	sb.WriteString(fmt.Sprintf("  %s\n", d.CompanyName))
	if d.CIN != "" {
		sb.WriteString(fmt.Sprintf("  CIN: %s\n", d.CIN))
	}
	sb.WriteString(fmt.Sprintf("  %s %s\n", d.Title, d.PeriodLine))
	sb.WriteString(line + "\n")

	if d.Error != "" {
		sb.WriteString(fmt.Sprintf("\n  ✗ %s\n", d.Error))
		sb.WriteString(line + "\n")
		return sb.String()
	}

	if len(d.Sections) > 0 {
		sb.WriteString(fmt.Sprintf("  %-44s %12s %12s\n", "Particulars", d.Current, d.Previous))
		for _, s := range d.Sections {
			sb.WriteString(fmt.Sprintf("\n  ■ %s\n", s.Title))
			for _, r := range s.Rows {
				sb.WriteString(fmt.Sprintf("    %-42s %12s %12s\n", r.Label, r.Current, r.Previous))
			}
		}
		sb.WriteString(thinLine + "\n")
	}

	if len(d.RatioRows) > 0 {
		sb.WriteString(fmt.Sprintf("  %-34s %-9s %10s %10s %10s\n", "Ratio", "Unit", d.Current, d.Previous, "Variance"))
		for _, r := range d.RatioRows {
			sb.WriteString(fmt.Sprintf("  %-34s %-9s %10s %10s %10s\n", r.Name, r.Unit, r.Current, r.Previous, r.Variance))
			sb.WriteString(fmt.Sprintf("      Reason: %s\n", r.Reason))
		}
		sb.WriteString(thinLine + "\n")
	}

	for _, g := range d.RatioGroups {
		sb.WriteString(fmt.Sprintf("\n  ■ %s\n", strings.ToUpper(g.Title)))
		for _, r := range g.Rows {
			sb.WriteString(fmt.Sprintf("    %-32s %14s  (%s)\n", r.Name, r.Value, r.Source))
		}
	}
	if len(d.RatioGroups) > 0 {
		sb.WriteString(thinLine + "\n")
	}

	for _, t := range d.Tables {
		sb.WriteString(fmt.Sprintf("\n  ■ %s\n", t.Title))
		sb.WriteString("    " + strings.Join(t.Columns, " | ") + "\n")
		for _, r := range t.Rows {
			sb.WriteString("    " + strings.Join(r, " | ") + "\n")
		}
	}
	if len(d.Tables) > 0 {
		sb.WriteString(thinLine + "\n")
	}

	if len(d.Notes) > 0 {
		sb.WriteString("\n  Notes:\n")
		for _, n := range d.Notes {
			sb.WriteString("    - " + n + "\n")
		}
	}

	sb.WriteString(fmt.Sprintf("\n  Generated: %s | %s\n", d.GeneratedAt, d.Author))
	sb.WriteString(line + "\n")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// Utility: Timestamp
// ════════════════════════════════════════════════════════════════════

// ReportTimestamp returns current IST time formatted for report headers.
func ReportTimestamp() string {
	return utils.NowIST().Format("02 Jan 2006, 03:04 PM IST")
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
