// Package period parses and derives fiscal period labels.
package period

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/seenimoa/finlens/pkg/models"
	"github.com/seenimoa/finlens/pkg/utils"
)

// Placeholder the upstream analyzer emits when it has no period.
const CurrentPeriod = "Current Period"

var (
	// "31st March 2024", "31 March 2024", "31-Mar-2024"
	dayMonthYear = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?[\s\-]+([a-z]{3,9})\.?,?[\s\-]+(\d{4})\b`)
	// "March 31, 2024", "Mar 31 2024"
	monthDayYear = regexp.MustCompile(`(?i)\b([a-z]{3,9})\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	isoDate      = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	// dd/mm/yyyy or dd-mm-yyyy
	numericDate = regexp.MustCompile(`\b(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})\b`)
	bareYear    = regexp.MustCompile(`\b(\d{4})\b`)
)

// Parser parses period strings. Year-only inputs are anchored to the fiscal
// year end.
type Parser struct {
	FiscalDay   int
	FiscalMonth time.Month
}

// Default is the Indian fiscal year end parser (31 March).
var Default = Parser{FiscalDay: 31, FiscalMonth: time.March}

// NewParser builds a parser from a "DD-MM" fiscal year end such as "31-03".
// Malformed input yields Default.
func NewParser(fiscalYearEnd string) Parser {
	parts := strings.Split(strings.TrimSpace(fiscalYearEnd), "-")
	if len(parts) != 2 {
		return Default
	}
	d, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || !validDate(d, m, 2001) {
		return Default
	}
	return Parser{FiscalDay: d, FiscalMonth: time.Month(m)}
}

// Parse parses raw with the default parser.
func Parse(raw string) (models.PeriodLabel, error) {
	return Default.Parse(raw)
}

// Parse recognises "31st March 2024", "31 March 2024", "March 31, 2024",
// "2024-03-31", "31/03/2024", "31-03-2024" and any string carrying a 4-digit
// year. Anything else returns ErrUnparseablePeriod.
func (p Parser) Parse(raw string) (models.PeriodLabel, error) {
	s := strings.TrimSpace(raw)
	label := models.PeriodLabel{Raw: raw}
	if s == "" || strings.EqualFold(s, CurrentPeriod) {
		return label, fmt.Errorf("period %q: %w", raw, models.ErrUnparseablePeriod)
	}

	if m := isoDate.FindStringSubmatch(s); m != nil {
		if l, ok := build(raw, m[3], m[2], m[1]); ok {
			return l, nil
		}
	}
	if m := dayMonthYear.FindStringSubmatch(s); m != nil {
		if mon, ok := monthByName(m[2]); ok {
			if l, ok := build(raw, m[1], strconv.Itoa(int(mon)), m[3]); ok {
				return l, nil
			}
		}
	}
	if m := monthDayYear.FindStringSubmatch(s); m != nil {
		if mon, ok := monthByName(m[1]); ok {
			if l, ok := build(raw, m[2], strconv.Itoa(int(mon)), m[3]); ok {
				return l, nil
			}
		}
	}
	if m := numericDate.FindStringSubmatch(s); m != nil {
		if l, ok := build(raw, m[1], m[2], m[3]); ok {
			return l, nil
		}
	}
	if m := bareYear.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		label.Day = p.FiscalDay
		label.Month = int(p.FiscalMonth)
		label.Year = y
		label.YearOnly = true
		label.Parsed = true
		return label, nil
	}
	return label, fmt.Errorf("period %q: %w", raw, models.ErrUnparseablePeriod)
}

// Resolve parses raw and falls back to fallback when raw is unparseable.
// The returned label keeps raw as its Raw text when raw was usable.
func (p Parser) Resolve(raw, fallback string) models.PeriodLabel {
	if l, err := p.Parse(raw); err == nil {
		return l
	}
	if l, err := p.Parse(fallback); err == nil {
		return l
	}
	return models.PeriodLabel{Raw: fallback}
}

// YearEnding returns the fiscal year end on or after now.
func (p Parser) YearEnding(now time.Time) models.PeriodLabel {
	end := utils.FiscalYearEnd(now, p.FiscalDay, p.FiscalMonth)
	l := models.PeriodLabel{Day: end.Day(), Month: int(end.Month()), Year: end.Year(), Parsed: true}
	l.Raw = l.Label()
	return l
}

// Previous returns the period one year earlier with the same day and month.
// 29 February rolls back to 28 February in non-leap years.
func Previous(l models.PeriodLabel) (models.PeriodLabel, error) {
	if !l.Parsed {
		return models.PeriodLabel{}, fmt.Errorf("previous of %q: %w", l.Raw, models.ErrUnparseablePeriod)
	}
	prev := l
	prev.Year = l.Year - 1
	if prev.Month == 2 && prev.Day == 29 && !isLeap(prev.Year) {
		prev.Day = 28
	}
	prev.Raw = prev.Label()
	return prev, nil
}

func build(raw, day, month, year string) (models.PeriodLabel, bool) {
	d, err1 := strconv.Atoi(day)
	m, err2 := strconv.Atoi(month)
	y, err3 := strconv.Atoi(year)
	if err1 != nil || err2 != nil || err3 != nil || !validDate(d, m, y) {
		return models.PeriodLabel{}, false
	}
	return models.PeriodLabel{Raw: raw, Day: d, Month: m, Year: y, Parsed: true}, true
}

func validDate(d, m, y int) bool {
	if m < 1 || m > 12 || d < 1 {
		return false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t.Day() == d && int(t.Month()) == m
}

func isLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

func monthByName(s string) (time.Month, bool) {
	s = strings.ToLower(strings.TrimSuffix(s, "."))
	if len(s) < 3 {
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if s == name || (len(s) <= len(name) && strings.HasPrefix(name, s)) {
			return m, true
		}
	}
	return 0, false
}
