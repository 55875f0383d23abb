package models

import (
	"fmt"
	"time"
)

// PeriodLabel is a parsed fiscal-period descriptor. Year-only inputs carry the
// fiscal year end as Day and Month with YearOnly set.
type PeriodLabel struct {
	Raw      string `json:"raw"`
	Day      int    `json:"day,omitempty"`
	Month    int    `json:"month,omitempty"`
	Year     int    `json:"year,omitempty"`
	YearOnly bool   `json:"year_only,omitempty"`
	Parsed   bool   `json:"parsed"`
}

// Label renders the period as "31st March 2024". A year-only period without a
// fiscal year end renders as the bare year; unparsed labels return Raw.
func (p PeriodLabel) Label() string {
	if !p.Parsed {
		return p.Raw
	}
	if p.Day == 0 || p.Month == 0 {
		return fmt.Sprintf("%d", p.Year)
	}
	return fmt.Sprintf("%d%s %s %d", p.Day, OrdinalSuffix(p.Day), time.Month(p.Month).String(), p.Year)
}

// PeriodEnded renders "for the period ended 31st March 2024".
func (p PeriodLabel) PeriodEnded() string {
	return "for the period ended " + p.Label()
}

// YearEnded renders "For the year ended 31st March 2024".
func (p PeriodLabel) YearEnded() string {
	return "For the year ended " + p.Label()
}

// OrdinalSuffix returns "st", "nd", "rd" or "th" for a day of month.
func OrdinalSuffix(day int) string {
	switch day {
	case 1, 21, 31:
		return "st"
	case 2, 22:
		return "nd"
	case 3, 23:
		return "rd"
	default:
		return "th"
	}
}
