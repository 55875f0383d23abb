package utils

import (
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30).
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback: create fixed zone if tz database is not available
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// NowIST returns the current time in IST.
func NowIST() time.Time {
	return time.Now().In(IST)
}

// ToIST converts a time.Time to IST.
func ToIST(t time.Time) time.Time {
	return t.In(IST)
}

// FiscalYearEnd returns the first fiscal year end (day, month) on or after
// t, in IST. FiscalYearEnd(t, 31, time.March) is the Indian fiscal year end.
func FiscalYearEnd(t time.Time, day int, month time.Month) time.Time {
	d := ToIST(t)
	year := d.Year()
	if d.Month() > month || (d.Month() == month && d.Day() > day) {
		year++
	}
	return time.Date(year, month, day, 0, 0, 0, 0, IST)
}

// FormatDateTimeIST formats a time.Time to "2006-01-02 15:04:05 IST".
func FormatDateTimeIST(t time.Time) string {
	return t.In(IST).Format("2006-01-02 15:04:05 IST")
}
