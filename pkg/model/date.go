// pkg/model/date.go
package model

import "fmt"

// DatePrecision summarizes which components of a date of birth were
// literal in the source. It is never a guess: the tag reflects exactly
// the placeholder pattern that was present.
type DatePrecision int

const (
	// PrecisionUnknown means nothing usable parsed from the raw value.
	PrecisionUnknown DatePrecision = iota
	// PrecisionYearOnly means the year parsed but the day (and possibly
	// the month) carried a zero placeholder.
	PrecisionYearOnly
	// PrecisionFull means day, month and year were all literal.
	PrecisionFull
)

// String returns the label used in the aggregated precision column.
func (p DatePrecision) String() string {
	switch p {
	case PrecisionFull:
		return "Full Date"
	case PrecisionYearOnly:
		return "Year Only"
	default:
		return "Unknown"
	}
}

// ParsedDate is a date of birth of varying precision. Components equal
// to zero are unknown.
type ParsedDate struct {
	Year      int
	Month     int
	Day       int
	Precision DatePrecision
}

// Canonical renders the date as YYYY-MM-DD. Only full-precision dates
// have a canonical form; the aggregated date column never carries
// partially-specified values.
func (d ParsedDate) Canonical() (string, bool) {
	if d.Precision != PrecisionFull {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day), true
}

// HasYear reports whether at least the year component is known.
func (d ParsedDate) HasYear() bool {
	return d.Precision != PrecisionUnknown && d.Year > 0
}
