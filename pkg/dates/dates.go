// pkg/dates/dates.go
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/finreg-data/sanctions-ingress/pkg/model"
)

// The source expresses dates of birth as DD/MM/YYYY where a component
// equal to literal "00" is unknown. Years outside minYear..current year
// are treated as malformed, matching the bounds the list itself obeys.
const (
	dobSeparator = "/"
	minYear      = 1900
)

// metadataLayout is the format of the Listed On / Last Updated /
// Date Designated columns.
const metadataLayout = "02/01/2006"

// ParseDOB converts a raw date-of-birth string into a ParsedDate.
// Malformed values of any kind come back with unknown precision; a bad
// date must never abort the run.
func ParseDOB(raw string) model.ParsedDate {
	unknown := model.ParsedDate{Precision: model.PrecisionUnknown}

	parts := strings.Split(strings.TrimSpace(raw), dobSeparator)
	if len(parts) != 3 {
		return unknown
	}

	dayStr, monthStr, yearStr := parts[0], parts[1], parts[2]

	// A "00" year means the whole value carries no information.
	if yearStr == "00" {
		return unknown
	}
	year, err := parseComponent(yearStr, 4)
	if err != nil || year < minYear || year > time.Now().Year() {
		return unknown
	}

	day, dayKnown, err := parsePlaceholder(dayStr)
	if err != nil {
		return unknown
	}
	month, monthKnown, err := parsePlaceholder(monthStr)
	if err != nil {
		return unknown
	}

	switch {
	case dayKnown && monthKnown:
		if day < 1 || day > 31 || month < 1 || month > 12 {
			return unknown
		}
		return model.ParsedDate{Year: year, Month: month, Day: day, Precision: model.PrecisionFull}
	case monthKnown:
		// Day placeholder: only the year is certain enough to publish,
		// but the month is retained on the parsed value.
		if month < 1 || month > 12 {
			return unknown
		}
		return model.ParsedDate{Year: year, Month: month, Precision: model.PrecisionYearOnly}
	case dayKnown:
		// A known day with an unknown month cannot occur in the source
		// format; treat it as malformed.
		return unknown
	default:
		return model.ParsedDate{Year: year, Precision: model.PrecisionYearOnly}
	}
}

// parsePlaceholder parses a day or month component. "00" is the unknown
// placeholder; anything non-numeric or wider than two digits is an error.
func parsePlaceholder(s string) (value int, known bool, err error) {
	if s == "00" {
		return 0, false, nil
	}
	v, err := parseComponent(s, 2)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func parseComponent(s string, maxDigits int) (int, error) {
	if s == "" || len(s) > maxDigits {
		return 0, fmt.Errorf("component %q out of shape", s)
	}
	return strconv.Atoi(s)
}

// ParseMetadata parses a DD/MM/YYYY metadata date (Listed On, Last
// Updated, Date Designated) and renders it YYYY-MM-DD so aggregated
// comparisons reduce to string order. Unparseable values come back
// absent with ok=false so the caller can audit them.
func ParseMetadata(f model.Field) (model.Field, bool) {
	if !f.Present() {
		return model.AbsentField(), true
	}
	t, err := time.Parse(metadataLayout, f.Value())
	if err != nil {
		return model.AbsentField(), false
	}
	return model.NewField(t.Format("2006-01-02")), true
}
