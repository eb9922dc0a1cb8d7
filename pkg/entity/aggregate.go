// pkg/entity/aggregate.go
package entity

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/finreg-data/sanctions-ingress/pkg/country"
	"github.com/finreg-data/sanctions-ingress/pkg/model"
	"github.com/finreg-data/sanctions-ingress/pkg/sanitize"
)

// ListSeparator joins multi-valued fields in the output.
const ListSeparator = "; "

// addressSeparator joins address components, which read as one postal
// string rather than a list of alternatives.
const addressSeparator = ", "

// Aggregator reduces groups of cleaned rows to one EntityRecord each.
type Aggregator struct {
	normalizer *country.Normalizer
	logger     *zap.Logger
}

// NewAggregator creates an Aggregator.
func NewAggregator(normalizer *country.Normalizer, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		normalizer: normalizer,
		logger:     logger.With(zap.String("component", "aggregator")),
	}
}

// Partition groups rows by entity identifier. Grouping is stable: rows
// keep their original order within a group, no row is lost and none is
// assigned twice. Keys come back sorted ascending for output order.
func Partition(records []model.CleanRecord) ([]int, map[int][]model.CleanRecord) {
	groups := make(map[int][]model.CleanRecord)
	keys := make([]int, 0)
	for _, rec := range records {
		if _, exists := groups[rec.GroupID]; !exists {
			keys = append(keys, rec.GroupID)
		}
		groups[rec.GroupID] = append(groups[rec.GroupID], rec)
	}
	sort.Ints(keys)
	return keys, groups
}

// Reduce merges one group into an EntityRecord. Conflicting
// single-valued fields are a tolerated anomaly: first in group order
// wins. Multi-valued fields dedupe by exact equality after
// normalization, preserving first-seen order.
func (a *Aggregator) Reduce(groupID int, group []model.CleanRecord) model.EntityRecord {
	names := Classify(group)

	if claims := countPrimaryClaims(group); claims > 1 {
		a.logger.Warn("Multiple rows claim primary name, first wins",
			zap.Int("groupID", groupID),
			zap.Int("claims", claims))
	}

	rec := model.EntityRecord{
		GroupID:             groupID,
		PrimaryName:         names.Primary,
		Aliases:             joinSet(names.Aliases, ListSeparator),
		PrimaryNameNonLatin: names.PrimaryNonLatin,
		AliasesNonLatin:     joinSet(names.AliasesNonLatin, ListSeparator),
	}

	rec.GroupType = firstPresent(group, func(r model.CleanRecord) model.Field { return r.GroupType })
	rec.Regime = firstPresent(group, func(r model.CleanRecord) model.Field { return r.Regime })
	rec.ListedOn = firstPresent(group, func(r model.CleanRecord) model.Field { return r.ListedOnDate })
	rec.DateDesignated = firstPresent(group, func(r model.CleanRecord) model.Field { return r.DateDesigDate })
	rec.LastUpdated = maxPresent(group, func(r model.CleanRecord) model.Field { return r.LastUpdatedDate })

	rec.DOBParsedAgg, rec.DOBYearAgg, rec.DOBPrecisionAgg = a.reduceDOB(group)

	birth := collectSet(group, func(r model.CleanRecord) model.Field { return r.CountryBirth })
	nationality := collectSet(group, func(r model.CleanRecord) model.Field { return r.Nationality })
	address := collectSet(group, func(r model.CleanRecord) model.Field { return r.Country })

	// Normalizing again after aggregation is deliberate: the merge can
	// surface raw variants the per-row pass never saw together, and the
	// normalizer is idempotent on values it has already produced.
	birth = a.normalizer.NormalizeSet(birth)
	nationality = a.normalizer.NormalizeSet(nationality)
	address = a.normalizer.NormalizeSet(address)

	rec.CountriesOfBirth = joinSet(birth, ListSeparator)
	rec.Nationalities = joinSet(nationality, ListSeparator)
	rec.CountriesAddress = joinSet(address, ListSeparator)

	all := make([]string, 0, len(birth)+len(nationality)+len(address))
	all = append(all, birth...)
	all = append(all, nationality...)
	all = append(all, address...)
	rec.AllCountries = joinSet(a.normalizer.NormalizeSet(all), ListSeparator)

	rec.Positions = joinSet(collectSet(group, func(r model.CleanRecord) model.Field { return r.Position }), ListSeparator)
	rec.PassportNumbersAgg = joinSet(collectSet(group, func(r model.CleanRecord) model.Field { return r.PassportNum }), ListSeparator)
	rec.NationalIDsAgg = joinSet(collectSet(group, func(r model.CleanRecord) model.Field { return r.NationalIDNum }), ListSeparator)

	rec.FullAddressAgg = a.reduceAddress(group)

	return finalClean(rec)
}

// reduceDOB collects the distinct parsed dates, years and precision
// tags across a group. Only full-precision dates reach the date column.
func (a *Aggregator) reduceDOB(group []model.CleanRecord) (dates, years, precisions model.Field) {
	seenDate := map[string]struct{}{}
	seenYear := map[int]struct{}{}
	seenPrec := map[string]struct{}{}
	var dateList, yearList, precList []string

	for _, r := range group {
		if !r.DOBRaw.Present() {
			// An absent date of birth is a missing optional field, not
			// an unknown parse; it contributes nothing.
			continue
		}
		d := r.DOB

		if canonical, ok := d.Canonical(); ok {
			if _, dup := seenDate[canonical]; !dup {
				seenDate[canonical] = struct{}{}
				dateList = append(dateList, canonical)
			}
		}
		if d.HasYear() {
			if _, dup := seenYear[d.Year]; !dup {
				seenYear[d.Year] = struct{}{}
				yearList = append(yearList, strconv.Itoa(d.Year))
			}
		}
		label := d.Precision.String()
		if _, dup := seenPrec[label]; !dup {
			seenPrec[label] = struct{}{}
			precList = append(precList, label)
		}
	}

	return joinSet(dateList, ListSeparator), joinSet(yearList, ListSeparator), joinSet(precList, ListSeparator)
}

// reduceAddress concatenates the distinct address components of a group
// in column-major order: all values of Address 1, then Address 2, and
// so on through Post/Zip Code.
func (a *Aggregator) reduceAddress(group []model.CleanRecord) model.Field {
	seen := map[string]struct{}{}
	var components []string

	appendComponent := func(f model.Field) {
		if !f.Present() {
			return
		}
		if _, dup := seen[f.Value()]; dup {
			return
		}
		seen[f.Value()] = struct{}{}
		components = append(components, f.Value())
	}

	for col := 0; col < len(group[0].Addresses); col++ {
		for _, r := range group {
			appendComponent(r.Addresses[col])
		}
	}
	for _, r := range group {
		appendComponent(r.PostZipCode)
	}

	return joinSet(components, addressSeparator)
}

// countPrimaryClaims counts rows flagged as the primary name.
func countPrimaryClaims(group []model.CleanRecord) int {
	n := 0
	for _, r := range group {
		if r.AliasType.Or("") == aliasTypePrimary {
			n++
		}
	}
	return n
}

// firstPresent returns the first present value of a field in group order.
func firstPresent(group []model.CleanRecord, field func(model.CleanRecord) model.Field) model.Field {
	for _, r := range group {
		if f := field(r); f.Present() {
			return f
		}
	}
	return model.AbsentField()
}

// maxPresent returns the maximum present value of a field. Values are
// YYYY-MM-DD renderings, so string order is date order.
func maxPresent(group []model.CleanRecord, field func(model.CleanRecord) model.Field) model.Field {
	best := model.AbsentField()
	for _, r := range group {
		f := field(r)
		if !f.Present() {
			continue
		}
		if !best.Present() || f.Value() > best.Value() {
			best = f
		}
	}
	return best
}

// collectSet gathers distinct present values of a field across a group
// in first-seen order.
func collectSet(group []model.CleanRecord, field func(model.CleanRecord) model.Field) []string {
	seen := make(map[string]struct{}, len(group))
	var out []string
	for _, r := range group {
		f := field(r)
		if !f.Present() {
			continue
		}
		if _, dup := seen[f.Value()]; dup {
			continue
		}
		seen[f.Value()] = struct{}{}
		out = append(out, f.Value())
	}
	return out
}

// joinSet renders a value set with the given separator, absent when empty.
func joinSet(values []string, sep string) model.Field {
	if len(values) == 0 {
		return model.AbsentField()
	}
	return model.NewField(strings.Join(values, sep))
}

// finalClean runs the sanitizer once more over every rendered field, in
// case joining reintroduced stray whitespace around separators.
func finalClean(rec model.EntityRecord) model.EntityRecord {
	rec.PrimaryName = sanitize.CleanField(rec.PrimaryName)
	rec.Aliases = sanitize.CleanField(rec.Aliases)
	rec.PrimaryNameNonLatin = sanitize.CleanField(rec.PrimaryNameNonLatin)
	rec.AliasesNonLatin = sanitize.CleanField(rec.AliasesNonLatin)
	rec.GroupType = sanitize.CleanField(rec.GroupType)
	rec.Regime = sanitize.CleanField(rec.Regime)
	rec.Positions = sanitize.CleanField(rec.Positions)
	rec.PassportNumbersAgg = sanitize.CleanField(rec.PassportNumbersAgg)
	rec.NationalIDsAgg = sanitize.CleanField(rec.NationalIDsAgg)
	rec.FullAddressAgg = sanitize.CleanField(rec.FullAddressAgg)
	return rec
}
