package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finreg-data/sanctions-ingress/pkg/country"
	"github.com/finreg-data/sanctions-ingress/pkg/dates"
	"github.com/finreg-data/sanctions-ingress/pkg/model"
)

func newTestAggregator() *Aggregator {
	normalizer := country.NewNormalizer(country.DefaultSynonyms(), nil)
	return NewAggregator(normalizer, zap.NewNop())
}

func TestPartition(t *testing.T) {
	records := []model.CleanRecord{
		{RawRecord: model.RawRecord{GroupID: 300}},
		{RawRecord: model.RawRecord{GroupID: 100}},
		{RawRecord: model.RawRecord{GroupID: 300}},
		{RawRecord: model.RawRecord{GroupID: 200}},
	}

	keys, groups := Partition(records)

	assert.Equal(t, []int{100, 200, 300}, keys)
	assert.Len(t, groups[100], 1)
	assert.Len(t, groups[200], 1)
	assert.Len(t, groups[300], 2)

	total := 0
	for _, g := range groups {
		total += len(g)
	}
	assert.Equal(t, len(records), total, "every row lands in exactly one group")
}

func TestReduceSingleValuedFields(t *testing.T) {
	agg := newTestAggregator()

	a := cleanRow("John Smith", "Primary name")
	a.GroupID = 7001
	a.GroupType = model.NewField("Individual")
	a.Regime = model.NewField("Russia")
	a.ListedOnDate = model.NewField("2014-03-21")
	a.DateDesigDate = model.NewField("2020-12-31")
	a.LastUpdatedDate = model.NewField("2022-05-01")

	b := cleanRow("Jon Smith", "AKA")
	b.GroupID = 7001
	b.GroupType = model.NewField("Entity")
	b.LastUpdatedDate = model.NewField("2023-11-15")

	rec := agg.Reduce(7001, []model.CleanRecord{a, b})

	assert.Equal(t, 7001, rec.GroupID)
	assert.Equal(t, "John Smith", rec.PrimaryName.Value())
	assert.Equal(t, "Jon Smith", rec.Aliases.Value())
	assert.Equal(t, "Individual", rec.GroupType.Value(), "first present value wins")
	assert.Equal(t, "Russia", rec.Regime.Value())
	assert.Equal(t, "2014-03-21", rec.ListedOn.Value())
	assert.Equal(t, "2020-12-31", rec.DateDesignated.Value())
	assert.Equal(t, "2023-11-15", rec.LastUpdated.Value(), "last updated takes the maximum across the group")
}

func TestReduceLastUpdatedIgnoresRowOrder(t *testing.T) {
	agg := newTestAggregator()

	a := cleanRow("X", "Primary name")
	a.GroupID = 1
	a.LastUpdatedDate = model.NewField("2024-01-02")
	b := cleanRow("Y", "AKA")
	b.GroupID = 1
	b.LastUpdatedDate = model.NewField("2019-06-30")

	rec := agg.Reduce(1, []model.CleanRecord{a, b})
	assert.Equal(t, "2024-01-02", rec.LastUpdated.Value())
}

func TestReduceDOB(t *testing.T) {
	agg := newTestAggregator()

	withDOB := func(raw string) model.CleanRecord {
		r := cleanRow("X", "")
		r.GroupID = 1
		r.DOBRaw = model.NewField(raw)
		r.DOB = dates.ParseDOB(raw)
		return r
	}

	t.Run("mixed precisions accumulate", func(t *testing.T) {
		group := []model.CleanRecord{
			withDOB("15/06/1980"),
			withDOB("00/00/1975"),
			withDOB("15/06/1980"),
		}

		rec := agg.Reduce(1, group)
		assert.Equal(t, "1980-06-15", rec.DOBParsedAgg.Value(), "only full dates reach the date column")
		assert.Equal(t, "1980; 1975", rec.DOBYearAgg.Value())
		assert.Equal(t, "Full Date; Year Only", rec.DOBPrecisionAgg.Value())
	})

	t.Run("malformed date contributes unknown precision", func(t *testing.T) {
		group := []model.CleanRecord{withDOB("circa 1980")}

		rec := agg.Reduce(1, group)
		assert.False(t, rec.DOBParsedAgg.Present())
		assert.False(t, rec.DOBYearAgg.Present())
		assert.Equal(t, "Unknown", rec.DOBPrecisionAgg.Value())
	})

	t.Run("absent date of birth contributes nothing", func(t *testing.T) {
		r := cleanRow("X", "")
		r.GroupID = 1

		rec := agg.Reduce(1, []model.CleanRecord{r})
		assert.False(t, rec.DOBParsedAgg.Present())
		assert.False(t, rec.DOBYearAgg.Present())
		assert.False(t, rec.DOBPrecisionAgg.Present())
	})
}

func TestReduceCountries(t *testing.T) {
	agg := newTestAggregator()

	a := cleanRow("X", "Primary name")
	a.GroupID = 1
	a.CountryBirth = model.NewField("Russian Federation")
	a.Nationality = model.NewField("Russia")
	a.Country = model.NewField("United Arab Emirates")

	b := cleanRow("Y", "AKA")
	b.GroupID = 1
	b.CountryBirth = model.NewField("Russia")
	b.Nationality = model.NewField("USA")

	rec := agg.Reduce(1, []model.CleanRecord{a, b})

	assert.Equal(t, "Russia", rec.CountriesOfBirth.Value(), "synonym and canonical collapse to one entry")
	assert.Equal(t, "Russia; United States", rec.Nationalities.Value())
	assert.Equal(t, "United Arab Emirates", rec.CountriesAddress.Value())
	assert.Equal(t, "Russia; United States; United Arab Emirates", rec.AllCountries.Value())
}

func TestReduceAddress(t *testing.T) {
	agg := newTestAggregator()

	a := cleanRow("X", "Primary name")
	a.GroupID = 1
	a.Addresses[0] = model.NewField("12 Main Street")
	a.Addresses[1] = model.NewField("Districtville")
	a.PostZipCode = model.NewField("10001")

	b := cleanRow("Y", "AKA")
	b.GroupID = 1
	b.Addresses[0] = model.NewField("Flat 3")
	b.Addresses[1] = model.NewField("Districtville")

	rec := agg.Reduce(1, []model.CleanRecord{a, b})

	// Column-major order: every Address 1 before any Address 2, postcode last.
	assert.Equal(t, "12 Main Street, Flat 3, Districtville, 10001", rec.FullAddressAgg.Value())
}

func TestReduceIdentifiers(t *testing.T) {
	agg := newTestAggregator()

	a := cleanRow("X", "Primary name")
	a.GroupID = 1
	a.Position = model.NewField("Minister of Defence")
	a.PassportNum = model.NewField("N1234567")
	a.NationalIDNum = model.NewField("ID-001")

	b := cleanRow("Y", "AKA")
	b.GroupID = 1
	b.Position = model.NewField("Minister of Defence")
	b.PassportNum = model.NewField("K7654321")

	rec := agg.Reduce(1, []model.CleanRecord{a, b})

	assert.Equal(t, "Minister of Defence", rec.Positions.Value())
	assert.Equal(t, "N1234567; K7654321", rec.PassportNumbersAgg.Value())
	assert.Equal(t, "ID-001", rec.NationalIDsAgg.Value())
}

func TestReduceEmptyFieldsStayAbsent(t *testing.T) {
	agg := newTestAggregator()

	r := cleanRow("Lone Entity", "Primary name")
	r.GroupID = 42

	rec := agg.Reduce(42, []model.CleanRecord{r})

	require.True(t, rec.PrimaryName.Present())
	assert.False(t, rec.Aliases.Present())
	assert.False(t, rec.CountriesOfBirth.Present())
	assert.False(t, rec.Positions.Present())
	assert.False(t, rec.FullAddressAgg.Present())
	assert.False(t, rec.LastUpdated.Present())
}
