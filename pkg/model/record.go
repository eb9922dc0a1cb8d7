// pkg/model/record.go
package model

import "strconv"

// RawRecord is one source row of the denormalized sanctions export.
// The Group ID is the only field guaranteed present; everything else is
// optional and carried as a Field.
type RawRecord struct {
	GroupID int // entity identifier, required
	RowNum  int // 1-based line number in the source file, for diagnostics

	Title         Field
	Names         [6]Field // Name 1 .. Name 6
	NameNonLatin  Field
	AliasType     Field
	GroupType     Field
	Regime        Field
	DOBRaw        Field
	CountryBirth  Field
	Nationality   Field
	Country       Field
	Position      Field
	PassportNum   Field
	NationalIDNum Field
	Addresses     [6]Field // Address 1 .. Address 6
	PostZipCode   Field
	ListedOn      Field
	DateDesig     Field // UK Sanctions List Date Designated
	LastUpdated   Field
}

// CleanRecord is a RawRecord after the per-row transform pass: all text
// fields sanitized, the DOB parsed, country fields normalized, the full
// name constructed from its component columns, and metadata dates
// rendered as sortable YYYY-MM-DD strings.
type CleanRecord struct {
	RawRecord

	ConstructedName Field
	DOB             ParsedDate

	// Metadata dates rendered YYYY-MM-DD so group-level max reduces to
	// a string comparison. Absent when the raw value failed to parse.
	ListedOnDate    Field
	DateDesigDate   Field
	LastUpdatedDate Field
}

// EntityRecord is one output row, keyed by Group ID. It is constructed
// once per distinct identifier during aggregation and immutable after.
type EntityRecord struct {
	GroupID             int
	PrimaryName         Field
	Aliases             Field
	PrimaryNameNonLatin Field
	AliasesNonLatin     Field
	GroupType           Field
	Regime              Field
	DOBParsedAgg        Field
	DOBYearAgg          Field
	DOBPrecisionAgg     Field
	CountriesOfBirth    Field
	Nationalities       Field
	CountriesAddress    Field
	AllCountries        Field
	Positions           Field
	PassportNumbersAgg  Field
	NationalIDsAgg      Field
	FullAddressAgg      Field
	ListedOn            Field
	DateDesignated      Field
	LastUpdated         Field
}

// OutputColumns is the output header, in order.
var OutputColumns = []string{
	"Group ID",
	"Primary_Name",
	"Aliases",
	"Primary_Name_Non_Latin",
	"Aliases_Non_Latin",
	"Group_Type",
	"Regime",
	"DOB_Parsed_Agg",
	"DOB_Year_Agg",
	"DOB_Precision_Agg",
	"Countries_of_Birth",
	"Nationalities",
	"Countries_Address",
	"All_Associated_Countries",
	"Positions",
	"Passport_Numbers_Agg",
	"National_IDs_Agg",
	"Full_Address_Agg",
	"Listed_On",
	"UK_Sanctions_List_Date_Designated",
	"Last_Updated",
}

// Values renders the record in OutputColumns order. Absent fields render
// as empty cells.
func (e EntityRecord) Values() []string {
	return []string{
		strconv.Itoa(e.GroupID),
		e.PrimaryName.Value(),
		e.Aliases.Value(),
		e.PrimaryNameNonLatin.Value(),
		e.AliasesNonLatin.Value(),
		e.GroupType.Value(),
		e.Regime.Value(),
		e.DOBParsedAgg.Value(),
		e.DOBYearAgg.Value(),
		e.DOBPrecisionAgg.Value(),
		e.CountriesOfBirth.Value(),
		e.Nationalities.Value(),
		e.CountriesAddress.Value(),
		e.AllCountries.Value(),
		e.Positions.Value(),
		e.PassportNumbersAgg.Value(),
		e.NationalIDsAgg.Value(),
		e.FullAddressAgg.Value(),
		e.ListedOn.Value(),
		e.DateDesignated.Value(),
		e.LastUpdated.Value(),
	}
}
