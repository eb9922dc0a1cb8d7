// pkg/reader/columns.go
package reader

// Input column names, matched by exact header text.
const (
	ColGroupID      = "Group ID"
	ColTitle        = "Title"
	ColNameNonLatin = "Name Non-Latin Script"
	ColAliasType    = "Alias Type"
	ColGroupType    = "Group Type"
	ColRegime       = "Regime"
	ColDOB          = "DOB"
	ColCountryBirth = "Country of Birth"
	ColNationality  = "Nationality"
	ColCountry      = "Country"
	ColPosition     = "Position"
	ColPassportNum  = "Passport Number"
	ColNationalID   = "National Identification Number"
	ColPostZipCode  = "Post/Zip Code"
	ColListedOn     = "Listed On"
	ColDateDesig    = "UK Sanctions List Date Designated"
	ColLastUpdated  = "Last Updated"
)

// nameColumns and addressColumns are the numbered fragment columns.
var (
	nameColumns    = []string{"Name 1", "Name 2", "Name 3", "Name 4", "Name 5", "Name 6"}
	addressColumns = []string{"Address 1", "Address 2", "Address 3", "Address 4", "Address 5", "Address 6"}
)

// requiredColumns lists every column the pipeline reads. A header
// missing any of these is a fatal startup error.
func requiredColumns() []string {
	cols := []string{
		ColGroupID,
		ColTitle,
	}
	cols = append(cols, nameColumns...)
	cols = append(cols,
		ColNameNonLatin,
		ColAliasType,
		ColGroupType,
		ColRegime,
		ColDOB,
		ColCountryBirth,
		ColNationality,
		ColCountry,
		ColPosition,
		ColPassportNum,
		ColNationalID,
	)
	cols = append(cols, addressColumns...)
	cols = append(cols,
		ColPostZipCode,
		ColListedOn,
		ColDateDesig,
		ColLastUpdated,
	)
	return cols
}

// columnIndex maps header text to its position in a row.
type columnIndex map[string]int

// lookup returns the cell for a named column, or ok=false when the row
// is too short to carry it.
func (ci columnIndex) lookup(row []string, col string) (string, bool) {
	idx, known := ci[col]
	if !known || idx >= len(row) {
		return "", false
	}
	return row[idx], true
}
