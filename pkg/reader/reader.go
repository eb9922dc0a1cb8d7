// pkg/reader/reader.go
package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/finreg-data/sanctions-ingress/pkg/model"
	"github.com/finreg-data/sanctions-ingress/pkg/sanitize"
)

// Options configures how the source export is read.
type Options struct {
	// SkipLines is the number of preamble lines before the header row.
	// The UK export carries one metadata line above the header.
	SkipLines int
}

// Reader loads the denormalized sanctions export into RawRecords.
type Reader struct {
	logger *zap.Logger
	opts   Options
}

// NewReader creates a Reader.
func NewReader(logger *zap.Logger, opts Options) *Reader {
	return &Reader{
		logger: logger.With(zap.String("component", "reader")),
		opts:   opts,
	}
}

// ReadFile loads all rows from the file at path. Any error it returns
// is fatal for the run: a missing file, a missing required column, or a
// row whose entity identifier is absent or unparseable.
func (r *Reader) ReadFile(path string) ([]model.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file %q: %w", path, err)
	}
	defer f.Close()

	records, err := r.Read(f)
	if err != nil {
		return nil, fmt.Errorf("read input file %q: %w", path, err)
	}
	return records, nil
}

// Read parses the export from an arbitrary source. A leading UTF-8
// byte-order mark is tolerated and stripped.
func (r *Reader) Read(src io.Reader) ([]model.RawRecord, error) {
	decoded := transform.NewReader(src, unicode.UTF8BOM.NewDecoder())

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1 // rows in the export vary in width

	line := 0

	// Skip the preamble above the header.
	for i := 0; i < r.opts.SkipLines; i++ {
		if _, err := cr.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errors.New("input ended before the header row")
			}
			return nil, fmt.Errorf("read preamble line %d: %w", line+1, err)
		}
		line++
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("input ended before the header row")
		}
		return nil, fmt.Errorf("read header row: %w", err)
	}
	line++

	index, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var records []model.RawRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row after line %d: %w", line, err)
		}
		line++

		rec, err := r.buildRecord(index, row, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, errors.New("input contains no data rows")
	}

	r.logger.Info("Loaded source rows", zap.Int("rows", len(records)))
	return records, nil
}

// resolveColumns matches required columns against the header by exact
// text. All missing columns are reported together.
func resolveColumns(header []string) (columnIndex, error) {
	index := make(columnIndex, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns() {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required columns missing from header: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

// buildRecord maps one CSV row onto a RawRecord. The entity identifier
// must be present and integer; anything else is carried as-is for the
// transform stage to sanitize.
func (r *Reader) buildRecord(index columnIndex, row []string, line int) (model.RawRecord, error) {
	idRaw, _ := index.lookup(row, ColGroupID)
	idField := sanitize.Clean(idRaw)
	if !idField.Present() {
		return model.RawRecord{}, fmt.Errorf("row %d: entity identifier (%s) is absent", line, ColGroupID)
	}
	groupID, err := strconv.Atoi(idField.Value())
	if err != nil {
		return model.RawRecord{}, fmt.Errorf("row %d: entity identifier %q is not an integer", line, idField.Value())
	}

	rec := model.RawRecord{
		GroupID:       groupID,
		RowNum:        line,
		Title:         fieldAt(index, row, ColTitle),
		NameNonLatin:  fieldAt(index, row, ColNameNonLatin),
		AliasType:     fieldAt(index, row, ColAliasType),
		GroupType:     fieldAt(index, row, ColGroupType),
		Regime:        fieldAt(index, row, ColRegime),
		DOBRaw:        fieldAt(index, row, ColDOB),
		CountryBirth:  fieldAt(index, row, ColCountryBirth),
		Nationality:   fieldAt(index, row, ColNationality),
		Country:       fieldAt(index, row, ColCountry),
		Position:      fieldAt(index, row, ColPosition),
		PassportNum:   fieldAt(index, row, ColPassportNum),
		NationalIDNum: fieldAt(index, row, ColNationalID),
		PostZipCode:   fieldAt(index, row, ColPostZipCode),
		ListedOn:      fieldAt(index, row, ColListedOn),
		DateDesig:     fieldAt(index, row, ColDateDesig),
		LastUpdated:   fieldAt(index, row, ColLastUpdated),
	}
	for i, col := range nameColumns {
		rec.Names[i] = fieldAt(index, row, col)
	}
	for i, col := range addressColumns {
		rec.Addresses[i] = fieldAt(index, row, col)
	}
	return rec, nil
}

// fieldAt reads a cell as a Field. A missing or empty cell is absent.
func fieldAt(index columnIndex, row []string, col string) model.Field {
	cell, ok := index.lookup(row, col)
	if !ok || strings.TrimSpace(cell) == "" {
		return model.AbsentField()
	}
	return model.NewField(cell)
}
