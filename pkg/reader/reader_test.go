package reader

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const preamble = "UK HM Treasury Consolidated List,,,\n"

// buildCSV renders a preamble line, the full required header and the
// given rows, each row expressed as column name to cell value.
func buildCSV(t *testing.T, rows ...map[string]string) string {
	t.Helper()

	header := requiredColumns()
	var buf bytes.Buffer
	buf.WriteString(preamble)

	w := csv.NewWriter(&buf)
	require.NoError(t, w.Write(header))
	for _, row := range rows {
		cells := make([]string, len(header))
		for i, col := range header {
			cells[i] = row[col]
		}
		require.NoError(t, w.Write(cells))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return buf.String()
}

func newTestReader() *Reader {
	return NewReader(zap.NewNop(), Options{SkipLines: 1})
}

func TestReadParsesRows(t *testing.T) {
	input := buildCSV(t,
		map[string]string{
			ColGroupID: "7001",
			"Name 1":   "John",
			"Name 6":   "Smith",
			ColRegime:  "Russia",
			ColDOB:     "15/06/1980",
		},
		map[string]string{
			ColGroupID:   "7002",
			ColTitle:     "Dr",
			"Name 1":     "Aziz",
			ColGroupType: "Individual",
		},
	)

	records, err := newTestReader().Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 7001, records[0].GroupID)
	assert.Equal(t, "John", records[0].Names[0].Value())
	assert.Equal(t, "Smith", records[0].Names[5].Value())
	assert.Equal(t, "Russia", records[0].Regime.Value())
	assert.Equal(t, "15/06/1980", records[0].DOBRaw.Value())
	assert.False(t, records[0].Title.Present())
	assert.Equal(t, 3, records[0].RowNum, "row number counts from the top of the file")

	assert.Equal(t, 7002, records[1].GroupID)
	assert.Equal(t, "Dr", records[1].Title.Value())
	assert.Equal(t, "Individual", records[1].GroupType.Value())
}

func TestReadStripsByteOrderMark(t *testing.T) {
	input := "\ufeff" + buildCSV(t, map[string]string{ColGroupID: "1", "Name 1": "X"})

	records, err := newTestReader().Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, records[0].GroupID)
}

func TestReadReportsAllMissingColumns(t *testing.T) {
	input := preamble + "Group ID,Name 1\n1,John\n"

	_, err := newTestReader().Read(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required columns missing")
	assert.Contains(t, err.Error(), ColRegime)
	assert.Contains(t, err.Error(), ColLastUpdated)
}

func TestReadRejectsAbsentGroupID(t *testing.T) {
	input := buildCSV(t,
		map[string]string{ColGroupID: "1", "Name 1": "X"},
		map[string]string{"Name 1": "Y"},
	)

	_, err := newTestReader().Read(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 4")
	assert.Contains(t, err.Error(), "absent")
}

func TestReadRejectsNonIntegerGroupID(t *testing.T) {
	input := buildCSV(t, map[string]string{ColGroupID: "G-7001", "Name 1": "X"})

	_, err := newTestReader().Read(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"G-7001"`)
	assert.Contains(t, err.Error(), "not an integer")
}

func TestReadRejectsEmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty stream",
			input: "",
			want:  "input ended before the header row",
		},
		{
			name:  "preamble only",
			input: preamble,
			want:  "input ended before the header row",
		},
		{
			name:  "header but no data rows",
			input: buildCSV(t),
			want:  "no data rows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestReader().Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadToleratesShortRows(t *testing.T) {
	// A row narrower than the header carries absent fields, not an error.
	input := preamble + strings.Join(requiredColumns(), ",") + "\n5,,John\n"

	records, err := newTestReader().Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 5, records[0].GroupID)
	assert.False(t, records[0].LastUpdated.Present())
}

func TestReadWithoutPreamble(t *testing.T) {
	input := buildCSV(t, map[string]string{ColGroupID: "9", "Name 1": "X"})
	input = strings.TrimPrefix(input, preamble)

	r := NewReader(zap.NewNop(), Options{SkipLines: 0})
	records, err := r.Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 9, records[0].GroupID)
}
