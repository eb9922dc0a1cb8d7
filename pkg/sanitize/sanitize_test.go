package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finreg-data/sanctions-ingress/pkg/model"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantPresent bool
		want        string
	}{
		{
			name:        "plain value passes through",
			input:       "John Smith",
			wantPresent: true,
			want:        "John Smith",
		},
		{
			name:        "leading and trailing whitespace trimmed",
			input:       "  Tripoli  ",
			wantPresent: true,
			want:        "Tripoli",
		},
		{
			name:        "internal whitespace runs collapse",
			input:       "Abu   Bakr\t al-Baghdadi",
			wantPresent: true,
			want:        "Abu Bakr al-Baghdadi",
		},
		{
			name:        "left-to-right mark removed",
			input:       "Minsk‎",
			wantPresent: true,
			want:        "Minsk",
		},
		{
			name:        "right-to-left mark and embedded controls removed",
			input:       "‏‫Damascus‬",
			wantPresent: true,
			want:        "Damascus",
		},
		{
			name:        "empty input is absent",
			input:       "",
			wantPresent: false,
		},
		{
			name:        "whitespace-only input is absent",
			input:       "   \t ",
			wantPresent: false,
		},
		{
			name:        "invisible-only input is absent",
			input:       "‎‏",
			wantPresent: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.input)
			assert.Equal(t, tt.wantPresent, got.Present())
			if tt.wantPresent {
				assert.Equal(t, tt.want, got.Value())
			}
		})
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	inputs := []string{"John  Smith", " Minsk‎ ", "plain", ""}
	for _, in := range inputs {
		once := Clean(in)
		twice := CleanField(once)
		assert.Equal(t, once, twice, "Clean(Clean(%q)) differs", in)
	}
}

func TestCleanFieldAbsentStaysAbsent(t *testing.T) {
	got := CleanField(model.AbsentField())
	assert.False(t, got.Present())
}
