package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fmaignacio/observatorio-tere/internal/shared/testutil"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"2024-02-01", "2024-02-01", true},
		{" 2024-02-01 ", "2024-02-01", true},
		{"2024-02-01 18:30:00", "2024-02-01", true},
		{"2024-02-01 18:30", "2024-02-01", true},
		{"2024-02-01T18:30:00", "2024-02-01", true},
		{"2024-02-01T23:30:00-03:00", "2024-02-01", true},
		{"01/03/2024", "2024-03-01", true},
		{"01/03/2024 10:00", "2024-03-01", true},
		{"15-04-2024", "2024-04-15", true},
		{"2024/04/15", "2024-04-15", true},
		{"", "", false},
		{"sem data", "", false},
		{"31/02/2024", "", false},
		{"2024-13-01", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, testutil.Date(tt.want), got)
			} else {
				assert.True(t, got.IsZero())
			}
		})
	}
}
