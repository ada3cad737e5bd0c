package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "iso", input: "2025-03-01"},
		{name: "iso with time", input: "2025-03-01 13:45:00"},
		{name: "rfc3339", input: "2025-03-01T08:00:00Z"},
		{name: "slashes", input: "2025/03/01"},
		{name: "dots", input: "2025.03.01"},
		{name: "compact", input: "20250301"},
		{name: "excel serial", input: "45717"},
		{name: "excel serial with time", input: "45717.75"},
		{name: "surrounding spaces", input: "  2025-03-01 "},
		{name: "empty", input: "", wantErr: true},
		{name: "text", input: "yesterday", wantErr: true},
		{name: "invalid month", input: "2025-13-01", wantErr: true},
		{name: "invalid compact", input: "20251301", wantErr: true},
		{name: "negative serial", input: "-3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}
