package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "plain bytes", input: "1024", want: 1024},
		{name: "zero", input: "0", want: 0},
		{name: "bytes with B suffix", input: "512B", want: 512},
		{name: "single letter is binary", input: "100K", want: 100 * KiB},
		{name: "lowercase letter", input: "50m", want: 50 * MiB},
		{name: "iec suffix", input: "2GiB", want: 2 * GiB},
		{name: "si suffix is decimal", input: "1MB", want: 1000 * 1000},
		{name: "whitespace", input: "  10M  ", want: 10 * MiB},
		{name: "decimal value", input: "1.5G", want: GiB + GiB/2},
		{name: "empty", input: "", wantErr: true},
		{name: "negative", input: "-1M", wantErr: true},
		{name: "letters only", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSize_NegativeSentinel(t *testing.T) {
	_, err := ParseSize("-5")
	assert.ErrorIs(t, err, ErrNegativeSize)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatSize(0))
	assert.Equal(t, "1.0 KiB", FormatSize(KiB))
	assert.Equal(t, "1.5 MiB", FormatSize(MiB+MiB/2))
	assert.Equal(t, "0 B", FormatSize(-10))
}

func TestScanResult_PathsAndLookup(t *testing.T) {
	r := &ScanResult{Files: []FileInfo{
		{Path: "/d/a.txt", Size: 1},
		{Path: "/d/b.txt", Size: 2},
	}}

	assert.Equal(t, []string{"/d/a.txt", "/d/b.txt"}, r.Paths())

	fi, ok := r.Lookup("/d/b.txt")
	require.True(t, ok)
	assert.Equal(t, int64(2), fi.Size)

	_, ok = r.Lookup("/d/missing")
	assert.False(t, ok)
}
