package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMB(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0.00"},
		{5 * MB, "5.00"},
		{MB + MB/2, "1.50"},
		{1234*MB + MB/2, "1,234.50"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMB(tt.bytes))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", FormatBytes(-1))
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "5.0 MiB", FormatBytes(5*MB))
}

func TestToMB(t *testing.T) {
	assert.InDelta(t, 5.0, ToMB(5242880), 1e-9)
}
