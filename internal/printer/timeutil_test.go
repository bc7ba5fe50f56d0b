package printer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/slok/taskbreak/internal/printer"
)

func TestFormatDuration(t *testing.T) {
	tests := map[string]struct {
		d        time.Duration
		expected string
	}{
		"zero":         {d: 0, expected: "0s"},
		"milliseconds": {d: 850 * time.Millisecond, expected: "850ms"},
		"seconds":      {d: 1200 * time.Millisecond, expected: "1.2s"},
		"minutes":      {d: 65*time.Second + 300*time.Millisecond, expected: "1m5s"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, printer.FormatDuration(tt.d))
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2026, 1, 30, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "2026-01-30 09:00:00 UTC", printer.FormatTimestamp(ts))
}
