package reporter

import (
	"github.com/fenilsonani/venvsweep/internal/scanner"
)

// Summary aggregates a list of records. It is recomputed for every report.
type Summary struct {
	Total      int   `json:"total" yaml:"total"`
	Broken     int   `json:"broken" yaml:"broken"`
	TotalBytes int64 `json:"total_bytes" yaml:"total_bytes"`
}

// Summarize counts records, broken records and their combined size
func Summarize(records []scanner.Record) Summary {
	s := Summary{Total: len(records)}
	for _, rec := range records {
		if rec.Broken {
			s.Broken++
		}
		s.TotalBytes += rec.SizeBytes
	}
	return s
}
