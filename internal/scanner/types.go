package scanner

import "github.com/fenilsonani/venvsweep/internal/probe"

// Record describes one virtual environment found during a scan. Size and age
// are measured once, before the environment is probed, and never updated.
type Record struct {
	Path          string            `json:"path" yaml:"path"`
	SizeBytes     int64             `json:"size_bytes" yaml:"size_bytes"`
	AgeDays       int               `json:"age_days" yaml:"age_days"`
	Broken        bool              `json:"broken" yaml:"broken"`
	Packages      []probe.Package   `json:"packages,omitempty" yaml:"packages,omitempty"`
	Failure       probe.FailureKind `json:"-" yaml:"-"`
	FailureReason string            `json:"failure_reason,omitempty" yaml:"failure_reason,omitempty"`
}

// Filter restricts which environments a scan keeps
type Filter struct {
	// OlderThan keeps only environments whose age strictly exceeds this many days
	OlderThan *int
}

// Keeps reports whether an environment of the given age passes the filter
func (f Filter) Keeps(ageDays int) bool {
	return f.OlderThan == nil || ageDays > *f.OlderThan
}

// Result is the outcome of a scan
type Result struct {
	Records  []Record
	Warnings []error // candidates or directories skipped along the way
}

// TotalSize returns the combined size of all records
func (r *Result) TotalSize() int64 {
	var total int64
	for _, rec := range r.Records {
		total += rec.SizeBytes
	}
	return total
}
