package probe

import "fmt"

// Package is an installed distribution reported by pip
type Package struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// FailureKind categorizes why an environment's package list is unavailable
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureMissingInterpreter
	FailureLaunch
	FailureExit
	FailureTimeout
	FailureMalformedOutput
	FailureUnknown
)

// String returns a human-readable failure kind
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureMissingInterpreter:
		return "missing interpreter"
	case FailureLaunch:
		return "launch failed"
	case FailureExit:
		return "non-zero exit"
	case FailureTimeout:
		return "timed out"
	case FailureMalformedOutput:
		return "malformed output"
	default:
		return "unknown error"
	}
}

// Result is the outcome of probing one environment. Exactly one of Packages
// (possibly empty) or a non-None Failure is meaningful.
type Result struct {
	Interpreter string
	Packages    []Package
	Failure     FailureKind
	Err         error
}

// Broken reports whether the package list could not be retrieved
func (r Result) Broken() bool {
	return r.Failure != FailureNone
}

// Reason returns a diagnostic for a broken result, or "" for a healthy one
func (r Result) Reason() string {
	if !r.Broken() {
		return ""
	}
	if r.Err == nil {
		return r.Failure.String()
	}
	return fmt.Sprintf("%s: %v", r.Failure, r.Err)
}

func failed(interp string, kind FailureKind, err error) Result {
	return Result{Interpreter: interp, Failure: kind, Err: err}
}
