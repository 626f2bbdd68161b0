// Package reporter renders scan results.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/venvsweep/internal/scanner"
	"github.com/fenilsonani/venvsweep/internal/ui/styles"
	"github.com/fenilsonani/venvsweep/pkg/utils"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatSummary OutputFormat = "summary"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
)

// Formats lists every supported output format
var Formats = []OutputFormat{FormatSummary, FormatTable, FormatJSON, FormatYAML}

// ParseFormat validates a format name
func ParseFormat(s string) (OutputFormat, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %s (want one of summary, table, json, yaml)", s)
}

// DryRunNote is printed when an age filter was given without --remove
const DryRunNote = "Note: This was a dry run. Use --remove to actually delete the virtual environments."

// NoEnvironmentsMessage is printed when a scan finds nothing
const NoEnvironmentsMessage = "No virtual environments found."

// RemovalKind says why an environment was selected for removal
type RemovalKind string

const (
	RemovalBroken RemovalKind = "broken"
	RemovalStale  RemovalKind = "stale"
)

// Removal is the outcome of removing one environment
type Removal struct {
	Path    string      `json:"path" yaml:"path"`
	Kind    RemovalKind `json:"kind" yaml:"kind"`
	Removed bool        `json:"removed" yaml:"removed"`
	Error   string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is everything a run produced
type Report struct {
	Root         string           `json:"root" yaml:"root"`
	GeneratedAt  time.Time        `json:"generated_at" yaml:"generated_at"`
	OlderThan    *int             `json:"older_than,omitempty" yaml:"older_than,omitempty"`
	DryRun       bool             `json:"dry_run" yaml:"dry_run"`
	ListPackages bool             `json:"-" yaml:"-"`
	Summary      Summary          `json:"summary" yaml:"summary"`
	Records      []scanner.Record `json:"environments" yaml:"environments"`
	Removals     []Removal        `json:"removals,omitempty" yaml:"removals,omitempty"`
	Warnings     int              `json:"warnings" yaml:"warnings"`
}

// removalFor returns the removal recorded for path, if any
func (r *Report) removalFor(path string) (Removal, bool) {
	for _, rem := range r.Removals {
		if rem.Path == path {
			return rem, true
		}
	}
	return Removal{}, false
}

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
	styles styles.Styles
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
		styles: styles.New(writer),
	}
}

// Streams reports whether the format is written piece by piece while the
// run progresses rather than as one document at the end
func (r *Reporter) Streams() bool {
	return r.format == FormatSummary
}

// Report renders a complete report
func (r *Reporter) Report(report *Report) error {
	switch r.format {
	case FormatSummary:
		return r.reportSummary(report)
	case FormatTable:
		return r.reportTable(report)
	case FormatJSON:
		return r.reportJSON(report)
	case FormatYAML:
		return r.reportYAML(report)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// reportSummary writes the per-environment blocks followed by the totals
func (r *Reporter) reportSummary(report *Report) error {
	if len(report.Records) == 0 {
		return r.NoEnvironments()
	}

	for _, rec := range report.Records {
		if err := r.WriteRecord(rec, report.ListPackages); err != nil {
			return err
		}
		if rem, ok := report.removalFor(rec.Path); ok {
			if err := r.WriteRemoval(rem); err != nil {
				return err
			}
		}
	}

	return r.WriteFooter(report)
}

// NoEnvironments writes the message for an empty scan
func (r *Reporter) NoEnvironments() error {
	_, err := fmt.Fprintln(r.writer, NoEnvironmentsMessage)
	return err
}

// WriteRecord writes the display block for one environment
func (r *Reporter) WriteRecord(rec scanner.Record, listPackages bool) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\nPath: %s\n", rec.Path)
	fmt.Fprintf(&b, "Size: %s MB\n", utils.FormatMB(rec.SizeBytes))
	fmt.Fprintf(&b, "Age: %d days\n", rec.AgeDays)

	if rec.Broken {
		fmt.Fprintf(&b, "VEnv: %s\n", r.styles.Broken.Render("broken"))
	} else {
		fmt.Fprintf(&b, "VEnv: %s\n", r.styles.Ok.Render("ok"))
		if listPackages && len(rec.Packages) > 0 {
			b.WriteString("\nInstalled packages:\n")
			for _, pkg := range rec.Packages {
				fmt.Fprintf(&b, "  %s %s\n", pkg.Name, pkg.Version)
			}
		}
	}

	_, err := io.WriteString(r.writer, b.String())
	return err
}

// WriteRemoval writes the outcome line of one removal
func (r *Reporter) WriteRemoval(rem Removal) error {
	label := "Removing venv..."
	if rem.Kind == RemovalBroken {
		label = "Removing broken venv..."
	}

	outcome := r.styles.Success.Render("Done")
	if !rem.Removed {
		outcome = r.styles.Error.Render("Failed")
	}

	_, err := fmt.Fprintf(r.writer, "%s %s\n", label, outcome)
	return err
}

// WriteFooter writes the totals and, for a dry run, the note saying so
func (r *Reporter) WriteFooter(report *Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\nTotal virtual envs: %d\n", report.Summary.Total)
	fmt.Fprintf(&b, "Broken virtual envs: %d\n", report.Summary.Broken)
	fmt.Fprintf(&b, "Total storage used: %s MB\n",
		r.styles.Success.Render(utils.FormatMB(report.Summary.TotalBytes)))

	if report.DryRun {
		fmt.Fprintf(&b, "\n%s\n", DryRunNote)
	}

	_, err := io.WriteString(r.writer, b.String())
	return err
}

// reportTable generates a table report
func (r *Reporter) reportTable(report *Report) error {
	const pathWidth = 60

	fmt.Fprintf(r.writer, "%-60s | %-10s | %-8s | %-7s | %s\n", "Path", "Size", "Age", "Status", "Packages")
	fmt.Fprintf(r.writer, "%s\n", strings.Repeat("-", 110))

	for _, rec := range report.Records {
		status := "ok"
		packages := fmt.Sprintf("%d", len(rec.Packages))
		if rec.Broken {
			status = "broken"
			packages = "-"
		}
		if rem, ok := report.removalFor(rec.Path); ok {
			if rem.Removed {
				status = "removed"
			} else {
				status = "failed"
			}
		}

		fmt.Fprintf(r.writer, "%-60s | %-10s | %-8s | %-7s | %s\n",
			utils.TrimPath(rec.Path, pathWidth),
			utils.FormatBytes(rec.SizeBytes),
			fmt.Sprintf("%dd", rec.AgeDays),
			status,
			packages)
	}

	fmt.Fprintf(r.writer, "%s\n", strings.Repeat("-", 110))
	fmt.Fprintf(r.writer, "Total: %d environments (%d broken), %s\n",
		report.Summary.Total, report.Summary.Broken, utils.FormatBytes(report.Summary.TotalBytes))

	if report.DryRun {
		fmt.Fprintf(r.writer, "\n%s\n", DryRunNote)
	}

	return nil
}

// reportJSON generates a JSON report
func (r *Reporter) reportJSON(report *Report) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// reportYAML generates a YAML report
func (r *Reporter) reportYAML(report *Report) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(report)
}
