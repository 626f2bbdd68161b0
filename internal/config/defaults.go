package config

import "time"

// DefaultProbeTimeout bounds how long one interpreter may take to list its packages
const DefaultProbeTimeout = 2 * time.Minute

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		Output:         "summary",
		ProbeTimeout:   DefaultProbeTimeout,
		ProtectedPaths: []string{},
	}
}

// GetExampleConfig returns an annotated configuration file
func GetExampleConfig() string {
	return `# venvsweep configuration file
# Pass it with --config; command-line flags override every value here.

# Show diagnostics on stderr and a determinate progress bar
verbose: false

# Include each environment's installed packages in the report
list_packages: false

# Only report environments whose newest file is older than this many days.
# Without --remove this is a dry run.
# older_than: 30

# Report format: summary, table, json or yaml
output: summary

# Per-interpreter limit for listing packages (0 disables it)
probe_timeout: 2m

# Width used to shorten paths in the live display (0 follows the terminal)
trim_width: 0

# Disable the live progress display
no_progress: false

# Directories that must never be removed, in addition to system directories
protected_paths:
  # - /home/me/projects/keep/.venv

# Removal (--remove, --remove-broken) can only be requested on the command line.
`
}
