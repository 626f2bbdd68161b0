package utils

import "github.com/dustin/go-humanize"

const (
	B  = 1
	KB = 1024 * B
	MB = 1024 * KB
)

// FormatBytes converts bytes to human-readable format
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(bytes))
}

// ToMB converts a byte count to mebibytes, the unit environments are reported in
func ToMB(bytes int64) float64 {
	return float64(bytes) / float64(MB)
}

// FormatMB renders bytes as megabytes with a thousands separator and two decimals,
// e.g. 1,234.50
func FormatMB(bytes int64) string {
	return humanize.FormatFloat("#,###.##", ToMB(bytes))
}
