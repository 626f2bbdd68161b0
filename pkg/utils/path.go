package utils

import (
	"path/filepath"
	"strings"
)

// Ellipsis marks the segments TrimPath dropped
const Ellipsis = "..."

// DefaultTrimWidth is used when the terminal width is unknown
const DefaultTrimWidth = 132

// TrimPath shortens path to at most maxLen bytes for live display.
//
// The last two segments are kept verbatim. Leading segments are packed from
// the left while they fit, and the dropped middle is replaced by "...".
// When even the two-segment suffix does not fit, the result collapses to
// ".../<last>", which may still exceed maxLen for a very long final segment.
func TrimPath(path string, maxLen int) string {
	return trimPath(path, maxLen, filepath.Separator)
}

func trimPath(path string, maxLen int, sep rune) string {
	if len(path) <= maxLen {
		return path
	}

	s := string(sep)
	parts := strings.Split(path, s)
	last := parts[len(parts)-1]
	fallback := Ellipsis + s + last

	if len(parts) < 3 {
		return fallback
	}

	end := strings.Join(parts[len(parts)-2:], s)
	// marker plus the separators on either side of it
	budget := maxLen - len(end) - len(Ellipsis) - 2
	if budget <= 0 {
		return fallback
	}
	if len(parts[0]) > budget {
		return Ellipsis + s + end
	}

	start := parts[0]
	for _, part := range parts[1 : len(parts)-2] {
		if len(start)+len(s)+len(part) > budget {
			break
		}
		start += s + part
	}

	return start + s + Ellipsis + s + end
}
