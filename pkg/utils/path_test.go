package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimPathShortUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		maxLen int
	}{
		{"shorter than limit", "/home/user/venv", 80},
		{"exactly the limit", "/home/user/venv", len("/home/user/venv")},
		{"empty", "", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.path, trimPath(tt.path, tt.maxLen, '/'))
		})
	}
}

func TestTrimPathKeepsLastTwoSegments(t *testing.T) {
	path := "/home/developer/projects/client-work/2024/backend-service/.venv/lib"

	for maxLen := 20; maxLen < len(path); maxLen++ {
		got := trimPath(path, maxLen, '/')

		assert.True(t, strings.HasSuffix(got, ".venv/lib"), "maxLen=%d got %q", maxLen, got)
		assert.LessOrEqual(t, len(got), maxLen, "maxLen=%d got %q", maxLen, got)
		assert.Contains(t, got, Ellipsis)
	}
}

func TestTrimPathPacksLeadingSegments(t *testing.T) {
	path := "/home/developer/projects/client-work/backend/.venv/bin"

	got := trimPath(path, 40, '/')

	// budget = 40 - len(".venv/bin") - 5 = 26 fits "/home/developer/projects"
	assert.Equal(t, "/home/developer/projects/.../.venv/bin", got)
}

func TestTrimPathStopsAtFirstOverflow(t *testing.T) {
	path := "/a/very-long-segment-name-here/b/c/.venv/bin"

	got := trimPath(path, 30, '/')

	// "b" would fit after the overflow but packing stops at the first miss
	assert.Equal(t, "/a/.../.venv/bin", got)
}

func TestTrimPathFallsBackToLastSegment(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		maxLen int
		want   string
	}{
		{
			name:   "suffix does not fit",
			path:   "/root/some-extremely-long-directory-name/another-long-name",
			maxLen: 30,
			want:   ".../another-long-name",
		},
		{
			name:   "two segments only",
			path:   "/a-very-long-single-directory-name",
			maxLen: 10,
			want:   ".../a-very-long-single-directory-name",
		},
		{
			name:   "relative first segment too long",
			path:   "first-segment-is-long/x/y/z",
			maxLen: 20,
			want:   ".../y/z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, trimPath(tt.path, tt.maxLen, '/'))
		})
	}
}

func TestTrimPathWindowsSeparator(t *testing.T) {
	path := `C:\Users\dev\projects\service\.venv\Scripts`

	got := trimPath(path, 30, '\\')

	assert.True(t, strings.HasSuffix(got, `.venv\Scripts`))
	assert.LessOrEqual(t, len(got), 30)
}
