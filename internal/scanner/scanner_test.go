package scanner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenilsonani/venvsweep/internal/probe"
	"github.com/fenilsonani/venvsweep/internal/progress"
	"github.com/fenilsonani/venvsweep/internal/testutil"
	"github.com/fenilsonani/venvsweep/internal/venv"
)

// fakeProber returns canned results keyed by environment path. Unknown
// paths probe as healthy with no packages.
type fakeProber struct {
	mu      sync.Mutex
	results map[string]probe.Result
	calls   []string
}

func (p *fakeProber) Probe(_ context.Context, envPath string) probe.Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, envPath)
	if r, ok := p.results[envPath]; ok {
		return r
	}
	return probe.Result{Packages: []probe.Package{}}
}

func newTestScanner(prober Prober) *Scanner {
	return New(Options{
		Detector: venv.NewDetector(venv.UnixLayout{}),
		Prober:   prober,
	})
}

func intPtr(n int) *int { return &n }

func paths(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Path)
	}
	return out
}

// resolvedFixture returns a fixture whose RootDir has symlinks resolved, so
// record paths compare equal on systems where the temp dir is a symlink
func resolvedFixture(t *testing.T) *testutil.TestFixture {
	f := testutil.NewFixture(t)
	root, err := ResolveRoot(f.RootDir)
	require.NoError(t, err)
	f.RootDir = root
	return f
}

// =============================================================================
// Scan Tests
// =============================================================================

func TestScanFindsEnvironments(t *testing.T) {
	f := resolvedFixture(t)
	a := f.CreateVenv("projects/a/.venv")
	b := f.CreateVenv("projects/b/env")
	f.CreateFile("projects/c/main.py", []byte("print('hi')"))

	prober := &fakeProber{results: map[string]probe.Result{
		b: {Failure: probe.FailureMissingInterpreter},
	}}

	result, err := newTestScanner(prober).Scan(context.Background(), f.RootDir, Filter{})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, paths(result.Records))
	assert.Empty(t, result.Warnings)

	for _, rec := range result.Records {
		switch rec.Path {
		case a:
			assert.False(t, rec.Broken)
			assert.NotNil(t, rec.Packages)
		case b:
			assert.True(t, rec.Broken)
			assert.Nil(t, rec.Packages)
			assert.Equal(t, probe.FailureMissingInterpreter, rec.Failure)
			assert.Equal(t, "missing interpreter", rec.FailureReason)
		}
	}
}

func TestScanRootIsNotACandidate(t *testing.T) {
	f := resolvedFixture(t)
	f.CreateVenv(".")

	prober := &fakeProber{}
	result, err := newTestScanner(prober).Scan(context.Background(), f.RootDir, Filter{})

	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Empty(t, prober.calls)
}

// Nested environments are not pruned: an environment inside another one is
// reported on its own, and the outer size includes the inner one.
func TestScanReportsNestedEnvironments(t *testing.T) {
	f := resolvedFixture(t)
	outer := f.CreateVenv("outer")
	inner := f.CreateVenv("outer/lib/python3.12/site-packages/vendored/.venv")

	result, err := newTestScanner(&fakeProber{}).Scan(context.Background(), f.RootDir, Filter{})

	require.NoError(t, err)
	assert.Equal(t, []string{outer, inner}, paths(result.Records))
	assert.Greater(t, result.Records[0].SizeBytes, result.Records[1].SizeBytes)
}

func TestScanFilterIsStrict(t *testing.T) {
	f := resolvedFixture(t)
	f.CreateVenv("exactly")
	f.AgeTree("exactly", 30*testutil.Day+time.Hour)
	older := f.CreateVenv("older")
	f.AgeTree("older", 31*testutil.Day+time.Hour)
	f.CreateVenv("fresh")

	prober := &fakeProber{}
	result, err := newTestScanner(prober).Scan(context.Background(), f.RootDir, Filter{OlderThan: intPtr(30)})

	require.NoError(t, err)
	require.Equal(t, []string{older}, paths(result.Records))
	assert.Equal(t, 31, result.Records[0].AgeDays)
	// filtered candidates are never probed
	assert.Equal(t, []string{older}, prober.calls)
}

func TestScanFilterZeroKeepsOnlyAgedEnvironments(t *testing.T) {
	f := resolvedFixture(t)
	f.CreateVenv("today")
	yesterday := f.CreateVenv("yesterday")
	f.AgeTree("yesterday", testutil.Day+time.Hour)

	result, err := newTestScanner(&fakeProber{}).Scan(context.Background(), f.RootDir, Filter{OlderThan: intPtr(0)})

	require.NoError(t, err)
	assert.Equal(t, []string{yesterday}, paths(result.Records))
}

func TestScanSkipsUnreadableDirectories(t *testing.T) {
	testutil.SkipOnWindows(t)
	testutil.SkipIfRoot(t)

	f := resolvedFixture(t)
	env := f.CreateVenv("ok/.venv")
	f.CreateUnreadableDir("locked")

	result, err := newTestScanner(&fakeProber{}).Scan(context.Background(), f.RootDir, Filter{})

	require.NoError(t, err)
	assert.Equal(t, []string{env}, paths(result.Records))
	assert.Len(t, result.Warnings, 1)
}

func TestScanSkipsCandidateThatCannotBeMeasured(t *testing.T) {
	testutil.SkipOnWindows(t)
	testutil.SkipIfRoot(t)

	f := resolvedFixture(t)
	f.CreateVenv("env")
	f.CreateUnreadableDir("env/lib/python3.12/site-packages/private")

	prober := &fakeProber{}
	result, err := newTestScanner(prober).Scan(context.Background(), f.RootDir, Filter{})

	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Empty(t, prober.calls)
	assert.NotEmpty(t, result.Warnings)
}

func TestScanDoesNotFollowSymlinkedDirectories(t *testing.T) {
	testutil.SkipOnWindows(t)

	f := resolvedFixture(t)
	outside := testutil.NewFixture(t)
	outside.CreateVenv("elsewhere")
	f.CreateSymlink(outside.Path("elsewhere"), "linked-env")

	result, err := newTestScanner(&fakeProber{}).Scan(context.Background(), f.RootDir, Filter{})

	require.NoError(t, err)
	assert.Empty(t, result.Records)
}

func TestScanMissingRoot(t *testing.T) {
	f := testutil.NewFixture(t)

	_, err := newTestScanner(&fakeProber{}).Scan(context.Background(), f.Path("nope"), Filter{})

	require.Error(t, err)
}

func TestScanRootIsFile(t *testing.T) {
	f := testutil.NewFixture(t)
	file := f.CreateFile("file.txt", []byte("x"))

	_, err := newTestScanner(&fakeProber{}).Scan(context.Background(), file, Filter{})

	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestScanCancelled(t *testing.T) {
	f := resolvedFixture(t)
	f.CreateVenv("env")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestScanner(&fakeProber{}).Scan(ctx, f.RootDir, Filter{})

	assert.True(t, errors.Is(err, context.Canceled))
}

func TestScanReportsProgress(t *testing.T) {
	f := resolvedFixture(t)
	f.CreateVenv("a/.venv")
	f.CreateFile("b/readme.txt", []byte("hello"))

	s := New(Options{
		Detector:   venv.NewDetector(venv.UnixLayout{}),
		Prober:     &fakeProber{},
		CountFirst: true,
	})
	pr := progress.NewProgressReporter()
	s.SetProgressReporter(pr)

	result, err := s.Scan(context.Background(), f.RootDir, Filter{})
	require.NoError(t, err)

	final := pr.GetScanProgress()
	require.NotNil(t, final)
	assert.Equal(t, progress.PhaseComplete, final.Phase)
	assert.Equal(t, 1, final.Found)
	assert.Equal(t, final.Total, final.Visited)
	assert.Equal(t, result.TotalSize(), final.FoundBytes)
}

func TestCountEntries(t *testing.T) {
	f := resolvedFixture(t)
	f.CreateFile("a/one.txt", nil)
	f.CreateFile("a/two.txt", nil)
	f.CreateDir("b")

	count, err := newTestScanner(&fakeProber{}).CountEntries(context.Background(), f.RootDir)

	require.NoError(t, err)
	// a, a/one.txt, a/two.txt, b
	assert.Equal(t, 4, count)
}

// =============================================================================
// Measure Tests
// =============================================================================

func TestMeasureExactSize(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateSizedFile("env/a.bin", 1000, 0)
	f.CreateSizedFile("env/sub/b.bin", 24, 0)
	f.CreateSizedFile("env/sub/deeper/c.bin", 0, 0)

	stats, err := Measure(f.Path("env"))

	require.NoError(t, err)
	assert.Equal(t, int64(1024), stats.SizeBytes)
	assert.Equal(t, 3, stats.Files)
}

func TestMeasureAgeUsesNewestFile(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateSizedFile("env/old.bin", 1, 90*testutil.Day)
	f.CreateSizedFile("env/newer.bin", 1, 7*testutil.Day+time.Hour)

	stats, err := Measure(f.Path("env"))

	require.NoError(t, err)
	assert.Equal(t, 7, stats.AgeDays(time.Now()))
}

func TestMeasureEmptyDirectoryIsAgeZero(t *testing.T) {
	f := testutil.NewFixture(t)
	dir := f.CreateDir("empty/nested")
	f.SetAge(dir, 100*testutil.Day)

	stats, err := Measure(f.Path("empty"))

	require.NoError(t, err)
	assert.Zero(t, stats.SizeBytes)
	assert.Zero(t, stats.AgeDays(time.Now()))
}

func TestMeasureFollowsFileSymlinks(t *testing.T) {
	testutil.SkipOnWindows(t)

	f := testutil.NewFixture(t)
	target := f.CreateSizedFile("outside/python3.12", 4096, 0)
	f.CreateSizedFile("env/pyvenv.cfg", 100, 0)
	f.CreateSymlink(target, "env/bin/python")
	f.CreateSymlink(f.CreateDir("outside/dir"), "env/linked-dir")
	f.CreateSymlink(f.Path("outside/missing"), "env/bin/dangling")

	stats, err := Measure(f.Path("env"))

	require.NoError(t, err)
	assert.Equal(t, int64(4196), stats.SizeBytes)
	assert.Equal(t, 2, stats.Files)
}

func TestAgeDaysFutureFile(t *testing.T) {
	now := time.Now()
	stats := Stats{Files: 1, Newest: now.Add(time.Hour)}

	assert.Zero(t, stats.AgeDays(now))
}

func TestFilterKeeps(t *testing.T) {
	assert.True(t, Filter{}.Keeps(0))
	assert.False(t, Filter{OlderThan: intPtr(5)}.Keeps(5))
	assert.True(t, Filter{OlderThan: intPtr(5)}.Keeps(6))
}
