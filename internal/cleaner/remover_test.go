package cleaner

import (
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenilsonani/venvsweep/internal/security"
	"github.com/fenilsonani/venvsweep/internal/testutil"
)

type fakeValidator struct {
	err error
}

func (v fakeValidator) ValidatePathForDeletion(string) error { return v.err }

func asDeletionError(t *testing.T, err error) *DeletionError {
	t.Helper()
	var delErr *DeletionError
	require.True(t, errors.As(err, &delErr), "expected *DeletionError, got %T", err)
	return delErr
}

func TestRemoveDeletesTree(t *testing.T) {
	f := testutil.NewFixture(t)
	env := f.CreateVenv("project/.venv")
	f.CreateSizedFile("project/.venv/lib/python3.12/site-packages/pkg/mod.py", 128, 0)

	err := NewRemover(nil, nil).Remove(env)

	require.NoError(t, err)
	f.AssertFileNotExists(env)
	f.AssertFileExists(f.Path("project"))
}

func TestRemoveMissingPathFails(t *testing.T) {
	f := testutil.NewFixture(t)

	err := NewRemover(nil, nil).Remove(f.Path("gone"))

	delErr := asDeletionError(t, err)
	assert.Equal(t, ErrorNotFound, delErr.Reason)
}

func TestRemoveRefusesRegularFile(t *testing.T) {
	f := testutil.NewFixture(t)
	file := f.CreateFile("pyvenv.cfg", []byte("home = /usr/bin"))

	err := NewRemover(nil, nil).Remove(file)

	assert.Equal(t, ErrorNotDirectory, asDeletionError(t, err).Reason)
	f.AssertFileExists(file)
}

func TestRemoveRefusesSymlink(t *testing.T) {
	testutil.SkipOnWindows(t)

	f := testutil.NewFixture(t)
	env := f.CreateVenv("real")
	link := f.CreateSymlink(env, "link")

	err := NewRemover(nil, nil).Remove(link)

	assert.Equal(t, ErrorInvalidPath, asDeletionError(t, err).Reason)
	f.AssertFileExists(env)
}

func TestRemoveRefusesProtectedPath(t *testing.T) {
	f := testutil.NewFixture(t)
	env := f.CreateVenv("keep")

	pv := security.NewPathValidator(nil)
	pv.AddProtectedPath(env)

	err := NewRemover(pv, nil).Remove(env)

	assert.Equal(t, ErrorProtectedPath, asDeletionError(t, err).Reason)
	f.AssertFileExists(env)
}

func TestRemoveRefusesRelativePath(t *testing.T) {
	err := NewRemover(nil, nil).Remove("relative/.venv")

	assert.Equal(t, ErrorInvalidPath, asDeletionError(t, err).Reason)
}

func TestRemoveReadOnlyParent(t *testing.T) {
	testutil.SkipOnWindows(t)
	testutil.SkipIfRoot(t)

	f := testutil.NewFixture(t)
	env := f.CreateVenv("locked/.venv")
	parent := f.Path("locked")
	require.NoError(t, os.Chmod(parent, 0555))
	t.Cleanup(func() { os.Chmod(parent, 0755) })

	err := NewRemover(nil, nil).Remove(env)

	assert.Equal(t, ErrorPermissionDenied, asDeletionError(t, err).Reason)
	// nothing inside was touched
	f.AssertFileExists(f.Path("locked/.venv/pyvenv.cfg"))
}

func TestRemoveRetriesWhileBusy(t *testing.T) {
	r := NewRemover(fakeValidator{err: &os.PathError{Op: "unlinkat", Path: "/env", Err: syscall.EBUSY}}, nil)
	var slept []time.Duration
	r.sleep = func(d time.Duration) { slept = append(slept, d) }

	err := r.Remove("/env")

	delErr := asDeletionError(t, err)
	assert.Equal(t, ErrorInUse, delErr.Reason)
	assert.Equal(t, DefaultRetryDelays, slept)
}

func TestRemoveDoesNotRetryPermanentFailures(t *testing.T) {
	r := NewRemover(fakeValidator{err: syscall.EACCES}, nil)
	calls := 0
	r.sleep = func(time.Duration) { calls++ }

	err := r.Remove("/env")

	assert.Equal(t, ErrorPermissionDenied, asDeletionError(t, err).Reason)
	assert.Zero(t, calls)
}

func TestIsSafeToDelete(t *testing.T) {
	f := testutil.NewFixture(t)
	dir := f.CreateDir("env")
	file := f.CreateFile("file", nil)

	assert.NoError(t, IsSafeToDelete(dir))
	assert.ErrorIs(t, IsSafeToDelete(file), errNotDirectory)
	assert.Error(t, IsSafeToDelete(f.Path("missing")))
}

func TestCanDelete(t *testing.T) {
	f := testutil.NewFixture(t)
	env := f.CreateDir("env")

	ok, err := NewPermissionManager().CanDelete(env)

	require.NoError(t, err)
	assert.True(t, ok)

	_, err = NewPermissionManager().CanDelete(f.Path("missing"))
	assert.Error(t, err)
}
