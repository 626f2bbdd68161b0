// Package cleaner removes virtual environment directories with safeguards.
package cleaner

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fenilsonani/venvsweep/internal/security"
)

var (
	errSymlink      = errors.New("path is a symlink")
	errNotDirectory = errors.New("path is not a directory")
)

// DefaultRetryDelays are the pauses between attempts when an environment is in use
var DefaultRetryDelays = []time.Duration{
	100 * time.Millisecond,
	500 * time.Millisecond,
	2 * time.Second,
}

// Validator decides whether a path may be removed
type Validator interface {
	ValidatePathForDeletion(path string) error
}

// Remover deletes environment directory trees
type Remover struct {
	validator         Validator
	permissionManager *PermissionManager
	logger            *slog.Logger
	retryDelays       []time.Duration
	sleep             func(time.Duration)
}

// NewRemover creates a Remover. A nil validator refuses nothing.
func NewRemover(validator Validator, logger *slog.Logger) *Remover {
	if validator == nil {
		validator = security.NewPathValidator(nil)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Remover{
		validator:         validator,
		permissionManager: NewPermissionManager(),
		logger:            logger,
		retryDelays:       DefaultRetryDelays,
		sleep:             time.Sleep,
	}
}

// Remove deletes the directory at path and everything beneath it. It returns
// nil on success and a *DeletionError otherwise; a path that does not exist
// is a failure. Entries deleted before a failure stay deleted.
func (r *Remover) Remove(path string) error {
	if delErr := r.removeWithRetry(path); delErr != nil {
		r.logger.Warn("failed to remove environment", "path", path, "reason", delErr.Reason, "error", delErr.Original)
		return delErr
	}

	return nil
}

// removeWithRetry retries removals that failed because the tree was busy
func (r *Remover) removeWithRetry(path string) *DeletionError {
	var lastErr *DeletionError

	for attempt := 0; attempt <= len(r.retryDelays); attempt++ {
		lastErr = r.remove(path)
		if lastErr == nil || !lastErr.Retryable {
			return lastErr
		}

		if attempt < len(r.retryDelays) {
			r.logger.Debug("environment busy, retrying", "path", path, "attempt", attempt+1)
			r.sleep(r.retryDelays[attempt])
		}
	}

	return lastErr
}

func (r *Remover) remove(path string) *DeletionError {
	if err := r.validator.ValidatePathForDeletion(path); err != nil {
		delErr := CategorizeError(path, err)
		if delErr.Reason == ErrorUnknown {
			delErr.Reason = ErrorInvalidPath
		}
		return delErr
	}

	// Lstat so a directory swapped for a symlink is caught before RemoveAll
	if err := IsSafeToDelete(path); err != nil {
		switch {
		case errors.Is(err, errNotDirectory):
			return &DeletionError{Path: path, Reason: ErrorNotDirectory, Original: err}
		case errors.Is(err, errSymlink):
			return &DeletionError{Path: path, Reason: ErrorInvalidPath, Original: err}
		default:
			delErr := CategorizeError(path, err)
			if delErr.Reason == ErrorUnknown {
				delErr.Reason = ErrorInvalidPath
			}
			return delErr
		}
	}

	ok, err := r.permissionManager.CanDelete(path)
	if err != nil {
		return CategorizeError(path, err)
	}
	if !ok {
		return &DeletionError{
			Path:     path,
			Reason:   ErrorPermissionDenied,
			Original: fmt.Errorf("parent directory is not writable: %w", os.ErrPermission),
		}
	}

	if err := os.RemoveAll(path); err != nil {
		return CategorizeError(path, err)
	}

	return nil
}
