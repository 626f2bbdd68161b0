package cleaner

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/fenilsonani/venvsweep/internal/security"
)

// ErrorReason categorizes why a removal failed
type ErrorReason int

const (
	ErrorPermissionDenied ErrorReason = iota
	ErrorInUse
	ErrorNotFound
	ErrorNotDirectory
	ErrorProtectedPath
	ErrorInvalidPath
	ErrorUnknown
)

// String returns a human-readable error reason
func (e ErrorReason) String() string {
	switch e {
	case ErrorPermissionDenied:
		return "Permission denied"
	case ErrorInUse:
		return "In use"
	case ErrorNotFound:
		return "Not found"
	case ErrorNotDirectory:
		return "Not a directory"
	case ErrorProtectedPath:
		return "Protected path"
	case ErrorInvalidPath:
		return "Invalid path"
	case ErrorUnknown:
		return "Unknown error"
	default:
		return "Unspecified error"
	}
}

// DeletionError represents a detailed removal error
type DeletionError struct {
	Path      string
	Reason    ErrorReason
	Original  error
	Retryable bool
}

// Error implements the error interface
func (e *DeletionError) Error() string {
	return fmt.Sprintf("%s: %s (%v)", e.Path, e.Reason, e.Original)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As
func (e *DeletionError) Unwrap() error {
	return e.Original
}

// UserMessage returns a user-friendly error message
func (e *DeletionError) UserMessage() string {
	switch e.Reason {
	case ErrorPermissionDenied:
		return fmt.Sprintf("Permission denied: %s", e.Path)
	case ErrorInUse:
		return fmt.Sprintf("Environment is being used: %s (stop the running interpreter and try again)", e.Path)
	case ErrorNotFound:
		return fmt.Sprintf("No longer exists: %s", e.Path)
	case ErrorNotDirectory:
		return fmt.Sprintf("Not a directory: %s", e.Path)
	case ErrorProtectedPath:
		return fmt.Sprintf("Refusing to remove protected path: %s", e.Path)
	case ErrorInvalidPath:
		return fmt.Sprintf("Invalid or unsafe path: %s (%v)", e.Path, e.Original)
	default:
		return fmt.Sprintf("Error removing %s: %v", e.Path, e.Original)
	}
}

// CategorizeError analyzes an error and returns a categorized DeletionError
func CategorizeError(path string, err error) *DeletionError {
	if err == nil {
		return nil
	}

	delErr := &DeletionError{
		Path:     path,
		Original: err,
		Reason:   ErrorUnknown,
	}

	if errors.Is(err, security.ErrProtectedPath) {
		delErr.Reason = ErrorProtectedPath
		return delErr
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM:
			delErr.Reason = ErrorPermissionDenied
		case syscall.EBUSY, syscall.ETXTBSY:
			delErr.Reason = ErrorInUse
			delErr.Retryable = true
		case syscall.ENOENT:
			delErr.Reason = ErrorNotFound
		case syscall.ENOTDIR:
			delErr.Reason = ErrorNotDirectory
		}
		return delErr
	}

	switch {
	case errors.Is(err, os.ErrNotExist):
		delErr.Reason = ErrorNotFound
	case errors.Is(err, os.ErrPermission):
		delErr.Reason = ErrorPermissionDenied
	}

	return delErr
}

// GroupErrors groups deletion errors by reason
func GroupErrors(errs []*DeletionError) map[ErrorReason][]*DeletionError {
	grouped := make(map[ErrorReason][]*DeletionError)
	for _, err := range errs {
		grouped[err.Reason] = append(grouped[err.Reason], err)
	}
	return grouped
}

// FormatErrorSummary creates a user-friendly summary of removal failures
func FormatErrorSummary(errs []*DeletionError) string {
	if len(errs) == 0 {
		return ""
	}

	grouped := GroupErrors(errs)
	var b strings.Builder
	b.WriteString("\nIssues encountered:\n")

	if perms, ok := grouped[ErrorPermissionDenied]; ok {
		fmt.Fprintf(&b, "   ├─ Permission denied: %d environments\n", len(perms))
		b.WriteString("   │  └─ Tip: check ownership of the environment and its parent directory\n")
	}

	if busy, ok := grouped[ErrorInUse]; ok {
		fmt.Fprintf(&b, "   ├─ In use: %d environments\n", len(busy))
		b.WriteString("   │  └─ Tip: stop processes running from the environment and retry\n")
	}

	if protected, ok := grouped[ErrorProtectedPath]; ok {
		fmt.Fprintf(&b, "   ├─ Protected: %d paths\n", len(protected))
	}

	if notFound, ok := grouped[ErrorNotFound]; ok {
		fmt.Fprintf(&b, "   ├─ Already gone: %d environments\n", len(notFound))
	}

	other := len(grouped[ErrorNotDirectory]) + len(grouped[ErrorInvalidPath]) + len(grouped[ErrorUnknown])
	if other > 0 {
		fmt.Fprintf(&b, "   └─ Other errors: %d\n", other)
	}

	return b.String()
}
