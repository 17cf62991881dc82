package audit

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInput marks an unreadable or inaccessible source file. Skipped
	// and counted, never fatal.
	ErrInput = errors.New("input error")
	// ErrVerification marks a post-copy digest mismatch. The placement is
	// abandoned, the run continues.
	ErrVerification = errors.New("verification error")
	// ErrStore marks a failure to persist the state store. Always fatal:
	// continuing would desynchronize future incremental runs.
	ErrStore = errors.New("store error")
	// ErrCatalog marks a catalog that could not be located or parsed.
	// Fatal, there is nothing to audit against.
	ErrCatalog = errors.New("catalog error")
	// ErrLocked marks a second instance contending for the same data
	// directory.
	ErrLocked = errors.New("already running")
)

// Wrap tags err with a taxonomy marker and operation context for later
// errors.Is classification.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err must abort the run with a non-zero exit.
// Only store-durability and catalog-load failures qualify; per-file error
// classes surface through the summary instead.
func IsFatal(err error) bool {
	return errors.Is(err, ErrStore) || errors.Is(err, ErrCatalog) || errors.Is(err, ErrLocked)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "audit failure"
	}
	return strings.Join(parts, ": ")
}
