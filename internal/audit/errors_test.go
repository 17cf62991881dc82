package audit_test

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/kotae42/romaudit-cli/internal/audit"
)

func TestWrapClassifies(t *testing.T) {
	err := audit.Wrap(audit.ErrStore, "commit", "checkpoint", fs.ErrPermission)
	if !errors.Is(err, audit.ErrStore) {
		t.Fatalf("wrapped error lost its marker: %v", err)
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("wrapped error lost its cause: %v", err)
	}
	if !strings.Contains(err.Error(), "commit: checkpoint") {
		t.Fatalf("detail missing from message: %v", err)
	}
}

func TestIsFatal(t *testing.T) {
	cases := []struct {
		marker error
		fatal  bool
	}{
		{audit.ErrStore, true},
		{audit.ErrCatalog, true},
		{audit.ErrLocked, true},
		{audit.ErrInput, false},
		{audit.ErrVerification, false},
	}
	for _, tc := range cases {
		err := audit.Wrap(tc.marker, "op", "", nil)
		if audit.IsFatal(err) != tc.fatal {
			t.Errorf("IsFatal(%v) = %v, want %v", tc.marker, !tc.fatal, tc.fatal)
		}
	}
}
