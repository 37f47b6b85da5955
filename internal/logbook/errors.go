package logbook

import (
	"errors"
	"fmt"
)

// CommitError reports a failed write to a member's logbook document.
//
// Commits are the one place a run touches remote state, so failures carry
// enough context to re-run by hand: which sheet, how many rows were staged,
// and the underlying cause. A commit failure never advances the member's
// watermark; an idempotent re-run reconciles via the fingerprint index.
type CommitError struct {
	Sheet string
	Rows  int
	Err   error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit %d rows to %q: %v", e.Rows, e.Sheet, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// IsCommitError reports whether err is (or wraps) a CommitError.
func IsCommitError(err error) bool {
	var ce *CommitError
	return errors.As(err, &ce)
}
