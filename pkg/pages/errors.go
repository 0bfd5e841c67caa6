package pages

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrWaitTimeout is wrapped by every WaitError.
	ErrWaitTimeout = errors.New("wait timed out")

	// ErrConfirmationMissing means no post-save landmark appeared after
	// creating an employee.
	ErrConfirmationMissing = errors.New("employee confirmation not found")
)

// WaitError reports a bounded wait that expired.
type WaitError struct {
	Selector string
	State    string
	Timeout  time.Duration
	Err      error
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s to be %s: %v", e.Timeout, e.Selector, e.State, e.Err)
}

// Unwrap exposes both ErrWaitTimeout and the underlying playwright error.
func (e *WaitError) Unwrap() []error {
	return []error{ErrWaitTimeout, e.Err}
}

// CountMismatchError reports a locator matching the wrong number of elements.
type CountMismatchError struct {
	Selector string
	Expected int
	Found    int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("expected %d elements, but found %d (%s)", e.Expected, e.Found, e.Selector)
}

// AssertionError reports element text that does not contain the expected text.
type AssertionError struct {
	Selector string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("expected %s to contain %q, got %q", e.Selector, e.Expected, e.Actual)
}
