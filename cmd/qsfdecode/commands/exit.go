package commands

import "github.com/teranos/qsfdecode/errors"

// Process exit codes
const (
	ExitCodeOK       = 0
	ExitCodeOutdated = 1 // check: the syntax file differs from the regenerated syntax
	ExitCodeError    = 2
)

// ExitError carries a process exit code alongside the error
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the exit code for err: the code of an ExitError in its
// chain, otherwise ExitCodeError
func ExitCode(err error) int {
	if err == nil {
		return ExitCodeOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitCodeError
}
