package analysis

import "errors"

// User-facing messages
const (
	msgAnalysisFailed = "Failed to analyze prompt. Please try again."
	msgEmptyPrompt    = "Please enter an assignment prompt to analyze."
)

var (
	// ErrAnalysisFailed is the single visible failure for any request or parse problem
	ErrAnalysisFailed = errors.New(msgAnalysisFailed)
	// ErrEmptyPrompt rejects blank input before any request is made
	ErrEmptyPrompt = errors.New(msgEmptyPrompt)
)

// failure collapses a cause into ErrAnalysisFailed while keeping it reachable for logs and tests
type failure struct {
	cause error
}

func (f *failure) Error() string { return msgAnalysisFailed }

func (f *failure) Unwrap() []error { return []error{ErrAnalysisFailed, f.cause} }

func fail(cause error) error {
	return &failure{cause: cause}
}

// Cause returns the underlying reason behind an ErrAnalysisFailed, or err itself
func Cause(err error) error {
	var f *failure
	if errors.As(err, &f) {
		return f.cause
	}
	return err
}
