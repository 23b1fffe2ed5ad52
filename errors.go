package lpddr6

import "fmt"

// ConfigurationError reports a problem discovered while building an Engine:
// an unknown preset name, an unresolved timing field, or a failed
// organization invariant.
type ConfigurationError struct {
	Reason string
	Cause  error
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("lpddr6: configuration error: %s: %v", e.Reason, e.Cause)
	}

	return fmt.Sprintf("lpddr6: configuration error: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// IsConfigurationError reports whether err is a *ConfigurationError.
func IsConfigurationError(err error) bool {
	_, ok := err.(*ConfigurationError)
	return ok
}

// InvalidCommandError reports that IssueCommand refused a command: either
// another command is already in flight, or the address is out of range.
// IssueCommand does not check the even-cycle rule or the timing table;
// those are CheckReady's. Unlike
// ConfigurationError, this is a normal, recoverable return value: a
// Controller is expected to call CheckReady before IssueCommand and avoid
// ever triggering it, but the Engine itself only reports it rather than
// panicking.
type InvalidCommandError struct {
	Command string
	Addr    string
	Reason  string
}

func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("lpddr6: cannot issue %s at %s: %s", e.Command, e.Addr, e.Reason)
}

// IsInvalidCommandError reports whether err is an *InvalidCommandError.
func IsInvalidCommandError(err error) bool {
	_, ok := err.(*InvalidCommandError)
	return ok
}
