package supervisor

import "strings"

// startupError signals that the subprocess could not be spawned or never
// reached readiness. It carries the exact launch command for diagnostics.
type startupError struct {
	command []string
	reason  string
}

func (e startupError) Error() string {
	return "server startup failed: " + e.reason + " (command: " + strings.Join(e.command, " ") + ")"
}

// ErrStartup constructs a startup error for the given launch command.
func ErrStartup(command []string, reason string) error {
	return startupError{command: append([]string(nil), command...), reason: reason}
}

// IsStartupError reports whether err indicates a failed server startup.
func IsStartupError(err error) bool {
	_, ok := err.(startupError)
	return ok
}
