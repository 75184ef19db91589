package config

import "strconv"

// configError reports malformed or incomplete server configuration. It is
// surfaced to the caller immediately and never retried.
type configError struct{ msg string }

func (e configError) Error() string { return "config: " + e.msg }

func errMissingField(key string) error {
	return configError{msg: "missing required field " + strconv.Quote(key)}
}

func errUnknownField(key string) error {
	return configError{msg: "unknown field " + strconv.Quote(key)}
}

func errBadValue(key, reason string) error {
	return configError{msg: "field " + strconv.Quote(key) + ": " + reason}
}

// IsConfigError reports whether err indicates malformed configuration.
func IsConfigError(err error) bool {
	_, ok := err.(configError)
	return ok
}
