package domain

import "errors"

var (
	// ErrInvalidFormat is matched by every FormatError via errors.Is.
	ErrInvalidFormat = errors.New("invalid message format")

	// ErrNotReady is returned when the feed did not produce a first quote in time.
	ErrNotReady = errors.New("price feed not ready")

	// ErrConfigNotFound is returned when configuration file is missing
	ErrConfigNotFound = errors.New("configuration not found")
)

// FormatError reports a raw feed line that could not be parsed into a Quote.
type FormatError struct {
	Line  string // Offending raw line
	Field string // Failing field ("" when the field count is wrong)
	Err   error  // Underlying parse error, may be nil
}

func (e *FormatError) Error() string {
	msg := ErrInvalidFormat.Error() + ": " + e.Line
	if e.Field != "" {
		msg += " (field " + e.Field
		if e.Err != nil {
			msg += ": " + e.Err.Error()
		}
		msg += ")"
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidFormat) true for any FormatError.
func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// IsFormatError checks if an error is (or wraps) a FormatError
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
