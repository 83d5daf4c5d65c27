package mocap

import (
	"errors"
	"fmt"
)

// Domain errors for playback operations.
var (
	// ErrFileNotFound indicates a model description or motion file path does not resolve.
	ErrFileNotFound = errors.New("mocap: file not found")

	// ErrDimension indicates a frame width that does not match the model.
	ErrDimension = errors.New("mocap: dimension mismatch")

	// ErrConfig indicates an invalid or out of range setting.
	ErrConfig = errors.New("mocap: invalid configuration")

	// ErrEmptyTable indicates a motion table with no frames.
	ErrEmptyTable = errors.New("mocap: motion table is empty")
)

// PathError records which input could not be opened.
type PathError struct {
	Kind string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s file %q: %v", e.Kind, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// NotFound builds a PathError wrapping ErrFileNotFound.
func NotFound(kind, path string) error {
	return &PathError{Kind: kind, Path: path, Err: ErrFileNotFound}
}

// DimensionError reports expected vs. actual widths. Row is -1 when the
// mismatch is not tied to a specific row.
type DimensionError struct {
	Expected int
	Actual   int
	Row      int
	Msg      string
}

func (e *DimensionError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = "dimension mismatch"
	}
	if e.Row >= 0 {
		return fmt.Sprintf("%s: row %d: expected %d, got %d", msg, e.Row, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: expected %d, got %d", msg, e.Expected, e.Actual)
}

func (e *DimensionError) Is(target error) bool { return target == ErrDimension }

// ConfigError reports an invalid setting.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }
