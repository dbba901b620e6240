package transaction

import (
	"errors"
	"fmt"
)

// MalformedError is returned by record sources for a single row that could not
// be turned into an Event. Sources keep going after it; it is never fatal.
type MalformedError struct {
	Row int
	Err error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("deserialize of row %d failed: %v", e.Row, e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// IsMalformed reports whether err is a per-row MalformedError
func IsMalformed(err error) bool {
	var m *MalformedError
	return errors.As(err, &m)
}
