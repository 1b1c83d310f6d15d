package step

import "fmt"

// UnknownEnumError indicates a stored value outside a closed enum set.
// It surfaces as a data-integrity failure rather than a silent default.
type UnknownEnumError struct {
	Field string
	Value string
}

func (e *UnknownEnumError) Error() string {
	return fmt.Sprintf("unknown step %s %q", e.Field, e.Value)
}
