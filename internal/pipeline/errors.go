package pipeline

import "fmt"

// InputError is a missing or unreadable input file. It is fatal to the
// stage that raised it; earlier stage outputs remain valid.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string { return fmt.Sprintf("reading input %s: %v", e.Path, e.Err) }
func (e *InputError) Unwrap() error { return e.Err }

// SchemaError is a missing identifier column detected by the consistency
// check while filtering is disabled.
type SchemaError struct {
	Detail string
}

func (e *SchemaError) Error() string { return "schema: " + e.Detail }
