package scheduling

import "fmt"

// ValidationError reports a reference the request named but the system does
// not know. It is raised before any schedule read or write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps a transaction or query failure. The pgx transaction
// boundary guarantees any partial writes were rolled back before this
// surfaces.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
