package connector

import "fmt"

// ConflictError is returned by Send when the target container already
// exists and the descriptor does not enable upsert. No remote state has
// been modified when this error is returned.
type ConflictError struct {
	Container string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("connector: container %q already exists and upsert is not set", e.Container)
}
