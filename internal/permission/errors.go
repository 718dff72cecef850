package permission

import (
	"errors"
	"fmt"
)

// ErrPermissionDenied is matched by every denial. A denial ends the turn.
var ErrPermissionDenied = errors.New("permission denied")

// DeniedError records which tool the operator refused.
type DeniedError struct {
	Tool string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("user denied tool '%s'", e.Tool)
}

func (e *DeniedError) Is(target error) bool {
	return target == ErrPermissionDenied
}
